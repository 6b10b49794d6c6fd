package calculators

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monsieurgui/climbinsight/internal/domain"
	"github.com/monsieurgui/climbinsight/internal/testutils"
)

func speedResult(perf domain.SpeedPerformance) domain.RawResult {
	return domain.RawResult{
		AthleteID:  "alice",
		EventID:    "c1-final",
		Discipline: domain.DisciplineSpeed,
		Speed:      &perf,
	}
}

func TestSpeedComputeScore(t *testing.T) {
	calc, err := NewSpeedCalculator("speed", DefaultSpeedConfig())
	require.NoError(t, err)
	rs := testutils.IFSCRuleset()

	score, err := calc.ComputeScore(context.Background(), speedResult(domain.SpeedPerformance{ElapsedSeconds: 5.21}), rs)
	require.NoError(t, err)
	assert.Equal(t, 5.21, score.Value)
	assert.Equal(t, domain.DisciplineSpeed, score.Discipline)
}

func TestSpeedFalseStartScoresInfinity(t *testing.T) {
	calc, err := NewSpeedCalculator("speed", DefaultSpeedConfig())
	require.NoError(t, err)
	rs := testutils.IFSCRuleset()

	// The recorded time is irrelevant once the start was false.
	score, err := calc.ComputeScore(context.Background(),
		speedResult(domain.SpeedPerformance{ElapsedSeconds: 4.9, FalseStart: true}), rs)
	require.NoError(t, err)
	assert.True(t, math.IsInf(score.Value, 1))

	// Under speed's lower-is-better ordering the false start ranks
	// behind any finite run.
	assert.Equal(t, 1, domain.DisciplineSpeed.CompareScores(score.Value, 599.9))
}

func TestSpeedComputeScoreRejectsInvalidData(t *testing.T) {
	calc, err := NewSpeedCalculator("speed", SpeedConfig{MaxElapsedSeconds: 60})
	require.NoError(t, err)
	rs := testutils.IFSCRuleset()

	tests := []struct {
		name string
		perf domain.SpeedPerformance
	}{
		{"zero elapsed", domain.SpeedPerformance{}},
		{"negative elapsed", domain.SpeedPerformance{ElapsedSeconds: -1}},
		{"beyond maximum", domain.SpeedPerformance{ElapsedSeconds: 61}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.ComputeScore(context.Background(), speedResult(tt.perf), rs)
			assert.ErrorIs(t, err, domain.ErrInvalidPerformanceData)
		})
	}
}
