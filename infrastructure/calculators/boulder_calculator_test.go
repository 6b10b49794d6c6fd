package calculators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monsieurgui/climbinsight/internal/domain"
	"github.com/monsieurgui/climbinsight/internal/testutils"
)

func boulderResult(perf domain.BoulderPerformance) domain.RawResult {
	return domain.RawResult{
		AthleteID:  "alice",
		EventID:    "c1-final",
		Discipline: domain.DisciplineBoulder,
		Boulder:    &perf,
	}
}

func TestBoulderComputeScore(t *testing.T) {
	calc, err := NewBoulderCalculator("boulder", DefaultBoulderConfig())
	require.NoError(t, err)
	ifsc := testutils.IFSCRuleset()
	fqme := testutils.FQMERuleset()

	tests := []struct {
		name    string
		ruleset *domain.Ruleset
		perf    domain.BoulderPerformance
		want    float64
	}{
		{
			"flash",
			ifsc,
			domain.BoulderPerformance{Topped: true, ZoneReached: true, TopAttempts: 1, ZoneAttempts: 1},
			1010, // 1000 + 10, no penalties
		},
		{
			"second-go top",
			ifsc,
			domain.BoulderPerformance{Topped: true, ZoneReached: true, TopAttempts: 2, ZoneAttempts: 1},
			1000, // top penalty 10 for one extra attempt
		},
		{
			"penalty caps at max deduction",
			ifsc,
			domain.BoulderPerformance{Topped: true, ZoneReached: true, TopAttempts: 11, ZoneAttempts: 1},
			911, // 10 extra attempts would deduct 100, capped at 99
		},
		{
			"zone only",
			fqme,
			domain.BoulderPerformance{ZoneReached: true, ZoneAttempts: 3},
			190, // 200 - 2*5
		},
		{
			"nothing reached",
			fqme,
			domain.BoulderPerformance{},
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := calc.ComputeScore(context.Background(), boulderResult(tt.perf), tt.ruleset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, score.Value)
		})
	}
}

func TestBoulderComputeScoreRejectsInvalidData(t *testing.T) {
	calc, err := NewBoulderCalculator("boulder", BoulderConfig{MaxAttempts: 20})
	require.NoError(t, err)
	rs := testutils.IFSCRuleset()

	tests := []struct {
		name string
		perf domain.BoulderPerformance
	}{
		{"negative attempts", domain.BoulderPerformance{ZoneAttempts: -1}},
		{"attempts beyond maximum", domain.BoulderPerformance{ZoneReached: true, ZoneAttempts: 21}},
		{"top without attempt count", domain.BoulderPerformance{Topped: true, ZoneReached: true, ZoneAttempts: 1}},
		{"zone without attempt count", domain.BoulderPerformance{ZoneReached: true}},
		{"top without zone", domain.BoulderPerformance{Topped: true, TopAttempts: 2}},
		{"top attempts without progress", domain.BoulderPerformance{TopAttempts: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.ComputeScore(context.Background(), boulderResult(tt.perf), rs)
			assert.ErrorIs(t, err, domain.ErrInvalidPerformanceData)
		})
	}
}
