package calculators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monsieurgui/climbinsight/internal/domain"
	"github.com/monsieurgui/climbinsight/internal/testutils"
)

func leadResult(holds int, plus bool) domain.RawResult {
	points := make([]float64, holds)
	for i := range points {
		points[i] = 1
	}
	return domain.RawResult{
		AthleteID:  "alice",
		EventID:    "c1-final",
		Discipline: domain.DisciplineLead,
		Lead:       &domain.LeadPerformance{HoldPoints: points, Plus: plus},
	}
}

func TestNewLeadCalculator(t *testing.T) {
	_, err := NewLeadCalculator("", DefaultLeadConfig())
	assert.ErrorIs(t, err, ErrEmptyCalculatorName)

	_, err = NewLeadCalculator("lead", LeadConfig{MaxHolds: 0})
	assert.Error(t, err)

	calc, err := NewLeadCalculator("lead", DefaultLeadConfig())
	require.NoError(t, err)
	assert.Equal(t, "lead", calc.Name())
	assert.Equal(t, domain.DisciplineLead, calc.Discipline())
	assert.NoError(t, calc.Validate())
}

func TestLeadComputeScore(t *testing.T) {
	calc, err := NewLeadCalculator("lead", DefaultLeadConfig())
	require.NoError(t, err)

	tests := []struct {
		name    string
		ruleset *domain.Ruleset
		holds   int
		plus    bool
		want    float64
	}{
		{"hold sum without plus", testutils.IFSCRuleset(), 34, false, 34},
		{"base plus modifier", testutils.IFSCRuleset(), 34, true, 34.5},
		{"enhanced plus modifier", testutils.FQMERuleset(), 20, true, 20.5},
		{"no holds scores zero", testutils.IFSCRuleset(), 0, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := calc.ComputeScore(context.Background(), leadResult(tt.holds, tt.plus), tt.ruleset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, score.Value)
			assert.Equal(t, tt.ruleset.Name, score.RulesetName)
			assert.Equal(t, domain.DisciplineLead, score.Discipline)
		})
	}
}

func TestLeadComputeScoreRejectsInvalidData(t *testing.T) {
	calc, err := NewLeadCalculator("lead", LeadConfig{AllowEmptyHolds: false, MaxHolds: 10})
	require.NoError(t, err)
	rs := testutils.IFSCRuleset()

	tests := []struct {
		name string
		raw  domain.RawResult
	}{
		{"wrong discipline", domain.RawResult{Discipline: domain.DisciplineSpeed, Speed: &domain.SpeedPerformance{ElapsedSeconds: 6}}},
		{"missing performance block", domain.RawResult{Discipline: domain.DisciplineLead}},
		{"empty holds disallowed", leadResult(0, false)},
		{"plus without a hold", leadResult(0, true)},
		{"too many holds", leadResult(11, false)},
		{"negative hold value", domain.RawResult{
			Discipline: domain.DisciplineLead,
			Lead:       &domain.LeadPerformance{HoldPoints: []float64{1, -1}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.ComputeScore(context.Background(), tt.raw, rs)
			assert.ErrorIs(t, err, domain.ErrInvalidPerformanceData)
		})
	}

	_, err = calc.ComputeScore(context.Background(), leadResult(5, false), nil)
	assert.ErrorIs(t, err, ErrNilRuleset)
}
