package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monsieurgui/climbinsight/internal/domain"
	"github.com/monsieurgui/climbinsight/internal/testutils"
)

func TestEvaluateQualification(t *testing.T) {
	rs := testutils.FQMERuleset() // 3 competitions, 100 points, 1 provincial

	tests := []struct {
		name    string
		results []domain.StatResult
		want    bool
		missing []string
	}{
		{
			"fully qualified",
			[]domain.StatResult{
				{CompetitionID: "c1", Tier: domain.TierProvincial, Points: 60},
				{CompetitionID: "c2", Tier: domain.TierRegional, Points: 40},
				{CompetitionID: "c3", Tier: domain.TierLocal, Points: 10},
			},
			true, nil,
		},
		{
			"too few competitions",
			[]domain.StatResult{
				{CompetitionID: "c1", Tier: domain.TierProvincial, Points: 120},
			},
			false, []string{"min_competitions"},
		},
		{
			"every criterion unmet",
			[]domain.StatResult{},
			false, []string{"min_competitions", "min_points", "min_provincial"},
		},
		{
			"missing the required tier",
			[]domain.StatResult{
				{CompetitionID: "c1", Tier: domain.TierRegional, Points: 50},
				{CompetitionID: "c2", Tier: domain.TierRegional, Points: 40},
				{CompetitionID: "c3", Tier: domain.TierLocal, Points: 20},
			},
			false, []string{"min_provincial"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EvaluateQualification(rs, "senior", domain.SeasonStats{
				AthleteID: "alice",
				Results:   tt.results,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Qualified)

			var criteria []string
			for _, d := range result.Missing {
				criteria = append(criteria, d.Criterion)
				assert.False(t, d.Unknown)
			}
			assert.Equal(t, tt.missing, criteria)
		})
	}
}

func TestEvaluateQualificationCategoryOverride(t *testing.T) {
	rs := testutils.FQMERuleset() // junior override: 2 competitions, 50 points

	result, err := EvaluateQualification(rs, "junior", domain.SeasonStats{
		AthleteID: "alice",
		Results: []domain.StatResult{
			{CompetitionID: "c1", Tier: domain.TierRegional, Points: 30},
			{CompetitionID: "c2", Tier: domain.TierRegional, Points: 25},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Qualified)

	// The same record fails the ruleset-wide thresholds.
	result, err = EvaluateQualification(rs, "senior", domain.SeasonStats{
		AthleteID: "alice",
		Results: []domain.StatResult{
			{CompetitionID: "c1", Tier: domain.TierRegional, Points: 30},
			{CompetitionID: "c2", Tier: domain.TierRegional, Points: 25},
		},
	})
	require.NoError(t, err)
	assert.False(t, result.Qualified)
}

func TestEvaluateQualificationMissingStats(t *testing.T) {
	rs := testutils.FQMERuleset()

	result, err := EvaluateQualification(rs, "senior", domain.SeasonStats{AthleteID: "alice"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrQualificationDataIncomplete)

	// The partial result still names every criterion, marked unknown.
	assert.False(t, result.Qualified)
	require.Len(t, result.Missing, 3)
	for _, d := range result.Missing {
		assert.True(t, d.Unknown)
		assert.Positive(t, d.Required)
	}
}

func TestStrictCriteriaFor(t *testing.T) {
	rs := testutils.FQMERuleset()

	criteria, err := StrictCriteriaFor(rs, "junior")
	require.NoError(t, err)
	assert.Equal(t, 2, criteria.MinCompetitions)

	_, err = StrictCriteriaFor(rs, "junor")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
	assert.Contains(t, err.Error(), `did you mean "junior"`)
}
