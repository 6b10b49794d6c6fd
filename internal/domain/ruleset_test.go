package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pointsFixture() *Ruleset {
	return &Ruleset{
		Name:    "test",
		Version: "1",
		Points: map[Discipline]DisciplinePoints{
			DisciplineLead: {
				BaseTier: TierProvincial,
				Tiers: map[Tier]TierPoints{
					TierProvincial: {Table: map[int]int{1: 100, 2: 80, 3: 65}},
					TierRegional:   {Multiplier: 0.7},
					TierLocal:      {Multiplier: 0.5},
				},
			},
			DisciplineBoulder: {SameAsLead: true},
		},
	}
}

func TestPointsForRank(t *testing.T) {
	rs := pointsFixture()

	tests := []struct {
		name       string
		rank       int
		tier       Tier
		discipline Discipline
		want       int
	}{
		{"table rank 1", 1, TierProvincial, DisciplineLead, 100},
		{"table rank 3", 3, TierProvincial, DisciplineLead, 65},
		{"beyond table is zero", 4, TierProvincial, DisciplineLead, 0},
		{"multiplier rounds half away from zero", 3, TierRegional, DisciplineLead, 46}, // 65*0.7=45.5
		{"multiplier rank 1", 1, TierRegional, DisciplineLead, 70},
		{"half multiplier", 2, TierLocal, DisciplineLead, 40},
		{"same_as_lead resolves through lead", 2, TierProvincial, DisciplineBoulder, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rs.PointsForRank(tt.rank, tt.tier, tt.discipline)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPointsForRankErrors(t *testing.T) {
	rs := pointsFixture()

	_, err := rs.PointsForRank(1, "national", DisciplineLead)
	assert.ErrorIs(t, err, ErrUnknownTier)

	_, err = rs.PointsForRank(1, TierProvincial, DisciplineSpeed)
	assert.ErrorIs(t, err, ErrUnknownDiscipline)

	_, err = rs.PointsForRank(0, TierProvincial, DisciplineLead)
	assert.Error(t, err)
}

func TestTablePointsTotal(t *testing.T) {
	rs := pointsFixture()

	total, err := rs.TablePointsTotal(3, TierProvincial, DisciplineLead)
	require.NoError(t, err)
	assert.Equal(t, 245, total)

	// Ranks past the table contribute zero, not an error.
	total, err = rs.TablePointsTotal(5, TierProvincial, DisciplineLead)
	require.NoError(t, err)
	assert.Equal(t, 245, total)
}

func TestTiers(t *testing.T) {
	rs := pointsFixture()
	assert.Equal(t, []Tier{TierLocal, TierProvincial, TierRegional}, rs.Tiers(DisciplineLead))
	assert.Equal(t, rs.Tiers(DisciplineLead), rs.Tiers(DisciplineBoulder))
	assert.Nil(t, rs.Tiers(DisciplineSpeed))
}

func TestLeadModifier(t *testing.T) {
	base := LeadScoring{PlusModifier: 0.1}
	assert.Equal(t, 0.1, base.Modifier())

	enhanced := 0.5
	assert.Equal(t, 0.5, LeadScoring{PlusModifier: 0.1, PlusModifierEnhanced: &enhanced}.Modifier())
}

func TestCriteriaFor(t *testing.T) {
	rs := &Ruleset{
		Qualification: QualificationCriteria{MinCompetitions: 3, MinPoints: 100},
		CategoryOverrides: map[Category]QualificationCriteria{
			"junior": {MinCompetitions: 2, MinPoints: 50},
		},
	}

	assert.Equal(t, 2, rs.CriteriaFor("junior").MinCompetitions)
	assert.Equal(t, 3, rs.CriteriaFor("senior").MinCompetitions)
	assert.Equal(t, []Category{"junior"}, rs.Categories())
}

func TestPointAdjustmentsFactor(t *testing.T) {
	adj := PointAdjustments{
		Enabled: true,
		ParticipantBands: []ParticipantBand{
			{MaxParticipants: 5, Factor: 0.5},
			{MaxParticipants: 10, Factor: 0.8},
		},
		SeasonFinaleFactor: 1.2,
	}

	assert.Equal(t, 0.5, adj.Factor(4, 0, false))
	assert.Equal(t, 0.8, adj.Factor(10, 0, false))
	assert.Equal(t, 1.0, adj.Factor(30, 0, false))
	assert.InDelta(t, 0.6, adj.Factor(5, 0, true), 1e-9)
	assert.Equal(t, 1.2, adj.Factor(30, 0, true))

	// Importance is an independent multiplier on top of the bands.
	assert.InDelta(t, 0.75, adj.Factor(4, 1.5, false), 1e-9)
	assert.Equal(t, 1.5, adj.Factor(30, 1.5, false))

	disabled := PointAdjustments{ParticipantBands: []ParticipantBand{{MaxParticipants: 5, Factor: 0.5}}}
	assert.Equal(t, 1.0, disabled.Factor(3, 0, true))

	// Importance applies even when the configured adjustments are off.
	assert.Equal(t, 2.0, disabled.Factor(3, 2.0, true))
}
