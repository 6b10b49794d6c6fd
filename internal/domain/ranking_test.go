package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointSourceNote(t *testing.T) {
	assert.Equal(t, "own_performance", PointSource{Kind: PointSourceOwn}.Note())
	assert.Equal(t, "own_performance", PointSource{}.Note())
	assert.Equal(t, "redistributed_from_rank_2",
		PointSource{Kind: PointSourceRedistributed, FromRank: 2}.Note())
}

func TestCompetitionRankingEntry(t *testing.T) {
	cr := &CompetitionRanking{
		Entries: []RankingEntry{
			{AthleteID: "alice", Points: 100},
			{AthleteID: "bob", Points: 80},
		},
	}

	entry, ok := cr.Entry("bob")
	assert.True(t, ok)
	assert.Equal(t, 80, entry.Points)

	_, ok = cr.Entry("charlie")
	assert.False(t, ok)

	assert.Equal(t, 180, cr.TotalPoints())
}

func TestSeasonStats(t *testing.T) {
	stats := SeasonStats{
		AthleteID: "alice",
		Results: []StatResult{
			{CompetitionID: "c1", Tier: TierProvincial, Points: 100},
			{CompetitionID: "c2", Tier: TierRegional, Points: 56},
			{CompetitionID: "c3", Tier: TierProvincial, Points: 80},
		},
	}

	assert.Equal(t, 236, stats.TotalPoints())
	assert.Equal(t, 2, stats.CountAtTier(TierProvincial))
	assert.Equal(t, 0, stats.CountAtTier(TierLocal))
}
