package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAthleteHistory(t *testing.T) {
	h := AthleteHistory{
		AthleteID: "alice",
		Placements: []HistoricalPlacement{
			{CompetitionID: "c1", Rank: 1, Tier: TierProvincial, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
			{CompetitionID: "c2", Rank: 2, Tier: TierRegional, Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
			{CompetitionID: "c3", Rank: 1, Tier: TierProvincial, Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		},
	}

	counts := h.PlacementCounts()
	assert.Equal(t, 2, counts[1])
	assert.Equal(t, 1, counts[2])

	assert.Equal(t, 2, h.CountAtTier(TierProvincial))

	latest, ok := h.MostRecent()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), latest)

	rank, ok := h.RankIn("c2")
	require.True(t, ok)
	assert.Equal(t, 2, rank)
	_, ok = h.RankIn("c9")
	assert.False(t, ok)

	_, ok = AthleteHistory{}.MostRecent()
	assert.False(t, ok)
}

func TestTiebreakContextUnknownAthlete(t *testing.T) {
	ctx := TiebreakContext{}
	h := ctx.History("ghost")
	assert.Equal(t, AthleteID("ghost"), h.AthleteID)
	assert.Empty(t, h.Placements)
}

func TestBuildTiebreakContext(t *testing.T) {
	computed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rankings := []*CompetitionRanking{
		{
			CompetitionID: "c2",
			Tier:          TierRegional,
			Entries: []RankingEntry{
				{AthleteID: "alice", DisplayRank: 2, Points: 56},
			},
			ComputedAt: computed,
		},
		nil,
		{
			CompetitionID: "c1",
			Tier:          TierProvincial,
			Entries: []RankingEntry{
				{AthleteID: "alice", DisplayRank: 1, Points: 100},
				{AthleteID: "bob", DisplayRank: 2, Points: 80},
			},
			ComputedAt: computed,
		},
	}
	dates := map[string]time.Time{"c1": time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}

	ctx := BuildTiebreakContext(rankings, dates)

	alice := ctx.History("alice")
	require.Len(t, alice.Placements, 2)
	// Placements sort by competition ID regardless of input order.
	assert.Equal(t, "c1", alice.Placements[0].CompetitionID)
	assert.Equal(t, dates["c1"], alice.Placements[0].Date)
	// Without an explicit date the ranking's computation time stands in.
	assert.Equal(t, computed, alice.Placements[1].Date)

	bob := ctx.History("bob")
	require.Len(t, bob.Placements, 1)
	assert.Equal(t, 2, bob.Placements[0].Rank)
	assert.Equal(t, TierProvincial, bob.Placements[0].Tier)
}
