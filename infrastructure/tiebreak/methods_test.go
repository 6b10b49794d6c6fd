package tiebreak

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monsieurgui/climbinsight/internal/domain"
)

func historyFrom(placements map[domain.AthleteID][]domain.HistoricalPlacement) domain.TiebreakContext {
	histories := make(map[domain.AthleteID]domain.AthleteHistory, len(placements))
	for id, ps := range placements {
		histories[id] = domain.AthleteHistory{AthleteID: id, Placements: ps}
	}
	return domain.TiebreakContext{Histories: histories}
}

func TestCountback(t *testing.T) {
	history := historyFrom(map[domain.AthleteID][]domain.HistoricalPlacement{
		"alice": {{CompetitionID: "c1", Rank: 1}, {CompetitionID: "c2", Rank: 1}},
		"bob":   {{CompetitionID: "c1", Rank: 2}, {CompetitionID: "c2", Rank: 2}},
		"carol": {{CompetitionID: "c1", Rank: 1}, {CompetitionID: "c2", Rank: 3}},
	})

	groups, err := NewCountbackMethod().Resolve(context.Background(), []domain.AthleteID{"bob", "carol", "alice"}, history)
	require.NoError(t, err)
	// Two wins beat one win beat none; seconds never come into play.
	assert.Equal(t, [][]domain.AthleteID{{"alice"}, {"carol"}, {"bob"}}, groups)
}

func TestCountbackFallsToLowerRanks(t *testing.T) {
	history := historyFrom(map[domain.AthleteID][]domain.HistoricalPlacement{
		"alice": {{CompetitionID: "c1", Rank: 1}, {CompetitionID: "c2", Rank: 3}},
		"bob":   {{CompetitionID: "c3", Rank: 1}, {CompetitionID: "c4", Rank: 2}},
	})

	groups, err := NewCountbackMethod().Resolve(context.Background(), []domain.AthleteID{"alice", "bob"}, history)
	require.NoError(t, err)
	// Equal firsts; bob's second place decides.
	assert.Equal(t, [][]domain.AthleteID{{"bob"}, {"alice"}}, groups)
}

func TestCountbackNoHistoryStaysTied(t *testing.T) {
	groups, err := NewCountbackMethod().Resolve(context.Background(), []domain.AthleteID{"bob", "alice"}, domain.TiebreakContext{})
	require.NoError(t, err)
	assert.Equal(t, [][]domain.AthleteID{{"alice", "bob"}}, groups)
}

func TestHeadToHead(t *testing.T) {
	history := historyFrom(map[domain.AthleteID][]domain.HistoricalPlacement{
		"alice": {{CompetitionID: "c1", Rank: 2}, {CompetitionID: "c2", Rank: 1}},
		"bob":   {{CompetitionID: "c1", Rank: 1}, {CompetitionID: "c2", Rank: 4}, {CompetitionID: "c3", Rank: 1}},
	})

	// They met twice and split; c3 has no matchup so it counts for
	// nothing and the tie stands.
	groups, err := NewHeadToHeadMethod().Resolve(context.Background(), []domain.AthleteID{"alice", "bob"}, history)
	require.NoError(t, err)
	assert.Equal(t, [][]domain.AthleteID{{"alice", "bob"}}, groups)

	history = historyFrom(map[domain.AthleteID][]domain.HistoricalPlacement{
		"alice": {{CompetitionID: "c1", Rank: 3}, {CompetitionID: "c2", Rank: 1}},
		"bob":   {{CompetitionID: "c1", Rank: 2}, {CompetitionID: "c2", Rank: 4}},
		"carol": {{CompetitionID: "c1", Rank: 1}, {CompetitionID: "c2", Rank: 2}},
	})

	// Matchups won: carol 3, alice 2, bob 1.
	groups, err = NewHeadToHeadMethod().Resolve(context.Background(), []domain.AthleteID{"alice", "bob", "carol"}, history)
	require.NoError(t, err)
	assert.Equal(t, [][]domain.AthleteID{{"carol"}, {"alice"}, {"bob"}}, groups)
}

func TestMostRecent(t *testing.T) {
	history := historyFrom(map[domain.AthleteID][]domain.HistoricalPlacement{
		"alice": {{CompetitionID: "c1", Rank: 1, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}},
		"bob":   {{CompetitionID: "c2", Rank: 1, Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}},
		"carol": nil,
	})

	groups, err := NewMostRecentMethod().Resolve(context.Background(), []domain.AthleteID{"alice", "bob", "carol"}, history)
	require.NoError(t, err)
	// Latest result first; no history at all ranks behind any result.
	assert.Equal(t, [][]domain.AthleteID{{"bob"}, {"alice"}, {"carol"}}, groups)
}

func TestAttendance(t *testing.T) {
	method, err := NewAttendanceMethod("most_provincial", domain.TierProvincial)
	require.NoError(t, err)
	assert.Equal(t, "most_provincial", method.Name())
	assert.Equal(t, domain.TierProvincial, method.Tier())

	history := historyFrom(map[domain.AthleteID][]domain.HistoricalPlacement{
		"alice": {
			{CompetitionID: "c1", Rank: 5, Tier: domain.TierProvincial},
			{CompetitionID: "c2", Rank: 5, Tier: domain.TierProvincial},
		},
		"bob": {
			{CompetitionID: "c1", Rank: 1, Tier: domain.TierProvincial},
			{CompetitionID: "c3", Rank: 1, Tier: domain.TierRegional},
		},
	})

	groups, err := method.Resolve(context.Background(), []domain.AthleteID{"alice", "bob"}, history)
	require.NoError(t, err)
	assert.Equal(t, [][]domain.AthleteID{{"alice"}, {"bob"}}, groups)
}

func TestAttendanceConstructionErrors(t *testing.T) {
	_, err := NewAttendanceMethod("", domain.TierProvincial)
	assert.Error(t, err)
	_, err = NewAttendanceMethod("most_", "")
	assert.Error(t, err)
}

func TestLexicographicAlwaysTotal(t *testing.T) {
	groups, err := NewLexicographicMethod().Resolve(context.Background(),
		[]domain.AthleteID{"carol", "alice", "bob"}, domain.TiebreakContext{})
	require.NoError(t, err)
	assert.Equal(t, [][]domain.AthleteID{{"alice"}, {"bob"}, {"carol"}}, groups)
}

func TestMethodsRejectEmptyTiedSet(t *testing.T) {
	methods := []interface {
		Resolve(context.Context, []domain.AthleteID, domain.TiebreakContext) ([][]domain.AthleteID, error)
	}{
		NewCountbackMethod(),
		NewHeadToHeadMethod(),
		NewMostRecentMethod(),
		NewLexicographicMethod(),
	}
	for _, m := range methods {
		_, err := m.Resolve(context.Background(), nil, domain.TiebreakContext{})
		assert.ErrorIs(t, err, ErrEmptyTiedSet)
	}
}

func TestResolutionIsDeterministic(t *testing.T) {
	history := historyFrom(map[domain.AthleteID][]domain.HistoricalPlacement{
		"alice": {{CompetitionID: "c1", Rank: 1}},
		"bob":   {{CompetitionID: "c1", Rank: 2}},
		"carol": {{CompetitionID: "c1", Rank: 3}},
	})
	method := NewCountbackMethod()

	first, err := method.Resolve(context.Background(), []domain.AthleteID{"carol", "alice", "bob"}, history)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := method.Resolve(context.Background(), []domain.AthleteID{"bob", "carol", "alice"}, history)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
