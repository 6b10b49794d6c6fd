package domain

import (
	"sort"
	"time"
)

// HistoricalPlacement is one past placement in an athlete's result
// history, the raw material for tiebreak methods.
type HistoricalPlacement struct {
	CompetitionID string    `json:"competition_id"`
	Rank          int       `json:"rank"`
	Tier          Tier      `json:"tier"`
	Points        int       `json:"points"`
	Date          time.Time `json:"date"`
}

// AthleteHistory is one athlete's full result history for a season.
type AthleteHistory struct {
	AthleteID  AthleteID             `json:"athlete_id"`
	Placements []HistoricalPlacement `json:"placements"`
}

// PlacementCounts returns how many times the athlete finished at each
// rank, indexed by rank. Countback compares these vectors.
func (h AthleteHistory) PlacementCounts() map[int]int {
	counts := make(map[int]int, len(h.Placements))
	for _, p := range h.Placements {
		counts[p.Rank]++
	}
	return counts
}

// CountAtTier returns the number of appearances at the given tier.
func (h AthleteHistory) CountAtTier(tier Tier) int {
	n := 0
	for _, p := range h.Placements {
		if p.Tier == tier {
			n++
		}
	}
	return n
}

// MostRecent returns the date of the athlete's most recent result and
// false when the history is empty.
func (h AthleteHistory) MostRecent() (time.Time, bool) {
	var latest time.Time
	found := false
	for _, p := range h.Placements {
		if !found || p.Date.After(latest) {
			latest = p.Date
			found = true
		}
	}
	return latest, found
}

// RankIn returns the athlete's rank in the given competition and
// false when the athlete did not compete in it.
func (h AthleteHistory) RankIn(competitionID string) (int, bool) {
	for _, p := range h.Placements {
		if p.CompetitionID == competitionID {
			return p.Rank, true
		}
	}
	return 0, false
}

// TiebreakContext is the read-only historical data tiebreak methods
// consult. The same tied set with the same context resolves to the
// same order, always.
type TiebreakContext struct {
	Histories map[AthleteID]AthleteHistory
}

// History returns the history for an athlete, which is empty (not
// absent) for athletes the context has never seen.
func (c TiebreakContext) History(id AthleteID) AthleteHistory {
	if h, ok := c.Histories[id]; ok {
		return h
	}
	return AthleteHistory{AthleteID: id}
}

// BuildTiebreakContext assembles a tiebreak context from finalized
// competition rankings, using each entry's display rank as the
// historical placement. Dates default to each ranking's computation
// time unless the caller supplies explicit competition dates.
func BuildTiebreakContext(rankings []*CompetitionRanking, dates map[string]time.Time) TiebreakContext {
	histories := make(map[AthleteID]AthleteHistory)
	for _, cr := range rankings {
		if cr == nil {
			continue
		}
		date := cr.ComputedAt
		if d, ok := dates[cr.CompetitionID]; ok {
			date = d
		}
		for _, e := range cr.Entries {
			h := histories[e.AthleteID]
			h.AthleteID = e.AthleteID
			h.Placements = append(h.Placements, HistoricalPlacement{
				CompetitionID: cr.CompetitionID,
				Rank:          e.DisplayRank,
				Tier:          cr.Tier,
				Points:        e.Points,
				Date:          date,
			})
			histories[e.AthleteID] = h
		}
	}
	// Deterministic placement order regardless of input ordering.
	for id, h := range histories {
		sort.SliceStable(h.Placements, func(i, j int) bool {
			return h.Placements[i].CompetitionID < h.Placements[j].CompetitionID
		})
		histories[id] = h
	}
	return TiebreakContext{Histories: histories}
}
