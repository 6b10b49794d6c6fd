package tiebreak

import (
	"context"

	"github.com/monsieurgui/climbinsight/internal/domain"
	"github.com/monsieurgui/climbinsight/internal/ports"
)

var _ ports.TiebreakMethod = (*HeadToHeadMethod)(nil)

// HeadToHeadMethod breaks ties by direct confrontation: for every pair
// of tied athletes, only competitions where both competed count, and
// the athlete placed ahead takes the matchup. Athletes are ordered by
// the number of matchups won across the tied set; pairs that never met
// contribute nothing.
type HeadToHeadMethod struct{}

// NewHeadToHeadMethod creates a HeadToHeadMethod.
func NewHeadToHeadMethod() *HeadToHeadMethod { return &HeadToHeadMethod{} }

// Name returns the configuration name of this method.
func (m *HeadToHeadMethod) Name() string { return "head_to_head" }

// Resolve orders tied by matchups won, best first.
func (m *HeadToHeadMethod) Resolve(
	_ context.Context,
	tied []domain.AthleteID,
	history domain.TiebreakContext,
) ([][]domain.AthleteID, error) {
	if len(tied) == 0 {
		return nil, ErrEmptyTiedSet
	}

	wins := make(map[domain.AthleteID]float64, len(tied))
	for i, a := range tied {
		ha := history.History(a)
		for _, b := range tied[i+1:] {
			hb := history.History(b)
			for _, pa := range ha.Placements {
				rb, ok := hb.RankIn(pa.CompetitionID)
				if !ok {
					continue
				}
				switch {
				case pa.Rank < rb:
					wins[a]++
				case rb < pa.Rank:
					wins[b]++
				}
			}
		}
	}

	return rankGroups(tied, func(id domain.AthleteID) []float64 {
		return []float64{wins[id]}
	}), nil
}
