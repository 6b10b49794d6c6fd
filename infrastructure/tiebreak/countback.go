package tiebreak

import (
	"context"

	"github.com/monsieurgui/climbinsight/internal/domain"
	"github.com/monsieurgui/climbinsight/internal/ports"
)

var _ ports.TiebreakMethod = (*CountbackMethod)(nil)

// maxCountbackRank bounds the placement vector countback compares.
// Placements beyond this rank never decide a countback under the IFSC
// configuration this mirrors.
const maxCountbackRank = 30

// CountbackMethod breaks ties by comparing the athletes' full sequence
// of historical placements: the athlete with more first places wins;
// if equal, more second places, and so on down to maxCountbackRank.
type CountbackMethod struct{}

// NewCountbackMethod creates a CountbackMethod.
func NewCountbackMethod() *CountbackMethod { return &CountbackMethod{} }

// Name returns the configuration name of this method.
func (m *CountbackMethod) Name() string { return "countback" }

// Resolve orders tied by placement-count vectors, best first.
func (m *CountbackMethod) Resolve(
	_ context.Context,
	tied []domain.AthleteID,
	history domain.TiebreakContext,
) ([][]domain.AthleteID, error) {
	if len(tied) == 0 {
		return nil, ErrEmptyTiedSet
	}
	return rankGroups(tied, func(id domain.AthleteID) []float64 {
		counts := history.History(id).PlacementCounts()
		vec := make([]float64, maxCountbackRank)
		for rank := 1; rank <= maxCountbackRank; rank++ {
			vec[rank-1] = float64(counts[rank])
		}
		return vec
	}), nil
}
