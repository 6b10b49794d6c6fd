package tiebreak

import (
	"context"

	"github.com/monsieurgui/climbinsight/internal/domain"
	"github.com/monsieurgui/climbinsight/internal/ports"
)

var _ ports.TiebreakMethod = (*MostRecentMethod)(nil)

// MostRecentMethod breaks ties in favor of the athlete with the more
// recent qualifying result. Athletes with no history at all group
// together behind every athlete with one.
type MostRecentMethod struct{}

// NewMostRecentMethod creates a MostRecentMethod.
func NewMostRecentMethod() *MostRecentMethod { return &MostRecentMethod{} }

// Name returns the configuration name of this method.
func (m *MostRecentMethod) Name() string { return "most_recent" }

// Resolve orders tied by most recent result date, latest first.
func (m *MostRecentMethod) Resolve(
	_ context.Context,
	tied []domain.AthleteID,
	history domain.TiebreakContext,
) ([][]domain.AthleteID, error) {
	if len(tied) == 0 {
		return nil, ErrEmptyTiedSet
	}
	return rankGroups(tied, func(id domain.AthleteID) []float64 {
		latest, ok := history.History(id).MostRecent()
		if !ok {
			// Behind every athlete with a dated result.
			return []float64{0, 0}
		}
		return []float64{1, float64(latest.UnixNano())}
	}), nil
}
