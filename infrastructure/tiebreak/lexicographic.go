package tiebreak

import (
	"context"
	"sort"

	"github.com/monsieurgui/climbinsight/internal/domain"
	"github.com/monsieurgui/climbinsight/internal/ports"
)

var _ ports.TiebreakMethod = (*LexicographicMethod)(nil)

// LexicographicMethod is the terminal fallback of every tiebreak
// pipeline: it orders athletes by ID, producing a deterministic, if
// essentially arbitrary, total order. It always returns single-member
// groups, guaranteeing the resolver terminates with a strict order.
type LexicographicMethod struct{}

// NewLexicographicMethod creates a LexicographicMethod.
func NewLexicographicMethod() *LexicographicMethod { return &LexicographicMethod{} }

// Name returns the configuration name of this method.
func (m *LexicographicMethod) Name() string { return "lexicographic" }

// Resolve returns the athletes in ascending ID order, one per group.
func (m *LexicographicMethod) Resolve(
	_ context.Context,
	tied []domain.AthleteID,
	_ domain.TiebreakContext,
) ([][]domain.AthleteID, error) {
	if len(tied) == 0 {
		return nil, ErrEmptyTiedSet
	}
	sorted := make([]domain.AthleteID, len(tied))
	copy(sorted, tied)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	groups := make([][]domain.AthleteID, len(sorted))
	for i, id := range sorted {
		groups[i] = []domain.AthleteID{id}
	}
	return groups, nil
}
