// Package tiebreak provides the ruleset-configurable tiebreak methods
// that implement the ports.TiebreakMethod interface. Each method is a
// pure function of the tied set and the athletes' historical data;
// methods never consult wall clocks, random sources, or shared state.
package tiebreak

import (
	"errors"
	"sort"

	"github.com/monsieurgui/climbinsight/internal/domain"
)

// ErrEmptyTiedSet is returned when a method is invoked with no
// athletes to order.
var ErrEmptyTiedSet = errors.New("tied set cannot be empty")

// keyFunc computes an athlete's comparison vector for one method.
// Vectors are compared lexicographically with higher-is-better
// semantics; methods that prefer smaller values negate them.
type keyFunc func(domain.AthleteID) []float64

// rankGroups orders the tied athletes by their key vectors, best
// first, grouping athletes whose vectors compare equal. Athletes are
// sorted by ID before keying so group membership order is
// deterministic regardless of input order.
func rankGroups(tied []domain.AthleteID, key keyFunc) [][]domain.AthleteID {
	sorted := make([]domain.AthleteID, len(tied))
	copy(sorted, tied)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	keys := make(map[domain.AthleteID][]float64, len(sorted))
	for _, id := range sorted {
		keys[id] = key(id)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return compareVectors(keys[sorted[i]], keys[sorted[j]]) > 0
	})

	var groups [][]domain.AthleteID
	for _, id := range sorted {
		if n := len(groups); n > 0 && compareVectors(keys[groups[n-1][0]], keys[id]) == 0 {
			groups[n-1] = append(groups[n-1], id)
			continue
		}
		groups = append(groups, []domain.AthleteID{id})
	}
	return groups
}

// compareVectors compares two key vectors lexicographically. A missing
// element counts as 0. It returns a positive number when a is better,
// negative when b is better, and 0 when they are equal.
func compareVectors(a, b []float64) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var av, bv float64
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		switch {
		case av > bv:
			return 1
		case av < bv:
			return -1
		}
	}
	return 0
}
