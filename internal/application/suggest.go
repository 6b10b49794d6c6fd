package application

import (
	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

// maxSuggestionDistance bounds how far a candidate may be from the
// input before it stops being a plausible "did you mean" suggestion.
const maxSuggestionDistance = 3

var foldCaser = cases.Fold()

// nearestCandidate returns the candidate closest to input by edit
// distance over case-folded forms, and false when no candidate is close
// enough to suggest. Distance ties resolve to the lexicographically
// first candidate so suggestions are deterministic.
func nearestCandidate(input string, candidates []string) (string, bool) {
	folded := foldCaser.String(input)
	best := ""
	bestDist := maxSuggestionDistance + 1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(folded, foldCaser.String(c))
		if d < bestDist || (d == bestDist && best != "" && c < best) {
			best = c
			bestDist = d
		}
	}
	return best, bestDist <= maxSuggestionDistance
}
