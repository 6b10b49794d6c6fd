package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearestCandidate(t *testing.T) {
	tiers := []string{"local", "provincial", "regional", "world_cup"}

	tests := []struct {
		name       string
		input      string
		candidates []string
		want       string
		wantOK     bool
	}{
		{"one letter off", "provincal", tiers, "provincial", true},
		{"case folded", "Provincial", tiers, "provincial", true},
		{"exact match", "regional", tiers, "regional", true},
		{"too far", "continental", tiers, "", false},
		{"no candidates", "provincial", nil, "", false},
		{"tie resolves lexicographically", "senor", []string{"tenor", "senior"}, "senior", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := nearestCandidate(tt.input, tt.candidates)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNearestCandidateDeterministic(t *testing.T) {
	// Equal-distance candidates in either order yield the same pick.
	a, _ := nearestCandidate("juniot", []string{"junior", "juniox"})
	b, _ := nearestCandidate("juniot", []string{"juniox", "junior"})
	assert.Equal(t, a, b)
	assert.Equal(t, "junior", a)
}
