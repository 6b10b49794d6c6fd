package tiebreak

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monsieurgui/climbinsight/internal/domain"
	"github.com/monsieurgui/climbinsight/internal/ports"
)

func TestFor(t *testing.T) {
	tests := []struct {
		name     string
		wantName string
	}{
		{"countback", "countback"},
		{"head_to_head", "head_to_head"},
		{"most_recent", "most_recent"},
		{"lexicographic", "lexicographic"},
		{"most_provincial", "most_provincial"},
		{"most_world_cup", "most_world_cup"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := For(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, m.Name())
		})
	}
}

func TestForAttendanceTier(t *testing.T) {
	m, err := For("most_provincial")
	require.NoError(t, err)
	attendance, ok := m.(*AttendanceMethod)
	require.True(t, ok)
	assert.Equal(t, domain.TierProvincial, attendance.Tier())
}

func TestForUnknownMethod(t *testing.T) {
	for _, name := range []string{"", "most_", "coin_flip", "recent"} {
		_, err := For(name)
		assert.ErrorIs(t, err, ports.ErrUnknownTiebreakMethod, "name %q", name)
	}
}
