package tiebreak

import (
	"context"
	"fmt"

	"github.com/monsieurgui/climbinsight/internal/domain"
	"github.com/monsieurgui/climbinsight/internal/ports"
)

var _ ports.TiebreakMethod = (*AttendanceMethod)(nil)

// AttendanceMethod breaks ties in favor of the athlete with more
// appearances at a required competition tier. Rulesets configure it
// under a "most_<tier>" name, e.g. "most_provincial" prefers athletes
// with more provincial starts.
type AttendanceMethod struct {
	// name is the configuration name this instance was built from.
	name string
	// tier is the competition tier whose appearances are counted.
	tier domain.Tier
}

// NewAttendanceMethod creates an AttendanceMethod counting appearances
// at the given tier, registered under the given configuration name.
func NewAttendanceMethod(name string, tier domain.Tier) (*AttendanceMethod, error) {
	if name == "" {
		return nil, fmt.Errorf("attendance method name cannot be empty")
	}
	if tier == "" {
		return nil, fmt.Errorf("attendance method %q requires a tier", name)
	}
	return &AttendanceMethod{name: name, tier: tier}, nil
}

// Name returns the configuration name of this method.
func (m *AttendanceMethod) Name() string { return m.name }

// Tier returns the tier whose appearances this method counts.
func (m *AttendanceMethod) Tier() domain.Tier { return m.tier }

// Resolve orders tied by appearance count at the method's tier,
// most first.
func (m *AttendanceMethod) Resolve(
	_ context.Context,
	tied []domain.AthleteID,
	history domain.TiebreakContext,
) ([][]domain.AthleteID, error) {
	if len(tied) == 0 {
		return nil, ErrEmptyTiedSet
	}
	return rankGroups(tied, func(id domain.AthleteID) []float64 {
		return []float64{float64(history.History(id).CountAtTier(m.tier))}
	}), nil
}
