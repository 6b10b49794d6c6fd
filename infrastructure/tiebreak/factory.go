package tiebreak

import (
	"fmt"
	"strings"

	"github.com/monsieurgui/climbinsight/internal/domain"
	"github.com/monsieurgui/climbinsight/internal/ports"
)

// TerminalMethodName is the name of the method the resolver appends to
// every pipeline so resolution always terminates with a total order.
const TerminalMethodName = "lexicographic"

// For builds the tiebreak method registered under a configuration
// name. Names of the form "most_<tier>" build an AttendanceMethod for
// that tier, so federation configurations can require attendance at
// any tier they define. It returns an error wrapping
// ports.ErrUnknownTiebreakMethod for names no method answers to.
func For(name string) (ports.TiebreakMethod, error) {
	switch name {
	case "countback":
		return NewCountbackMethod(), nil
	case "head_to_head":
		return NewHeadToHeadMethod(), nil
	case "most_recent":
		return NewMostRecentMethod(), nil
	case TerminalMethodName:
		return NewLexicographicMethod(), nil
	}
	if tier, ok := strings.CutPrefix(name, "most_"); ok && tier != "" {
		return NewAttendanceMethod(name, domain.Tier(tier))
	}
	return nil, fmt.Errorf("%w: %q", ports.ErrUnknownTiebreakMethod, name)
}
