package application

import (
	"context"
	"fmt"

	"github.com/monsieurgui/climbinsight/infrastructure/tiebreak"
	"github.com/monsieurgui/climbinsight/internal/domain"
	"github.com/monsieurgui/climbinsight/internal/ports"
)

// ResolvedGroup is one group in a resolver's output: athletes that the
// configured tiebreak methods could not separate. Members is the
// group's internal order from the terminal fallback, so callers that
// need a strict sequence can use it directly; Unresolved reports
// whether the group still counts as tied for display purposes.
type ResolvedGroup struct {
	Members    []domain.AthleteID
	Unresolved bool
}

// TiebreakResolver applies a ruleset's ordered tiebreak methods to a
// tied set of athletes. Methods run in configuration order, each one
// refining the groups the previous methods left tied; a lexicographic
// terminal fallback always runs last so the resolver produces a total
// order no matter what the configured methods decide.
type TiebreakResolver struct {
	methods  []ports.TiebreakMethod
	terminal ports.TiebreakMethod
	metrics  ports.MetricsCollector
}

// NewTiebreakResolver builds a resolver for the ruleset's configured
// method names using the given factory. A nil factory uses the
// built-in methods; a nil metrics collector discards observations.
func NewTiebreakResolver(rs *domain.Ruleset, factory ports.TiebreakMethodFactory, metrics ports.MetricsCollector) (*TiebreakResolver, error) {
	if rs == nil {
		return nil, fmt.Errorf("ruleset cannot be nil")
	}
	if factory == nil {
		factory = tiebreak.For
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}

	methods := make([]ports.TiebreakMethod, 0, len(rs.TiebreakMethods))
	for _, name := range rs.TiebreakMethods {
		if name == tiebreak.TerminalMethodName {
			// The terminal fallback is always appended; listing it in
			// the ruleset is harmless but redundant.
			continue
		}
		m, err := factory(name)
		if err != nil {
			return nil, fmt.Errorf("building tiebreak pipeline for %s: %w", rs.ID(), err)
		}
		methods = append(methods, m)
	}
	terminal, err := factory(tiebreak.TerminalMethodName)
	if err != nil {
		return nil, fmt.Errorf("building terminal tiebreak method: %w", err)
	}

	return &TiebreakResolver{methods: methods, terminal: terminal, metrics: metrics}, nil
}

// Resolve orders a tied set of athletes. The returned groups are best
// first; each group's members are in strict order, and Unresolved is
// true when the configured methods (excluding the terminal fallback)
// could not separate the members, meaning they still share a display
// rank.
func (r *TiebreakResolver) Resolve(ctx context.Context, tied []domain.AthleteID, history domain.TiebreakContext) ([]ResolvedGroup, error) {
	if len(tied) == 0 {
		return nil, nil
	}
	if len(tied) == 1 {
		return []ResolvedGroup{{Members: []domain.AthleteID{tied[0]}}}, nil
	}

	groups := [][]domain.AthleteID{append([]domain.AthleteID(nil), tied...)}
	for _, m := range r.methods {
		refined, err := r.refine(ctx, m, groups, history)
		if err != nil {
			return nil, fmt.Errorf("tiebreak method %q: %w", m.Name(), err)
		}
		groups = refined
		if allSingletons(groups) {
			break
		}
	}

	resolved := make([]ResolvedGroup, 0, len(groups))
	for _, g := range groups {
		if len(g) == 1 {
			resolved = append(resolved, ResolvedGroup{Members: g})
			continue
		}
		// Still tied after every configured method: the terminal
		// fallback fixes the internal sequence but the tie stands for
		// display purposes.
		ordered, err := r.refine(ctx, r.terminal, [][]domain.AthleteID{g}, history)
		if err != nil {
			return nil, fmt.Errorf("terminal tiebreak method: %w", err)
		}
		members := make([]domain.AthleteID, 0, len(g))
		for _, og := range ordered {
			members = append(members, og...)
		}
		resolved = append(resolved, ResolvedGroup{Members: members, Unresolved: true})
	}
	return resolved, nil
}

// refine runs one method over every multi-member group, splitting each
// into the method's ordered subgroups in place of the original.
func (r *TiebreakResolver) refine(ctx context.Context, m ports.TiebreakMethod, groups [][]domain.AthleteID, history domain.TiebreakContext) ([][]domain.AthleteID, error) {
	out := make([][]domain.AthleteID, 0, len(groups))
	for _, g := range groups {
		if len(g) < 2 {
			out = append(out, g)
			continue
		}
		sub, err := m.Resolve(ctx, g, history)
		if err != nil {
			return nil, err
		}
		r.metrics.RecordTiebreakResolution(m.Name(), allSingletons(sub))
		out = append(out, sub...)
	}
	return out, nil
}

func allSingletons(groups [][]domain.AthleteID) bool {
	for _, g := range groups {
		if len(g) > 1 {
			return false
		}
	}
	return true
}
