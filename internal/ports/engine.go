// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the engine testable.
package ports

import (
	"context"

	"github.com/monsieurgui/climbinsight/internal/domain"
)

// ScoreCalculator turns one athlete's raw performance in one event into
// a comparable numeric score under a ruleset's discipline parameters.
// Calculators are stateless and safe for concurrent use.
type ScoreCalculator interface {
	// Name returns a unique identifier for this calculator instance,
	// used for logging, tracing, and registry lookups.
	Name() string

	// Discipline returns the discipline this calculator scores.
	Discipline() domain.Discipline

	// ComputeScore derives the score for raw under rs. It returns an
	// error wrapping domain.ErrInvalidPerformanceData when the raw
	// fields are inconsistent with the declared discipline; the caller
	// isolates the failure to that one result and proceeds with the
	// rest of the batch.
	ComputeScore(ctx context.Context, raw domain.RawResult, rs *domain.Ruleset) (domain.Score, error)

	// Validate checks that the calculator is properly configured.
	// It is called during registry construction.
	Validate() error
}

// CalculatorRegistry resolves the calculator for a discipline.
type CalculatorRegistry interface {
	// CalculatorFor returns the calculator registered for d, or an
	// error wrapping ErrCalculatorNotRegistered.
	CalculatorFor(d domain.Discipline) (ScoreCalculator, error)

	// Register adds or replaces the calculator for its discipline.
	Register(c ScoreCalculator) error
}

// TiebreakMethod is one strategy in a ruleset's ordered tiebreak
// pipeline. A method partially orders a tied set: it returns the
// athletes as ordered groups, where athletes sharing a group are still
// tied from this method's point of view and fall through to the next
// method. A method that can always produce a strict total order (such
// as the lexicographic terminal fallback) returns single-member groups.
//
// Methods are pure functions of the tied set and the historical
// context: the same inputs resolve to the same groups, always.
type TiebreakMethod interface {
	// Name returns the configuration name of this method.
	Name() string

	// Resolve partially orders tied using the historical data in
	// history. Every input athlete appears in exactly one returned
	// group; group order is best first.
	Resolve(ctx context.Context, tied []domain.AthleteID, history domain.TiebreakContext) ([][]domain.AthleteID, error)
}

// TiebreakMethodFactory creates the method registered under a
// configuration name, or returns an error wrapping
// ErrUnknownTiebreakMethod.
type TiebreakMethodFactory func(name string) (TiebreakMethod, error)
