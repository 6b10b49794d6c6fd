// Package calculators provides the discipline score calculators that
// implement the ports.ScoreCalculator interface for the climbinsight
// scoring engine.
package calculators

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/monsieurgui/climbinsight/internal/domain"
)

// Common errors returned by calculators.
var (
	// ErrEmptyCalculatorName is returned when attempting to create a
	// calculator with an empty name.
	ErrEmptyCalculatorName = errors.New("calculator name cannot be empty")

	// ErrNilRuleset is returned when a score computation is attempted
	// without a ruleset.
	ErrNilRuleset = errors.New("ruleset cannot be nil")
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()

// checkDiscipline verifies that raw declares the discipline the
// calculator scores and carries that discipline's performance block.
func checkDiscipline(raw domain.RawResult, want domain.Discipline) error {
	if raw.Discipline != want {
		return fmt.Errorf("%w: result declares discipline %q, calculator scores %q",
			domain.ErrInvalidPerformanceData, raw.Discipline, want)
	}
	var present bool
	switch want {
	case domain.DisciplineLead:
		present = raw.Lead != nil
	case domain.DisciplineBoulder:
		present = raw.Boulder != nil
	case domain.DisciplineSpeed:
		present = raw.Speed != nil
	}
	if !present {
		return fmt.Errorf("%w: %s result is missing its %s performance fields",
			domain.ErrInvalidPerformanceData, want, want)
	}
	return nil
}
