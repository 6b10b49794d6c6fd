package domain

import (
	"errors"
	"fmt"
)

// Common domain errors that can occur during scoring and ranking
// operations. Every error the engine reports wraps one of these so
// callers can classify failures with errors.Is.
var (
	// ErrInvalidPerformanceData indicates that a raw result's fields are
	// inconsistent with its declared discipline.
	ErrInvalidPerformanceData = errors.New("invalid performance data")

	// ErrUnknownTier indicates that a ruleset cannot resolve a
	// competition tier to a point table or multiplier.
	ErrUnknownTier = errors.New("unknown competition tier")

	// ErrUnknownCategory indicates that a category lookup failed.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrUnknownDiscipline indicates that a ruleset carries no
	// configuration for the requested discipline.
	ErrUnknownDiscipline = errors.New("unknown discipline")

	// ErrDerogationNotSupported indicates that derogation flags were
	// supplied against a ruleset with derogation disabled. This is a
	// configuration or usage error, never silently ignored.
	ErrDerogationNotSupported = errors.New("derogation not supported by ruleset")

	// ErrQualificationDataIncomplete indicates that season statistics
	// required for a qualification evaluation are missing.
	ErrQualificationDataIncomplete = errors.New("qualification data incomplete")

	// ErrInvalidConfiguration indicates that a ruleset document is
	// invalid or incomplete.
	ErrInvalidConfiguration = errors.New("invalid ruleset configuration")
)

// ResultError attributes a computation failure to a specific
// athlete/event/ruleset triple so a caller can isolate and report one
// result without aborting an entire batch.
type ResultError struct {
	// AthleteID is the athlete whose result failed to compute.
	AthleteID AthleteID

	// EventID is the event the result belongs to.
	EventID EventID

	// Ruleset is the identity (name@version) of the ruleset in use.
	Ruleset string

	// Stage names the engine stage that rejected the result.
	Stage string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for ResultError.
func (e *ResultError) Error() string {
	return fmt.Sprintf("result error: athlete=%s, event=%s, ruleset=%s, stage=%s, err=%v",
		e.AthleteID, e.EventID, e.Ruleset, e.Stage, e.Err)
}

// Unwrap returns the underlying error, supporting errors.Is/As.
func (e *ResultError) Unwrap() error { return e.Err }

// NewResultError creates a ResultError with the given attribution.
func NewResultError(athlete AthleteID, event EventID, ruleset, stage string, err error) *ResultError {
	return &ResultError{
		AthleteID: athlete,
		EventID:   event,
		Ruleset:   ruleset,
		Stage:     stage,
		Err:       err,
	}
}

// ValidationError represents a ruleset document validation failure.
// It accumulates every violation, not just the first, so a caller can
// fix a configuration in one pass.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// Unwrap classifies every ValidationError as an ErrInvalidConfiguration.
func (e *ValidationError) Unwrap() error { return ErrInvalidConfiguration }

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}
