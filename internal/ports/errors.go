package ports

import (
	"errors"
	"fmt"
)

// Common infrastructure errors surfaced by registries and loaders.
var (
	// ErrRulesetNotFound indicates that no ruleset with the requested
	// identity has been loaded.
	ErrRulesetNotFound = errors.New("ruleset not found")

	// ErrCalculatorNotRegistered indicates that no calculator is
	// registered for the requested discipline.
	ErrCalculatorNotRegistered = errors.New("no calculator registered for discipline")

	// ErrUnknownTiebreakMethod indicates that a ruleset names a
	// tiebreak method no factory can build.
	ErrUnknownTiebreakMethod = errors.New("unknown tiebreak method")

	// ErrCacheCorrupted indicates that a cached compiled ruleset is
	// corrupted or inconsistent.
	ErrCacheCorrupted = errors.New("cache corrupted")
)

// RegistryError attributes a registry failure to the entity that was
// being resolved.
type RegistryError struct {
	// Kind names the registry ("ruleset", "calculator", "tiebreak").
	Kind string

	// Entity is the identity that failed to resolve.
	Entity string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for RegistryError.
func (e *RegistryError) Error() string {
	return fmt.Sprintf("%s registry: %q: %v", e.Kind, e.Entity, e.Err)
}

// Unwrap returns the underlying error.
func (e *RegistryError) Unwrap() error { return e.Err }

// NewRegistryError creates a RegistryError with the given details.
func NewRegistryError(kind, entity string, err error) *RegistryError {
	return &RegistryError{Kind: kind, Entity: entity, Err: err}
}
