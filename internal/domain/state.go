package domain

import "maps"

// Key represents a type-safe generic key for accessing values in State.
// The type parameter T ensures compile-time type safety when getting
// and setting values, eliminating runtime type assertions.
type Key[T any] struct{ name string }

// NewKey creates a new Key with the specified name and type.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Predefined state keys used by the ranking pipeline. Each key is
// strongly typed so a stage cannot misread another stage's output.
var (
	// KeyRawResults stores the raw results the pipeline started from.
	KeyRawResults = Key[[]RawResult]{"raw_results"}

	// KeyScores stores the computed scores in input order.
	KeyScores = Key[[]Score]{"scores"}

	// KeyOrder stores the tiebreak-resolved athlete order.
	KeyOrder = Key[[]AthleteID]{"order"}

	// KeyEntries stores the finalized ranking entries.
	KeyEntries = Key[[]RankingEntry]{"entries"}

	// KeySkipped stores the per-result errors isolated so far.
	KeySkipped = Key[[]*ResultError]{"skipped"}

	// KeyCompetitionID stores the competition being ranked, used for
	// attribution and observability.
	KeyCompetitionID = Key[string]{"execution.competition_id"}

	// KeyComputationID stores the unique identifier of this
	// computation run.
	KeyComputationID = Key[string]{"execution.computation_id"}
)

// State is the immutable value container the ranking pipeline threads
// through its stages. A stage never mutates the State it received; it
// derives a new one with With. This keeps every stage a pure function
// and makes concurrent pipeline runs over independent competitions
// safe without coordination.
type State struct {
	data map[string]any
}

// NewState creates an empty State.
func NewState() State {
	return State{data: make(map[string]any)}
}

// With returns a new State containing all values of s plus the given
// key set to value. The original State is left untouched.
func With[T any](s State, key Key[T], value T) State {
	next := make(map[string]any, len(s.data)+1)
	maps.Copy(next, s.data)
	next[key.name] = value
	return State{data: next}
}

// Get retrieves the value for key. The second return value reports
// whether the key was present with the expected type.
func Get[T any](s State, key Key[T]) (T, bool) {
	var zero T
	v, ok := s.data[key.name]
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Len returns the number of values held by the State.
func (s State) Len() int { return len(s.data) }
