// Package domain contains pure, dependency-free domain models and types
// for the scoring and ranking engine.
package domain

import (
	"fmt"
	"math"
	"time"
)

// AthleteID uniquely identifies an athlete across competitions.
type AthleteID string

// EventID uniquely identifies a single event (one round of one
// competition in one discipline).
type EventID string

// Discipline identifies one of the competitive climbing disciplines.
// Comparison direction is a property of the discipline, not of any
// ruleset: lead and boulder scores rank higher-is-better, speed scores
// rank lower-is-better.
type Discipline string

// Supported disciplines.
const (
	DisciplineLead    Discipline = "lead"
	DisciplineBoulder Discipline = "boulder"
	DisciplineSpeed   Discipline = "speed"
)

// Valid reports whether d is one of the supported disciplines.
func (d Discipline) Valid() bool {
	switch d {
	case DisciplineLead, DisciplineBoulder, DisciplineSpeed:
		return true
	}
	return false
}

// LowerIsBetter reports the comparison direction for scores in this
// discipline. Speed is the only discipline where a smaller score wins.
func (d Discipline) LowerIsBetter() bool { return d == DisciplineSpeed }

// CompareScores orders two score values under this discipline's
// comparison direction. It returns a negative number when a ranks ahead
// of b, a positive number when b ranks ahead of a, and 0 when the
// values tie. NaN values always rank last.
func (d Discipline) CompareScores(a, b float64) int {
	if math.IsNaN(a) && math.IsNaN(b) {
		return 0
	}
	if math.IsNaN(a) {
		return 1
	}
	if math.IsNaN(b) {
		return -1
	}
	switch {
	case a == b:
		return 0
	case d.LowerIsBetter() == (a < b):
		return -1
	default:
		return 1
	}
}

// Tier identifies a competition level. Tier names are ruleset data;
// the engine only ever resolves them through a ruleset's point tables.
type Tier string

// Tier names used by the bundled federation configurations.
const (
	TierLocal             Tier = "local"
	TierRegional          Tier = "regional"
	TierProvincial        Tier = "provincial"
	TierWorldCup          Tier = "world_cup"
	TierContinental       Tier = "continental"
	TierWorldChampionship Tier = "world_championship"
)

// Category identifies an age or ability category within a league
// (for example "senior" or "junior").
type Category string

// LeadPerformance holds the raw fields of a lead climbing result.
// HoldPoints lists the value of every hold the athlete controlled, in
// route order; the score is their sum. Plus records the "+" annotation
// awarded for a meaningful move toward the next hold.
type LeadPerformance struct {
	HoldPoints []float64 `yaml:"hold_points" json:"hold_points"`
	Plus       bool      `yaml:"plus" json:"plus"`
}

// BoulderPerformance holds the raw fields of a boulder result.
// Attempt counts record tries up to and including the successful one.
type BoulderPerformance struct {
	Topped       bool `yaml:"topped" json:"topped"`
	ZoneReached  bool `yaml:"zone_reached" json:"zone_reached"`
	TopAttempts  int  `yaml:"top_attempts" json:"top_attempts"`
	ZoneAttempts int  `yaml:"zone_attempts" json:"zone_attempts"`
}

// SpeedPerformance holds the raw fields of a speed result. A false
// start invalidates the run regardless of any recorded time.
type SpeedPerformance struct {
	ElapsedSeconds float64 `yaml:"elapsed_seconds" json:"elapsed_seconds"`
	FalseStart     bool    `yaml:"false_start" json:"false_start"`
}

// RawResult is one athlete's raw performance in one event under one
// discipline. It is produced by result submission and is a read-only
// input to the engine; exactly one of the per-discipline performance
// fields must be set, matching Discipline.
type RawResult struct {
	AthleteID  AthleteID  `yaml:"athlete_id" json:"athlete_id"`
	EventID    EventID    `yaml:"event_id" json:"event_id"`
	Discipline Discipline `yaml:"discipline" json:"discipline"`
	Tier       Tier       `yaml:"tier" json:"tier"`
	Category   Category   `yaml:"category" json:"category"`

	Lead    *LeadPerformance    `yaml:"lead,omitempty" json:"lead,omitempty"`
	Boulder *BoulderPerformance `yaml:"boulder,omitempty" json:"boulder,omitempty"`
	Speed   *SpeedPerformance   `yaml:"speed,omitempty" json:"speed,omitempty"`
}

// Score is the derived, comparable numeric value for one RawResult,
// tagged with the ruleset that produced it. Scores are never mutated
// in place; recomputation supersedes a Score with a new one carrying a
// fresh computation timestamp.
type Score struct {
	AthleteID  AthleteID  `json:"athlete_id"`
	EventID    EventID    `json:"event_id"`
	Discipline Discipline `json:"discipline"`

	// Value is the comparable score under the discipline's ordering.
	// Speed false starts carry +Inf so they rank behind every finite
	// time and never tie with a real run.
	Value float64 `json:"value"`

	RulesetName    string    `json:"ruleset_name"`
	RulesetVersion string    `json:"ruleset_version"`
	ComputedAt     time.Time `json:"computed_at"`
}

// String returns a compact representation useful in logs and errors.
func (s Score) String() string {
	return fmt.Sprintf("%s/%s %s=%g (%s@%s)",
		s.AthleteID, s.EventID, s.Discipline, s.Value, s.RulesetName, s.RulesetVersion)
}
