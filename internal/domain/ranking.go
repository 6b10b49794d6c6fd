package domain

import (
	"fmt"
	"time"
)

// PointSourceKind classifies where a ranking entry's points came from.
type PointSourceKind string

// Point source kinds.
const (
	// PointSourceOwn marks points earned at the athlete's own
	// competitive rank with no derogation involved.
	PointSourceOwn PointSourceKind = "own_performance"

	// PointSourceRedistributed marks points that cascaded to the
	// athlete after a derogated athlete vacated a higher slot.
	PointSourceRedistributed PointSourceKind = "redistributed"
)

// PointSource records the provenance of an entry's points. FromRank is
// the competitive slot the points were awarded for and is only
// meaningful for redistributed points.
type PointSource struct {
	Kind     PointSourceKind `json:"kind"`
	FromRank int             `json:"from_rank,omitempty"`
}

// Note renders the point-source annotation consumed by presentation
// collaborators: "own_performance" or "redistributed_from_rank_<k>".
func (ps PointSource) Note() string {
	if ps.Kind == PointSourceRedistributed {
		return fmt.Sprintf("redistributed_from_rank_%d", ps.FromRank)
	}
	return string(PointSourceOwn)
}

// RankingEntry is one athlete's finalized placement within one
// competition. The competitive and display views are modeled as two
// explicit fields: CompetitiveRank is the contiguous point-earning
// slot (nil for derogated athletes, who earn no points), DisplayRank
// is the position shown to consumers and is shared between athletes
// whose tie the ruleset's methods could not break.
type RankingEntry struct {
	AthleteID     AthleteID `json:"athlete_id"`
	CompetitionID string    `json:"competition_id"`

	// DisplayRank is 1-based and shared across unresolved ties.
	DisplayRank int `json:"display_rank"`

	// CompetitiveRank is the 1-based slot in the compacted competitive
	// sequence; nil when the athlete is derogated.
	CompetitiveRank *int `json:"competitive_rank,omitempty"`

	// Points awarded for the competitive rank; always 0 for derogated
	// athletes.
	Points int `json:"points"`

	// Derogated marks athletes competing outside the point-earning
	// sequence. OriginalRank preserves their pre-extraction placement
	// for display and DerogationNote carries the ruleset's display
	// note in the requested language.
	Derogated      bool   `json:"derogated,omitempty"`
	OriginalRank   int    `json:"original_rank,omitempty"`
	DerogationNote string `json:"derogation_note,omitempty"`

	// PointSource records whether the points were earned at the
	// athlete's own slot or cascaded from a vacated one.
	PointSource PointSource `json:"point_source"`

	// TiedWith lists the athletes sharing this entry's DisplayRank
	// after tiebreak resolution.
	TiedWith []AthleteID `json:"tied_with,omitempty"`

	// Score is the computed score this placement was derived from.
	Score *Score `json:"score,omitempty"`
}

// CompetitionRanking is the terminal output of ranking one
// competition: one entry per original participant, derogated or not,
// in display order, plus the per-result errors that were isolated
// without aborting the batch.
type CompetitionRanking struct {
	// ComputationID identifies this computation run. It is metadata
	// only and excluded from idempotence comparisons.
	ComputationID string `json:"computation_id"`

	CompetitionID  string     `json:"competition_id"`
	RulesetName    string     `json:"ruleset_name"`
	RulesetVersion string     `json:"ruleset_version"`
	Discipline     Discipline `json:"discipline"`
	Tier           Tier       `json:"tier"`
	Category       Category   `json:"category"`

	// Entries holds the finalized ranking in display order.
	Entries []RankingEntry `json:"entries"`

	// Skipped attributes every result that failed to compute; the
	// remaining results proceeded normally.
	Skipped []*ResultError `json:"-"`

	ComputedAt time.Time `json:"computed_at"`
}

// Entry returns the ranking entry for an athlete, if present.
func (cr *CompetitionRanking) Entry(id AthleteID) (RankingEntry, bool) {
	for _, e := range cr.Entries {
		if e.AthleteID == id {
			return e, true
		}
	}
	return RankingEntry{}, false
}

// TotalPoints sums the points distributed across the ranking.
func (cr *CompetitionRanking) TotalPoints() int {
	total := 0
	for _, e := range cr.Entries {
		total += e.Points
	}
	return total
}

// SeasonStanding is one athlete's standing within one league and
// category: exactly the best-N contributing entries and their point
// total. Standings carry no per-run metadata so re-aggregation over
// unchanged inputs yields identical values.
type SeasonStanding struct {
	AthleteID AthleteID `json:"athlete_id"`
	League    string    `json:"league"`
	Category  Category  `json:"category"`

	// Rank is the standing's 1-based position, shared across ties the
	// tiebreak methods left unresolved.
	Rank int `json:"rank"`

	// Contributing holds the best-N entries in descending point order.
	Contributing []RankingEntry `json:"contributing"`

	// TotalPoints is the sum of the contributing entries' points.
	TotalPoints int `json:"total_points"`

	// TiedWith lists the athletes sharing this standing's rank.
	TiedWith []AthleteID `json:"tied_with,omitempty"`
}

// SeasonRanking is the league table for one (league, category, ruleset)
// triple, produced as a complete replacement snapshot on every run.
type SeasonRanking struct {
	// ComputationID identifies this aggregation run. It is metadata
	// only and excluded from idempotence comparisons.
	ComputationID string `json:"computation_id"`

	League         string   `json:"league"`
	Category       Category `json:"category"`
	RulesetName    string   `json:"ruleset_name"`
	RulesetVersion string   `json:"ruleset_version"`

	// Standings holds every athlete's standing in rank order.
	Standings []SeasonStanding `json:"standings"`

	ComputedAt time.Time `json:"computed_at"`
}

// Deficiency reports one unmet or unevaluable qualification criterion.
// Unknown is set when the input data was insufficient to evaluate the
// criterion at all.
type Deficiency struct {
	Criterion string `json:"criterion"`
	Required  int    `json:"required"`
	Actual    int    `json:"actual"`
	Unknown   bool   `json:"unknown,omitempty"`
}

// QualificationResult is the outcome of evaluating an athlete's season
// statistics against a ruleset's eligibility thresholds. Missing lists
// every unmet criterion, not just the first.
type QualificationResult struct {
	AthleteID AthleteID    `json:"athlete_id"`
	Category  Category     `json:"category"`
	Qualified bool         `json:"qualified"`
	Missing   []Deficiency `json:"missing,omitempty"`
}

// StatResult is one competition's contribution to an athlete's season
// statistics for qualification purposes.
type StatResult struct {
	CompetitionID string `json:"competition_id"`
	Tier          Tier   `json:"tier"`
	Points        int    `json:"points"`
}

// SeasonStats are the accumulated season statistics of one athlete,
// supplied by the caller for qualification evaluation. A nil Results
// slice means the statistics were never collected, which is distinct
// from an athlete with zero results.
type SeasonStats struct {
	AthleteID AthleteID    `json:"athlete_id"`
	Results   []StatResult `json:"results"`
}

// TotalPoints sums the points across all results.
func (s SeasonStats) TotalPoints() int {
	total := 0
	for _, r := range s.Results {
		total += r.Points
	}
	return total
}

// CountAtTier returns the number of results at the given tier.
func (s SeasonStats) CountAtTier(tier Tier) int {
	n := 0
	for _, r := range s.Results {
		if r.Tier == tier {
			n++
		}
	}
	return n
}
