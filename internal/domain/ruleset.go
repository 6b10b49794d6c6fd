package domain

import (
	"fmt"
	"math"
	"sort"
)

// AttemptPenalty describes the per-attempt deduction applied to a
// boulder score for tries beyond the first successful one, together
// with the maximum total deduction the ruleset allows.
type AttemptPenalty struct {
	Value        float64
	MaxDeduction float64
}

// LeadScoring holds the lead discipline parameters of a ruleset.
// When PlusModifierEnhanced is non-nil the ruleset scores "+"
// annotations with the enhanced value instead of the base one.
type LeadScoring struct {
	PlusModifier         float64
	PlusModifierEnhanced *float64
}

// Modifier returns the value added to a lead score for a "plus"
// annotation under this ruleset.
func (l LeadScoring) Modifier() float64 {
	if l.PlusModifierEnhanced != nil {
		return *l.PlusModifierEnhanced
	}
	return l.PlusModifier
}

// BoulderScoring holds the boulder discipline parameters of a ruleset.
type BoulderScoring struct {
	TopPoints   float64
	ZonePoints  float64
	TopPenalty  AttemptPenalty
	ZonePenalty AttemptPenalty
}

// SpeedScoring holds the speed discipline parameters of a ruleset.
type SpeedScoring struct {
	FollowsIFSCRules bool
}

// TierPoints describes how one competition tier maps placements to
// ranking points: either an explicit rank table or a multiplier over
// the discipline's base tier. Exactly one of the two is set.
type TierPoints struct {
	Table      map[int]int
	Multiplier float64
}

// DisciplinePoints is the placement-to-points configuration for one
// discipline. When SameAsLead is true the discipline reuses the lead
// tables and Tiers is empty. BaseTier names the tier carrying the
// explicit table that multiplier tiers reference.
type DisciplinePoints struct {
	SameAsLead bool
	BaseTier   Tier
	Tiers      map[Tier]TierPoints
}

// QualificationCriteria are the season eligibility thresholds of a
// ruleset, either ruleset-wide or one category's override. MinPerTier
// maps a tier to the minimum number of results required at that tier.
type QualificationCriteria struct {
	MinCompetitions int
	MinPoints       int
	MinPerTier      map[Tier]int
}

// DerogationPolicy describes how a ruleset treats athletes competing
// under an administrative derogation. Notes maps BCP-47 language tags
// to display-note variants.
type DerogationPolicy struct {
	Enabled              bool
	AllowParticipation   bool
	PointsHandling       string
	RedistributionMethod string
	RankingDisplay       string
	Notes                map[string]string
}

// ParticipantBand is one step of the participant-count point
// adjustment: competitions with at most MaxParticipants entrants use
// Factor. Bands are evaluated smallest bound first.
type ParticipantBand struct {
	MaxParticipants int
	Factor          float64
}

// PointAdjustments are the optional post-table point modifiers a
// ruleset may enable: participant-count bands and a season finale
// bonus. With Enabled false the tables apply exactly.
type PointAdjustments struct {
	Enabled            bool
	ParticipantBands   []ParticipantBand
	LargeFieldFactor   float64
	LargeFieldMinimum  int
	SeasonFinaleFactor float64
}

// Factor returns the combined adjustment multiplier for a competition
// with the given participant count, importance multiplier, and finale
// flag. Importance is a per-competition input and applies even when the
// configured adjustments are disabled; zero or negative means
// unadjusted. The configured bands and finale bonus apply only when
// Enabled.
func (p PointAdjustments) Factor(participants int, importance float64, seasonFinale bool) float64 {
	factor := 1.0
	if importance > 0 {
		factor = importance
	}
	if !p.Enabled {
		return factor
	}
	for _, band := range p.ParticipantBands {
		if participants <= band.MaxParticipants {
			factor *= band.Factor
			break
		}
	}
	if p.LargeFieldMinimum > 0 && participants >= p.LargeFieldMinimum && p.LargeFieldFactor > 0 {
		factor *= p.LargeFieldFactor
	}
	if seasonFinale && p.SeasonFinaleFactor > 0 {
		factor *= p.SeasonFinaleFactor
	}
	return factor
}

// RulesetInfo is the descriptive metadata of a ruleset, surfaced for
// discovery and display; it plays no part in computation.
type RulesetInfo struct {
	Name        string
	Version     string
	Description string
	Features    []string
}

// Ruleset is the immutable, compiled scoring and ranking configuration
// of one federation. It is identified by (Name, Version) and safe for
// concurrent use; nothing in the engine mutates a loaded ruleset.
type Ruleset struct {
	Name    string
	Version string
	Info    RulesetInfo

	Lead    LeadScoring
	Boulder BoulderScoring
	Speed   SpeedScoring

	// Points holds the per-discipline placement-to-points tables.
	Points map[Discipline]DisciplinePoints

	// Qualification holds the ruleset-wide criteria; CategoryOverrides
	// replaces them wholesale for the categories it names.
	Qualification     QualificationCriteria
	CategoryOverrides map[Category]QualificationCriteria

	BestNResults    int
	TiebreakMethods []string

	Derogation  DerogationPolicy
	Adjustments PointAdjustments
}

// ID returns the registry identity of this ruleset.
func (r *Ruleset) ID() string { return r.Name + "@" + r.Version }

// Tiers returns the sorted tier names this ruleset can resolve for the
// given discipline. Useful for error suggestions and display.
func (r *Ruleset) Tiers(d Discipline) []Tier {
	dp, ok := r.Points[d]
	if !ok {
		return nil
	}
	if dp.SameAsLead {
		return r.Tiers(DisciplineLead)
	}
	tiers := make([]Tier, 0, len(dp.Tiers))
	for t := range dp.Tiers {
		tiers = append(tiers, t)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i] < tiers[j] })
	return tiers
}

// Categories returns the sorted category names carrying qualification
// overrides.
func (r *Ruleset) Categories() []Category {
	cats := make([]Category, 0, len(r.CategoryOverrides))
	for c := range r.CategoryOverrides {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// PointsForRank maps a within-event placement to federation ranking
// points for the given tier and discipline. Ranks beyond a table's
// last entry receive 0 points. Multiplier tiers resolve against the
// discipline's base tier and round half away from zero. It returns an
// error wrapping ErrUnknownTier when the tier resolves to neither a
// table nor a multiplier, and ErrUnknownDiscipline for a discipline
// the ruleset carries no tables for.
func (r *Ruleset) PointsForRank(rank int, tier Tier, d Discipline) (int, error) {
	if rank < 1 {
		return 0, fmt.Errorf("rank must be >= 1, got %d", rank)
	}
	dp, ok := r.Points[d]
	if !ok {
		return 0, fmt.Errorf("%w: %q has no point tables for discipline %q", ErrUnknownDiscipline, r.ID(), d)
	}
	if dp.SameAsLead {
		return r.PointsForRank(rank, tier, DisciplineLead)
	}

	tp, ok := dp.Tiers[tier]
	if !ok {
		return 0, fmt.Errorf("%w: tier %q not defined for %s in %s", ErrUnknownTier, tier, d, r.ID())
	}

	if tp.Table != nil {
		return tp.Table[rank], nil
	}

	base, ok := dp.Tiers[dp.BaseTier]
	if !ok || base.Table == nil {
		return 0, fmt.Errorf("%w: tier %q in %s references base tier %q which has no table",
			ErrUnknownTier, tier, d, dp.BaseTier)
	}
	return int(math.Round(float64(base.Table[rank]) * tp.Multiplier)), nil
}

// TablePointsTotal sums the points the ruleset's table assigns to
// ranks 1..n for the tier and discipline. Redistribution preserves
// this total: no points are created or destroyed, only shifted.
func (r *Ruleset) TablePointsTotal(n int, tier Tier, d Discipline) (int, error) {
	total := 0
	for rank := 1; rank <= n; rank++ {
		pts, err := r.PointsForRank(rank, tier, d)
		if err != nil {
			return 0, err
		}
		total += pts
	}
	return total, nil
}

// CriteriaFor returns the qualification criteria for a category,
// falling back to the ruleset-wide defaults when the category carries
// no override.
func (r *Ruleset) CriteriaFor(cat Category) QualificationCriteria {
	if c, ok := r.CategoryOverrides[cat]; ok {
		return c
	}
	return r.Qualification
}
