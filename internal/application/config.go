// Package application orchestrates the scoring and ranking engine:
// ruleset loading and validation, the competition ranking pipeline,
// qualification evaluation, derogation handling, and season
// aggregation.
package application

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// sameAsLeadKeyword is the scalar a discipline's ranking_points may be
// set to instead of its own tier tables.
const sameAsLeadKeyword = "same_as_lead"

// RulesetConfig is the YAML document schema for one federation's
// scoring and ranking configuration. Two bundled examples (IFSC and
// FQME) validate and compute through the same code paths; nothing in
// the engine branches on a federation name.
type RulesetConfig struct {
	// Name identifies the federation this ruleset belongs to.
	Name string `yaml:"name" validate:"required,min=1,max=64"`
	// Version is the federation's own version label for this document.
	// A ruleset is identified by (name, version).
	Version string `yaml:"version" validate:"required,min=1,max=32"`
	// Description documents the ruleset for discovery and display.
	Description string `yaml:"description" validate:"max=1000"`
	// Features lists the capabilities this ruleset exercises, for UI
	// selection; the engine does not interpret them.
	Features []string `yaml:"features" validate:"max=20,dive,min=1,max=50"`

	// Scoring holds the per-discipline score parameters and
	// placement-to-points tables.
	Scoring ScoringConfig `yaml:"scoring" validate:"required"`

	// Qualification holds the season eligibility thresholds, with
	// optional per-category overrides.
	Qualification QualificationConfig `yaml:"qualification_criteria" validate:"required"`

	// Ranking holds the season aggregation and tiebreak settings.
	Ranking RankingConfig `yaml:"ranking" validate:"required"`

	// Derogation configures how athletes competing under derogation
	// are handled. Absent or disabled, derogation flags are rejected.
	Derogation DerogationConfig `yaml:"derogation"`

	// Adjustments configures the optional post-table point modifiers.
	Adjustments AdjustmentsConfig `yaml:"point_adjustments"`
}

// ScoringConfig groups the discipline sections of a ruleset document.
type ScoringConfig struct {
	Lead    LeadScoringConfig    `yaml:"lead" validate:"required"`
	Boulder BoulderScoringConfig `yaml:"boulder" validate:"required"`
	Speed   SpeedScoringConfig   `yaml:"speed" validate:"required"`
}

// LeadScoringConfig is the lead discipline section.
type LeadScoringConfig struct {
	BasePoints    LeadBasePointsConfig `yaml:"base_points"`
	RankingPoints RankingPointsConfig  `yaml:"ranking_points"`
}

// LeadBasePointsConfig holds the lead score modifiers. When
// PlusModifierEnhanced is present the ruleset scores "+" annotations
// with it instead of PlusModifier.
type LeadBasePointsConfig struct {
	PlusModifier         float64  `yaml:"plus_modifier" validate:"min=0,max=10"`
	PlusModifierEnhanced *float64 `yaml:"plus_modifier_enhanced" validate:"omitempty,min=0,max=10"`
}

// BoulderScoringConfig is the boulder discipline section.
type BoulderScoringConfig struct {
	Points        BoulderPointsConfig    `yaml:"points"`
	Penalties     BoulderPenaltiesConfig `yaml:"penalties"`
	RankingPoints RankingPointsConfig    `yaml:"ranking_points"`
}

// BoulderPointsConfig holds the top and zone point values.
type BoulderPointsConfig struct {
	Top  float64 `yaml:"top" validate:"gt=0,max=100000"`
	Zone float64 `yaml:"zone" validate:"gte=0,max=100000"`
}

// PenaltyConfig is one attempt penalty: the per-attempt deduction and
// the cap the total deduction never exceeds.
type PenaltyConfig struct {
	Value        float64 `yaml:"value" validate:"gte=0,max=1000"`
	MaxDeduction float64 `yaml:"max_deduction" validate:"gte=0,max=10000"`
}

// BoulderPenaltiesConfig groups the boulder attempt penalties.
type BoulderPenaltiesConfig struct {
	TopAttempt  PenaltyConfig `yaml:"top_attempt"`
	ZoneAttempt PenaltyConfig `yaml:"zone_attempt"`
}

// SpeedScoringConfig is the speed discipline section.
type SpeedScoringConfig struct {
	FollowsIFSCRules bool                `yaml:"follows_ifsc_rules"`
	RankingPoints    RankingPointsConfig `yaml:"ranking_points"`
}

// TierPointsConfig maps one competition tier to ranking points: either
// an explicit rank table or a multiplier over the discipline's base
// tier. Semantic validation enforces exactly one of the two.
type TierPointsConfig struct {
	Table      map[int]int `yaml:"table"`
	Multiplier *float64    `yaml:"multiplier"`
}

// RankingPointsConfig is a discipline's placement-to-points section:
// either the literal "same_as_lead" or a mapping of tier names to
// TierPointsConfig.
type RankingPointsConfig struct {
	SameAsLead bool
	Tiers      map[string]TierPointsConfig
}

// UnmarshalYAML accepts either the "same_as_lead" scalar or a tier
// mapping.
func (c *RankingPointsConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		if s != sameAsLeadKeyword {
			return fmt.Errorf("ranking_points scalar must be %q, got %q", sameAsLeadKeyword, s)
		}
		c.SameAsLead = true
		return nil
	}
	return node.Decode(&c.Tiers)
}

// MarshalYAML renders the section back to its document form.
func (c RankingPointsConfig) MarshalYAML() (any, error) {
	if c.SameAsLead {
		return sameAsLeadKeyword, nil
	}
	return c.Tiers, nil
}

// CriteriaConfig is one set of qualification thresholds. Tier minimums
// appear in the document as dynamic "min_<tier>" keys.
type CriteriaConfig struct {
	MinCompetitions int            `yaml:"min_competitions" validate:"gt=0"`
	MinPoints       int            `yaml:"min_points" validate:"gt=0"`
	MinPerTier      map[string]int `yaml:"-" validate:"dive,gte=0"`
}

// UnmarshalYAML collects min_competitions, min_points, and every other
// min_<tier> key.
func (c *CriteriaConfig) UnmarshalYAML(node *yaml.Node) error {
	fields, err := decodeCriteriaFields(node)
	if err != nil {
		return err
	}
	*c = fields
	return nil
}

// MarshalYAML renders the criteria back to their document form,
// including the dynamic min_<tier> keys. Without this the tier
// minimums would be invisible to the normalized document hash the
// registry caches by.
func (c CriteriaConfig) MarshalYAML() (any, error) {
	out := map[string]int{
		"min_competitions": c.MinCompetitions,
		"min_points":       c.MinPoints,
	}
	for tier, n := range c.MinPerTier {
		out["min_"+tier] = n
	}
	return out, nil
}

// QualificationConfig is the qualification_criteria section: the
// ruleset-wide thresholds plus whole-set per-category overrides.
type QualificationConfig struct {
	CriteriaConfig       `yaml:",inline"`
	CategoryRequirements map[string]CriteriaConfig `yaml:"category_requirements" validate:"max=50,dive"`
}

// UnmarshalYAML collects the dynamic min_<tier> keys alongside the
// category overrides.
func (c *QualificationConfig) UnmarshalYAML(node *yaml.Node) error {
	fields, err := decodeCriteriaFields(node)
	if err != nil {
		return err
	}
	var overrides struct {
		CategoryRequirements map[string]CriteriaConfig `yaml:"category_requirements"`
	}
	if err := node.Decode(&overrides); err != nil {
		return err
	}
	c.CriteriaConfig = fields
	c.CategoryRequirements = overrides.CategoryRequirements
	return nil
}

// MarshalYAML renders the section back to its document form.
func (c QualificationConfig) MarshalYAML() (any, error) {
	base, err := c.CriteriaConfig.MarshalYAML()
	if err != nil {
		return nil, err
	}
	out := base.(map[string]int)
	doc := make(map[string]any, len(out)+1)
	for k, v := range out {
		doc[k] = v
	}
	if len(c.CategoryRequirements) > 0 {
		doc["category_requirements"] = c.CategoryRequirements
	}
	return doc, nil
}

// decodeCriteriaFields extracts the fixed and dynamic minimum keys of
// a criteria mapping node.
func decodeCriteriaFields(node *yaml.Node) (CriteriaConfig, error) {
	var raw map[string]yaml.Node
	if err := node.Decode(&raw); err != nil {
		return CriteriaConfig{}, err
	}
	var out CriteriaConfig
	for key, value := range raw {
		switch {
		case key == "min_competitions":
			if err := value.Decode(&out.MinCompetitions); err != nil {
				return CriteriaConfig{}, fmt.Errorf("min_competitions: %w", err)
			}
		case key == "min_points":
			if err := value.Decode(&out.MinPoints); err != nil {
				return CriteriaConfig{}, fmt.Errorf("min_points: %w", err)
			}
		case strings.HasPrefix(key, "min_"):
			var n int
			if err := value.Decode(&n); err != nil {
				return CriteriaConfig{}, fmt.Errorf("%s: %w", key, err)
			}
			if out.MinPerTier == nil {
				out.MinPerTier = make(map[string]int)
			}
			out.MinPerTier[strings.TrimPrefix(key, "min_")] = n
		}
	}
	return out, nil
}

// RankingConfig is the ranking section: best-N selection and the
// ordered tiebreak pipeline.
type RankingConfig struct {
	BestNResults int            `yaml:"best_n_results" validate:"required,gt=0,lte=50"`
	Tiebreak     TiebreakConfig `yaml:"tiebreak" validate:"required"`
}

// TiebreakConfig lists the tiebreak methods in application order.
type TiebreakConfig struct {
	Methods []string `yaml:"methods" validate:"required,min=1,max=10,dive,tiebreakmethod"`
}

// DerogationConfig is the derogation section of a ruleset document.
type DerogationConfig struct {
	Enabled             bool                      `yaml:"enabled"`
	Rules               DerogationRulesConfig     `yaml:"rules"`
	PointRedistribution PointRedistributionConfig `yaml:"point_redistribution"`
}

// DerogationRulesConfig describes how derogated athletes appear in a
// ranking and what happens to their points. DisplayNote maps BCP-47
// language tags to note variants.
type DerogationRulesConfig struct {
	AllowParticipation bool              `yaml:"allow_participation"`
	PointsHandling     string            `yaml:"points_handling" validate:"omitempty,oneof=redistribute zero"`
	RankingDisplay     string            `yaml:"ranking_display" validate:"omitempty,oneof=with_original_rank hidden"`
	DisplayNote        map[string]string `yaml:"display_note" validate:"max=20,dive,keys,bcp47_language_tag,endkeys,min=1,max=255"`
}

// PointRedistributionConfig names the redistribution method applied to
// slots vacated by derogated athletes.
type PointRedistributionConfig struct {
	Method string `yaml:"method" validate:"omitempty,oneof=next_athlete"`
}

// AdjustmentsConfig is the optional point_adjustments section. With
// Enabled false (the default) the point tables apply exactly.
type AdjustmentsConfig struct {
	Enabled            bool                    `yaml:"enabled"`
	ParticipantBands   []ParticipantBandConfig `yaml:"participant_bands" validate:"max=10,dive"`
	LargeField         *LargeFieldConfig       `yaml:"large_field"`
	SeasonFinaleFactor float64                 `yaml:"season_finale_factor" validate:"omitempty,gt=0,lte=2"`
}

// ParticipantBandConfig scales points for small fields: competitions
// with at most MaxParticipants entrants use Factor.
type ParticipantBandConfig struct {
	MaxParticipants int     `yaml:"max_participants" validate:"gt=0,lte=10000"`
	Factor          float64 `yaml:"factor" validate:"gt=0,lte=2"`
}

// LargeFieldConfig scales points for large fields.
type LargeFieldConfig struct {
	MinParticipants int     `yaml:"min_participants" validate:"gt=0,lte=10000"`
	Factor          float64 `yaml:"factor" validate:"gt=0,lte=2"`
}
