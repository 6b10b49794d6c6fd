package application

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/monsieurgui/climbinsight/infrastructure/tiebreak"
	"github.com/monsieurgui/climbinsight/internal/domain"
)

// registerCustomValidators installs the validation rules that go
// beyond struct tags.
func registerCustomValidators(v *validator.Validate) error {
	// tiebreakmethod accepts any name the tiebreak factory can build,
	// including the dynamic most_<tier> family.
	return v.RegisterValidation("tiebreakmethod", func(fl validator.FieldLevel) bool {
		_, err := tiebreak.For(fl.Field().String())
		return err == nil
	})
}

// validateSemantics enforces the cross-field rules struct tags cannot
// express. Every violation is accumulated so a configuration can be
// fixed in one pass.
func validateSemantics(config *RulesetConfig) error {
	verr := domain.NewValidationError(config.Name + "@" + config.Version)

	validateRankingPoints(verr, "scoring.lead.ranking_points", config.Scoring.Lead.RankingPoints, false)
	validateRankingPoints(verr, "scoring.boulder.ranking_points", config.Scoring.Boulder.RankingPoints, true)
	validateRankingPoints(verr, "scoring.speed.ranking_points", config.Scoring.Speed.RankingPoints, true)

	if p := config.Scoring.Boulder.Penalties; p.TopAttempt.Value > 0 && p.TopAttempt.MaxDeduction == 0 {
		verr.AddError("scoring.boulder.penalties.top_attempt: a per-attempt value requires a max_deduction cap")
	}
	if p := config.Scoring.Boulder.Penalties; p.ZoneAttempt.Value > 0 && p.ZoneAttempt.MaxDeduction == 0 {
		verr.AddError("scoring.boulder.penalties.zone_attempt: a per-attempt value requires a max_deduction cap")
	}

	if config.Derogation.Enabled {
		rules := config.Derogation.Rules
		if rules.PointsHandling == "" {
			verr.AddError("derogation.rules.points_handling is required when derogation is enabled")
		}
		if rules.PointsHandling == "redistribute" && config.Derogation.PointRedistribution.Method == "" {
			verr.AddError("derogation.point_redistribution.method is required for redistribute handling")
		}
		if rules.RankingDisplay == "with_original_rank" && len(rules.DisplayNote) == 0 {
			verr.AddError("derogation.rules.display_note is required when displaying original ranks")
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// validateRankingPoints checks one discipline's placement-to-points
// section: every tier carries exactly one of table/multiplier, at
// least one tier carries an explicit table for multipliers to resolve
// against, and table ranks are positive.
func validateRankingPoints(verr *domain.ValidationError, path string, rp RankingPointsConfig, allowSameAsLead bool) {
	if rp.SameAsLead {
		if !allowSameAsLead {
			verr.AddError(fmt.Sprintf("%s: the lead section cannot reference itself with %s", path, sameAsLeadKeyword))
		}
		return
	}
	if len(rp.Tiers) == 0 {
		verr.AddError(fmt.Sprintf("%s: at least one tier is required", path))
		return
	}

	tiers := make([]string, 0, len(rp.Tiers))
	for tier := range rp.Tiers {
		tiers = append(tiers, tier)
	}
	sort.Strings(tiers)

	tables, multipliers := 0, 0
	for _, tier := range tiers {
		tp := rp.Tiers[tier]
		switch {
		case tp.Table != nil && tp.Multiplier != nil:
			verr.AddError(fmt.Sprintf("%s.%s: table and multiplier are mutually exclusive", path, tier))
		case tp.Table == nil && tp.Multiplier == nil:
			verr.AddError(fmt.Sprintf("%s.%s: either a table or a multiplier is required", path, tier))
		case tp.Table != nil:
			tables++
			for rank, points := range tp.Table {
				if rank < 1 {
					verr.AddError(fmt.Sprintf("%s.%s: table rank %d must be >= 1", path, tier, rank))
				}
				if points < 0 {
					verr.AddError(fmt.Sprintf("%s.%s: table rank %d has negative points", path, tier, rank))
				}
			}
		case tp.Multiplier != nil:
			multipliers++
			if *tp.Multiplier <= 0 || *tp.Multiplier > 2 {
				verr.AddError(fmt.Sprintf("%s.%s: multiplier %g must be in (0, 2]", path, tier, *tp.Multiplier))
			}
		}
	}

	switch {
	case tables == 0:
		verr.AddError(fmt.Sprintf("%s: at least one tier must carry an explicit table", path))
	case multipliers > 0 && tables > 1:
		verr.AddError(fmt.Sprintf("%s: multiplier tiers need a single unambiguous base table", path))
	}
}
