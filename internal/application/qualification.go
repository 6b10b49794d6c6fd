package application

import (
	"fmt"
	"sort"

	"github.com/monsieurgui/climbinsight/internal/domain"
)

// StrictCriteriaFor resolves the qualification criteria for a category
// that must be one the ruleset explicitly defines. Unlike
// Ruleset.CriteriaFor it does not fall back to the ruleset-wide
// defaults: an unrecognized category is an error, with a "did you
// mean" hint when a defined category is a near miss. Callers taking
// free-form category input (such as the CLI) use this; internal
// evaluation paths use the fallback.
func StrictCriteriaFor(rs *domain.Ruleset, cat domain.Category) (domain.QualificationCriteria, error) {
	if c, ok := rs.CategoryOverrides[cat]; ok {
		return c, nil
	}
	known := rs.Categories()
	names := make([]string, len(known))
	for i, c := range known {
		names[i] = string(c)
	}
	if hint, ok := nearestCandidate(string(cat), names); ok {
		return domain.QualificationCriteria{}, fmt.Errorf("%w: %q in %s (did you mean %q?)",
			domain.ErrUnknownCategory, cat, rs.ID(), hint)
	}
	return domain.QualificationCriteria{}, fmt.Errorf("%w: %q in %s", domain.ErrUnknownCategory, cat, rs.ID())
}

// EvaluateQualification checks one athlete's season statistics against
// a ruleset's eligibility thresholds for a category. The report lists
// every unmet criterion, not just the first. When the statistics were
// never collected (a nil Results slice) the evaluation cannot run: it
// returns a partial result marking every criterion unknown together
// with an error wrapping domain.ErrQualificationDataIncomplete.
func EvaluateQualification(rs *domain.Ruleset, cat domain.Category, stats domain.SeasonStats) (domain.QualificationResult, error) {
	if rs == nil {
		return domain.QualificationResult{}, fmt.Errorf("ruleset cannot be nil")
	}
	criteria := rs.CriteriaFor(cat)
	result := domain.QualificationResult{
		AthleteID: stats.AthleteID,
		Category:  cat,
	}

	if stats.Results == nil {
		for _, c := range criterionList(criteria) {
			result.Missing = append(result.Missing, domain.Deficiency{
				Criterion: c.name,
				Required:  c.required,
				Unknown:   true,
			})
		}
		return result, fmt.Errorf("%w: athlete %q has no collected season statistics",
			domain.ErrQualificationDataIncomplete, stats.AthleteID)
	}

	for _, c := range criterionList(criteria) {
		actual := c.actual(stats)
		if actual < c.required {
			result.Missing = append(result.Missing, domain.Deficiency{
				Criterion: c.name,
				Required:  c.required,
				Actual:    actual,
			})
		}
	}
	result.Qualified = len(result.Missing) == 0
	return result, nil
}

type criterion struct {
	name     string
	required int
	actual   func(domain.SeasonStats) int
}

// criterionList expands criteria into an ordered evaluation list:
// competition count, point total, then the per-tier minimums in sorted
// tier order so reports are deterministic.
func criterionList(criteria domain.QualificationCriteria) []criterion {
	list := make([]criterion, 0, 2+len(criteria.MinPerTier))
	if criteria.MinCompetitions > 0 {
		list = append(list, criterion{
			name:     "min_competitions",
			required: criteria.MinCompetitions,
			actual:   func(s domain.SeasonStats) int { return len(s.Results) },
		})
	}
	if criteria.MinPoints > 0 {
		list = append(list, criterion{
			name:     "min_points",
			required: criteria.MinPoints,
			actual:   func(s domain.SeasonStats) int { return s.TotalPoints() },
		})
	}

	tiers := make([]domain.Tier, 0, len(criteria.MinPerTier))
	for t := range criteria.MinPerTier {
		tiers = append(tiers, t)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i] < tiers[j] })
	for _, t := range tiers {
		tier := t
		list = append(list, criterion{
			name:     "min_" + string(tier),
			required: criteria.MinPerTier[tier],
			actual:   func(s domain.SeasonStats) int { return s.CountAtTier(tier) },
		})
	}
	return list
}
