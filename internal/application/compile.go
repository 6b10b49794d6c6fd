package application

import (
	"sort"

	"github.com/monsieurgui/climbinsight/internal/domain"
)

// compileRuleset turns a validated configuration document into the
// immutable domain ruleset the engine computes with. All maps are
// copied so later document reloads can never mutate a compiled
// ruleset in place.
func compileRuleset(config *RulesetConfig) *domain.Ruleset {
	rs := &domain.Ruleset{
		Name:    config.Name,
		Version: config.Version,
		Info: domain.RulesetInfo{
			Name:        config.Name,
			Version:     config.Version,
			Description: config.Description,
			Features:    append([]string(nil), config.Features...),
		},
		Lead: domain.LeadScoring{
			PlusModifier:         config.Scoring.Lead.BasePoints.PlusModifier,
			PlusModifierEnhanced: copyFloat(config.Scoring.Lead.BasePoints.PlusModifierEnhanced),
		},
		Boulder: domain.BoulderScoring{
			TopPoints:  config.Scoring.Boulder.Points.Top,
			ZonePoints: config.Scoring.Boulder.Points.Zone,
			TopPenalty: domain.AttemptPenalty{
				Value:        config.Scoring.Boulder.Penalties.TopAttempt.Value,
				MaxDeduction: config.Scoring.Boulder.Penalties.TopAttempt.MaxDeduction,
			},
			ZonePenalty: domain.AttemptPenalty{
				Value:        config.Scoring.Boulder.Penalties.ZoneAttempt.Value,
				MaxDeduction: config.Scoring.Boulder.Penalties.ZoneAttempt.MaxDeduction,
			},
		},
		Speed: domain.SpeedScoring{
			FollowsIFSCRules: config.Scoring.Speed.FollowsIFSCRules,
		},
		Points: map[domain.Discipline]domain.DisciplinePoints{
			domain.DisciplineLead:    compilePoints(config.Scoring.Lead.RankingPoints),
			domain.DisciplineBoulder: compilePoints(config.Scoring.Boulder.RankingPoints),
			domain.DisciplineSpeed:   compilePoints(config.Scoring.Speed.RankingPoints),
		},
		Qualification:   compileCriteria(config.Qualification.CriteriaConfig),
		BestNResults:    config.Ranking.BestNResults,
		TiebreakMethods: append([]string(nil), config.Ranking.Tiebreak.Methods...),
		Derogation: domain.DerogationPolicy{
			Enabled:              config.Derogation.Enabled,
			AllowParticipation:   config.Derogation.Rules.AllowParticipation,
			PointsHandling:       config.Derogation.Rules.PointsHandling,
			RedistributionMethod: config.Derogation.PointRedistribution.Method,
			RankingDisplay:       config.Derogation.Rules.RankingDisplay,
			Notes:                copyStringMap(config.Derogation.Rules.DisplayNote),
		},
		Adjustments: compileAdjustments(config.Adjustments),
	}

	if len(config.Qualification.CategoryRequirements) > 0 {
		rs.CategoryOverrides = make(map[domain.Category]domain.QualificationCriteria,
			len(config.Qualification.CategoryRequirements))
		for cat, criteria := range config.Qualification.CategoryRequirements {
			rs.CategoryOverrides[domain.Category(cat)] = compileCriteria(criteria)
		}
	}

	return rs
}

// compilePoints builds one discipline's placement-to-points tables.
// The base tier every multiplier resolves against is the tier carrying
// the explicit table; with several tables and no multipliers the
// lexicographically first keeps compilation deterministic.
func compilePoints(rp RankingPointsConfig) domain.DisciplinePoints {
	if rp.SameAsLead {
		return domain.DisciplinePoints{SameAsLead: true}
	}

	dp := domain.DisciplinePoints{
		Tiers: make(map[domain.Tier]domain.TierPoints, len(rp.Tiers)),
	}

	tableTiers := make([]string, 0, 1)
	for tier, tp := range rp.Tiers {
		compiled := domain.TierPoints{}
		if tp.Table != nil {
			compiled.Table = make(map[int]int, len(tp.Table))
			for rank, points := range tp.Table {
				compiled.Table[rank] = points
			}
			tableTiers = append(tableTiers, tier)
		}
		if tp.Multiplier != nil {
			compiled.Multiplier = *tp.Multiplier
		}
		dp.Tiers[domain.Tier(tier)] = compiled
	}

	sort.Strings(tableTiers)
	if len(tableTiers) > 0 {
		dp.BaseTier = domain.Tier(tableTiers[0])
	}
	return dp
}

func compileCriteria(c CriteriaConfig) domain.QualificationCriteria {
	out := domain.QualificationCriteria{
		MinCompetitions: c.MinCompetitions,
		MinPoints:       c.MinPoints,
	}
	if len(c.MinPerTier) > 0 {
		out.MinPerTier = make(map[domain.Tier]int, len(c.MinPerTier))
		for tier, n := range c.MinPerTier {
			out.MinPerTier[domain.Tier(tier)] = n
		}
	}
	return out
}

func compileAdjustments(c AdjustmentsConfig) domain.PointAdjustments {
	out := domain.PointAdjustments{
		Enabled:            c.Enabled,
		SeasonFinaleFactor: c.SeasonFinaleFactor,
	}
	for _, band := range c.ParticipantBands {
		out.ParticipantBands = append(out.ParticipantBands, domain.ParticipantBand{
			MaxParticipants: band.MaxParticipants,
			Factor:          band.Factor,
		})
	}
	sort.Slice(out.ParticipantBands, func(i, j int) bool {
		return out.ParticipantBands[i].MaxParticipants < out.ParticipantBands[j].MaxParticipants
	})
	if c.LargeField != nil {
		out.LargeFieldMinimum = c.LargeField.MinParticipants
		out.LargeFieldFactor = c.LargeField.Factor
	}
	return out
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
