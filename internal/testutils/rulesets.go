// Package testutils provides shared test fixtures for the scoring and
// ranking engine: pre-compiled federation rulesets and a deterministic
// synthetic season generator.
package testutils

import "github.com/monsieurgui/climbinsight/internal/domain"

// IFSCRuleset returns a compiled ruleset mirroring the bundled IFSC
// configuration: world-cup point table, base plus modifier, no
// derogation support.
func IFSCRuleset() *domain.Ruleset {
	return &domain.Ruleset{
		Name:    "ifsc",
		Version: "2024",
		Info: domain.RulesetInfo{
			Name:        "ifsc",
			Version:     "2024",
			Description: "International competition rules",
		},
		Lead: domain.LeadScoring{PlusModifier: 0.5},
		Boulder: domain.BoulderScoring{
			TopPoints:   1000,
			ZonePoints:  10,
			TopPenalty:  domain.AttemptPenalty{Value: 10, MaxDeduction: 99},
			ZonePenalty: domain.AttemptPenalty{Value: 1, MaxDeduction: 9},
		},
		Speed: domain.SpeedScoring{FollowsIFSCRules: true},
		Points: map[domain.Discipline]domain.DisciplinePoints{
			domain.DisciplineLead: {
				BaseTier: domain.TierWorldCup,
				Tiers: map[domain.Tier]domain.TierPoints{
					domain.TierWorldCup: {Table: worldCupTable()},
				},
			},
			domain.DisciplineBoulder: {SameAsLead: true},
			domain.DisciplineSpeed:   {SameAsLead: true},
		},
		Qualification: domain.QualificationCriteria{
			MinCompetitions: 3,
			MinPoints:       50,
		},
		BestNResults:    6,
		TiebreakMethods: []string{"countback", "head_to_head", "most_recent"},
	}
}

// FQMERuleset returns a compiled ruleset mirroring the bundled FQME
// configuration: provincial base table with regional and local
// multipliers, enhanced plus modifier, derogation with point
// redistribution, and bilingual display notes.
func FQMERuleset() *domain.Ruleset {
	enhanced := 0.5
	return &domain.Ruleset{
		Name:    "fqme",
		Version: "2024",
		Info: domain.RulesetInfo{
			Name:        "fqme",
			Version:     "2024",
			Description: "Provincial federation rules with derogation support",
		},
		Lead: domain.LeadScoring{PlusModifier: 0.1, PlusModifierEnhanced: &enhanced},
		Boulder: domain.BoulderScoring{
			TopPoints:   800,
			ZonePoints:  200,
			TopPenalty:  domain.AttemptPenalty{Value: 10, MaxDeduction: 99},
			ZonePenalty: domain.AttemptPenalty{Value: 5, MaxDeduction: 45},
		},
		Speed: domain.SpeedScoring{FollowsIFSCRules: true},
		Points: map[domain.Discipline]domain.DisciplinePoints{
			domain.DisciplineLead: {
				BaseTier: domain.TierProvincial,
				Tiers: map[domain.Tier]domain.TierPoints{
					domain.TierProvincial: {Table: provincialTable()},
					domain.TierRegional:   {Multiplier: 0.7},
					domain.TierLocal:      {Multiplier: 0.5},
				},
			},
			domain.DisciplineBoulder: {SameAsLead: true},
			domain.DisciplineSpeed:   {SameAsLead: true},
		},
		Qualification: domain.QualificationCriteria{
			MinCompetitions: 3,
			MinPoints:       100,
			MinPerTier:      map[domain.Tier]int{domain.TierProvincial: 1},
		},
		CategoryOverrides: map[domain.Category]domain.QualificationCriteria{
			"junior": {
				MinCompetitions: 2,
				MinPoints:       50,
			},
		},
		BestNResults:    5,
		TiebreakMethods: []string{"head_to_head", "most_recent", "most_provincial"},
		Derogation: domain.DerogationPolicy{
			Enabled:              true,
			AllowParticipation:   true,
			PointsHandling:       "redistribute",
			RedistributionMethod: "next_athlete",
			RankingDisplay:       "with_original_rank",
			Notes: map[string]string{
				"en": "competing under derogation",
				"fr": "participe sous dérogation",
			},
		},
	}
}

func worldCupTable() map[int]int {
	return map[int]int{
		1: 100, 2: 80, 3: 65, 4: 55, 5: 51,
		6: 47, 7: 43, 8: 40, 9: 37, 10: 34,
		11: 31, 12: 28, 13: 26, 14: 24, 15: 22,
		16: 20, 17: 18, 18: 16, 19: 14, 20: 12,
		21: 10, 22: 9, 23: 8, 24: 7, 25: 6,
		26: 5, 27: 4, 28: 3, 29: 2, 30: 1,
	}
}

func provincialTable() map[int]int {
	return map[int]int{
		1: 100, 2: 80, 3: 65, 4: 55, 5: 51,
		6: 47, 7: 43, 8: 40, 9: 37, 10: 34,
	}
}
