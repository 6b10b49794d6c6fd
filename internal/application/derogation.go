package application

import (
	"fmt"
	"math"

	"github.com/monsieurgui/climbinsight/internal/domain"
	"github.com/monsieurgui/climbinsight/internal/ports"
)

// Derogation policy field values accepted by the configuration schema.
const (
	pointsHandlingRedistribute = "redistribute"
	pointsHandlingZero         = "zero"

	displayWithOriginalRank = "with_original_rank"
	displayHidden           = "hidden"
)

// placement is one athlete's slot in the strict post-tiebreak sequence,
// before the derogation policy reshapes points and display.
type placement struct {
	athlete    domain.AthleteID
	seq        int // 1-based position in the strict sequence
	group      int // index of the resolved group the athlete belongs to
	unresolved bool
	derogated  bool
}

// buildEntries turns the resolved ordering into finalized ranking
// entries: display ranks shared across unresolved ties, derogated
// athletes extracted from the point-earning sequence, and points
// cascaded to the athletes below when the policy redistributes.
func buildEntries(rs *domain.Ruleset, in CompetitionInput, groups []ResolvedGroup, scores map[domain.AthleteID]domain.Score, metrics ports.MetricsCollector) ([]domain.RankingEntry, error) {
	placements := flatten(groups, in.Derogated)
	if len(placements) == 0 {
		return nil, nil
	}

	allRanks := displayRanks(groups, func(placement) bool { return true }, placements)
	visibleRanks := allRanks
	hidden := rs.Derogation.Enabled && rs.Derogation.RankingDisplay == displayHidden
	if hidden {
		visibleRanks = displayRanks(groups, func(p placement) bool { return !p.derogated }, placements)
	}

	factor := rs.Adjustments.Factor(len(placements), in.Importance, in.SeasonFinale)
	cascade := !rs.Derogation.Enabled || rs.Derogation.PointsHandling == pointsHandlingRedistribute
	note := derogationNote(rs.Derogation, in.NoteLanguage)

	entries := make([]domain.RankingEntry, 0, len(placements))
	competitive := 0
	for _, p := range placements {
		entry := domain.RankingEntry{
			AthleteID:     p.athlete,
			CompetitionID: in.CompetitionID,
			TiedWith:      tiedWith(groups, p),
		}
		if s, ok := scores[p.athlete]; ok {
			sc := s
			entry.Score = &sc
		}

		if p.derogated {
			entry.Derogated = true
			entry.OriginalRank = allRanks[p.group]
			entry.DerogationNote = note
			if hidden {
				entry.DisplayRank = 0
			} else {
				entry.DisplayRank = allRanks[p.group]
			}
			entry.PointSource = domain.PointSource{Kind: domain.PointSourceOwn}
			entries = append(entries, entry)
			continue
		}

		competitive++
		pointsRank := p.seq
		if cascade {
			pointsRank = competitive
		}
		rank := pointsRank
		entry.CompetitiveRank = &rank
		entry.DisplayRank = visibleRanks[p.group]

		pts, err := rs.PointsForRank(pointsRank, in.Tier, in.Discipline)
		if err != nil {
			return nil, fmt.Errorf("mapping rank %d to points: %w", pointsRank, err)
		}
		entry.Points = int(math.Round(float64(pts) * factor))

		entry.PointSource = domain.PointSource{Kind: domain.PointSourceOwn}
		if cascade && pointsRank < p.seq {
			// The athlete moved up into a slot a derogated athlete
			// vacated; the slot's points travel with it.
			entry.PointSource = domain.PointSource{Kind: domain.PointSourceRedistributed, FromRank: pointsRank}
			metrics.RecordPointsRedistributed(rs.ID(), entry.Points)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// flatten expands the resolved groups into the strict sequence of
// placements, tagging each with its derogation flag.
func flatten(groups []ResolvedGroup, derogated map[domain.AthleteID]bool) []placement {
	var placements []placement
	seq := 0
	for gi, g := range groups {
		for _, id := range g.Members {
			seq++
			placements = append(placements, placement{
				athlete:    id,
				seq:        seq,
				group:      gi,
				unresolved: g.Unresolved,
				derogated:  derogated[id],
			})
		}
	}
	return placements
}

// displayRanks assigns each group its shared display rank, counting
// only the placements include admits. A group with no admitted member
// keeps rank 0.
func displayRanks(groups []ResolvedGroup, include func(placement) bool, placements []placement) []int {
	byGroup := make([][]placement, len(groups))
	for _, p := range placements {
		byGroup[p.group] = append(byGroup[p.group], p)
	}

	ranks := make([]int, len(groups))
	placed := 0
	for gi := range groups {
		admitted := 0
		for _, p := range byGroup[gi] {
			if include(p) {
				admitted++
			}
		}
		if admitted > 0 {
			ranks[gi] = placed + 1
			placed += admitted
		}
	}
	return ranks
}

// tiedWith lists the other members of an unresolved group.
func tiedWith(groups []ResolvedGroup, p placement) []domain.AthleteID {
	if !p.unresolved {
		return nil
	}
	members := groups[p.group].Members
	others := make([]domain.AthleteID, 0, len(members)-1)
	for _, id := range members {
		if id != p.athlete {
			others = append(others, id)
		}
	}
	return others
}
