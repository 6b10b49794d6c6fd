package testutils

import (
	"fmt"
	"math/rand"

	"github.com/monsieurgui/climbinsight/internal/domain"
)

// SeasonGenerator produces deterministic synthetic competition data.
// Two generators seeded identically emit identical results, which lets
// idempotence and conservation tests rerun pipelines over the same
// inputs without fixture files.
type SeasonGenerator struct {
	rng *rand.Rand
}

// NewSeasonGenerator creates a generator with the given seed.
func NewSeasonGenerator(seed int64) *SeasonGenerator {
	return &SeasonGenerator{rng: rand.New(rand.NewSource(seed))}
}

// AthleteIDs returns n stable athlete identifiers.
func AthleteIDs(n int) []domain.AthleteID {
	ids := make([]domain.AthleteID, n)
	for i := range ids {
		ids[i] = domain.AthleteID(fmt.Sprintf("athlete-%03d", i+1))
	}
	return ids
}

// Competition generates one raw result per athlete for a single event
// in the given discipline.
func (g *SeasonGenerator) Competition(competitionID string, d domain.Discipline, tier domain.Tier, cat domain.Category, athletes []domain.AthleteID) []domain.RawResult {
	results := make([]domain.RawResult, 0, len(athletes))
	for _, id := range athletes {
		raw := domain.RawResult{
			AthleteID:  id,
			EventID:    domain.EventID(competitionID + "-final"),
			Discipline: d,
			Tier:       tier,
			Category:   cat,
		}
		switch d {
		case domain.DisciplineLead:
			raw.Lead = g.leadPerformance()
		case domain.DisciplineBoulder:
			raw.Boulder = g.boulderPerformance()
		case domain.DisciplineSpeed:
			raw.Speed = g.speedPerformance()
		}
		results = append(results, raw)
	}
	return results
}

func (g *SeasonGenerator) leadPerformance() *domain.LeadPerformance {
	holds := 5 + g.rng.Intn(40)
	points := make([]float64, holds)
	for i := range points {
		points[i] = 1
	}
	return &domain.LeadPerformance{
		HoldPoints: points,
		Plus:       g.rng.Intn(4) == 0,
	}
}

func (g *SeasonGenerator) boulderPerformance() *domain.BoulderPerformance {
	p := &domain.BoulderPerformance{}
	switch g.rng.Intn(3) {
	case 0: // topped
		p.Topped = true
		p.ZoneReached = true
		p.ZoneAttempts = 1 + g.rng.Intn(3)
		p.TopAttempts = p.ZoneAttempts + g.rng.Intn(3)
	case 1: // zone only
		p.ZoneReached = true
		p.ZoneAttempts = 1 + g.rng.Intn(5)
	}
	return p
}

func (g *SeasonGenerator) speedPerformance() *domain.SpeedPerformance {
	if g.rng.Intn(20) == 0 {
		return &domain.SpeedPerformance{FalseStart: true}
	}
	return &domain.SpeedPerformance{
		ElapsedSeconds: 5 + g.rng.Float64()*10,
	}
}
