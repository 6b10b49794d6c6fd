package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/monsieurgui/climbinsight/internal/domain"
)

// SeasonInput is everything the engine needs to aggregate one league
// table. Rankings holds the season's finalized competition rankings
// for the league and category; Dates optionally supplies competition
// dates for recency-based tiebreaks, defaulting to each ranking's
// computation time.
type SeasonInput struct {
	Ruleset  *domain.Ruleset
	League   string
	Category domain.Category

	Rankings []*domain.CompetitionRanking
	Dates    map[string]time.Time
}

// AggregateSeason computes the league table for one category: each
// athlete's best-N competition entries by points, summed, with ties on
// the total resolved through the ruleset's tiebreak pipeline over the
// season's own history. The output is a complete replacement snapshot;
// re-running over unchanged inputs yields identical standings.
func (e *Engine) AggregateSeason(ctx context.Context, in SeasonInput) (*domain.SeasonRanking, error) {
	start := time.Now()
	rs := in.Ruleset
	if rs == nil {
		return nil, fmt.Errorf("ruleset cannot be nil")
	}
	if in.League == "" {
		return nil, fmt.Errorf("league cannot be empty")
	}

	ctx, span := e.tracer.Start(ctx, "engine.aggregate_season",
		trace.WithAttributes(
			attribute.String("league", in.League),
			attribute.String("category", string(in.Category)),
			attribute.String("ruleset.id", rs.ID()),
			attribute.Int("rankings.count", len(in.Rankings)),
		))
	defer span.End()

	standings, err := e.buildStandings(ctx, in)
	if err != nil {
		return nil, err
	}

	e.metrics.RecordSeasonAggregation(rs.ID(), in.League, string(in.Category), len(standings), time.Since(start))
	return &domain.SeasonRanking{
		ComputationID:  uuid.NewString(),
		League:         in.League,
		Category:       in.Category,
		RulesetName:    rs.Name,
		RulesetVersion: rs.Version,
		Standings:      standings,
		ComputedAt:     time.Now().UTC(),
	}, nil
}

func (e *Engine) buildStandings(ctx context.Context, in SeasonInput) ([]domain.SeasonStanding, error) {
	rs := in.Ruleset

	byAthlete := make(map[domain.AthleteID][]domain.RankingEntry)
	relevant := make([]*domain.CompetitionRanking, 0, len(in.Rankings))
	for _, cr := range in.Rankings {
		if cr == nil {
			continue
		}
		if cr.RulesetName != rs.Name || cr.RulesetVersion != rs.Version {
			return nil, fmt.Errorf("competition %q was ranked under %s@%s, expected %s",
				cr.CompetitionID, cr.RulesetName, cr.RulesetVersion, rs.ID())
		}
		if in.Category != "" && cr.Category != in.Category {
			continue
		}
		relevant = append(relevant, cr)
		for _, entry := range cr.Entries {
			byAthlete[entry.AthleteID] = append(byAthlete[entry.AthleteID], entry)
		}
	}
	if len(byAthlete) == 0 {
		return nil, nil
	}

	athletes := make([]domain.AthleteID, 0, len(byAthlete))
	totals := make(map[domain.AthleteID]int, len(byAthlete))
	contributing := make(map[domain.AthleteID][]domain.RankingEntry, len(byAthlete))
	for id, entries := range byAthlete {
		best := bestN(entries, rs.BestNResults)
		total := 0
		for _, entry := range best {
			total += entry.Points
		}
		athletes = append(athletes, id)
		totals[id] = total
		contributing[id] = best
	}

	// Pre-sort by ID so equal-total tie groups are deterministic
	// regardless of map iteration order.
	sort.Slice(athletes, func(i, j int) bool {
		if totals[athletes[i]] != totals[athletes[j]] {
			return totals[athletes[i]] > totals[athletes[j]]
		}
		return athletes[i] < athletes[j]
	})

	resolver, err := NewTiebreakResolver(rs, e.factory, e.metrics)
	if err != nil {
		return nil, err
	}
	history := domain.BuildTiebreakContext(relevant, in.Dates)

	var groups []ResolvedGroup
	for i := 0; i < len(athletes); {
		j := i + 1
		for j < len(athletes) && totals[athletes[i]] == totals[athletes[j]] {
			j++
		}
		if j-i == 1 {
			groups = append(groups, ResolvedGroup{Members: []domain.AthleteID{athletes[i]}})
		} else {
			resolved, err := resolver.Resolve(ctx, athletes[i:j], history)
			if err != nil {
				return nil, err
			}
			groups = append(groups, resolved...)
		}
		i = j
	}

	standings := make([]domain.SeasonStanding, 0, len(athletes))
	placed := 0
	for _, g := range groups {
		rank := placed + 1
		for _, id := range g.Members {
			standing := domain.SeasonStanding{
				AthleteID:    id,
				League:       in.League,
				Category:     in.Category,
				Rank:         rank,
				Contributing: contributing[id],
				TotalPoints:  totals[id],
			}
			if g.Unresolved {
				for _, other := range g.Members {
					if other != id {
						standing.TiedWith = append(standing.TiedWith, other)
					}
				}
			}
			standings = append(standings, standing)
		}
		placed += len(g.Members)
	}
	return standings, nil
}

// bestN returns the n highest-point entries, all of them when n <= 0.
// Point ties order by competition ID so the contributing set is stable
// across runs.
func bestN(entries []domain.RankingEntry, n int) []domain.RankingEntry {
	sorted := make([]domain.RankingEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		return sorted[i].CompetitionID < sorted[j].CompetitionID
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// RankSeason aggregates every category of a league concurrently. Each
// category's rankings are independent, so the fan-out changes nothing
// about the output; a failure in any category aborts the whole run.
func (e *Engine) RankSeason(ctx context.Context, rs *domain.Ruleset, league string, byCategory map[domain.Category][]*domain.CompetitionRanking, dates map[string]time.Time) (map[domain.Category]*domain.SeasonRanking, error) {
	if rs == nil {
		return nil, fmt.Errorf("ruleset cannot be nil")
	}

	g, ctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	out := make(map[domain.Category]*domain.SeasonRanking, len(byCategory))
	for cat, rankings := range byCategory {
		g.Go(func() error {
			sr, err := e.AggregateSeason(ctx, SeasonInput{
				Ruleset:  rs,
				League:   league,
				Category: cat,
				Rankings: rankings,
				Dates:    dates,
			})
			if err != nil {
				return fmt.Errorf("category %q: %w", cat, err)
			}
			mu.Lock()
			out[cat] = sr
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
