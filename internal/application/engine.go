// Package application contains the orchestration layer of the scoring
// and ranking engine: ruleset loading and compilation, the calculator
// and tiebreak registries, and the competition and season ranking
// pipelines built on top of the domain model.
package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/monsieurgui/climbinsight/internal/domain"
	"github.com/monsieurgui/climbinsight/internal/ports"
)

// CompetitionInput is everything the engine needs to rank one
// competition. Results is the raw batch; Derogated flags the athletes
// competing under an administrative derogation; History supplies the
// season data tiebreak methods consult. Leaving History empty is valid
// and simply pushes every tie to the terminal fallback.
type CompetitionInput struct {
	Ruleset       *domain.Ruleset
	CompetitionID string
	Discipline    domain.Discipline
	Tier          domain.Tier
	Category      domain.Category
	Results       []domain.RawResult

	Derogated map[domain.AthleteID]bool
	History   domain.TiebreakContext

	// SeasonFinale marks the competition for the ruleset's finale point
	// adjustment, when enabled.
	SeasonFinale bool

	// Importance is the competition importance multiplier applied to
	// every point award. Zero means unadjusted (1.0).
	Importance float64

	// NoteLanguage is the BCP-47 tag selecting the derogation display
	// note variant. Empty falls back to English.
	NoteLanguage string
}

// Engine computes competition rankings: it scores raw results, orders
// athletes under the discipline's comparison direction, resolves ties
// through the ruleset's method pipeline, applies the derogation policy,
// and maps competitive ranks to federation points. An Engine is
// stateless between calls and safe for concurrent use.
type Engine struct {
	calculators ports.CalculatorRegistry
	factory     ports.TiebreakMethodFactory
	metrics     ports.MetricsCollector
	tracer      trace.Tracer
}

// NewEngine creates an engine over the given calculator registry. A
// nil metrics collector discards observations; a nil factory uses the
// built-in tiebreak methods.
func NewEngine(calculators ports.CalculatorRegistry, factory ports.TiebreakMethodFactory, metrics ports.MetricsCollector) (*Engine, error) {
	if calculators == nil {
		return nil, fmt.Errorf("calculator registry cannot be nil")
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Engine{
		calculators: calculators,
		factory:     factory,
		metrics:     metrics,
		tracer:      otel.Tracer("climbinsight/engine"),
	}, nil
}

// RankCompetition runs the full ranking pipeline for one competition.
// Results that fail to score are isolated into the ranking's Skipped
// list and the rest of the batch proceeds; errors that invalidate the
// whole computation (nil ruleset, unknown tier, derogation flags
// against a ruleset that forbids them) abort it.
func (e *Engine) RankCompetition(ctx context.Context, in CompetitionInput) (*domain.CompetitionRanking, error) {
	start := time.Now()

	if err := e.checkInput(in); err != nil {
		return nil, err
	}
	rs := in.Ruleset

	ctx, span := e.tracer.Start(ctx, "engine.rank_competition",
		trace.WithAttributes(
			attribute.String("competition.id", in.CompetitionID),
			attribute.String("ruleset.id", rs.ID()),
			attribute.String("discipline", string(in.Discipline)),
			attribute.String("tier", string(in.Tier)),
			attribute.Int("results.count", len(in.Results)),
		))
	defer span.End()

	state := domain.NewState()
	state = domain.With(state, domain.KeyCompetitionID, in.CompetitionID)
	state = domain.With(state, domain.KeyComputationID, uuid.NewString())
	state = domain.With(state, domain.KeyRawResults, in.Results)

	state, err := e.scoreStage(ctx, state, in)
	if err != nil {
		return nil, err
	}
	state, groups, scores, err := e.orderStage(ctx, state, in)
	if err != nil {
		return nil, err
	}
	built, err := buildEntries(rs, in, groups, scores, e.metrics)
	if err != nil {
		return nil, err
	}
	state = domain.With(state, domain.KeyEntries, built)

	computationID, _ := domain.Get(state, domain.KeyComputationID)
	skipped, _ := domain.Get(state, domain.KeySkipped)
	entries, _ := domain.Get(state, domain.KeyEntries)
	order, _ := domain.Get(state, domain.KeyOrder)
	if len(entries) != len(order) {
		return nil, fmt.Errorf("internal: %d entries built for %d ordered athletes", len(entries), len(order))
	}
	ranking := &domain.CompetitionRanking{
		ComputationID:  computationID,
		CompetitionID:  in.CompetitionID,
		RulesetName:    rs.Name,
		RulesetVersion: rs.Version,
		Discipline:     in.Discipline,
		Tier:           in.Tier,
		Category:       in.Category,
		Entries:        entries,
		Skipped:        skipped,
		ComputedAt:     time.Now().UTC(),
	}

	e.metrics.RecordRankingComputed(rs.ID(), string(in.Discipline), string(in.Tier), len(entries), time.Since(start))
	return ranking, nil
}

// checkInput rejects inputs that invalidate the whole computation
// before any per-result work begins.
func (e *Engine) checkInput(in CompetitionInput) error {
	rs := in.Ruleset
	if rs == nil {
		return fmt.Errorf("ruleset cannot be nil")
	}
	if in.CompetitionID == "" {
		return fmt.Errorf("competition id cannot be empty")
	}
	if !in.Discipline.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownDiscipline, in.Discipline)
	}

	// An unknown tier fails loudly up front, with a suggestion when a
	// known tier is a near miss.
	if _, err := rs.PointsForRank(1, in.Tier, in.Discipline); err != nil {
		known := rs.Tiers(in.Discipline)
		names := make([]string, len(known))
		for i, t := range known {
			names[i] = string(t)
		}
		if hint, ok := nearestCandidate(string(in.Tier), names); ok {
			return fmt.Errorf("%w (did you mean %q?)", err, hint)
		}
		return err
	}

	if len(in.Derogated) > 0 {
		if !rs.Derogation.Enabled {
			return fmt.Errorf("%w: %s has derogation disabled but %d athletes carry derogation flags",
				domain.ErrDerogationNotSupported, rs.ID(), len(in.Derogated))
		}
		if !rs.Derogation.AllowParticipation {
			return fmt.Errorf("%w: %s does not allow derogated athletes to participate",
				domain.ErrDerogationNotSupported, rs.ID())
		}
	}
	return nil
}

// scoreStage computes a score for every raw result, isolating failures
// into the skipped list instead of aborting the batch.
func (e *Engine) scoreStage(ctx context.Context, state domain.State, in CompetitionInput) (domain.State, error) {
	ctx, span := e.tracer.Start(ctx, "engine.score_stage")
	defer span.End()

	rs := in.Ruleset
	calc, err := e.calculators.CalculatorFor(in.Discipline)
	if err != nil {
		return state, err
	}

	raws, _ := domain.Get(state, domain.KeyRawResults)
	scores := make([]domain.Score, 0, len(raws))
	var skipped []*domain.ResultError
	seen := make(map[domain.AthleteID]bool, len(raws))
	for _, raw := range raws {
		if seen[raw.AthleteID] {
			skipped = append(skipped, domain.NewResultError(raw.AthleteID, raw.EventID, rs.ID(), "score",
				fmt.Errorf("duplicate result for athlete %q", raw.AthleteID)))
			e.metrics.RecordResultSkipped(rs.ID(), "score")
			continue
		}
		seen[raw.AthleteID] = true

		score, err := calc.ComputeScore(ctx, raw, rs)
		if err != nil {
			skipped = append(skipped, domain.NewResultError(raw.AthleteID, raw.EventID, rs.ID(), "score", err))
			e.metrics.RecordResultSkipped(rs.ID(), "score")
			continue
		}
		scores = append(scores, score)
	}

	span.SetAttributes(
		attribute.Int("scores.computed", len(scores)),
		attribute.Int("scores.skipped", len(skipped)),
	)
	state = domain.With(state, domain.KeyScores, scores)
	return domain.With(state, domain.KeySkipped, skipped), nil
}

// orderStage sorts the scored athletes under the discipline's
// comparison direction and resolves score ties through the ruleset's
// tiebreak pipeline. It returns the state with the resolved order
// recorded, the resolved groups best first, and each athlete's score.
func (e *Engine) orderStage(ctx context.Context, state domain.State, in CompetitionInput) (domain.State, []ResolvedGroup, map[domain.AthleteID]domain.Score, error) {
	ctx, span := e.tracer.Start(ctx, "engine.order_stage")
	defer span.End()

	scores, _ := domain.Get(state, domain.KeyScores)
	byAthlete := make(map[domain.AthleteID]domain.Score, len(scores))
	ordered := make([]domain.Score, len(scores))
	copy(ordered, scores)
	for _, s := range ordered {
		byAthlete[s.AthleteID] = s
	}

	// Athlete ID is only a pre-sort here, never a ranking criterion:
	// it makes tie groups deterministic before the methods run.
	sort.SliceStable(ordered, func(i, j int) bool {
		if c := in.Discipline.CompareScores(ordered[i].Value, ordered[j].Value); c != 0 {
			return c < 0
		}
		return ordered[i].AthleteID < ordered[j].AthleteID
	})

	resolver, err := NewTiebreakResolver(in.Ruleset, e.factory, e.metrics)
	if err != nil {
		return state, nil, nil, err
	}

	var groups []ResolvedGroup
	for i := 0; i < len(ordered); {
		j := i + 1
		for j < len(ordered) && in.Discipline.CompareScores(ordered[i].Value, ordered[j].Value) == 0 {
			j++
		}
		if j-i == 1 {
			groups = append(groups, ResolvedGroup{Members: []domain.AthleteID{ordered[i].AthleteID}})
		} else {
			tied := make([]domain.AthleteID, 0, j-i)
			for _, s := range ordered[i:j] {
				tied = append(tied, s.AthleteID)
			}
			resolved, err := resolver.Resolve(ctx, tied, in.History)
			if err != nil {
				return state, nil, nil, err
			}
			groups = append(groups, resolved...)
		}
		i = j
	}

	order := make([]domain.AthleteID, 0, len(ordered))
	for _, g := range groups {
		order = append(order, g.Members...)
	}
	state = domain.With(state, domain.KeyOrder, order)

	span.SetAttributes(attribute.Int("groups.count", len(groups)))
	return state, groups, byAthlete, nil
}
