package calculators

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/monsieurgui/climbinsight/internal/domain"
	"github.com/monsieurgui/climbinsight/internal/ports"
)

var _ ports.ScoreCalculator = (*LeadCalculator)(nil)

// LeadCalculator scores lead climbing results. The score is the sum of
// the values of every hold the athlete controlled, plus the ruleset's
// "plus" modifier when the attempt earned a "+" annotation. Higher
// scores rank better.
//
// The calculator is stateless and safe for concurrent execution.
type LeadCalculator struct {
	// name is the unique identifier for this calculator instance.
	name string
	// config contains the validated configuration parameters.
	config LeadConfig
	// tracer is the OpenTelemetry tracer for observability.
	tracer trace.Tracer
}

// LeadConfig defines the configuration parameters for the
// LeadCalculator. All fields are validated during construction.
type LeadConfig struct {
	// AllowEmptyHolds scores a result with no controlled holds as 0
	// instead of rejecting it. Falls and slips before the first hold
	// are legitimate results under both bundled federations.
	AllowEmptyHolds bool `yaml:"allow_empty_holds" json:"allow_empty_holds"`

	// MaxHolds bounds the number of holds a single route can carry,
	// guarding against corrupted submissions.
	MaxHolds int `yaml:"max_holds" json:"max_holds" validate:"min=1,max=1000"`
}

// DefaultLeadConfig returns the configuration used when none is
// supplied.
func DefaultLeadConfig() LeadConfig {
	return LeadConfig{AllowEmptyHolds: true, MaxHolds: 200}
}

// NewLeadCalculator creates a LeadCalculator with the specified
// configuration. Returns an error if configuration validation fails.
func NewLeadCalculator(name string, config LeadConfig) (*LeadCalculator, error) {
	if name == "" {
		return nil, ErrEmptyCalculatorName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &LeadCalculator{
		name:   name,
		config: config,
		tracer: otel.Tracer("calculators"),
	}, nil
}

// Name returns the unique identifier for this calculator instance.
func (lc *LeadCalculator) Name() string { return lc.name }

// Discipline returns domain.DisciplineLead.
func (lc *LeadCalculator) Discipline() domain.Discipline { return domain.DisciplineLead }

// Validate checks that the calculator is properly configured.
func (lc *LeadCalculator) Validate() error {
	if lc.name == "" {
		return ErrEmptyCalculatorName
	}
	return validate.Struct(lc.config)
}

// ComputeScore derives the lead score for raw under rs.
// It returns an error wrapping domain.ErrInvalidPerformanceData when
// the raw fields are inconsistent with the lead discipline.
func (lc *LeadCalculator) ComputeScore(
	ctx context.Context,
	raw domain.RawResult,
	rs *domain.Ruleset,
) (domain.Score, error) {
	_, span := lc.tracer.Start(ctx, "lead_calculator.compute_score",
		trace.WithAttributes(
			attribute.String("calculator.name", lc.name),
			attribute.String("athlete.id", string(raw.AthleteID)),
			attribute.String("event.id", string(raw.EventID)),
		))
	defer span.End()

	if rs == nil {
		return domain.Score{}, ErrNilRuleset
	}
	if err := checkDiscipline(raw, domain.DisciplineLead); err != nil {
		span.RecordError(err)
		return domain.Score{}, err
	}

	perf := raw.Lead
	if len(perf.HoldPoints) > lc.config.MaxHolds {
		err := fmt.Errorf("%w: %d holds exceeds the configured maximum of %d",
			domain.ErrInvalidPerformanceData, len(perf.HoldPoints), lc.config.MaxHolds)
		span.RecordError(err)
		return domain.Score{}, err
	}
	if len(perf.HoldPoints) == 0 && !lc.config.AllowEmptyHolds {
		err := fmt.Errorf("%w: lead result reached no holds", domain.ErrInvalidPerformanceData)
		span.RecordError(err)
		return domain.Score{}, err
	}
	if len(perf.HoldPoints) == 0 && perf.Plus {
		err := fmt.Errorf("%w: plus annotation without a controlled hold", domain.ErrInvalidPerformanceData)
		span.RecordError(err)
		return domain.Score{}, err
	}

	value := 0.0
	for i, hp := range perf.HoldPoints {
		if hp < 0 {
			err := fmt.Errorf("%w: hold %d has negative value %g", domain.ErrInvalidPerformanceData, i+1, hp)
			span.RecordError(err)
			return domain.Score{}, err
		}
		value += hp
	}
	if perf.Plus {
		value += rs.Lead.Modifier()
	}

	span.SetAttributes(attribute.Float64("score.value", value))

	return domain.Score{
		AthleteID:      raw.AthleteID,
		EventID:        raw.EventID,
		Discipline:     domain.DisciplineLead,
		Value:          value,
		RulesetName:    rs.Name,
		RulesetVersion: rs.Version,
		ComputedAt:     time.Now().UTC(),
	}, nil
}
