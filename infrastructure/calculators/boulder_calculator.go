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

var _ ports.ScoreCalculator = (*BoulderCalculator)(nil)

// BoulderCalculator scores boulder results. The score is the ruleset's
// top and zone point values minus the per-attempt penalties for tries
// beyond the first successful one, with each penalty capped at the
// ruleset's maximum deduction. Higher scores rank better.
//
// The calculator is stateless and safe for concurrent execution.
type BoulderCalculator struct {
	// name is the unique identifier for this calculator instance.
	name string
	// config contains the validated configuration parameters.
	config BoulderConfig
	// tracer is the OpenTelemetry tracer for observability.
	tracer trace.Tracer
}

// BoulderConfig defines the configuration parameters for the
// BoulderCalculator. All fields are validated during construction.
type BoulderConfig struct {
	// MaxAttempts bounds the attempt counters a single problem can
	// accumulate, guarding against corrupted submissions.
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts" validate:"min=1,max=10000"`
}

// DefaultBoulderConfig returns the configuration used when none is
// supplied.
func DefaultBoulderConfig() BoulderConfig {
	return BoulderConfig{MaxAttempts: 100}
}

// NewBoulderCalculator creates a BoulderCalculator with the specified
// configuration. Returns an error if configuration validation fails.
func NewBoulderCalculator(name string, config BoulderConfig) (*BoulderCalculator, error) {
	if name == "" {
		return nil, ErrEmptyCalculatorName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &BoulderCalculator{
		name:   name,
		config: config,
		tracer: otel.Tracer("calculators"),
	}, nil
}

// Name returns the unique identifier for this calculator instance.
func (bc *BoulderCalculator) Name() string { return bc.name }

// Discipline returns domain.DisciplineBoulder.
func (bc *BoulderCalculator) Discipline() domain.Discipline { return domain.DisciplineBoulder }

// Validate checks that the calculator is properly configured.
func (bc *BoulderCalculator) Validate() error {
	if bc.name == "" {
		return ErrEmptyCalculatorName
	}
	return validate.Struct(bc.config)
}

// ComputeScore derives the boulder score for raw under rs.
// It returns an error wrapping domain.ErrInvalidPerformanceData when
// the raw fields are inconsistent with the boulder discipline, such as
// a top without a recorded successful attempt.
func (bc *BoulderCalculator) ComputeScore(
	ctx context.Context,
	raw domain.RawResult,
	rs *domain.Ruleset,
) (domain.Score, error) {
	_, span := bc.tracer.Start(ctx, "boulder_calculator.compute_score",
		trace.WithAttributes(
			attribute.String("calculator.name", bc.name),
			attribute.String("athlete.id", string(raw.AthleteID)),
			attribute.String("event.id", string(raw.EventID)),
		))
	defer span.End()

	if rs == nil {
		return domain.Score{}, ErrNilRuleset
	}
	if err := checkDiscipline(raw, domain.DisciplineBoulder); err != nil {
		span.RecordError(err)
		return domain.Score{}, err
	}

	perf := raw.Boulder
	if err := bc.validatePerformance(perf); err != nil {
		span.RecordError(err)
		return domain.Score{}, err
	}

	value := 0.0
	if perf.Topped {
		value += rs.Boulder.TopPoints
		value -= penalty(perf.TopAttempts, rs.Boulder.TopPenalty)
	}
	if perf.ZoneReached {
		value += rs.Boulder.ZonePoints
		value -= penalty(perf.ZoneAttempts, rs.Boulder.ZonePenalty)
	}

	span.SetAttributes(attribute.Float64("score.value", value))

	return domain.Score{
		AthleteID:      raw.AthleteID,
		EventID:        raw.EventID,
		Discipline:     domain.DisciplineBoulder,
		Value:          value,
		RulesetName:    rs.Name,
		RulesetVersion: rs.Version,
		ComputedAt:     time.Now().UTC(),
	}, nil
}

// validatePerformance rejects raw boulder fields that are inconsistent
// with each other.
func (bc *BoulderCalculator) validatePerformance(perf *domain.BoulderPerformance) error {
	switch {
	case perf.TopAttempts < 0 || perf.ZoneAttempts < 0:
		return fmt.Errorf("%w: negative attempt count", domain.ErrInvalidPerformanceData)
	case perf.TopAttempts > bc.config.MaxAttempts || perf.ZoneAttempts > bc.config.MaxAttempts:
		return fmt.Errorf("%w: attempt count exceeds the configured maximum of %d",
			domain.ErrInvalidPerformanceData, bc.config.MaxAttempts)
	case perf.Topped && perf.TopAttempts == 0:
		return fmt.Errorf("%w: top recorded without a top attempt count", domain.ErrInvalidPerformanceData)
	case perf.ZoneReached && perf.ZoneAttempts == 0:
		return fmt.Errorf("%w: zone recorded without a zone attempt count", domain.ErrInvalidPerformanceData)
	case perf.Topped && !perf.ZoneReached:
		// A top passes through the zone under both bundled federations.
		return fmt.Errorf("%w: top recorded without the zone", domain.ErrInvalidPerformanceData)
	case !perf.Topped && perf.TopAttempts > 0 && !perf.ZoneReached && perf.ZoneAttempts == 0:
		return fmt.Errorf("%w: top attempts recorded without top or zone progress counts",
			domain.ErrInvalidPerformanceData)
	}
	return nil
}

// penalty returns the deduction for tries beyond the first successful
// attempt, capped at the ruleset's maximum.
func penalty(attempts int, p domain.AttemptPenalty) float64 {
	if attempts <= 1 {
		return 0
	}
	deduction := float64(attempts-1) * p.Value
	if p.MaxDeduction > 0 && deduction > p.MaxDeduction {
		return p.MaxDeduction
	}
	return deduction
}
