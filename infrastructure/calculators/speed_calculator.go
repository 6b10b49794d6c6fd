package calculators

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/monsieurgui/climbinsight/internal/domain"
	"github.com/monsieurgui/climbinsight/internal/ports"
)

var _ ports.ScoreCalculator = (*SpeedCalculator)(nil)

// SpeedCalculator scores speed results. The score is the elapsed time
// in seconds, so lower scores rank better. A false start scores +Inf:
// the athlete ranks behind every finite time and never ties with a
// real run, regardless of any recorded elapsed time.
//
// The calculator is stateless and safe for concurrent execution.
type SpeedCalculator struct {
	// name is the unique identifier for this calculator instance.
	name string
	// config contains the validated configuration parameters.
	config SpeedConfig
	// tracer is the OpenTelemetry tracer for observability.
	tracer trace.Tracer
}

// SpeedConfig defines the configuration parameters for the
// SpeedCalculator. All fields are validated during construction.
type SpeedConfig struct {
	// MaxElapsedSeconds bounds plausible run times, guarding against
	// corrupted submissions. The world record wall is climbed in under
	// five seconds; ten minutes is generous for any sanctioned format.
	MaxElapsedSeconds float64 `yaml:"max_elapsed_seconds" json:"max_elapsed_seconds" validate:"gt=0,max=3600"`
}

// DefaultSpeedConfig returns the configuration used when none is
// supplied.
func DefaultSpeedConfig() SpeedConfig {
	return SpeedConfig{MaxElapsedSeconds: 600}
}

// NewSpeedCalculator creates a SpeedCalculator with the specified
// configuration. Returns an error if configuration validation fails.
func NewSpeedCalculator(name string, config SpeedConfig) (*SpeedCalculator, error) {
	if name == "" {
		return nil, ErrEmptyCalculatorName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &SpeedCalculator{
		name:   name,
		config: config,
		tracer: otel.Tracer("calculators"),
	}, nil
}

// Name returns the unique identifier for this calculator instance.
func (sc *SpeedCalculator) Name() string { return sc.name }

// Discipline returns domain.DisciplineSpeed.
func (sc *SpeedCalculator) Discipline() domain.Discipline { return domain.DisciplineSpeed }

// Validate checks that the calculator is properly configured.
func (sc *SpeedCalculator) Validate() error {
	if sc.name == "" {
		return ErrEmptyCalculatorName
	}
	return validate.Struct(sc.config)
}

// ComputeScore derives the speed score for raw under rs.
// It returns an error wrapping domain.ErrInvalidPerformanceData when a
// non-false-start run is missing a positive elapsed time.
func (sc *SpeedCalculator) ComputeScore(
	ctx context.Context,
	raw domain.RawResult,
	rs *domain.Ruleset,
) (domain.Score, error) {
	_, span := sc.tracer.Start(ctx, "speed_calculator.compute_score",
		trace.WithAttributes(
			attribute.String("calculator.name", sc.name),
			attribute.String("athlete.id", string(raw.AthleteID)),
			attribute.String("event.id", string(raw.EventID)),
		))
	defer span.End()

	if rs == nil {
		return domain.Score{}, ErrNilRuleset
	}
	if err := checkDiscipline(raw, domain.DisciplineSpeed); err != nil {
		span.RecordError(err)
		return domain.Score{}, err
	}

	perf := raw.Speed
	value := math.Inf(1)
	if !perf.FalseStart {
		switch {
		case perf.ElapsedSeconds <= 0:
			err := fmt.Errorf("%w: speed run without a positive elapsed time", domain.ErrInvalidPerformanceData)
			span.RecordError(err)
			return domain.Score{}, err
		case perf.ElapsedSeconds > sc.config.MaxElapsedSeconds:
			err := fmt.Errorf("%w: elapsed time %gs exceeds the configured maximum of %gs",
				domain.ErrInvalidPerformanceData, perf.ElapsedSeconds, sc.config.MaxElapsedSeconds)
			span.RecordError(err)
			return domain.Score{}, err
		}
		value = perf.ElapsedSeconds
	}

	span.SetAttributes(
		attribute.Float64("score.value", value),
		attribute.Bool("speed.false_start", perf.FalseStart),
	)

	return domain.Score{
		AthleteID:      raw.AthleteID,
		EventID:        raw.EventID,
		Discipline:     domain.DisciplineSpeed,
		Value:          value,
		RulesetName:    rs.Name,
		RulesetVersion: rs.Version,
		ComputedAt:     time.Now().UTC(),
	}, nil
}
