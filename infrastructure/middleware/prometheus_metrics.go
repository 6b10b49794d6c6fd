// Package middleware provides cross-cutting concerns for the ranking
// engine, currently its Prometheus metrics adapter.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/monsieurgui/climbinsight/internal/ports"
)

// Compile-time verification that RankingMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*RankingMetrics)(nil)

// RankingMetrics implements the MetricsCollector interface using
// Prometheus. It tracks ranking throughput, skipped results, point
// redistribution volume, tiebreak behavior, and season aggregation
// runs.
type RankingMetrics struct {
	rankingDuration     *prometheus.HistogramVec
	rankingAthletes     *prometheus.HistogramVec
	resultsSkipped      *prometheus.CounterVec
	pointsRedistributed *prometheus.CounterVec
	tiebreakResolutions *prometheus.CounterVec
	seasonDuration      *prometheus.HistogramVec
}

// NewRankingMetrics creates a RankingMetrics instance and registers its
// collectors with reg. A nil registerer uses the global Prometheus
// registry.
func NewRankingMetrics(reg prometheus.Registerer) *RankingMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &RankingMetrics{
		rankingDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ranking_computation_duration_seconds",
				Help:    "Wall-clock time of competition ranking computations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"ruleset", "discipline", "tier"},
		),
		rankingAthletes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ranking_computation_athletes",
				Help:    "Number of athletes per computed competition ranking.",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
			},
			[]string{"ruleset", "discipline", "tier"},
		),
		resultsSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ranking_results_skipped_total",
				Help: "Raw results isolated and skipped, by engine stage.",
			},
			[]string{"ruleset", "stage"},
		),
		pointsRedistributed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ranking_points_redistributed_total",
				Help: "Points cascaded to promoted athletes during derogation handling.",
			},
			[]string{"ruleset"},
		),
		tiebreakResolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ranking_tiebreak_resolutions_total",
				Help: "Tiebreak method invocations, by method and outcome.",
			},
			[]string{"method", "outcome"},
		),
		seasonDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "season_aggregation_duration_seconds",
				Help:    "Wall-clock time of season aggregation runs.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"ruleset", "league", "category"},
		),
	}
}

// RecordRankingComputed implements the MetricsCollector interface.
func (m *RankingMetrics) RecordRankingComputed(ruleset, discipline, tier string, athletes int, duration time.Duration) {
	m.rankingDuration.WithLabelValues(ruleset, discipline, tier).Observe(duration.Seconds())
	m.rankingAthletes.WithLabelValues(ruleset, discipline, tier).Observe(float64(athletes))
}

// RecordResultSkipped implements the MetricsCollector interface.
func (m *RankingMetrics) RecordResultSkipped(ruleset, stage string) {
	m.resultsSkipped.WithLabelValues(ruleset, stage).Inc()
}

// RecordPointsRedistributed implements the MetricsCollector interface.
func (m *RankingMetrics) RecordPointsRedistributed(ruleset string, points int) {
	m.pointsRedistributed.WithLabelValues(ruleset).Add(float64(points))
}

// RecordTiebreakResolution implements the MetricsCollector interface.
func (m *RankingMetrics) RecordTiebreakResolution(method string, resolved bool) {
	outcome := "unresolved"
	if resolved {
		outcome = "resolved"
	}
	m.tiebreakResolutions.WithLabelValues(method, outcome).Inc()
}

// RecordSeasonAggregation implements the MetricsCollector interface.
func (m *RankingMetrics) RecordSeasonAggregation(ruleset, league, category string, athletes int, duration time.Duration) {
	m.seasonDuration.WithLabelValues(ruleset, league, category).Observe(duration.Seconds())
}
