package ports

import "time"

// MetricsCollector defines the interface for recording engine
// observability metrics. Implementations must be safe for concurrent
// use; the engine invokes them from parallel competition pipelines.
// A nil-safe no-op implementation is used when metrics are not wired.
type MetricsCollector interface {
	// RecordRankingComputed records one finished competition ranking
	// computation with its wall-clock duration.
	RecordRankingComputed(ruleset, discipline, tier string, athletes int, duration time.Duration)

	// RecordResultSkipped records one raw result that was isolated and
	// skipped, labeled by the engine stage that rejected it.
	RecordResultSkipped(ruleset, stage string)

	// RecordPointsRedistributed records points that cascaded to a
	// promoted athlete during derogation handling.
	RecordPointsRedistributed(ruleset string, points int)

	// RecordTiebreakResolution records one tiebreak method invocation
	// and whether it fully ordered its tied group.
	RecordTiebreakResolution(method string, resolved bool)

	// RecordSeasonAggregation records one season aggregation run.
	RecordSeasonAggregation(ruleset, league, category string, athletes int, duration time.Duration)
}

// NopMetrics is a MetricsCollector that discards every observation.
type NopMetrics struct{}

// RecordRankingComputed implements MetricsCollector.
func (NopMetrics) RecordRankingComputed(string, string, string, int, time.Duration) {}

// RecordResultSkipped implements MetricsCollector.
func (NopMetrics) RecordResultSkipped(string, string) {}

// RecordPointsRedistributed implements MetricsCollector.
func (NopMetrics) RecordPointsRedistributed(string, int) {}

// RecordTiebreakResolution implements MetricsCollector.
func (NopMetrics) RecordTiebreakResolution(string, bool) {}

// RecordSeasonAggregation implements MetricsCollector.
func (NopMetrics) RecordSeasonAggregation(string, string, string, int, time.Duration) {}
