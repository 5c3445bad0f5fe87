// Package observe provides observability primitives for emovox:
// OpenTelemetry metrics, tracing helpers, and an optional Prometheus
// /metrics listener.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is set up via [InitProvider] so that metrics can be
// scraped from the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all emovox metrics.
const meterName = "github.com/emovox/emovox"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// SynthesisDuration tracks backend text-to-speech synthesis latency.
	SynthesisDuration metric.Float64Histogram

	// StageDuration tracks per-stage post-processing latency. Use with
	// attribute:
	//   attribute.String("stage", ...)
	StageDuration metric.Float64Histogram

	// GenerationDuration tracks end-to-end generation latency, from request
	// to written file.
	GenerationDuration metric.Float64Histogram

	// --- Counters ---

	// ProviderRequests counts backend API calls. Use with attributes:
	//   attribute.String("backend", ...), attribute.String("model", ...), attribute.String("status", ...)
	ProviderRequests metric.Int64Counter

	// ProviderErrors counts backend errors. Use with attributes:
	//   attribute.String("backend", ...), attribute.String("model", ...)
	ProviderErrors metric.Int64Counter

	// Fallbacks counts generations that had to retry on the fallback model.
	Fallbacks metric.Int64Counter

	// --- Gauges ---

	// GenerationsInFlight tracks the number of generations currently running.
	GenerationsInFlight metric.Int64UpDownCounter
}

// latencyBuckets defines histogram bucket boundaries (in seconds). Synthesis
// calls routinely take several seconds, post-processing stages milliseconds.
var latencyBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.SynthesisDuration, err = m.Float64Histogram("emovox.synthesis.duration",
		metric.WithDescription("Latency of backend text-to-speech synthesis."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.StageDuration, err = m.Float64Histogram("emovox.stage.duration",
		metric.WithDescription("Latency of individual post-processing stages."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.GenerationDuration, err = m.Float64Histogram("emovox.generation.duration",
		metric.WithDescription("End-to-end generation latency including post-processing and file output."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.ProviderRequests, err = m.Int64Counter("emovox.provider.requests",
		metric.WithDescription("Total backend API requests by backend, model, and status."),
	); err != nil {
		return nil, err
	}
	if met.ProviderErrors, err = m.Int64Counter("emovox.provider.errors",
		metric.WithDescription("Total backend errors by backend and model."),
	); err != nil {
		return nil, err
	}
	if met.Fallbacks, err = m.Int64Counter("emovox.fallbacks",
		metric.WithDescription("Total generations retried on the fallback model."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.GenerationsInFlight, err = m.Int64UpDownCounter("emovox.generations_in_flight",
		metric.WithDescription("Number of generations currently running."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordProviderRequest records a backend request counter increment with the
// standard attribute set.
func (m *Metrics) RecordProviderRequest(ctx context.Context, backend, model, status string) {
	m.ProviderRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("backend", backend),
			attribute.String("model", model),
			attribute.String("status", status),
		),
	)
}

// RecordProviderError records a backend error counter increment.
func (m *Metrics) RecordProviderError(ctx context.Context, backend, model string) {
	m.ProviderErrors.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("backend", backend),
			attribute.String("model", model),
		),
	)
}

// RecordStageDuration records a post-processing stage latency in seconds.
func (m *Metrics) RecordStageDuration(ctx context.Context, stage string, seconds float64) {
	m.StageDuration.Record(ctx, seconds,
		metric.WithAttributes(attribute.String("stage", stage)),
	)
}
