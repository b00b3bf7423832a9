package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Event describes one dispatch through the client.
type Event struct {
	// Target is the host the call was routed to.
	Target string

	// Attempt is the number of transport attempts made, including
	// the final one. Zero for calls served entirely from cache.
	Attempt int

	// Outcome is "success" or "failure".
	Outcome string

	// ErrorTag is the classified tag name on failure, empty on
	// success.
	ErrorTag string

	// Latency is the total dispatch duration as seen by the caller.
	Latency time.Duration

	// CacheHit reports whether the response came from cache,
	// including revalidated stale entries.
	CacheHit bool

	// BreakerState is the target's breaker state after the call.
	BreakerState string
}

// Emitter consumes dispatch events. Implementations must be safe for
// concurrent use and must not panic.
type Emitter interface {
	Emit(ctx context.Context, ev Event)
}

// NopEmitter discards all events.
type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, Event) {}

// LogEmitter writes each event as one structured log line.
type LogEmitter struct {
	logger Logger
}

// NewLogEmitter wraps a Logger as an Emitter.
func NewLogEmitter(logger Logger) *LogEmitter {
	return &LogEmitter{logger: logger}
}

func (e *LogEmitter) Emit(ctx context.Context, ev Event) {
	fields := []Field{
		{Key: "target", Value: ev.Target},
		{Key: "attempt", Value: ev.Attempt},
		{Key: "outcome", Value: ev.Outcome},
		{Key: "latency_ms", Value: ev.Latency.Milliseconds()},
		{Key: "cache_hit", Value: ev.CacheHit},
		{Key: "breaker_state", Value: ev.BreakerState},
	}
	if ev.ErrorTag != "" {
		fields = append(fields, Field{Key: "error_tag", Value: ev.ErrorTag})
	}
	if ev.Outcome == "failure" {
		e.logger.Warn(ctx, "dispatch failed", fields...)
		return
	}
	e.logger.Debug(ctx, "dispatch completed", fields...)
}

// MetricEmitter records events on an OpenTelemetry meter.
type MetricEmitter struct {
	total       metric.Int64Counter
	failures    metric.Int64Counter
	cacheHits   metric.Int64Counter
	latencyHist metric.Float64Histogram
}

// NewMetricEmitter registers the dispatch instruments on meter.
func NewMetricEmitter(meter metric.Meter) (*MetricEmitter, error) {
	total, err := meter.Int64Counter(
		"github.dispatch.total",
		metric.WithDescription("Total dispatches"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter(
		"github.dispatch.failures",
		metric.WithDescription("Failed dispatches"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}
	cacheHits, err := meter.Int64Counter(
		"github.dispatch.cache_hits",
		metric.WithDescription("Dispatches served from cache"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}
	latencyHist, err := meter.Float64Histogram(
		"github.dispatch.latency_ms",
		metric.WithDescription("Dispatch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}
	return &MetricEmitter{
		total:       total,
		failures:    failures,
		cacheHits:   cacheHits,
		latencyHist: latencyHist,
	}, nil
}

func (e *MetricEmitter) Emit(ctx context.Context, ev Event) {
	attrs := []attribute.KeyValue{
		attribute.String("target", ev.Target),
		attribute.String("breaker_state", ev.BreakerState),
	}
	if ev.ErrorTag != "" {
		attrs = append(attrs, attribute.String("error_tag", ev.ErrorTag))
	}
	opt := metric.WithAttributes(attrs...)

	e.total.Add(ctx, 1, opt)
	if ev.Outcome == "failure" {
		e.failures.Add(ctx, 1, opt)
	}
	if ev.CacheHit {
		e.cacheHits.Add(ctx, 1, opt)
	}
	e.latencyHist.Record(ctx, float64(ev.Latency.Milliseconds()), opt)
}

// MultiEmitter fans one event out to several emitters.
type MultiEmitter []Emitter

func (m MultiEmitter) Emit(ctx context.Context, ev Event) {
	for _, e := range m {
		e.Emit(ctx, ev)
	}
}

var (
	_ Emitter = NopEmitter{}
	_ Emitter = (*LogEmitter)(nil)
	_ Emitter = (*MetricEmitter)(nil)
	_ Emitter = MultiEmitter(nil)
)
