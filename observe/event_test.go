package observe

import (
	"bytes"
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"
)

func TestLogEmitter_FailureLogsWarn(t *testing.T) {
	var buf bytes.Buffer
	e := NewLogEmitter(NewLoggerWithWriter("debug", &buf))

	e.Emit(context.Background(), Event{
		Target:       "api.github.com",
		Attempt:      3,
		Outcome:      "failure",
		ErrorTag:     "server",
		Latency:      120 * time.Millisecond,
		BreakerState: "open",
	})

	entry := decodeLines(t, &buf)[0]
	if entry["level"] != "warn" {
		t.Errorf("level = %v, want warn", entry["level"])
	}
	if entry["error_tag"] != "server" {
		t.Errorf("error_tag = %v, want server", entry["error_tag"])
	}
	if entry["breaker_state"] != "open" {
		t.Errorf("breaker_state = %v, want open", entry["breaker_state"])
	}
}

func TestLogEmitter_SuccessLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	e := NewLogEmitter(NewLoggerWithWriter("debug", &buf))

	e.Emit(context.Background(), Event{
		Target:   "api.github.com",
		Outcome:  "success",
		CacheHit: true,
	})

	entry := decodeLines(t, &buf)[0]
	if entry["level"] != "debug" {
		t.Errorf("level = %v, want debug", entry["level"])
	}
	if entry["cache_hit"] != true {
		t.Errorf("cache_hit = %v, want true", entry["cache_hit"])
	}
	if _, ok := entry["error_tag"]; ok {
		t.Error("success event should not carry error_tag")
	}
}

func TestMetricEmitter_RegistersOnNoopMeter(t *testing.T) {
	e, err := NewMetricEmitter(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewMetricEmitter() error = %v", err)
	}
	// Must not panic.
	e.Emit(context.Background(), Event{Target: "api.github.com", Outcome: "failure", ErrorTag: "network"})
}

func TestMultiEmitter_FansOut(t *testing.T) {
	var first, second bytes.Buffer
	m := MultiEmitter{
		NewLogEmitter(NewLoggerWithWriter("debug", &first)),
		NewLogEmitter(NewLoggerWithWriter("debug", &second)),
	}

	m.Emit(context.Background(), Event{Target: "api.github.com", Outcome: "success"})

	if first.Len() == 0 || second.Len() == 0 {
		t.Error("event should reach every emitter")
	}
}
