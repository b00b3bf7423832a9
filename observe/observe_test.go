package observe

import (
	"context"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"minimal", Config{ServiceName: "contribux"}, false},
		{"missing service name", Config{}, true},
		{
			"bad tracing exporter",
			Config{ServiceName: "contribux", Tracing: TracingConfig{Enabled: true, Exporter: "zipkin"}},
			true,
		},
		{
			"bad sample pct",
			Config{ServiceName: "contribux", Tracing: TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.5}},
			true,
		},
		{
			"bad metrics exporter",
			Config{ServiceName: "contribux", Metrics: MetricsConfig{Enabled: true, Exporter: "statsd"}},
			true,
		},
		{
			"bad log level",
			Config{ServiceName: "contribux", Logging: LoggingConfig{Enabled: true, Level: "trace"}},
			true,
		},
		{
			"all subsystems valid",
			Config{
				ServiceName: "contribux",
				Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 0.5},
				Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
				Logging:     LoggingConfig{Enabled: true, Level: "debug"},
			},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewObserver_DisabledSubsystemsAreNoop(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "contribux"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	defer obs.Shutdown(context.Background())

	if obs.Tracer() == nil || obs.Meter() == nil || obs.Logger() == nil {
		t.Error("disabled subsystems should still return usable primitives")
	}

	emitter, err := obs.Emitter()
	if err != nil {
		t.Fatalf("Emitter() error = %v", err)
	}
	emitter.Emit(context.Background(), Event{Target: "api.github.com", Outcome: "success"})
}

func TestObserver_ShutdownWithoutProviders(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "contribux"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}
