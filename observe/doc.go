// Package observe is the observability boundary for the client.
//
// Every dispatch emits one Event describing the call: target, attempt
// count, outcome, latency, cache hit, and breaker state. Emitter
// implementations forward events to a structured logger, to
// OpenTelemetry metrics, or to nothing; the resilience layer itself
// never formats or ships telemetry.
//
// Observer bootstraps the OpenTelemetry providers with pluggable
// exporters (otlp, prometheus, stdout, none).
package observe
