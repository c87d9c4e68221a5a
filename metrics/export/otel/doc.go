// Package otel exports registry counters and the mirror latency histogram as
// OpenTelemetry observable instruments.
//
// [NewExporter] registers one Int64ObservableCounter per counter and one
// Int64ObservableGauge per histogram bucket. A single callback reads
// [goSentinel.Registry.MetricsSnapshot] on each collection.
//
// # What this package must NOT do
//
//   - Own the MeterProvider; callers supply the Meter.
//   - Mutate registry state.
package otel
