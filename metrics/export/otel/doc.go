// Package otel provides OpenTelemetry metric bindings for the core's
// counters and histogram.
//
// [NewOTelExporter] registers an Int64ObservableCounter per counter and
// Int64ObservableGauge per histogram bucket. A single callback reads
// [appcore.Manager.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate manager state.
package otel
