// Package otelobs bridges the observability.Tracer interface onto
// OpenTelemetry. Spans started through [NewTracer] are real OpenTelemetry
// spans: they propagate through the returned context and show up in whatever
// exporter the host application has installed. Without an SDK configured the
// global tracer provider is a no-op, so the bridge is always safe to enable.
//
// The bridge covers tracing only. Combine it with another backend for
// metrics and logs:
//
//	provider := observability.Compose(otelobs.NewTracer(""), slogObs, slogObs)
package otelobs
