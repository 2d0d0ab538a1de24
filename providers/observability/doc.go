// Package observability defines the core interfaces and semantic conventions
// used for distributed tracing, metrics collection, and structured logging
// throughout the aicall library.
//
// The central entry point is [Provider], which composes [Tracer], [Metrics],
// and [Logger] into a single injectable dependency. An active [Span] is
// propagated through a [context.Context] with [ContextWithSpan] and retrieved
// with [SpanFromContext]; the transport layer emits request lifecycle events
// on whatever span it finds there, and stays silent otherwise.
//
// The semconv.go file contains the attribute-key, span-name, event-name, and
// metric-name constants that should be used when recording observations,
// ensuring consistency across components. Ready-made implementations live in
// the slogobs (log/slog) and otelobs (OpenTelemetry) subpackages; [Compose]
// mixes backends when one implementation does not cover all three concerns.
package observability
