package observability

import "context"

// Unexported key types keep context values collision-free across packages.
type (
	spanKey     struct{}
	observerKey struct{}
)

// SpanFromContext returns the Span stored in ctx, or nil when none was
// attached. Helpers that enrich an in-flight span use this to find it.
func SpanFromContext(ctx context.Context) Span {
	if ctx == nil {
		return nil
	}
	span, _ := ctx.Value(spanKey{}).(Span)
	return span
}

// ContextWithSpan attaches span to ctx so nested calls can add attributes
// and events to it. The innermost span wins when contexts are layered.
func ContextWithSpan(ctx context.Context, span Span) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, spanKey{}, span)
}

// ObserverFromContext returns the Provider stored in ctx, or nil when none
// was attached.
func ObserverFromContext(ctx context.Context) Provider {
	if ctx == nil {
		return nil
	}
	observer, _ := ctx.Value(observerKey{}).(Provider)
	return observer
}

// ContextWithObserver attaches observer to ctx. Code further down the call
// chain retrieves it with [ObserverFromContext] to emit spans, metrics, and
// logs without holding a direct reference.
func ContextWithObserver(ctx context.Context, observer Provider) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, observerKey{}, observer)
}
