package otelobs

import (
	"context"
	"fmt"
	"time"

	"github.com/leofalp/aicall/providers/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// defaultScope identifies this library as the instrumentation scope when the
// caller does not provide one.
const defaultScope = "github.com/leofalp/aicall"

// Tracer implements observability.Tracer on top of the global OpenTelemetry
// tracer provider.
type Tracer struct {
	tracer trace.Tracer
}

// Ensure Tracer implements observability.Tracer
var _ observability.Tracer = (*Tracer)(nil)

// NewTracer creates an OpenTelemetry-backed tracer. The scope names the
// instrumentation library in exported spans; pass "" for the default.
func NewTracer(scope string) *Tracer {
	if scope == "" {
		scope = defaultScope
	}
	return &Tracer{tracer: otel.Tracer(scope)}
}

// StartSpan opens an OpenTelemetry span. The returned context carries the
// otel span for downstream otel instrumentation and the wrapped span under
// this library's key, so nested calls find it via SpanFromContext.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	spanCtx, otelSpan := t.tracer.Start(ctx, name, trace.WithAttributes(toKeyValues(attrs)...))
	wrapped := &span{span: otelSpan}
	return observability.ContextWithSpan(spanCtx, wrapped), wrapped
}

type span struct {
	span trace.Span
}

func (s *span) End() {
	s.span.End()
}

func (s *span) SetAttributes(attrs ...observability.Attribute) {
	s.span.SetAttributes(toKeyValues(attrs)...)
}

func (s *span) SetStatus(code observability.StatusCode, description string) {
	switch code {
	case observability.StatusOK:
		s.span.SetStatus(codes.Ok, description)
	case observability.StatusError:
		s.span.SetStatus(codes.Error, description)
	default:
		s.span.SetStatus(codes.Unset, description)
	}
}

func (s *span) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
}

func (s *span) AddEvent(name string, attrs ...observability.Attribute) {
	s.span.AddEvent(name, trace.WithAttributes(toKeyValues(attrs)...))
}

func toKeyValues(attrs []observability.Attribute) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		kvs = append(kvs, toKeyValue(attr))
	}
	return kvs
}

func toKeyValue(attr observability.Attribute) attribute.KeyValue {
	switch v := attr.Value.(type) {
	case string:
		return attribute.String(attr.Key, v)
	case int:
		return attribute.Int(attr.Key, v)
	case int64:
		return attribute.Int64(attr.Key, v)
	case float64:
		return attribute.Float64(attr.Key, v)
	case bool:
		return attribute.Bool(attr.Key, v)
	case time.Duration:
		// Durations are exported in seconds, matching gen_ai conventions.
		return attribute.Float64(attr.Key, v.Seconds())
	case []string:
		return attribute.StringSlice(attr.Key, v)
	case error:
		return attribute.String(attr.Key, v.Error())
	default:
		return attribute.String(attr.Key, fmt.Sprintf("%v", v))
	}
}
