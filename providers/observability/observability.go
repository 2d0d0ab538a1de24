package observability

import (
	"context"
	"time"
)

// Provider is the main interface for observability (tracing, metrics, logging)
type Provider interface {
	Tracer
	Metrics
	Logger
}

// --- TRACING (Distributed Tracing) ---

// Tracer provides distributed tracing capabilities
type Tracer interface {
	// StartSpan starts a new span
	StartSpan(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Span represents a single unit of work
type Span interface {
	// End completes the span
	End()
	// SetAttributes adds attributes to the span
	SetAttributes(attrs ...Attribute)
	// SetStatus sets the span status
	SetStatus(code StatusCode, description string)
	// RecordError records an error
	RecordError(err error)
	// AddEvent adds an event to the span
	AddEvent(name string, attrs ...Attribute)
}

// StatusCode represents the status of a span
type StatusCode int

const (
	StatusUnset StatusCode = iota
	StatusOK
	StatusError
)

// --- METRICS ---

// Metrics provides metrics collection capabilities
type Metrics interface {
	// Counter creates or retrieves a counter metric
	Counter(name string) Counter
	// Histogram creates or retrieves a histogram metric
	Histogram(name string) Histogram
}

// Counter is a monotonically increasing metric
type Counter interface {
	Add(ctx context.Context, value int64, attrs ...Attribute)
}

// Histogram records distribution of values
type Histogram interface {
	Record(ctx context.Context, value float64, attrs ...Attribute)
}

// --- LOGGING (Structured Logging) ---

// Logger provides structured logging capabilities
type Logger interface {
	Trace(ctx context.Context, msg string, attrs ...Attribute)
	Debug(ctx context.Context, msg string, attrs ...Attribute)
	Info(ctx context.Context, msg string, attrs ...Attribute)
	Warn(ctx context.Context, msg string, attrs ...Attribute)
	Error(ctx context.Context, msg string, attrs ...Attribute)
}

// Compose assembles a Provider from independent tracing, metrics, and logging
// implementations. It allows mixing backends, for example OpenTelemetry spans
// with slog-based metrics and logs. Nil components are replaced with no-ops.
func Compose(tracer Tracer, metrics Metrics, logger Logger) Provider {
	if tracer == nil {
		tracer = noopTracer{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &composite{tracer: tracer, metrics: metrics, logger: logger}
}

type composite struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

func (c *composite) StartSpan(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	return c.tracer.StartSpan(ctx, name, attrs...)
}

func (c *composite) Counter(name string) Counter { return c.metrics.Counter(name) }

func (c *composite) Histogram(name string) Histogram { return c.metrics.Histogram(name) }

func (c *composite) Trace(ctx context.Context, msg string, attrs ...Attribute) {
	c.logger.Trace(ctx, msg, attrs...)
}

func (c *composite) Debug(ctx context.Context, msg string, attrs ...Attribute) {
	c.logger.Debug(ctx, msg, attrs...)
}

func (c *composite) Info(ctx context.Context, msg string, attrs ...Attribute) {
	c.logger.Info(ctx, msg, attrs...)
}

func (c *composite) Warn(ctx context.Context, msg string, attrs ...Attribute) {
	c.logger.Warn(ctx, msg, attrs...)
}

func (c *composite) Error(ctx context.Context, msg string, attrs ...Attribute) {
	c.logger.Error(ctx, msg, attrs...)
}

type noopTracer struct{}

func (noopTracer) StartSpan(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End()                          {}
func (noopSpan) SetAttributes(...Attribute)    {}
func (noopSpan) SetStatus(StatusCode, string)  {}
func (noopSpan) RecordError(error)             {}
func (noopSpan) AddEvent(string, ...Attribute) {}

type noopMetrics struct{}

func (noopMetrics) Counter(string) Counter     { return noopCounter{} }
func (noopMetrics) Histogram(string) Histogram { return noopHistogram{} }

type noopCounter struct{}

func (noopCounter) Add(context.Context, int64, ...Attribute) {}

type noopHistogram struct{}

func (noopHistogram) Record(context.Context, float64, ...Attribute) {}

type noopLogger struct{}

func (noopLogger) Trace(context.Context, string, ...Attribute) {}
func (noopLogger) Debug(context.Context, string, ...Attribute) {}
func (noopLogger) Info(context.Context, string, ...Attribute)  {}
func (noopLogger) Warn(context.Context, string, ...Attribute)  {}
func (noopLogger) Error(context.Context, string, ...Attribute) {}

// --- ATTRIBUTES (Key-Value pairs) ---

// Attribute represents a key-value pair for metadata
type Attribute struct {
	Key   string
	Value interface{}
}

// String creates a string attribute
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an integer attribute
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Float64 creates a float64 attribute
func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value}
}

// StringSlice creates a string slice attribute
func StringSlice(key string, value []string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Error creates an error attribute
func Error(err error) Attribute {
	if err == nil {
		return Attribute{Key: "error", Value: ""}
	}
	return Attribute{Key: "error", Value: err.Error()}
}
