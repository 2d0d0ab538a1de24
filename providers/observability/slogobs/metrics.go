package slogobs

import (
	"context"
	"log/slog"
	"sync"

	"github.com/leofalp/aicall/providers/observability"
)

// metricsStore holds metrics in memory (thread-safe)
type metricsStore struct {
	mu         sync.RWMutex
	counters   map[string]*counter
	histograms map[string]*histogram
}

func newMetricsStore() *metricsStore {
	return &metricsStore{
		counters:   make(map[string]*counter),
		histograms: make(map[string]*histogram),
	}
}

func (m *metricsStore) getCounter(name string, logger *slog.Logger) *counter {
	m.mu.RLock()
	c, exists := m.counters[name]
	m.mu.RUnlock()

	if exists {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if c, exists := m.counters[name]; exists {
		return c
	}

	c = &counter{name: name, logger: logger}
	m.counters[name] = c
	return c
}

func (m *metricsStore) getHistogram(name string, logger *slog.Logger) *histogram {
	m.mu.RLock()
	h, exists := m.histograms[name]
	m.mu.RUnlock()

	if exists {
		return h
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if h, exists := m.histograms[name]; exists {
		return h
	}

	h = &histogram{name: name, logger: logger}
	m.histograms[name] = h
	return h
}

type counter struct {
	name   string
	logger *slog.Logger
	mu     sync.Mutex
	value  int64
}

func (c *counter) Add(ctx context.Context, value int64, attrs ...observability.Attribute) {
	c.mu.Lock()
	c.value += value
	currentValue := c.value
	c.mu.Unlock()

	logAttrs := []slog.Attr{
		slog.String("metric", c.name),
		slog.String("type", "counter"),
		slog.Int64("value", currentValue),
		slog.Int64("delta", value),
	}
	for _, attr := range attrs {
		logAttrs = append(logAttrs, slog.Any(attr.Key, attr.Value))
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "Counter", logAttrs...)
}

type histogram struct {
	name   string
	logger *slog.Logger
	mu     sync.Mutex
}

func (h *histogram) Record(ctx context.Context, value float64, attrs ...observability.Attribute) {
	h.mu.Lock()
	defer h.mu.Unlock()

	logAttrs := []slog.Attr{
		slog.String("metric", h.name),
		slog.String("type", "histogram"),
		slog.Float64("value", value),
	}
	for _, attr := range attrs {
		logAttrs = append(logAttrs, slog.Any(attr.Key, attr.Value))
	}
	h.logger.LogAttrs(ctx, slog.LevelDebug, "Histogram", logAttrs...)
}
