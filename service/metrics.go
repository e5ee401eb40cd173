package service

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcomes recorded by Metrics.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeCached  = "cached"
)

// Metrics counts analyses locally for the /metrics endpoint and mirrors every
// observation to OpenTelemetry instruments of the global meter provider.
type Metrics struct {
	mu       sync.RWMutex
	counters map[string]*atomic.Int64

	analyses metric.Int64Counter
	shapes   metric.Int64Counter
	latency  metric.Float64Histogram
}

func NewMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter("outfitron")
	m := &Metrics{counters: make(map[string]*atomic.Int64)}
	// creation fails only for invalid names
	m.analyses, _ = meter.Int64Counter("outfitron.analyses",
		metric.WithDescription("Analyses by outcome"))
	m.shapes, _ = meter.Int64Counter("outfitron.body_shapes",
		metric.WithDescription("Classified body shapes"))
	m.latency, _ = meter.Float64Histogram("outfitron.analysis.duration",
		metric.WithDescription("Analysis latency"), metric.WithUnit("ms"))
	return m
}

// RecordAnalysis counts one analysis. stage is empty unless the outcome is a failure.
func (m *Metrics) RecordAnalysis(ctx context.Context, outcome, stage string, d time.Duration) {
	key := "analyses{outcome=" + outcome
	attrs := []attribute.KeyValue{attribute.String("outcome", outcome)}
	if stage != "" {
		key += ",stage=" + stage
		attrs = append(attrs, attribute.String("stage", stage))
	}
	m.inc(key + "}")

	if m.analyses != nil {
		m.analyses.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	if m.latency != nil && outcome != OutcomeCached {
		m.latency.Record(ctx, float64(d.Microseconds())/1000, metric.WithAttributes(attrs...))
	}
}

// RecordShape counts one body-shape classification.
func (m *Metrics) RecordShape(ctx context.Context, shape string) {
	m.inc("body_shapes{shape=" + shape + "}")
	if m.shapes != nil {
		m.shapes.Add(ctx, 1, metric.WithAttributes(attribute.String("shape", shape)))
	}
}

// Snapshot returns the local counters keyed by name and labels.
func (m *Metrics) Snapshot() map[string]int64 {
	out := make(map[string]int64)
	m.mu.RLock()
	for k, v := range m.counters {
		out[k] = v.Load()
	}
	m.mu.RUnlock()
	return out
}

// Keys returns the counter keys in sorted order.
func (m *Metrics) Keys() []string {
	m.mu.RLock()
	keys := make([]string, 0, len(m.counters))
	for k := range m.counters {
		keys = append(keys, k)
	}
	m.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

func (m *Metrics) inc(key string) {
	m.mu.RLock()
	c := m.counters[key]
	m.mu.RUnlock()
	if c == nil {
		m.mu.Lock()
		if c = m.counters[key]; c == nil {
			c = new(atomic.Int64)
			m.counters[key] = c
		}
		m.mu.Unlock()
	}
	c.Add(1)
}
