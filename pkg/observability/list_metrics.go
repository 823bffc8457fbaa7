package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricStepsTotal      = "lazyseq.list.steps.total"
	metricGenerateCalls   = "lazyseq.list.generate.calls.total"
	metricListLength      = "lazyseq.list.length"
	metricListAnchors     = "lazyseq.list.anchors"
	metricMismatchesTotal = "lazyseq.harness.mismatches.total"

	attrStrategy = "strategy"
	attrPhase    = "phase"

	phaseRecalc = "recalc"
	phaseRead   = "read"
)

// sizeBucketBoundaries covers list lengths and anchor counts from tiny to large.
var sizeBucketBoundaries = []float64{0, 1, 4, 16, 64, 256, 1024, 4096, 16384, 65536}

// ListMetrics holds OTel instruments for recalculation steps.
type ListMetrics struct {
	steps      metric.Int64Counter
	generates  metric.Int64Counter
	length     metric.Int64Histogram
	anchors    metric.Int64Histogram
	mismatches metric.Int64Counter
}

// StepStats holds the outcome of one edit applied to both list strategies.
// Lazy calls are split by phase: during Recalculate and while serving reads.
type StepStats struct {
	Len               int
	Anchors           int
	LazyGenerateCalls int
	LazyReadCalls     int
	FullGenerateCalls int
}

// NewListMetrics creates list metric instruments from the given meter.
func NewListMetrics(mt metric.Meter) (*ListMetrics, error) {
	b := newMetricBuilder(mt)

	lm := &ListMetrics{
		steps:      b.counter(metricStepsTotal, "Total edits applied", "{step}"),
		generates:  b.counter(metricGenerateCalls, "Generator calls by list strategy", "{call}"),
		length:     b.histogram(metricListLength, "Logical list length after an edit", "{element}", sizeBucketBoundaries...),
		anchors:    b.histogram(metricListAnchors, "Anchors stored by the lazy list after an edit", "{anchor}", sizeBucketBoundaries...),
		mismatches: b.counter(metricMismatchesTotal, "Divergences found between strategies", "{mismatch}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return lm, nil
}

// RecordStep records one applied edit.
// Safe to call on a nil receiver (no-op).
func (lm *ListMetrics) RecordStep(ctx context.Context, stats StepStats) {
	if lm == nil {
		return
	}

	lm.steps.Add(ctx, 1)
	lm.length.Record(ctx, int64(stats.Len))
	lm.anchors.Record(ctx, int64(stats.Anchors))
	lm.generates.Add(ctx, int64(stats.LazyGenerateCalls),
		metric.WithAttributes(attribute.String(attrStrategy, "lazy"), attribute.String(attrPhase, phaseRecalc)))
	lm.generates.Add(ctx, int64(stats.LazyReadCalls),
		metric.WithAttributes(attribute.String(attrStrategy, "lazy"), attribute.String(attrPhase, phaseRead)))
	lm.generates.Add(ctx, int64(stats.FullGenerateCalls),
		metric.WithAttributes(attribute.String(attrStrategy, "full"), attribute.String(attrPhase, phaseRecalc)))
}

// RecordMismatch counts one divergence.
// Safe to call on a nil receiver (no-op).
func (lm *ListMetrics) RecordMismatch(ctx context.Context) {
	if lm == nil {
		return
	}

	lm.mismatches.Add(ctx, 1)
}
