package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrService = "service"
	attrEnv     = "env"
	attrMode    = "mode"
	attrRun     = "run"

	// spanEventLog names the span event a warning or error record becomes.
	spanEventLog = "log"
)

type runKey struct{}

// WithRun returns a context whose log records carry run, the seed or script
// label a simulation or replay is working on.
func WithRun(ctx context.Context, run string) context.Context {
	return context.WithValue(ctx, runKey{}, run)
}

// RunFromContext returns the run label set by WithRun, if any.
func RunFromContext(ctx context.Context) (string, bool) {
	run, ok := ctx.Value(runKey{}).(string)

	return run, ok && run != ""
}

// TracingHandler is an [slog.Handler] for lazyseq runs. Each record gets the
// run label from its context and the active span's ids. Records at warn level
// or above are also added to a recording span as events, so a failed seed is
// visible from its trace alone.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler wraps inner. service, env and mode are attached once, at
// the top level.
func NewTracingHandler(inner slog.Handler, service, env string, mode AppMode) *TracingHandler {
	attrs := []slog.Attr{
		slog.String(attrService, service),
		slog.String(attrMode, string(mode)),
	}

	if env != "" {
		attrs = append(attrs, slog.String(attrEnv, env))
	}

	return &TracingHandler{inner: inner.WithAttrs(attrs)}
}

// Enabled delegates to the inner handler.
func (th *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return th.inner.Enabled(ctx, level)
}

// Handle decorates record from ctx and delegates.
func (th *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	run, hasRun := RunFromContext(ctx)
	if hasRun {
		record.AddAttrs(slog.String(attrRun, run))
	}

	span := trace.SpanFromContext(ctx)

	sc := span.SpanContext()
	if sc.IsValid() {
		record.AddAttrs(
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		)
	}

	if record.Level >= slog.LevelWarn && span.IsRecording() {
		span.AddEvent(spanEventLog, trace.WithAttributes(
			attribute.String("log.severity", record.Level.String()),
			attribute.String("log.message", record.Message),
		))
	}

	err := th.inner.Handle(ctx, record)
	if err != nil {
		return fmt.Errorf("tracing handler: %w", err)
	}

	return nil
}

// WithAttrs returns a TracingHandler whose inner handler carries attrs.
func (th *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{inner: th.inner.WithAttrs(attrs)}
}

// WithGroup returns a TracingHandler whose inner handler opens the group.
func (th *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{inner: th.inner.WithGroup(name)}
}
