// Package obs is the observability sink the handlers report into: structured
// log events plus manually-created spans. The core never depends on a live
// exporter; the no-op sink keeps it testable offline.
package obs

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span is the slice of the OTel span surface the handlers use. Every span
// returned by a Sink must be ended exactly once, on every exit path.
type Span interface {
	SetAttributes(attrs ...attribute.KeyValue)
	SetStatus(code codes.Code, description string)
	End()
}

// Sink receives fire-and-forget log events and span requests. A failing or
// absent backend must never affect the request being served.
type Sink interface {
	Emit(ctx context.Context, level slog.Level, msg string, attrs ...attribute.KeyValue)
	StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, Span)
}

type nopSink struct{}

type nopSpan struct{}

func (nopSpan) SetAttributes(...attribute.KeyValue) {}

func (nopSpan) SetStatus(codes.Code, string) {}

func (nopSpan) End() {}

// Nop returns a sink that drops everything.
func Nop() Sink { return nopSink{} }

func (nopSink) Emit(context.Context, slog.Level, string, ...attribute.KeyValue) {}

func (nopSink) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, Span) {
	return ctx, nopSpan{}
}

type otelSink struct {
	tracer trace.Tracer
	logger *slog.Logger
}

type otelSpan struct {
	span trace.Span
}

func (s otelSpan) SetAttributes(attrs ...attribute.KeyValue) { s.span.SetAttributes(attrs...) }

func (s otelSpan) SetStatus(code codes.Code, description string) { s.span.SetStatus(code, description) }

func (s otelSpan) End() { s.span.End() }

// NewOTel returns a sink that starts real spans on the given tracer and
// mirrors every event to the slog logger, with the trace context attached
// when one is active.
func NewOTel(tracer trace.Tracer, logger *slog.Logger) Sink {
	return &otelSink{tracer: tracer, logger: logger}
}

func (s *otelSink) Emit(ctx context.Context, level slog.Level, msg string, attrs ...attribute.KeyValue) {
	logAttrs := make([]any, 0, len(attrs)+2)
	for _, attr := range attrs {
		logAttrs = append(logAttrs, slog.Any(string(attr.Key), attr.Value.AsInterface()))
	}
	if span := trace.SpanContextFromContext(ctx); span.IsValid() {
		logAttrs = append(logAttrs,
			slog.String("trace_id", span.TraceID().String()),
			slog.String("span_id", span.SpanID().String()),
		)
	}
	s.logger.Log(ctx, level, msg, logAttrs...)
}

func (s *otelSink) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, Span) {
	ctx, span := s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, otelSpan{span: span}
}
