package obs

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Event is one recorded log emission.
type Event struct {
	Level   slog.Level
	Message string
	Attrs   []attribute.KeyValue
}

// RecordedSpan tracks the lifecycle of one recorded span.
type RecordedSpan struct {
	Name       string
	Attrs      []attribute.KeyValue
	StatusCode codes.Code
	StatusDesc string
	Ended      int
}

// Recorder is a Sink that keeps everything in memory for assertions.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	spans  []*RecordedSpan
}

var _ Sink = (*Recorder)(nil)

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Emit(ctx context.Context, level slog.Level, msg string, attrs ...attribute.KeyValue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Level: level, Message: msg, Attrs: attrs})
}

func (r *Recorder) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, Span) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := &RecordedSpan{Name: name, Attrs: attrs}
	r.spans = append(r.spans, span)
	return ctx, &recorderSpan{recorder: r, span: span}
}

// Events returns a copy of the recorded log events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Spans returns the recorded spans. Callers must not mutate them.
func (r *Recorder) Spans() []*RecordedSpan {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*RecordedSpan(nil), r.spans...)
}

type recorderSpan struct {
	recorder *Recorder
	span     *RecordedSpan
}

func (s *recorderSpan) SetAttributes(attrs ...attribute.KeyValue) {
	s.recorder.mu.Lock()
	defer s.recorder.mu.Unlock()
	s.span.Attrs = append(s.span.Attrs, attrs...)
}

func (s *recorderSpan) SetStatus(code codes.Code, description string) {
	s.recorder.mu.Lock()
	defer s.recorder.mu.Unlock()
	s.span.StatusCode = code
	s.span.StatusDesc = description
}

func (s *recorderSpan) End() {
	s.recorder.mu.Lock()
	defer s.recorder.mu.Unlock()
	s.span.Ended++
}
