package obs

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestNopSinkIsInert(t *testing.T) {
	sink := Nop()
	ctx := context.Background()

	sink.Emit(ctx, slog.LevelError, "ignored", attribute.String("k", "v"))
	spanCtx, span := sink.StartSpan(ctx, "op")
	if spanCtx != ctx {
		t.Fatal("nop sink should not derive a new context")
	}
	span.SetAttributes(attribute.String("k", "v"))
	span.SetStatus(codes.Error, "boom")
	span.End()
}

func TestRecorderTracksSpanLifecycle(t *testing.T) {
	recorder := NewRecorder()
	ctx := context.Background()

	_, span := recorder.StartSpan(ctx, "user.register", attribute.String("request.id", "req_1"))
	span.SetAttributes(attribute.String("user.username", "alice"))
	span.SetStatus(codes.Ok, "")
	span.End()

	spans := recorder.Spans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "user.register" || spans[0].Ended != 1 {
		t.Fatalf("span state: %+v", spans[0])
	}
	if spans[0].StatusCode != codes.Ok {
		t.Fatalf("expected Ok status, got %v", spans[0].StatusCode)
	}
	if len(spans[0].Attrs) != 2 {
		t.Fatalf("expected 2 attrs, got %d", len(spans[0].Attrs))
	}
}

func TestRecorderCollectsEvents(t *testing.T) {
	recorder := NewRecorder()
	recorder.Emit(context.Background(), slog.LevelInfo, "用戶註冊成功",
		attribute.String("user.username", "alice"))

	events := recorder.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Message != "用戶註冊成功" || events[0].Level != slog.LevelInfo {
		t.Fatalf("event: %+v", events[0])
	}
}

func TestOTelSinkEmitAttachesAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sink := NewOTel(noop.NewTracerProvider().Tracer("test"), logger)

	sink.Emit(context.Background(), slog.LevelInfo, "用戶登入成功",
		attribute.String("user.username", "alice"),
		attribute.Int("sessions.active_count", 1))

	out := buf.String()
	for _, want := range []string{"用戶登入成功", "user.username", "alice", "sessions.active_count"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Fatalf("log output missing %q: %s", want, out)
		}
	}
}

func TestOTelSinkSpansEndCleanly(t *testing.T) {
	sink := NewOTel(noop.NewTracerProvider().Tracer("test"), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	_, span := sink.StartSpan(context.Background(), "user.login")
	span.SetAttributes(attribute.String("session.id", "sess_1"))
	span.SetStatus(codes.Error, "authentication_failed")
	span.End()
}
