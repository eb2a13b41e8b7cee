package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		if logger := New(level, "json"); logger == nil {
			t.Errorf("New(%q) returned nil", level)
		}
	}
	if logger := New("info", "text"); logger == nil {
		t.Error("text format returned nil")
	}
}

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	if got := RequestID(ctx); got != "req-123" {
		t.Errorf("got %q, want req-123", got)
	}
}

func TestRequestID_Absent(t *testing.T) {
	if got := RequestID(context.Background()); got != "" {
		t.Errorf("expected empty request id, got %q", got)
	}
}

func TestFromContext_Fallback(t *testing.T) {
	if got := FromContext(context.Background()); got != slog.Default() {
		t.Error("expected default logger when none in context")
	}
}

func TestFromContext_Stored(t *testing.T) {
	logger := New("error", "json")
	ctx := WithLogger(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Error("expected stored logger")
	}
}

func TestL_DoesNotPanic(t *testing.T) {
	ctx := WithLogger(WithRequestID(context.Background(), "req-1"), New("error", "json"))
	L(ctx).Info("test message")
	L(context.Background()).Info("no context")
}
