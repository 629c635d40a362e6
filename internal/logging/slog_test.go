package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	l := slog.New(h)
	return NewSlogLogger(l), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		emit  func(l Logger, ctx context.Context)
	}{
		{"DEBUG", func(l Logger, ctx context.Context) { l.Debug(ctx, "probe", "n", 1) }},
		{"INFO", func(l Logger, ctx context.Context) { l.Info(ctx, "probe", "n", 1) }},
		{"WARN", func(l Logger, ctx context.Context) { l.Warn(ctx, "probe", "n", 1) }},
		{"ERROR", func(l Logger, ctx context.Context) { l.Error(ctx, "probe", "n", 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log, buf := newTestLogger(t)
			tt.emit(log, context.Background())

			out := buf.String()
			assert.Contains(t, out, "level="+tt.level)
			assert.Contains(t, out, "msg=probe")
			assert.Contains(t, out, "n=1")
		})
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log2 := log.With("module", "directory", "account_id", "123")
	log2.Info(ctx, "hello", "k", "v")

	out := buf.String()
	for _, s := range []string{"level=INFO", "msg=hello", "module=directory", "account_id=123", "k=v"} {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in output, got:\n%s", s, out)
		}
	}
}

func TestNewJSONLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, "warn")
	ctx := context.Background()

	log.Info(ctx, "dropped")
	log.Warn(ctx, "kept", "email", "ann@example.com")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "ann@example.com", rec["email"])
}

func TestNewJSONLogger_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, "info").With("Token", "eyJhbGciOi")
	log.Info(context.Background(), "attempt", "password", "Passw0rd", "email", "ann@example.com")

	out := buf.String()
	assert.NotContains(t, out, "Passw0rd")
	assert.NotContains(t, out, "eyJhbGciOi")
	assert.Contains(t, out, `"password":"[REDACTED]"`)
	assert.Contains(t, out, `"Token":"[REDACTED]"`)
	assert.Contains(t, out, "ann@example.com")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestDiscard_DoesNotPanic(t *testing.T) {
	log := Discard()
	ctx := context.TODO()
	log.Debug(ctx, "x")
	log.With("a", 1).Error(ctx, "y")
}
