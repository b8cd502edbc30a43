package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textLogger(level slog.Level) (*SlogLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := textLogger(slog.LevelDebug)
	ctx := context.Background()

	log.Debug(ctx, "request sent", "path", "/doctors/")
	log.Info(ctx, "logged in", "role", "Admin")
	log.Warn(ctx, "profile fetch failed", "status", 500)
	log.Error(ctx, "persist credential", "error", "disk full")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "level=DEBUG")
	assert.Contains(t, lines[0], "path=/doctors/")
	assert.Contains(t, lines[1], "level=INFO")
	assert.Contains(t, lines[1], "role=Admin")
	assert.Contains(t, lines[2], "level=WARN")
	assert.Contains(t, lines[2], "status=500")
	assert.Contains(t, lines[3], "level=ERROR")
	assert.Contains(t, lines[3], `error="disk full"`)
}

func TestSlogLogger_BelowLevelIsDropped(t *testing.T) {
	log, buf := textLogger(slog.LevelWarn)

	log.Debug(context.Background(), "noise")
	log.Info(context.Background(), "noise")

	assert.Empty(t, buf.String())
}

func TestSlogLogger_WithAndContextFields(t *testing.T) {
	log, buf := textLogger(slog.LevelInfo)

	ctx := ContextWith(context.Background(), "request_id", "r-1")
	ctx = ContextWith(ctx, "path", "/login")
	log.With("component", "dispatcher").Info(ctx, "api request", "status", 200)

	out := buf.String()
	for _, want := range []string{"component=dispatcher", "request_id=r-1", "path=/login", "status=200"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "request_id"), strings.Index(out, "status"),
		"context fields come before call args")
}

func TestContextWith_DoesNotLeakBetweenBranches(t *testing.T) {
	base := ContextWith(context.Background(), "a", 1)
	left := ContextWith(base, "b", 2)
	right := ContextWith(base, "c", 3)

	assert.Equal(t, []any{"a", 1}, contextFields(base))
	assert.Equal(t, []any{"a", 1, "b", 2}, contextFields(left))
	assert.Equal(t, []any{"a", 1, "c", 3}, contextFields(right))
	assert.Nil(t, contextFields(context.Background()))
}
