package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/gradaid/gradaid-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		want  slog.Level
		valid bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tc := range tests {
		got, ok := ParseLevel(tc.in)
		assert.Equal(t, tc.want, got, "level for %q", tc.in)
		assert.Equal(t, tc.valid, ok, "validity for %q", tc.in)
	}
}

func TestSetup_InvalidLevelWarns(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	buf := &TestLogBuffer{}
	l, err := setup(buf, config.ServerConfig{LogLevel: "chatty"})
	require.NoError(t, err)
	require.NotNil(t, l)

	AssertLogContains(t, buf, "invalid log level configured")
	AssertLogField(t, buf, "configured_level", "chatty")

	l.Debug("hidden")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestSetup_SetsDefault(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	buf := &TestLogBuffer{}
	l, err := setup(buf, config.ServerConfig{LogLevel: "debug"})
	require.NoError(t, err)
	assert.Same(t, l, slog.Default())

	slog.Debug("visible", slog.String("k", "v"))
	AssertLogField(t, buf, "k", "v")
}

func TestContextHelpers(t *testing.T) {
	buf, l := NewTestLogger(t)
	fallback := slog.New(slog.NewJSONHandler(&TestLogBuffer{}, nil))

	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	ctx := WithLogger(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
	assert.Same(t, l, FromContextOrDefault(ctx, fallback))

	ctx = WithTraceID(ctx, "trace-123")
	FromContext(ctx).Info("hello")
	AssertLogField(t, buf, TraceIDKey, "trace-123")
}
