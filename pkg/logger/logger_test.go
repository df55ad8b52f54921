package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimpleHandler_Enabled(t *testing.T) {
	h := &SimpleHandler{Level: slog.LevelInfo}
	ctx := context.Background()

	assert.False(t, h.Enabled(ctx, slog.LevelDebug))
	assert.True(t, h.Enabled(ctx, slog.LevelInfo))
	assert.True(t, h.Enabled(ctx, LevelNotice))
	assert.True(t, h.Enabled(ctx, slog.LevelError))
}

// Use a fixed time for reproducible output
var fixedTime = time.Date(2023, 10, 27, 10, 0, 0, 0, time.UTC)

func TestSimpleHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	h := &SimpleHandler{Output: &buf, Level: slog.LevelInfo}

	r := slog.NewRecord(fixedTime, slog.LevelInfo, "test message", 0)
	r.AddAttrs(slog.String("key", "value"), slog.Int("count", 42))

	err := h.Handle(context.Background(), r)
	assert.NoError(t, err)
	assert.Equal(t, "2023-10-27 10:00:00 [INFO] test message key=value count=42\n", buf.String())
}

func TestSimpleHandler_Notice(t *testing.T) {
	var buf bytes.Buffer
	h := &SimpleHandler{Output: &buf, Level: slog.LevelInfo}

	err := h.Handle(context.Background(), slog.NewRecord(fixedTime, LevelNotice, "legend degenerate", 0))
	assert.NoError(t, err)
	assert.Equal(t, "2023-10-27 10:00:00 [NOTICE] legend degenerate\n", buf.String())
}

func TestSimpleHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &SimpleHandler{Output: &buf, Level: slog.LevelInfo}
	assert.Same(t, h, h.WithAttrs(nil))

	nh := h.WithAttrs([]slog.Attr{slog.String("session", "abc")})
	r := slog.NewRecord(fixedTime, slog.LevelWarn, "pointer", 0)
	r.AddAttrs(slog.Int("cell", 3))

	assert.NoError(t, nh.Handle(context.Background(), r))
	assert.Equal(t, "2023-10-27 10:00:00 [WARN] pointer session=abc cell=3\n", buf.String())
}

func TestSimpleHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	h := &SimpleHandler{Output: &buf, Level: slog.LevelInfo}
	assert.Same(t, h, h.WithGroup(""))

	nh := h.WithGroup("legend")
	r := slog.NewRecord(fixedTime, slog.LevelInfo, "built", 0)
	r.AddAttrs(slog.Int("steps", 9), slog.Group("range", slog.Float64("min", 1.5)))

	assert.NoError(t, nh.Handle(context.Background(), r))
	assert.Equal(t, "2023-10-27 10:00:00 [INFO] built legend.steps=9 legend.range.min=1.5\n", buf.String())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"notice", LevelNotice, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
