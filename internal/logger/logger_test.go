package logger_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/squadpick/internal/logger"
)

func TestLookupLevel(t *testing.T) {
	tests := []struct {
		in    string
		want  logger.Level
		known bool
	}{
		{"debug", logger.DEBUG, true},
		{"INFO", logger.INFO, true},
		{"warning", logger.WARN, true},
		{" error ", logger.ERROR, true},
		{"loud", logger.INFO, false},
	}

	for _, tt := range tests {
		level, ok := logger.LookupLevel(tt.in)
		assert.Equal(t, tt.want, level, tt.in)
		assert.Equal(t, tt.known, ok, tt.in)
	}
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.WARN), logger.WithColors(false))

	log.Info("hidden")
	log.Warn("shown %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "shown 1")
}

func TestLogger_FieldsRenderSorted(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false)).
		WithPrefix("api").
		WithFields(map[string]any{"status": 200, "method": "GET"}).
		WithField("path", "/players")

	log.Info("request completed")

	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, "[api]")
	assert.True(t, strings.HasSuffix(line, "request completed method=GET path=/players status=200"), line)
}

func TestLogger_DerivedLoggersDoNotShareFields(t *testing.T) {
	var buf bytes.Buffer
	base := logger.New(logger.WithOutput(&buf), logger.WithColors(false))
	_ = base.WithField("request_id", "abc")

	base.Info("plain")

	assert.NotContains(t, buf.String(), "request_id")
}

func TestContextRoundTrip(t *testing.T) {
	log := logger.New().WithPrefix("ctx")
	ctx := logger.NewContext(context.Background(), log)

	assert.Same(t, log, logger.FromContext(ctx))
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
}
