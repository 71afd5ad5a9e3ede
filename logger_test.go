package ringlog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainLogger(t *testing.T, rt *Runtime) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, rt.Shutdown(ctx))
}

func TestLoggerSeverityFiltering(t *testing.T) {
	w := &memWriter{}
	rt := newTestRuntime(t, w)
	logger := NewLogger(rt)
	logger.SetLevel(WARN)

	logger.Info("should be filtered")
	logger.Warn("should appear")

	drainLogger(t, rt)

	assert.NotContains(t, w.String(), "filtered")
	assert.Contains(t, w.String(), "should appear")
}

func TestLoggerVariadicSprintStyle(t *testing.T) {
	w := &memWriter{}
	rt := newTestRuntime(t, w)
	logger := NewLogger(rt)

	logger.Info("user", 42, "connected")

	drainLogger(t, rt)
	assert.Contains(t, w.String(), "user 42 connected")
}

func TestLoggerFormattedArgs(t *testing.T) {
	w := &memWriter{}
	rt := newTestRuntime(t, w)
	logger := NewLogger(rt)

	logger.Errorf("failed after %d attempts: %v, rate=%v%%", 3, "timeout", 12.5)

	drainLogger(t, rt)
	assert.Contains(t, w.String(), "failed after 3 attempts: timeout, rate=12.5%")
}

func TestLoggerWithFields(t *testing.T) {
	w := &memWriter{}
	rt := newTestRuntime(t, w)
	logger := NewLogger(rt)

	logger.InfoWithFields(map[string]any{"user_id": 7}, "request processed")

	drainLogger(t, rt)
	assert.Contains(t, w.String(), "request processed")
	assert.Contains(t, w.String(), "user_id=7")
}
