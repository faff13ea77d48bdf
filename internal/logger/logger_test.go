package logger_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/flashstudy/internal/logger"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.WARN), logger.WithColors(false))

	log.Debug("debug %d", 1)
	log.Info("info")
	log.Warn("careful %s", "now")

	out := buf.String()
	assert.NotContains(t, out, "debug 1")
	assert.NotContains(t, out, "info")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "careful now")
}

func TestLogger_FieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false)).
		WithFields(map[string]any{"zeta": 1, "alpha": 2, "mid": 3})

	log.Info("hello")

	line := buf.String()
	a := strings.Index(line, "alpha=2")
	m := strings.Index(line, "mid=3")
	z := strings.Index(line, "zeta=1")
	assert.True(t, a > 0 && a < m && m < z, "fields out of order: %q", line)
}

func TestLogger_PrefixAndError(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false)).
		WithPrefix("sync").
		WithError(errors.New("boom"))

	log.Error("reset failed")

	out := buf.String()
	assert.Contains(t, out, "[sync]")
	assert.Contains(t, out, "error=boom")
	assert.Same(t, log, log.WithError(nil))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.DEBUG, logger.ParseLevel("debug"))
	assert.Equal(t, logger.WARN, logger.ParseLevel("WARNING"))
	assert.Equal(t, logger.ERROR, logger.ParseLevel("error"))
	assert.Equal(t, logger.INFO, logger.ParseLevel("nonsense"))
}

func TestContextRoundTrip(t *testing.T) {
	log := logger.Discard()
	ctx := logger.NewContext(context.Background(), log)
	assert.Same(t, log, logger.FromContext(ctx))
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
	assert.False(t, log.Enabled(logger.ERROR))
}
