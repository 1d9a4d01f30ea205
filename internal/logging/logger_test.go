package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Level
	}{
		{"debug", "debug", LevelDebug},
		{"info", "INFO", LevelInfo},
		{"warn", "warn", LevelWarn},
		{"warning alias", "warning", LevelWarn},
		{"error", "error", LevelError},
		{"fatal", "FATAL", LevelFatal},
		{"unknown defaults to info", "verbose", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLoggerEmitsJSON(t *testing.T) {
	t.Setenv("LOG_JSON", "true")
	var buf bytes.Buffer
	logger := NewWithWriter(LevelDebug, &buf).
		WithComponent("detector").
		WithRunID("run-123456789")

	logger.Info("phase complete", "phase", "venue", "conflicts", 2)

	var entry Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "phase complete", entry.Message)
	assert.Equal(t, "detector", entry.Component)
	assert.Equal(t, "run-123456789", entry.RunID)
	assert.Equal(t, "venue", entry.Fields["phase"])
	assert.Equal(t, float64(2), entry.Fields["conflicts"])
	assert.NotEmpty(t, entry.Timestamp)
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(LevelWarn, &buf)

	logger.Debug("dropped")
	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestPairFields(t *testing.T) {
	t.Run("even pairs", func(t *testing.T) {
		m := pairFields([]any{"a", 1, "b", "two"})
		assert.Equal(t, 1, m["a"])
		assert.Equal(t, "two", m["b"])
	})

	t.Run("dangling key preserved", func(t *testing.T) {
		m := pairFields([]any{"a", 1, "orphan"})
		assert.Equal(t, 1, m["a"])
		assert.Equal(t, "orphan", m["field_2"])
	})

	t.Run("empty yields nil", func(t *testing.T) {
		assert.Nil(t, pairFields(nil))
	})
}

func TestRunIDContext(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-1")
	assert.Equal(t, "run-1", RunIDFrom(ctx))

	t.Run("mints an ID when empty", func(t *testing.T) {
		ctx := WithRunID(context.Background(), "")
		assert.NotEmpty(t, RunIDFrom(ctx))
	})

	t.Run("absent yields empty", func(t *testing.T) {
		assert.Empty(t, RunIDFrom(context.Background()))
	})
}

func TestNoOpLogger(t *testing.T) {
	logger := NewNoOpLogger()
	logger.Info("ignored")
	logger.Error("ignored")
	assert.Equal(t, logger, logger.WithComponent("x").WithRunID("y"))
}
