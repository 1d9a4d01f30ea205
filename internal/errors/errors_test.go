package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineError_Error(t *testing.T) {
	err := NewDetectionError("venue", errors.New("index out of range"))
	assert.Contains(t, err.Error(), "detector")
	assert.Contains(t, err.Error(), "venue")
	assert.Contains(t, err.Error(), "DETECTION_FAILED")
	assert.Contains(t, err.Error(), "index out of range")
}

func TestEngineError_Unwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := NewStorageError("record_resolution", inner)
	assert.ErrorIs(t, err, inner)

	wrapped := fmt.Errorf("run aborted: %w", err)
	var ee *EngineError
	require.True(t, errors.As(wrapped, &ee))
	assert.Equal(t, CodeStorageError, ee.Code)
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"detection error", NewDetectionError("team", errors.New("boom")), CodeDetectionFailed},
		{"strategy error", NewStrategyError("day_shift", "c1", errors.New("boom")), CodeStrategyFailed},
		{"storage error", NewStorageError("get_success_rate", errors.New("boom")), CodeStorageError},
		{"config error", NewConfigError("history_backend", "unknown value"), CodeConfigInvalid},
		{"backend error", NewBackendError("etcd"), CodeUnsupportedBackend},
		{"wrapped engine error", fmt.Errorf("outer: %w", NewScheduleError(errors.New("boom"))), CodeScheduleInvalid},
		{"foreign error", errors.New("plain"), Code("")},
		{"nil-ish foreign", fmt.Errorf("plain wrap: %w", errors.New("x")), Code("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CodeOf(tt.err))
		})
	}
}

func TestClassification(t *testing.T) {
	detection := NewDetectionError("policy", errors.New("boom"))
	strategy := NewStrategyError("opponent_swap", "c1", errors.New("boom"))
	storage := NewStorageError("record", errors.New("boom"))

	assert.True(t, IsDetectionFailure(detection))
	assert.False(t, IsDetectionFailure(strategy))

	assert.True(t, IsRecoverable(strategy))
	assert.True(t, IsRecoverable(storage))
	assert.False(t, IsRecoverable(detection))
	assert.False(t, IsRecoverable(errors.New("plain")))
}
