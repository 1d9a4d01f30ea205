package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(maxAttempts int) *Config {
	return &Config{
		MaxAttempts:     maxAttempts,
		InitialDelay:    time.Millisecond,
		MaxDelay:        5 * time.Millisecond,
		Multiplier:      2.0,
		RandomizeFactor: 0,
		RetryIf:         func(error) bool { return true },
	}
}

func TestRetrier_SucceedsAfterFailures(t *testing.T) {
	r := New(fastConfig(5))

	calls := 0
	result := r.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, result.Err)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 3, calls)
}

func TestRetrier_ExhaustsAttempts(t *testing.T) {
	r := New(fastConfig(3))

	result := r.Do(context.Background(), func(ctx context.Context) error {
		return errors.New("still broken")
	})

	require.Error(t, result.Err)
	assert.Equal(t, 3, result.Attempts)
}

func TestRetrier_StopsOnPermanentError(t *testing.T) {
	cfg := fastConfig(5)
	cfg.RetryIf = func(err error) bool { return false }
	r := New(cfg)

	calls := 0
	result := r.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("permanent")
	})

	require.Error(t, result.Err)
	assert.Equal(t, 1, calls)
}

func TestRetrier_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(fastConfig(3))
	result := r.Do(ctx, func(ctx context.Context) error {
		return errors.New("never retried")
	})

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "context cancelled")
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"locked sqlite file", errors.New("database is locked"), true},
		{"timeout uppercase", errors.New("I/O Timeout on read"), true},
		{"plain failure", errors.New("syntax error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTransient(tt.err))
		})
	}
}
