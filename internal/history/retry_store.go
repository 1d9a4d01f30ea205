package history

import (
	"context"
	"time"

	"gridline-schedule-engine/internal/logging"
	"gridline-schedule-engine/internal/retry"
	"gridline-schedule-engine/pkg/types"
)

// RetryStore wraps a Store with bounded retries for transient backend
// failures. Learning is advisory, so a sample lost after exhausted
// retries is logged rather than escalated into the resolution result.
type RetryStore struct {
	inner   Store
	retrier *retry.Retrier
	logger  logging.Logger
}

// NewRetryStore wraps the store. attempts <= 0 picks the default.
func NewRetryStore(inner Store, attempts, backoffMs int, logger logging.Logger) *RetryStore {
	cfg := retry.DefaultConfig()
	if attempts > 0 {
		cfg.MaxAttempts = attempts
	}
	if backoffMs > 0 {
		cfg.InitialDelay = time.Duration(backoffMs) * time.Millisecond
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &RetryStore{
		inner:   inner,
		retrier: retry.New(cfg),
		logger:  logger.WithComponent("history"),
	}
}

// RecordResolution retries transient write failures.
func (s *RetryStore) RecordResolution(ctx context.Context, record types.ResolutionHistoryRecord) error {
	result := s.retrier.Do(ctx, func(ctx context.Context) error {
		return s.inner.RecordResolution(ctx, record)
	})
	if result.Err != nil {
		s.logger.Warn("history write failed after retries",
			"strategy", record.Strategy,
			"conflict_type", string(record.ConflictType),
			"attempts", result.Attempts,
			"error", result.Err.Error())
		return result.Err
	}
	if result.Attempts > 1 {
		s.logger.Debug("history write recovered after retry", "attempts", result.Attempts)
	}
	return nil
}

// GetSuccessRate retries transient read failures.
func (s *RetryStore) GetSuccessRate(ctx context.Context, strategy string, conflictType types.ConflictType) (float64, error) {
	var out float64
	result := s.retrier.Do(ctx, func(ctx context.Context) error {
		r, err := s.inner.GetSuccessRate(ctx, strategy, conflictType)
		if err != nil {
			return err
		}
		out = r
		return nil
	})
	if result.Err != nil {
		return 0, result.Err
	}
	return out, nil
}

// Close closes the wrapped store.
func (s *RetryStore) Close() error {
	return s.inner.Close()
}
