package history

import (
	"fmt"

	"gridline-schedule-engine/internal/config"
	engerrors "gridline-schedule-engine/internal/errors"
	"gridline-schedule-engine/internal/logging"
)

// Open builds the history store the configuration selects and wraps it
// with retry handling.
func Open(cfg *config.Config, logger logging.Logger) (Store, error) {
	prior := cfg.History.NeutralSuccessRate

	var (
		inner Store
		err   error
	)
	switch cfg.History.Backend {
	case config.BackendMemory:
		inner = NewMemoryStore(prior)
	case config.BackendSQLite:
		inner, err = NewSQLiteStore(cfg.History.SQLitePath, prior)
	case config.BackendPostgres:
		inner, err = NewPostgresStore(cfg.History.Postgres.DSN(), prior)
	case config.BackendRedis:
		inner, err = NewRedisStore(cfg.History.Redis, prior)
	default:
		return nil, engerrors.NewBackendError(cfg.History.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s history store: %w", cfg.History.Backend, err)
	}

	if cfg.History.Backend == config.BackendMemory {
		return inner, nil
	}
	return NewRetryStore(inner, cfg.History.RetryAttempts, cfg.History.RetryBackoffMs, logger), nil
}
