package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // postgres driver

	engerrors "gridline-schedule-engine/internal/errors"
	"gridline-schedule-engine/pkg/types"
)

// PostgresStore persists outcomes in PostgreSQL for deployments where
// several engine instances share one learning corpus.
type PostgresStore struct {
	db    *sql.DB
	prior float64
}

// NewPostgresStore connects to PostgreSQL and ensures the schema exists.
func NewPostgresStore(dsn string, prior float64) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	store := &PostgresStore{db: db, prior: prior}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS strategy_outcomes (
		strategy TEXT NOT NULL,
		conflict_type TEXT NOT NULL,
		attempts BIGINT NOT NULL DEFAULT 0,
		successes BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (strategy, conflict_type)
	);

	CREATE TABLE IF NOT EXISTS resolution_history (
		id TEXT PRIMARY KEY,
		conflict_type TEXT NOT NULL,
		strategy TEXT NOT NULL,
		success BOOLEAN NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_resolution_history_pair ON resolution_history(strategy, conflict_type);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// RecordResolution appends the sample and bumps the pair's counters in
// one transaction. The row-level upsert keeps concurrent engine
// instances from losing increments.
func (s *PostgresStore) RecordResolution(ctx context.Context, record types.ResolutionHistoryRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return engerrors.NewStorageError("record_resolution", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO resolution_history (id, conflict_type, strategy, success, recorded_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), string(record.ConflictType), record.Strategy, record.Success, record.RecordedAt.UTC())
	if err != nil {
		return engerrors.NewStorageError("record_resolution", err)
	}

	successes := 0
	if record.Success {
		successes = 1
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO strategy_outcomes (strategy, conflict_type, attempts, successes, updated_at)
		 VALUES ($1, $2, 1, $3, $4)
		 ON CONFLICT (strategy, conflict_type) DO UPDATE SET
			attempts = strategy_outcomes.attempts + 1,
			successes = strategy_outcomes.successes + EXCLUDED.successes,
			updated_at = EXCLUDED.updated_at`,
		record.Strategy, string(record.ConflictType), successes, record.RecordedAt.UTC())
	if err != nil {
		return engerrors.NewStorageError("record_resolution", err)
	}

	if err := tx.Commit(); err != nil {
		return engerrors.NewStorageError("record_resolution", err)
	}
	return nil
}

// GetSuccessRate reads the pair's counters.
func (s *PostgresStore) GetSuccessRate(ctx context.Context, strategy string, conflictType types.ConflictType) (float64, error) {
	var attempts, successes int64
	err := s.db.QueryRowContext(ctx,
		`SELECT attempts, successes FROM strategy_outcomes WHERE strategy = $1 AND conflict_type = $2`,
		strategy, string(conflictType)).Scan(&attempts, &successes)
	if errors.Is(err, sql.ErrNoRows) {
		return s.prior, nil
	}
	if err != nil {
		return 0, engerrors.NewStorageError("get_success_rate", err)
	}
	return rate(successes, attempts, s.prior), nil
}

// Close closes the underlying database.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
