package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // sqlite driver

	engerrors "gridline-schedule-engine/internal/errors"
	"gridline-schedule-engine/pkg/types"
)

// SQLiteStore persists outcomes in a local SQLite file. Counters live in
// strategy_outcomes; every sample is also appended to resolution_history
// for auditing.
type SQLiteStore struct {
	db    *sql.DB
	prior float64
}

// NewSQLiteStore opens (and creates if needed) the history database at
// the given path.
func NewSQLiteStore(path string, prior float64) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_sync=NORMAL&_cache_size=10000")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db, prior: prior}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS strategy_outcomes (
		strategy TEXT NOT NULL,
		conflict_type TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		successes INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (strategy, conflict_type)
	);

	CREATE TABLE IF NOT EXISTS resolution_history (
		id TEXT PRIMARY KEY,
		conflict_type TEXT NOT NULL,
		strategy TEXT NOT NULL,
		success INTEGER NOT NULL,
		recorded_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_resolution_history_pair ON resolution_history(strategy, conflict_type);
	CREATE INDEX IF NOT EXISTS idx_resolution_history_recorded_at ON resolution_history(recorded_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RecordResolution appends the sample and bumps the pair's counters in
// one transaction.
func (s *SQLiteStore) RecordResolution(ctx context.Context, record types.ResolutionHistoryRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return engerrors.NewStorageError("record_resolution", err)
	}
	defer func() { _ = tx.Rollback() }()

	success := 0
	if record.Success {
		success = 1
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO resolution_history (id, conflict_type, strategy, success, recorded_at)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), string(record.ConflictType), record.Strategy, success, record.RecordedAt.UTC())
	if err != nil {
		return engerrors.NewStorageError("record_resolution", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO strategy_outcomes (strategy, conflict_type, attempts, successes, updated_at)
		 VALUES (?, ?, 1, ?, ?)
		 ON CONFLICT(strategy, conflict_type) DO UPDATE SET
			attempts = attempts + 1,
			successes = successes + excluded.successes,
			updated_at = excluded.updated_at`,
		record.Strategy, string(record.ConflictType), success, record.RecordedAt.UTC())
	if err != nil {
		return engerrors.NewStorageError("record_resolution", err)
	}

	if err := tx.Commit(); err != nil {
		return engerrors.NewStorageError("record_resolution", err)
	}
	return nil
}

// GetSuccessRate reads the pair's counters.
func (s *SQLiteStore) GetSuccessRate(ctx context.Context, strategy string, conflictType types.ConflictType) (float64, error) {
	var attempts, successes int64
	err := s.db.QueryRowContext(ctx,
		`SELECT attempts, successes FROM strategy_outcomes WHERE strategy = ? AND conflict_type = ?`,
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
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
