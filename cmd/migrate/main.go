// migrate prepares the resolution history store: it creates or upgrades
// the SQLite or Postgres schema the engine's learning loop writes to,
// checks that a Redis backend is reachable, and can verify that the
// prepared store answers reads.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"gridline-schedule-engine/internal/config"
	"gridline-schedule-engine/internal/history"
	"gridline-schedule-engine/internal/logging"
	"gridline-schedule-engine/pkg/types"
)

func main() {
	var (
		backend    = flag.String("backend", "", "History backend to prepare: sqlite, postgres, or redis (default from environment)")
		sqlitePath = flag.String("sqlite-path", "", "SQLite database path (overrides environment)")
		verify     = flag.Bool("verify", false, "Read a success rate after setup to prove the store answers")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if *verbose {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *backend != "" {
		cfg.History.Backend = *backend
	}
	if *sqlitePath != "" {
		cfg.History.SQLitePath = *sqlitePath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if cfg.History.Backend == config.BackendMemory {
		fmt.Println("memory backend keeps no schema; nothing to do")
		return
	}

	logger := logging.NewWithFormat(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)

	log.Printf("preparing %s history store", cfg.History.Backend)
	store, err := history.Open(cfg, logger)
	if err != nil {
		log.Fatalf("failed to prepare history store: %v", err)
	}

	switch cfg.History.Backend {
	case config.BackendSQLite:
		log.Printf("schema ready at %s", cfg.History.SQLitePath)
	case config.BackendPostgres:
		log.Printf("schema ready in database %s on %s", cfg.History.Postgres.Database, cfg.History.Postgres.Host)
	case config.BackendRedis:
		log.Printf("connection verified to %s; redis keeps plain counters, no schema to create", cfg.History.Redis.Addr)
	}

	if *verify {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		rate, err := store.GetSuccessRate(ctx, "day_shift", types.ConflictTypeTeam)
		if err != nil {
			log.Fatalf("verification read failed: %v", err)
		}
		log.Printf("verification read ok: day_shift/team success rate %.2f", rate)
	}

	if err := store.Close(); err != nil {
		log.Fatalf("failed to close history store: %v", err)
	}
}
