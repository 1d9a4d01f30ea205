// Package config loads engine configuration from defaults, an optional
// .env file, and environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"gridline-schedule-engine/pkg/types"
)

// Config represents the engine configuration
type Config struct {
	Engine  EngineConfig  `json:"engine"`
	History HistoryConfig `json:"history"`
	Report  ReportConfig  `json:"report"`
	Logging LoggingConfig `json:"logging"`
}

// EngineConfig tunes detection and resolution behavior.
type EngineConfig struct {
	MaxResolutionAttemptsPerConflict int  `json:"max_resolution_attempts_per_conflict"`
	LearningEnabled                  bool `json:"learning_enabled"`
	PrioritizeMinimalChanges         bool `json:"prioritize_minimal_changes"`
	PreserveHighPriorityGames        bool `json:"preserve_high_priority_games"`
	EnableCascadingDetection         bool `json:"enable_cascading_detection"`
	EnableSeverityScoring            bool `json:"enable_severity_scoring"`
	DomainSpecificRulesEnabled       bool `json:"domain_specific_rules_enabled"`

	// PolicyWindowDays bounds how far the restricted-day resolver
	// searches around the original date for a replacement day.
	PolicyWindowDays int `json:"policy_window_days"`
}

// HistoryConfig selects and tunes the resolution history backend.
type HistoryConfig struct {
	// Backend is one of memory, sqlite, postgres, redis.
	Backend string `json:"backend"`

	SQLitePath string         `json:"sqlite_path"`
	Postgres   PostgresConfig `json:"postgres"`
	Redis      RedisConfig    `json:"redis"`

	RetryAttempts  int `json:"retry_attempts"`
	RetryBackoffMs int `json:"retry_backoff_ms"`

	// NeutralSuccessRate is the prior returned for strategies with no
	// recorded outcomes yet.
	NeutralSuccessRate float64 `json:"neutral_success_rate"`
}

// PostgresConfig represents PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"-"` // Never serialize credentials
	Database string `json:"database"`
	SSLMode  string `json:"ssl_mode"`
}

// DSN builds a lib/pq connection string.
func (p *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// RedisConfig represents Redis connection settings
type RedisConfig struct {
	Addr      string `json:"addr"`
	Password  string `json:"-"` // Never serialize credentials
	DB        int    `json:"db"`
	KeyPrefix string `json:"key_prefix"`
}

// ReportConfig picks how resolution reports are rendered by default.
type ReportConfig struct {
	// Format is one of console, markdown, html, json.
	Format string `json:"format"`
	// OutputDir, when set, is where reports land unless the caller
	// names an explicit output file.
	OutputDir string `json:"output_dir"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Backend names accepted by HistoryConfig.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Report formats accepted by ReportConfig.
const (
	FormatConsole  = "console"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatJSON     = "json"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxResolutionAttemptsPerConflict: 3,
			LearningEnabled:                  true,
			PrioritizeMinimalChanges:         true,
			PreserveHighPriorityGames:        true,
			EnableCascadingDetection:         true,
			EnableSeverityScoring:            true,
			DomainSpecificRulesEnabled:       true,
			PolicyWindowDays:                 3,
		},
		History: HistoryConfig{
			Backend:    BackendMemory,
			SQLitePath: "./data/history.db",
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "gridline",
				Database: "gridline_history",
				SSLMode:  "disable",
			},
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				KeyPrefix: "gridline:history",
			},
			RetryAttempts:      3,
			RetryBackoffMs:     100,
			NeutralSuccessRate: 0.0,
		},
		Report: ReportConfig{
			Format: FormatConsole,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig loads configuration from environment variables and defaults
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := DefaultConfig()
	loadFromEnv(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(config *Config) {
	loadEngineConfig(config)
	loadHistoryConfig(config)
	loadReportConfig(config)
	loadLoggingConfig(config)
}

func loadEngineConfig(config *Config) {
	setInt(&config.Engine.MaxResolutionAttemptsPerConflict, "GRIDLINE_MAX_ATTEMPTS_PER_CONFLICT")
	setBool(&config.Engine.LearningEnabled, "GRIDLINE_LEARNING_ENABLED")
	setBool(&config.Engine.PrioritizeMinimalChanges, "GRIDLINE_PRIORITIZE_MINIMAL_CHANGES")
	setBool(&config.Engine.PreserveHighPriorityGames, "GRIDLINE_PRESERVE_HIGH_PRIORITY_GAMES")
	setBool(&config.Engine.EnableCascadingDetection, "GRIDLINE_ENABLE_CASCADING_DETECTION")
	setBool(&config.Engine.EnableSeverityScoring, "GRIDLINE_ENABLE_SEVERITY_SCORING")
	setBool(&config.Engine.DomainSpecificRulesEnabled, "GRIDLINE_DOMAIN_RULES_ENABLED")
	setInt(&config.Engine.PolicyWindowDays, "GRIDLINE_POLICY_WINDOW_DAYS")
}

func loadHistoryConfig(config *Config) {
	setString(&config.History.Backend, "GRIDLINE_HISTORY_BACKEND")
	setString(&config.History.SQLitePath, "GRIDLINE_HISTORY_SQLITE_PATH")

	setString(&config.History.Postgres.Host, "GRIDLINE_POSTGRES_HOST")
	setInt(&config.History.Postgres.Port, "GRIDLINE_POSTGRES_PORT")
	setString(&config.History.Postgres.User, "GRIDLINE_POSTGRES_USER")
	setString(&config.History.Postgres.Password, "GRIDLINE_POSTGRES_PASSWORD")
	setString(&config.History.Postgres.Database, "GRIDLINE_POSTGRES_DATABASE")
	setString(&config.History.Postgres.SSLMode, "GRIDLINE_POSTGRES_SSLMODE")

	setString(&config.History.Redis.Addr, "GRIDLINE_REDIS_ADDR")
	setString(&config.History.Redis.Password, "GRIDLINE_REDIS_PASSWORD")
	setInt(&config.History.Redis.DB, "GRIDLINE_REDIS_DB")
	setString(&config.History.Redis.KeyPrefix, "GRIDLINE_REDIS_KEY_PREFIX")

	setInt(&config.History.RetryAttempts, "GRIDLINE_HISTORY_RETRY_ATTEMPTS")
	setInt(&config.History.RetryBackoffMs, "GRIDLINE_HISTORY_RETRY_BACKOFF_MS")
	setFloat(&config.History.NeutralSuccessRate, "GRIDLINE_NEUTRAL_SUCCESS_RATE")
}

func loadReportConfig(config *Config) {
	setString(&config.Report.Format, "GRIDLINE_REPORT_FORMAT")
	setString(&config.Report.OutputDir, "GRIDLINE_REPORT_OUTPUT_DIR")
}

func loadLoggingConfig(config *Config) {
	setString(&config.Logging.Level, "GRIDLINE_LOG_LEVEL")
	setString(&config.Logging.Format, "GRIDLINE_LOG_FORMAT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Engine.MaxResolutionAttemptsPerConflict < 0 {
		return fmt.Errorf("max resolution attempts cannot be negative")
	}
	if c.Engine.PolicyWindowDays <= 0 {
		return fmt.Errorf("policy window must be positive")
	}

	switch c.History.Backend {
	case BackendMemory, BackendSQLite, BackendPostgres, BackendRedis:
	default:
		return fmt.Errorf("unknown history backend: %s", c.History.Backend)
	}
	if c.History.Backend == BackendSQLite && c.History.SQLitePath == "" {
		return fmt.Errorf("sqlite history backend requires a database path")
	}
	if c.History.Backend == BackendPostgres && c.History.Postgres.Database == "" {
		return fmt.Errorf("postgres history backend requires a database name")
	}
	if c.History.Backend == BackendRedis && c.History.Redis.Addr == "" {
		return fmt.Errorf("redis history backend requires an address")
	}
	if c.History.RetryAttempts < 0 {
		return fmt.Errorf("history retry attempts cannot be negative")
	}
	if c.History.NeutralSuccessRate < 0 || c.History.NeutralSuccessRate > 1 {
		return fmt.Errorf("neutral success rate must be between 0 and 1")
	}

	switch c.Report.Format {
	case FormatConsole, FormatMarkdown, FormatHTML, FormatJSON:
	default:
		return fmt.Errorf("unknown report format: %s", c.Report.Format)
	}

	return nil
}

// ResolverOptions maps the engine configuration onto per-run options.
func (c *Config) ResolverOptions() types.ResolverOptions {
	return types.ResolverOptions{
		MaxResolutionAttemptsPerConflict: c.Engine.MaxResolutionAttemptsPerConflict,
		LearningEnabled:                  c.Engine.LearningEnabled,
		PrioritizeMinimalChanges:         c.Engine.PrioritizeMinimalChanges,
		PreserveHighPriorityGames:        c.Engine.PreserveHighPriorityGames,
		EnableCascadingDetection:         c.Engine.EnableCascadingDetection,
		EnableSeverityScoring:            c.Engine.EnableSeverityScoring,
		DomainSpecificRulesEnabled:       c.Engine.DomainSpecificRulesEnabled,
	}
}
