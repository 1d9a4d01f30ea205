// Package logging provides structured JSON logging with per-component
// and per-run tagging for the schedule engine.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Logger is the logging interface the engine components depend on.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
	Fatal(msg string, fields ...any)

	// WithComponent tags entries with the emitting component.
	WithComponent(component string) Logger
	// WithRunID tags entries with the resolution run they belong to.
	WithRunID(runID string) Logger
}

// Level controls which entries a logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// ParseLevel maps a level name to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "FATAL":
		return LevelFatal
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "INFO"
	}
}

// Entry is one structured log record.
type Entry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	RunID     string         `json:"run_id,omitempty"`
	Component string         `json:"component,omitempty"`
	Caller    string         `json:"caller,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

type jsonLogger struct {
	level     Level
	runID     string
	component string
	useJSON   bool
	out       io.Writer
	exit      func(int)
}

// New creates a logger writing JSON entries to stdout. Set LOG_JSON=false
// for space-separated text output.
func New(level Level) Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter creates a logger writing to the given writer. Tests use
// this to capture output.
func NewWithWriter(level Level, out io.Writer) Logger {
	useJSON := true
	if v := os.Getenv("LOG_JSON"); v == "false" || v == "0" {
		useJSON = false
	}
	return &jsonLogger{level: level, useJSON: useJSON, out: out, exit: os.Exit}
}

// NewWithFormat creates a stdout logger in the given format, "json" or
// "text". Anything unrecognized falls back to JSON.
func NewWithFormat(level Level, format string) Logger {
	l := NewWithWriter(level, os.Stdout).(*jsonLogger)
	l.useJSON = format != "text"
	return l
}

func (l *jsonLogger) WithComponent(component string) Logger {
	c := *l
	c.component = component
	return &c
}

func (l *jsonLogger) WithRunID(runID string) Logger {
	c := *l
	c.runID = runID
	return &c
}

func (l *jsonLogger) Debug(msg string, fields ...any) { l.emit(LevelDebug, msg, fields) }
func (l *jsonLogger) Info(msg string, fields ...any)  { l.emit(LevelInfo, msg, fields) }
func (l *jsonLogger) Warn(msg string, fields ...any)  { l.emit(LevelWarn, msg, fields) }
func (l *jsonLogger) Error(msg string, fields ...any) { l.emit(LevelError, msg, fields) }

func (l *jsonLogger) Fatal(msg string, fields ...any) {
	l.emit(LevelFatal, msg, fields)
	l.exit(1)
}

func (l *jsonLogger) emit(level Level, msg string, fields []any) {
	if level < l.level {
		return
	}

	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   msg,
		RunID:     l.runID,
		Component: l.component,
		Caller:    caller(),
		Fields:    pairFields(fields),
	}

	if l.useJSON {
		data, err := json.Marshal(entry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to marshal log entry: %v\n", err)
			return
		}
		fmt.Fprintln(l.out, string(data))
		return
	}

	parts := []string{entry.Timestamp, "[" + entry.Level + "]"}
	if entry.RunID != "" {
		parts = append(parts, "run:"+shortID(entry.RunID))
	}
	if entry.Component != "" {
		parts = append(parts, "component:"+entry.Component)
	}
	parts = append(parts, entry.Message)
	for k, v := range entry.Fields {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	if entry.Caller != "" {
		parts = append(parts, "("+entry.Caller+")")
	}
	fmt.Fprintln(l.out, strings.Join(parts, " "))
}

// pairFields folds variadic key/value arguments into a map. A trailing
// key without a value is kept under a positional name rather than lost.
func pairFields(fields []any) map[string]any {
	if len(fields) == 0 {
		return nil
	}
	m := make(map[string]any, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		if i+1 < len(fields) {
			m[fmt.Sprintf("%v", fields[i])] = fields[i+1]
		} else {
			m[fmt.Sprintf("field_%d", i)] = fields[i]
		}
	}
	return m
}

func caller() string {
	_, file, line, ok := runtime.Caller(3)
	if !ok {
		return ""
	}
	parts := strings.Split(file, "/")
	return fmt.Sprintf("%s:%d", parts[len(parts)-1], line)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

type ctxKey string

const runIDKey ctxKey = "run_id"

// GenerateRunID returns a fresh run identifier.
func GenerateRunID() string {
	return uuid.New().String()
}

// WithRunID stores a run ID on the context, minting one when empty.
func WithRunID(ctx context.Context, runID string) context.Context {
	if runID == "" {
		runID = GenerateRunID()
	}
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFrom extracts the run ID from a context, or "" when absent.
func RunIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

var defaultLogger = New(LevelInfo)

// SetDefault replaces the package-level logger.
func SetDefault(logger Logger) {
	defaultLogger = logger
}

// Default returns the package-level logger.
func Default() Logger {
	return defaultLogger
}
