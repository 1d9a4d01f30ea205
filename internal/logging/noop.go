package logging

// NoOpLogger discards everything. Tests and benchmarks use it to keep
// output quiet.
type NoOpLogger struct{}

// NewNoOpLogger creates a logger that does nothing.
func NewNoOpLogger() Logger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) Debug(msg string, fields ...any) {}
func (n *NoOpLogger) Info(msg string, fields ...any)  {}
func (n *NoOpLogger) Warn(msg string, fields ...any)  {}
func (n *NoOpLogger) Error(msg string, fields ...any) {}
func (n *NoOpLogger) Fatal(msg string, fields ...any) {}

func (n *NoOpLogger) WithComponent(component string) Logger { return n }
func (n *NoOpLogger) WithRunID(runID string) Logger         { return n }
