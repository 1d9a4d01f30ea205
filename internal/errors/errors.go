// Package errors defines the engine's error taxonomy. Detection failures
// are fatal to a run; strategy failures are expected and recovered by
// moving to the next candidate; storage failures are retryable.
package errors

import (
	"errors"
	"fmt"
)

// Code classifies engine errors for handling decisions.
type Code string

const (
	// CodeDetectionFailed means an evaluator failed mid-scan. The run
	// aborts: a partial conflict list is unsafe to act on.
	CodeDetectionFailed Code = "DETECTION_FAILED"
	// CodeStrategyFailed means a repair strategy errored or declined.
	// Recoverable: the resolver moves to the next candidate.
	CodeStrategyFailed Code = "STRATEGY_FAILED"
	// CodeStorageError means the history store failed an operation.
	CodeStorageError Code = "STORAGE_ERROR"
	// CodeConfigInvalid means configuration failed validation.
	CodeConfigInvalid Code = "CONFIG_INVALID"
	// CodeScheduleInvalid means the input schedule failed validation.
	CodeScheduleInvalid Code = "SCHEDULE_INVALID"
	// CodeContextInvalid means the schedule context failed validation.
	CodeContextInvalid Code = "CONTEXT_INVALID"
	// CodeReportFailed means rendering or writing a report failed.
	CodeReportFailed Code = "REPORT_FAILED"
	// CodeUnsupportedBackend means the configured history backend does
	// not name a known store.
	CodeUnsupportedBackend Code = "UNSUPPORTED_BACKEND"
)

// EngineError carries a classification code plus the component and
// operation that produced the underlying error.
type EngineError struct {
	Code      Code
	Component string
	Operation string
	Err       error
	Retryable bool
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Component, e.Operation, e.Code, e.Err)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Component, e.Operation, e.Code)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// NewDetectionError wraps an evaluator failure. Fatal to the run.
func NewDetectionError(phase string, err error) *EngineError {
	return &EngineError{
		Code:      CodeDetectionFailed,
		Component: "detector",
		Operation: phase,
		Err:       err,
	}
}

// NewStrategyError wraps a strategy failure against one conflict.
func NewStrategyError(strategy, conflictID string, err error) *EngineError {
	return &EngineError{
		Code:      CodeStrategyFailed,
		Component: "resolver",
		Operation: strategy,
		Err:       fmt.Errorf("conflict %s: %w", conflictID, err),
		Retryable: true,
	}
}

// NewStorageError wraps a history store failure.
func NewStorageError(operation string, err error) *EngineError {
	return &EngineError{
		Code:      CodeStorageError,
		Component: "history",
		Operation: operation,
		Err:       err,
		Retryable: true,
	}
}

// NewConfigError reports an invalid configuration field.
func NewConfigError(field, reason string) *EngineError {
	return &EngineError{
		Code:      CodeConfigInvalid,
		Component: "config",
		Operation: "validate",
		Err:       fmt.Errorf("%s: %s", field, reason),
	}
}

// NewScheduleError wraps schedule input validation failures.
func NewScheduleError(err error) *EngineError {
	return &EngineError{
		Code:      CodeScheduleInvalid,
		Component: "engine",
		Operation: "validate",
		Err:       err,
	}
}

// NewContextError wraps schedule-context validation failures.
func NewContextError(err error) *EngineError {
	return &EngineError{
		Code:      CodeContextInvalid,
		Component: "engine",
		Operation: "validate",
		Err:       err,
	}
}

// NewReportError wraps report rendering failures.
func NewReportError(operation string, err error) *EngineError {
	return &EngineError{
		Code:      CodeReportFailed,
		Component: "report",
		Operation: operation,
		Err:       err,
	}
}

// NewBackendError reports a history backend name with no matching store.
func NewBackendError(backend string) *EngineError {
	return &EngineError{
		Code:      CodeUnsupportedBackend,
		Component: "history",
		Operation: "open",
		Err:       fmt.Errorf("unknown history backend: %s", backend),
	}
}

// CodeOf extracts the engine error code, or "" for foreign errors.
func CodeOf(err error) Code {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// IsDetectionFailure reports whether the error aborts a resolution run.
func IsDetectionFailure(err error) bool {
	return CodeOf(err) == CodeDetectionFailed
}

// IsRecoverable reports whether the resolver may continue after the
// error (strategy and storage failures).
func IsRecoverable(err error) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Retryable
	}
	return false
}
