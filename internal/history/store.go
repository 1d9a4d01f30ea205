// Package history persists strategy outcomes so the resolver can order
// candidate strategies by how often they actually worked. Backends share
// one narrow contract: record an outcome, report a success rate.
package history

import (
	"context"
	"fmt"

	"gridline-schedule-engine/pkg/types"
)

// Store is the resolution history contract. Implementations must
// tolerate concurrent increments: independent resolution runs may share
// one store.
type Store interface {
	// RecordResolution appends one outcome sample.
	RecordResolution(ctx context.Context, record types.ResolutionHistoryRecord) error
	// GetSuccessRate returns the fraction of attempts in which the
	// strategy resolved the conflict type, in [0,1]. With no recorded
	// data it returns the store's configured neutral prior.
	GetSuccessRate(ctx context.Context, strategy string, conflictType types.ConflictType) (float64, error)
	// Close releases backend resources.
	Close() error
}

// outcomeKey identifies a (strategy, conflict type) counter pair.
func outcomeKey(strategy string, conflictType types.ConflictType) string {
	return fmt.Sprintf("%s|%s", strategy, conflictType)
}

// rate computes successes/attempts, falling back to prior when there is
// no data yet.
func rate(successes, attempts int64, prior float64) float64 {
	if attempts <= 0 {
		return prior
	}
	return float64(successes) / float64(attempts)
}
