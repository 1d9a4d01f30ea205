package detect

import (
	"context"

	"gridline-schedule-engine/pkg/types"
)

// CascadeEvaluator is the hook for second-order analysis: conflicts that
// a naive fix of another violation would itself create. The semantics of
// that analysis are not yet specified, so the default implementation
// reports nothing; the phase exists so an implementation can plug in
// without changing the detector.
type CascadeEvaluator struct{}

// NewCascadeEvaluator creates the cascade phase.
func NewCascadeEvaluator() *CascadeEvaluator {
	return &CascadeEvaluator{}
}

func (e *CascadeEvaluator) Name() string { return PhaseCascade }

func (e *CascadeEvaluator) Evaluate(_ context.Context, _ *types.Schedule, _ *types.ScheduleContext) ([]types.Conflict, error) {
	return nil, nil
}
