package detect

import (
	"context"

	"gridline-schedule-engine/pkg/types"
)

// The resource, venue-sharing, and media phases are registration points.
// Leagues carry the relevant tables in the context (ResourceBooking,
// MediaWindow, venue directories), but no league-wide rules exist for
// them yet, so the default evaluators report nothing. Custom evaluators
// plug in through detect.WithEvaluators without touching the detector.

// ResourceEvaluator is the hook for operational resource contention
// checks (officiating crews, broadcast trucks, shared equipment).
type ResourceEvaluator struct{}

// NewResourceEvaluator creates the resource phase.
func NewResourceEvaluator() *ResourceEvaluator {
	return &ResourceEvaluator{}
}

func (e *ResourceEvaluator) Name() string { return PhaseResource }

func (e *ResourceEvaluator) Evaluate(_ context.Context, _ *types.Schedule, _ *types.ScheduleContext) ([]types.Conflict, error) {
	return nil, nil
}

// VenueSharingEvaluator is the hook for co-tenant coordination checks
// at venues shared across programs or leagues.
type VenueSharingEvaluator struct{}

// NewVenueSharingEvaluator creates the venue-sharing phase.
func NewVenueSharingEvaluator() *VenueSharingEvaluator {
	return &VenueSharingEvaluator{}
}

func (e *VenueSharingEvaluator) Name() string { return PhaseVenueSharing }

func (e *VenueSharingEvaluator) Evaluate(_ context.Context, _ *types.Schedule, _ *types.ScheduleContext) ([]types.Conflict, error) {
	return nil, nil
}

// MediaEvaluator is the hook for broadcast rights window checks.
type MediaEvaluator struct{}

// NewMediaEvaluator creates the media phase.
func NewMediaEvaluator() *MediaEvaluator {
	return &MediaEvaluator{}
}

func (e *MediaEvaluator) Name() string { return PhaseMedia }

func (e *MediaEvaluator) Evaluate(_ context.Context, _ *types.Schedule, _ *types.ScheduleContext) ([]types.Conflict, error) {
	return nil, nil
}
