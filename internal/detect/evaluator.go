// Package detect scans a schedule against its context and reports every
// rule violation it finds. Each rule lives in its own evaluator; the
// detector runs them in a fixed phase order and merges their findings
// into one deduplicated, severity-sorted list.
package detect

import (
	"context"

	"gridline-schedule-engine/pkg/types"
)

// RuleEvaluator is one detection phase. Evaluators must be side-effect
// free and deterministic: identical inputs yield identical findings in
// identical order.
type RuleEvaluator interface {
	// Name identifies the phase in logs and error reports.
	Name() string
	// Evaluate scans the schedule and returns the conflicts it finds.
	// An error aborts the whole detection run.
	Evaluate(ctx context.Context, schedule *types.Schedule, sctx *types.ScheduleContext) ([]types.Conflict, error)
}

// Phase names, in the order the default detector runs them.
const (
	PhasePolicy       = "policy"
	PhaseVenue        = "venue"
	PhaseTeam         = "team"
	PhaseTravel       = "travel"
	PhaseResource     = "resource"
	PhaseVenueSharing = "venue_sharing"
	PhaseMedia        = "media"
	PhaseCascade      = "cascade"
)

// teamLabel resolves a team ID to its display name, falling back to the
// ID when the context has no entry.
func teamLabel(sctx *types.ScheduleContext, teamID string) string {
	if t, ok := sctx.Team(teamID); ok && t.Name != "" {
		return t.Name
	}
	return teamID
}

// venueLabel resolves a venue ID to its display name, falling back to
// the ID when the context has no entry.
func venueLabel(sctx *types.ScheduleContext, venueID string) string {
	if v, ok := sctx.Venue(venueID); ok && v.Name != "" {
		return v.Name
	}
	return venueID
}
