package detect

import (
	"context"
	"fmt"

	"gridline-schedule-engine/pkg/types"
)

// TeamEvaluator flags same-day double-bookings and insufficient rest
// between a team's consecutive games. Rest minimums come from the
// per-sport rule table; sports without an entry skip the rest check.
type TeamEvaluator struct{}

// NewTeamEvaluator creates the team phase.
func NewTeamEvaluator() *TeamEvaluator {
	return &TeamEvaluator{}
}

func (e *TeamEvaluator) Name() string { return PhaseTeam }

func (e *TeamEvaluator) Evaluate(_ context.Context, schedule *types.Schedule, sctx *types.ScheduleContext) ([]types.Conflict, error) {
	var conflicts []types.Conflict

	for _, slate := range teamSlates(schedule) {
		conflicts = append(conflicts, e.doubleBookings(slate, sctx)...)
		conflicts = append(conflicts, e.restViolations(slate, sctx)...)
	}

	return conflicts, nil
}

func (e *TeamEvaluator) doubleBookings(slate teamSlate, sctx *types.ScheduleContext) []types.Conflict {
	var conflicts []types.Conflict

	for _, group := range groupByDay(slate.Games) {
		if len(group.Games) < 2 {
			continue
		}

		gameIDs := make([]string, 0, len(group.Games))
		venueIDs := make([]string, 0, len(group.Games))
		for _, g := range group.Games {
			gameIDs = append(gameIDs, g.ID)
			venueIDs = append(venueIDs, g.VenueID)
		}

		c := types.NewConflict(types.ConflictTypeTeam, types.SeverityCritical, group.Games[0].Date,
			fmt.Sprintf("%s is booked for %d games on %s",
				teamLabel(sctx, slate.TeamID), len(group.Games), group.Day))
		c.GameIDs = gameIDs
		c.TeamIDs = []string{slate.TeamID}
		c.VenueIDs = sortedUnion(venueIDs)
		c.RecommendedActions = []string{
			"shift one game to another day",
			"swap opponents to separate the bookings",
		}
		c.RefreshID()
		conflicts = append(conflicts, *c)
	}

	return conflicts
}

func (e *TeamEvaluator) restViolations(slate teamSlate, sctx *types.ScheduleContext) []types.Conflict {
	var conflicts []types.Conflict

	for i := 1; i < len(slate.Games); i++ {
		prev, next := slate.Games[i-1], slate.Games[i]
		if dayKey(prev.Date) == dayKey(next.Date) {
			// Same-day pairs are already reported as double-bookings.
			continue
		}

		minRest := sctx.RulesFor(next.Sport).MinimumRestHours
		if minRest <= 0 {
			continue
		}

		gap := next.StartAt().Sub(prev.EndAt()).Hours()
		if gap >= float64(minRest) {
			continue
		}

		severity := types.SeverityMedium
		if gap < float64(minRest)/2 {
			severity = types.SeverityHigh
		}

		c := types.NewConflict(types.ConflictTypeRest, severity, next.Date,
			fmt.Sprintf("%s has %.1f hours of rest between games %s and %s, minimum is %d",
				teamLabel(sctx, slate.TeamID), gap, prev.ID, next.ID, minRest))
		c.GameIDs = []string{prev.ID, next.ID}
		c.TeamIDs = []string{slate.TeamID}
		c.VenueIDs = sortedUnion([]string{prev.VenueID, next.VenueID})
		c.PlayerWelfare = true
		c.RecommendedActions = []string{"shift the second game to a later day"}
		c.Metadata = map[string]any{
			"rest_hours":    round1(gap),
			"minimum_hours": minRest,
		}
		c.RefreshID()
		conflicts = append(conflicts, *c)
	}

	return conflicts
}
