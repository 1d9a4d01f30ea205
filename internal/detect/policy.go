package detect

import (
	"context"
	"fmt"
	"math"
	"time"

	"gridline-schedule-engine/internal/geo"
	"gridline-schedule-engine/pkg/types"
)

// PolicyEvaluator enforces hard institutional rules: a restricted team
// must neither play nor, when the restriction says so, travel on its
// restricted weekday. Runs first; its findings are always CRITICAL.
type PolicyEvaluator struct{}

// NewPolicyEvaluator creates the policy phase.
func NewPolicyEvaluator() *PolicyEvaluator {
	return &PolicyEvaluator{}
}

func (e *PolicyEvaluator) Name() string { return PhasePolicy }

func (e *PolicyEvaluator) Evaluate(_ context.Context, schedule *types.Schedule, sctx *types.ScheduleContext) ([]types.Conflict, error) {
	var conflicts []types.Conflict

	for _, g := range schedule.Games {
		for _, teamID := range g.Teams() {
			for _, r := range sctx.RestrictionsFor(teamID) {
				if g.Date.UTC().Weekday() == r.Weekday {
					conflicts = append(conflicts, e.playConflict(g, teamID, r, sctx))
					continue
				}
				if r.NoTravel {
					if c, ok := e.travelConflict(g, teamID, r, sctx); ok {
						conflicts = append(conflicts, c)
					}
				}
			}
		}
	}

	return conflicts, nil
}

func (e *PolicyEvaluator) playConflict(g types.Game, teamID string, r types.PolicyRestriction, sctx *types.ScheduleContext) types.Conflict {
	c := types.NewConflict(types.ConflictTypeSundayPolicy, types.SeverityCritical, g.Date,
		fmt.Sprintf("%s is scheduled to play on %s, a restricted day", teamLabel(sctx, teamID), r.Weekday))
	c.GameIDs = []string{g.ID}
	c.TeamIDs = []string{teamID}
	c.VenueIDs = []string{g.VenueID}
	c.RecommendedActions = []string{"move the game off the restricted day"}
	c.Metadata = map[string]any{"restricted_weekday": r.Weekday.String()}
	if r.Reason != "" {
		c.Metadata["reason"] = r.Reason
	}
	c.RefreshID()
	return *c
}

// travelConflict flags away games whose estimated departure falls on the
// restricted day even though the game itself does not.
func (e *PolicyEvaluator) travelConflict(g types.Game, teamID string, r types.PolicyRestriction, sctx *types.ScheduleContext) (types.Conflict, bool) {
	team, ok := sctx.Team(teamID)
	if !ok || team.HomeVenueID == "" || team.HomeVenueID == g.VenueID {
		return types.Conflict{}, false
	}
	home, ok := sctx.Venue(team.HomeVenueID)
	if !ok {
		return types.Conflict{}, false
	}
	away, ok := sctx.Venue(g.VenueID)
	if !ok {
		return types.Conflict{}, false
	}

	distance := geo.Distance(home, away)
	if distance <= 0 {
		return types.Conflict{}, false
	}

	buffer := sctx.RulesFor(g.Sport).TravelBufferHours
	hours := geo.TravelHours(distance) + float64(buffer)
	departure := g.StartAt().Add(-time.Duration(hours * float64(time.Hour)))
	if departure.Weekday() != r.Weekday {
		return types.Conflict{}, false
	}

	c := types.NewConflict(types.ConflictTypeSundayPolicy, types.SeverityCritical, g.Date,
		fmt.Sprintf("%s would need to travel on %s, a restricted day, to reach %s",
			teamLabel(sctx, teamID), r.Weekday, venueLabel(sctx, g.VenueID)))
	c.GameIDs = []string{g.ID}
	c.TeamIDs = []string{teamID}
	c.VenueIDs = []string{g.VenueID}
	c.RecommendedActions = []string{"move the game off the restricted day", "schedule departure after the restricted day"}
	c.Metadata = map[string]any{
		"restricted_weekday": r.Weekday.String(),
		"distance_miles":     round1(distance),
		"travel_hours":       round1(hours),
	}
	c.RefreshID()
	return *c, true
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
