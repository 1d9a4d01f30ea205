package detect

import (
	"context"
	"fmt"

	"gridline-schedule-engine/internal/geo"
	"gridline-schedule-engine/pkg/types"
)

// TravelEvaluator flags consecutive games a team cannot physically reach
// in time: the gap between games must cover the estimated trip between
// the two venues plus the sport's travel buffer.
type TravelEvaluator struct{}

// NewTravelEvaluator creates the travel phase.
func NewTravelEvaluator() *TravelEvaluator {
	return &TravelEvaluator{}
}

func (e *TravelEvaluator) Name() string { return PhaseTravel }

func (e *TravelEvaluator) Evaluate(_ context.Context, schedule *types.Schedule, sctx *types.ScheduleContext) ([]types.Conflict, error) {
	var conflicts []types.Conflict

	for _, slate := range teamSlates(schedule) {
		for i := 1; i < len(slate.Games); i++ {
			prev, next := slate.Games[i-1], slate.Games[i]
			if prev.VenueID == next.VenueID {
				continue
			}

			from, ok := sctx.Venue(prev.VenueID)
			if !ok {
				continue
			}
			to, ok := sctx.Venue(next.VenueID)
			if !ok {
				continue
			}

			distance := geo.Distance(from, to)
			if distance <= 0 {
				continue
			}

			buffer := sctx.RulesFor(next.Sport).TravelBufferHours
			required := geo.TravelHours(distance) + float64(buffer)
			available := next.StartAt().Sub(prev.EndAt()).Hours()
			if available >= required {
				continue
			}

			severity := types.SeverityMedium
			if available < required/2 {
				severity = types.SeverityHigh
			}

			c := types.NewConflict(types.ConflictTypeTravel, severity, next.Date,
				fmt.Sprintf("%s has %.1f hours to travel %.0f miles from %s to %s, needs %.1f",
					teamLabel(sctx, slate.TeamID), available, distance,
					venueLabel(sctx, prev.VenueID), venueLabel(sctx, next.VenueID), required))
			c.GameIDs = []string{prev.ID, next.ID}
			c.TeamIDs = []string{slate.TeamID}
			c.VenueIDs = sortedUnion([]string{prev.VenueID, next.VenueID})
			c.PlayerWelfare = true
			c.RecommendedActions = []string{
				"cluster away games so consecutive trips are shorter",
				"shift the second game to a later day",
			}
			c.Metadata = map[string]any{
				"distance_miles":  round1(distance),
				"required_hours":  round1(required),
				"available_hours": round1(available),
			}
			c.RefreshID()
			conflicts = append(conflicts, *c)
		}
	}

	return conflicts, nil
}
