package detect

import (
	"context"
	"fmt"

	"gridline-schedule-engine/pkg/types"
)

// VenueOverlapEvaluator flags pairs of games whose time windows overlap
// at the same venue on the same day.
type VenueOverlapEvaluator struct{}

// NewVenueOverlapEvaluator creates the venue phase.
func NewVenueOverlapEvaluator() *VenueOverlapEvaluator {
	return &VenueOverlapEvaluator{}
}

func (e *VenueOverlapEvaluator) Name() string { return PhaseVenue }

func (e *VenueOverlapEvaluator) Evaluate(_ context.Context, schedule *types.Schedule, sctx *types.ScheduleContext) ([]types.Conflict, error) {
	var conflicts []types.Conflict

	for _, bucket := range venueDayBuckets(schedule) {
		for i := 0; i < len(bucket.Games); i++ {
			for j := i + 1; j < len(bucket.Games); j++ {
				a, b := bucket.Games[i], bucket.Games[j]
				overlap := overlapMinutes(a, b)
				if overlap <= 0 {
					continue
				}
				conflicts = append(conflicts, e.conflict(a, b, overlap, sctx))
			}
		}
	}

	return conflicts, nil
}

func (e *VenueOverlapEvaluator) conflict(a, b types.Game, overlap int, sctx *types.ScheduleContext) types.Conflict {
	c := types.NewConflict(types.ConflictTypeVenue, types.SeverityHigh, a.Date,
		fmt.Sprintf("games %s and %s overlap for %d minutes at %s",
			a.ID, b.ID, overlap, venueLabel(sctx, a.VenueID)))
	c.GameIDs = []string{a.ID, b.ID}
	c.TeamIDs = sortedUnion(a.Teams(), b.Teams())
	c.VenueIDs = []string{a.VenueID}
	c.RecommendedActions = []string{
		"reschedule one game to a different time slot",
		"move one game to an alternate venue",
	}
	c.Metadata = map[string]any{"overlap_minutes": overlap}
	c.RefreshID()
	return *c
}

// overlapMinutes returns the length of the intersection of both games'
// [start, end) windows, or zero when they do not intersect.
func overlapMinutes(a, b types.Game) int {
	aStart, aEnd := a.StartAt(), a.EndAt()
	bStart, bEnd := b.StartAt(), b.EndAt()

	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start).Minutes())
}
