package strategy

import (
	"context"
	"fmt"

	"gridline-schedule-engine/pkg/types"
)

// maxDayShiftDays bounds how far a shift may move a game.
const maxDayShiftDays = 7

// DayShift moves one conflicted game to a nearby day that leaves both
// teams clear: no restricted weekday, no double-booking, no rest or
// travel violation, and a free venue.
type DayShift struct{}

func NewDayShift() *DayShift { return &DayShift{} }

func (s *DayShift) Name() string { return NameDayShift }

func (s *DayShift) SupportedTypes() []types.ConflictType {
	return []types.ConflictType{
		types.ConflictTypeVenue,
		types.ConflictTypeTeam,
		types.ConflictTypeTravel,
		types.ConflictTypeRest,
	}
}

func (s *DayShift) Resolve(_ context.Context, req *Request) (*Outcome, error) {
	clone := req.Schedule.Clone()
	games, ok := conflictGames(clone, req.Conflict)
	if !ok {
		return failure("conflict references games missing from the schedule"), nil
	}

	mover := chooseMover(games, req.Options.PreserveHighPriorityGames)
	for _, off := range shiftOffsets(maxDayShiftDays, req.Options.PrioritizeMinimalChanges) {
		target := mover.Date.AddDate(0, 0, off)
		if !placementOK(clone, req.Context, mover, target) {
			continue
		}

		change := dateChange(mover, target)
		mover.Date = target
		notes := fmt.Sprintf("moved game %s from %s to %s", mover.ID, change.OldValue, change.NewValue)
		return resolved(req, s.Name(), clone, notes, change), nil
	}

	return failure(fmt.Sprintf("no viable day within %d days of game %s", maxDayShiftDays, mover.ID)), nil
}
