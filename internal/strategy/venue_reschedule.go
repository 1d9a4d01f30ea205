package strategy

import (
	"context"
	"fmt"
	"sort"

	"gridline-schedule-engine/pkg/types"
)

// VenueRescheduling clears a venue collision by sliding the chosen game
// to the next free slot at the same venue, or failing that to an
// alternate free venue at the original time. For travel conflicts it
// instead tries to co-locate the second game at the first one's venue.
type VenueRescheduling struct{}

func NewVenueRescheduling() *VenueRescheduling { return &VenueRescheduling{} }

func (s *VenueRescheduling) Name() string { return NameVenueRescheduling }

func (s *VenueRescheduling) SupportedTypes() []types.ConflictType {
	return []types.ConflictType{types.ConflictTypeVenue, types.ConflictTypeTravel}
}

func (s *VenueRescheduling) Resolve(_ context.Context, req *Request) (*Outcome, error) {
	clone := req.Schedule.Clone()
	games, ok := conflictGames(clone, req.Conflict)
	if !ok {
		return failure("conflict references games missing from the schedule"), nil
	}
	if len(games) < 2 {
		return failure("venue rescheduling needs a pair of conflicted games"), nil
	}

	if req.Conflict.Type == types.ConflictTypeTravel {
		return s.colocate(req, clone, games), nil
	}

	mover := chooseMover(games, req.Options.PreserveHighPriorityGames)
	other := games[0]
	if other == mover {
		other = games[1]
	}

	if out, ok := s.slideAfter(req, clone, mover, other); ok {
		return out, nil
	}
	if out, ok := s.alternateVenue(req, clone, mover); ok {
		return out, nil
	}
	return failure(fmt.Sprintf("no free slot or alternate venue for game %s", mover.ID)), nil
}

// slideAfter pushes the mover's start to the moment the other game ends,
// provided the whole game still fits inside the same day and the venue
// stays clear.
func (s *VenueRescheduling) slideAfter(req *Request, clone *types.Schedule, mover, other *types.Game) (*Outcome, bool) {
	newStart := other.EndAt()
	if newStart.UTC().Format(dayFormat) != fmtDay(mover.Date) {
		return nil, false
	}

	probe := *mover
	probe.StartTime = newStart.UTC().Format(clockFormat)
	if probe.EndAt().UTC().Format(dayFormat) != fmtDay(probe.Date) {
		return nil, false
	}
	if venueBusy(clone, &probe) {
		return nil, false
	}
	for _, teamID := range probe.Teams() {
		if !teamGapsOK(clone, req.Context, teamID, &probe) {
			return nil, false
		}
	}

	change := types.ScheduleChange{GameID: mover.ID, Field: "start_time", OldValue: mover.StartTime, NewValue: probe.StartTime}
	mover.StartTime = probe.StartTime
	notes := fmt.Sprintf("slid game %s to %s after game %s at the same venue", mover.ID, probe.StartTime, other.ID)
	return resolved(req, s.Name(), clone, notes, change), true
}

// alternateVenue keeps the mover's date and time but relocates it to
// the first free venue, scanning venue ids in order.
func (s *VenueRescheduling) alternateVenue(req *Request, clone *types.Schedule, mover *types.Game) (*Outcome, bool) {
	venueIDs := make([]string, 0, len(req.Context.Venues))
	for id := range req.Context.Venues {
		if id != mover.VenueID {
			venueIDs = append(venueIDs, id)
		}
	}
	sort.Strings(venueIDs)

	for _, venueID := range venueIDs {
		probe := *mover
		probe.VenueID = venueID
		if venueBusy(clone, &probe) {
			continue
		}
		if !s.gapsOK(req, clone, &probe) {
			continue
		}

		change := types.ScheduleChange{GameID: mover.ID, Field: "venue", OldValue: mover.VenueID, NewValue: venueID}
		mover.VenueID = venueID
		notes := fmt.Sprintf("relocated game %s to venue %s", mover.ID, venueID)
		return resolved(req, s.Name(), clone, notes, change), true
	}
	return nil, false
}

// colocate moves the second leg of an impossible trip to the first
// leg's venue so the team stays put.
func (s *VenueRescheduling) colocate(req *Request, clone *types.Schedule, games []*types.Game) *Outcome {
	anchor, mover := games[0], games[len(games)-1]
	if req.Options.PreserveHighPriorityGames && gameTypeRank[mover.Type] > gameTypeRank[anchor.Type] {
		anchor, mover = mover, anchor
	}

	probe := *mover
	probe.VenueID = anchor.VenueID
	if venueBusy(clone, &probe) {
		return failure(fmt.Sprintf("venue %s is busy during game %s", anchor.VenueID, mover.ID))
	}
	if !s.gapsOK(req, clone, &probe) {
		return failure(fmt.Sprintf("moving game %s to venue %s breaks a rest or travel gap", mover.ID, anchor.VenueID))
	}

	change := types.ScheduleChange{GameID: mover.ID, Field: "venue", OldValue: mover.VenueID, NewValue: anchor.VenueID}
	mover.VenueID = anchor.VenueID
	notes := fmt.Sprintf("co-located game %s with game %s at venue %s", mover.ID, anchor.ID, anchor.VenueID)
	return resolved(req, s.Name(), clone, notes, change)
}

func (s *VenueRescheduling) gapsOK(req *Request, clone *types.Schedule, probe *types.Game) bool {
	for _, teamID := range probe.Teams() {
		if !teamGapsOK(clone, req.Context, teamID, probe) {
			return false
		}
	}
	return true
}
