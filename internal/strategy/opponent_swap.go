package strategy

import (
	"context"
	"fmt"
	"sort"

	"gridline-schedule-engine/pkg/types"
)

// OpponentSwap relieves a same-day double-booking by trading away
// opponents with a game on another date: the overbooked team moves to
// the partner game's day and the partner's away side takes its place.
// Home fixtures stay put, so only games where the overbooked team is
// the away side are swappable.
type OpponentSwap struct{}

func NewOpponentSwap() *OpponentSwap { return &OpponentSwap{} }

func (s *OpponentSwap) Name() string { return NameOpponentSwap }

func (s *OpponentSwap) SupportedTypes() []types.ConflictType {
	return []types.ConflictType{types.ConflictTypeTeam}
}

func (s *OpponentSwap) Resolve(_ context.Context, req *Request) (*Outcome, error) {
	if len(req.Conflict.TeamIDs) == 0 {
		return failure("conflict names no team to relieve"), nil
	}
	team := req.Conflict.TeamIDs[0]

	clone := req.Schedule.Clone()
	games, ok := conflictGames(clone, req.Conflict)
	if !ok {
		return failure("conflict references games missing from the schedule"), nil
	}

	movers := s.awayFixtures(games, team, req.Options.PreserveHighPriorityGames)
	if len(movers) == 0 {
		return failure(fmt.Sprintf("team %s is the home side in every double-booked game", team)), nil
	}

	partners := s.partnerOrder(clone)
	for _, mover := range movers {
		for _, partner := range partners {
			if !s.swappable(req, clone, team, mover, partner) {
				continue
			}

			other := partner.AwayTeamID
			changes := []types.ScheduleChange{
				{GameID: mover.ID, Field: "away_team", OldValue: team, NewValue: other},
				{GameID: partner.ID, Field: "away_team", OldValue: other, NewValue: team},
			}
			mover.AwayTeamID = other
			partner.AwayTeamID = team
			notes := fmt.Sprintf("swapped away teams %s and %s between games %s and %s", team, other, mover.ID, partner.ID)
			return resolved(req, s.Name(), clone, notes, changes...), nil
		}
	}

	return failure(fmt.Sprintf("no swap partner clears the double-booking for team %s", team)), nil
}

// awayFixtures lists the conflicted games the team could leave, latest
// first; protected games are skipped when preservation is on.
func (s *OpponentSwap) awayFixtures(games []*types.Game, team string, preserve bool) []*types.Game {
	var movers []*types.Game
	for i := len(games) - 1; i >= 0; i-- {
		g := games[i]
		if g.AwayTeamID != team {
			continue
		}
		if preserve && g.Type == types.GameTypeChampionship {
			continue
		}
		movers = append(movers, g)
	}
	return movers
}

func (s *OpponentSwap) partnerOrder(clone *types.Schedule) []*types.Game {
	partners := make([]*types.Game, 0, len(clone.Games))
	for i := range clone.Games {
		partners = append(partners, &clone.Games[i])
	}
	sort.Slice(partners, func(i, j int) bool {
		if !partners[i].StartAt().Equal(partners[j].StartAt()) {
			return partners[i].StartAt().Before(partners[j].StartAt())
		}
		return partners[i].ID < partners[j].ID
	})
	return partners
}

func (s *OpponentSwap) swappable(req *Request, clone *types.Schedule, team string, mover, partner *types.Game) bool {
	if partner.ID == mover.ID || skipID(partner.ID, req.Conflict.GameIDs) {
		return false
	}
	if partner.Sport != mover.Sport {
		return false
	}
	if fmtDay(partner.Date) == fmtDay(mover.Date) {
		return false
	}
	if partner.InvolvesTeam(team) || partner.InvolvesTeam(mover.HomeTeamID) {
		return false
	}
	if mover.InvolvesTeam(partner.AwayTeamID) || mover.InvolvesTeam(partner.HomeTeamID) {
		return false
	}
	if req.Options.PreserveHighPriorityGames && partner.Type == types.GameTypeChampionship {
		return false
	}

	other := partner.AwayTeamID
	// Neither team may end up double-booked or on a restricted day.
	if teamPlaysOn(clone, other, mover.Date, partner.ID) {
		return false
	}
	if teamPlaysOn(clone, team, partner.Date, mover.ID) {
		return false
	}
	if teamDayRestricted(req.Context, other, mover.Date) {
		return false
	}
	if teamDayRestricted(req.Context, team, partner.Date) {
		return false
	}

	// Both relocated teams must keep their rest and travel gaps.
	moverProbe := *mover
	moverProbe.AwayTeamID = other
	if !teamGapsOK(clone, req.Context, other, &moverProbe, partner.ID) {
		return false
	}
	partnerProbe := *partner
	partnerProbe.AwayTeamID = team
	return teamGapsOK(clone, req.Context, team, &partnerProbe, mover.ID)
}
