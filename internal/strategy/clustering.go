package strategy

import (
	"context"
	"fmt"

	"gridline-schedule-engine/pkg/types"
)

// maxClusterSpanDays bounds how far from the anchor a clustered game
// may land.
const maxClusterSpanDays = 4

// GameClustering pulls one of two conflicted games next to the other so
// a punishing road pair becomes a short cluster: the mover lands on the
// first clear day adjacent to the anchor where trip, rest, and booking
// rules all hold.
type GameClustering struct{}

func NewGameClustering() *GameClustering { return &GameClustering{} }

func (s *GameClustering) Name() string { return NameGameClustering }

func (s *GameClustering) SupportedTypes() []types.ConflictType {
	return []types.ConflictType{
		types.ConflictTypeVenue,
		types.ConflictTypeTeam,
		types.ConflictTypeTravel,
		types.ConflictTypeRest,
	}
}

func (s *GameClustering) Resolve(_ context.Context, req *Request) (*Outcome, error) {
	clone := req.Schedule.Clone()
	games, ok := conflictGames(clone, req.Conflict)
	if !ok {
		return failure("conflict references games missing from the schedule"), nil
	}
	if len(games) < 2 {
		return failure("clustering needs a pair of conflicted games"), nil
	}

	anchor, mover := games[0], games[len(games)-1]
	if req.Options.PreserveHighPriorityGames && gameTypeRank[mover.Type] > gameTypeRank[anchor.Type] {
		anchor, mover = mover, anchor
	}

	// Scan outward from the anchor, away from it on the mover's side.
	direction := 1
	if mover.StartAt().Before(anchor.StartAt()) {
		direction = -1
	}

	for i := 1; i <= maxClusterSpanDays; i++ {
		target := anchor.Date.AddDate(0, 0, direction*i)
		if fmtDay(target) == fmtDay(mover.Date) {
			continue
		}
		if !placementOK(clone, req.Context, mover, target) {
			continue
		}

		change := dateChange(mover, target)
		mover.Date = target
		notes := fmt.Sprintf("clustered game %s next to game %s on %s", mover.ID, anchor.ID, change.NewValue)
		return resolved(req, s.Name(), clone, notes, change), nil
	}

	return failure(fmt.Sprintf("no clear day within %d of game %s to cluster game %s", maxClusterSpanDays, anchor.ID, mover.ID)), nil
}
