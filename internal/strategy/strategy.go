// Package strategy holds the repair side of the engine: general-purpose
// strategies that try to fix a detected conflict by rewriting a small
// part of the schedule, plus domain resolvers for rules where only one
// kind of fix is acceptable.
package strategy

import (
	"context"
	"time"

	"gridline-schedule-engine/pkg/types"
)

// Strategy names as recorded in resolutions and the history store.
const (
	NameVenueRescheduling    = "venue_rescheduling"
	NameDayShift             = "day_shift"
	NameGameClustering       = "game_clustering"
	NameOpponentSwap         = "opponent_swap"
	NameConstraintRelaxation = "constraint_relaxation"
	NameSundayPolicy         = "sunday_policy_shift"
)

// Request carries one conflict and the state a strategy may inspect.
// Schedule is the resolver's working copy: strategies must leave it
// untouched and hand back their own modified clone instead.
type Request struct {
	Conflict types.Conflict
	Schedule *types.Schedule
	Context  *types.ScheduleContext
	Options  types.ResolverOptions
	Now      time.Time
}

func (r *Request) at() time.Time {
	if r.Now.IsZero() {
		return time.Now().UTC()
	}
	return r.Now
}

// Outcome reports one repair attempt. ModifiedSchedule is set only on
// success; Reason explains failures in operator terms.
type Outcome struct {
	Success          bool
	Resolutions      []types.Resolution
	ModifiedSchedule *types.Schedule
	Reason           string
}

// Strategy is one repair technique. Implementations are stateless, so
// the registry hands the same instance to every run. A strategy invoked
// on a conflict type outside SupportedTypes must fail cleanly rather
// than guess.
type Strategy interface {
	Name() string
	SupportedTypes() []types.ConflictType
	Resolve(ctx context.Context, req *Request) (*Outcome, error)
}

func failure(reason string) *Outcome {
	return &Outcome{Reason: reason}
}

// resolved builds the single-resolution success outcome every schedule
// mutating strategy returns.
func resolved(req *Request, name string, clone *types.Schedule, notes string, changes ...types.ScheduleChange) *Outcome {
	res := types.NewResolution(req.Conflict.ID, name, req.at())
	if len(changes) > 0 {
		res.Changes = changes
	}
	res.Notes = notes
	return &Outcome{
		Success:          true,
		Resolutions:      []types.Resolution{*res},
		ModifiedSchedule: clone,
	}
}
