package strategy

import (
	"context"
	"fmt"
	"time"

	"gridline-schedule-engine/internal/detect"
	"gridline-schedule-engine/pkg/types"
)

// defaultPolicyWindowDays bounds the Sunday resolver's day search
// around the flagged date.
const defaultPolicyWindowDays = 3

// SundayPolicyResolver is the domain resolver for restricted-day
// conflicts. The only acceptable fix is shifting the game to a nearby
// day that is clean under every policy rule; earlier days are tried
// first so weekend games land on Saturday. Game priority never exempts
// a game from a policy move.
type SundayPolicyResolver struct {
	windowDays int
	policy     *detect.PolicyEvaluator
}

func NewSundayPolicyResolver(windowDays int) *SundayPolicyResolver {
	if windowDays <= 0 {
		windowDays = defaultPolicyWindowDays
	}
	return &SundayPolicyResolver{windowDays: windowDays, policy: detect.NewPolicyEvaluator()}
}

func (s *SundayPolicyResolver) Name() string { return NameSundayPolicy }

func (s *SundayPolicyResolver) SupportedTypes() []types.ConflictType {
	return []types.ConflictType{types.ConflictTypeSundayPolicy}
}

func (s *SundayPolicyResolver) Resolve(ctx context.Context, req *Request) (*Outcome, error) {
	if req.Conflict.Type != types.ConflictTypeSundayPolicy {
		return failure(fmt.Sprintf("%s only handles %s conflicts", s.Name(), types.ConflictTypeSundayPolicy)), nil
	}

	clone := req.Schedule.Clone()
	games, ok := conflictGames(clone, req.Conflict)
	if !ok {
		return failure("conflict references games missing from the schedule"), nil
	}
	mover := games[0]

	for _, off := range s.offsets() {
		target := mover.Date.AddDate(0, 0, off)
		if !placementOK(clone, req.Context, mover, target) {
			continue
		}
		if !s.policyClear(ctx, req.Context, mover, target) {
			continue
		}

		change := dateChange(mover, target)
		mover.Date = target
		notes := fmt.Sprintf("moved game %s off its restricted day to %s", mover.ID, change.NewValue)
		return resolved(req, s.Name(), clone, notes, change), nil
	}

	return failure(fmt.Sprintf("no policy-clean day within %d days of game %s", s.windowDays, mover.ID)), nil
}

func (s *SundayPolicyResolver) offsets() []int {
	out := make([]int, 0, s.windowDays*2)
	for d := 1; d <= s.windowDays; d++ {
		out = append(out, -d, d)
	}
	return out
}

// policyClear re-runs the policy phase against the probe alone, so a
// move cannot trade a play violation for a travel-day one.
func (s *SundayPolicyResolver) policyClear(ctx context.Context, sctx *types.ScheduleContext, mover *types.Game, target time.Time) bool {
	probe := probeOn(mover, target)
	micro := &types.Schedule{ID: "policy-probe", Games: []types.Game{probe}}
	found, err := s.policy.Evaluate(ctx, micro, sctx)
	return err == nil && len(found) == 0
}
