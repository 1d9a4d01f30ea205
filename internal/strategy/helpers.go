package strategy

import (
	"time"

	"gridline-schedule-engine/internal/geo"
	"gridline-schedule-engine/pkg/types"
)

const (
	dayFormat   = "2006-01-02"
	clockFormat = "15:04"
)

// conflictGames resolves the conflict's game ids against the clone, in
// the order the detector listed them.
func conflictGames(s *types.Schedule, c types.Conflict) ([]*types.Game, bool) {
	games := make([]*types.Game, 0, len(c.GameIDs))
	for _, id := range c.GameIDs {
		g, ok := s.GameByID(id)
		if !ok {
			return nil, false
		}
		games = append(games, g)
	}
	return games, len(games) > 0
}

var gameTypeRank = map[types.GameType]int{
	types.GameTypeExhibition:    0,
	types.GameTypeNonConference: 1,
	types.GameTypeConference:    2,
	types.GameTypeChampionship:  3,
}

// chooseMover picks which conflicted game a strategy should move: the
// one starting last, except that preserving high-priority games prefers
// moving the lowest-stakes game when stakes differ.
func chooseMover(games []*types.Game, preserve bool) *types.Game {
	mover := games[0]
	for _, g := range games[1:] {
		if preferMove(g, mover, preserve) {
			mover = g
		}
	}
	return mover
}

func preferMove(candidate, current *types.Game, preserve bool) bool {
	if preserve {
		cr, mr := gameTypeRank[candidate.Type], gameTypeRank[current.Type]
		if cr != mr {
			return cr < mr
		}
	}
	return candidate.StartAt().After(current.StartAt())
}

// probeOn is a throwaway copy of g placed on another date, used to ask
// the predicates below "what if the game were here" before mutating the
// clone for real.
func probeOn(g *types.Game, d time.Time) types.Game {
	probe := *g
	probe.Date = d
	return probe
}

// dayRestricted reports whether the probe date's weekday is a policy
// restricted day for either team in the game.
func dayRestricted(sctx *types.ScheduleContext, g *types.Game, d time.Time) bool {
	for _, teamID := range g.Teams() {
		if teamDayRestricted(sctx, teamID, d) {
			return true
		}
	}
	return false
}

func teamDayRestricted(sctx *types.ScheduleContext, teamID string, d time.Time) bool {
	wd := d.UTC().Weekday()
	for _, r := range sctx.RestrictionsFor(teamID) {
		if r.Weekday == wd {
			return true
		}
	}
	return false
}

func skipID(id string, exclude []string) bool {
	for _, e := range exclude {
		if id == e {
			return true
		}
	}
	return false
}

// teamPlaysOn reports whether teamID has a game on d other than the
// excluded ids.
func teamPlaysOn(s *types.Schedule, teamID string, d time.Time, exclude ...string) bool {
	key := d.UTC().Format(dayFormat)
	for i := range s.Games {
		g := &s.Games[i]
		if skipID(g.ID, exclude) || !g.InvolvesTeam(teamID) {
			continue
		}
		if g.Date.UTC().Format(dayFormat) == key {
			return true
		}
	}
	return false
}

// wouldDoubleBook reports whether the probe placement puts either of
// its teams in two games that day.
func wouldDoubleBook(s *types.Schedule, probe *types.Game) bool {
	for _, teamID := range probe.Teams() {
		if teamPlaysOn(s, teamID, probe.Date, probe.ID) {
			return true
		}
	}
	return false
}

// venueBusy reports whether the probe window overlaps another game at
// the same venue on the same day.
func venueBusy(s *types.Schedule, probe *types.Game) bool {
	start, end := probe.StartAt(), probe.EndAt()
	key := probe.Date.UTC().Format(dayFormat)
	for i := range s.Games {
		g := &s.Games[i]
		if g.ID == probe.ID || g.VenueID != probe.VenueID {
			continue
		}
		if g.Date.UTC().Format(dayFormat) != key {
			continue
		}
		if g.StartAt().Before(end) && start.Before(g.EndAt()) {
			return true
		}
	}
	return false
}

// teamGapsOK reports whether the probe placement keeps both the rest
// minimum and the travel requirement intact for teamID against the
// team's other games. Same-day neighbors are the double-booking check's
// problem, not this one's.
func teamGapsOK(s *types.Schedule, sctx *types.ScheduleContext, teamID string, probe *types.Game, exclude ...string) bool {
	start, end := probe.StartAt(), probe.EndAt()
	key := probe.Date.UTC().Format(dayFormat)

	for i := range s.Games {
		g := &s.Games[i]
		if g.ID == probe.ID || skipID(g.ID, exclude) || !g.InvolvesTeam(teamID) {
			continue
		}
		if g.Date.UTC().Format(dayFormat) == key {
			continue
		}

		switch {
		case !g.EndAt().After(start):
			min := sctx.RulesFor(probe.Sport).MinimumRestHours
			if min > 0 && start.Sub(g.EndAt()).Hours() < float64(min) {
				return false
			}
			if !travelOK(sctx, g, probe) {
				return false
			}
		case !end.After(g.StartAt()):
			min := sctx.RulesFor(g.Sport).MinimumRestHours
			if min > 0 && g.StartAt().Sub(end).Hours() < float64(min) {
				return false
			}
			if !travelOK(sctx, probe, g) {
				return false
			}
		default:
			// Windows overlap across midnight; never acceptable.
			return false
		}
	}
	return true
}

// placementOK bundles the checks every date move runs: season bounds,
// restricted weekdays, double-bookings, venue availability, and the
// rest and travel gaps for both teams.
func placementOK(s *types.Schedule, sctx *types.ScheduleContext, mover *types.Game, target time.Time) bool {
	if !withinSeason(s, target) || dayRestricted(sctx, mover, target) {
		return false
	}
	probe := probeOn(mover, target)
	if wouldDoubleBook(s, &probe) || venueBusy(s, &probe) {
		return false
	}
	for _, teamID := range probe.Teams() {
		if !teamGapsOK(s, sctx, teamID, &probe) {
			return false
		}
	}
	return true
}

// travelOK reports whether the gap between two games at different
// venues covers the estimated trip plus the sport's buffer. Unknown
// venues and missing coordinates disable the check, mirroring detection.
func travelOK(sctx *types.ScheduleContext, prev, next *types.Game) bool {
	if prev.VenueID == next.VenueID {
		return true
	}
	from, ok := sctx.Venue(prev.VenueID)
	if !ok {
		return true
	}
	to, ok := sctx.Venue(next.VenueID)
	if !ok {
		return true
	}

	distance := geo.Distance(from, to)
	if distance <= 0 {
		return true
	}
	required := geo.TravelHours(distance) + float64(sctx.RulesFor(next.Sport).TravelBufferHours)
	return next.StartAt().Sub(prev.EndAt()).Hours() >= required
}

// withinSeason reports whether d falls inside the schedule's season
// window; schedules without bounds accept any date.
func withinSeason(s *types.Schedule, d time.Time) bool {
	if !s.SeasonStart.IsZero() && d.Before(s.SeasonStart) {
		return false
	}
	if !s.SeasonEnd.IsZero() && d.After(s.SeasonEnd) {
		return false
	}
	return true
}

// shiftOffsets yields candidate day offsets in search order: smallest
// absolute shift first when minimal changes are preferred, otherwise a
// forward scan followed by a backward one.
func shiftOffsets(window int, minimalFirst bool) []int {
	offsets := make([]int, 0, window*2)
	if minimalFirst {
		for d := 1; d <= window; d++ {
			offsets = append(offsets, d, -d)
		}
		return offsets
	}
	for d := 1; d <= window; d++ {
		offsets = append(offsets, d)
	}
	for d := 1; d <= window; d++ {
		offsets = append(offsets, -d)
	}
	return offsets
}

func fmtDay(d time.Time) string {
	return d.UTC().Format(dayFormat)
}

func dateChange(g *types.Game, to time.Time) types.ScheduleChange {
	return types.ScheduleChange{GameID: g.ID, Field: "date", OldValue: fmtDay(g.Date), NewValue: fmtDay(to)}
}
