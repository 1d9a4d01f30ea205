package detect

import (
	"sort"
	"time"

	"gridline-schedule-engine/pkg/types"
)

// Evaluators rebuild these indexes per call. Nothing here is shared or
// cached across runs, so concurrent detections on different schedules
// never interfere.

const dayLayout = "2006-01-02"

func dayKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// venueDay groups the games at one venue on one calendar day, ordered by
// start time.
type venueDay struct {
	VenueID string
	Day     string
	Games   []types.Game
}

// venueDayBuckets indexes games by (venue, day). Buckets and the games
// inside them are sorted, so iteration order is stable.
func venueDayBuckets(s *types.Schedule) []venueDay {
	byKey := make(map[string]*venueDay)
	for _, g := range s.Games {
		key := g.VenueID + "|" + dayKey(g.Date)
		b, ok := byKey[key]
		if !ok {
			b = &venueDay{VenueID: g.VenueID, Day: dayKey(g.Date)}
			byKey[key] = b
		}
		b.Games = append(b.Games, g)
	}

	buckets := make([]venueDay, 0, len(byKey))
	for _, b := range byKey {
		sortGames(b.Games)
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].VenueID != buckets[j].VenueID {
			return buckets[i].VenueID < buckets[j].VenueID
		}
		return buckets[i].Day < buckets[j].Day
	})
	return buckets
}

// teamSlate is one team's games across the season, ordered by start time.
type teamSlate struct {
	TeamID string
	Games  []types.Game
}

// teamSlates indexes games by participating team, sorted by team ID.
func teamSlates(s *types.Schedule) []teamSlate {
	byTeam := make(map[string][]types.Game)
	for _, g := range s.Games {
		byTeam[g.HomeTeamID] = append(byTeam[g.HomeTeamID], g)
		byTeam[g.AwayTeamID] = append(byTeam[g.AwayTeamID], g)
	}

	slates := make([]teamSlate, 0, len(byTeam))
	for teamID, games := range byTeam {
		sortGames(games)
		slates = append(slates, teamSlate{TeamID: teamID, Games: games})
	}
	sort.Slice(slates, func(i, j int) bool { return slates[i].TeamID < slates[j].TeamID })
	return slates
}

// sortGames orders games by start instant, breaking ties by ID.
func sortGames(games []types.Game) {
	sort.Slice(games, func(i, j int) bool {
		si, sj := games[i].StartAt(), games[j].StartAt()
		if !si.Equal(sj) {
			return si.Before(sj)
		}
		return games[i].ID < games[j].ID
	})
}

// dayGroup is the subset of a team's games falling on one calendar day.
type dayGroup struct {
	Day   string
	Games []types.Game
}

// groupByDay splits an ordered game list into per-day groups, preserving
// order within groups.
func groupByDay(games []types.Game) []dayGroup {
	var out []dayGroup
	idx := make(map[string]int)
	for _, g := range games {
		key := dayKey(g.Date)
		i, ok := idx[key]
		if !ok {
			i = len(out)
			idx[key] = i
			out = append(out, dayGroup{Day: key})
		}
		out[i].Games = append(out[i].Games, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// sortedUnion merges and sorts id lists, dropping duplicates.
func sortedUnion(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, id := range list {
			if id != "" && !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	sort.Strings(out)
	return out
}
