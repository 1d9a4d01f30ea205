package strategy

import (
	"time"

	"gridline-schedule-engine/pkg/types"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixtureContext() *types.ScheduleContext {
	return &types.ScheduleContext{
		Venues: map[string]types.Venue{
			"arena-slc": {ID: "arena-slc", Name: "Salt Lake Fieldhouse", Latitude: 40.7683, Longitude: -111.8904},
			"arena-la":  {ID: "arena-la", Name: "Pacific Dome", Latitude: 34.0430, Longitude: -118.2673},
			"arena-ny":  {ID: "arena-ny", Name: "Hudson Garden", Latitude: 40.7505, Longitude: -73.9934},
			"hall-c":    {ID: "hall-c", Name: "Community Hall"},
		},
		Teams: map[string]types.Team{
			"cougars": {ID: "cougars", Name: "Cougars", HomeVenueID: "arena-slc"},
			"aces":    {ID: "aces", Name: "Aces", HomeVenueID: "arena-la"},
			"knights": {ID: "knights", Name: "Knights", HomeVenueID: "arena-ny"},
			"wolves":  {ID: "wolves", Name: "Wolves", HomeVenueID: "hall-c"},
		},
		SportRules: map[string]types.SportRules{
			"basketball": {MinimumRestHours: 20, TravelBufferHours: 3},
			"hockey":     {TravelBufferHours: 3},
			"football":   {TravelBufferHours: 12},
		},
		Restrictions: []types.PolicyRestriction{
			{TeamID: "cougars", Weekday: time.Sunday, NoTravel: true, Reason: "institutional no-play day"},
		},
	}
}

func game(id, sport, home, away, venue string, date time.Time, start string, durMin int) types.Game {
	return types.Game{
		ID:              id,
		Sport:           sport,
		HomeTeamID:      home,
		AwayTeamID:      away,
		VenueID:         venue,
		Date:            date,
		StartTime:       start,
		DurationMinutes: durMin,
		Type:            types.GameTypeConference,
	}
}

func schedule(games ...types.Game) *types.Schedule {
	return &types.Schedule{ID: "season-2025", Games: games}
}

// conflictOver builds a detector-shaped conflict naming the given games,
// in order, with the team and venue participants they imply.
func conflictOver(ct types.ConflictType, severity types.Severity, teamIDs []string, games ...types.Game) types.Conflict {
	c := types.NewConflict(ct, severity, games[0].Date, "fixture conflict")
	for _, g := range games {
		c.GameIDs = append(c.GameIDs, g.ID)
		c.VenueIDs = append(c.VenueIDs, g.VenueID)
	}
	c.TeamIDs = teamIDs
	c.RefreshID()
	return *c
}

func request(s *types.Schedule, c types.Conflict) *Request {
	return &Request{
		Conflict: c,
		Schedule: s,
		Context:  fixtureContext(),
		Options:  types.DefaultResolverOptions(),
		Now:      time.Date(2025, time.October, 1, 9, 0, 0, 0, time.UTC),
	}
}
