// Package types provides the core data structures and type definitions
// for the schedule conflict engine, including games, schedules, venues,
// teams, and the per-sport rule tables that evaluators consult.
package types

import (
	"errors"
	"fmt"
	"time"
)

// GameType categorizes a game within a season.
type GameType string

const (
	// GameTypeConference is a game that counts toward conference standings
	GameTypeConference GameType = "conference"
	// GameTypeNonConference is a regular-season game outside the conference
	GameTypeNonConference GameType = "non_conference"
	// GameTypeChampionship is a postseason or title game
	GameTypeChampionship GameType = "championship"
	// GameTypeExhibition is a game with no standings impact
	GameTypeExhibition GameType = "exhibition"
)

// Valid checks if the game type is valid
func (gt GameType) Valid() bool {
	switch gt {
	case GameTypeConference, GameTypeNonConference, GameTypeChampionship, GameTypeExhibition:
		return true
	}
	return false
}

// timeLayout is the wall-clock layout used for game start and end times.
const timeLayout = "15:04"

// Game is a single scheduled contest between two teams at a venue.
// Date carries the calendar day (UTC, midnight); StartTime carries the
// local wall-clock tip-off in 24-hour "15:04" form.
type Game struct {
	ID              string    `json:"id"`
	Sport           string    `json:"sport"`
	HomeTeamID      string    `json:"home_team_id"`
	AwayTeamID      string    `json:"away_team_id"`
	VenueID         string    `json:"venue_id"`
	Date            time.Time `json:"date"`
	StartTime       string    `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Type            GameType  `json:"type"`
}

// StartAt returns the combined date and start time of the game. A game
// with an unparseable StartTime resolves to midnight on its date so that
// callers always get a usable instant.
func (g *Game) StartAt() time.Time {
	t, err := time.Parse(timeLayout, g.StartTime)
	if err != nil {
		return g.Date
	}
	return time.Date(g.Date.Year(), g.Date.Month(), g.Date.Day(),
		t.Hour(), t.Minute(), 0, 0, time.UTC)
}

// EndAt returns the projected end of the game based on its duration.
func (g *Game) EndAt() time.Time {
	return g.StartAt().Add(time.Duration(g.DurationMinutes) * time.Minute)
}

// Teams returns both participating team IDs, home first.
func (g *Game) Teams() []string {
	return []string{g.HomeTeamID, g.AwayTeamID}
}

// InvolvesTeam reports whether the team plays in this game.
func (g *Game) InvolvesTeam(teamID string) bool {
	return g.HomeTeamID == teamID || g.AwayTeamID == teamID
}

// Validate checks if the game has valid fields
func (g *Game) Validate() error {
	if g.ID == "" {
		return errors.New("game ID cannot be empty")
	}
	if g.Sport == "" {
		return errors.New("sport cannot be empty")
	}
	if g.HomeTeamID == "" || g.AwayTeamID == "" {
		return errors.New("game requires both a home and an away team")
	}
	if g.HomeTeamID == g.AwayTeamID {
		return fmt.Errorf("team %s cannot play itself", g.HomeTeamID)
	}
	if g.VenueID == "" {
		return errors.New("venue ID cannot be empty")
	}
	if g.Date.IsZero() {
		return errors.New("game date cannot be zero")
	}
	if _, err := time.Parse(timeLayout, g.StartTime); err != nil {
		return fmt.Errorf("invalid start time %q: must be 24-hour HH:MM", g.StartTime)
	}
	if g.DurationMinutes <= 0 {
		return fmt.Errorf("invalid duration: %d minutes", g.DurationMinutes)
	}
	if g.Type != "" && !g.Type.Valid() {
		return fmt.Errorf("invalid game type: %s", g.Type)
	}
	return nil
}

// Schedule is a season's worth of games for one or more sports.
type Schedule struct {
	ID          string    `json:"id"`
	Name        string    `json:"name,omitempty"`
	SeasonStart time.Time `json:"season_start"`
	SeasonEnd   time.Time `json:"season_end"`
	Games       []Game    `json:"games"`
}

// Clone returns a deep copy of the schedule. Mutating the copy never
// touches the original, so strategies can propose changes freely.
func (s *Schedule) Clone() *Schedule {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Games = make([]Game, len(s.Games))
	copy(clone.Games, s.Games)
	return &clone
}

// Validate checks if the schedule and all its games are well formed.
func (s *Schedule) Validate() error {
	if s.ID == "" {
		return errors.New("schedule ID cannot be empty")
	}
	seen := make(map[string]bool, len(s.Games))
	for i := range s.Games {
		g := &s.Games[i]
		if err := g.Validate(); err != nil {
			return fmt.Errorf("game %s: %w", g.ID, err)
		}
		if seen[g.ID] {
			return fmt.Errorf("duplicate game ID: %s", g.ID)
		}
		seen[g.ID] = true
	}
	return nil
}

// GameByID returns a pointer to the game with the given ID, or false if
// the schedule does not contain it. The pointer aliases the schedule's
// backing array, so edits through it modify the schedule in place.
func (s *Schedule) GameByID(id string) (*Game, bool) {
	for i := range s.Games {
		if s.Games[i].ID == id {
			return &s.Games[i], true
		}
	}
	return nil, false
}

// GamesOn returns the games scheduled on the given calendar day.
func (s *Schedule) GamesOn(day time.Time) []Game {
	y, m, d := day.UTC().Date()
	var out []Game
	for _, g := range s.Games {
		gy, gm, gd := g.Date.UTC().Date()
		if gy == y && gm == m && gd == d {
			out = append(out, g)
		}
	}
	return out
}

// Venue is a playing facility with a geographic location used for
// travel-distance estimates.
type Venue struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	City      string  `json:"city,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Capacity  int     `json:"capacity,omitempty"`
}

// Team is a competing program. HomeVenueID anchors travel estimates for
// games played away from home.
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Conference  string `json:"conference,omitempty"`
	HomeVenueID string `json:"home_venue_id"`
}

// SportRules carries the per-sport thresholds the detector enforces.
type SportRules struct {
	// MinimumRestHours is the required gap between consecutive games
	// for the same team. Zero disables the rest check for the sport.
	MinimumRestHours int `json:"minimum_rest_hours"`
	// TravelBufferHours is padding added on top of estimated travel
	// time when judging back-to-back away trips.
	TravelBufferHours int `json:"travel_buffer_hours"`
}

// PolicyRestriction forbids a team from playing, and optionally from
// traveling, on a given weekday. Institutional no-play days are modeled
// this way.
type PolicyRestriction struct {
	TeamID   string       `json:"team_id"`
	Weekday  time.Weekday `json:"weekday"`
	NoTravel bool         `json:"no_travel,omitempty"`
	Reason   string       `json:"reason,omitempty"`
}

// ResourceBooking reserves an operational resource (officiating crew,
// broadcast truck, shared equipment) at a venue for a window on a day.
// Bookings are carried through the context so league-specific resource
// checks can be registered against them.
type ResourceBooking struct {
	ResourceID string    `json:"resource_id"`
	VenueID    string    `json:"venue_id"`
	Date       time.Time `json:"date"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
}

// MediaWindow records a broadcaster's rights window for a sport on a
// weekday. Like resource bookings, windows ride along in the context
// for league-specific media checks.
type MediaWindow struct {
	Broadcaster string       `json:"broadcaster"`
	Sport       string       `json:"sport"`
	Weekday     time.Weekday `json:"weekday"`
	StartTime   string       `json:"start_time,omitempty"`
	EndTime     string       `json:"end_time,omitempty"`
	Exclusive   bool         `json:"exclusive,omitempty"`
}

// ScheduleContext is the side data a schedule is evaluated against:
// venue and team directories, per-sport rule tables, policy restrictions,
// and the resource and media tables extension evaluators may consult.
type ScheduleContext struct {
	Venues       map[string]Venue      `json:"venues"`
	Teams        map[string]Team       `json:"teams"`
	SportRules   map[string]SportRules `json:"sport_rules"`
	Restrictions []PolicyRestriction   `json:"restrictions,omitempty"`
	Resources    []ResourceBooking     `json:"resources,omitempty"`
	MediaWindows []MediaWindow         `json:"media_windows,omitempty"`
}

// Venue returns the venue for an ID, or false when the context has no
// entry for it.
func (sc *ScheduleContext) Venue(id string) (Venue, bool) {
	v, ok := sc.Venues[id]
	return v, ok
}

// Team returns the team for an ID, or false when the context has no
// entry for it.
func (sc *ScheduleContext) Team(id string) (Team, bool) {
	t, ok := sc.Teams[id]
	return t, ok
}

// RulesFor returns the rule table for a sport. Sports without an entry
// get the zero value, which disables rest and travel-buffer checks.
func (sc *ScheduleContext) RulesFor(sport string) SportRules {
	if sc.SportRules == nil {
		return SportRules{}
	}
	return sc.SportRules[sport]
}

// RestrictionsFor returns the policy restrictions that apply to a team.
func (sc *ScheduleContext) RestrictionsFor(teamID string) []PolicyRestriction {
	var out []PolicyRestriction
	for _, r := range sc.Restrictions {
		if r.TeamID == teamID {
			out = append(out, r)
		}
	}
	return out
}

// Validate checks that the context's directories are internally
// consistent.
func (sc *ScheduleContext) Validate() error {
	for id, v := range sc.Venues {
		if v.ID != id {
			return fmt.Errorf("venue map key %q does not match venue ID %q", id, v.ID)
		}
	}
	for id, t := range sc.Teams {
		if t.ID != id {
			return fmt.Errorf("team map key %q does not match team ID %q", id, t.ID)
		}
		if t.HomeVenueID != "" {
			if _, ok := sc.Venues[t.HomeVenueID]; !ok {
				return fmt.Errorf("team %s references unknown home venue %s", id, t.HomeVenueID)
			}
		}
	}
	for _, r := range sc.Restrictions {
		if r.TeamID == "" {
			return errors.New("policy restriction requires a team ID")
		}
		if r.Weekday < time.Sunday || r.Weekday > time.Saturday {
			return fmt.Errorf("policy restriction for %s has invalid weekday %d", r.TeamID, r.Weekday)
		}
	}
	return nil
}
