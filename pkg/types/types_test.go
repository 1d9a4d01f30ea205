package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testGame(id string) Game {
	return Game{
		ID:              id,
		Sport:           "basketball",
		HomeTeamID:      "team-a",
		AwayTeamID:      "team-b",
		VenueID:         "venue-1",
		Date:            day(2025, time.November, 2),
		StartTime:       "19:00",
		DurationMinutes: 180,
		Type:            GameTypeConference,
	}
}

func TestGameType_Valid(t *testing.T) {
	tests := []struct {
		name     string
		gt       GameType
		expected bool
	}{
		{"valid conference", GameTypeConference, true},
		{"valid non-conference", GameTypeNonConference, true},
		{"valid championship", GameTypeChampionship, true},
		{"valid exhibition", GameTypeExhibition, true},
		{"invalid empty", GameType(""), false},
		{"invalid random", GameType("scrimmage"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.gt.Valid())
		})
	}
}

func TestGame_StartAtEndAt(t *testing.T) {
	g := testGame("g1")

	start := g.StartAt()
	assert.Equal(t, time.Date(2025, time.November, 2, 19, 0, 0, 0, time.UTC), start)
	assert.Equal(t, start.Add(3*time.Hour), g.EndAt())

	t.Run("unparseable start time falls back to midnight", func(t *testing.T) {
		bad := testGame("g2")
		bad.StartTime = "7pm"
		assert.Equal(t, bad.Date, bad.StartAt())
	})
}

func TestGame_InvolvesTeam(t *testing.T) {
	g := testGame("g1")
	assert.True(t, g.InvolvesTeam("team-a"))
	assert.True(t, g.InvolvesTeam("team-b"))
	assert.False(t, g.InvolvesTeam("team-c"))
	assert.Equal(t, []string{"team-a", "team-b"}, g.Teams())
}

func TestGame_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Game)
		wantErr string
	}{
		{"valid game", func(g *Game) {}, ""},
		{"empty ID", func(g *Game) { g.ID = "" }, "game ID cannot be empty"},
		{"empty sport", func(g *Game) { g.Sport = "" }, "sport cannot be empty"},
		{"missing away team", func(g *Game) { g.AwayTeamID = "" }, "home and an away team"},
		{"team plays itself", func(g *Game) { g.AwayTeamID = g.HomeTeamID }, "cannot play itself"},
		{"empty venue", func(g *Game) { g.VenueID = "" }, "venue ID cannot be empty"},
		{"zero date", func(g *Game) { g.Date = time.Time{} }, "date cannot be zero"},
		{"bad start time", func(g *Game) { g.StartTime = "25:99" }, "invalid start time"},
		{"zero duration", func(g *Game) { g.DurationMinutes = 0 }, "invalid duration"},
		{"bad game type", func(g *Game) { g.Type = GameType("friendly") }, "invalid game type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testGame("g1")
			tt.mutate(&g)
			err := g.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSchedule_Clone(t *testing.T) {
	original := &Schedule{
		ID:    "sched-1",
		Games: []Game{testGame("g1"), testGame("g2")},
	}

	clone := original.Clone()
	require.NotNil(t, clone)
	require.Len(t, clone.Games, 2)

	clone.Games[0].VenueID = "venue-9"
	clone.Games[0].Date = day(2025, time.December, 25)

	assert.Equal(t, "venue-1", original.Games[0].VenueID)
	assert.Equal(t, day(2025, time.November, 2), original.Games[0].Date)

	t.Run("nil schedule clones to nil", func(t *testing.T) {
		var s *Schedule
		assert.Nil(t, s.Clone())
	})
}

func TestSchedule_Validate(t *testing.T) {
	t.Run("valid schedule", func(t *testing.T) {
		s := &Schedule{ID: "sched-1", Games: []Game{testGame("g1")}}
		assert.NoError(t, s.Validate())
	})

	t.Run("empty ID", func(t *testing.T) {
		s := &Schedule{Games: []Game{testGame("g1")}}
		assert.Error(t, s.Validate())
	})

	t.Run("duplicate game IDs", func(t *testing.T) {
		s := &Schedule{ID: "sched-1", Games: []Game{testGame("g1"), testGame("g1")}}
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate game ID")
	})

	t.Run("invalid game surfaces with its ID", func(t *testing.T) {
		bad := testGame("g9")
		bad.VenueID = ""
		s := &Schedule{ID: "sched-1", Games: []Game{bad}}
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "g9")
	})
}

func TestSchedule_GameByID(t *testing.T) {
	s := &Schedule{ID: "sched-1", Games: []Game{testGame("g1"), testGame("g2")}}

	g, ok := s.GameByID("g2")
	require.True(t, ok)
	assert.Equal(t, "g2", g.ID)

	// The pointer aliases the schedule, so edits land in place.
	g.StartTime = "21:00"
	assert.Equal(t, "21:00", s.Games[1].StartTime)

	_, ok = s.GameByID("missing")
	assert.False(t, ok)
}

func TestSchedule_GamesOn(t *testing.T) {
	g1 := testGame("g1")
	g2 := testGame("g2")
	g2.Date = day(2025, time.November, 3)
	s := &Schedule{ID: "sched-1", Games: []Game{g1, g2}}

	games := s.GamesOn(day(2025, time.November, 2))
	require.Len(t, games, 1)
	assert.Equal(t, "g1", games[0].ID)

	assert.Empty(t, s.GamesOn(day(2025, time.November, 4)))
}

func TestScheduleContext_Lookups(t *testing.T) {
	sc := &ScheduleContext{
		Venues: map[string]Venue{
			"venue-1": {ID: "venue-1", Name: "Main Arena"},
		},
		Teams: map[string]Team{
			"team-a": {ID: "team-a", Name: "Aces", HomeVenueID: "venue-1"},
		},
		SportRules: map[string]SportRules{
			"basketball": {MinimumRestHours: 20, TravelBufferHours: 3},
		},
		Restrictions: []PolicyRestriction{
			{TeamID: "team-a", Weekday: time.Sunday, NoTravel: true},
		},
	}

	v, ok := sc.Venue("venue-1")
	require.True(t, ok)
	assert.Equal(t, "Main Arena", v.Name)
	_, ok = sc.Venue("venue-2")
	assert.False(t, ok)

	tm, ok := sc.Team("team-a")
	require.True(t, ok)
	assert.Equal(t, "Aces", tm.Name)

	assert.Equal(t, 20, sc.RulesFor("basketball").MinimumRestHours)
	assert.Equal(t, SportRules{}, sc.RulesFor("hockey"))

	require.Len(t, sc.RestrictionsFor("team-a"), 1)
	assert.Empty(t, sc.RestrictionsFor("team-b"))
}

func TestScheduleContext_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ctx     ScheduleContext
		wantErr bool
	}{
		{
			name: "valid context",
			ctx: ScheduleContext{
				Venues: map[string]Venue{"venue-1": {ID: "venue-1"}},
				Teams:  map[string]Team{"team-a": {ID: "team-a", HomeVenueID: "venue-1"}},
			},
			wantErr: false,
		},
		{
			name: "venue key mismatch",
			ctx: ScheduleContext{
				Venues: map[string]Venue{"venue-1": {ID: "venue-2"}},
			},
			wantErr: true,
		},
		{
			name: "team key mismatch",
			ctx: ScheduleContext{
				Teams: map[string]Team{"team-a": {ID: "team-b"}},
			},
			wantErr: true,
		},
		{
			name: "unknown home venue",
			ctx: ScheduleContext{
				Teams: map[string]Team{"team-a": {ID: "team-a", HomeVenueID: "venue-9"}},
			},
			wantErr: true,
		},
		{
			name: "restriction without team",
			ctx: ScheduleContext{
				Restrictions: []PolicyRestriction{{Weekday: time.Sunday}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ctx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGame_JSONRoundtrip(t *testing.T) {
	g := testGame("g1")

	data, err := json.Marshal(g)
	require.NoError(t, err)

	var decoded Game
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, g.ID, decoded.ID)
	assert.Equal(t, g.StartTime, decoded.StartTime)
	assert.True(t, g.Date.Equal(decoded.Date))
	assert.Equal(t, g.Type, decoded.Type)
}
