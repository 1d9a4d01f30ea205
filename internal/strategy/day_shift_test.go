package strategy

import (
	"context"
	"testing"
	"time"

	"gridline-schedule-engine/pkg/types"
)

func TestDayShift_MovesLaterGameOffCollision(t *testing.T) {
	d := day(2025, time.November, 4)
	g1 := game("g1", "hockey", "aces", "knights", "arena-la", d, "12:00", 180)
	g2 := game("g2", "hockey", "wolves", "aces", "hall-c", d, "19:00", 180)
	s := schedule(g1, g2)
	c := conflictOver(types.ConflictTypeTeam, types.SeverityCritical, []string{"aces"}, g1, g2)

	out, err := NewDayShift().Resolve(context.Background(), request(s, c))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !out.Success {
		t.Fatalf("expected success, got reason %q", out.Reason)
	}

	if got := s.Games[1].Date; !got.Equal(d) {
		t.Errorf("input schedule must stay untouched, date moved to %s", got)
	}

	moved, ok := out.ModifiedSchedule.GameByID("g2")
	if !ok {
		t.Fatal("moved game missing from modified schedule")
	}
	if want := d.AddDate(0, 0, 1); !moved.Date.Equal(want) {
		t.Errorf("expected the minimal one-day shift to %s, got %s", fmtDay(want), fmtDay(moved.Date))
	}

	res := out.Resolutions[0]
	if res.Strategy != NameDayShift || res.ConflictID != c.ID {
		t.Errorf("resolution must reference the strategy and conflict, got %+v", res)
	}
	if len(res.Changes) != 1 || res.Changes[0].Field != "date" || res.Changes[0].GameID != "g2" {
		t.Errorf("expected a single date change for g2, got %+v", res.Changes)
	}
}

func TestDayShift_AvoidsRestrictedWeekday(t *testing.T) {
	// Both games land on Saturday 2025-11-01; a one-day forward shift
	// would drop the cougars onto their restricted Sunday.
	d := day(2025, time.November, 1)
	g1 := game("g1", "hockey", "cougars", "aces", "arena-slc", d, "12:00", 180)
	g2 := game("g2", "hockey", "knights", "cougars", "arena-ny", d, "19:00", 180)
	s := schedule(g1, g2)
	c := conflictOver(types.ConflictTypeTeam, types.SeverityCritical, []string{"cougars"}, g1, g2)

	out, err := NewDayShift().Resolve(context.Background(), request(s, c))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !out.Success {
		t.Fatalf("expected success, got reason %q", out.Reason)
	}

	moved, _ := out.ModifiedSchedule.GameByID("g2")
	if moved.Date.UTC().Weekday() == time.Sunday {
		t.Errorf("shift landed on the restricted Sunday: %s", fmtDay(moved.Date))
	}
	if want := d.AddDate(0, 0, -1); !moved.Date.Equal(want) {
		t.Errorf("expected the backward one-day shift to %s, got %s", fmtDay(want), fmtDay(moved.Date))
	}
}

func TestDayShift_FailsWhenSeasonWindowExhausted(t *testing.T) {
	d := day(2025, time.November, 4)
	g1 := game("g1", "hockey", "aces", "knights", "arena-la", d, "12:00", 180)
	g2 := game("g2", "hockey", "wolves", "aces", "hall-c", d, "19:00", 180)
	s := schedule(g1, g2)
	s.SeasonStart = d
	s.SeasonEnd = d
	c := conflictOver(types.ConflictTypeTeam, types.SeverityCritical, []string{"aces"}, g1, g2)

	out, err := NewDayShift().Resolve(context.Background(), request(s, c))
	if err != nil {
		t.Fatalf("strategy exhaustion must not be an error, got %v", err)
	}
	if out.Success {
		t.Fatal("expected failure with a one-day season window")
	}
	if out.Reason == "" {
		t.Error("expected a failure reason")
	}
	if out.ModifiedSchedule != nil {
		t.Error("failed outcomes must not carry a schedule")
	}
}

func TestDayShift_PreservesChampionshipGame(t *testing.T) {
	d := day(2025, time.November, 4)
	g1 := game("g1", "hockey", "aces", "knights", "arena-la", d, "12:00", 180)
	g2 := game("g2", "hockey", "wolves", "aces", "hall-c", d, "19:00", 180)
	g2.Type = types.GameTypeChampionship
	s := schedule(g1, g2)
	c := conflictOver(types.ConflictTypeTeam, types.SeverityCritical, []string{"aces"}, g1, g2)

	out, err := NewDayShift().Resolve(context.Background(), request(s, c))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !out.Success {
		t.Fatalf("expected success, got reason %q", out.Reason)
	}
	if got := out.Resolutions[0].Changes[0].GameID; got != "g1" {
		t.Errorf("expected the non-championship game to move, got %s", got)
	}
}
