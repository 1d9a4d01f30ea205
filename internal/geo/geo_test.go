package geo

import (
	"math"
	"testing"

	"gridline-schedule-engine/pkg/types"
)

var (
	saltLake = types.Venue{ID: "arena-slc", Latitude: 40.7683, Longitude: -111.8904}
	losAng   = types.Venue{ID: "arena-la", Latitude: 34.0430, Longitude: -118.2673}
	newYork  = types.Venue{ID: "arena-ny", Latitude: 40.7505, Longitude: -73.9934}
	noCoords = types.Venue{ID: "hall-c"}
)

func TestDistance(t *testing.T) {
	if d := Distance(saltLake, losAng); d < 550 || d > 620 {
		t.Errorf("Salt Lake to Los Angeles should be roughly 580 miles, got %.1f", d)
	}
	if d := Distance(saltLake, newYork); d < 1900 || d > 2050 {
		t.Errorf("Salt Lake to New York should be roughly 1970 miles, got %.1f", d)
	}
	if d := Distance(saltLake, saltLake); d != 0 {
		t.Errorf("distance from a venue to itself should be 0, got %.1f", d)
	}
	if d := Distance(saltLake, noCoords); d != 0 {
		t.Errorf("venues without coordinates should yield 0, got %.1f", d)
	}
	if d, e := Distance(saltLake, losAng), Distance(losAng, saltLake); math.Abs(d-e) > 0.001 {
		t.Errorf("distance should be symmetric, got %.3f and %.3f", d, e)
	}
}

func TestTravelHours(t *testing.T) {
	// Short hops go by bus at 55 mph, long trips fly at 500 mph.
	if h := TravelHours(100); math.Abs(h-100.0/55.0) > 0.01 {
		t.Errorf("expected a bus estimate for 100 miles, got %.2f", h)
	}
	if h := TravelHours(500); math.Abs(h-1.0) > 0.01 {
		t.Errorf("expected a flight estimate for 500 miles, got %.2f", h)
	}
	if h := TravelHours(0); h != 0 {
		t.Errorf("expected 0 hours for 0 miles, got %.2f", h)
	}
}
