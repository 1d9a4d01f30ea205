// Package geo holds the travel arithmetic shared by the detection and
// repair layers: great-circle distances between venues and the crude
// bus-or-flight time estimate built on top of them.
package geo

import (
	"math"

	"gridline-schedule-engine/pkg/types"
)

const (
	earthRadiusMiles = 3958.8

	// Trips at or beyond this distance are assumed flown.
	flightThresholdMiles = 300.0
	flightSpeedMph       = 500.0
	busSpeedMph          = 55.0
)

// Distance is the great-circle distance in miles between two venues.
// Venues without coordinates yield zero, which disables travel checks
// for them.
func Distance(a, b types.Venue) float64 {
	if a.Latitude == 0 && a.Longitude == 0 {
		return 0
	}
	if b.Latitude == 0 && b.Longitude == 0 {
		return 0
	}

	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// TravelHours estimates door-to-door travel time for a trip: bus pace
// for regional trips, flight pace beyond the flight threshold.
func TravelHours(distance float64) float64 {
	if distance <= 0 {
		return 0
	}
	if distance >= flightThresholdMiles {
		return distance / flightSpeedMph
	}
	return distance / busSpeedMph
}
