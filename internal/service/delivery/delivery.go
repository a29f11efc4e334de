// Package delivery decides whether an address can be delivered to:
// great-circle distance to the store, travel-time estimate, and the
// operating-hours window. All functions are pure; the caller supplies
// the clock.
package delivery

import (
	"fmt"
	"math"
	"time"

	"tienda/internal/util"
)

const (
	earthRadiusKm   = 6371
	averageSpeedKmh = 40
	baseMinutes     = 15
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Check struct {
	DistanceKm    float64 `json:"distance_km"`
	MaxDistanceKm float64 `json:"max_distance_km"`
	WithinRange   bool    `json:"within_range"`
	Estimate      string  `json:"estimate"`
	Available     bool    `json:"available"`
}

// DistanceKm is the haversine distance between two coordinates, rounded
// to 2 decimals.
func DistanceKm(a, b Coordinate) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return util.Round2(earthRadiusKm * c)
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// CheckArea reports whether user is within maxKm of store. The boundary
// is inclusive: a distance exactly equal to maxKm is in range.
func CheckArea(user, store Coordinate, maxKm float64) Check {
	distance := DistanceKm(user, store)
	return Check{
		DistanceKm:    distance,
		MaxDistanceKm: maxKm,
		WithinRange:   distance <= maxKm,
	}
}

// EstimateTime formats the expected delivery time for a distance:
// 15 minutes of preparation plus travel at 40 km/h.
func EstimateTime(distanceKm float64) string {
	travelMinutes := (distanceKm / averageSpeedKmh) * 60
	totalMinutes := baseMinutes + travelMinutes

	hours := int(totalMinutes) / 60
	minutes := int(math.Round(math.Mod(totalMinutes, 60)))

	if hours > 0 {
		return fmt.Sprintf("%dh %dmin", hours, minutes)
	}
	return fmt.Sprintf("%d minutos", minutes)
}

// AvailableAt reports whether deliveries run at the given moment:
// Mon-Fri 8:00-20:00, Sat-Sun 9:00-18:00.
func AvailableAt(t time.Time) bool {
	hour := t.Hour()
	day := t.Weekday()

	if day == time.Saturday || day == time.Sunday {
		return hour >= 9 && hour < 18
	}
	return hour >= 8 && hour < 20
}
