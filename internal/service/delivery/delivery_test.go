package delivery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	storeGuayaquil = Coordinate{Lat: -2.196160, Lng: -79.886207}
	airportGye     = Coordinate{Lat: -2.157420, Lng: -79.883640}
)

func TestDistanceKmSamePoint(t *testing.T) {
	require.Equal(t, 0.00, DistanceKm(storeGuayaquil, storeGuayaquil))
}

func TestDistanceKmSymmetric(t *testing.T) {
	d1 := DistanceKm(storeGuayaquil, airportGye)
	d2 := DistanceKm(airportGye, storeGuayaquil)

	require.Equal(t, d1, d2)
	require.Greater(t, d1, 0.0)
	require.Less(t, d1, 10.0)
}

func TestDistanceKmKnownValue(t *testing.T) {
	// One degree of latitude is ~111.19 km on a 6371 km sphere.
	d := DistanceKm(Coordinate{Lat: 0, Lng: 0}, Coordinate{Lat: 1, Lng: 0})
	require.InDelta(t, 111.19, d, 0.05)
}

func TestCheckAreaBoundaryInclusive(t *testing.T) {
	store := Coordinate{Lat: 0, Lng: 0}
	user := Coordinate{Lat: 1, Lng: 0}

	exact := DistanceKm(user, store)
	check := CheckArea(user, store, exact)

	require.True(t, check.WithinRange)
	require.Equal(t, exact, check.DistanceKm)
	require.Equal(t, exact, check.MaxDistanceKm)

	require.False(t, CheckArea(user, store, exact-0.01).WithinRange)
}

func TestCheckAreaDefaultRadius(t *testing.T) {
	require.True(t, CheckArea(airportGye, storeGuayaquil, 10).WithinRange)

	farAway := Coordinate{Lat: -0.180653, Lng: -78.467834} // Quito
	require.False(t, CheckArea(farAway, storeGuayaquil, 10).WithinRange)
}

func TestEstimateTimeMinutesOnly(t *testing.T) {
	// 4 km at 40 km/h = 6 min travel + 15 min base.
	require.Equal(t, "21 minutos", EstimateTime(4))
}

func TestEstimateTimeHoursAndMinutes(t *testing.T) {
	// 40 km = 60 min travel + 15 min base = 1h 15min.
	require.Equal(t, "1h 15min", EstimateTime(40))
}

func TestAvailableAtWeekday(t *testing.T) {
	// 2026-01-05 is a Monday.
	monday := func(hour int) time.Time {
		return time.Date(2026, 1, 5, hour, 0, 0, 0, time.UTC)
	}

	require.False(t, AvailableAt(monday(7)))
	require.True(t, AvailableAt(monday(8)))
	require.True(t, AvailableAt(monday(19)))
	require.False(t, AvailableAt(monday(20)))
}

func TestAvailableAtWeekend(t *testing.T) {
	// 2026-01-10 is a Saturday, 2026-01-11 a Sunday.
	saturday := func(hour int) time.Time {
		return time.Date(2026, 1, 10, hour, 0, 0, 0, time.UTC)
	}
	sunday := func(hour int) time.Time {
		return time.Date(2026, 1, 11, hour, 0, 0, 0, time.UTC)
	}

	require.False(t, AvailableAt(saturday(8)))
	require.True(t, AvailableAt(saturday(9)))
	require.True(t, AvailableAt(saturday(17)))
	require.False(t, AvailableAt(saturday(18)))

	require.True(t, AvailableAt(sunday(10)))
	require.False(t, AvailableAt(sunday(18)))
}
