// Package geo holds the great-circle math used for distance labels.
package geo

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"

	"github.com/njprem/NoirBrew_Web/internal/domain"
)

const EarthRadiusKm = 6371.0

// DistanceKm returns the haversine distance between a and b in kilometers.
func DistanceKm(a, b domain.Coordinate) float64 {
	from := s2.LatLngFromDegrees(a.Lat, a.Lng)
	to := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return from.Distance(to).Radians() * EarthRadiusKm
}

// FormatDistance renders whole meters below one kilometer and kilometers with
// one decimal otherwise.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%d m", int64(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1f km", km)
}

// DistanceLabel formats the distance from origin to target. It reports false
// when no origin is known yet, which is a normal state.
func DistanceLabel(origin *domain.Coordinate, target domain.Coordinate) (string, bool) {
	if origin == nil {
		return "", false
	}
	return FormatDistance(DistanceKm(*origin, target)), true
}
