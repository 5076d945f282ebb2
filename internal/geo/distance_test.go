package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njprem/NoirBrew_Web/internal/domain"
)

func TestDistanceKm_SamePointIsZero(t *testing.T) {
	points := []domain.Coordinate{
		{Lat: -33.8688, Lng: 151.2093},
		{Lat: 0, Lng: 0},
		{Lat: 89.9, Lng: -179.9},
		{Lat: 51.5074, Lng: -0.1278},
	}
	for _, p := range points {
		assert.Equal(t, 0.0, DistanceKm(p, p), "distance from %v to itself", p)
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	pairs := [][2]domain.Coordinate{
		{{Lat: -33.8688, Lng: 151.2093}, {Lat: -37.8136, Lng: 144.9631}},
		{{Lat: 40.7128, Lng: -74.0060}, {Lat: 34.0522, Lng: -118.2437}},
		{{Lat: 0, Lng: 179.5}, {Lat: 0, Lng: -179.5}},
	}
	for _, pair := range pairs {
		ab := DistanceKm(pair[0], pair[1])
		ba := DistanceKm(pair[1], pair[0])
		assert.InDelta(t, ab, ba, 1e-9)
	}
}

func TestDistanceKm_KnownDistances(t *testing.T) {
	sydney := domain.Coordinate{Lat: -33.8688, Lng: 151.2093}
	melbourne := domain.Coordinate{Lat: -37.8136, Lng: 144.9631}
	assert.InDelta(t, 713.4, DistanceKm(sydney, melbourne), 2.0)

	// one degree of latitude along a meridian
	got := DistanceKm(domain.Coordinate{Lat: 0, Lng: 0}, domain.Coordinate{Lat: 1, Lng: 0})
	assert.InDelta(t, EarthRadiusKm*math.Pi/180, got, 1e-6)
}

func TestFormatDistance(t *testing.T) {
	cases := []struct {
		km   float64
		want string
	}{
		{0, "0 m"},
		{0.0004, "0 m"},
		{0.25, "250 m"},
		{0.9994, "999 m"},
		{1, "1.0 km"},
		{1.04, "1.0 km"},
		{2.56, "2.6 km"},
		{713.42, "713.4 km"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDistance(tc.km), "km=%v", tc.km)
	}
}

func TestDistanceLabel_UnavailableWithoutOrigin(t *testing.T) {
	label, ok := DistanceLabel(nil, domain.Coordinate{Lat: 1, Lng: 1})
	assert.False(t, ok)
	assert.Empty(t, label)

	origin := domain.Coordinate{Lat: -33.8688, Lng: 151.2093}
	label, ok = DistanceLabel(&origin, domain.Coordinate{Lat: -33.8700, Lng: 151.2100})
	require.True(t, ok)
	assert.Contains(t, label, " m")
}
