package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// Earth constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	EarthRadiusKm     = 6371.0    // Earth's mean radius in kilometers
)

// CoordinatePrecision is the number of decimals kept for stored coordinates.
// Two decimals is roughly 1.1 km.
const CoordinatePrecision = 2

// HaversineDistance calculates the great-circle distance between two points in meters
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// DistanceKm is HaversineDistance in kilometers for [lat, lon] pairs
func DistanceKm(a, b [2]float64) float64 {
	return HaversineDistance(a[0], a[1], b[0], b[1]) / 1000
}

// PlanarDistance returns the straight-line distance between two [lat, lon]
// pairs in degree units. It ignores curvature and meridian convergence; it is
// only meant for coarse "did we move far" checks on rounded coordinates.
func PlanarDistance(a, b [2]float64) float64 {
	dLat := a[0] - b[0]
	dLon := a[1] - b[1]
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

// Round truncates a coordinate to CoordinatePrecision decimals
func Round(v float64) float64 {
	scale := math.Pow10(CoordinatePrecision)
	return math.Round(v*scale) / scale
}

// RoundPair rounds both components of a [lat, lon] pair
func RoundPair(lat, lon float64) [2]float64 {
	return [2]float64{Round(lat), Round(lon)}
}

// ValidLatLng reports whether the pair is a usable coordinate
func ValidLatLng(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return s2.LatLngFromDegrees(lat, lon).IsValid()
}
