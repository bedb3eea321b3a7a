// Package geo implements great-circle distance on a spherical Earth.
package geo

import (
	"fmt"
	"math"

	"github.com/dmitrijs2005/guardian/internal/common"
)

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6_371_000.0

var ErrInvalidCoordinates = fmt.Errorf("%w: coordinates out of range", common.ErrInvalidArgument)

// Point is a WGS84 latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate rejects NaN and out-of-range coordinates.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) ||
		p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: (%v, %v)", ErrInvalidCoordinates, p.Lat, p.Lng)
	}
	return nil
}

// Distance returns the haversine distance between a and b in meters.
func Distance(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// DistanceKm is Distance in kilometers.
func DistanceKm(a, b Point) float64 {
	return Distance(a, b) / 1000
}

// Within reports whether b lies inside the circle of radiusMeters around a.
func Within(a, b Point, radiusMeters float64) bool {
	return Distance(a, b) <= radiusMeters
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
