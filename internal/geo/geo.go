// Package geo provides great-circle math used by distance ranking and
// coarse pre-filtering.
package geo

import (
	"math"

	"github.com/cafehopper/cafe-hopper/server/internal/model"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// BoundingBox approximates a circle of the given radius around a center
// point. Latitude and longitude deltas are derived independently with the
// small-angle approximation, so the box is not geodesically exact; it is
// only suitable for coarse pre-filtering.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// DistanceKm returns the great-circle distance in kilometers between two
// points, using the half-angle cosine form of the haversine formula.
func DistanceKm(a, b model.Geolocation) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := 0.5 - math.Cos(dLat)/2 +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*(1-math.Cos(dLng))/2

	return earthRadiusKm * 2 * math.Asin(math.Sqrt(h))
}

// NewBoundingBox returns the box around center covering radiusMeters in
// every direction.
func NewBoundingBox(center model.Geolocation, radiusMeters float64) BoundingBox {
	radiusKm := radiusMeters / 1000
	latDelta := (radiusKm / earthRadiusKm) * 180 / math.Pi
	lngDelta := latDelta / math.Cos(center.Lat*math.Pi/180)

	return BoundingBox{
		MinLat: center.Lat - latDelta,
		MaxLat: center.Lat + latDelta,
		MinLng: center.Lng - lngDelta,
		MaxLng: center.Lng + lngDelta,
	}
}

// Contains reports whether the point lies inside the box.
func (b BoundingBox) Contains(p model.Geolocation) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}
