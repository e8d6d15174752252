// README: Shared geographic value types used across modules.
package types

import "math"

const earthRadiusKm = 6371.0

// Coordinate is a geographic point with an optional human-readable label.
// Coordinates are value types: replaced wholesale on change, never mutated.
type Coordinate struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label,omitempty"`
}

// Valid reports whether the coordinate lies within the WGS84 range.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Bounds is a lat/lng bounding region built up by extending it point by point.
// The zero value is empty; extending an empty bounds with a single point yields
// a degenerate (zero-area) but valid region.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
	Points int     `json:"-"`
}

// Extend grows the bounds to include the given point.
func (b *Bounds) Extend(lat, lng float64) {
	if b.Points == 0 {
		b.MinLat, b.MaxLat = lat, lat
		b.MinLng, b.MaxLng = lng, lng
		b.Points = 1
		return
	}
	b.MinLat = math.Min(b.MinLat, lat)
	b.MaxLat = math.Max(b.MaxLat, lat)
	b.MinLng = math.Min(b.MinLng, lng)
	b.MaxLng = math.Max(b.MaxLng, lng)
	b.Points++
}

// Valid reports whether the bounds contain at least one point.
func (b Bounds) Valid() bool {
	return b.Points > 0
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() Coordinate {
	return Coordinate{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lng: (b.MinLng + b.MaxLng) / 2,
	}
}

// Pad returns a copy of the bounds grown by the given fraction of its span on
// every side. Degenerate (single-point) bounds get a small fixed margin so the
// result is still a usable region.
func (b Bounds) Pad(fraction float64) Bounds {
	if !b.Valid() {
		return b
	}
	latSpan := b.MaxLat - b.MinLat
	lngSpan := b.MaxLng - b.MinLng
	const minSpan = 0.01
	if latSpan == 0 {
		latSpan = minSpan
	}
	if lngSpan == 0 {
		lngSpan = minSpan
	}
	out := b
	out.MinLat -= latSpan * fraction
	out.MaxLat += latSpan * fraction
	out.MinLng -= lngSpan * fraction
	out.MaxLng += lngSpan * fraction
	return out
}

// HaversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
