// README: Geographic point value object.
package types

import "math"

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsZero reports whether p was never set.
func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

// Valid reports whether p lies inside WGS84 bounds.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180 &&
		!math.IsNaN(p.Lat) && !math.IsNaN(p.Lng)
}

// Near reports whether p and q differ by at most toleranceDeg on both axes.
func (p Point) Near(q Point, toleranceDeg float64) bool {
	return math.Abs(p.Lat-q.Lat) <= toleranceDeg && math.Abs(p.Lng-q.Lng) <= toleranceDeg
}
