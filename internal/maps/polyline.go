// README: Encoded polyline decoding for the route path drawn on the map.
package maps

import (
	"errors"
	"fmt"

	"googlemaps.github.io/maps"

	"tripcost/internal/types"
)

var ErrInvalidPolyline = errors.New("invalid polyline")

// DecodePolyline decodes Google's encoded polyline format into points.
// maps.DecodePolyline stops quietly at a cut-off value, so the string is
// checked to hold whole lat/lng pairs first.
func DecodePolyline(encoded string) ([]types.Point, error) {
	if encoded == "" {
		return []types.Point{}, nil
	}
	if err := checkPolyline(encoded); err != nil {
		return nil, err
	}
	path, err := maps.DecodePolyline(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPolyline, err)
	}
	points := make([]types.Point, len(path))
	for i, ll := range path {
		points[i] = types.Point{Lat: ll.Lat, Lng: ll.Lng}
	}
	return points, nil
}

// checkPolyline requires printable polyline characters, a terminated last
// value and an even number of values.
func checkPolyline(encoded string) error {
	values := 0
	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		if c < 63 || c > 126 {
			return ErrInvalidPolyline
		}
		if c-63 < 0x20 {
			values++
		}
	}
	if encoded[len(encoded)-1]-63 >= 0x20 || values%2 != 0 {
		return ErrInvalidPolyline
	}
	return nil
}
