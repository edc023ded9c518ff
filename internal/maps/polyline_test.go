package maps

import (
	"errors"
	"math"
	"testing"
)

func TestDecodePolyline_GoogleExample(t *testing.T) {
	points, err := DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	if err != nil {
		t.Fatalf("DecodePolyline: %v", err)
	}
	want := [][2]float64{{38.5, -120.2}, {40.7, -120.95}, {43.252, -126.453}}
	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d", len(points), len(want))
	}
	for i, w := range want {
		if math.Abs(points[i].Lat-w[0]) > 1e-6 || math.Abs(points[i].Lng-w[1]) > 1e-6 {
			t.Errorf("point %d = %+v, want %v", i, points[i], w)
		}
	}
}

func TestDecodePolyline_Empty(t *testing.T) {
	points, err := DecodePolyline("")
	if err != nil || len(points) != 0 {
		t.Errorf("DecodePolyline(\"\") = %v, %v", points, err)
	}
}

func TestDecodePolyline_Truncated(t *testing.T) {
	if _, err := DecodePolyline("_p~iF"); !errors.Is(err, ErrInvalidPolyline) {
		t.Errorf("expected ErrInvalidPolyline, got %v", err)
	}
	if _, err := DecodePolyline("_p~i"); !errors.Is(err, ErrInvalidPolyline) {
		t.Errorf("expected ErrInvalidPolyline, got %v", err)
	}
}

func TestDecodePolyline_RejectsMalformed(t *testing.T) {
	tests := []string{
		"_p~iF~ps|U_ulL",       // odd number of values
		"_p~iF~ps|U_ulLnnqC_m", // last value cut mid-way
		"_p~iF ps|U",           // character outside the encoding
	}
	for _, in := range tests {
		if _, err := DecodePolyline(in); !errors.Is(err, ErrInvalidPolyline) {
			t.Errorf("DecodePolyline(%q) err = %v, want ErrInvalidPolyline", in, err)
		}
	}
}
