package maps

import (
	"context"
	"errors"
	"testing"

	"googlemaps.github.io/maps"
)

type stubPlaces struct {
	autocompleteCalls int
	detailsCalls      int
	lastAutocomplete  *maps.PlaceAutocompleteRequest
	predictions       []maps.AutocompletePrediction
	details           maps.PlaceDetailsResult
	err               error
}

func (s *stubPlaces) PlaceAutocomplete(_ context.Context, r *maps.PlaceAutocompleteRequest) (maps.AutocompleteResponse, error) {
	s.autocompleteCalls++
	s.lastAutocomplete = r
	return maps.AutocompleteResponse{Predictions: s.predictions}, s.err
}

func (s *stubPlaces) PlaceDetails(_ context.Context, _ *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error) {
	s.detailsCalls++
	return s.details, s.err
}

func newTestPlaces(t *testing.T, stub *stubPlaces) *PlacesService {
	t.Helper()
	svc, err := newPlacesService(stub, "es", "ar", nil)
	if err != nil {
		t.Fatal(err)
	}
	return svc
}

func TestAutocomplete_ShortInputSkipsAPI(t *testing.T) {
	stub := &stubPlaces{}
	svc := newTestPlaces(t, stub)
	for _, in := range []string{"", " ", "a", " b "} {
		out, err := svc.Autocomplete(context.Background(), in)
		if err != nil || len(out) != 0 {
			t.Errorf("Autocomplete(%q) = %v, %v", in, out, err)
		}
	}
	if stub.autocompleteCalls != 0 {
		t.Errorf("api called %d times for short input", stub.autocompleteCalls)
	}
}

func TestAutocomplete_MapsPredictions(t *testing.T) {
	stub := &stubPlaces{predictions: []maps.AutocompletePrediction{{
		PlaceID:     "abc",
		Description: "Córdoba, Argentina",
		StructuredFormatting: maps.AutocompleteStructuredFormatting{
			MainText:      "Córdoba",
			SecondaryText: "Argentina",
		},
	}}}
	svc := newTestPlaces(t, stub)

	out, err := svc.Autocomplete(context.Background(), "Cor")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].PlaceID != "abc" || out[0].MainText != "Córdoba" {
		t.Errorf("unexpected suggestions: %+v", out)
	}
	if stub.lastAutocomplete.Language != "es" {
		t.Errorf("language = %q", stub.lastAutocomplete.Language)
	}
	if got := stub.lastAutocomplete.Components[maps.ComponentCountry]; len(got) != 1 || got[0] != "ar" {
		t.Errorf("country components = %v", got)
	}
}

func TestAutocomplete_Error(t *testing.T) {
	svc := newTestPlaces(t, &stubPlaces{err: errors.New("OVER_QUERY_LIMIT")})
	if _, err := svc.Autocomplete(context.Background(), "Rosario"); err == nil {
		t.Error("expected error")
	}
}

func TestDetails_PrefersNameAndCaches(t *testing.T) {
	stub := &stubPlaces{}
	stub.details.Name = "Obelisco"
	stub.details.FormattedAddress = "Av. 9 de Julio s/n, CABA"
	stub.details.Geometry.Location = maps.LatLng{Lat: -34.6037, Lng: -58.3816}
	svc := newTestPlaces(t, stub)

	p, err := svc.Details(context.Background(), "pid", "fallback")
	if err != nil {
		t.Fatal(err)
	}
	if p.Address != "Obelisco" || p.Location.Lat != -34.6037 {
		t.Errorf("unexpected place: %+v", p)
	}

	if _, err := svc.Details(context.Background(), "pid", "fallback"); err != nil {
		t.Fatal(err)
	}
	if stub.detailsCalls != 1 {
		t.Errorf("details calls = %d, want 1 (cached)", stub.detailsCalls)
	}
}

func TestDetails_AddressFallbacks(t *testing.T) {
	stub := &stubPlaces{}
	stub.details.FormattedAddress = "Ruta 9 km 700"
	stub.details.Geometry.Location = maps.LatLng{Lat: -32, Lng: -63}
	svc := newTestPlaces(t, stub)
	p, _ := svc.Details(context.Background(), "p1", "desc")
	if p.Address != "Ruta 9 km 700" {
		t.Errorf("Address = %q, want formatted address", p.Address)
	}

	stub2 := &stubPlaces{}
	stub2.details.Geometry.Location = maps.LatLng{Lat: -32, Lng: -63}
	svc2 := newTestPlaces(t, stub2)
	p2, _ := svc2.Details(context.Background(), "p2", "desc")
	if p2.Address != "desc" {
		t.Errorf("Address = %q, want fallback", p2.Address)
	}
}

func TestDetails_NoGeometry(t *testing.T) {
	svc := newTestPlaces(t, &stubPlaces{})
	if _, err := svc.Details(context.Background(), "p", ""); !errors.Is(err, ErrPlaceNotFound) {
		t.Errorf("expected ErrPlaceNotFound, got %v", err)
	}
	if _, err := svc.Details(context.Background(), "", ""); !errors.Is(err, ErrPlaceNotFound) {
		t.Errorf("expected ErrPlaceNotFound for empty id, got %v", err)
	}
}

func TestDetails_FallbackNotShared(t *testing.T) {
	stub := &stubPlaces{}
	stub.details.Geometry.Location = maps.LatLng{Lat: -32, Lng: -63}
	svc := newTestPlaces(t, stub)

	first, _ := svc.Details(context.Background(), "p1", "Estación Rosario Norte")
	second, _ := svc.Details(context.Background(), "p1", "Rosario, Santa Fe")
	if first.Address != "Estación Rosario Norte" || second.Address != "Rosario, Santa Fe" {
		t.Errorf("addresses = %q, %q, want each caller's fallback", first.Address, second.Address)
	}
	if stub.detailsCalls != 1 {
		t.Errorf("details calls = %d, want 1 (cached)", stub.detailsCalls)
	}
}

func TestDetails_StatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		notFound bool
	}{
		{"not found", errors.New("maps: NOT_FOUND - "), true},
		{"invalid request", errors.New("maps: INVALID_REQUEST - Invalid 'placeid' parameter"), true},
		{"quota mentioning not found", errors.New("maps: OVER_QUERY_LIMIT - NOT_FOUND is not the issue"), false},
		{"transport", errors.New("dial tcp: NOT_FOUND"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestPlaces(t, &stubPlaces{err: tt.err})
			_, err := svc.Details(context.Background(), "p", "")
			if got := errors.Is(err, ErrPlaceNotFound); got != tt.notFound {
				t.Errorf("errors.Is(%v, ErrPlaceNotFound) = %v, want %v", err, got, tt.notFound)
			}
			if err == nil {
				t.Error("expected an error")
			}
		})
	}
}
