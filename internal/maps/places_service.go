package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"tripcost/internal/monitoring"
	"tripcost/internal/types"
)

const (
	// MinAutocompleteInput is the shortest trimmed input that triggers a lookup.
	MinAutocompleteInput = 2

	defaultPlaceCacheSize = 512
)

var ErrPlaceNotFound = errors.New("place not found")

// Suggestion is one autocomplete prediction.
type Suggestion struct {
	PlaceID       string `json:"place_id"`
	Description   string `json:"description"`
	MainText      string `json:"main_text,omitempty"`
	SecondaryText string `json:"secondary_text,omitempty"`
}

// Place is a resolved suggestion.
type Place struct {
	PlaceID  string      `json:"place_id"`
	Address  string      `json:"address"`
	Location types.Point `json:"location"`
}

// placesAPI is the part of *maps.Client used here.
type placesAPI interface {
	PlaceAutocomplete(ctx context.Context, r *maps.PlaceAutocompleteRequest) (maps.AutocompleteResponse, error)
	PlaceDetails(ctx context.Context, r *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error)
}

// PlacesService handles interactions with Google Places API.
type PlacesService struct {
	client   placesAPI
	language string
	country  string
	details  *lru.Cache[string, Place]
	logger   *zap.Logger
}

// NewPlacesService creates a new PlacesService with the given API Key.
// language and country bias the suggestions (e.g. "es", "ar"); an empty country disables the restriction.
func NewPlacesService(apiKey, language, country string, logger *zap.Logger) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return newPlacesService(client, language, country, logger)
}

func newPlacesService(client placesAPI, language, country string, logger *zap.Logger) (*PlacesService, error) {
	cache, err := lru.New[string, Place](defaultPlaceCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create place cache: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlacesService{
		client:   client,
		language: language,
		country:  country,
		details:  cache,
		logger:   logger,
	}, nil
}

// Autocomplete returns suggestions for input. Inputs shorter than
// MinAutocompleteInput return no suggestions without calling the API.
func (s *PlacesService) Autocomplete(ctx context.Context, input string) (out []Suggestion, err error) {
	input = strings.TrimSpace(input)
	if len([]rune(input)) < MinAutocompleteInput {
		return []Suggestion{}, nil
	}

	start := time.Now()
	defer func() { monitoring.ObserveExternal("places", "autocomplete", start, err) }()

	r := &maps.PlaceAutocompleteRequest{
		Input:    input,
		Language: s.language,
	}
	if s.country != "" {
		r.Components = map[maps.Component][]string{maps.ComponentCountry: {s.country}}
	}

	resp, err := s.client.PlaceAutocomplete(ctx, r)
	if err != nil {
		s.logger.Warn("autocomplete failed", zap.Error(err))
		return nil, fmt.Errorf("places api error: %w", err)
	}

	out = make([]Suggestion, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, Suggestion{
			PlaceID:       p.PlaceID,
			Description:   p.Description,
			MainText:      p.StructuredFormatting.MainText,
			SecondaryText: p.StructuredFormatting.SecondaryText,
		})
	}
	return out, nil
}

// Details resolves a place ID to a coordinate and a display address. The
// place name is preferred, then the formatted address, then fallback.
func (s *PlacesService) Details(ctx context.Context, placeID, fallback string) (Place, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return Place{}, ErrPlaceNotFound
	}
	if p, ok := s.details.Get(placeID); ok {
		monitoring.CacheHits.WithLabelValues("place_details").Inc()
		return p.withFallback(fallback), nil
	}
	monitoring.CacheMisses.WithLabelValues("place_details").Inc()

	start := time.Now()
	res, err := s.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID:  placeID,
		Language: s.language,
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskGeometryLocation,
			maps.PlaceDetailsFieldMaskName,
			maps.PlaceDetailsFieldMaskFormattedAddress,
		},
	})
	monitoring.ObserveExternal("places", "details", start, err)
	if err != nil {
		s.logger.Warn("place details failed", zap.String("place_id", placeID), zap.Error(err))
		if st := apiStatus(err); st == statusNotFound || st == statusInvalidRequest {
			return Place{}, ErrPlaceNotFound
		}
		return Place{}, fmt.Errorf("places api error: %w", err)
	}

	loc := types.Point{Lat: res.Geometry.Location.Lat, Lng: res.Geometry.Location.Lng}
	if loc.IsZero() {
		return Place{}, ErrPlaceNotFound
	}

	address := res.Name
	if address == "" {
		address = res.FormattedAddress
	}

	// cached without the caller's fallback; other callers pass their own
	p := Place{PlaceID: placeID, Address: address, Location: loc}
	s.details.Add(placeID, p)
	return p.withFallback(fallback), nil
}

func (p Place) withFallback(fallback string) Place {
	if p.Address == "" {
		p.Address = fallback
	}
	return p
}

// Status values the Places web service reports for an unknown place ID.
const (
	statusNotFound       = "NOT_FOUND"
	statusInvalidRequest = "INVALID_REQUEST"
)

// apiStatus extracts the status from the library's "maps: STATUS - message"
// errors. Transport and decoding errors yield "".
func apiStatus(err error) string {
	rest, ok := strings.CutPrefix(err.Error(), "maps: ")
	if !ok {
		return ""
	}
	status, _, ok := strings.Cut(rest, " - ")
	if !ok {
		return ""
	}
	return status
}
