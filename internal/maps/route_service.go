package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"tripcost/internal/monitoring"
	"tripcost/internal/types"
)

const (
	// DefaultRoutesURL is the Routes API v2 computeRoutes endpoint.
	DefaultRoutesURL = "https://routes.googleapis.com/directions/v2:computeRoutes"

	// routesFieldMask limits the response to the fields the calculator consumes.
	routesFieldMask = "routes.duration,routes.distanceMeters,routes.travelAdvisory.tollInfo,routes.polyline.encodedPolyline"
)

var (
	ErrNoRoute      = errors.New("no route found between the selected points")
	ErrRouteService = errors.New("route service error")
)

// ServiceError carries the status and message returned by the routing service.
type ServiceError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("route service: http %d", e.StatusCode)
	}
	return fmt.Sprintf("route service: http %d %s: %s", e.StatusCode, e.Status, e.Message)
}

func (e *ServiceError) Unwrap() error { return ErrRouteService }

// RouteRequest is one driving route query. At most one of DepartureTime and
// ArrivalTime is expected to be set.
type RouteRequest struct {
	Origin        types.Point
	Destination   types.Point
	DepartureTime *time.Time
	ArrivalTime   *time.Time
}

// Quote is the subset of a computed route the cost calculator uses.
type Quote struct {
	DistanceMeters  int64     `json:"distance_meters"`
	DurationSeconds int64     `json:"duration_seconds"`
	TollPrices      []float64 `json:"toll_prices,omitempty"`
	TollCurrency    string    `json:"toll_currency,omitempty"`
	EncodedPolyline string    `json:"encoded_polyline,omitempty"`
}

func (q Quote) DistanceKm() float64 {
	return float64(q.DistanceMeters) / 1000
}

// RouteService calls the Routes API v2 over HTTPS.
type RouteService struct {
	apiKey     string
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

type RouteOption func(*RouteService)

// WithRoutesURL overrides the computeRoutes endpoint.
func WithRoutesURL(u string) RouteOption {
	return func(s *RouteService) { s.url = u }
}

func WithHTTPClient(c *http.Client) RouteOption {
	return func(s *RouteService) { s.httpClient = c }
}

func WithLogger(l *zap.Logger) RouteOption {
	return func(s *RouteService) { s.logger = l }
}

// NewRouteService creates a RouteService with the given API Key.
func NewRouteService(apiKey string, opts ...RouteOption) (*RouteService, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("routes: missing api key")
	}
	s := &RouteService{
		apiKey:     apiKey,
		url:        DefaultRoutesURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type waypoint struct {
	Location struct {
		LatLng latLng `json:"latLng"`
	} `json:"location"`
}

type computeRoutesRequest struct {
	Origin            waypoint `json:"origin"`
	Destination       waypoint `json:"destination"`
	TravelMode        string   `json:"travelMode"`
	RoutingPreference string   `json:"routingPreference,omitempty"`
	ExtraComputations []string `json:"extraComputations"`
	DepartureTime     string   `json:"departureTime,omitempty"`
	ArrivalTime       string   `json:"arrivalTime,omitempty"`
}

type money struct {
	CurrencyCode string `json:"currencyCode"`
	Units        string `json:"units"`
	Nanos        int32  `json:"nanos"`
}

type computeRoutesResponse struct {
	Routes []struct {
		DistanceMeters int64  `json:"distanceMeters"`
		Duration       string `json:"duration"`
		Polyline       struct {
			EncodedPolyline string `json:"encodedPolyline"`
		} `json:"polyline"`
		TravelAdvisory struct {
			TollInfo *struct {
				EstimatedPrice []money `json:"estimatedPrice"`
			} `json:"tollInfo"`
		} `json:"travelAdvisory"`
	} `json:"routes"`
}

type googleErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func buildWaypoint(p types.Point) waypoint {
	var w waypoint
	w.Location.LatLng = latLng{Latitude: p.Lat, Longitude: p.Lng}
	return w
}

func buildComputeRoutesRequest(req RouteRequest) computeRoutesRequest {
	body := computeRoutesRequest{
		Origin:            buildWaypoint(req.Origin),
		Destination:       buildWaypoint(req.Destination),
		TravelMode:        "DRIVE",
		ExtraComputations: []string{"TOLLS"},
	}
	switch {
	case req.DepartureTime != nil:
		body.DepartureTime = req.DepartureTime.UTC().Format(time.RFC3339)
		body.RoutingPreference = "TRAFFIC_AWARE"
	case req.ArrivalTime != nil:
		body.ArrivalTime = req.ArrivalTime.UTC().Format(time.RFC3339)
	}
	return body
}

// ComputeRoute issues exactly one computeRoutes call. Failures are not retried.
func (s *RouteService) ComputeRoute(ctx context.Context, req RouteRequest) (q Quote, err error) {
	start := time.Now()
	defer func() { monitoring.ObserveExternal("routes", "compute_routes", start, err) }()

	payload, err := json.Marshal(buildComputeRoutesRequest(req))
	if err != nil {
		return Quote{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return Quote{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", s.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", routesFieldMask)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: do request: %v", ErrRouteService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return Quote{}, fmt.Errorf("%w: read response: %v", ErrRouteService, err)
	}

	if resp.StatusCode != http.StatusOK {
		svcErr := &ServiceError{StatusCode: resp.StatusCode}
		var gErr googleErrorBody
		if json.Unmarshal(body, &gErr) == nil {
			svcErr.Status = gErr.Error.Status
			svcErr.Message = gErr.Error.Message
		}
		s.logger.Warn("compute routes failed",
			zap.Int("status", resp.StatusCode),
			zap.String("google_status", svcErr.Status),
			zap.String("message", svcErr.Message),
		)
		return Quote{}, svcErr
	}

	var out computeRoutesResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return Quote{}, fmt.Errorf("%w: decode response: %v", ErrRouteService, err)
	}
	if len(out.Routes) == 0 {
		return Quote{}, ErrNoRoute
	}

	route := out.Routes[0]
	q = Quote{
		DistanceMeters:  route.DistanceMeters,
		DurationSeconds: parseDurationSeconds(route.Duration),
		EncodedPolyline: route.Polyline.EncodedPolyline,
	}
	if route.TravelAdvisory.TollInfo != nil {
		for _, p := range route.TravelAdvisory.TollInfo.EstimatedPrice {
			units, _ := strconv.ParseInt(p.Units, 10, 64)
			q.TollPrices = append(q.TollPrices, types.MoneyFromUnits(units, p.Nanos))
			if q.TollCurrency == "" {
				q.TollCurrency = p.CurrencyCode
			}
		}
	}

	s.logger.Debug("route computed",
		zap.Int64("distance_m", q.DistanceMeters),
		zap.Int64("duration_s", q.DurationSeconds),
		zap.Int("toll_options", len(q.TollPrices)),
	)
	return q, nil
}

// parseDurationSeconds reads the "<n>s" duration encoding; anything else is zero.
func parseDurationSeconds(v string) int64 {
	v = strings.TrimSpace(v)
	if !strings.HasSuffix(v, "s") {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "s"), 64)
	if err != nil || f < 0 {
		return 0
	}
	return int64(f)
}
