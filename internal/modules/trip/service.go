// README: Trip service validates parameters, fetches the route once and prices it.
package trip

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"tripcost/internal/maps"
	"tripcost/internal/modules/pricing"
	"tripcost/internal/monitoring"
	"tripcost/internal/types"
)

// DefaultSameLocationToleranceDeg is roughly ten meters.
const DefaultSameLocationToleranceDeg = 1e-4

// Router computes one driving route.
type Router interface {
	ComputeRoute(ctx context.Context, req maps.RouteRequest) (maps.Quote, error)
}

type Service struct {
	router    Router
	catalog   Catalog
	pricing   *pricing.Service
	tolerance float64
	logger    *zap.Logger
	inflight  singleflight.Group
}

func NewService(router Router, catalog Catalog, pricer *pricing.Service, toleranceDeg float64, logger *zap.Logger) *Service {
	if toleranceDeg <= 0 || math.IsNaN(toleranceDeg) {
		toleranceDeg = DefaultSameLocationToleranceDeg
	}
	if pricer == nil {
		pricer = pricing.NewService(pricing.DefaultTollDiscountRate)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		router:    router,
		catalog:   catalog,
		pricing:   pricer,
		tolerance: toleranceDeg,
		logger:    logger,
	}
}

// Calculate validates p, issues one routing call and prices the result.
// Identical requests that arrive while a call is in flight share its result.
func (s *Service) Calculate(ctx context.Context, p Params) (Result, error) {
	consumption, err := Validate(p, s.catalog, s.tolerance)
	if err != nil {
		monitoring.CalculationsTotal.WithLabelValues("invalid").Inc()
		return Result{}, err
	}

	quote, err := s.route(ctx, p)
	if err != nil {
		switch {
		case errors.Is(err, maps.ErrNoRoute):
			monitoring.CalculationsTotal.WithLabelValues("no_route").Inc()
		default:
			monitoring.CalculationsTotal.WithLabelValues("error").Inc()
			s.logger.Error("route lookup failed", zap.Error(err))
		}
		return Result{}, err
	}

	route := RouteData{
		BaseDistanceKm:      quote.DistanceKm(),
		BaseDurationSeconds: quote.DurationSeconds,
		BaseTollCost:        pricing.MinToll(quote.TollPrices),
		TollOptions:         quote.TollPrices,
		TollCurrency:        quote.TollCurrency,
		EncodedPolyline:     quote.EncodedPolyline,
	}
	res, err := s.price(p, consumption, route)
	if err != nil {
		monitoring.CalculationsTotal.WithLabelValues("invalid").Inc()
		return Result{}, err
	}
	if route.EncodedPolyline != "" {
		path, err := maps.DecodePolyline(route.EncodedPolyline)
		if err != nil {
			s.logger.Warn("discarding undecodable polyline", zap.Error(err))
		} else {
			res.Path = path
		}
	}
	monitoring.CalculationsTotal.WithLabelValues("ok").Inc()
	s.logger.Info("trip calculated",
		zap.Float64("distance_km", res.Breakdown.DistanceKm),
		zap.Float64("total_cost", types.Round2(res.Breakdown.TotalCost)),
		zap.Bool("round_trip", p.RoundTrip),
		zap.Bool("toll_discount", p.TollDiscount),
	)
	return res, nil
}

// Recalculate re-derives the breakdown from base route data after a toggle
// change. It never calls the routing service.
func (s *Service) Recalculate(p Params, route RouteData) (Result, error) {
	consumption, err := ResolveConsumption(p, s.catalog)
	if err != nil {
		return Result{}, err
	}
	return s.price(p, consumption, route)
}

func (s *Service) price(p Params, consumption float64, route RouteData) (Result, error) {
	if err := validatePricing(p); err != nil {
		return Result{}, err
	}
	b, err := s.pricing.Calculate(pricing.Request{
		BaseDistanceKm:       route.BaseDistanceKm,
		BaseTollCost:         route.BaseTollCost,
		BaseDurationSeconds:  route.BaseDurationSeconds,
		ConsumptionLPer100Km: consumption,
		FuelPricePerLiter:    p.FuelPrice,
		RoundTrip:            p.RoundTrip,
		TollDiscount:         p.TollDiscount,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Params:      p,
		Consumption: consumption,
		Route:       route,
		Breakdown:   b,
		Display:     b.Display(consumption, p.Passengers),
	}, nil
}

func (s *Service) route(ctx context.Context, p Params) (maps.Quote, error) {
	req := maps.RouteRequest{Origin: p.Origin, Destination: p.Destination}
	switch p.Mode {
	case TravelDepartAt:
		t := p.TravelTime
		req.DepartureTime = &t
	case TravelArriveAt:
		t := p.TravelTime
		req.ArrivalTime = &t
	}

	// The shared call outlives a caller that gives up; the HTTP client timeout bounds it.
	shared := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(routeKey(p), func() (any, error) {
		return s.router.ComputeRoute(shared, req)
	})
	select {
	case <-ctx.Done():
		return maps.Quote{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return maps.Quote{}, fmt.Errorf("compute route: %w", r.Err)
		}
		if r.Shared {
			s.logger.Debug("joined in-flight route lookup")
		}
		return r.Val.(maps.Quote), nil
	}
}

func routeKey(p Params) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	key := f(p.Origin.Lat) + "," + f(p.Origin.Lng) + ">" + f(p.Destination.Lat) + "," + f(p.Destination.Lng) + "|" + string(p.Mode)
	if p.Mode.Scheduled() {
		key += "@" + p.TravelTime.UTC().Format(time.RFC3339)
	}
	return key
}
