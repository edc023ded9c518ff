// README: Demo CLI; runs one trip cost calculation against Google Routes and pretty-prints the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/kr/pretty"
	"go.uber.org/zap"

	"tripcost/internal/config"
	"tripcost/internal/maps"
	"tripcost/internal/modules/pricing"
	"tripcost/internal/modules/trip"
	"tripcost/internal/modules/vehicle"
	"tripcost/internal/types"
)

func main() {
	// Obelisco -> Plaza Moreno (La Plata)
	olat := flag.Float64("olat", -34.6037, "origin latitude")
	olng := flag.Float64("olng", -58.3816, "origin longitude")
	dlat := flag.Float64("dlat", -34.9214, "destination latitude")
	dlng := flag.Float64("dlng", -57.9545, "destination longitude")
	brand := flag.String("brand", "Toyota", "vehicle brand")
	model := flag.String("model", "Corolla 2.0", "vehicle model")
	consumption := flag.Float64("consumption", 0, "custom consumption in L/100km, overrides the vehicle")
	fuel := flag.Float64("fuel", 0, "fuel price per liter (default from config)")
	passengers := flag.Int("passengers", 1, "passengers sharing the cost")
	roundTrip := flag.Bool("roundtrip", false, "round trip")
	discount := flag.Bool("discount", false, "apply toll discount")
	mode := flag.String("mode", string(trip.TravelNow), "now, depart_at or arrive_at")
	at := flag.String("time", "", "travel time, 2006-01-02T15:04 in the configured timezone")
	verbose := flag.Bool("v", false, "dump the whole result")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	catalog, err := vehicle.Load()
	if err != nil {
		log.Fatalf("Failed to load vehicle catalog: %v", err)
	}
	routes, err := maps.NewRouteService(cfg.Maps.APIKey,
		maps.WithRoutesURL(cfg.Maps.RoutesURL),
		maps.WithHTTPClient(&http.Client{Timeout: cfg.Maps.HTTPTimeout}),
	)
	if err != nil {
		log.Fatalf("Failed to initialize routes client: %v", err)
	}
	svc := trip.NewService(routes, catalog, pricing.NewService(cfg.Calc.TollDiscountRate),
		cfg.Calc.SameLocationToleranceDeg, zap.NewNop())

	var travelTime time.Time
	if *at != "" {
		travelTime, err = trip.ParseTravelTime(*at, cfg.Location())
		if err != nil {
			log.Fatalf("Invalid time %q: %v", *at, err)
		}
	}

	p := trip.NewParams(cfg.Calc.DefaultFuelPrice).
		WithOrigin(types.Point{Lat: *olat, Lng: *olng}, "").
		WithDestination(types.Point{Lat: *dlat, Lng: *dlng}, "").
		WithVehicle(*brand, *model).
		WithPassengers(*passengers).
		WithRoundTrip(*roundTrip).
		WithTollDiscount(*discount).
		WithTravel(trip.TravelMode(*mode), travelTime)
	if *consumption > 0 {
		p = p.WithConsumption(*consumption)
	}
	if *fuel > 0 {
		p = p.WithFuelPrice(*fuel)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Maps.HTTPTimeout)
	defer cancel()

	res, err := svc.Calculate(ctx, p)
	if err != nil {
		log.Fatalf("Error calculating trip: %v", err)
	}

	if *verbose {
		pretty.Println(res)
		return
	}
	fmt.Printf("Consumption: %.1f L/100km\n", res.Consumption)
	pretty.Println(res.Display)
	fmt.Printf("Share: %s\n", trip.ShareURL(cfg.HTTP.SiteURL+"/", res.Params, cfg.Location()))
}
