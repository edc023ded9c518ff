// README: Entry point; loads config, wires the saved-trip store, Google clients and services, starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripcost/internal/config"
	httptransport "tripcost/internal/http"
	"tripcost/internal/http/handlers"
	"tripcost/internal/http/middleware"
	"tripcost/internal/infra"
	"tripcost/internal/maps"
	"tripcost/internal/modules/pricing"
	"tripcost/internal/modules/savedtrip"
	"tripcost/internal/modules/trip"
	"tripcost/internal/modules/vehicle"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.NewLogger(cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("tripcost-api stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	store, closeStore, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	routes, err := maps.NewRouteService(cfg.Maps.APIKey,
		maps.WithRoutesURL(cfg.Maps.RoutesURL),
		maps.WithHTTPClient(&http.Client{Timeout: cfg.Maps.HTTPTimeout}),
		maps.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("routes client: %w", err)
	}
	places, err := maps.NewPlacesService(cfg.Maps.APIKey, cfg.Maps.Language, cfg.Maps.Region, logger)
	if err != nil {
		return fmt.Errorf("places client: %w", err)
	}

	catalog, err := vehicle.Load()
	if err != nil {
		return fmt.Errorf("vehicle catalog: %w", err)
	}

	pricingSvc := pricing.NewService(cfg.Calc.TollDiscountRate)
	tripSvc := trip.NewService(routes, catalog, pricingSvc, cfg.Calc.SameLocationToleranceDeg, logger)
	savedSvc := savedtrip.NewService(store, cfg.Store.MaxTrips, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Trips:   tripSvc,
		Places:  places,
		Saved:   savedSvc,
		Catalog: catalog,
		Defaults: handlers.TripDefaults{
			FuelPrice: cfg.Calc.DefaultFuelPrice,
			Location:  cfg.Location(),
			SiteURL:   cfg.HTTP.SiteURL,
		},
		DiscountRate:  pricingSvc.DiscountRate(),
		RateLimit:     middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		SecureCookies: cfg.IsProduction(),
		Logger:        logger,
	})

	server := httptransport.NewServer(httptransport.ServerConfig{
		Addr:            cfg.HTTP.Addr,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}, router, logger)

	logger.Info("tripcost-api starting",
		zap.String("env", cfg.Env),
		zap.String("store", cfg.Store.Driver),
		zap.Int("vehicle_brands", len(catalog.Brands())),
	)
	return server.Run(ctx)
}

func openStore(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (savedtrip.Store, func(), error) {
	switch cfg.Driver {
	case config.StoreRedis:
		client, err := infra.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.ConnectWait, logger)
		if err != nil {
			return nil, nil, err
		}
		return savedtrip.NewRedisStore(client, cfg.RedisPrefix, cfg.TTL), func() { _ = client.Close() }, nil
	case config.StorePostgres:
		pool, err := infra.NewDB(ctx, cfg.DSN, cfg.ConnectWait, logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Migrate {
			if err := infra.Migrate(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		return savedtrip.NewPGStore(pool), pool.Close, nil
	default:
		logger.Warn("saved trips are kept in memory and lost on restart")
		return savedtrip.NewMemoryStore(), func() {}, nil
	}
}
