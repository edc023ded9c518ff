// README: HTTP router registration.
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tripcost/internal/http/handlers"
	"tripcost/internal/http/middleware"
	"tripcost/internal/modules/savedtrip"
	"tripcost/internal/modules/vehicle"
)

type RouterDeps struct {
	Trips         handlers.TripCalculator
	Places        handlers.PlacesLookup
	Saved         *savedtrip.Service
	Catalog       *vehicle.Catalog
	Defaults      handlers.TripDefaults
	DiscountRate  float64
	RateLimit     *middleware.RateLimiter
	SecureCookies bool
	Logger        *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limiter := deps.RateLimit
	if limiter == nil {
		limiter = middleware.NewRateLimiter(5, 10)
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.Logging(logger))
	r.SetHTMLTemplate(handlers.Templates())

	r.GET("/health", handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pageHandler := handlers.NewPageHandler(deps.Trips, deps.Catalog, deps.Defaults, deps.DiscountRate)
	r.GET("/sitemap.xml", pageHandler.Sitemap)

	web := r.Group("/", middleware.ClientID(deps.SecureCookies))
	web.GET("/", limiter.Middleware(), pageHandler.Index)
	web.POST("/calculate", limiter.Middleware(), pageHandler.Calculate)

	api := r.Group("/api", middleware.ClientID(deps.SecureCookies))

	vehicleHandler := handlers.NewVehicleHandler(deps.Catalog)
	api.GET("/vehicles", vehicleHandler.List)

	tripHandler := handlers.NewTripHandler(deps.Trips, deps.Defaults)
	api.POST("/trips/calculate", limiter.Middleware(), tripHandler.Calculate)
	api.POST("/trips/recalculate", tripHandler.Recalculate)

	placesHandler := handlers.NewPlacesHandler(deps.Places)
	api.GET("/places/autocomplete", limiter.Middleware(), placesHandler.Autocomplete)
	api.GET("/places/:id", limiter.Middleware(), placesHandler.Details)

	savedHandler := handlers.NewSavedTripHandler(deps.Saved, deps.Defaults)
	api.GET("/saved-trips", savedHandler.List)
	api.POST("/saved-trips", savedHandler.Create)
	api.GET("/saved-trips/:id", savedHandler.Get)
	api.DELETE("/saved-trips/:id", savedHandler.Delete)

	return r
}
