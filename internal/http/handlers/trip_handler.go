// README: Trip handlers: calculate through the routing service, recalculate from base data.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tripcost/internal/modules/trip"
	"tripcost/internal/types"
)

// TripCalculator is the part of trip.Service the handlers use.
type TripCalculator interface {
	Calculate(ctx context.Context, p trip.Params) (trip.Result, error)
	Recalculate(p trip.Params, route trip.RouteData) (trip.Result, error)
}

// TripDefaults carries what the handlers need to build and share parameters.
type TripDefaults struct {
	FuelPrice float64
	Location  *time.Location
	SiteURL   string
}

func (d TripDefaults) params() trip.Params {
	return trip.NewParams(d.FuelPrice)
}

func (d TripDefaults) shareURL(p trip.Params) string {
	return trip.ShareURL(strings.TrimRight(d.SiteURL, "/")+"/", p, d.Location)
}

type TripHandler struct {
	trips    TripCalculator
	defaults TripDefaults
}

func NewTripHandler(trips TripCalculator, defaults TripDefaults) *TripHandler {
	return &TripHandler{trips: trips, defaults: defaults}
}

type tripReq struct {
	Origin             *types.Point `json:"origin"`
	Destination        *types.Point `json:"destination"`
	OriginAddress      string       `json:"origin_address"`
	DestinationAddress string       `json:"destination_address"`
	Brand              string       `json:"brand"`
	Model              string       `json:"model"`
	Consumption        float64      `json:"consumption"`
	FuelPrice          *float64     `json:"fuel_price"`
	RoundTrip          bool         `json:"round_trip"`
	TollDiscount       bool         `json:"toll_discount"`
	Passengers         *int         `json:"passengers"`
	Mode               string       `json:"mode"`
	TravelTime         string       `json:"travel_time"`
}

// toParams overlays the request on the defaults. A malformed travel time is
// reported the same way as a missing one.
func (r tripReq) toParams(d TripDefaults) (trip.Params, error) {
	p := d.params()
	if r.Origin != nil {
		p = p.WithOrigin(*r.Origin, strings.TrimSpace(r.OriginAddress))
	}
	if r.Destination != nil {
		p = p.WithDestination(*r.Destination, strings.TrimSpace(r.DestinationAddress))
	}
	if r.Brand != "" || r.Model != "" {
		p = p.WithVehicle(r.Brand, r.Model)
	}
	if r.Consumption != 0 {
		p = p.WithConsumption(r.Consumption)
	}
	if r.FuelPrice != nil {
		p = p.WithFuelPrice(*r.FuelPrice)
	}
	if r.Passengers != nil {
		p = p.WithPassengers(*r.Passengers)
	}
	p = p.WithRoundTrip(r.RoundTrip).WithTollDiscount(r.TollDiscount)

	if r.Mode != "" {
		at, err := trip.ParseTravelTime(r.TravelTime, d.Location)
		if err != nil {
			return p, trip.ErrMissingTravelTime
		}
		p = p.WithTravel(trip.TravelMode(r.Mode), at)
	}
	return p, nil
}

type tripResp struct {
	Result   trip.Result `json:"result"`
	ShareURL string      `json:"share_url"`
}

func (h *TripHandler) Calculate(c *gin.Context) {
	var req tripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := req.toParams(h.defaults)
	if err != nil {
		writeTripError(c, err)
		return
	}
	res, err := h.trips.Calculate(c.Request.Context(), p)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, tripResp{Result: res, ShareURL: h.defaults.shareURL(p)})
}

type recalculateReq struct {
	Params tripReq        `json:"params"`
	Route  trip.RouteData `json:"route"`
}

// Recalculate re-derives the breakdown after a toggle change using the base
// route data the client got from Calculate.
func (h *TripHandler) Recalculate(c *gin.Context) {
	var req recalculateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Route.BaseDistanceKm < 0 || req.Route.BaseTollCost < 0 || req.Route.BaseDurationSeconds < 0 {
		writeError(c, http.StatusBadRequest, "invalid route data")
		return
	}
	p, err := req.Params.toParams(h.defaults)
	if err != nil {
		writeTripError(c, err)
		return
	}
	res, err := h.trips.Recalculate(p, req.Route)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, tripResp{Result: res, ShareURL: h.defaults.shareURL(p)})
}
