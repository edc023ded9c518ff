// README: Trip parameters value object, travel modes and calculation results.
package trip

import (
	"errors"
	"time"

	"tripcost/internal/modules/pricing"
	"tripcost/internal/types"
)

type TravelMode string

const (
	TravelNow      TravelMode = "now"
	TravelDepartAt TravelMode = "depart_at"
	TravelArriveAt TravelMode = "arrive_at"
)

func (m TravelMode) Valid() bool {
	switch m {
	case TravelNow, TravelDepartAt, TravelArriveAt:
		return true
	}
	return false
}

// Scheduled reports whether the mode needs a concrete travel time.
func (m TravelMode) Scheduled() bool {
	return m == TravelDepartAt || m == TravelArriveAt
}

var (
	ErrInvalidConsumption = errors.New("invalid consumption")
	ErrMissingEndpoints   = errors.New("origin and destination are required")
	ErrSameLocation       = errors.New("origin and destination must differ")
	ErrMissingTravelTime  = errors.New("travel time required for scheduled trips")
	ErrInvalidFuelPrice   = errors.New("invalid fuel price")
	ErrInvalidPassengers  = errors.New("invalid passenger count")
	ErrInvalidMode        = errors.New("invalid travel mode")
)

// Params is everything the user supplies for one calculation. It is a value:
// the With* methods return a modified copy and never touch the receiver.
type Params struct {
	Origin             types.Point `json:"origin"`
	Destination        types.Point `json:"destination"`
	OriginAddress      string      `json:"origin_address,omitempty"`
	DestinationAddress string      `json:"destination_address,omitempty"`
	Brand              string      `json:"brand,omitempty"`
	Model              string      `json:"model,omitempty"`
	// Consumption is a manual L/100km figure. Zero means "use the catalog vehicle".
	Consumption  float64    `json:"consumption,omitempty"`
	FuelPrice    float64    `json:"fuel_price"`
	RoundTrip    bool       `json:"round_trip"`
	TollDiscount bool       `json:"toll_discount"`
	Passengers   int        `json:"passengers"`
	Mode         TravelMode `json:"mode"`
	TravelTime   time.Time  `json:"travel_time"`
}

// NewParams returns parameters with the form defaults applied.
func NewParams(defaultFuelPrice float64) Params {
	return Params{
		FuelPrice:  defaultFuelPrice,
		Passengers: 1,
		Mode:       TravelNow,
	}
}

func (p Params) WithOrigin(pt types.Point, address string) Params {
	p.Origin = pt
	p.OriginAddress = address
	return p
}

func (p Params) WithDestination(pt types.Point, address string) Params {
	p.Destination = pt
	p.DestinationAddress = address
	return p
}

// WithVehicle selects a catalog vehicle and clears any manual consumption.
func (p Params) WithVehicle(brand, model string) Params {
	p.Brand = brand
	p.Model = model
	p.Consumption = 0
	return p
}

func (p Params) WithConsumption(lPer100Km float64) Params {
	p.Consumption = lPer100Km
	return p
}

func (p Params) WithFuelPrice(price float64) Params {
	p.FuelPrice = price
	return p
}

func (p Params) WithRoundTrip(on bool) Params {
	p.RoundTrip = on
	return p
}

func (p Params) WithTollDiscount(on bool) Params {
	p.TollDiscount = on
	return p
}

func (p Params) WithPassengers(n int) Params {
	p.Passengers = n
	return p
}

// WithTravel sets the time-of-travel mode. The time is ignored for TravelNow
// and kept in UTC otherwise, so a stored trip reads back equal.
func (p Params) WithTravel(mode TravelMode, at time.Time) Params {
	p.Mode = mode
	if mode == TravelNow || at.IsZero() {
		at = time.Time{}
	}
	p.TravelTime = at.UTC()
	return p
}

// HasEndpoints reports whether both origin and destination were picked.
func (p Params) HasEndpoints() bool {
	return !p.Origin.IsZero() && !p.Destination.IsZero()
}

// RouteData is the base route data of the last successful routing call. Every
// breakdown is derived from it, never from a previous breakdown.
type RouteData struct {
	BaseDistanceKm      float64   `json:"base_distance_km"`
	BaseDurationSeconds int64     `json:"base_duration_seconds"`
	BaseTollCost        float64   `json:"base_toll_cost"`
	TollOptions         []float64 `json:"toll_options,omitempty"`
	TollCurrency        string    `json:"toll_currency,omitempty"`
	EncodedPolyline     string    `json:"encoded_polyline,omitempty"`
}

// Result is one calculation ready for display.
type Result struct {
	Params      Params            `json:"params"`
	Consumption float64           `json:"consumption"`
	Route       RouteData         `json:"route"`
	Breakdown   pricing.Breakdown `json:"breakdown"`
	Display     pricing.Display   `json:"display"`
	Path        []types.Point     `json:"path,omitempty"`
}
