// README: Cost calculator inputs and outputs.
package pricing

import "errors"

// DefaultTollDiscountRate is the share taken off tolls when the traveler has a toll discount.
const DefaultTollDiscountRate = 0.30

var ErrInvalidInput = errors.New("invalid calculator input")

// Request carries the base route data (as returned by the last successful
// routing call) together with the trip modifiers.
type Request struct {
	BaseDistanceKm       float64
	BaseTollCost         float64
	BaseDurationSeconds  int64
	ConsumptionLPer100Km float64
	FuelPricePerLiter    float64
	RoundTrip            bool
	TollDiscount         bool
}

// Breakdown is the full-precision result of one calculation.
type Breakdown struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationSeconds int64   `json:"duration_seconds"`
	LitersNeeded    float64 `json:"liters_needed"`
	FuelCost        float64 `json:"fuel_cost"`
	TollCost        float64 `json:"toll_cost"`
	TotalCost       float64 `json:"total_cost"`
}

// Display holds the rounded, human-facing strings for a Breakdown.
type Display struct {
	Distance     string  `json:"distance"`
	Duration     string  `json:"duration"`
	Consumption  float64 `json:"consumption"`
	LitersNeeded string  `json:"liters_needed"`
	FuelCost     string  `json:"fuel_cost"`
	TollCost     string  `json:"toll_cost"`
	TotalCost    string  `json:"total_cost"`
	PerPassenger string  `json:"per_passenger"`
	Passengers   int     `json:"passengers"`
	HasToll      bool    `json:"has_toll"`
}
