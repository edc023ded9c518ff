// README: Pricing service turns base route data into a trip cost breakdown.
package pricing

import (
	"fmt"
	"math"

	"tripcost/internal/types"
)

type Service struct {
	discountRate float64
}

// NewService returns a calculator applying discountRate (0..1) to tolls when
// the toll-discount flag is set.
func NewService(discountRate float64) *Service {
	if discountRate < 0 || discountRate >= 1 {
		discountRate = DefaultTollDiscountRate
	}
	return &Service{discountRate: discountRate}
}

func (s *Service) DiscountRate() float64 {
	return s.discountRate
}

// Calculate derives the breakdown from base values only. Round-trip doubling is
// applied before the toll discount; the result never depends on a previous call.
func (s *Service) Calculate(req Request) (Breakdown, error) {
	if req.ConsumptionLPer100Km <= 0 || math.IsNaN(req.ConsumptionLPer100Km) {
		return Breakdown{}, fmt.Errorf("%w: consumption must be positive", ErrInvalidInput)
	}
	if req.FuelPricePerLiter <= 0 || math.IsNaN(req.FuelPricePerLiter) {
		return Breakdown{}, fmt.Errorf("%w: fuel price must be positive", ErrInvalidInput)
	}
	if req.BaseDistanceKm < 0 || req.BaseTollCost < 0 || req.BaseDurationSeconds < 0 {
		return Breakdown{}, fmt.Errorf("%w: negative route data", ErrInvalidInput)
	}

	distanceKm := req.BaseDistanceKm
	tollCost := req.BaseTollCost
	durationSeconds := req.BaseDurationSeconds
	if req.RoundTrip {
		distanceKm *= 2
		tollCost *= 2
		durationSeconds *= 2
	}
	if req.TollDiscount {
		tollCost *= 1 - s.discountRate
	}

	liters := distanceKm * req.ConsumptionLPer100Km / 100
	fuelCost := liters * req.FuelPricePerLiter

	return Breakdown{
		DistanceKm:      distanceKm,
		DurationSeconds: durationSeconds,
		LitersNeeded:    liters,
		FuelCost:        fuelCost,
		TollCost:        tollCost,
		TotalCost:       fuelCost + tollCost,
	}, nil
}

// PerPassenger splits the total evenly. A passenger count below one is treated as one.
func (b Breakdown) PerPassenger(passengers int) float64 {
	if passengers < 1 {
		passengers = 1
	}
	return b.TotalCost / float64(passengers)
}

// Display rounds the breakdown for presentation.
func (b Breakdown) Display(consumption float64, passengers int) Display {
	if passengers < 1 {
		passengers = 1
	}
	return Display{
		Distance:     types.Format2(b.DistanceKm),
		Duration:     FormatDuration(b.DurationSeconds),
		Consumption:  consumption,
		LitersNeeded: types.Format2(b.LitersNeeded),
		FuelCost:     types.Format2(b.FuelCost),
		TollCost:     types.Format2(b.TollCost),
		TotalCost:    types.Format2(b.TotalCost),
		PerPassenger: types.Format2(b.PerPassenger(passengers)),
		Passengers:   passengers,
		HasToll:      types.Round2(b.TollCost) > 0,
	}
}

// FormatDuration renders whole hours and remaining minutes, truncated ("2h 5m").
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
}

// MinToll picks the cheapest toll option (e.g. electronic tag over cash).
// No options means no tolls on the route.
func MinToll(options []float64) float64 {
	if len(options) == 0 {
		return 0
	}
	lowest := options[0]
	for _, v := range options[1:] {
		if v < lowest {
			lowest = v
		}
	}
	return lowest
}
