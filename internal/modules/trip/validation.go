// README: Input checks that run before any routing call.
package trip

import (
	"fmt"
	"math"
)

// Catalog resolves a vehicle to its average consumption.
type Catalog interface {
	Consumption(brand, model string) (float64, error)
}

// ResolveConsumption returns the manual figure when given, otherwise the
// catalog value for the selected vehicle.
func ResolveConsumption(p Params, catalog Catalog) (float64, error) {
	if p.Consumption != 0 {
		if p.Consumption < 0 || math.IsNaN(p.Consumption) || math.IsInf(p.Consumption, 0) {
			return 0, ErrInvalidConsumption
		}
		return p.Consumption, nil
	}
	if p.Brand == "" || p.Model == "" || catalog == nil {
		return 0, ErrInvalidConsumption
	}
	c, err := catalog.Consumption(p.Brand, p.Model)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidConsumption, err)
	}
	if c <= 0 {
		return 0, ErrInvalidConsumption
	}
	return c, nil
}

// validatePricing covers the fields the calculator itself consumes.
func validatePricing(p Params) error {
	if p.FuelPrice <= 0 || math.IsNaN(p.FuelPrice) || math.IsInf(p.FuelPrice, 0) {
		return ErrInvalidFuelPrice
	}
	if p.Passengers < 1 {
		return ErrInvalidPassengers
	}
	return nil
}

// Validate checks p in the order the form reports problems and returns the
// consumption to use. toleranceDeg is the per-axis distance under which origin
// and destination count as the same place.
func Validate(p Params, catalog Catalog, toleranceDeg float64) (float64, error) {
	if !p.HasEndpoints() {
		return 0, ErrMissingEndpoints
	}
	if !p.Origin.Valid() || !p.Destination.Valid() {
		return 0, fmt.Errorf("%w: coordinates out of range", ErrMissingEndpoints)
	}
	consumption, err := ResolveConsumption(p, catalog)
	if err != nil {
		return 0, err
	}
	if p.Origin.Near(p.Destination, toleranceDeg) {
		return 0, ErrSameLocation
	}
	mode := p.Mode
	if mode == "" {
		mode = TravelNow
	}
	if !mode.Valid() {
		return 0, ErrInvalidMode
	}
	if mode.Scheduled() && p.TravelTime.IsZero() {
		return 0, ErrMissingTravelTime
	}
	if err := validatePricing(p); err != nil {
		return 0, err
	}
	return consumption, nil
}
