// README: Vehicle catalog entries (brand → models with average consumption).
package vehicle

import "errors"

var (
	ErrUnknownBrand = errors.New("unknown vehicle brand")
	ErrUnknownModel = errors.New("unknown vehicle model")
)

type Model struct {
	Name                 string  `json:"name"`
	AvgConsumptionPer100 float64 `json:"avg_consumption_l_per_100km"`
}

type Brand struct {
	Brand  string  `json:"brand"`
	Models []Model `json:"models"`
}
