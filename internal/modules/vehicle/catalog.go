// README: Static vehicle catalog, embedded at build time and read-only afterwards.
package vehicle

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed vehicles.json
var defaultCatalog []byte

// Catalog is safe for concurrent use; it is never mutated after construction.
type Catalog struct {
	brands []Brand
	index  map[string]map[string]float64
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse builds a catalog from JSON, sorting brands alphabetically.
func Parse(data []byte) (*Catalog, error) {
	var brands []Brand
	if err := json.Unmarshal(data, &brands); err != nil {
		return nil, fmt.Errorf("parse vehicle catalog: %w", err)
	}
	sort.SliceStable(brands, func(i, j int) bool { return brands[i].Brand < brands[j].Brand })

	index := make(map[string]map[string]float64, len(brands))
	for _, b := range brands {
		models := make(map[string]float64, len(b.Models))
		for _, m := range b.Models {
			if m.AvgConsumptionPer100 <= 0 {
				return nil, fmt.Errorf("parse vehicle catalog: %s %s has no consumption", b.Brand, m.Name)
			}
			models[m.Name] = m.AvgConsumptionPer100
		}
		index[b.Brand] = models
	}
	return &Catalog{brands: brands, index: index}, nil
}

// Brands returns a copy of the brand list, sorted by brand name.
func (c *Catalog) Brands() []Brand {
	out := make([]Brand, len(c.brands))
	for i, b := range c.brands {
		out[i] = Brand{Brand: b.Brand, Models: append([]Model(nil), b.Models...)}
	}
	return out
}

// Models lists the models of one brand.
func (c *Catalog) Models(brand string) ([]Model, error) {
	for _, b := range c.brands {
		if b.Brand == brand {
			return append([]Model(nil), b.Models...), nil
		}
	}
	return nil, ErrUnknownBrand
}

// Consumption looks up the average consumption (L/100km) of a brand/model pair.
func (c *Catalog) Consumption(brand, model string) (float64, error) {
	models, ok := c.index[brand]
	if !ok {
		return 0, ErrUnknownBrand
	}
	v, ok := models[model]
	if !ok {
		return 0, ErrUnknownModel
	}
	return v, nil
}
