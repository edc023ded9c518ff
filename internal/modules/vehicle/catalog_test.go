package vehicle

import (
	"errors"
	"sort"
	"testing"
)

func TestLoad_EmbeddedCatalogSorted(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	brands := c.Brands()
	if len(brands) == 0 {
		t.Fatal("expected a non-empty catalog")
	}
	if !sort.SliceIsSorted(brands, func(i, j int) bool { return brands[i].Brand < brands[j].Brand }) {
		t.Errorf("brands are not sorted: %v", brands)
	}
}

func TestCatalog_Consumption(t *testing.T) {
	c, err := Parse([]byte(`[
		{"brand": "Toyota", "models": [{"name": "Etios", "avg_consumption_l_per_100km": 6.3}]},
		{"brand": "Fiat", "models": [{"name": "Cronos", "avg_consumption_l_per_100km": 6.6}]}
	]`))
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.Consumption("Fiat", "Cronos")
	if err != nil || got != 6.6 {
		t.Errorf("Consumption(Fiat, Cronos) = %v, %v", got, err)
	}
	if _, err := c.Consumption("Tesla", "Model 3"); !errors.Is(err, ErrUnknownBrand) {
		t.Errorf("expected ErrUnknownBrand, got %v", err)
	}
	if _, err := c.Consumption("Fiat", "Uno"); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
	if c.Brands()[0].Brand != "Fiat" {
		t.Errorf("first brand = %s, want Fiat", c.Brands()[0].Brand)
	}
}

func TestCatalog_BrandsReturnsCopy(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	b := c.Brands()
	b[0].Models[0].AvgConsumptionPer100 = -1
	if c.Brands()[0].Models[0].AvgConsumptionPer100 == -1 {
		t.Error("catalog mutated through Brands() result")
	}
}

func TestParse_RejectsMissingConsumption(t *testing.T) {
	_, err := Parse([]byte(`[{"brand": "X", "models": [{"name": "Y"}]}]`))
	if err == nil {
		t.Error("expected error for model without consumption")
	}
}

func TestCatalog_Models(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	models, err := c.Models("Toyota")
	if err != nil || len(models) == 0 {
		t.Errorf("Models(Toyota) = %v, %v", models, err)
	}
	if _, err := c.Models("Nope"); !errors.Is(err, ErrUnknownBrand) {
		t.Errorf("expected ErrUnknownBrand, got %v", err)
	}
}
