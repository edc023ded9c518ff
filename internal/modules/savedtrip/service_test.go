package savedtrip

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"tripcost/internal/modules/pricing"
	"tripcost/internal/modules/trip"
	"tripcost/internal/types"
)

func sampleParams() trip.Params {
	return trip.NewParams(950).
		WithOrigin(types.Point{Lat: -34.6037, Lng: -58.3816}, "Obelisco").
		WithDestination(types.Point{Lat: -38.0055, Lng: -57.5426}, "Mar del Plata").
		WithVehicle("Fiat", "Cronos 1.3").
		WithPassengers(2).
		WithRoundTrip(true)
}

func newTestService(store Store, max int) *Service {
	svc := NewService(store, max, nil)
	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	return svc
}

func TestService_AddListDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemoryStore(), 0)

	first, err := svc.Add(ctx, "client-a", "", sampleParams())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if first.Name != "Obelisco → Mar del Plata" {
		t.Errorf("Name = %q", first.Name)
	}
	if first.ID == "" || first.SavedAt.IsZero() {
		t.Errorf("missing id or timestamp: %+v", first)
	}
	second, err := svc.Add(ctx, "client-a", "  Vacaciones  ", sampleParams().WithRoundTrip(false))
	if err != nil {
		t.Fatal(err)
	}
	if second.Name != "Vacaciones" {
		t.Errorf("Name = %q", second.Name)
	}

	list, err := svc.List(ctx, "client-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", list)
	}

	if err := svc.Delete(ctx, "client-a", first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, _ = svc.List(ctx, "client-a")
	if len(list) != 1 || list[0].ID != second.ID {
		t.Errorf("after delete: %+v", list)
	}
	if err := svc.Delete(ctx, "client-a", first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Get(ctx, "client-a", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get err = %v, want ErrNotFound", err)
	}
}

func TestService_ClientsAreIsolated(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemoryStore(), 0)
	if _, err := svc.Add(ctx, "a", "x", sampleParams()); err != nil {
		t.Fatal(err)
	}
	list, err := svc.List(ctx, "b")
	if err != nil || len(list) != 0 {
		t.Errorf("client b sees %v, %v", list, err)
	}
}

func TestService_Rejections(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemoryStore(), 0)
	if _, err := svc.Add(ctx, "a", "", trip.NewParams(200)); !errors.Is(err, ErrInvalidTrip) {
		t.Errorf("err = %v, want ErrInvalidTrip", err)
	}
	if _, err := svc.List(ctx, " "); !errors.Is(err, ErrMissingClient) {
		t.Errorf("err = %v, want ErrMissingClient", err)
	}
}

func TestService_TrimsOldest(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemoryStore(), 3)
	var ids []string
	for i := 0; i < 5; i++ {
		s, err := svc.Add(ctx, "a", fmt.Sprintf("trip %d", i), sampleParams())
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, s.ID)
	}
	list, _ := svc.List(ctx, "a")
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	if list[0].ID != ids[4] || list[2].ID != ids[2] {
		t.Errorf("unexpected survivors: %v", list)
	}
}

func TestService_CorruptListReadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.lists["a"] = []byte("{not json")
	svc := newTestService(store, 0)

	list, err := svc.List(ctx, "a")
	if err != nil || len(list) != 0 {
		t.Fatalf("List = %v, %v", list, err)
	}
	if _, err := svc.Add(ctx, "a", "", sampleParams()); err != nil {
		t.Fatalf("Add after corrupt list: %v", err)
	}
	list, _ = svc.List(ctx, "a")
	if len(list) != 1 {
		t.Errorf("len = %d, want 1", len(list))
	}
}

type failingStore struct{ *MemoryStore }

func (failingStore) Save(context.Context, string, []SavedTrip) error {
	return errors.New("disk full")
}

func TestService_SaveFailureLeavesListUntouched(t *testing.T) {
	ctx := context.Background()
	store := failingStore{MemoryStore: NewMemoryStore()}
	svc := newTestService(store, 0)
	if _, err := svc.Add(ctx, "a", "", sampleParams()); err == nil {
		t.Fatal("expected error")
	}
	list, _ := svc.List(ctx, "a")
	if len(list) != 0 {
		t.Errorf("list changed after failed save: %v", list)
	}
}

// Reloading a saved trip gives back the same parameters, and with the same
// route data the same breakdown.
func TestSavedTrip_RoundTripReproducesBreakdown(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemoryStore(), 0)

	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	at := time.Date(2026, 3, 10, 6, 0, 0, 0, loc)
	p := sampleParams().WithConsumption(7.3).WithTollDiscount(true).WithTravel(trip.TravelDepartAt, at)
	saved, err := svc.Add(ctx, "a", "", p)
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := svc.Get(ctx, "a", saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Params != p {
		t.Fatalf("params changed:\n got %+v\nwant %+v", loaded.Params, p)
	}

	trips := trip.NewService(nil, nil, pricing.NewService(0.3), 0, nil)
	route := trip.RouteData{BaseDistanceKm: 404.2, BaseDurationSeconds: 15000, BaseTollCost: 1320}
	want, err := trips.Recalculate(p, route)
	if err != nil {
		t.Fatal(err)
	}
	got, err := trips.Recalculate(loaded.Params, route)
	if err != nil {
		t.Fatal(err)
	}
	if got.Breakdown != want.Breakdown || got.Display != want.Display {
		t.Errorf("breakdown differs: %+v vs %+v", got.Breakdown, want.Breakdown)
	}
}
