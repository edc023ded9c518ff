// README: Saved trip service: read the whole list, change it, write it back.
package savedtrip

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tripcost/internal/modules/trip"
	"tripcost/internal/monitoring"
)

// DefaultMaxTrips bounds one client's list; the oldest entries fall off.
const DefaultMaxTrips = 50

type Service struct {
	store    Store
	maxTrips int
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(store Store, maxTrips int, logger *zap.Logger) *Service {
	if maxTrips <= 0 {
		maxTrips = DefaultMaxTrips
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, maxTrips: maxTrips, logger: logger, now: time.Now}
}

// List returns the client's trips, newest first.
func (s *Service) List(ctx context.Context, clientKey string) ([]SavedTrip, error) {
	trips, err := s.load(ctx, clientKey)
	record("list", err)
	return trips, err
}

func (s *Service) Get(ctx context.Context, clientKey, id string) (SavedTrip, error) {
	trips, err := s.load(ctx, clientKey)
	if err != nil {
		return SavedTrip{}, err
	}
	for _, t := range trips {
		if t.ID == id {
			return t, nil
		}
	}
	return SavedTrip{}, ErrNotFound
}

// Add snapshots p under name and persists the updated list. An empty name is
// derived from the addresses.
func (s *Service) Add(ctx context.Context, clientKey, name string, p trip.Params) (saved SavedTrip, err error) {
	defer func() { record("add", err) }()

	if !p.HasEndpoints() {
		return SavedTrip{}, ErrInvalidTrip
	}
	trips, err := s.load(ctx, clientKey)
	if err != nil {
		return SavedTrip{}, err
	}

	saved = SavedTrip{
		ID:                 uuid.NewString(),
		Name:               tripName(name, p),
		Params:             p,
		OriginAddress:      p.OriginAddress,
		DestinationAddress: p.DestinationAddress,
		SavedAt:            s.now().UTC(),
	}
	next := make([]SavedTrip, 0, len(trips)+1)
	next = append(next, saved)
	next = append(next, trips...)
	if len(next) > s.maxTrips {
		next = next[:s.maxTrips]
	}

	if err := s.store.Save(ctx, clientKey, next); err != nil {
		s.logger.Error("save trip list failed", zap.String("client", clientKey), zap.Error(err))
		return SavedTrip{}, err
	}
	return saved, nil
}

// Delete removes one trip and persists the remaining list.
func (s *Service) Delete(ctx context.Context, clientKey, id string) (err error) {
	defer func() { record("delete", err) }()

	trips, err := s.load(ctx, clientKey)
	if err != nil {
		return err
	}
	next := make([]SavedTrip, 0, len(trips))
	for _, t := range trips {
		if t.ID != id {
			next = append(next, t)
		}
	}
	if len(next) == len(trips) {
		return ErrNotFound
	}
	if err := s.store.Save(ctx, clientKey, next); err != nil {
		s.logger.Error("save trip list failed", zap.String("client", clientKey), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) load(ctx context.Context, clientKey string) ([]SavedTrip, error) {
	if strings.TrimSpace(clientKey) == "" {
		return nil, ErrMissingClient
	}
	trips, err := s.store.Load(ctx, clientKey)
	if errors.Is(err, errCorruptList) {
		s.logger.Warn("discarding corrupt saved trip list", zap.String("client", clientKey), zap.Error(err))
		return []SavedTrip{}, nil
	}
	return trips, err
}

func tripName(name string, p trip.Params) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	o, d := p.OriginAddress, p.DestinationAddress
	if o == "" || d == "" {
		return "Viaje guardado"
	}
	return o + " → " + d
}

func record(op string, err error) {
	status := "success"
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidTrip), errors.Is(err, ErrMissingClient):
		status = "rejected"
	case err != nil:
		status = "error"
	}
	monitoring.SavedTripOperations.WithLabelValues(op, status).Inc()
}
