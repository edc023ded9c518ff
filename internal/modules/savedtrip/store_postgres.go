// README: Saved trip lists in PostgreSQL, one jsonb row per client key.
package savedtrip

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Load(ctx context.Context, clientKey string) ([]SavedTrip, error) {
	var data []byte
	err := s.db.QueryRow(ctx, `
        SELECT trips
        FROM saved_trip_lists
        WHERE client_key = $1`, clientKey,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return []SavedTrip{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select saved trips: %w", err)
	}
	return decodeList(data)
}

func (s *PGStore) Save(ctx context.Context, clientKey string, trips []SavedTrip) error {
	data, err := encodeList(trips)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
        INSERT INTO saved_trip_lists (client_key, trips, updated_at)
        VALUES ($1, $2::jsonb, now())
        ON CONFLICT (client_key) DO UPDATE SET
            trips = EXCLUDED.trips,
            updated_at = EXCLUDED.updated_at`,
		clientKey, string(data),
	)
	if err != nil {
		return fmt.Errorf("upsert saved trips: %w", err)
	}
	return nil
}
