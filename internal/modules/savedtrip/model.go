// README: Saved trip snapshots and the list persistence contract.
package savedtrip

import (
	"context"
	"errors"
	"time"

	"tripcost/internal/modules/trip"
)

var (
	ErrNotFound      = errors.New("saved trip not found")
	ErrInvalidTrip   = errors.New("saved trip needs origin and destination")
	ErrMissingClient = errors.New("missing client key")

	errCorruptList = errors.New("corrupt saved trip list")
)

// SavedTrip is a snapshot of the parameters of one calculation.
type SavedTrip struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Params             trip.Params `json:"params"`
	OriginAddress      string      `json:"origin_address"`
	DestinationAddress string      `json:"destination_address"`
	SavedAt            time.Time   `json:"saved_at"`
}

// Store persists one client's whole list as a single document. Save replaces
// whatever was stored before; there is no merge.
type Store interface {
	Load(ctx context.Context, clientKey string) ([]SavedTrip, error)
	Save(ctx context.Context, clientKey string, trips []SavedTrip) error
}
