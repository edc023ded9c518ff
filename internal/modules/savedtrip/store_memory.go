// README: In-process saved trip store for development and tests.
package savedtrip

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore keeps each list serialized so callers never share slices with it.
type MemoryStore struct {
	mu    sync.RWMutex
	lists map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lists: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, clientKey string) ([]SavedTrip, error) {
	s.mu.RLock()
	data, ok := s.lists[clientKey]
	s.mu.RUnlock()
	if !ok {
		return []SavedTrip{}, nil
	}
	return decodeList(data)
}

func (s *MemoryStore) Save(_ context.Context, clientKey string, trips []SavedTrip) error {
	data, err := encodeList(trips)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.lists[clientKey] = data
	s.mu.Unlock()
	return nil
}

func encodeList(trips []SavedTrip) ([]byte, error) {
	if trips == nil {
		trips = []SavedTrip{}
	}
	data, err := json.Marshal(trips)
	if err != nil {
		return nil, fmt.Errorf("marshal saved trips: %w", err)
	}
	return data, nil
}

// decodeList returns an empty list for an empty document. A corrupt document
// yields errCorruptList together with an empty list.
func decodeList(data []byte) ([]SavedTrip, error) {
	if len(data) == 0 {
		return []SavedTrip{}, nil
	}
	var trips []SavedTrip
	if err := json.Unmarshal(data, &trips); err != nil {
		return []SavedTrip{}, fmt.Errorf("%w: %v", errCorruptList, err)
	}
	if trips == nil {
		trips = []SavedTrip{}
	}
	return trips, nil
}
