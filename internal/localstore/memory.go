package localstore

import (
	"context"
	"sync"

	"github.com/gymdesk/gymdesk/internal/models"
)

// MemoryStore keeps the routine list in memory. Used for dry runs and tests.
type MemoryStore struct {
	mu       sync.Mutex
	routines [][]byte
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) ([]models.Routine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Routine, 0, len(m.routines))
	for _, body := range m.routines {
		r, err := decodeBody(body)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Save stores an encoded copy so later changes by the caller are not seen.
func (m *MemoryStore) Save(_ context.Context, routines []models.Routine) error {
	rows, err := encodeRows(routines)
	if err != nil {
		return err
	}
	bodies := make([][]byte, 0, len(rows))
	for _, r := range rows {
		bodies = append(bodies, r.Body)
	}

	m.mu.Lock()
	m.routines = bodies
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error { return nil }
