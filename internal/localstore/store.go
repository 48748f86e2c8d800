// Package localstore keeps the local fallback copy of the routine list. The
// copy holds routines the backend has not confirmed yet and enriched
// versions of backend routines (exercise lists, checked state).
package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gymdesk/gymdesk/internal/models"
	"github.com/gymdesk/gymdesk/internal/reconcile"
)

// Store loads and saves the whole local routine list.
type Store interface {
	Load(ctx context.Context) ([]models.Routine, error)
	Save(ctx context.Context, routines []models.Routine) error
	Close() error
}

// row is the persisted form of one routine.
type row struct {
	Position int
	Key      string
	Body     []byte
}

func encodeRows(routines []models.Routine) ([]row, error) {
	rows := make([]row, 0, len(routines))
	for i, r := range routines {
		body, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("encoding routine %q: %w", r.Name, err)
		}
		rows = append(rows, row{Position: i, Key: reconcile.Key(r), Body: body})
	}
	return rows, nil
}

func decodeBody(body []byte) (models.Routine, error) {
	var r models.Routine
	if err := json.Unmarshal(body, &r); err != nil {
		return models.Routine{}, fmt.Errorf("decoding routine: %w", err)
	}
	return r, nil
}
