package source

import (
	"context"
	"errors"

	"github.com/elonfeng/techcast/internal/store"
	"github.com/elonfeng/techcast/pkg/trend"
)

// Snapshot replays the newest stored snapshot.
type Snapshot struct {
	store store.Store
}

// NewSnapshot creates a snapshot source backed by s.
func NewSnapshot(s store.Store) *Snapshot {
	return &Snapshot{store: s}
}

func (s *Snapshot) Name() Kind { return KindSnapshot }

// Fetch returns no records, and no error, when nothing has been stored.
func (s *Snapshot) Fetch(ctx context.Context) ([]trend.Record, error) {
	_, records, err := s.store.LatestSnapshot(ctx)
	if errors.Is(err, store.ErrNoSnapshot) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}
