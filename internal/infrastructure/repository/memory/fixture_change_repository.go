package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/sportcal/internal/domain/fixturechange"
)

type FixtureChangeRepository struct {
	mu      sync.RWMutex
	nextID  int64
	changes []fixturechange.Change
}

func NewFixtureChangeRepository() *FixtureChangeRepository {
	return &FixtureChangeRepository{nextID: 1}
}

func (r *FixtureChangeRepository) InsertBatch(_ context.Context, changes []fixturechange.Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, change := range changes {
		change.ID = r.nextID
		r.nextID++
		r.changes = append(r.changes, change)
	}
	return nil
}

func (r *FixtureChangeRepository) ListRecent(_ context.Context, limit int) ([]fixturechange.Change, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	out := make([]fixturechange.Change, 0, limit)
	for i := len(r.changes) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.changes[i])
	}
	return out, nil
}
