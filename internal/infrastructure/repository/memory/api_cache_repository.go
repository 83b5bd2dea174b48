package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/sportcal/internal/domain/apicache"
)

type APICacheRepository struct {
	mu      sync.RWMutex
	entries map[string]apicache.Entry
}

func NewAPICacheRepository() *APICacheRepository {
	return &APICacheRepository{entries: make(map[string]apicache.Entry)}
}

func (r *APICacheRepository) Get(_ context.Context, key apicache.Key) (apicache.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[key.String()]
	return entry, ok, nil
}

func (r *APICacheRepository) Upsert(_ context.Context, entry apicache.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[entry.Key.String()] = entry
	return nil
}
