package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/sportcal/internal/domain/follow"
)

type FollowRepository struct {
	mu      sync.RWMutex
	follows []follow.Follow
}

func NewFollowRepository(follows []follow.Follow) *FollowRepository {
	return &FollowRepository{follows: follows}
}

func (r *FollowRepository) Add(_ context.Context, f follow.Follow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.follows = append(r.follows, f)
	return nil
}

func (r *FollowRepository) ListByUser(_ context.Context, userID string) ([]follow.Follow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]follow.Follow, 0)
	for _, f := range r.follows {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *FollowRepository) DistinctEntities(_ context.Context) ([]follow.Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{}, len(r.follows))
	out := make([]follow.Entity, 0, len(r.follows))
	for _, f := range r.follows {
		entity := follow.Entity{
			Type:   f.EntityType,
			ID:     f.EntityID,
			Sport:  f.Sport,
			Season: f.SeasonOverride(),
		}
		if _, dup := seen[entity.DedupKey()]; dup {
			continue
		}
		seen[entity.DedupKey()] = struct{}{}
		out = append(out, entity)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DedupKey() < out[j].DedupKey()
	})
	return out, nil
}
