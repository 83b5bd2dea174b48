package memory

import (
	"context"
	"sync"
)

type CalendarTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewCalendarTokenRepository(tokens map[string]string) *CalendarTokenRepository {
	if tokens == nil {
		tokens = make(map[string]string)
	}
	return &CalendarTokenRepository{tokens: tokens}
}

func (r *CalendarTokenRepository) Add(_ context.Context, token, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[token] = userID
	return nil
}

func (r *CalendarTokenRepository) ResolveUserID(_ context.Context, token string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.tokens[token]
	return userID, ok, nil
}
