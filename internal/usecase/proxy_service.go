package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/sportcal/internal/domain/apicache"
	"github.com/riskibarqy/sportcal/internal/domain/fixture"
	"github.com/riskibarqy/sportcal/internal/platform/cache"
	"github.com/riskibarqy/sportcal/internal/platform/logging"
	"github.com/riskibarqy/sportcal/internal/platform/resilience"
)

// endpointTTLSeconds selects the cache TTL by the first path segment of
// the endpoint. Reference data barely moves; schedule data does.
var endpointTTLSeconds = map[string]int64{
	"leagues":   86400,
	"teams":     86400,
	"players":   86400,
	"standings": 3600,
	"fixtures":  3600,
	"games":     3600,
}

const defaultEndpointTTLSeconds = 3600

func ttlForEndpoint(endpoint string) int64 {
	prefix := strings.Trim(endpoint, "/")
	if idx := strings.IndexByte(prefix, '/'); idx >= 0 {
		prefix = prefix[:idx]
	}
	if ttl, ok := endpointTTLSeconds[prefix]; ok {
		return ttl
	}
	return defaultEndpointTTLSeconds
}

// ProxyService is the error-aware caching layer in front of the
// upstream provider. Every other component reaches the provider through
// it, never directly.
type ProxyService struct {
	client UpstreamClient
	repo   APICacheRepository
	hot    *cache.Store
	flight resilience.SingleFlight
	logger *logging.Logger
}

func NewProxyService(client UpstreamClient, repo APICacheRepository, hot *cache.Store, logger *logging.Logger) *ProxyService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ProxyService{
		client: client,
		repo:   repo,
		hot:    hot,
		logger: logger,
	}
}

// GetOrFetch returns the cached payload when it is fresh and error-free,
// otherwise attempts exactly one live fetch. Failed fetches fall back to
// any stored entry, stale or not; a payload encoding a provider error is
// never cached. One successful error-free fetch produces exactly one
// upsert.
func (s *ProxyService) GetOrFetch(ctx context.Context, sport fixture.Sport, endpoint string, params map[string]string) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProxyService.GetOrFetch")
	defer span.End()

	key := apicache.Key{Sport: sport, Endpoint: endpoint, Params: params}
	cacheKey := key.String()

	if s.hot != nil {
		if value, ok := s.hot.Get(ctx, cacheKey); ok {
			if payload, ok := value.([]byte); ok {
				return payload, nil
			}
		}
	}

	entry, found, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read api cache %s: %w", cacheKey, err)
	}

	now := time.Now()
	if found && entry.Fresh(now) {
		// A stored payload that itself encodes a provider error is never
		// a valid hit, no matter how young it is.
		if _, _, hasErr := s.client.DetectError(entry.Payload); !hasErr {
			return entry.Payload, nil
		}
	}

	out, err, _ := s.flight.Do(cacheKey, func() (any, error) {
		return s.fetchAndStore(ctx, key, entry, found)
	})
	if err != nil {
		return nil, err
	}

	payload, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected cached payload type %T", out)
	}
	return payload, nil
}

func (s *ProxyService) fetchAndStore(ctx context.Context, key apicache.Key, prev apicache.Entry, hasPrev bool) ([]byte, error) {
	cacheKey := key.String()

	fresh, err := s.client.Fetch(ctx, key.Sport, key.Endpoint, key.Params)
	if err != nil {
		if hasPrev {
			s.logger.WarnContext(ctx, "serving stale cache after upstream failure",
				"cache_key", cacheKey, "error", err)
			return prev.Payload, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUpstream, cacheKey, err)
	}

	if message, rateLimited, hasErr := s.client.DetectError(fresh); hasErr {
		if hasPrev {
			s.logger.WarnContext(ctx, "serving stale cache after provider error",
				"cache_key", cacheKey, "provider_error", message, "rate_limited", rateLimited)
			return prev.Payload, nil
		}
		if rateLimited {
			return nil, fmt.Errorf("%w: %s: %s", ErrRateLimited, cacheKey, message)
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrUpstream, cacheKey, message)
	}

	ttl := ttlForEndpoint(key.Endpoint)
	entry := apicache.Entry{
		Key:        key,
		Payload:    fresh,
		FetchedAt:  time.Now(),
		TTLSeconds: ttl,
	}
	if err := s.repo.Upsert(ctx, entry); err != nil {
		// The payload is still good; a cache write failure only costs
		// the next call a refetch.
		s.logger.ErrorContext(ctx, "upsert api cache failed", "cache_key", cacheKey, "error", err)
	}
	if s.hot != nil {
		s.hot.SetWithTTL(ctx, cacheKey, fresh, time.Duration(ttl)*time.Second)
	}
	return fresh, nil
}
