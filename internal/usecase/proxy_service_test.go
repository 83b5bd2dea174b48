package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/sportcal/internal/domain/apicache"
	"github.com/riskibarqy/sportcal/internal/domain/fixture"
	"github.com/riskibarqy/sportcal/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/sportcal/internal/platform/logging"
	"github.com/riskibarqy/sportcal/internal/usecase"
)

func TestProxyService_FreshHitSkipsFetch(t *testing.T) {
	t.Parallel()

	repo := memory.NewAPICacheRepository()
	key := apicache.Key{Sport: fixture.SportFootball, Endpoint: "fixtures", Params: map[string]string{"team": "33"}}
	require.NoError(t, repo.Upsert(context.Background(), apicache.Entry{
		Key:        key,
		Payload:    []byte(`{"response":[1]}`),
		FetchedAt:  time.Now(),
		TTLSeconds: 3600,
	}))

	client := &fakeUpstream{payload: []byte(`{"response":[2]}`)}
	svc := usecase.NewProxyService(client, repo, nil, logging.NewNop())

	payload, err := svc.GetOrFetch(context.Background(), fixture.SportFootball, "fixtures", map[string]string{"team": "33"})
	require.NoError(t, err)
	require.JSONEq(t, `{"response":[1]}`, string(payload))
	require.Zero(t, client.fetchCount())
}

func TestProxyService_StoredErrorPayloadIsNeverAHit(t *testing.T) {
	t.Parallel()

	repo := memory.NewAPICacheRepository()
	key := apicache.Key{Sport: fixture.SportFootball, Endpoint: "fixtures", Params: nil}
	require.NoError(t, repo.Upsert(context.Background(), apicache.Entry{
		Key:        key,
		Payload:    []byte(`{"provider_error":"token invalid"}`),
		FetchedAt:  time.Now(),
		TTLSeconds: 3600,
	}))

	client := &fakeUpstream{payload: []byte(`{"response":[2]}`)}
	svc := usecase.NewProxyService(client, repo, nil, logging.NewNop())

	payload, err := svc.GetOrFetch(context.Background(), fixture.SportFootball, "fixtures", nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"response":[2]}`, string(payload))
	require.Equal(t, 1, client.fetchCount())
}

func TestProxyService_StaleFallbackOnFetchFailure(t *testing.T) {
	t.Parallel()

	repo := memory.NewAPICacheRepository()
	key := apicache.Key{Sport: fixture.SportBasketball, Endpoint: "games", Params: nil}
	require.NoError(t, repo.Upsert(context.Background(), apicache.Entry{
		Key:        key,
		Payload:    []byte(`{"response":["stale"]}`),
		FetchedAt:  time.Now().Add(-2 * time.Hour),
		TTLSeconds: 3600,
	}))

	client := &fakeUpstream{err: errors.New("connection refused")}
	svc := usecase.NewProxyService(client, repo, nil, logging.NewNop())

	payload, err := svc.GetOrFetch(context.Background(), fixture.SportBasketball, "games", nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"response":["stale"]}`, string(payload))
}

func TestProxyService_FailureClassificationWithoutFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		client  *fakeUpstream
		wantErr error
	}{
		{
			name:    "transport failure",
			client:  &fakeUpstream{err: errors.New("connection refused")},
			wantErr: usecase.ErrUpstream,
		},
		{
			name:    "provider error",
			client:  &fakeUpstream{payload: []byte(`{"provider_error":"token invalid"}`)},
			wantErr: usecase.ErrUpstream,
		},
		{
			name:    "provider rate limit",
			client:  &fakeUpstream{payload: []byte(`{"provider_error":"rate limit reached"}`)},
			wantErr: usecase.ErrRateLimited,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := usecase.NewProxyService(tc.client, memory.NewAPICacheRepository(), nil, logging.NewNop())

			_, err := svc.GetOrFetch(context.Background(), fixture.SportFootball, "fixtures", nil)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestProxyService_ProviderErrorIsNeverCached(t *testing.T) {
	t.Parallel()

	repo := memory.NewAPICacheRepository()
	client := &fakeUpstream{payload: []byte(`{"provider_error":"rate limit reached"}`)}
	svc := usecase.NewProxyService(client, repo, nil, logging.NewNop())

	_, err := svc.GetOrFetch(context.Background(), fixture.SportFootball, "fixtures", nil)
	require.ErrorIs(t, err, usecase.ErrRateLimited)

	key := apicache.Key{Sport: fixture.SportFootball, Endpoint: "fixtures", Params: nil}
	_, found, err := repo.Get(context.Background(), key)
	require.NoError(t, err)
	require.False(t, found)
}

func TestProxyService_SuccessfulFetchStoresEndpointTTL(t *testing.T) {
	t.Parallel()

	repo := memory.NewAPICacheRepository()
	client := &fakeUpstream{payload: []byte(`{"response":[1]}`)}
	svc := usecase.NewProxyService(client, repo, nil, logging.NewNop())

	_, err := svc.GetOrFetch(context.Background(), fixture.SportFootball, "teams", map[string]string{"id": "33"})
	require.NoError(t, err)

	key := apicache.Key{Sport: fixture.SportFootball, Endpoint: "teams", Params: map[string]string{"id": "33"}}
	entry, found, err := repo.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 86400, entry.TTLSeconds)

	// The stored entry satisfies the next call without touching the
	// provider again.
	_, err = svc.GetOrFetch(context.Background(), fixture.SportFootball, "teams", map[string]string{"id": "33"})
	require.NoError(t, err)
	require.Equal(t, 1, client.fetchCount())
}
