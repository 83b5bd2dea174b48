package footballdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const matchesPayload = `{
	"competition": {"name": "UEFA Champions League"},
	"matches": [
		{"id": 1, "stage": "FINAL", "status": "SCHEDULED", "utcDate": "2026-05-30T20:00:00Z",
		 "homeTeam": {"id": null}, "awayTeam": {"id": null}},
		{"id": 2, "stage": "SEMI_FINALS", "status": "SCHEDULED", "utcDate": "2026-04-28T19:00:00Z",
		 "homeTeam": {"id": 5}, "awayTeam": {"id": 9}},
		{"id": 3, "stage": "LEAGUE_STAGE", "status": "SCHEDULED", "utcDate": "2026-01-20T20:00:00Z",
		 "homeTeam": {"id": null}, "awayTeam": {"id": null}},
		{"id": 4, "stage": "QUARTER_FINALS", "status": "FINISHED", "utcDate": "2026-04-07T19:00:00Z",
		 "homeTeam": {"id": null}, "awayTeam": {"id": 7}}
	]
}`

func TestFetchUndrawnKnockoutSlotsFilters(t *testing.T) {
	t.Parallel()

	var gotSeason, gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSeason = r.URL.Query().Get("season")
		gotToken = r.Header.Get("X-Auth-Token")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(matchesPayload))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "test-key", nil)
	slots, err := client.FetchUndrawnKnockoutSlots(context.Background(), 2, "2025-2026")
	require.NoError(t, err)

	// Match 2 has both teams known, match 3 is not a knockout stage,
	// match 4 is already played. Only the final survives.
	require.Len(t, slots, 1)
	require.Equal(t, int64(1), slots[0].MatchID)
	require.Equal(t, "Final", slots[0].Round)
	require.Equal(t, "UEFA Champions League", slots[0].CompetitionName)

	require.Equal(t, "2025", gotSeason)
	require.Equal(t, "test-key", gotToken)
}

func TestFetchUndrawnKnockoutSlotsUnmappedLeague(t *testing.T) {
	t.Parallel()

	client := NewClient(nil, "", "test-key", nil)
	slots, err := client.FetchUndrawnKnockoutSlots(context.Background(), 39, "2025")
	require.NoError(t, err)
	require.Nil(t, slots)
	require.False(t, client.SupportsLeague(39))
	require.True(t, client.SupportsLeague(1))
}

func TestFetchUndrawnKnockoutSlotsUpstreamFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "test-key", nil)
	_, err := client.FetchUndrawnKnockoutSlots(context.Background(), 1, "2026")
	require.Error(t, err)
}

func TestPlaceholderID(t *testing.T) {
	t.Parallel()

	require.Equal(t, "fdo_456789", PlaceholderID(456789))
}
