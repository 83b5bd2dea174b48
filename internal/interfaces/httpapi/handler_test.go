package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
	"github.com/riskibarqy/sportcal/internal/domain/follow"
	"github.com/riskibarqy/sportcal/internal/domain/user"
	"github.com/riskibarqy/sportcal/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/sportcal/internal/platform/logging"
	"github.com/riskibarqy/sportcal/internal/usecase"
)

type stubVerifier struct{}

func (stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	if token != "good-token" {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return user.Principal{UserID: "user-1", Email: "u1@example.com"}, nil
}

type stubUpstream struct {
	payload []byte
}

func (s stubUpstream) Fetch(_ context.Context, _ fixture.Sport, _ string, _ map[string]string) ([]byte, error) {
	return s.payload, nil
}

func (stubUpstream) DetectError(_ []byte) (string, bool, bool) {
	return "", false, false
}

type stubNormalizer struct{}

func (stubNormalizer) ParseFixtures(_ fixture.Sport, _ []byte, _ time.Time) ([]fixture.Fixture, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	fixtures := memory.NewFixtureRepository()
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	if err := fixtures.UpsertBatch(context.Background(), []fixture.Fixture{{
		ID:         "100",
		Sport:      fixture.SportFootball,
		LeagueID:   39,
		LeagueName: "Premier League",
		Season:     "2026",
		Home:       &fixture.Participant{ID: 33, Name: "Manchester United"},
		Away:       &fixture.Participant{ID: 40, Name: "Liverpool"},
		StartTime:  start,
		Status:     "NS",
	}}); err != nil {
		t.Fatalf("seed fixtures: %v", err)
	}

	follows := memory.NewFollowRepository([]follow.Follow{
		{UserID: "user-1", EntityType: follow.EntityTeam, EntityID: "33", Sport: fixture.SportFootball},
	})
	tokens := memory.NewCalendarTokenRepository(map[string]string{"tok123": "user-1"})

	proxy := usecase.NewProxyService(stubUpstream{payload: []byte(`{"response":[]}`)}, memory.NewAPICacheRepository(), nil, logging.NewNop())
	syncSvc := usecase.NewSyncService(
		follows,
		fixtures,
		memory.NewFixtureChangeRepository(),
		proxy,
		stubNormalizer{},
		usecase.NewPlaceholderService(nil, logging.NewNop()),
		usecase.SyncServiceConfig{Workers: 1},
		logging.NewNop(),
	)
	calendarSvc := usecase.NewCalendarService(follows, fixtures, tokens, logging.NewNop())

	handler := NewHandler(proxy, syncSvc, calendarSvc, slog.New(slog.DiscardHandler))
	return NewRouter(handler, stubVerifier{}, slog.New(slog.DiscardHandler), nil, "cron-secret")
}

func TestGetCalendarFeed_ServesICSWithHeaders(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/calendar/feed/tok123.ics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "text/calendar; charset=utf-8" {
		t.Fatalf("unexpected content type: %s", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="sportcal.ics"` {
		t.Fatalf("unexpected content disposition: %s", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-cache, no-store, must-revalidate" {
		t.Fatalf("unexpected cache control: %s", got)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "BEGIN:VCALENDAR") || !strings.Contains(body, "UID:football-100@sportcal") {
		t.Fatalf("unexpected feed body:\n%s", body)
	}
}

func TestGetCalendarFeed_UnknownTokenIs404(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/calendar/feed/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestListCalendarEvents_RequiresAuth(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/calendar/events", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestListCalendarEvents_ReturnsFollowedFixtures(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/calendar/events", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data []calendarEventDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(body.Data) != 1 {
		t.Fatalf("expected 1 event, got %d", len(body.Data))
	}
	if body.Data[0].ID != "100" || body.Data[0].Home == nil {
		t.Fatalf("unexpected event payload: %+v", body.Data[0])
	}
}

func TestTriggerSync_AcceptsCronSecret(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/sync", nil)
	req.Header.Set("X-Cron-Secret", "cron-secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data usecase.SyncResult `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body.Data.Errors == nil {
		t.Fatalf("expected errors array in sync result")
	}
}

func TestTriggerSync_RejectsWithoutCredentials(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/sync", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestTriggerSync_RejectsInvalidTimeout(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/sync", strings.NewReader(`{"timeout_seconds":-5}`))
	req.Header.Set("X-Cron-Secret", "cron-secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetSyncStatus_ReturnsChangesAndCount(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/sync/status", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data syncStatusDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body.Data.CachedCount != 1 {
		t.Fatalf("expected cached_count=1, got %d", body.Data.CachedCount)
	}
}

func TestProxySportsData_RejectsUnknownSport(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/sports/cricket/fixtures", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestProxySportsData_PassesPayloadThrough(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/sports/football/fixtures?team=33", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"response":[]}` {
		t.Fatalf("unexpected proxied body: %s", got)
	}
}
