package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
	"github.com/riskibarqy/sportcal/internal/domain/fixturechange"
	"github.com/riskibarqy/sportcal/internal/domain/follow"
	"github.com/riskibarqy/sportcal/internal/platform/logging"
)

const (
	defaultSyncWindowPast   = 7 * 24 * time.Hour
	defaultSyncWindowFuture = 365 * 24 * time.Hour
	defaultSyncWorkers      = 4
	maxSyncWorkers          = 32
	upsertChunkSize         = 100
)

// FixtureNormalizer turns one provider payload into canonical fixtures.
type FixtureNormalizer interface {
	ParseFixtures(sport fixture.Sport, payload []byte, now time.Time) ([]fixture.Fixture, error)
}

// SyncResult is the summary returned by one orchestrator run. Partial
// success is the normal outcome: per-entity failures land in Errors and
// never abort the remaining entities.
type SyncResult struct {
	Synced  int      `json:"synced"`
	New     int      `json:"new"`
	Updated int      `json:"updated"`
	Changes int      `json:"changes"`
	Errors  []string `json:"errors"`
}

// SyncStatus reports recent change activity for the settings surface.
type SyncStatus struct {
	Changes     []fixturechange.Change `json:"changes"`
	CachedCount int64                  `json:"cached_count"`
}

type SyncServiceConfig struct {
	Workers      int
	WindowPast   time.Duration
	WindowFuture time.Duration
}

// SyncService pulls fixtures for every distinct followed entity across
// all users, diffs them against the stored baseline and upserts the
// result. It owns all writes to the fixture store.
type SyncService struct {
	follows      FollowRepository
	fixtures     FixtureRepository
	changes      ChangeRepository
	proxy        *ProxyService
	normalizer   FixtureNormalizer
	placeholders *PlaceholderService
	workers      int
	windowPast   time.Duration
	windowFuture time.Duration
	logger       *logging.Logger
}

func NewSyncService(
	follows FollowRepository,
	fixtures FixtureRepository,
	changes ChangeRepository,
	proxy *ProxyService,
	normalizer FixtureNormalizer,
	placeholders *PlaceholderService,
	cfg SyncServiceConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultSyncWorkers
	}
	if workers > maxSyncWorkers {
		workers = maxSyncWorkers
	}
	windowPast := cfg.WindowPast
	if windowPast <= 0 {
		windowPast = defaultSyncWindowPast
	}
	windowFuture := cfg.WindowFuture
	if windowFuture <= 0 {
		windowFuture = defaultSyncWindowFuture
	}

	return &SyncService{
		follows:      follows,
		fixtures:     fixtures,
		changes:      changes,
		proxy:        proxy,
		normalizer:   normalizer,
		placeholders: placeholders,
		workers:      workers,
		windowPast:   windowPast,
		windowFuture: windowFuture,
		logger:       logger,
	}
}

// syncState is the shared accumulator for one run. The baseline map is
// read-only after load; everything else is guarded by mu.
type syncState struct {
	mu       sync.Mutex
	baseline map[string]fixture.Fixture
	upserts  []fixture.Fixture
	changes  []fixturechange.Change
	result   SyncResult
}

func (st *syncState) recordError(entity follow.Entity, err error) {
	st.mu.Lock()
	st.result.Errors = append(st.result.Errors,
		fmt.Sprintf("%s/%s/%s: %v", entity.Sport, entity.Type, entity.ID, err))
	st.mu.Unlock()
}

// Sync runs one full synchronization pass. See SyncResult for the
// failure contract; the returned error covers only infrastructure
// failures that make the whole run meaningless.
func (s *SyncService) Sync(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Sync")
	defer span.End()

	entities, err := s.follows.DistinctEntities(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("load distinct followed entities: %w", err)
	}
	if len(entities) == 0 {
		return SyncResult{Errors: []string{}}, nil
	}

	now := time.Now().UTC()
	from := now.Add(-s.windowPast)
	to := now.Add(s.windowFuture)

	baselineRows, err := s.fixtures.ListByWindow(ctx, from, to)
	if err != nil {
		return SyncResult{}, fmt.Errorf("load baseline fixtures: %w", err)
	}
	baseline := make(map[string]fixture.Fixture, len(baselineRows))
	for _, row := range baselineRows {
		baseline[row.Key()] = row
	}

	state := &syncState{
		baseline: baseline,
		result:   SyncResult{Errors: []string{}},
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return SyncResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, entity := range entities {
		// Players are matched to fixtures through the denormalized
		// player-id list, not fetched directly. Whole-sport follows
		// only widen feed queries.
		if entity.Type == follow.EntityPlayer || entity.Type == follow.EntitySport {
			continue
		}

		entity := entity
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			s.syncEntity(ctx, entity, state, from, to, now)
		}); err != nil {
			workers.Done()
			return SyncResult{}, fmt.Errorf("submit entity to worker pool: %w", err)
		}
	}
	workers.Wait()

	if err := s.flushUpserts(ctx, state); err != nil {
		state.result.Errors = append(state.result.Errors, fmt.Sprintf("upsert: %v", err))
	}
	if len(state.changes) > 0 {
		if err := s.changes.InsertBatch(ctx, state.changes); err != nil {
			state.result.Errors = append(state.result.Errors, fmt.Sprintf("insert changes: %v", err))
		}
	}

	if removed, err := s.fixtures.DeleteCoveredPlaceholders(ctx); err != nil {
		state.result.Errors = append(state.result.Errors, fmt.Sprintf("placeholder cleanup: %v", err))
	} else if removed > 0 {
		s.logger.InfoContext(ctx, "retired covered placeholder fixtures", "removed", removed)
	}

	return state.result, nil
}

func (s *SyncService) syncEntity(ctx context.Context, entity follow.Entity, state *syncState, from, to, now time.Time) {
	fetched, err := s.fetchEntityFixtures(ctx, entity, from, to, now)
	if err != nil {
		state.recordError(entity, err)
		return
	}

	if entity.Type == follow.EntityLeague && entity.Sport == fixture.SportFootball {
		leagueID, ok := parseLeagueID(entity.ID)
		if ok {
			season := entity.Season
			if season == "" {
				season = fixture.CurrentSeason(entity.Sport, now)
			}
			rows, phErr := s.placeholders.Generate(ctx, leagueID, season)
			if phErr != nil {
				state.recordError(entity, phErr)
			}
			fetched = append(fetched, rows...)
		}
	}

	for _, item := range fetched {
		if item.StartTime.Before(from) || item.StartTime.After(to) {
			continue
		}
		s.processFixture(item, state, now)
	}
}

func (s *SyncService) fetchEntityFixtures(ctx context.Context, entity follow.Entity, from, to, now time.Time) ([]fixture.Fixture, error) {
	endpoint := "fixtures"
	if entity.Sport != fixture.SportFootball {
		endpoint = "games"
	}

	paramKey := "league"
	if entity.Type == follow.EntityTeam {
		paramKey = "team"
	}

	season := entity.Season
	if season == "" {
		season = fixture.CurrentSeason(entity.Sport, now)
	}

	params := map[string]string{
		paramKey: entity.ID,
		"season": season,
	}
	if entity.Sport == fixture.SportFootball {
		params["from"] = from.Format("2006-01-02")
		params["to"] = to.Format("2006-01-02")
	}

	payload, err := s.proxy.GetOrFetch(ctx, entity.Sport, endpoint, params)
	if err != nil {
		return nil, err
	}

	return s.normalizer.ParseFixtures(entity.Sport, payload, now)
}

func (s *SyncService) processFixture(item fixture.Fixture, state *syncState, now time.Time) {
	key := item.Key()

	state.mu.Lock()
	defer state.mu.Unlock()

	prev, exists := state.baseline[key]
	if exists && !prev.Stale(now) {
		// Fresh baseline rows skip the compare-and-write entirely.
		return
	}

	if exists {
		if change := fixturechange.Detect(prev, item, now); change != nil {
			state.changes = append(state.changes, *change)
			state.result.Changes++
		}
		state.result.Updated++
	} else {
		state.result.New++
	}

	item.FetchedAt = now
	item.TTLSeconds = computeTTLSeconds(item.Status, item.StartTime, now)
	state.upserts = append(state.upserts, item)
	state.result.Synced++

	// Later duplicates of the same fixture (a team follow and its league
	// follow both return it) hit the fresh-baseline skip above.
	state.baseline[key] = item
}

func (s *SyncService) flushUpserts(ctx context.Context, state *syncState) error {
	for start := 0; start < len(state.upserts); start += upsertChunkSize {
		end := start + upsertChunkSize
		if end > len(state.upserts) {
			end = len(state.upserts)
		}
		if err := s.fixtures.UpsertBatch(ctx, state.upserts[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// Status returns the recent change log and the cached fixture count.
func (s *SyncService) Status(ctx context.Context) (SyncStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Status")
	defer span.End()

	changes, err := s.changes.ListRecent(ctx, 20)
	if err != nil {
		return SyncStatus{}, fmt.Errorf("list recent fixture changes: %w", err)
	}
	count, err := s.fixtures.Count(ctx)
	if err != nil {
		return SyncStatus{}, fmt.Errorf("count cached fixtures: %w", err)
	}
	if changes == nil {
		changes = []fixturechange.Change{}
	}
	return SyncStatus{Changes: changes, CachedCount: count}, nil
}

// computeTTLSeconds picks each row's own refresh window from its status
// and start time. Finished fixtures are immutable; a past-but-unfinished
// fixture is ambiguous (possibly live) and re-checked often.
func computeTTLSeconds(status string, start, now time.Time) int64 {
	if fixture.IsFinishedStatus(status) {
		return 86400
	}
	diff := start.Sub(now)
	switch {
	case diff < 0:
		return 3600
	case diff < 24*time.Hour:
		return 300
	case diff < 7*24*time.Hour:
		return 3600
	default:
		return 21600
	}
}

func parseLeagueID(raw string) (int64, bool) {
	var id int64
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
		id = id*10 + int64(r-'0')
	}
	if raw == "" || id <= 0 {
		return 0, false
	}
	return id, true
}
