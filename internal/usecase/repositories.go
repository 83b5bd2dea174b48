package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/sportcal/internal/domain/apicache"
	"github.com/riskibarqy/sportcal/internal/domain/fixture"
	"github.com/riskibarqy/sportcal/internal/domain/fixturechange"
	"github.com/riskibarqy/sportcal/internal/domain/follow"
)

// APICacheRepository stores upstream responses keyed by request
// signature. Entries are overwritten in place and never deleted.
type APICacheRepository interface {
	Get(ctx context.Context, key apicache.Key) (apicache.Entry, bool, error)
	Upsert(ctx context.Context, entry apicache.Entry) error
}

// FixtureRepository is the durable canonical fixture store. Writes are
// idempotent upserts keyed by (sport, fixture_id).
type FixtureRepository interface {
	UpsertBatch(ctx context.Context, fixtures []fixture.Fixture) error
	// ListByWindow returns fixtures whose start time falls inside
	// [from, to], keyed comparison baseline for a sync run.
	ListByWindow(ctx context.Context, from, to time.Time) ([]fixture.Fixture, error)
	// ListByEntityFollows matches league, team and sport follows. A nil
	// from/to means no window bound. Results are ordered by start time.
	ListByEntityFollows(ctx context.Context, follows []follow.Follow, from, to *time.Time) ([]fixture.Fixture, error)
	// ListByPlayerOverlap returns fixtures whose denormalized player-id
	// list intersects the given ids.
	ListByPlayerOverlap(ctx context.Context, playerIDs []int64, from, to *time.Time) ([]fixture.Fixture, error)
	// DeleteCoveredPlaceholders removes synthetic rows for any
	// (sport, league, round) that a real fixture with both participants
	// known has since covered.
	DeleteCoveredPlaceholders(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// ChangeRepository is the append-only fixture change log.
type ChangeRepository interface {
	InsertBatch(ctx context.Context, changes []fixturechange.Change) error
	ListRecent(ctx context.Context, limit int) ([]fixturechange.Change, error)
}

// FollowRepository reads the externally-owned follow store.
type FollowRepository interface {
	ListByUser(ctx context.Context, userID string) ([]follow.Follow, error)
	// DistinctEntities returns the system-wide deduplicated projection
	// used as the sync fan-out set.
	DistinctEntities(ctx context.Context) ([]follow.Entity, error)
}

// CalendarTokenRepository resolves opaque feed tokens to user ids.
type CalendarTokenRepository interface {
	ResolveUserID(ctx context.Context, token string) (userID string, found bool, err error)
}

// UpstreamClient is the raw provider fetcher behind the response cache.
type UpstreamClient interface {
	Fetch(ctx context.Context, sport fixture.Sport, endpoint string, params map[string]string) ([]byte, error)
	// DetectError inspects a 2xx payload for the provider's in-band
	// error envelope.
	DetectError(payload []byte) (message string, rateLimited bool, found bool)
}

// SecondaryScheduleSource supplies knockout slots the primary provider
// has not published yet. Failures are non-fatal to sync.
type SecondaryScheduleSource interface {
	SupportsLeague(leagueID int64) bool
	FetchUndrawnKnockoutSlots(ctx context.Context, leagueID int64, season string) ([]SecondarySlot, error)
}

// SecondarySlot is one undrawn knockout slot from the secondary source.
type SecondarySlot struct {
	MatchID         int64
	CompetitionName string
	Round           string
	StartTime       time.Time
	RawData         []byte
}
