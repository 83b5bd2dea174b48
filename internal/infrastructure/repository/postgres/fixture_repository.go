package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
	"github.com/riskibarqy/sportcal/internal/domain/follow"
	qb "github.com/riskibarqy/sportcal/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

const cachedFixtureUpsertSuffix = `ON CONFLICT (sport, fixture_id)
DO UPDATE SET
    league_id = EXCLUDED.league_id,
    league_name = EXCLUDED.league_name,
    league_logo = EXCLUDED.league_logo,
    season = EXCLUDED.season,
    home_team_id = EXCLUDED.home_team_id,
    home_team_name = EXCLUDED.home_team_name,
    home_team_logo = EXCLUDED.home_team_logo,
    away_team_id = EXCLUDED.away_team_id,
    away_team_name = EXCLUDED.away_team_name,
    away_team_logo = EXCLUDED.away_team_logo,
    start_time = EXCLUDED.start_time,
    end_time = EXCLUDED.end_time,
    status = EXCLUDED.status,
    venue = EXCLUDED.venue,
    round = EXCLUDED.round,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    player_ids = EXCLUDED.player_ids,
    raw_data = EXCLUDED.raw_data,
    fetched_at = EXCLUDED.fetched_at,
    ttl_seconds = EXCLUDED.ttl_seconds`

func (r *FixtureRepository) UpsertBatch(ctx context.Context, fixtures []fixture.Fixture) error {
	if len(fixtures) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert fixtures: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range fixtures {
		query, args, err := qb.InsertModel("cached_fixtures", newCachedFixtureTableModel(item), cachedFixtureUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert fixture query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert fixture %s: %w", item.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert fixtures tx: %w", err)
	}
	return nil
}

func (r *FixtureRepository) ListByWindow(ctx context.Context, from, to time.Time) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("cached_fixtures").
		Where(
			qb.Gte("start_time", from),
			qb.Lte("start_time", to),
		).
		OrderBy("start_time", "fixture_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixtures by window query: %w", err)
	}

	return r.selectFixtures(ctx, query, args, "select fixtures by window")
}

func (r *FixtureRepository) ListByEntityFollows(ctx context.Context, follows []follow.Follow, from, to *time.Time) ([]fixture.Fixture, error) {
	matchers := make([]qb.Condition, 0, len(follows))
	for _, f := range follows {
		if cond, ok := followCondition(f); ok {
			matchers = append(matchers, cond)
		}
	}
	if len(matchers) == 0 {
		return []fixture.Fixture{}, nil
	}

	conditions := []qb.Condition{qb.Or(matchers...)}
	conditions = appendWindowConditions(conditions, from, to)

	query, args, err := qb.Select("*").From("cached_fixtures").
		Where(conditions...).
		OrderBy("start_time", "fixture_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixtures by follows query: %w", err)
	}

	return r.selectFixtures(ctx, query, args, "select fixtures by follows")
}

func (r *FixtureRepository) ListByPlayerOverlap(ctx context.Context, playerIDs []int64, from, to *time.Time) ([]fixture.Fixture, error) {
	if len(playerIDs) == 0 {
		return []fixture.Fixture{}, nil
	}

	conditions := []qb.Condition{qb.ArrayOverlaps("player_ids", pq.Int64Array(playerIDs))}
	conditions = appendWindowConditions(conditions, from, to)

	query, args, err := qb.Select("*").From("cached_fixtures").
		Where(conditions...).
		OrderBy("start_time", "fixture_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixtures by players query: %w", err)
	}

	return r.selectFixtures(ctx, query, args, "select fixtures by players")
}

func (r *FixtureRepository) DeleteCoveredPlaceholders(ctx context.Context) (int64, error) {
	query, args, err := qb.DeleteFrom("cached_fixtures ph").
		Where(
			qb.Expr("(ph.fixture_id LIKE 'ph\\_%' OR ph.fixture_id LIKE 'fdo\\_%')"),
			qb.Expr(`EXISTS (
    SELECT 1 FROM cached_fixtures drawn
    WHERE drawn.sport = ph.sport
      AND drawn.league_id = ph.league_id
      AND drawn.round = ph.round
      AND drawn.home_team_name IS NOT NULL
      AND drawn.away_team_name IS NOT NULL
      AND drawn.fixture_id NOT LIKE 'ph\_%'
      AND drawn.fixture_id NOT LIKE 'fdo\_%')`),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete covered placeholders query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete covered placeholders: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted placeholders: %w", err)
	}
	return removed, nil
}

func (r *FixtureRepository) Count(ctx context.Context) (int64, error) {
	query, args, err := qb.Select("COUNT(*)").From("cached_fixtures").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count fixtures query: %w", err)
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count fixtures: %w", err)
	}
	return count, nil
}

func (r *FixtureRepository) selectFixtures(ctx context.Context, query string, args []any, label string) ([]fixture.Fixture, error) {
	var rows []cachedFixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// followCondition maps one follow row to its SQL matcher. Player follows
// are handled by the array-overlap query, never here.
func followCondition(f follow.Follow) (qb.Condition, bool) {
	switch f.EntityType {
	case follow.EntitySport:
		return qb.Eq("sport", string(f.Sport)), true
	case follow.EntityLeague:
		leagueID, err := strconv.ParseInt(f.EntityID, 10, 64)
		if err != nil {
			return nil, false
		}
		conditions := []qb.Condition{
			qb.Eq("sport", string(f.Sport)),
			qb.Eq("league_id", leagueID),
		}
		if season := f.SeasonOverride(); season != "" {
			conditions = append(conditions, qb.Eq("season", season))
		}
		return qb.And(conditions...), true
	case follow.EntityTeam:
		teamID, err := strconv.ParseInt(f.EntityID, 10, 64)
		if err != nil {
			return nil, false
		}
		return qb.And(
			qb.Eq("sport", string(f.Sport)),
			qb.Or(
				qb.Eq("home_team_id", teamID),
				qb.Eq("away_team_id", teamID),
			),
		), true
	default:
		return nil, false
	}
}

func appendWindowConditions(conditions []qb.Condition, from, to *time.Time) []qb.Condition {
	if from != nil {
		conditions = append(conditions, qb.Gte("start_time", *from))
	}
	if to != nil {
		conditions = append(conditions, qb.Lte("start_time", *to))
	}
	return conditions
}
