package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/sportcal/internal/domain/apicache"
	qb "github.com/riskibarqy/sportcal/internal/platform/querybuilder"
)

type apiCacheTableModel struct {
	CacheKey   string    `db:"cache_key"`
	Response   []byte    `db:"response"`
	FetchedAt  time.Time `db:"fetched_at"`
	TTLSeconds int64     `db:"ttl_seconds"`
}

type APICacheRepository struct {
	db *sqlx.DB
}

func NewAPICacheRepository(db *sqlx.DB) *APICacheRepository {
	return &APICacheRepository{db: db}
}

func (r *APICacheRepository) Get(ctx context.Context, key apicache.Key) (apicache.Entry, bool, error) {
	query, args, err := qb.Select("*").From("api_cache").
		Where(qb.Eq("cache_key", key.String())).
		ToSQL()
	if err != nil {
		return apicache.Entry{}, false, fmt.Errorf("build select api cache query: %w", err)
	}

	var row apiCacheTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return apicache.Entry{}, false, nil
		}
		return apicache.Entry{}, false, fmt.Errorf("select api cache entry: %w", err)
	}

	return apicache.Entry{
		Key:        key,
		Payload:    row.Response,
		FetchedAt:  row.FetchedAt,
		TTLSeconds: row.TTLSeconds,
	}, true, nil
}

func (r *APICacheRepository) Upsert(ctx context.Context, entry apicache.Entry) error {
	model := apiCacheTableModel{
		CacheKey:   entry.Key.String(),
		Response:   normalizeJSONColumn(entry.Payload),
		FetchedAt:  entry.FetchedAt,
		TTLSeconds: entry.TTLSeconds,
	}

	query, args, err := qb.InsertModel("api_cache", model, `ON CONFLICT (cache_key)
DO UPDATE SET
    response = EXCLUDED.response,
    fetched_at = EXCLUDED.fetched_at,
    ttl_seconds = EXCLUDED.ttl_seconds`)
	if err != nil {
		return fmt.Errorf("build upsert api cache query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert api cache entry %s: %w", entry.Key.String(), err)
	}
	return nil
}
