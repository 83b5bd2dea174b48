package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
	"github.com/riskibarqy/sportcal/internal/domain/follow"
	qb "github.com/riskibarqy/sportcal/internal/platform/querybuilder"
)

type followTableModel struct {
	UserID     string `db:"user_id"`
	EntityType string `db:"entity_type"`
	EntityID   string `db:"entity_id"`
	Sport      string `db:"sport"`
	Metadata   []byte `db:"metadata"`
}

// FollowRepository reads the follow rows owned by the surrounding
// product. This service never writes them.
type FollowRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) ListByUser(ctx context.Context, userID string) ([]follow.Follow, error) {
	query, args, err := qb.Select("user_id", "entity_type", "entity_id", "sport", "metadata").
		From("follows").
		Where(qb.Eq("user_id", userID)).
		OrderBy("entity_type", "entity_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select follows by user query: %w", err)
	}

	var rows []followTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select follows by user: %w", err)
	}

	out := make([]follow.Follow, 0, len(rows))
	for _, row := range rows {
		item := follow.Follow{
			UserID:     row.UserID,
			EntityType: follow.EntityType(row.EntityType),
			EntityID:   row.EntityID,
			Sport:      fixture.Sport(row.Sport),
		}
		if len(row.Metadata) > 0 {
			if err := sonic.Unmarshal(row.Metadata, &item.Metadata); err != nil {
				return nil, fmt.Errorf("decode follow metadata for user %s entity %s: %w", row.UserID, row.EntityID, err)
			}
		}
		out = append(out, item)
	}
	return out, nil
}

type distinctEntityRow struct {
	EntityType string `db:"entity_type"`
	EntityID   string `db:"entity_id"`
	Sport      string `db:"sport"`
	Season     string `db:"season"`
}

func (r *FollowRepository) DistinctEntities(ctx context.Context) ([]follow.Entity, error) {
	query, args, err := qb.Select(
		"DISTINCT entity_type",
		"entity_id",
		"sport",
		"COALESCE(metadata->>'season', '') AS season",
	).From("follows").
		OrderBy("entity_type", "entity_id", "sport", "season").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select distinct entities query: %w", err)
	}

	var rows []distinctEntityRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select distinct followed entities: %w", err)
	}

	out := make([]follow.Entity, 0, len(rows))
	for _, row := range rows {
		out = append(out, follow.Entity{
			Type:   follow.EntityType(row.EntityType),
			ID:     row.EntityID,
			Sport:  fixture.Sport(row.Sport),
			Season: row.Season,
		})
	}
	return out, nil
}
