package postgres

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
	"github.com/riskibarqy/sportcal/internal/domain/fixturechange"
	qb "github.com/riskibarqy/sportcal/internal/platform/querybuilder"
)

type fixtureChangeTableModel struct {
	ID         int64     `db:"id"`
	Sport      string    `db:"sport"`
	FixtureID  string    `db:"fixture_id"`
	ChangeType string    `db:"change_type"`
	OldValue   []byte    `db:"old_value"`
	NewValue   []byte    `db:"new_value"`
	DetectedAt time.Time `db:"detected_at"`
}

type fixtureChangeInsertModel struct {
	Sport      string    `db:"sport"`
	FixtureID  string    `db:"fixture_id"`
	ChangeType string    `db:"change_type"`
	OldValue   []byte    `db:"old_value"`
	NewValue   []byte    `db:"new_value"`
	DetectedAt time.Time `db:"detected_at"`
}

type FixtureChangeRepository struct {
	db *sqlx.DB
}

func NewFixtureChangeRepository(db *sqlx.DB) *FixtureChangeRepository {
	return &FixtureChangeRepository{db: db}
}

func (r *FixtureChangeRepository) InsertBatch(ctx context.Context, changes []fixturechange.Change) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx insert fixture changes: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, change := range changes {
		oldValue, err := sonic.Marshal(change.OldValue)
		if err != nil {
			return fmt.Errorf("encode old snapshot for fixture %s: %w", change.FixtureID, err)
		}
		newValue, err := sonic.Marshal(change.NewValue)
		if err != nil {
			return fmt.Errorf("encode new snapshot for fixture %s: %w", change.FixtureID, err)
		}

		query, args, err := qb.InsertModel("fixture_changes", fixtureChangeInsertModel{
			Sport:      string(change.Sport),
			FixtureID:  change.FixtureID,
			ChangeType: string(change.Type),
			OldValue:   oldValue,
			NewValue:   newValue,
			DetectedAt: change.DetectedAt,
		}, "")
		if err != nil {
			return fmt.Errorf("build insert fixture change query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert fixture change %s/%s: %w", change.Sport, change.FixtureID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert fixture changes tx: %w", err)
	}
	return nil
}

func (r *FixtureChangeRepository) ListRecent(ctx context.Context, limit int) ([]fixturechange.Change, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := qb.Select("*").From("fixture_changes").
		OrderBy("detected_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select recent fixture changes query: %w", err)
	}

	var rows []fixtureChangeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select recent fixture changes: %w", err)
	}

	out := make([]fixturechange.Change, 0, len(rows))
	for _, row := range rows {
		change := fixturechange.Change{
			ID:         row.ID,
			Sport:      fixture.Sport(row.Sport),
			FixtureID:  row.FixtureID,
			Type:       fixturechange.Type(row.ChangeType),
			DetectedAt: row.DetectedAt,
		}
		if err := sonic.Unmarshal(row.OldValue, &change.OldValue); err != nil {
			return nil, fmt.Errorf("decode old snapshot for change %d: %w", row.ID, err)
		}
		if err := sonic.Unmarshal(row.NewValue, &change.NewValue); err != nil {
			return nil, fmt.Errorf("decode new snapshot for change %d: %w", row.ID, err)
		}
		out = append(out, change)
	}
	return out, nil
}
