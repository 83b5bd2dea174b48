package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	qb "github.com/riskibarqy/sportcal/internal/platform/querybuilder"
)

type CalendarTokenRepository struct {
	db *sqlx.DB
}

func NewCalendarTokenRepository(db *sqlx.DB) *CalendarTokenRepository {
	return &CalendarTokenRepository{db: db}
}

func (r *CalendarTokenRepository) ResolveUserID(ctx context.Context, token string) (string, bool, error) {
	query, args, err := qb.Select("user_id").From("calendar_tokens").
		Where(qb.Eq("token", token)).
		ToSQL()
	if err != nil {
		return "", false, fmt.Errorf("build select calendar token query: %w", err)
	}

	var userID string
	if err := r.db.GetContext(ctx, &userID, query, args...); err != nil {
		if isNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("select calendar token: %w", err)
	}
	return userID, true, nil
}
