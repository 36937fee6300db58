package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bluelinehq/blueline/internal/domain/week"
	qb "github.com/bluelinehq/blueline/internal/platform/querybuilder"
)

type weekTableModel struct {
	ID        int64      `db:"id"`
	Season    int        `db:"season"`
	Number    int        `db:"number"`
	StartsAt  time.Time  `db:"starts_at"`
	UnlockAt  *time.Time `db:"unlock_at"`
	LockAt    *time.Time `db:"lock_at"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

type WeekRepository struct {
	db *sqlx.DB
}

func NewWeekRepository(db *sqlx.DB) *WeekRepository {
	return &WeekRepository{db: db}
}

func (r *WeekRepository) ListBySeason(ctx context.Context, season int) ([]week.Week, error) {
	query, args, err := qb.Select("*").From("weeks").
		Where(qb.Eq("season", season)).
		OrderBy("number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list weeks query: %w", err)
	}

	var rows []weekTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select weeks: %w", err)
	}

	out := make([]week.Week, 0, len(rows))
	for _, row := range rows {
		out = append(out, weekFromRow(row))
	}

	return out, nil
}

func (r *WeekRepository) GetBySeasonAndNumber(ctx context.Context, season, number int) (week.Week, bool, error) {
	query, args, err := qb.Select("*").From("weeks").
		Where(
			qb.Eq("season", season),
			qb.Eq("number", number),
		).
		ToSQL()
	if err != nil {
		return week.Week{}, false, fmt.Errorf("build get week query: %w", err)
	}

	var row weekTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return week.Week{}, false, nil
		}
		return week.Week{}, false, fmt.Errorf("get week: %w", err)
	}

	return weekFromRow(row), true, nil
}

func weekFromRow(row weekTableModel) week.Week {
	return week.Week{
		Season:   row.Season,
		Number:   row.Number,
		StartsAt: row.StartsAt,
		UnlockAt: row.UnlockAt,
		LockAt:   row.LockAt,
	}
}
