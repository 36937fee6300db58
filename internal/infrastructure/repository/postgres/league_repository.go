package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bluelinehq/blueline/internal/domain/league"
	qb "github.com/bluelinehq/blueline/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) ListActive(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("is_active", true),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list active leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select active leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueFromRow(row))
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}

	return leagueFromRow(row), true, nil
}

func (r *LeagueRepository) UpdateCurrentWeek(ctx context.Context, leagueID string, weekNumber int) error {
	query, args, err := qb.Update("leagues").
		Set("current_week", weekNumber).
		Set("updated_at", time.Now().UTC()).
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update current week query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update current week: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update current week rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("league %s not found", leagueID)
	}

	return nil
}

func leagueFromRow(row leagueTableModel) league.League {
	return league.League{
		ID:             row.PublicID,
		Name:           row.Name,
		Season:         row.Season,
		CurrentWeek:    row.CurrentWeek,
		WaiversEnabled: row.WaiversEnabled,
		SlotsOffence:   row.SlotsOffence,
		SlotsDefence:   row.SlotsDefence,
		SlotsGoalie:    row.SlotsGoalie,
		SlotsBench:     row.SlotsBench,
		RosterSize:     row.RosterSize,
	}
}
