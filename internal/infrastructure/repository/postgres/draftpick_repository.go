package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bluelinehq/blueline/internal/domain/draftpick"
	qb "github.com/bluelinehq/blueline/internal/platform/querybuilder"
)

type pickTableModel struct {
	ID             int64     `db:"id"`
	PublicID       string    `db:"public_id"`
	LeaguePublicID string    `db:"league_public_id"`
	TeamPublicID   string    `db:"team_public_id"`
	Season         int       `db:"season"`
	Round          int       `db:"round"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// DraftPickRepository reads draft picks; ownership changes go through the
// ledger's pick transfers so they share the trade's transaction.
type DraftPickRepository struct {
	db *sqlx.DB
}

func NewDraftPickRepository(db *sqlx.DB) *DraftPickRepository {
	return &DraftPickRepository{db: db}
}

func (r *DraftPickRepository) GetByID(ctx context.Context, pickID string) (draftpick.Pick, bool, error) {
	query, args, err := qb.Select("*").From("draft_picks").
		Where(qb.Eq("public_id", pickID)).
		ToSQL()
	if err != nil {
		return draftpick.Pick{}, false, fmt.Errorf("build get pick query: %w", err)
	}

	var row pickTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return draftpick.Pick{}, false, nil
		}
		return draftpick.Pick{}, false, fmt.Errorf("get pick: %w", err)
	}

	return pickFromRow(row), true, nil
}

func (r *DraftPickRepository) ListByTeam(ctx context.Context, teamID string) ([]draftpick.Pick, error) {
	query, args, err := qb.Select("*").From("draft_picks").
		Where(qb.Eq("team_public_id", teamID)).
		OrderBy("season", "round", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list picks query: %w", err)
	}

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select picks: %w", err)
	}

	out := make([]draftpick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, pickFromRow(row))
	}

	return out, nil
}

func pickFromRow(row pickTableModel) draftpick.Pick {
	return draftpick.Pick{
		ID:       row.PublicID,
		LeagueID: row.LeaguePublicID,
		TeamID:   row.TeamPublicID,
		Season:   row.Season,
		Round:    row.Round,
	}
}
