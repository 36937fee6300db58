package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bluelinehq/blueline/internal/domain/roster"
	qb "github.com/bluelinehq/blueline/internal/platform/querybuilder"
)

type assignmentTableModel struct {
	ID             int64     `db:"id"`
	PublicID       string    `db:"public_id"`
	LeaguePublicID string    `db:"league_public_id"`
	TeamPublicID   string    `db:"team_public_id"`
	PlayerPublicID string    `db:"player_public_id"`
	WeekAdded      int       `db:"week_added"`
	WeekDropped    *int      `db:"week_dropped"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Ledger is the postgres roster ledger. Assignment rows are never deleted;
// a drop sets week_dropped. Apply runs inside one transaction and takes row
// locks on every touched player's active assignment, serializing concurrent
// claims and trades that target the same player.
type Ledger struct {
	db *sqlx.DB
}

func NewLedger(db *sqlx.DB) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) GetActiveByPlayer(ctx context.Context, leagueID, playerID string) (roster.Assignment, bool, error) {
	query, args, err := qb.Select("*").From("roster_assignments").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("player_public_id", playerID),
			qb.IsNull("week_dropped"),
		).
		ToSQL()
	if err != nil {
		return roster.Assignment{}, false, fmt.Errorf("build get active assignment query: %w", err)
	}

	var row assignmentTableModel
	if err := l.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Assignment{}, false, nil
		}
		return roster.Assignment{}, false, fmt.Errorf("get active assignment: %w", err)
	}

	return assignmentFromRow(row), true, nil
}

func (l *Ledger) ListActiveByTeam(ctx context.Context, teamID string) ([]roster.Assignment, error) {
	query, args, err := qb.Select("*").From("roster_assignments").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.IsNull("week_dropped"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list active assignments query: %w", err)
	}

	return l.selectAssignments(ctx, query, args)
}

func (l *Ledger) ListByTeam(ctx context.Context, teamID string) ([]roster.Assignment, error) {
	query, args, err := qb.Select("*").From("roster_assignments").
		Where(qb.Eq("team_public_id", teamID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list assignments query: %w", err)
	}

	return l.selectAssignments(ctx, query, args)
}

// Apply commits the mutation as one transaction: every close, open and pick
// transfer lands together or not at all. The partial unique index on active
// (league, player) rows backs the ownership-uniqueness invariant even under
// writers that race past the row locks.
func (l *Ledger) Apply(ctx context.Context, m roster.Mutation) error {
	if m.Empty() {
		return nil
	}

	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()

	const lockQuery = `
SELECT id, week_dropped
FROM roster_assignments
WHERE public_id = $1
FOR UPDATE`

	for _, closeOp := range m.Closes {
		var locked struct {
			ID          int64 `db:"id"`
			WeekDropped *int  `db:"week_dropped"`
		}
		if err := tx.GetContext(ctx, &locked, lockQuery, closeOp.AssignmentID); err != nil {
			if isNotFound(err) {
				return fmt.Errorf("assignment %s not found", closeOp.AssignmentID)
			}
			return fmt.Errorf("lock assignment %s: %w", closeOp.AssignmentID, err)
		}
		if locked.WeekDropped != nil {
			return fmt.Errorf("assignment %s is already closed", closeOp.AssignmentID)
		}

		const closeStmt = `
UPDATE roster_assignments
SET week_dropped = GREATEST($1, week_added), updated_at = $2
WHERE id = $3`
		if _, err := tx.ExecContext(ctx, closeStmt, closeOp.WeekDropped, now, locked.ID); err != nil {
			return fmt.Errorf("close assignment %s: %w", closeOp.AssignmentID, err)
		}
	}

	for _, open := range m.Opens {
		if err := open.Validate(); err != nil {
			return fmt.Errorf("invalid assignment: %w", err)
		}

		const openStmt = `
INSERT INTO roster_assignments
    (public_id, league_public_id, team_public_id, player_public_id, week_added, week_dropped, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NULL, $6, $6)`
		if _, err := tx.ExecContext(ctx, openStmt,
			open.ID, open.LeagueID, open.TeamID, open.PlayerID, open.WeekAdded, now,
		); err != nil {
			return fmt.Errorf("open assignment for player %s: %w", open.PlayerID, err)
		}
	}

	for _, transfer := range m.PickTransfers {
		const transferStmt = `
UPDATE draft_picks
SET team_public_id = $1, updated_at = $2
WHERE public_id = $3`
		result, err := tx.ExecContext(ctx, transferStmt, transfer.ToTeamID, now, transfer.PickID)
		if err != nil {
			return fmt.Errorf("transfer pick %s: %w", transfer.PickID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("transfer pick rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("pick %s not found", transfer.PickID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger tx: %w", err)
	}

	return nil
}

func (l *Ledger) selectAssignments(ctx context.Context, query string, args []any) ([]roster.Assignment, error) {
	var rows []assignmentTableModel
	if err := l.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select assignments: %w", err)
	}

	out := make([]roster.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, assignmentFromRow(row))
	}

	return out, nil
}

func assignmentFromRow(row assignmentTableModel) roster.Assignment {
	return roster.Assignment{
		ID:          row.PublicID,
		LeagueID:    row.LeaguePublicID,
		TeamID:      row.TeamPublicID,
		PlayerID:    row.PlayerPublicID,
		WeekAdded:   row.WeekAdded,
		WeekDropped: row.WeekDropped,
		CreatedAt:   row.CreatedAt,
	}
}
