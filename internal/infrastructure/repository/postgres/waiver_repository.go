package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bluelinehq/blueline/internal/domain/waiver"
	qb "github.com/bluelinehq/blueline/internal/platform/querybuilder"
)

type claimTableModel struct {
	ID               int64          `db:"id"`
	PublicID         string         `db:"public_id"`
	LeaguePublicID   string         `db:"league_public_id"`
	TeamPublicID     string         `db:"team_public_id"`
	PlayerToAdd      string         `db:"player_to_add"`
	PlayerToDrop     sql.NullString `db:"player_to_drop"`
	WeekNumber       int            `db:"week_number"`
	PrioritySnapshot int            `db:"priority_snapshot"`
	Status           string         `db:"status"`
	FailureReason    string         `db:"failure_reason"`
	ProcessedAt      *time.Time     `db:"processed_at"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

type WaiverRepository struct {
	db *sqlx.DB
}

func NewWaiverRepository(db *sqlx.DB) *WaiverRepository {
	return &WaiverRepository{db: db}
}

func (r *WaiverRepository) Create(ctx context.Context, claim waiver.Claim) error {
	var playerToDrop sql.NullString
	if claim.PlayerToDrop != nil {
		playerToDrop = sql.NullString{String: *claim.PlayerToDrop, Valid: true}
	}

	query, args, err := qb.InsertInto("waiver_claims").
		Columns(
			"public_id", "league_public_id", "team_public_id",
			"player_to_add", "player_to_drop", "week_number",
			"priority_snapshot", "status", "failure_reason",
			"created_at", "updated_at",
		).
		Values(
			claim.ID, claim.LeagueID, claim.TeamID,
			claim.PlayerToAdd, playerToDrop, claim.WeekNumber,
			claim.PrioritySnapshot, string(claim.Status), claim.FailureReason,
			claim.CreatedAt, claim.CreatedAt,
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert claim query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert claim: %w", err)
	}

	return nil
}

func (r *WaiverRepository) GetByID(ctx context.Context, claimID string) (waiver.Claim, bool, error) {
	query, args, err := qb.Select("*").From("waiver_claims").
		Where(qb.Eq("public_id", claimID)).
		ToSQL()
	if err != nil {
		return waiver.Claim{}, false, fmt.Errorf("build get claim query: %w", err)
	}

	var row claimTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return waiver.Claim{}, false, nil
		}
		return waiver.Claim{}, false, fmt.Errorf("get claim: %w", err)
	}

	return claimFromRow(row), true, nil
}

func (r *WaiverRepository) ListPendingByLeague(ctx context.Context, leagueID string) ([]waiver.Claim, error) {
	query, args, err := qb.Select("*").From("waiver_claims").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("status", string(waiver.StatusPending)),
		).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pending claims query: %w", err)
	}

	var rows []claimTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select pending claims: %w", err)
	}

	out := make([]waiver.Claim, 0, len(rows))
	for _, row := range rows {
		out = append(out, claimFromRow(row))
	}

	return out, nil
}

func (r *WaiverRepository) Update(ctx context.Context, claim waiver.Claim) error {
	query, args, err := qb.Update("waiver_claims").
		Set("status", string(claim.Status)).
		Set("failure_reason", claim.FailureReason).
		Set("processed_at", claim.ProcessedAt).
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("public_id", claim.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update claim query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update claim: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update claim rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("claim %s not found", claim.ID)
	}

	return nil
}

func claimFromRow(row claimTableModel) waiver.Claim {
	claim := waiver.Claim{
		ID:               row.PublicID,
		LeagueID:         row.LeaguePublicID,
		TeamID:           row.TeamPublicID,
		PlayerToAdd:      row.PlayerToAdd,
		WeekNumber:       row.WeekNumber,
		PrioritySnapshot: row.PrioritySnapshot,
		Status:           waiver.Status(row.Status),
		FailureReason:    row.FailureReason,
		ProcessedAt:      row.ProcessedAt,
		CreatedAt:        row.CreatedAt,
	}
	if row.PlayerToDrop.Valid {
		drop := row.PlayerToDrop.String
		claim.PlayerToDrop = &drop
	}
	return claim
}
