package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bluelinehq/blueline/internal/domain/trade"
	qb "github.com/bluelinehq/blueline/internal/platform/querybuilder"
)

type tradeTableModel struct {
	ID                    int64      `db:"id"`
	PublicID              string     `db:"public_id"`
	LeaguePublicID        string     `db:"league_public_id"`
	ProposingTeamPublicID string     `db:"proposing_team_public_id"`
	ReceivingTeamPublicID string     `db:"receiving_team_public_id"`
	Status                string     `db:"status"`
	FailureReason         string     `db:"failure_reason"`
	ExecutedAt            *time.Time `db:"executed_at"`
	CreatedAt             time.Time  `db:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at"`
}

type tradeItemTableModel struct {
	ID                 int64     `db:"id"`
	PublicID           string    `db:"public_id"`
	TradePublicID      string    `db:"trade_public_id"`
	Kind               string    `db:"kind"`
	RefPublicID        string    `db:"ref_public_id"`
	SourceTeamPublicID string    `db:"source_team_public_id"`
	CreatedAt          time.Time `db:"created_at"`
}

type TradeRepository struct {
	db *sqlx.DB
}

func NewTradeRepository(db *sqlx.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

func (r *TradeRepository) Create(ctx context.Context, t trade.Trade) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create trade tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const tradeStmt = `
INSERT INTO trades
    (public_id, league_public_id, proposing_team_public_id, receiving_team_public_id,
     status, failure_reason, executed_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`
	if _, err := tx.ExecContext(ctx, tradeStmt,
		t.ID, t.LeagueID, t.ProposingTeamID, t.ReceivingTeamID,
		string(t.Status), t.FailureReason, t.ExecutedAt, t.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}

	const itemStmt = `
INSERT INTO trade_items
    (public_id, trade_public_id, kind, ref_public_id, source_team_public_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	for _, item := range t.Items {
		if _, err := tx.ExecContext(ctx, itemStmt,
			item.ID, t.ID, string(item.Kind), item.RefID, item.SourceTeamID, t.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert trade item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create trade tx: %w", err)
	}

	return nil
}

func (r *TradeRepository) GetByID(ctx context.Context, tradeID string) (trade.Trade, bool, error) {
	query, args, err := qb.Select("*").From("trades").
		Where(qb.Eq("public_id", tradeID)).
		ToSQL()
	if err != nil {
		return trade.Trade{}, false, fmt.Errorf("build get trade query: %w", err)
	}

	var row tradeTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return trade.Trade{}, false, nil
		}
		return trade.Trade{}, false, fmt.Errorf("get trade: %w", err)
	}

	items, err := r.listItems(ctx, []string{row.PublicID})
	if err != nil {
		return trade.Trade{}, false, err
	}

	return tradeFromRow(row, items[row.PublicID]), true, nil
}

func (r *TradeRepository) ListAcceptedUnexecuted(ctx context.Context, leagueID string) ([]trade.Trade, error) {
	query, args, err := qb.Select("*").From("trades").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("status", string(trade.StatusAccepted)),
			qb.IsNull("executed_at"),
		).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list accepted trades query: %w", err)
	}

	var rows []tradeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select accepted trades: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	tradeIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		tradeIDs = append(tradeIDs, row.PublicID)
	}
	items, err := r.listItems(ctx, tradeIDs)
	if err != nil {
		return nil, err
	}

	out := make([]trade.Trade, 0, len(rows))
	for _, row := range rows {
		out = append(out, tradeFromRow(row, items[row.PublicID]))
	}

	return out, nil
}

func (r *TradeRepository) Update(ctx context.Context, t trade.Trade) error {
	query, args, err := qb.Update("trades").
		Set("status", string(t.Status)).
		Set("failure_reason", t.FailureReason).
		Set("executed_at", t.ExecutedAt).
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("public_id", t.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update trade query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update trade: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update trade rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("trade %s not found", t.ID)
	}

	return nil
}

func (r *TradeRepository) listItems(ctx context.Context, tradeIDs []string) (map[string][]trade.Item, error) {
	ids := make([]any, 0, len(tradeIDs))
	for _, id := range tradeIDs {
		ids = append(ids, id)
	}

	query, args, err := qb.Select("*").From("trade_items").
		Where(qb.In("trade_public_id", ids)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list trade items query: %w", err)
	}

	var rows []tradeItemTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select trade items: %w", err)
	}

	out := make(map[string][]trade.Item, len(tradeIDs))
	for _, row := range rows {
		out[row.TradePublicID] = append(out[row.TradePublicID], trade.Item{
			ID:           row.PublicID,
			Kind:         trade.ItemKind(row.Kind),
			RefID:        row.RefPublicID,
			SourceTeamID: row.SourceTeamPublicID,
		})
	}

	return out, nil
}

func tradeFromRow(row tradeTableModel, items []trade.Item) trade.Trade {
	return trade.Trade{
		ID:              row.PublicID,
		LeagueID:        row.LeaguePublicID,
		ProposingTeamID: row.ProposingTeamPublicID,
		ReceivingTeamID: row.ReceivingTeamPublicID,
		Status:          trade.Status(row.Status),
		Items:           items,
		FailureReason:   row.FailureReason,
		ExecutedAt:      row.ExecutedAt,
		CreatedAt:       row.CreatedAt,
	}
}
