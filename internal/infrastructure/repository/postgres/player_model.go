package postgres

import (
	"database/sql"
	"time"

	"github.com/bluelinehq/blueline/internal/domain/player"
)

type playerTableModel struct {
	ID           int64          `db:"id"`
	PublicID     string         `db:"public_id"`
	Name         string         `db:"name"`
	Position     string         `db:"position"`
	SideOverride sql.NullString `db:"side_override"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    *time.Time     `db:"deleted_at"`
}

func playerFromRow(row playerTableModel) player.Player {
	p := player.Player{
		ID:       row.PublicID,
		Name:     row.Name,
		Position: player.Position(row.Position),
	}
	if row.SideOverride.Valid {
		override := player.Position(row.SideOverride.String)
		p.SideOverride = &override
	}
	return p
}
