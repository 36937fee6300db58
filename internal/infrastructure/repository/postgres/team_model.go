package postgres

import "time"

type teamTableModel struct {
	ID             int64      `db:"id"`
	PublicID       string     `db:"public_id"`
	LeaguePublicID string     `db:"league_public_id"`
	Name           string     `db:"name"`
	WaiverPriority int        `db:"waiver_priority"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}
