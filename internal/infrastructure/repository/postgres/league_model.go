package postgres

import "time"

type leagueTableModel struct {
	ID             int64      `db:"id"`
	PublicID       string     `db:"public_id"`
	Name           string     `db:"name"`
	Season         int        `db:"season"`
	CurrentWeek    int        `db:"current_week"`
	WaiversEnabled bool       `db:"waivers_enabled"`
	SlotsOffence   int        `db:"slots_offence"`
	SlotsDefence   int        `db:"slots_defence"`
	SlotsGoalie    int        `db:"slots_goalie"`
	SlotsBench     int        `db:"slots_bench"`
	RosterSize     int        `db:"roster_size"`
	IsActive       bool       `db:"is_active"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}
