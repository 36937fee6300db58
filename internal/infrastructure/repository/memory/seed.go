package memory

import (
	"time"

	"github.com/bluelinehq/blueline/internal/domain/draftpick"
	"github.com/bluelinehq/blueline/internal/domain/league"
	"github.com/bluelinehq/blueline/internal/domain/player"
	"github.com/bluelinehq/blueline/internal/domain/team"
	"github.com/bluelinehq/blueline/internal/domain/week"
)

const (
	LeagueIDNorthern = "northern-2026"

	TeamIDIcehawks   = "nor-icehawks"
	TeamIDMooseheads = "nor-mooseheads"
	TeamIDPolars     = "nor-polars"
	TeamIDSnipers    = "nor-snipers"
)

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:             LeagueIDNorthern,
			Name:           "Northern Fantasy Hockey League",
			Season:         2026,
			CurrentWeek:    1,
			WaiversEnabled: true,
			SlotsOffence:   6,
			SlotsDefence:   4,
			SlotsGoalie:    2,
			SlotsBench:     4,
			RosterSize:     16,
		},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: TeamIDIcehawks, LeagueID: LeagueIDNorthern, Name: "Icehawks", WaiverPriority: 1},
		{ID: TeamIDMooseheads, LeagueID: LeagueIDNorthern, Name: "Mooseheads", WaiverPriority: 2},
		{ID: TeamIDPolars, LeagueID: LeagueIDNorthern, Name: "Polars", WaiverPriority: 3},
		{ID: TeamIDSnipers, LeagueID: LeagueIDNorthern, Name: "Snipers", WaiverPriority: 4},
	}
}

func SeedPlayers() []player.Player {
	defence := player.PositionDefence
	return []player.Player{
		{ID: "p-crosby", Name: "Silas Crosby", Position: player.PositionOffence},
		{ID: "p-laine", Name: "Henrik Laine", Position: player.PositionOffence},
		{ID: "p-tkachuk", Name: "Bo Tkachuk", Position: player.PositionOffence},
		{ID: "p-hughes", Name: "Emmett Hughes", Position: player.PositionOffence},
		{ID: "p-makar", Name: "Aleksi Makar", Position: player.PositionDefence},
		{ID: "p-ekblad", Name: "Otto Ekblad", Position: player.PositionDefence},
		{ID: "p-burns", Name: "Cal Burns", Position: player.PositionDefence},
		{ID: "p-byfuglien", Name: "Len Byfuglien", Position: player.PositionOffence, SideOverride: &defence},
		{ID: "p-vasilevskiy", Name: "Noel Vasilevskiy", Position: player.PositionGoalie},
		{ID: "p-hellebuyck", Name: "Max Hellebuyck", Position: player.PositionGoalie},
		{ID: "p-oettinger", Name: "Remy Oettinger", Position: player.PositionGoalie},
	}
}

func SeedWeeks() []week.Week {
	weeks := make([]week.Week, 0, 8)
	for n := 1; n <= 8; n++ {
		monday := time.Date(2026, time.January, 5+(n-1)*7, 0, 0, 0, 0, time.UTC)
		unlock := monday.Add(6 * time.Hour)
		lock := monday.Add(4*24*time.Hour + 18*time.Hour)
		weeks = append(weeks, week.Week{
			Season:   2026,
			Number:   n,
			StartsAt: lock.Add(time.Hour),
			UnlockAt: &unlock,
			LockAt:   &lock,
		})
	}

	return weeks
}

func SeedPicks() []draftpick.Pick {
	return []draftpick.Pick{
		{ID: "pick-2027-r1-icehawks", LeagueID: LeagueIDNorthern, TeamID: TeamIDIcehawks, Season: 2027, Round: 1},
		{ID: "pick-2027-r2-icehawks", LeagueID: LeagueIDNorthern, TeamID: TeamIDIcehawks, Season: 2027, Round: 2},
		{ID: "pick-2027-r1-mooseheads", LeagueID: LeagueIDNorthern, TeamID: TeamIDMooseheads, Season: 2027, Round: 1},
		{ID: "pick-2027-r1-polars", LeagueID: LeagueIDNorthern, TeamID: TeamIDPolars, Season: 2027, Round: 1},
		{ID: "pick-2027-r1-snipers", LeagueID: LeagueIDNorthern, TeamID: TeamIDSnipers, Season: 2027, Round: 1},
	}
}
