package memory

import (
	"time"

	"github.com/prodehub/prode-api/internal/domain/game"
	"github.com/prodehub/prode-api/internal/domain/tournament"
)

const (
	TournamentIDWorldCup2026  = "world-cup-2026"
	TournamentIDCopaAmerica24 = "copa-america-2024"
)

func SeedTournaments() []tournament.Tournament {
	return []tournament.Tournament{
		{
			ID:        TournamentIDWorldCup2026,
			Name:      "FIFA World Cup 2026",
			Season:    "2026",
			Status:    tournament.StatusRunning,
			FeedRefID: 1326,
			StartsAt:  time.Date(2026, time.June, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        TournamentIDCopaAmerica24,
			Name:      "Copa America 2024",
			Season:    "2024",
			Status:    tournament.StatusFinished,
			FeedRefID: 9,
			StartsAt:  time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC),
		},
	}
}

func SeedTeams() []tournament.Team {
	return []tournament.Team{
		{ID: "arg", TournamentID: TournamentIDWorldCup2026, Name: "Argentina", Short: "ARG", Group: "A"},
		{ID: "mex", TournamentID: TournamentIDWorldCup2026, Name: "Mexico", Short: "MEX", Group: "A"},
		{ID: "pol", TournamentID: TournamentIDWorldCup2026, Name: "Poland", Short: "POL", Group: "A"},
		{ID: "ksa", TournamentID: TournamentIDWorldCup2026, Name: "Saudi Arabia", Short: "KSA", Group: "A"},
		{ID: "bra", TournamentID: TournamentIDWorldCup2026, Name: "Brazil", Short: "BRA", Group: "B"},
		{ID: "ger", TournamentID: TournamentIDWorldCup2026, Name: "Germany", Short: "GER", Group: "B"},
		{ID: "jpn", TournamentID: TournamentIDWorldCup2026, Name: "Japan", Short: "JPN", Group: "B"},
		{ID: "usa", TournamentID: TournamentIDWorldCup2026, Name: "United States", Short: "USA", Group: "B"},
	}
}

func SeedGames() []game.Game {
	return []game.Game{
		{
			ID:           "wc26-a-01",
			TournamentID: TournamentIDWorldCup2026,
			Stage:        game.StageGroup,
			Group:        "A",
			HomeTeamID:   "arg",
			AwayTeamID:   "ksa",
			HomeTeam:     "Argentina",
			AwayTeam:     "Saudi Arabia",
			KickoffAt:    time.Date(2026, time.June, 12, 18, 0, 0, 0, time.UTC),
			Venue:        "Estadio Azteca",
			Status:       game.StatusScheduled,
		},
		{
			ID:           "wc26-a-02",
			TournamentID: TournamentIDWorldCup2026,
			Stage:        game.StageGroup,
			Group:        "A",
			HomeTeamID:   "mex",
			AwayTeamID:   "pol",
			HomeTeam:     "Mexico",
			AwayTeam:     "Poland",
			KickoffAt:    time.Date(2026, time.June, 12, 21, 0, 0, 0, time.UTC),
			Venue:        "Estadio Azteca",
			Status:       game.StatusScheduled,
		},
		{
			ID:           "wc26-b-01",
			TournamentID: TournamentIDWorldCup2026,
			Stage:        game.StageGroup,
			Group:        "B",
			HomeTeamID:   "ger",
			AwayTeamID:   "jpn",
			HomeTeam:     "Germany",
			AwayTeam:     "Japan",
			KickoffAt:    time.Date(2026, time.June, 13, 16, 0, 0, 0, time.UTC),
			Venue:        "MetLife Stadium",
			Status:       game.StatusScheduled,
		},
		{
			ID:           "wc26-b-02",
			TournamentID: TournamentIDWorldCup2026,
			Stage:        game.StageGroup,
			Group:        "B",
			HomeTeamID:   "bra",
			AwayTeamID:   "usa",
			HomeTeam:     "Brazil",
			AwayTeam:     "United States",
			KickoffAt:    time.Date(2026, time.June, 13, 19, 0, 0, 0, time.UTC),
			Venue:        "SoFi Stadium",
			Status:       game.StatusScheduled,
		},
	}
}
