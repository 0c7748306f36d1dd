package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type guessTableModel struct {
	ID                int64         `db:"id"`
	TournamentID      string        `db:"tournament_public_id"`
	GameID            string        `db:"game_public_id"`
	UserID            string        `db:"user_id"`
	HomeScore         sql.NullInt64 `db:"home_score"`
	AwayScore         sql.NullInt64 `db:"away_score"`
	HomePenaltyWinner sql.NullBool  `db:"home_penalty_winner"`
	AwayPenaltyWinner sql.NullBool  `db:"away_penalty_winner"`
	CreatedAt         time.Time     `db:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at"`
	DeletedAt         *time.Time    `db:"deleted_at"`
}

type guessInsertModel struct {
	TournamentID      string        `db:"tournament_public_id"`
	GameID            string        `db:"game_public_id"`
	UserID            string        `db:"user_id"`
	HomeScore         sql.NullInt64 `db:"home_score"`
	AwayScore         sql.NullInt64 `db:"away_score"`
	HomePenaltyWinner sql.NullBool  `db:"home_penalty_winner"`
	AwayPenaltyWinner sql.NullBool  `db:"away_penalty_winner"`
}

type tournamentPicksTableModel struct {
	ID              int64          `db:"id"`
	TournamentID    string         `db:"tournament_public_id"`
	UserID          string         `db:"user_id"`
	ChampionTeamID  sql.NullString `db:"champion_team_public_id"`
	RunnerUpTeamID  sql.NullString `db:"runner_up_team_public_id"`
	TopScorerPlayer sql.NullString `db:"top_scorer_player"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	DeletedAt       *time.Time     `db:"deleted_at"`
}

type tournamentPicksInsertModel struct {
	TournamentID    string  `db:"tournament_public_id"`
	UserID          string  `db:"user_id"`
	ChampionTeamID  *string `db:"champion_team_public_id"`
	RunnerUpTeamID  *string `db:"runner_up_team_public_id"`
	TopScorerPlayer *string `db:"top_scorer_player"`
}

type groupOrderPickTableModel struct {
	ID             int64          `db:"id"`
	TournamentID   string         `db:"tournament_public_id"`
	UserID         string         `db:"user_id"`
	GroupName      string         `db:"group_name"`
	OrderedTeamIDs pq.StringArray `db:"ordered_team_ids"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	DeletedAt      *time.Time     `db:"deleted_at"`
}

type groupOrderPickInsertModel struct {
	TournamentID   string         `db:"tournament_public_id"`
	UserID         string         `db:"user_id"`
	GroupName      string         `db:"group_name"`
	OrderedTeamIDs pq.StringArray `db:"ordered_team_ids"`
}
