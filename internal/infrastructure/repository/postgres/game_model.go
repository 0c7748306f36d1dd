package postgres

import (
	"database/sql"
	"time"
)

type gameTableModel struct {
	ID               int64          `db:"id"`
	PublicID         string         `db:"public_id"`
	TournamentID     string         `db:"tournament_public_id"`
	Stage            string         `db:"stage"`
	GroupName        string         `db:"group_name"`
	HomeTeamID       sql.NullString `db:"home_team_public_id"`
	AwayTeamID       sql.NullString `db:"away_team_public_id"`
	HomeTeam         string         `db:"home_team"`
	AwayTeam         string         `db:"away_team"`
	KickoffAt        time.Time      `db:"kickoff_at"`
	Venue            string         `db:"venue"`
	Status           string         `db:"status"`
	HomeScore        sql.NullInt64  `db:"home_score"`
	AwayScore        sql.NullInt64  `db:"away_score"`
	HomePenaltyScore sql.NullInt64  `db:"home_penalty_score"`
	AwayPenaltyScore sql.NullInt64  `db:"away_penalty_score"`
	FeedRefID        sql.NullInt64  `db:"feed_ref_id"`
	FinishedAt       sql.NullTime   `db:"finished_at"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
	DeletedAt        *time.Time     `db:"deleted_at"`
}

type gameInsertModel struct {
	PublicID         string        `db:"public_id"`
	TournamentID     string        `db:"tournament_public_id"`
	Stage            string        `db:"stage"`
	GroupName        string        `db:"group_name"`
	HomeTeamID       *string       `db:"home_team_public_id"`
	AwayTeamID       *string       `db:"away_team_public_id"`
	HomeTeam         string        `db:"home_team"`
	AwayTeam         string        `db:"away_team"`
	KickoffAt        time.Time     `db:"kickoff_at"`
	Venue            string        `db:"venue"`
	Status           string        `db:"status"`
	HomeScore        sql.NullInt64 `db:"home_score"`
	AwayScore        sql.NullInt64 `db:"away_score"`
	HomePenaltyScore sql.NullInt64 `db:"home_penalty_score"`
	AwayPenaltyScore sql.NullInt64 `db:"away_penalty_score"`
	FeedRefID        sql.NullInt64 `db:"feed_ref_id"`
	FinishedAt       sql.NullTime  `db:"finished_at"`
}
