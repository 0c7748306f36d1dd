package postgres

import (
	"database/sql"
	"time"
)

type leaderboardEntryTableModel struct {
	ID           int64         `db:"id"`
	TournamentID string        `db:"tournament_public_id"`
	UserID       string        `db:"user_id"`
	Username     string        `db:"username"`
	Score        sql.NullInt64 `db:"score"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
	DeletedAt    *time.Time    `db:"deleted_at"`
}

type leaderboardEntryInsertModel struct {
	TournamentID string        `db:"tournament_public_id"`
	UserID       string        `db:"user_id"`
	Username     string        `db:"username"`
	Score        sql.NullInt64 `db:"score"`
}

type leaderboardSnapshotTableModel struct {
	ID           int64      `db:"id"`
	TournamentID string     `db:"tournament_public_id"`
	UserID       string     `db:"user_id"`
	Day          string     `db:"day"`
	Score        int        `db:"score"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type leaderboardSnapshotInsertModel struct {
	TournamentID string `db:"tournament_public_id"`
	UserID       string `db:"user_id"`
	Day          string `db:"day"`
	Score        int    `db:"score"`
}
