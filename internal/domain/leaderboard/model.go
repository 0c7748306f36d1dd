package leaderboard

import "time"

// Entry is one user's accumulated score in a tournament.
type Entry struct {
	TournamentID string    `json:"tournamentId" db:"tournament_id"`
	UserID       string    `json:"userId" db:"user_id"`
	Username     string    `json:"username" db:"username"`
	Score        *int      `json:"score,omitempty" db:"score"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Snapshot is a user's score frozen at the start of a day. Rank movement on
// the leaderboard is measured against the latest snapshot taken before today.
type Snapshot struct {
	TournamentID string    `json:"tournamentId" db:"tournament_id"`
	UserID       string    `json:"userId" db:"user_id"`
	Day          string    `json:"day" db:"day"`
	Score        int       `json:"score" db:"score"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// RankedEntry is an Entry annotated with its competition rank and movement
// since the previous snapshot.
type RankedEntry struct {
	Entry
	Rank   int `json:"rank"`
	Change int `json:"change"`
}
