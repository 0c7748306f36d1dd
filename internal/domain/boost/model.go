package boost

import "time"

// Boost marks one game whose points are multiplied for the owning user.
type Boost struct {
	ID           string    `json:"id" db:"id"`
	TournamentID string    `json:"tournamentId" db:"tournament_id"`
	UserID       string    `json:"userId" db:"user_id"`
	GameID       string    `json:"gameId" db:"game_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
