package game

import "context"

// Repository exposes game read/write operations.
type Repository interface {
	ListByTournament(ctx context.Context, tournamentID string) ([]Game, error)
	GetByID(ctx context.Context, tournamentID, gameID string) (Game, bool, error)
	UpsertGames(ctx context.Context, tournamentID string, items []Game) error
	UpsertResults(ctx context.Context, tournamentID string, items []Game) error
}
