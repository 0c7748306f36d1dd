package guess

import "context"

// Repository exposes read/write operations for every kind of prediction.
type Repository interface {
	ListByTournament(ctx context.Context, tournamentID string) ([]Guess, error)
	ListByTournamentAndUser(ctx context.Context, tournamentID, userID string) ([]Guess, error)
	UpsertGuesses(ctx context.Context, items []Guess) error

	GetTournamentPicks(ctx context.Context, tournamentID, userID string) (TournamentPicks, bool, error)
	ListTournamentPicks(ctx context.Context, tournamentID string) ([]TournamentPicks, error)
	UpsertTournamentPicks(ctx context.Context, picks TournamentPicks) error

	ListGroupOrderPicksByUser(ctx context.Context, tournamentID, userID string) ([]GroupOrderPick, error)
	ListGroupOrderPicks(ctx context.Context, tournamentID string) ([]GroupOrderPick, error)
	UpsertGroupOrderPick(ctx context.Context, pick GroupOrderPick) error
}
