package boost

import "context"

// Repository persists boost placements.
type Repository interface {
	ListByTournamentAndUser(ctx context.Context, tournamentID, userID string) ([]Boost, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]Boost, error)
	Create(ctx context.Context, b Boost) error
	Delete(ctx context.Context, tournamentID, userID, gameID string) error
}
