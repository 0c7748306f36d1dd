package tournament

import "context"

// Repository exposes tournament master-data operations.
type Repository interface {
	List(ctx context.Context) ([]Tournament, error)
	GetByID(ctx context.Context, tournamentID string) (Tournament, bool, error)
	ListTeams(ctx context.Context, tournamentID string) ([]Team, error)
	GetOutcome(ctx context.Context, tournamentID string) (Outcome, bool, error)
	UpsertOutcome(ctx context.Context, outcome Outcome) error
	ListGroupResults(ctx context.Context, tournamentID string) ([]GroupResult, error)
	ReplaceGroupResults(ctx context.Context, tournamentID string, rows []GroupResult) error
}
