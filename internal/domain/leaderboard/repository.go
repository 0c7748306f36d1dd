package leaderboard

import "context"

type Repository interface {
	ListByTournament(ctx context.Context, tournamentID string) ([]Entry, error)
	ReplaceByTournament(ctx context.Context, tournamentID string, entries []Entry) error

	// ListSnapshotsBefore returns, per user, the newest snapshot whose day is
	// strictly before the given day (formatted YYYY-MM-DD).
	ListSnapshotsBefore(ctx context.Context, tournamentID, day string) ([]Snapshot, error)
	UpsertSnapshots(ctx context.Context, snapshots []Snapshot) error
}
