package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/prodehub/prode-api/internal/domain/leaderboard"
)

type LeaderboardRepository struct {
	mu        sync.RWMutex
	entries   map[string][]leaderboard.Entry
	snapshots map[string][]leaderboard.Snapshot
}

func NewLeaderboardRepository() *LeaderboardRepository {
	return &LeaderboardRepository{
		entries:   make(map[string][]leaderboard.Entry),
		snapshots: make(map[string][]leaderboard.Snapshot),
	}
}

func (r *LeaderboardRepository) ListByTournament(_ context.Context, tournamentID string) ([]leaderboard.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.entries[tournamentID]
	out := make([]leaderboard.Entry, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *LeaderboardRepository) ReplaceByTournament(_ context.Context, tournamentID string, entries []leaderboard.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[tournamentID] = append([]leaderboard.Entry(nil), entries...)
	return nil
}

func (r *LeaderboardRepository) ListSnapshotsBefore(_ context.Context, tournamentID, day string) ([]leaderboard.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	latest := make(map[string]leaderboard.Snapshot)
	for _, item := range r.snapshots[tournamentID] {
		if item.Day >= day {
			continue
		}
		current, ok := latest[item.UserID]
		if !ok || item.Day > current.Day {
			latest[item.UserID] = item
		}
	}

	out := make([]leaderboard.Snapshot, 0, len(latest))
	for _, item := range latest {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *LeaderboardRepository) UpsertSnapshots(_ context.Context, snapshots []leaderboard.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range snapshots {
		if r.hasSnapshotLocked(item.TournamentID, item.UserID, item.Day) {
			continue
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now().UTC()
		}
		r.snapshots[item.TournamentID] = append(r.snapshots[item.TournamentID], item)
	}
	return nil
}

func (r *LeaderboardRepository) hasSnapshotLocked(tournamentID, userID, day string) bool {
	for _, item := range r.snapshots[tournamentID] {
		if item.UserID == userID && item.Day == day {
			return true
		}
	}
	return false
}
