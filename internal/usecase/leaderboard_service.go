package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prodehub/prode-api/internal/domain/leaderboard"
	"github.com/prodehub/prode-api/internal/domain/ranking"
)

type leaderboardScoringProvider interface {
	EnsureTournamentUpToDate(ctx context.Context, tournamentID string) error
}

type LeaderboardService struct {
	leaderboardRepo leaderboard.Repository
	scoringSvc      leaderboardScoringProvider
	now             func() time.Time
}

func NewLeaderboardService(
	leaderboardRepo leaderboard.Repository,
	scoringSvc leaderboardScoringProvider,
) *LeaderboardService {
	return &LeaderboardService{
		leaderboardRepo: leaderboardRepo,
		scoringSvc:      scoringSvc,
		now:             time.Now,
	}
}

// entryIdentity matches leaderboard rows across snapshots. Rows imported
// from older exports sometimes only carry a username.
var entryIdentity = ranking.Identity(
	func(e leaderboard.Entry) (string, bool) { return e.UserID, e.UserID != "" },
	func(e leaderboard.Entry) (string, bool) { return e.Username, e.Username != "" },
)

func (s *LeaderboardService) GetLeaderboard(ctx context.Context, tournamentID string) ([]leaderboard.RankedEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.GetLeaderboard")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return nil, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	if s.scoringSvc != nil {
		if err := s.scoringSvc.EnsureTournamentUpToDate(ctx, tournamentID); err != nil {
			return nil, err
		}
	}

	entries, err := s.leaderboardRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard entries: %w", err)
	}
	if len(entries) == 0 {
		return []leaderboard.RankedEntry{}, nil
	}

	// Pre-sort by score then identity so ties come out in a stable order.
	sort.SliceStable(entries, func(i, j int) bool {
		si, sj := scoreValue(entries[i]), scoreValue(entries[j])
		if si != sj {
			return si > sj
		}
		return entryIdentity(entries[i]) < entryIdentity(entries[j])
	})

	ranked := ranking.Ranks(entries, entryScore)

	day := s.now().UTC().Format(snapshotDayLayout)
	snapshots, err := s.leaderboardRepo.ListSnapshotsBefore(ctx, tournamentID, day)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard snapshots: %w", err)
	}
	previousByUser := make(map[string]int, len(snapshots))
	for _, snapshot := range snapshots {
		previousByUser[snapshot.UserID] = snapshot.Score
	}

	previous := func(e leaderboard.Entry) (int, bool) {
		score, ok := previousByUser[e.UserID]
		return score, ok
	}

	withChange := ranking.RanksWithChange(ranked, previous, entryIdentity)

	out := make([]leaderboard.RankedEntry, 0, len(withChange))
	for _, row := range withChange {
		out = append(out, leaderboard.RankedEntry{
			Entry:  row.Item,
			Rank:   row.Rank,
			Change: row.Change,
		})
	}
	return out, nil
}

// GetUserStanding returns one user's row from the ranked leaderboard.
func (s *LeaderboardService) GetUserStanding(ctx context.Context, tournamentID, userID string) (leaderboard.RankedEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.GetUserStanding")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return leaderboard.RankedEntry{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	rows, err := s.GetLeaderboard(ctx, tournamentID)
	if err != nil {
		return leaderboard.RankedEntry{}, err
	}
	for _, row := range rows {
		if row.UserID == userID {
			return row, nil
		}
	}
	return leaderboard.RankedEntry{}, fmt.Errorf("%w: user=%s has no standing", ErrNotFound, userID)
}

func entryScore(e leaderboard.Entry) (int, bool) {
	if e.Score == nil {
		return 0, false
	}
	return *e.Score, true
}

func scoreValue(e leaderboard.Entry) int {
	if e.Score == nil {
		return 0
	}
	return *e.Score
}
