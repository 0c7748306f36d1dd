package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/prodehub/prode-api/internal/domain/leaderboard"
)

func TestLeaderboardService_GetLeaderboard_RanksAndChange(t *testing.T) {
	t.Parallel()

	repo := &stubLeaderboardRepository{
		entries: map[string][]leaderboard.Entry{
			"t1": {
				{TournamentID: "t1", UserID: "u1", Username: "ana", Score: intp(50)},
				{TournamentID: "t1", UserID: "u2", Username: "bruno", Score: intp(45)},
				{TournamentID: "t1", UserID: "u3", Username: "carla", Score: intp(45)},
				{TournamentID: "t1", UserID: "u4", Username: "diego", Score: intp(40)},
			},
		},
		snapshots: []leaderboard.Snapshot{
			{TournamentID: "t1", UserID: "u1", Day: "2020-01-01", Score: 30},
			{TournamentID: "t1", UserID: "u2", Day: "2020-01-01", Score: 40},
			{TournamentID: "t1", UserID: "u3", Day: "2020-01-01", Score: 20},
			{TournamentID: "t1", UserID: "u4", Day: "2020-01-01", Score: 10},
		},
	}

	svc := NewLeaderboardService(repo, nil)

	got, err := svc.GetLeaderboard(context.Background(), "t1")
	if err != nil {
		t.Fatalf("GetLeaderboard error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(got))
	}

	wantRanks := []int{1, 2, 2, 4}
	wantUsers := []string{"u1", "u2", "u3", "u4"}
	for i, row := range got {
		if row.UserID != wantUsers[i] || row.Rank != wantRanks[i] {
			t.Fatalf("row %d: user=%s rank=%d, want user=%s rank=%d",
				i, row.UserID, row.Rank, wantUsers[i], wantRanks[i])
		}
	}

	// Previously: u2(40) rank 1, u1(30) rank 2, u3(20) rank 3, u4(10) rank 4.
	wantChanges := map[string]int{"u1": 1, "u2": -1, "u3": 1, "u4": 0}
	for _, row := range got {
		if row.Change != wantChanges[row.UserID] {
			t.Fatalf("user %s: change = %d, want %d", row.UserID, row.Change, wantChanges[row.UserID])
		}
	}
}

func TestLeaderboardService_GetLeaderboard_NoHistory(t *testing.T) {
	t.Parallel()

	repo := &stubLeaderboardRepository{
		entries: map[string][]leaderboard.Entry{
			"t1": {
				{TournamentID: "t1", UserID: "u1", Score: intp(10)},
				{TournamentID: "t1", UserID: "u2", Score: intp(5)},
			},
		},
	}

	svc := NewLeaderboardService(repo, nil)

	got, err := svc.GetLeaderboard(context.Background(), "t1")
	if err != nil {
		t.Fatalf("GetLeaderboard error: %v", err)
	}

	// With no previous snapshots everyone was previously tied at rank 1.
	if got[0].Change != 0 || got[1].Change != -1 {
		t.Fatalf("unexpected changes: %d, %d", got[0].Change, got[1].Change)
	}
}

func TestLeaderboardService_GetLeaderboard_TodaySnapshotIgnored(t *testing.T) {
	t.Parallel()

	today := time.Now().UTC().Format(snapshotDayLayout)
	repo := &stubLeaderboardRepository{
		entries: map[string][]leaderboard.Entry{
			"t1": {
				{TournamentID: "t1", UserID: "u1", Score: intp(10)},
				{TournamentID: "t1", UserID: "u2", Score: intp(5)},
			},
		},
		snapshots: []leaderboard.Snapshot{
			{TournamentID: "t1", UserID: "u1", Day: today, Score: 10},
			{TournamentID: "t1", UserID: "u2", Day: today, Score: 5},
		},
	}

	svc := NewLeaderboardService(repo, nil)

	got, err := svc.GetLeaderboard(context.Background(), "t1")
	if err != nil {
		t.Fatalf("GetLeaderboard error: %v", err)
	}
	if got[0].Change != 0 || got[1].Change != -1 {
		t.Fatalf("today's snapshot must not count as history: %d, %d", got[0].Change, got[1].Change)
	}
}

func TestLeaderboardService_GetUserStanding_NotFound(t *testing.T) {
	t.Parallel()

	repo := &stubLeaderboardRepository{
		entries: map[string][]leaderboard.Entry{
			"t1": {{TournamentID: "t1", UserID: "u1", Score: intp(10)}},
		},
	}
	svc := NewLeaderboardService(repo, nil)

	if _, err := svc.GetUserStanding(context.Background(), "t1", "missing"); err == nil {
		t.Fatal("expected an error for a user with no standing")
	}
}
