package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/prodehub/prode-api/internal/domain/boost"
	"github.com/prodehub/prode-api/internal/domain/game"
	"github.com/prodehub/prode-api/internal/domain/guess"
	"github.com/prodehub/prode-api/internal/domain/tournament"
	"github.com/prodehub/prode-api/internal/domain/user"
)

func newScoringFixture() (*ScoringService, *stubLeaderboardRepository) {
	kickoff := time.Date(2026, 6, 12, 18, 0, 0, 0, time.UTC)

	tournamentRepo := &stubTournamentRepository{
		tournaments: []tournament.Tournament{
			{ID: "t1", Name: "Mundial 2026", Status: tournament.StatusRunning},
		},
		teams: map[string][]tournament.Team{
			"t1": {
				{ID: "team-a", TournamentID: "t1", Group: "A"},
				{ID: "team-b", TournamentID: "t1", Group: "A"},
				{ID: "team-c", TournamentID: "t1", Group: "A"},
				{ID: "team-d", TournamentID: "t1", Group: "A"},
			},
		},
		outcomes: map[string]tournament.Outcome{
			"t1": {TournamentID: "t1", ChampionTeamID: "team-a"},
		},
		groupResults: map[string][]tournament.GroupResult{
			"t1": {
				{TournamentID: "t1", Group: "A", OrderedTeamIDs: []string{"team-a", "team-b", "team-c", "team-d"}},
			},
		},
	}

	gameRepo := &stubGameRepository{
		byTournament: map[string][]game.Game{
			"t1": {
				{
					ID: "g1", TournamentID: "t1", Stage: game.StageGroup,
					KickoffAt: kickoff, Status: game.StatusFinished,
					HomeScore: intp(2), AwayScore: intp(1),
				},
				{
					ID: "g2", TournamentID: "t1", Stage: game.StageQuarterFinal,
					KickoffAt: kickoff.Add(24 * time.Hour), Status: game.StatusFinished,
					HomeScore: intp(1), AwayScore: intp(1),
					HomePenaltyScore: intp(4), AwayPenaltyScore: intp(2),
				},
			},
		},
	}

	guessRepo := &stubGuessRepository{
		guesses: []guess.Guess{
			{TournamentID: "t1", GameID: "g1", UserID: "u1", HomeScore: intp(2), AwayScore: intp(1)},
			{TournamentID: "t1", GameID: "g2", UserID: "u1", HomeScore: intp(1), AwayScore: intp(1), HomePenaltyWinner: boolp(true)},
			{TournamentID: "t1", GameID: "g1", UserID: "u2", HomeScore: intp(0), AwayScore: intp(1)},
			{TournamentID: "t1", GameID: "g2", UserID: "u2", HomeScore: intp(2), AwayScore: intp(0)},
		},
		picks: map[string]guess.TournamentPicks{
			picksKey("t1", "u1"): {TournamentID: "t1", UserID: "u1", ChampionTeamID: "team-a"},
		},
		orderPicks: []guess.GroupOrderPick{
			{TournamentID: "t1", UserID: "u2", Group: "A", OrderedTeamIDs: []string{"team-a", "team-b", "team-c", "team-d"}},
		},
	}

	boostRepo := &stubBoostRepository{
		boosts: []boost.Boost{
			{ID: "b1", TournamentID: "t1", UserID: "u1", GameID: "g1"},
		},
	}

	userRepo := &stubUserRepository{
		records: map[string]user.Record{
			"u1": {ID: "u1", Username: "ana"},
			"u2": {ID: "u2", Username: "bruno"},
		},
	}

	leaderboardRepo := &stubLeaderboardRepository{}

	svc := NewScoringService(
		tournamentRepo, gameRepo, guessRepo, boostRepo, userRepo, leaderboardRepo,
		boost.DefaultRules(), nil,
	)
	return svc, leaderboardRepo
}

func TestScoringService_Recompute_Totals(t *testing.T) {
	t.Parallel()

	svc, leaderboardRepo := newScoringFixture()

	if err := svc.Recompute(context.Background(), "t1"); err != nil {
		t.Fatalf("Recompute error: %v", err)
	}

	entries, err := leaderboardRepo.ListByTournament(context.Background(), "t1")
	if err != nil {
		t.Fatalf("ListByTournament error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	byUser := make(map[string]int, len(entries))
	for _, entry := range entries {
		if entry.Score == nil {
			t.Fatalf("entry for %s has nil score", entry.UserID)
		}
		byUser[entry.UserID] = *entry.Score
	}

	// u1: exact g1 (2) boosted x2 = 4, exact g2 with right shootout call = 2,
	// champion bonus = 10. Total 16.
	if byUser["u1"] != 16 {
		t.Fatalf("u1 total = %d, want 16", byUser["u1"])
	}
	// u2: g1 wrong = 0, g2 decisive guess for shootout winner = 1, group
	// order both qualifiers in exact slots = 4. Total 5.
	if byUser["u2"] != 5 {
		t.Fatalf("u2 total = %d, want 5", byUser["u2"])
	}
}

func TestScoringService_Recompute_WritesDailySnapshotOnce(t *testing.T) {
	t.Parallel()

	svc, leaderboardRepo := newScoringFixture()

	if err := svc.Recompute(context.Background(), "t1"); err != nil {
		t.Fatalf("first recompute: %v", err)
	}
	if err := svc.Recompute(context.Background(), "t1"); err != nil {
		t.Fatalf("second recompute: %v", err)
	}

	if got := len(leaderboardRepo.snapshots); got != 2 {
		t.Fatalf("expected 2 snapshots (one per user), got %d", got)
	}
}

func TestScoringService_EnsureThrottlesRepeatRuns(t *testing.T) {
	t.Parallel()

	svc, leaderboardRepo := newScoringFixture()

	if err := svc.EnsureTournamentUpToDate(context.Background(), "t1"); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	first, _ := leaderboardRepo.ListByTournament(context.Background(), "t1")

	// Within the ensure interval a second call must not recompute.
	leaderboardRepo.ReplaceByTournament(context.Background(), "t1", nil)
	if err := svc.EnsureTournamentUpToDate(context.Background(), "t1"); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	second, _ := leaderboardRepo.ListByTournament(context.Background(), "t1")

	if len(first) != 2 || len(second) != 0 {
		t.Fatalf("expected throttled second ensure, got first=%d second=%d", len(first), len(second))
	}
}

func TestScoringService_GetUserBreakdown(t *testing.T) {
	t.Parallel()

	svc, _ := newScoringFixture()

	got, err := svc.GetUserBreakdown(context.Background(), "t1", "u1")
	if err != nil {
		t.Fatalf("GetUserBreakdown error: %v", err)
	}

	if got.GamePoints != 6 {
		t.Fatalf("game points = %d, want 6", got.GamePoints)
	}
	if got.PickBonus != 10 {
		t.Fatalf("pick bonus = %d, want 10", got.PickBonus)
	}
	if got.GroupBonus != 0 {
		t.Fatalf("group bonus = %d, want 0", got.GroupBonus)
	}
	if got.Total != 16 {
		t.Fatalf("total = %d, want 16", got.Total)
	}
	if len(got.Games) != 2 {
		t.Fatalf("expected 2 game rows, got %d", len(got.Games))
	}
	if got.Games[0].GameID != "g1" || got.Games[0].Multiplier != 2 || got.Games[0].Counted != 4 {
		t.Fatalf("unexpected g1 row: %+v", got.Games[0])
	}
}
