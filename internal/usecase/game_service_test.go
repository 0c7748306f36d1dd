package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prodehub/prode-api/internal/domain/boost"
	"github.com/prodehub/prode-api/internal/domain/game"
	"github.com/prodehub/prode-api/internal/domain/guess"
)

func TestGameService_RecordResults(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, 6, 12, 18, 0, 0, 0, time.UTC)
	gameRepo := &stubGameRepository{
		byTournament: map[string][]game.Game{
			"t1": {
				{ID: "g1", TournamentID: "t1", Stage: game.StageGroup, KickoffAt: kickoff},
				{ID: "g2", TournamentID: "t1", Stage: game.StageFinal, KickoffAt: kickoff},
			},
		},
	}
	scoringSvc := &recordingScoring{}
	svc := NewGameService(gameRepo, &stubGuessRepository{}, &stubBoostRepository{}, scoringSvc, boost.DefaultRules(), nil)

	err := svc.RecordResults(context.Background(), "t1", []GameResultInput{
		{GameID: "g1", Status: "FT", HomeScore: intp(3), AwayScore: intp(1)},
		{GameID: "g2", Status: "PEN", HomeScore: intp(0), AwayScore: intp(0), HomePenaltyScore: intp(4), AwayPenaltyScore: intp(3)},
	})
	if err != nil {
		t.Fatalf("RecordResults error: %v", err)
	}

	stored, _, _ := gameRepo.GetByID(context.Background(), "t1", "g1")
	if stored.HomeScore == nil || *stored.HomeScore != 3 {
		t.Fatalf("result not stored: %+v", stored)
	}
	if len(scoringSvc.recomputed) != 1 {
		t.Fatalf("expected one recompute, got %v", scoringSvc.recomputed)
	}
}

func TestGameService_RecordResults_Invalid(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, 6, 12, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		results []GameResultInput
	}{
		{
			name:    "penalties on group game",
			results: []GameResultInput{{GameID: "g1", HomeScore: intp(1), AwayScore: intp(1), HomePenaltyScore: intp(4), AwayPenaltyScore: intp(3)}},
		},
		{
			name:    "penalties without a draw",
			results: []GameResultInput{{GameID: "g2", HomeScore: intp(2), AwayScore: intp(1), HomePenaltyScore: intp(4), AwayPenaltyScore: intp(3)}},
		},
		{
			name:    "negative score",
			results: []GameResultInput{{GameID: "g1", HomeScore: intp(-1), AwayScore: intp(0)}},
		},
		{
			name:    "half result",
			results: []GameResultInput{{GameID: "g1", HomeScore: intp(1)}},
		},
		{
			name:    "unknown game",
			results: []GameResultInput{{GameID: "nope", HomeScore: intp(1), AwayScore: intp(0)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gameRepo := &stubGameRepository{
				byTournament: map[string][]game.Game{
					"t1": {
						{ID: "g1", TournamentID: "t1", Stage: game.StageGroup, KickoffAt: kickoff},
						{ID: "g2", TournamentID: "t1", Stage: game.StageFinal, KickoffAt: kickoff},
					},
				},
			}
			svc := NewGameService(gameRepo, &stubGuessRepository{}, &stubBoostRepository{}, &recordingScoring{}, boost.DefaultRules(), nil)

			err := svc.RecordResults(context.Background(), "t1", tt.results)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, ErrInvalidInput) && !errors.Is(err, ErrNotFound) {
				t.Fatalf("unexpected error class: %v", err)
			}
		})
	}
}

func TestGameService_ListGamesWithUserGuesses(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, 6, 12, 18, 0, 0, 0, time.UTC)
	gameRepo := &stubGameRepository{
		byTournament: map[string][]game.Game{
			"t1": {
				{ID: "g2", TournamentID: "t1", Stage: game.StageGroup, KickoffAt: kickoff.Add(time.Hour)},
				{
					ID: "g1", TournamentID: "t1", Stage: game.StageGroup, KickoffAt: kickoff,
					Status: game.StatusFinished, HomeScore: intp(2), AwayScore: intp(1),
				},
			},
		},
	}
	guessRepo := &stubGuessRepository{
		guesses: []guess.Guess{
			{TournamentID: "t1", GameID: "g1", UserID: "u1", HomeScore: intp(2), AwayScore: intp(1)},
		},
	}
	boostRepo := &stubBoostRepository{
		boosts: []boost.Boost{{ID: "b1", TournamentID: "t1", UserID: "u1", GameID: "g1"}},
	}

	svc := NewGameService(gameRepo, guessRepo, boostRepo, &recordingScoring{}, boost.DefaultRules(), nil)

	got, err := svc.ListGamesWithUserGuesses(context.Background(), "t1", "u1")
	if err != nil {
		t.Fatalf("ListGamesWithUserGuesses error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	// Sorted by kickoff: g1 first.
	if got[0].Game.ID != "g1" {
		t.Fatalf("first row = %s, want g1", got[0].Game.ID)
	}
	if got[0].Guess == nil || !got[0].Boosted || got[0].Points != 4 {
		t.Fatalf("unexpected g1 row: %+v", got[0])
	}
	if got[1].Guess != nil || got[1].Points != 0 || got[1].Multiplier != 1 {
		t.Fatalf("unexpected g2 row: %+v", got[1])
	}
}
