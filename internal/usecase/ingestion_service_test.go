package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/prodehub/prode-api/internal/domain/game"
	"github.com/prodehub/prode-api/internal/domain/rawdata"
	"github.com/prodehub/prode-api/internal/domain/tournament"
)

type recordingScoring struct {
	recomputed []string
}

func (r *recordingScoring) Recompute(_ context.Context, tournamentID string) error {
	r.recomputed = append(r.recomputed, tournamentID)
	return nil
}

func TestIngestionService_SyncTournament(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, 6, 12, 18, 0, 0, 0, time.UTC)
	tournamentRepo := &stubTournamentRepository{
		tournaments: []tournament.Tournament{
			{ID: "t1", Status: tournament.StatusRunning, FeedRefID: 900},
		},
	}
	gameRepo := &stubGameRepository{
		byTournament: map[string][]game.Game{
			"t1": {
				{ID: "g1", TournamentID: "t1", FeedRefID: 101, Status: game.StatusScheduled},
			},
		},
	}
	rawRepo := &stubRawDataRepository{}
	feed := &stubFeed{
		games: map[int64][]ExternalGame{
			900: {
				{
					ExternalID: 101, Stage: "group", HomeTeamName: "Argentina", AwayTeamName: "Chile",
					KickoffAt: kickoff, Status: "FT",
					HomeScore: intp(2), AwayScore: intp(0),
				},
				{
					ExternalID: 102, Stage: "SEMI_FINAL", HomeTeamName: "Brasil", AwayTeamName: "Uruguay",
					KickoffAt: kickoff.Add(24 * time.Hour), Status: "NS",
				},
			},
		},
		payloads: map[int64][]rawdata.Payload{
			900: {{Source: "scoresfeed", EntityType: "game", EntityKey: "101"}},
		},
	}
	scoringSvc := &recordingScoring{}

	svc := NewIngestionService(tournamentRepo, gameRepo, rawRepo, feed, scoringSvc, &stubIDGenerator{}, nil)

	got, err := svc.SyncTournament(context.Background(), "t1")
	if err != nil {
		t.Fatalf("SyncTournament error: %v", err)
	}
	if got.Created != 1 || got.Updated != 1 {
		t.Fatalf("created=%d updated=%d, want 1/1", got.Created, got.Updated)
	}

	games := gameRepo.byTournament["t1"]
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}

	var matched game.Game
	for _, g := range games {
		if g.FeedRefID == 101 {
			matched = g
		}
	}
	if matched.Status != "FT" {
		t.Fatalf("status = %s, want FT", matched.Status)
	}
	if matched.HomeScore == nil || *matched.HomeScore != 2 {
		t.Fatalf("result not applied: %+v", matched)
	}
	if matched.Stage != game.StageGroup {
		t.Fatalf("stage = %s, want %s", matched.Stage, game.StageGroup)
	}

	if len(rawRepo.items) != 1 {
		t.Fatalf("expected 1 archived payload, got %d", len(rawRepo.items))
	}
	if len(scoringSvc.recomputed) != 1 || scoringSvc.recomputed[0] != "t1" {
		t.Fatalf("expected one recompute for t1, got %v", scoringSvc.recomputed)
	}
}

func TestIngestionService_SyncAll_SkipsFinishedAndUnmapped(t *testing.T) {
	t.Parallel()

	tournamentRepo := &stubTournamentRepository{
		tournaments: []tournament.Tournament{
			{ID: "t1", Status: tournament.StatusRunning, FeedRefID: 900},
			{ID: "t2", Status: tournament.StatusFinished, FeedRefID: 901},
			{ID: "t3", Status: tournament.StatusUpcoming},
		},
	}
	gameRepo := &stubGameRepository{byTournament: map[string][]game.Game{"t1": {}}}
	feed := &stubFeed{games: map[int64][]ExternalGame{900: {}}}

	svc := NewIngestionService(tournamentRepo, gameRepo, &stubRawDataRepository{}, feed, &recordingScoring{}, &stubIDGenerator{}, nil)

	got, err := svc.SyncAll(context.Background())
	if err != nil {
		t.Fatalf("SyncAll error: %v", err)
	}
	if got.Tournaments != 1 {
		t.Fatalf("expected exactly 1 synced tournament, got %d", got.Tournaments)
	}
}
