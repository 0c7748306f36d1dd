package scoresfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prodehub/prode-api/internal/platform/logging"
	"github.com/prodehub/prode-api/internal/platform/resilience"
)

const gamesResponse = `{
  "data": [
    {
      "id": 900101,
      "stage": "GROUP",
      "group": "A",
      "starting_at": "2026-06-11T16:00:00Z",
      "venue": {"name": "Estadio Azteca"},
      "state": {"code": "FINISHED"},
      "participants": [
        {"name": "Argentina", "location": "home"},
        {"name": "Mexico", "location": "away"}
      ],
      "scores": {"home": 2, "away": 0},
      "finished_at": "2026-06-11T17:52:00Z"
    },
    {
      "id": 900102,
      "stage": "FINAL",
      "starting_at": "2026-07-19 15:00:00",
      "state": {"code": "SCHEDULED"},
      "participants": [
        {"name": "Brazil", "location": "home"},
        {"name": "Germany", "location": "away"}
      ],
      "scores": {"home_penalties": null, "away_penalties": null}
    }
  ]
}`

func newTestClient(t *testing.T, serverURL string, maxRetries int) *Client {
	t.Helper()
	return NewClient(ClientConfig{
		BaseURL:        serverURL,
		Token:          "feed-token",
		Timeout:        2 * time.Second,
		MaxRetries:     maxRetries,
		Logger:         logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})
}

func TestClientFetchTournamentGames_ParsesGamesAndCapturesPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("api_token"); got != "feed-token" {
			t.Errorf("expected api_token query param, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(gamesResponse))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)

	games, payloads, err := client.FetchTournamentGames(context.Background(), 1326)
	if err != nil {
		t.Fatalf("fetch tournament games: %v", err)
	}

	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}

	first := games[0]
	if first.ExternalID != 900101 {
		t.Fatalf("unexpected external id: %d", first.ExternalID)
	}
	if first.HomeTeamName != "Argentina" || first.AwayTeamName != "Mexico" {
		t.Fatalf("unexpected participants: %q vs %q", first.HomeTeamName, first.AwayTeamName)
	}
	if first.Status != "FINISHED" {
		t.Fatalf("unexpected status: %q", first.Status)
	}
	if first.HomeScore == nil || *first.HomeScore != 2 {
		t.Fatalf("unexpected home score: %v", first.HomeScore)
	}
	if first.AwayScore == nil || *first.AwayScore != 0 {
		t.Fatalf("unexpected away score: %v", first.AwayScore)
	}
	if first.Venue != "Estadio Azteca" {
		t.Fatalf("unexpected venue: %q", first.Venue)
	}
	if first.FinishedAt == nil {
		t.Fatalf("expected finished_at to be parsed")
	}

	second := games[1]
	if second.Stage != "FINAL" || second.HomeScore != nil {
		t.Fatalf("unexpected second game: %+v", second)
	}
	if second.KickoffAt.IsZero() {
		t.Fatalf("expected kickoff to be parsed from space-separated layout")
	}

	if len(payloads) != 1 {
		t.Fatalf("expected 1 raw payload, got %d", len(payloads))
	}
	payload := payloads[0]
	if payload.Source != "scoresfeed" || payload.EntityType != "api_response" {
		t.Fatalf("unexpected payload identity: %+v", payload)
	}
	if payload.TournamentRefID != "1326" {
		t.Fatalf("unexpected tournament ref: %q", payload.TournamentRefID)
	}
	if payload.PayloadHash == "" || payload.PayloadJSON == "" {
		t.Fatalf("expected payload body and hash to be set")
	}
}

func TestClientFetchTournamentGames_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 2)

	games, _, err := client.FetchTournamentGames(context.Background(), 1326)
	if err != nil {
		t.Fatalf("fetch tournament games: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("expected empty game list, got %d", len(games))
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("expected 2 requests, got %d", got)
	}
}

func TestClientFetchTournamentGames_DoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 3)

	if _, _, err := client.FetchTournamentGames(context.Background(), 1326); err == nil {
		t.Fatalf("expected error for 403")
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("expected 1 request without retries, got %d", got)
	}
}

func TestClientFetchTournamentGames_RejectsBadFeedRef(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "http://localhost:0", 0)
	if _, _, err := client.FetchTournamentGames(context.Background(), 0); err == nil {
		t.Fatalf("expected error for zero feed ref id")
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText(`dial failed api_token=secret-1 url="https://x?api_token=secret-1"`, "secret-1")
	if got != `dial failed api_token=REDACTED url="https://x?api_token=REDACTED"` {
		t.Fatalf("unexpected sanitized text: %q", got)
	}
}
