package jobqueue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prodehub/prode-api/internal/platform/logging"
	"github.com/prodehub/prode-api/internal/platform/resilience"
)

func TestQStashPublisherEnqueue_SendsHeadersAndBody(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth, gotForward, gotDedup string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotForward = r.Header.Get("Upstash-Forward-X-Internal-Job-Token")
		gotDedup = r.Header.Get("Upstash-Deduplication-Id")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          server.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "https://prode-api.fly.dev",
		Retries:          2,
		InternalJobToken: "internal-token",
		Timeout:          2 * time.Second,
		CircuitBreaker:   resilience.CircuitBreakerConfig{Enabled: false},
	}, logging.NewNop())

	err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/sync-scores", nil, 0, "sync-2026-06-11")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if !strings.HasPrefix(gotPath, "/v2/publish/") {
		t.Fatalf("unexpected publish path: %q", gotPath)
	}
	if !strings.HasSuffix(gotPath, "/v1/internal/jobs/sync-scores") {
		t.Fatalf("expected target path in publish URL, got %q", gotPath)
	}
	if gotAuth != "Bearer qstash-token" {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}
	if gotForward != "internal-token" {
		t.Fatalf("unexpected forward token header: %q", gotForward)
	}
	if gotDedup != "sync-2026-06-11" {
		t.Fatalf("unexpected deduplication header: %q", gotDedup)
	}
}

func TestQStashPublisherEnqueue_RejectsEmptyPath(t *testing.T) {
	t.Parallel()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:        "https://qstash.upstash.io",
		Token:          "token",
		TargetBaseURL:  "https://prode-api.fly.dev",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	}, logging.NewNop())

	if err := publisher.Enqueue(context.Background(), "  ", nil, 0, ""); err == nil {
		t.Fatalf("expected error for empty job path")
	}
}

func TestQStashPublisherEnqueue_RejectsBadTargetURL(t *testing.T) {
	t.Parallel()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:        "https://qstash.upstash.io",
		Token:          "token",
		TargetBaseURL:  "ftp://bad",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	}, logging.NewNop())

	if err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/recompute", nil, 0, ""); err == nil {
		t.Fatalf("expected error for unsupported target scheme")
	}
}

func TestNormalizeDelay(t *testing.T) {
	t.Parallel()

	if got := normalizeDelay(0); got != "0s" {
		t.Fatalf("unexpected zero delay: %q", got)
	}
	if got := normalizeDelay(90 * time.Second); got != "90s" {
		t.Fatalf("unexpected delay: %q", got)
	}
}
