package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prodehub/prode-api/internal/domain/tournament"
)

type recordingJobQueue struct {
	paths    []string
	delays   []time.Duration
	dedupIDs []string
	err      error
}

func (q *recordingJobQueue) Enqueue(_ context.Context, path string, _ any, delay time.Duration, deduplicationID string) error {
	if q.err != nil {
		return q.err
	}
	q.paths = append(q.paths, path)
	q.delays = append(q.delays, delay)
	q.dedupIDs = append(q.dedupIDs, deduplicationID)
	return nil
}

func newSchedulerFixture(queue JobQueue) *JobSchedulerService {
	tournamentRepo := &stubTournamentRepository{
		tournaments: []tournament.Tournament{
			{ID: "world-cup-2026", Status: tournament.StatusRunning},
		},
	}
	scoringSvc := &recordingScoring{}
	ingestionSvc := NewIngestionService(tournamentRepo, &stubGameRepository{}, &stubRawDataRepository{}, nil, scoringSvc, nil, nil)
	recomputeSvc := NewRecomputeService(tournamentRepo, scoringSvc, nil, nil)

	svc := NewJobSchedulerService(ingestionSvc, recomputeSvc, queue, JobSchedulerConfig{
		SyncInterval:     10 * time.Minute,
		SnapshotInterval: 24 * time.Hour,
	}, nil)
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestJobSchedulerRunRecomputeCycleEnqueuesNext(t *testing.T) {
	t.Parallel()

	queue := &recordingJobQueue{}
	svc := newSchedulerFixture(queue)

	result, err := svc.RunRecomputeCycle(context.Background())
	if err != nil {
		t.Fatalf("RunRecomputeCycle error: %v", err)
	}
	if result.SuccessCount != 1 {
		t.Fatalf("expected 1 successful task, got %+v", result)
	}

	if len(queue.paths) != 1 || queue.paths[0] != "/v1/internal/jobs/recompute" {
		t.Fatalf("unexpected enqueued paths: %v", queue.paths)
	}
	if queue.delays[0] != 24*time.Hour {
		t.Fatalf("unexpected delay: %v", queue.delays[0])
	}
	wantDedup := "recompute-1780401600"
	if queue.dedupIDs[0] != wantDedup {
		t.Fatalf("dedup id = %q, want %q", queue.dedupIDs[0], wantDedup)
	}
}

func TestJobSchedulerRunRecomputeCyclePropagatesQueueError(t *testing.T) {
	t.Parallel()

	queueErr := errors.New("qstash down")
	svc := newSchedulerFixture(&recordingJobQueue{err: queueErr})

	_, err := svc.RunRecomputeCycle(context.Background())
	if !errors.Is(err, queueErr) {
		t.Fatalf("expected queue error, got %v", err)
	}
}

func TestJobSchedulerNilQueueIsNoop(t *testing.T) {
	t.Parallel()

	svc := newSchedulerFixture(nil)

	if _, err := svc.RunRecomputeCycle(context.Background()); err != nil {
		t.Fatalf("RunRecomputeCycle with noop queue error: %v", err)
	}
}

func TestSanitizeDedupID(t *testing.T) {
	t.Parallel()

	got := sanitizeDedupID("sync scores:2026/06")
	want := "sync-scores-2026-06"
	if got != want {
		t.Fatalf("sanitizeDedupID = %q, want %q", got, want)
	}
}
