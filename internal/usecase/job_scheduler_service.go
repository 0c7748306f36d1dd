package usecase

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/prodehub/prode-api/internal/platform/logging"
)

// JobQueue delivers deferred callbacks to the internal job endpoints.
type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

type JobSchedulerConfig struct {
	SyncInterval     time.Duration
	SnapshotInterval time.Duration
}

// JobSchedulerService runs the recurring sync and recompute cycles and keeps
// the chain alive by enqueueing the next run of each cycle after it finishes.
type JobSchedulerService struct {
	ingestionSvc *IngestionService
	recomputeSvc *RecomputeService
	queue        JobQueue
	cfg          JobSchedulerConfig
	logger       *logging.Logger
	now          func() time.Time
}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func NewJobSchedulerService(
	ingestionSvc *IngestionService,
	recomputeSvc *RecomputeService,
	queue JobQueue,
	cfg JobSchedulerConfig,
	logger *logging.Logger,
) *JobSchedulerService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = 5 * time.Minute
	}
	if cfg.SnapshotInterval <= 0 {
		cfg.SnapshotInterval = 24 * time.Hour
	}

	return &JobSchedulerService{
		ingestionSvc: ingestionSvc,
		recomputeSvc: recomputeSvc,
		queue:        queue,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// RunSyncCycle syncs every tournament from the scores feed and schedules the
// next cycle.
func (s *JobSchedulerService) RunSyncCycle(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobSchedulerService.RunSyncCycle")
	defer span.End()

	result, err := s.ingestionSvc.SyncAll(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	if err := s.enqueueNext(ctx, "/v1/internal/jobs/sync-scores", "sync-scores", s.cfg.SyncInterval); err != nil {
		return SyncResult{}, err
	}
	return result, nil
}

// SyncTournament refreshes a single tournament without touching the recurring
// chain.
func (s *JobSchedulerService) SyncTournament(ctx context.Context, tournamentID string) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobSchedulerService.SyncTournament")
	defer span.End()

	return s.ingestionSvc.SyncTournament(ctx, tournamentID)
}

// RunRecomputeCycle recomputes every tournament leaderboard and schedules the
// next cycle. The daily cadence is what captures the snapshots that
// rank-change history depends on.
func (s *JobSchedulerService) RunRecomputeCycle(ctx context.Context) (RecomputeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobSchedulerService.RunRecomputeCycle")
	defer span.End()

	result, err := s.recomputeSvc.RecomputeAll(ctx)
	if err != nil {
		return RecomputeResult{}, err
	}

	if err := s.enqueueNext(ctx, "/v1/internal/jobs/recompute", "recompute", s.cfg.SnapshotInterval); err != nil {
		return RecomputeResult{}, err
	}
	return result, nil
}

func (s *JobSchedulerService) enqueueNext(ctx context.Context, path, kind string, delay time.Duration) error {
	runAt := s.now().UTC().Add(delay)
	dedupID := sanitizeDedupID(fmt.Sprintf("%s-%d", kind, runAt.Unix()))

	if err := s.queue.Enqueue(ctx, path, nil, delay, dedupID); err != nil {
		return fmt.Errorf("enqueue next %s cycle: %w", kind, err)
	}

	s.logger.DebugContext(ctx, "next job cycle enqueued",
		"kind", kind,
		"run_at", runAt.Format(time.RFC3339),
	)
	return nil
}

func sanitizeDedupID(raw string) string {
	return dedupUnsafeCharRegex.ReplaceAllString(raw, "-")
}
