package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/prodehub/prode-api/internal/domain/tournament"
	"github.com/prodehub/prode-api/internal/platform/cache"
	"github.com/prodehub/prode-api/internal/platform/logging"
)

// RecomputeTaskResult is one tournament's row in a bulk recompute report.
type RecomputeTaskResult struct {
	TournamentID string
	Status       string
	Message      string
	DurationMs   int64
}

// RecomputeResult is the report of one bulk recompute run.
type RecomputeResult struct {
	Tasks        []RecomputeTaskResult
	SuccessCount int
	FailedCount  int
}

const (
	recomputeStatusSuccess = "success"
	recomputeStatusFailed  = "failed"

	defaultRecomputeWorkers = 4
)

// RecomputeService rebuilds every tournament's leaderboard from scratch.
// Operators run it after scoring-rule fixes or data backfills.
type RecomputeService struct {
	tournamentRepo tournament.Repository
	scoringSvc     ingestionScoringProvider
	store          *cache.Store
	logger         *logging.Logger
	workers        int
}

func NewRecomputeService(
	tournamentRepo tournament.Repository,
	scoringSvc ingestionScoringProvider,
	store *cache.Store,
	logger *logging.Logger,
) *RecomputeService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RecomputeService{
		tournamentRepo: tournamentRepo,
		scoringSvc:     scoringSvc,
		store:          store,
		logger:         logger,
		workers:        defaultRecomputeWorkers,
	}
}

func (s *RecomputeService) RecomputeAll(ctx context.Context) (RecomputeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecomputeService.RecomputeAll")
	defer span.End()

	tournaments, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("list tournaments for recompute: %w", err)
	}
	if len(tournaments) == 0 {
		return RecomputeResult{Tasks: []RecomputeTaskResult{}}, nil
	}

	workerCount := s.workers
	if workerCount > len(tournaments) {
		workerCount = len(tournaments)
	}

	results := make(chan RecomputeTaskResult, len(tournaments))

	var successCount atomic.Int32
	var failedCount atomic.Int32

	antsPool, err := ants.NewPool(workerCount)
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer antsPool.Release()

	var workers sync.WaitGroup
	for _, t := range tournaments {
		t := t
		workers.Add(1)
		if err := antsPool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RecomputeTaskResult{
				TournamentID: t.ID,
				Status:       recomputeStatusSuccess,
			}
			if runErr := s.scoringSvc.Recompute(ctx, t.ID); runErr != nil {
				row.Status = recomputeStatusFailed
				row.Message = runErr.Error()
				failedCount.Add(1)
			} else {
				successCount.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()

			results <- row
		}); err != nil {
			workers.Done()
			return RecomputeResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	result := RecomputeResult{
		Tasks:        make([]RecomputeTaskResult, 0, len(tournaments)),
		SuccessCount: int(successCount.Load()),
		FailedCount:  int(failedCount.Load()),
	}
	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}

	if s.store != nil {
		s.store.Flush(ctx)
	}

	s.logger.InfoContext(ctx, "bulk recompute finished",
		"tournaments", len(tournaments),
		"success", result.SuccessCount,
		"failed", result.FailedCount,
	)

	return result, nil
}
