package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/prodehub/prode-api/internal/domain/game"
	"github.com/prodehub/prode-api/internal/domain/rawdata"
	"github.com/prodehub/prode-api/internal/domain/tournament"
	"github.com/prodehub/prode-api/internal/platform/id"
	"github.com/prodehub/prode-api/internal/platform/logging"
)

// ScoresFeedProvider pulls schedule and result data from the upstream feed.
type ScoresFeedProvider interface {
	FetchTournamentGames(ctx context.Context, feedRefID int64) ([]ExternalGame, []rawdata.Payload, error)
}

// ExternalGame is one game as the feed reports it, before it is matched to
// our records.
type ExternalGame struct {
	ExternalID       int64
	Stage            string
	Group            string
	HomeTeamName     string
	AwayTeamName     string
	KickoffAt        time.Time
	Venue            string
	Status           string
	HomeScore        *int
	AwayScore        *int
	HomePenaltyScore *int
	AwayPenaltyScore *int
	FinishedAt       *time.Time
}

// SyncResult summarizes one ingestion run.
type SyncResult struct {
	Tournaments int
	Created     int
	Updated     int
	Failed      int
}

const defaultSyncWorkers = 4

type ingestionScoringProvider interface {
	Recompute(ctx context.Context, tournamentID string) error
}

type IngestionService struct {
	tournamentRepo tournament.Repository
	gameRepo       game.Repository
	rawDataRepo    rawdata.Repository
	feed           ScoresFeedProvider
	scoringSvc     ingestionScoringProvider
	idGen          id.Generator
	logger         *logging.Logger
	workers        int
}

func NewIngestionService(
	tournamentRepo tournament.Repository,
	gameRepo game.Repository,
	rawDataRepo rawdata.Repository,
	feed ScoresFeedProvider,
	scoringSvc ingestionScoringProvider,
	idGen id.Generator,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &IngestionService{
		tournamentRepo: tournamentRepo,
		gameRepo:       gameRepo,
		rawDataRepo:    rawDataRepo,
		feed:           feed,
		scoringSvc:     scoringSvc,
		idGen:          idGen,
		logger:         logger,
		workers:        defaultSyncWorkers,
	}
}

// SyncAll pulls every tournament from the feed concurrently. A failing
// tournament does not stop the others; the first error is reported after
// all workers finish.
func (s *IngestionService) SyncAll(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.SyncAll")
	defer span.End()

	if s.feed == nil {
		return SyncResult{}, fmt.Errorf("%w: scores feed is not configured", ErrDependencyUnavailable)
	}

	tournaments, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("list tournaments for sync: %w", err)
	}

	result := SyncResult{}
	results := make(chan SyncResult, len(tournaments))

	p := pool.New().WithContext(ctx).WithMaxGoroutines(s.workers)
	for _, t := range tournaments {
		t := t
		if t.FeedRefID <= 0 || t.Status == tournament.StatusFinished {
			continue
		}
		result.Tournaments++
		p.Go(func(ctx context.Context) error {
			row, syncErr := s.SyncTournament(ctx, t.ID)
			if syncErr != nil {
				s.logger.ErrorContext(ctx, "tournament sync failed",
					"tournament_id", t.ID,
					"error", syncErr,
				)
				results <- SyncResult{Failed: 1}
				return syncErr
			}
			results <- row
			return nil
		})
	}
	err = p.Wait()
	close(results)

	for row := range results {
		result.Created += row.Created
		result.Updated += row.Updated
		result.Failed += row.Failed
	}
	if err != nil {
		return result, fmt.Errorf("sync tournaments: %w", err)
	}
	return result, nil
}

// SyncTournament pulls one tournament's games from the feed, upserts them
// and archives the raw payloads. The leaderboard is recomputed when any
// game changed.
func (s *IngestionService) SyncTournament(ctx context.Context, tournamentID string) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.SyncTournament")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return SyncResult{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}
	if s.feed == nil {
		return SyncResult{}, fmt.Errorf("%w: scores feed is not configured", ErrDependencyUnavailable)
	}

	t, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("get tournament for sync: %w", err)
	}
	if !exists {
		return SyncResult{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}
	if t.FeedRefID <= 0 {
		return SyncResult{}, fmt.Errorf("%w: tournament=%s has no feed reference", ErrInvalidInput, tournamentID)
	}

	external, payloads, err := s.feed.FetchTournamentGames(ctx, t.FeedRefID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%w: fetch tournament games: %v", ErrDependencyUnavailable, err)
	}

	existing, err := s.gameRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("list games for sync: %w", err)
	}
	byFeedRef := make(map[int64]game.Game, len(existing))
	for _, g := range existing {
		if g.FeedRefID > 0 {
			byFeedRef[g.FeedRefID] = g
		}
	}

	result := SyncResult{Tournaments: 1}
	upserts := make([]game.Game, 0, len(external))
	for _, item := range external {
		if item.ExternalID <= 0 {
			continue
		}

		g, known := byFeedRef[item.ExternalID]
		if !known {
			gameID, idErr := s.idGen.NewID()
			if idErr != nil {
				return SyncResult{}, fmt.Errorf("generate game id: %w", idErr)
			}
			g = game.Game{
				ID:           gameID,
				TournamentID: tournamentID,
				FeedRefID:    item.ExternalID,
			}
			result.Created++
		} else {
			result.Updated++
		}

		g.Stage = game.NormalizeStage(item.Stage)
		g.Group = strings.ToUpper(strings.TrimSpace(item.Group))
		g.HomeTeam = strings.TrimSpace(item.HomeTeamName)
		g.AwayTeam = strings.TrimSpace(item.AwayTeamName)
		g.KickoffAt = item.KickoffAt
		g.Venue = strings.TrimSpace(item.Venue)
		g.Status = game.NormalizeStatus(item.Status)
		g.HomeScore = item.HomeScore
		g.AwayScore = item.AwayScore
		g.HomePenaltyScore = item.HomePenaltyScore
		g.AwayPenaltyScore = item.AwayPenaltyScore
		g.FinishedAt = item.FinishedAt
		upserts = append(upserts, g)
	}

	if len(upserts) > 0 {
		if err := s.gameRepo.UpsertGames(ctx, tournamentID, upserts); err != nil {
			return SyncResult{}, fmt.Errorf("upsert games from feed: %w", err)
		}
	}

	if len(payloads) > 0 && s.rawDataRepo != nil {
		if err := s.rawDataRepo.UpsertMany(ctx, payloads); err != nil {
			s.logger.WarnContext(ctx, "raw payload archive failed",
				"tournament_id", tournamentID,
				"error", err,
			)
		}
	}

	s.logger.InfoContext(ctx, "tournament synced",
		"tournament_id", tournamentID,
		"created", result.Created,
		"updated", result.Updated,
	)

	if len(upserts) > 0 && s.scoringSvc != nil {
		if err := s.scoringSvc.Recompute(ctx, tournamentID); err != nil {
			return result, fmt.Errorf("recompute after sync: %w", err)
		}
	}

	return result, nil
}
