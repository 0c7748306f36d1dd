package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prodehub/prode-api/internal/domain/game"
	"github.com/prodehub/prode-api/internal/domain/guess"
	"github.com/prodehub/prode-api/internal/domain/tournament"
	"github.com/prodehub/prode-api/internal/platform/cache"
)

// Dashboard is the landing-page summary for one user.
type Dashboard struct {
	TournamentID   string
	TournamentName string
	TotalPoints    int
	Rank           int
	RankChange     int
	Completeness   guess.Completeness
	UpcomingGames  []game.Game
}

const dashboardUpcomingLimit = 5

type DashboardService struct {
	tournamentRepo tournament.Repository
	gameRepo       game.Repository
	guessSvc       *GuessService
	leaderboardSvc *LeaderboardService
	store          *cache.Store
	now            func() time.Time
}

func NewDashboardService(
	tournamentRepo tournament.Repository,
	gameRepo game.Repository,
	guessSvc *GuessService,
	leaderboardSvc *LeaderboardService,
	store *cache.Store,
) *DashboardService {
	return &DashboardService{
		tournamentRepo: tournamentRepo,
		gameRepo:       gameRepo,
		guessSvc:       guessSvc,
		leaderboardSvc: leaderboardSvc,
		store:          store,
		now:            time.Now,
	}
}

func (s *DashboardService) Get(ctx context.Context, userID string) (Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Get")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Dashboard{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	tournaments, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list tournaments for dashboard: %w", err)
	}
	if len(tournaments) == 0 {
		return Dashboard{}, fmt.Errorf("%w: no tournaments available", ErrNotFound)
	}

	selected := tournaments[0]
	for _, t := range tournaments {
		if t.Status == tournament.StatusRunning {
			selected = t
			break
		}
	}

	key := "dashboard:" + selected.ID + ":" + userID
	loaded, err := s.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.build(ctx, selected, userID)
	})
	if err != nil {
		return Dashboard{}, err
	}

	dashboard, ok := loaded.(Dashboard)
	if !ok {
		return Dashboard{}, fmt.Errorf("unexpected dashboard cache entry for key=%s", key)
	}
	return dashboard, nil
}

func (s *DashboardService) build(ctx context.Context, selected tournament.Tournament, userID string) (Dashboard, error) {
	out := Dashboard{
		TournamentID:   selected.ID,
		TournamentName: selected.Name,
	}

	standing, err := s.leaderboardSvc.GetUserStanding(ctx, selected.ID, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Dashboard{}, fmt.Errorf("get standing for dashboard: %w", err)
	}
	if err == nil {
		if standing.Score != nil {
			out.TotalPoints = *standing.Score
		}
		out.Rank = standing.Rank
		out.RankChange = standing.Change
	}

	completeness, err := s.guessSvc.GetCompleteness(ctx, selected.ID, userID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("get completeness for dashboard: %w", err)
	}
	out.Completeness = completeness

	games, err := s.gameRepo.ListByTournament(ctx, selected.ID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list games for dashboard: %w", err)
	}
	now := s.now().UTC()
	upcoming := make([]game.Game, 0, dashboardUpcomingLimit)
	for _, g := range sortGamesByKickoff(games) {
		if g.HasStarted(now) {
			continue
		}
		upcoming = append(upcoming, g)
		if len(upcoming) == dashboardUpcomingLimit {
			break
		}
	}
	out.UpcomingGames = upcoming

	return out, nil
}

func sortGamesByKickoff(games []game.Game) []game.Game {
	sorted := make([]game.Game, len(games))
	copy(sorted, games)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].KickoffAt.Before(sorted[j].KickoffAt)
	})
	return sorted
}
