package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prodehub/prode-api/internal/domain/boost"
	"github.com/prodehub/prode-api/internal/domain/game"
	"github.com/prodehub/prode-api/internal/domain/guess"
	"github.com/prodehub/prode-api/internal/domain/scoring"
	"github.com/prodehub/prode-api/internal/platform/logging"
)

// GameWithGuess pairs a game with the caller's prediction and the points it
// earned, once the game has a result.
type GameWithGuess struct {
	Game       game.Game
	Guess      *guess.Guess
	Points     int
	Multiplier int
	Boosted    bool
}

// GameResultInput is one official result reported for a game.
type GameResultInput struct {
	GameID           string
	Status           string
	HomeScore        *int
	AwayScore        *int
	HomePenaltyScore *int
	AwayPenaltyScore *int
	FinishedAt       *time.Time
}

type gameScoringProvider interface {
	Recompute(ctx context.Context, tournamentID string) error
}

type GameService struct {
	gameRepo   game.Repository
	guessRepo  guess.Repository
	boostRepo  boost.Repository
	scoringSvc gameScoringProvider
	boostRules boost.Rules
	logger     *logging.Logger
}

func NewGameService(
	gameRepo game.Repository,
	guessRepo guess.Repository,
	boostRepo boost.Repository,
	scoringSvc gameScoringProvider,
	boostRules boost.Rules,
	logger *logging.Logger,
) *GameService {
	if logger == nil {
		logger = logging.Default()
	}

	return &GameService{
		gameRepo:   gameRepo,
		guessRepo:  guessRepo,
		boostRepo:  boostRepo,
		scoringSvc: scoringSvc,
		boostRules: boostRules,
		logger:     logger,
	}
}

func (s *GameService) ListGames(ctx context.Context, tournamentID string) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.ListGames")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return nil, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	games, err := s.gameRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	sort.SliceStable(games, func(i, j int) bool {
		if !games[i].KickoffAt.Equal(games[j].KickoffAt) {
			return games[i].KickoffAt.Before(games[j].KickoffAt)
		}
		return games[i].ID < games[j].ID
	})
	return games, nil
}

// ListGamesWithUserGuesses annotates the schedule with the caller's guesses
// and the points each one earned so far.
func (s *GameService) ListGamesWithUserGuesses(ctx context.Context, tournamentID, userID string) ([]GameWithGuess, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.ListGamesWithUserGuesses")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	games, err := s.ListGames(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	guesses, err := s.guessRepo.ListByTournamentAndUser(ctx, tournamentID, userID)
	if err != nil {
		return nil, fmt.Errorf("list guesses for schedule: %w", err)
	}
	guessByGame := make(map[string]guess.Guess, len(guesses))
	for _, item := range guesses {
		guessByGame[item.GameID] = item
	}

	boosts, err := s.boostRepo.ListByTournamentAndUser(ctx, tournamentID, userID)
	if err != nil {
		return nil, fmt.Errorf("list boosts for schedule: %w", err)
	}
	boosted := make(map[string]struct{}, len(boosts))
	for _, b := range boosts {
		boosted[b.GameID] = struct{}{}
	}

	out := make([]GameWithGuess, 0, len(games))
	for _, g := range games {
		row := GameWithGuess{Game: g, Multiplier: 1}
		if ps, exists := guessByGame[g.ID]; exists {
			psCopy := ps
			row.Guess = &psCopy
			row.Multiplier = boost.MultiplierFor(g.ID, boosted, s.boostRules)
			row.Points = scoring.ScoreForGame(g, ps) * row.Multiplier
		}
		if _, ok := boosted[g.ID]; ok {
			row.Boosted = true
			row.Multiplier = s.boostRules.Multiplier
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *GameService) GetGame(ctx context.Context, tournamentID, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.GetGame")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	gameID = strings.TrimSpace(gameID)
	if tournamentID == "" || gameID == "" {
		return game.Game{}, fmt.Errorf("%w: tournament_id and game_id are required", ErrInvalidInput)
	}

	g, exists, err := s.gameRepo.GetByID(ctx, tournamentID, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	return g, nil
}

// RecordResults stores official results and recomputes the tournament
// leaderboard. Results land from the feed or from an operator backfill.
func (s *GameService) RecordResults(ctx context.Context, tournamentID string, results []GameResultInput) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.RecordResults")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}
	if len(results) == 0 {
		return fmt.Errorf("%w: results are required", ErrInvalidInput)
	}

	games, err := s.gameRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("list games for results: %w", err)
	}
	gameByID := make(map[string]game.Game, len(games))
	for _, g := range games {
		gameByID[g.ID] = g
	}

	updated := make([]game.Game, 0, len(results))
	for _, result := range results {
		gameID := strings.TrimSpace(result.GameID)
		if gameID == "" {
			return fmt.Errorf("%w: game id is required", ErrInvalidInput)
		}
		g, exists := gameByID[gameID]
		if !exists {
			return fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
		}
		if err := validateGameResult(result, g); err != nil {
			return err
		}

		g.Status = game.NormalizeStatus(result.Status)
		g.HomeScore = result.HomeScore
		g.AwayScore = result.AwayScore
		g.HomePenaltyScore = result.HomePenaltyScore
		g.AwayPenaltyScore = result.AwayPenaltyScore
		g.FinishedAt = result.FinishedAt
		updated = append(updated, g)
	}

	if err := s.gameRepo.UpsertResults(ctx, tournamentID, updated); err != nil {
		return fmt.Errorf("upsert game results: %w", err)
	}

	s.logger.InfoContext(ctx, "game results recorded",
		"tournament_id", tournamentID,
		"count", len(updated),
	)

	if s.scoringSvc != nil {
		if err := s.scoringSvc.Recompute(ctx, tournamentID); err != nil {
			return fmt.Errorf("recompute after results: %w", err)
		}
	}
	return nil
}

func validateGameResult(result GameResultInput, g game.Game) error {
	for _, score := range []*int{result.HomeScore, result.AwayScore, result.HomePenaltyScore, result.AwayPenaltyScore} {
		if score != nil && *score < 0 {
			return fmt.Errorf("%w: game=%s scores cannot be negative", ErrInvalidInput, result.GameID)
		}
	}
	if (result.HomeScore == nil) != (result.AwayScore == nil) {
		return fmt.Errorf("%w: game=%s both scores are required", ErrInvalidInput, result.GameID)
	}

	hasPenalties := result.HomePenaltyScore != nil || result.AwayPenaltyScore != nil
	if hasPenalties && !g.IsKnockout() {
		return fmt.Errorf("%w: game=%s penalty scores only apply to knockout games", ErrInvalidInput, result.GameID)
	}
	if hasPenalties && result.HomeScore != nil && *result.HomeScore != *result.AwayScore {
		return fmt.Errorf("%w: game=%s penalty scores require a drawn regulation score", ErrInvalidInput, result.GameID)
	}
	return nil
}
