package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prodehub/prode-api/internal/domain/boost"
	"github.com/prodehub/prode-api/internal/domain/game"
	"github.com/prodehub/prode-api/internal/platform/id"
	"github.com/prodehub/prode-api/internal/platform/logging"
)

type BoostService struct {
	gameRepo  game.Repository
	boostRepo boost.Repository
	rules     boost.Rules
	idGen     id.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewBoostService(
	gameRepo game.Repository,
	boostRepo boost.Repository,
	rules boost.Rules,
	idGen id.Generator,
	logger *logging.Logger,
) *BoostService {
	if logger == nil {
		logger = logging.Default()
	}

	return &BoostService{
		gameRepo:  gameRepo,
		boostRepo: boostRepo,
		rules:     rules,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *BoostService) PlaceBoost(ctx context.Context, tournamentID, userID, gameID string) (boost.Boost, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoostService.PlaceBoost")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	userID = strings.TrimSpace(userID)
	gameID = strings.TrimSpace(gameID)
	if tournamentID == "" || userID == "" || gameID == "" {
		return boost.Boost{}, fmt.Errorf("%w: tournament_id, user_id and game_id are required", ErrInvalidInput)
	}

	target, exists, err := s.gameRepo.GetByID(ctx, tournamentID, gameID)
	if err != nil {
		return boost.Boost{}, fmt.Errorf("get game for boost: %w", err)
	}
	if !exists {
		return boost.Boost{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	existing, err := s.boostRepo.ListByTournamentAndUser(ctx, tournamentID, userID)
	if err != nil {
		return boost.Boost{}, fmt.Errorf("list boosts: %w", err)
	}

	if err := boost.ValidatePlacement(existing, target, s.now().UTC(), s.rules); err != nil {
		return boost.Boost{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	boostID, err := s.idGen.NewID()
	if err != nil {
		return boost.Boost{}, fmt.Errorf("generate boost id: %w", err)
	}

	placed := boost.Boost{
		ID:           boostID,
		TournamentID: tournamentID,
		UserID:       userID,
		GameID:       gameID,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.boostRepo.Create(ctx, placed); err != nil {
		return boost.Boost{}, fmt.Errorf("create boost: %w", err)
	}

	s.logger.InfoContext(ctx, "boost placed",
		"tournament_id", tournamentID,
		"user_id", userID,
		"game_id", gameID,
	)

	return placed, nil
}

func (s *BoostService) RemoveBoost(ctx context.Context, tournamentID, userID, gameID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoostService.RemoveBoost")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	userID = strings.TrimSpace(userID)
	gameID = strings.TrimSpace(gameID)
	if tournamentID == "" || userID == "" || gameID == "" {
		return fmt.Errorf("%w: tournament_id, user_id and game_id are required", ErrInvalidInput)
	}

	target, exists, err := s.gameRepo.GetByID(ctx, tournamentID, gameID)
	if err != nil {
		return fmt.Errorf("get game for boost removal: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	if target.HasStarted(s.now().UTC()) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, boost.ErrGameAlreadyStarted)
	}

	if err := s.boostRepo.Delete(ctx, tournamentID, userID, gameID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete boost: %w", err)
	}
	return nil
}

func (s *BoostService) ListUserBoosts(ctx context.Context, tournamentID, userID string) ([]boost.Boost, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoostService.ListUserBoosts")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	userID = strings.TrimSpace(userID)
	if tournamentID == "" || userID == "" {
		return nil, fmt.Errorf("%w: tournament_id and user_id are required", ErrInvalidInput)
	}

	items, err := s.boostRepo.ListByTournamentAndUser(ctx, tournamentID, userID)
	if err != nil {
		return nil, fmt.Errorf("list boosts: %w", err)
	}
	return items, nil
}
