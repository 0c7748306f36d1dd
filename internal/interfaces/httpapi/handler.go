package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/prodehub/prode-api/internal/platform/logging"
	"github.com/prodehub/prode-api/internal/usecase"
)

type Handler struct {
	tournamentService  *usecase.TournamentService
	gameService        *usecase.GameService
	guessService       *usecase.GuessService
	boostService       *usecase.BoostService
	scoringService     *usecase.ScoringService
	leaderboardService *usecase.LeaderboardService
	dashboardService   *usecase.DashboardService
	jobScheduler       *usecase.JobSchedulerService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	tournamentService *usecase.TournamentService,
	gameService *usecase.GameService,
	guessService *usecase.GuessService,
	boostService *usecase.BoostService,
	scoringService *usecase.ScoringService,
	leaderboardService *usecase.LeaderboardService,
	dashboardService *usecase.DashboardService,
	jobScheduler *usecase.JobSchedulerService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		tournamentService:  tournamentService,
		gameService:        gameService,
		guessService:       guessService,
		boostService:       boostService,
		scoringService:     scoringService,
		leaderboardService: leaderboardService,
		dashboardService:   dashboardService,
		jobScheduler:       jobScheduler,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
