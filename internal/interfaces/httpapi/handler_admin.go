package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/prodehub/prode-api/internal/domain/user"
	"github.com/prodehub/prode-api/internal/usecase"
)

func adminFromContext(ctx context.Context) (user.Principal, error) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}
	if !principal.Admin {
		return user.Principal{}, fmt.Errorf("%w: admin role required", usecase.ErrUnauthorized)
	}
	return principal, nil
}

type gameResultRequest struct {
	GameID           string     `json:"game_id" validate:"required"`
	Status           string     `json:"status"`
	HomeScore        *int       `json:"home_score" validate:"required"`
	AwayScore        *int       `json:"away_score" validate:"required"`
	HomePenaltyScore *int       `json:"home_penalty_score"`
	AwayPenaltyScore *int       `json:"away_penalty_score"`
	FinishedAt       *time.Time `json:"finished_at"`
}

type recordResultsRequest struct {
	Results []gameResultRequest `json:"results" validate:"required,min=1,dive"`
}

func (h *Handler) RecordGameResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordGameResults")
	defer span.End()

	principal, err := adminFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req recordResultsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	tournamentID := r.PathValue("tournamentID")
	results := make([]usecase.GameResultInput, 0, len(req.Results))
	for _, item := range req.Results {
		results = append(results, usecase.GameResultInput{
			GameID:           item.GameID,
			Status:           item.Status,
			HomeScore:        item.HomeScore,
			AwayScore:        item.AwayScore,
			HomePenaltyScore: item.HomePenaltyScore,
			AwayPenaltyScore: item.AwayPenaltyScore,
			FinishedAt:       item.FinishedAt,
		})
	}

	if err := h.gameService.RecordResults(ctx, tournamentID, results); err != nil {
		h.logger.WarnContext(ctx, "record game results failed", "tournament_id", tournamentID, "admin_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"recorded": len(results)})
}

type setOutcomeRequest struct {
	ChampionTeamID  string `json:"champion_team_id"`
	RunnerUpTeamID  string `json:"runner_up_team_id"`
	TopScorerPlayer string `json:"top_scorer_player" validate:"max=120"`
}

func (h *Handler) SetTournamentOutcome(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetTournamentOutcome")
	defer span.End()

	principal, err := adminFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req setOutcomeRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	tournamentID := r.PathValue("tournamentID")
	outcome, err := h.tournamentService.SetOutcome(ctx, usecase.SetOutcomeInput{
		TournamentID:    tournamentID,
		ChampionTeamID:  req.ChampionTeamID,
		RunnerUpTeamID:  req.RunnerUpTeamID,
		TopScorerPlayer: req.TopScorerPlayer,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "set tournament outcome failed", "tournament_id", tournamentID, "admin_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"championTeamId":  outcome.ChampionTeamID,
		"runnerUpTeamId":  outcome.RunnerUpTeamID,
		"topScorerPlayer": outcome.TopScorerPlayer,
		"updatedAt":       outcome.UpdatedAt,
	})
}

type groupResultRequest struct {
	Group          string   `json:"group" validate:"required,max=10"`
	OrderedTeamIDs []string `json:"ordered_team_ids" validate:"required,min=2,dive,required"`
}

type setGroupResultsRequest struct {
	Groups []groupResultRequest `json:"groups" validate:"required,min=1,dive"`
}

func (h *Handler) SetGroupResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetGroupResults")
	defer span.End()

	principal, err := adminFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req setGroupResultsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	tournamentID := r.PathValue("tournamentID")
	inputs := make([]usecase.SetGroupResultInput, 0, len(req.Groups))
	for _, item := range req.Groups {
		inputs = append(inputs, usecase.SetGroupResultInput{
			TournamentID:   tournamentID,
			Group:          item.Group,
			OrderedTeamIDs: item.OrderedTeamIDs,
		})
	}

	if err := h.tournamentService.SetGroupResults(ctx, tournamentID, inputs); err != nil {
		h.logger.WarnContext(ctx, "set group results failed", "tournament_id", tournamentID, "admin_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"groups": len(inputs)})
}

func (h *Handler) RecomputeTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecomputeTournament")
	defer span.End()

	principal, err := adminFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	tournamentID := r.PathValue("tournamentID")
	if err := h.scoringService.Recompute(ctx, tournamentID); err != nil {
		h.logger.WarnContext(ctx, "recompute failed", "tournament_id", tournamentID, "admin_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "recomputed"})
}
