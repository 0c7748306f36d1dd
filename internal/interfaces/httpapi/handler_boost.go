package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/prodehub/prode-api/internal/domain/boost"
	"github.com/prodehub/prode-api/internal/usecase"
)

type boostDTO struct {
	ID        string    `json:"id"`
	GameID    string    `json:"gameId"`
	CreatedAt time.Time `json:"createdAt"`
}

func boostToDTO(b boost.Boost) boostDTO {
	return boostDTO{
		ID:        b.ID,
		GameID:    b.GameID,
		CreatedAt: b.CreatedAt,
	}
}

type placeBoostRequest struct {
	GameID string `json:"game_id" validate:"required"`
}

func (h *Handler) PlaceBoost(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlaceBoost")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req placeBoostRequest
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
	placed, err := h.boostService.PlaceBoost(ctx, tournamentID, principal.ID, req.GameID)
	if err != nil {
		h.logger.WarnContext(ctx, "place boost failed", "tournament_id", tournamentID, "user_id", principal.ID, "game_id", req.GameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, boostToDTO(placed))
}

func (h *Handler) RemoveBoost(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveBoost")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	tournamentID := r.PathValue("tournamentID")
	gameID := r.PathValue("gameID")
	if err := h.boostService.RemoveBoost(ctx, tournamentID, principal.ID, gameID); err != nil {
		h.logger.WarnContext(ctx, "remove boost failed", "tournament_id", tournamentID, "user_id", principal.ID, "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *Handler) ListMyBoosts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyBoosts")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	tournamentID := r.PathValue("tournamentID")
	boosts, err := h.boostService.ListUserBoosts(ctx, tournamentID, principal.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "list boosts failed", "tournament_id", tournamentID, "user_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]boostDTO, 0, len(boosts))
	for _, b := range boosts {
		items = append(items, boostToDTO(b))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
