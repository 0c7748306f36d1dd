package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prodehub/prode-api/internal/domain/game"
	"github.com/prodehub/prode-api/internal/usecase"
)

type gameDTO struct {
	ID               string     `json:"id"`
	Stage            string     `json:"stage"`
	Group            string     `json:"group,omitempty"`
	HomeTeamID       string     `json:"homeTeamId,omitempty"`
	AwayTeamID       string     `json:"awayTeamId,omitempty"`
	HomeTeam         string     `json:"homeTeam"`
	AwayTeam         string     `json:"awayTeam"`
	KickoffAt        time.Time  `json:"kickoffAt"`
	Venue            string     `json:"venue,omitempty"`
	Status           string     `json:"status"`
	HomeScore        *int       `json:"homeScore,omitempty"`
	AwayScore        *int       `json:"awayScore,omitempty"`
	HomePenaltyScore *int       `json:"homePenaltyScore,omitempty"`
	AwayPenaltyScore *int       `json:"awayPenaltyScore,omitempty"`
	FinishedAt       *time.Time `json:"finishedAt,omitempty"`
}

type gameWithGuessDTO struct {
	gameDTO
	Guess      *guessDTO `json:"guess,omitempty"`
	Points     int       `json:"points"`
	Multiplier int       `json:"multiplier"`
	Boosted    bool      `json:"boosted"`
}

func gameToDTO(g game.Game) gameDTO {
	return gameDTO{
		ID:               g.ID,
		Stage:            g.Stage,
		Group:            g.Group,
		HomeTeamID:       g.HomeTeamID,
		AwayTeamID:       g.AwayTeamID,
		HomeTeam:         g.HomeTeam,
		AwayTeam:         g.AwayTeam,
		KickoffAt:        g.KickoffAt,
		Venue:            g.Venue,
		Status:           g.Status,
		HomeScore:        g.HomeScore,
		AwayScore:        g.AwayScore,
		HomePenaltyScore: g.HomePenaltyScore,
		AwayPenaltyScore: g.AwayPenaltyScore,
		FinishedAt:       g.FinishedAt,
	}
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	games, err := h.gameService.ListGames(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]gameDTO, 0, len(games))
	for _, g := range games {
		items = append(items, gameToDTO(g))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	gameID := r.PathValue("gameID")
	item, err := h.gameService.GetGame(ctx, tournamentID, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get game failed", "tournament_id", tournamentID, "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(item))
}

func (h *Handler) ListMyGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyGames")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	tournamentID := r.PathValue("tournamentID")
	rows, err := h.gameService.ListGamesWithUserGuesses(ctx, tournamentID, principal.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "list games with guesses failed", "tournament_id", tournamentID, "user_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]gameWithGuessDTO, 0, len(rows))
	for _, row := range rows {
		dto := gameWithGuessDTO{
			gameDTO:    gameToDTO(row.Game),
			Points:     row.Points,
			Multiplier: row.Multiplier,
			Boosted:    row.Boosted,
		}
		if row.Guess != nil {
			converted := guessToDTO(*row.Guess)
			dto.Guess = &converted
		}
		items = append(items, dto)
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
