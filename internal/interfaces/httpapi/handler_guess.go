package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/prodehub/prode-api/internal/domain/guess"
	"github.com/prodehub/prode-api/internal/usecase"
)

type guessDTO struct {
	GameID            string    `json:"gameId"`
	HomeScore         *int      `json:"homeScore,omitempty"`
	AwayScore         *int      `json:"awayScore,omitempty"`
	HomePenaltyWinner *bool     `json:"homePenaltyWinner,omitempty"`
	AwayPenaltyWinner *bool     `json:"awayPenaltyWinner,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func guessToDTO(g guess.Guess) guessDTO {
	return guessDTO{
		GameID:            g.GameID,
		HomeScore:         g.HomeScore,
		AwayScore:         g.AwayScore,
		HomePenaltyWinner: g.HomePenaltyWinner,
		AwayPenaltyWinner: g.AwayPenaltyWinner,
		UpdatedAt:         g.UpdatedAt,
	}
}

type gameGuessRequest struct {
	GameID            string `json:"game_id" validate:"required"`
	HomeScore         *int   `json:"home_score"`
	AwayScore         *int   `json:"away_score"`
	HomePenaltyWinner *bool  `json:"home_penalty_winner"`
	AwayPenaltyWinner *bool  `json:"away_penalty_winner"`
}

type upsertGuessesRequest struct {
	Guesses []gameGuessRequest `json:"guesses" validate:"required,min=1,dive"`
}

func (h *Handler) UpsertMyGuesses(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertMyGuesses")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req upsertGuessesRequest
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
	input := usecase.UpsertGuessesInput{
		TournamentID: tournamentID,
		UserID:       principal.ID,
	}
	for _, item := range req.Guesses {
		input.Guesses = append(input.Guesses, usecase.GameGuessInput{
			GameID:            item.GameID,
			HomeScore:         item.HomeScore,
			AwayScore:         item.AwayScore,
			HomePenaltyWinner: item.HomePenaltyWinner,
			AwayPenaltyWinner: item.AwayPenaltyWinner,
		})
	}

	saved, err := h.guessService.UpsertGuesses(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "upsert guesses failed", "tournament_id", tournamentID, "user_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]guessDTO, 0, len(saved))
	for _, g := range saved {
		items = append(items, guessToDTO(g))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMyGuesses(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyGuesses")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	tournamentID := r.PathValue("tournamentID")
	guesses, err := h.guessService.ListUserGuesses(ctx, tournamentID, principal.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "list guesses failed", "tournament_id", tournamentID, "user_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]guessDTO, 0, len(guesses))
	for _, g := range guesses {
		items = append(items, guessToDTO(g))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type upsertPicksRequest struct {
	ChampionTeamID  string `json:"champion_team_id"`
	RunnerUpTeamID  string `json:"runner_up_team_id"`
	TopScorerPlayer string `json:"top_scorer_player" validate:"max=120"`
}

type tournamentPicksDTO struct {
	ChampionTeamID  string    `json:"championTeamId,omitempty"`
	RunnerUpTeamID  string    `json:"runnerUpTeamId,omitempty"`
	TopScorerPlayer string    `json:"topScorerPlayer,omitempty"`
	Complete        bool      `json:"complete"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func tournamentPicksToDTO(p guess.TournamentPicks) tournamentPicksDTO {
	return tournamentPicksDTO{
		ChampionTeamID:  p.ChampionTeamID,
		RunnerUpTeamID:  p.RunnerUpTeamID,
		TopScorerPlayer: p.TopScorerPlayer,
		Complete:        p.IsComplete(),
		UpdatedAt:       p.UpdatedAt,
	}
}

func (h *Handler) UpsertMyPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertMyPicks")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req upsertPicksRequest
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
	saved, err := h.guessService.UpsertTournamentPicks(ctx, usecase.UpsertTournamentPicksInput{
		TournamentID:    tournamentID,
		UserID:          principal.ID,
		ChampionTeamID:  req.ChampionTeamID,
		RunnerUpTeamID:  req.RunnerUpTeamID,
		TopScorerPlayer: req.TopScorerPlayer,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upsert tournament picks failed", "tournament_id", tournamentID, "user_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tournamentPicksToDTO(saved))
}

func (h *Handler) GetMyPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyPicks")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	tournamentID := r.PathValue("tournamentID")
	picks, err := h.guessService.GetTournamentPicks(ctx, tournamentID, principal.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "get tournament picks failed", "tournament_id", tournamentID, "user_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tournamentPicksToDTO(picks))
}

type upsertGroupOrderPickRequest struct {
	Group          string   `json:"group" validate:"required,max=10"`
	OrderedTeamIDs []string `json:"ordered_team_ids" validate:"required,min=2,dive,required"`
}

type groupOrderPickDTO struct {
	Group          string    `json:"group"`
	OrderedTeamIDs []string  `json:"orderedTeamIds"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (h *Handler) UpsertMyGroupOrderPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertMyGroupOrderPick")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req upsertGroupOrderPickRequest
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
	saved, err := h.guessService.UpsertGroupOrderPick(ctx, usecase.UpsertGroupOrderPickInput{
		TournamentID:   tournamentID,
		UserID:         principal.ID,
		Group:          req.Group,
		OrderedTeamIDs: req.OrderedTeamIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upsert group order pick failed", "tournament_id", tournamentID, "user_id", principal.ID, "group", req.Group, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, groupOrderPickDTO{
		Group:          saved.Group,
		OrderedTeamIDs: saved.OrderedTeamIDs,
		UpdatedAt:      saved.UpdatedAt,
	})
}

type completenessDTO struct {
	TotalGames      int     `json:"totalGames"`
	PredictedGames  int     `json:"predictedGames"`
	TotalGroups     int     `json:"totalGroups"`
	PredictedGroups int     `json:"predictedGroups"`
	PicksComplete   bool    `json:"picksComplete"`
	Percent         float64 `json:"percent"`
}

func (h *Handler) GetMyCompleteness(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyCompleteness")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	tournamentID := r.PathValue("tournamentID")
	completeness, err := h.guessService.GetCompleteness(ctx, tournamentID, principal.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "get completeness failed", "tournament_id", tournamentID, "user_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, completenessDTO{
		TotalGames:      completeness.TotalGames,
		PredictedGames:  completeness.PredictedGames,
		TotalGroups:     completeness.TotalGroups,
		PredictedGroups: completeness.PredictedGroups,
		PicksComplete:   completeness.PicksComplete,
		Percent:         completeness.Percent,
	})
}
