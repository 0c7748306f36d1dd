package httpapi

import (
	"fmt"
	"net/http"

	"github.com/prodehub/prode-api/internal/domain/leaderboard"
	"github.com/prodehub/prode-api/internal/usecase"
)

type leaderboardEntryDTO struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
	Change   int    `json:"change"`
}

func rankedEntryToDTO(row leaderboard.RankedEntry) leaderboardEntryDTO {
	score := 0
	if row.Score != nil {
		score = *row.Score
	}
	return leaderboardEntryDTO{
		UserID:   row.UserID,
		Username: row.Username,
		Score:    score,
		Rank:     row.Rank,
		Change:   row.Change,
	}
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	rows, err := h.leaderboardService.GetLeaderboard(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardEntryDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, rankedEntryToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMyStanding(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyStanding")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	tournamentID := r.PathValue("tournamentID")
	row, err := h.leaderboardService.GetUserStanding(ctx, tournamentID, principal.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "get standing failed", "tournament_id", tournamentID, "user_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rankedEntryToDTO(row))
}

type gameScoreDTO struct {
	GameID     string `json:"gameId"`
	Points     int    `json:"points"`
	Multiplier int    `json:"multiplier"`
	Counted    int    `json:"counted"`
}

type scoreBreakdownDTO struct {
	Games      []gameScoreDTO `json:"games"`
	GamePoints int            `json:"gamePoints"`
	PickBonus  int            `json:"pickBonus"`
	GroupBonus int            `json:"groupBonus"`
	Total      int            `json:"total"`
}

func (h *Handler) GetMyScoreBreakdown(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyScoreBreakdown")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	tournamentID := r.PathValue("tournamentID")
	breakdown, err := h.scoringService.GetUserBreakdown(ctx, tournamentID, principal.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "get score breakdown failed", "tournament_id", tournamentID, "user_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	games := make([]gameScoreDTO, 0, len(breakdown.Games))
	for _, g := range breakdown.Games {
		games = append(games, gameScoreDTO{
			GameID:     g.GameID,
			Points:     g.Points,
			Multiplier: g.Multiplier,
			Counted:    g.Counted,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, scoreBreakdownDTO{
		Games:      games,
		GamePoints: breakdown.GamePoints,
		PickBonus:  breakdown.PickBonus,
		GroupBonus: breakdown.GroupBonus,
		Total:      breakdown.Total,
	})
}
