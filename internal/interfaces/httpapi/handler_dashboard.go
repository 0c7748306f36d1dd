package httpapi

import (
	"fmt"
	"net/http"

	"github.com/prodehub/prode-api/internal/usecase"
)

type dashboardDTO struct {
	TournamentID   string          `json:"tournamentId"`
	TournamentName string          `json:"tournamentName"`
	TotalPoints    int             `json:"totalPoints"`
	Rank           int             `json:"rank"`
	RankChange     int             `json:"rankChange"`
	Completeness   completenessDTO `json:"completeness"`
	UpcomingGames  []gameDTO       `json:"upcomingGames"`
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	dashboard, err := h.dashboardService.Get(ctx, principal.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get dashboard failed", "user_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	upcoming := make([]gameDTO, 0, len(dashboard.UpcomingGames))
	for _, g := range dashboard.UpcomingGames {
		upcoming = append(upcoming, gameToDTO(g))
	}

	writeSuccess(ctx, w, http.StatusOK, dashboardDTO{
		TournamentID:   dashboard.TournamentID,
		TournamentName: dashboard.TournamentName,
		TotalPoints:    dashboard.TotalPoints,
		Rank:           dashboard.Rank,
		RankChange:     dashboard.RankChange,
		Completeness: completenessDTO{
			TotalGames:      dashboard.Completeness.TotalGames,
			PredictedGames:  dashboard.Completeness.PredictedGames,
			TotalGroups:     dashboard.Completeness.TotalGroups,
			PredictedGroups: dashboard.Completeness.PredictedGroups,
			PicksComplete:   dashboard.Completeness.PicksComplete,
			Percent:         dashboard.Completeness.Percent,
		},
		UpcomingGames: upcoming,
	})
}
