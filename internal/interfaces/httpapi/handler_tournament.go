package httpapi

import (
	"net/http"
	"time"

	"github.com/prodehub/prode-api/internal/domain/tournament"
)

type tournamentDTO struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Season   string     `json:"season"`
	Status   string     `json:"status"`
	StartsAt time.Time  `json:"startsAt"`
	EndsAt   *time.Time `json:"endsAt,omitempty"`
}

type teamDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Short string `json:"short"`
	Group string `json:"group"`
}

func tournamentToDTO(t tournament.Tournament) tournamentDTO {
	return tournamentDTO{
		ID:       t.ID,
		Name:     t.Name,
		Season:   t.Season,
		Status:   t.Status,
		StartsAt: t.StartsAt,
		EndsAt:   t.EndsAt,
	}
}

func (h *Handler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournaments")
	defer span.End()

	tournaments, err := h.tournamentService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list tournaments failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]tournamentDTO, 0, len(tournaments))
	for _, t := range tournaments {
		items = append(items, tournamentToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournament")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	item, err := h.tournamentService.Get(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "get tournament failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tournamentToDTO(item))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	teams, err := h.tournamentService.ListTeams(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamDTO{
			ID:    t.ID,
			Name:  t.Name,
			Short: t.Short,
			Group: t.Group,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
