package httpapi

import (
	"net/http"

	"github.com/prodehub/prode-api/internal/usecase"
)

type syncResultDTO struct {
	Tournaments int `json:"tournaments"`
	Created     int `json:"created"`
	Updated     int `json:"updated"`
	Failed      int `json:"failed"`
}

func syncResultToDTO(result usecase.SyncResult) syncResultDTO {
	return syncResultDTO{
		Tournaments: result.Tournaments,
		Created:     result.Created,
		Updated:     result.Updated,
		Failed:      result.Failed,
	}
}

func (h *Handler) RunSyncScoresJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncScoresJob")
	defer span.End()

	result, err := h.jobScheduler.RunSyncCycle(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync scores job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncResultToDTO(result))
}

func (h *Handler) RunSyncTournamentJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncTournamentJob")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	result, err := h.jobScheduler.SyncTournament(ctx, tournamentID)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync tournament job failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncResultToDTO(result))
}

type recomputeTaskDTO struct {
	TournamentID string `json:"tournament_id"`
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	DurationMs   int64  `json:"duration_ms"`
}

type recomputeResultDTO struct {
	Tasks        []recomputeTaskDTO `json:"tasks"`
	SuccessCount int                `json:"success_count"`
	FailedCount  int                `json:"failed_count"`
}

func (h *Handler) RunRecomputeJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRecomputeJob")
	defer span.End()

	result, err := h.jobScheduler.RunRecomputeCycle(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "recompute job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	tasks := make([]recomputeTaskDTO, 0, len(result.Tasks))
	for _, task := range result.Tasks {
		tasks = append(tasks, recomputeTaskDTO{
			TournamentID: task.TournamentID,
			Status:       task.Status,
			Message:      task.Message,
			DurationMs:   task.DurationMs,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, recomputeResultDTO{
		Tasks:        tasks,
		SuccessCount: result.SuccessCount,
		FailedCount:  result.FailedCount,
	})
}
