package handler

import (
	"net/http"

	"github.com/mtlprog/taskledger/internal/domain"
	"github.com/mtlprog/taskledger/internal/handler/dto"
)

// handleCountByStatus counts live tasks whose current status matches the
// ?status query parameter.
func (h *Handler) handleCountByStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := r.URL.Query().Get("status")
	if status == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "status query parameter is required")
		return
	}

	count, err := h.taskService.CountTasksByStatus(ctx, domain.TaskStatus(status))
	if err != nil {
		httpStatus, code, message := dto.MapDomainError(err)
		respondError(w, httpStatus, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.CountByStatusResponse{
		Status: status,
		Count:  count,
	})
}

// handleAverageCompletionTime returns the mean due-date-to-creation span in
// fractional days over completed tasks.
func (h *Handler) handleAverageCompletionTime(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	average, err := h.taskService.AverageCompletionDays(ctx)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.AverageCompletionTimeResponse{
		AverageCompletionDays: average,
	})
}

// handleTasksPerUser returns assignment counts grouped by user.
func (h *Handler) handleTasksPerUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts, err := h.taskService.TasksPerUser(ctx)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToUserTaskCountResponses(counts))
}
