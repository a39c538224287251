package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"taskvest/internal/middleware"
	"taskvest/internal/services"
)

type completeTaskRequest struct {
	TaskID        string `json:"task_id"`
	UserPackageID string `json:"user_package_id"`
}

func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req completeTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TaskID == "" || req.UserPackageID == "" {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	result, err := h.taskSvc.Complete(r.Context(), userID, req.TaskID, req.UserPackageID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"completion_id": result.CompletionID,
		"reward":        valueToMoney(result.RewardEarned),
		"tasks_today":   result.TasksToday,
		"balance":       valueToMoney(result.BalanceAfter),
	})
}

// ListTodayCompletions backs the "completed today" checkmarks in the tasks view.
func (h *Handler) ListTodayCompletions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	today := services.DayOf(time.Now())
	completions, err := h.completions.ListForDay(r.Context(), userID, today)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load completions")
		return
	}
	out := make([]map[string]any, 0, len(completions))
	for _, completion := range completions {
		out = append(out, map[string]any{
			"id":              completion.ID,
			"task_id":         completion.TaskID,
			"task_title":      completion.TaskTitle,
			"user_package_id": completion.UserPackageID,
			"reward":          valueToMoney(completion.RewardEarned),
			"completed_at":    completion.CompletedAt,
		})
	}
	respondJSON(w, http.StatusOK, out)
}
