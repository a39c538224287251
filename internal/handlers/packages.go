package handlers

import (
	"net/http"

	"taskvest/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := h.packages.ListActive(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load packages")
		return
	}
	out := make([]map[string]any, 0, len(packages))
	for _, pkg := range packages {
		out = append(out, map[string]any{
			"id":            pkg.ID,
			"name":          pkg.Name,
			"price":         valueToMoney(pkg.Price),
			"daily_tasks":   pkg.DailyTasks,
			"daily_return":  valueToMoney(pkg.DailyReturn),
			"duration_days": pkg.DurationDays,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) PurchasePackage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	packageID := chi.URLParam(r, "id")
	result, err := h.packageSvc.Purchase(r.Context(), userID, packageID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"user_package_id": result.UserPackageID,
		"package_name":    result.PackageName,
		"expiry_date":     result.ExpiryDate,
		"balance":         valueToMoney(result.BalanceAfter),
	})
}

func (h *Handler) ListMyPackages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	activeOnly := r.URL.Query().Get("all") != "true"
	userPackages, err := h.userPackages.ListByUser(r.Context(), userID, activeOnly)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load packages")
		return
	}
	out := make([]map[string]any, 0, len(userPackages))
	for _, up := range userPackages {
		out = append(out, map[string]any{
			"id":                    up.ID,
			"package_id":            up.PackageID,
			"package_name":          up.PackageName,
			"purchase_date":         up.PurchaseDate,
			"expiry_date":           up.ExpiryDate,
			"tasks_completed_today": up.TasksCompletedToday,
			"daily_tasks":           up.DailyTasks,
			"daily_return":          valueToMoney(up.DailyReturn),
			"total_earned":          valueToMoney(up.TotalEarned),
			"is_active":             up.IsActive,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) ListPackageTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	userPackageID := chi.URLParam(r, "id")
	up, err := h.userPackages.Get(r.Context(), userPackageID)
	if err != nil || up.UserID != userID {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	tasks, err := h.tasks.ListActiveByPackage(r.Context(), up.PackageID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load tasks")
		return
	}
	out := make([]map[string]any, 0, len(tasks))
	for _, task := range tasks {
		description := ""
		if task.Description != nil {
			description = *task.Description
		}
		out = append(out, map[string]any{
			"id":            task.ID,
			"title":         task.Title,
			"description":   description,
			"reward_amount": valueToMoney(task.RewardAmount),
		})
	}
	respondJSON(w, http.StatusOK, out)
}
