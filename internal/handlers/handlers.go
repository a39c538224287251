package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"taskvest/internal/money"
	"taskvest/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondEngineError translates engine sentinels into customer-facing plain
// messages. Anything unrecognized is a 500 without detail.
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "invalid amount")
	case errors.Is(err, services.ErrInsufficientFunds):
		respondError(w, http.StatusBadRequest, "insufficient balance")
	case errors.Is(err, services.ErrPackageInactive):
		respondError(w, http.StatusConflict, "package is not available")
	case errors.Is(err, services.ErrPackageExpired):
		respondError(w, http.StatusConflict, "package has expired")
	case errors.Is(err, services.ErrTaskNotEligible):
		respondError(w, http.StatusConflict, "task is not available")
	case errors.Is(err, services.ErrDuplicateCompletion):
		respondError(w, http.StatusConflict, "task already completed today")
	case errors.Is(err, services.ErrDailyCapReached):
		respondError(w, http.StatusConflict, "daily limit reached")
	case errors.Is(err, services.ErrPendingWithdrawalExists):
		respondError(w, http.StatusConflict, "a withdrawal is already pending")
	case errors.Is(err, services.ErrInvalidStateTransition):
		respondError(w, http.StatusConflict, "request already processed")
	case errors.Is(err, services.ErrPhoneTaken):
		respondError(w, http.StatusConflict, "phone number already registered")
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// respondAdminError surfaces the raw error kind so admins can diagnose, while
// unknown failures stay opaque.
func respondAdminError(w http.ResponseWriter, err error) {
	known := []error{
		services.ErrNotFound, services.ErrInvalidAmount, services.ErrInsufficientFunds,
		services.ErrPackageInactive, services.ErrPackageExpired, services.ErrTaskNotEligible,
		services.ErrDuplicateCompletion, services.ErrDailyCapReached,
		services.ErrPendingWithdrawalExists, services.ErrInvalidStateTransition,
	}
	for _, sentinel := range known {
		if errors.Is(err, sentinel) {
			status := http.StatusConflict
			if errors.Is(err, services.ErrNotFound) {
				status = http.StatusNotFound
			}
			respondError(w, status, sentinel.Error())
			return
		}
	}
	respondError(w, http.StatusInternalServerError, "internal error")
}

func valueToMoney(value int64) string {
	return money.FormatMinor(value)
}
