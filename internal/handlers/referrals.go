package handlers

import (
	"net/http"

	"taskvest/internal/middleware"
)

func (h *Handler) ListReferrals(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	referrals, err := h.referrals.ListByReferrer(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load referrals")
		return
	}
	var totalBonus int64
	out := make([]map[string]any, 0, len(referrals))
	for _, ref := range referrals {
		totalBonus += ref.BonusAmount
		out = append(out, map[string]any{
			"id":             ref.ID,
			"referred_name":  ref.ReferredName,
			"referred_phone": ref.ReferredPhone,
			"bonus_amount":   valueToMoney(ref.BonusAmount),
			"created_at":     ref.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"referrals":   out,
		"total_count": len(out),
		"total_bonus": valueToMoney(totalBonus),
	})
}
