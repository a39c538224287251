package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"taskvest/internal/middleware"
	"taskvest/internal/store"
	"taskvest/internal/websocket"

	"github.com/jmoiron/sqlx"
)

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	balance, err := h.ledger.Balance(r.Context(), userID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"balance": valueToMoney(balance)})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	transactions, err := h.ledger.ListTransactions(r.Context(), userID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	respondJSON(w, http.StatusOK, transactionsToJSON(transactions))
}

func transactionsToJSON(transactions []store.Transaction) []map[string]any {
	out := make([]map[string]any, 0, len(transactions))
	for _, tx := range transactions {
		sign := "+"
		if tx.Type == "withdrawal" || tx.Type == "package_purchase" {
			sign = "-"
		}
		reference := ""
		if tx.ReferenceID != nil {
			reference = *tx.ReferenceID
		}
		out = append(out, map[string]any{
			"id":           tx.ID,
			"type":         tx.Type,
			"amount":       valueToMoney(tx.Amount),
			"sign":         sign,
			"description":  tx.Description,
			"reference_id": reference,
			"created_at":   tx.CreatedAt,
		})
	}
	return out
}

type depositRequest struct {
	Amount        string  `json:"amount"`
	ScreenshotURL *string `json:"screenshot_url"`
}

func (h *Handler) RequestDeposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amount, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	depositID, err := h.walletSvc.RequestDeposit(r.Context(), userID, amount, req.ScreenshotURL)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": depositID, "status": "pending"})
}

func (h *Handler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	deposits, err := h.deposits.ListByUser(r.Context(), userID, 50)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load deposits")
		return
	}
	out := make([]map[string]any, 0, len(deposits))
	for _, dep := range deposits {
		out = append(out, map[string]any{
			"id":         dep.ID,
			"amount":     valueToMoney(dep.Amount),
			"status":     dep.Status,
			"created_at": dep.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

type withdrawalRequest struct {
	Amount string `json:"amount"`
}

func (h *Handler) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req withdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amount, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	withdrawalID, err := h.walletSvc.RequestWithdrawal(r.Context(), userID, amount)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": withdrawalID, "status": "pending"})
}

func (h *Handler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	withdrawals, err := h.withdrawals.ListByUser(r.Context(), userID, 50)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load withdrawals")
		return
	}
	out := make([]map[string]any, 0, len(withdrawals))
	for _, wd := range withdrawals {
		out = append(out, map[string]any{
			"id":         wd.ID,
			"amount":     valueToMoney(wd.Amount),
			"status":     wd.Status,
			"created_at": wd.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) GetCustomerBankAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	account, err := h.bankAccounts.GetCustomerAccount(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusNotFound, "no bank account on file")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"bank_name":      account.BankName,
		"account_number": account.AccountNumber,
		"account_holder": account.AccountHolder,
		"updated_at":     account.UpdatedAt,
	})
}

type bankAccountRequest struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountHolder string `json:"account_holder"`
}

func (h *Handler) UpsertCustomerBankAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req bankAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BankName == "" || req.AccountNumber == "" || req.AccountHolder == "" {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.bankAccounts.UpsertCustomerAccount(r.Context(), tx, store.CustomerBankAccount{
			UserID:        userID,
			BankName:      req.BankName,
			AccountNumber: req.AccountNumber,
			AccountHolder: req.AccountHolder,
		})
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to save bank account")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *Handler) ListAdminBankAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.bankAccounts.ListAdminAccounts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load bank accounts")
		return
	}
	out := make([]map[string]any, 0, len(accounts))
	for _, account := range accounts {
		branch := ""
		if account.BranchName != nil {
			branch = *account.BranchName
		}
		out = append(out, map[string]any{
			"id":             account.ID,
			"bank_name":      account.BankName,
			"account_number": account.AccountNumber,
			"account_holder": account.AccountHolder,
			"branch_name":    branch,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// WSBalance authenticates via query token because browsers cannot set headers
// on websocket dials.
func (h *Handler) WSBalance(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := parseWSToken(h.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub, claims)
}
