package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"taskvest/internal/middleware"
	"taskvest/internal/services"
	"taskvest/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	users, err := h.users.ListAll(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load users")
		return
	}
	out := make([]map[string]any, 0, len(users))
	for _, user := range users {
		out = append(out, map[string]any{
			"id":            user.ID,
			"phone":         user.Phone,
			"full_name":     user.FullName,
			"referral_code": user.ReferralCode,
			"balance":       valueToMoney(user.Balance),
			"is_admin":      user.IsAdmin,
			"created_at":    user.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) AdminListDeposits(w http.ResponseWriter, r *http.Request) {
	deposits, err := h.deposits.ListPending(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load deposits")
		return
	}
	out := make([]map[string]any, 0, len(deposits))
	for _, dep := range deposits {
		out = append(out, map[string]any{
			"id":             dep.ID,
			"user_id":        dep.UserID,
			"amount":         valueToMoney(dep.Amount),
			"screenshot_url": derefOrEmpty(dep.ScreenshotURL),
			"status":         dep.Status,
			"created_at":     dep.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

type reviewRequest struct {
	Notes *string `json:"notes"`
}

func (h *Handler) AdminApproveDeposit(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req reviewRequest
	decodeOptionalBody(r, &req)
	if err := h.walletSvc.ApproveDeposit(r.Context(), adminID, chi.URLParam(r, "id"), req.Notes); err != nil {
		respondAdminError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

func (h *Handler) AdminRejectDeposit(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req reviewRequest
	decodeOptionalBody(r, &req)
	if err := h.walletSvc.RejectDeposit(r.Context(), adminID, chi.URLParam(r, "id"), req.Notes); err != nil {
		respondAdminError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

// AdminListWithdrawals joins in each requester's payout account so the admin
// can action the transfer without a second lookup.
func (h *Handler) AdminListWithdrawals(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := h.withdrawals.ListPending(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load withdrawals")
		return
	}
	userIDs := make([]string, 0, len(withdrawals))
	for _, wd := range withdrawals {
		userIDs = append(userIDs, wd.UserID)
	}
	accounts, err := h.bankAccounts.ListCustomerAccounts(r.Context(), userIDs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load bank accounts")
		return
	}
	accountsByUser := make(map[string]store.CustomerBankAccount, len(accounts))
	for _, account := range accounts {
		accountsByUser[account.UserID] = account
	}
	out := make([]map[string]any, 0, len(withdrawals))
	for _, wd := range withdrawals {
		entry := map[string]any{
			"id":         wd.ID,
			"user_id":    wd.UserID,
			"amount":     valueToMoney(wd.Amount),
			"status":     wd.Status,
			"created_at": wd.CreatedAt,
		}
		if account, ok := accountsByUser[wd.UserID]; ok {
			entry["bank_account"] = map[string]string{
				"bank_name":      account.BankName,
				"account_number": account.AccountNumber,
				"account_holder": account.AccountHolder,
			}
		}
		out = append(out, entry)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) AdminApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req reviewRequest
	decodeOptionalBody(r, &req)
	if err := h.walletSvc.ApproveWithdrawal(r.Context(), adminID, chi.URLParam(r, "id"), req.Notes); err != nil {
		respondAdminError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "paid"})
}

func (h *Handler) AdminRejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req reviewRequest
	decodeOptionalBody(r, &req)
	if err := h.walletSvc.RejectWithdrawal(r.Context(), adminID, chi.URLParam(r, "id"), req.Notes); err != nil {
		respondAdminError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

type packageRequest struct {
	Name         string `json:"name"`
	Price        string `json:"price"`
	DailyTasks   int    `json:"daily_tasks"`
	DailyReturn  string `json:"daily_return"`
	DurationDays int    `json:"duration_days"`
}

func (req packageRequest) toInput(id string) (store.PackageInput, error) {
	price, err := parseAmountMinor(req.Price)
	if err != nil {
		return store.PackageInput{}, err
	}
	dailyReturn, err := parseAmountMinor(req.DailyReturn)
	if err != nil {
		return store.PackageInput{}, err
	}
	if req.Name == "" || req.DailyTasks <= 0 || req.DurationDays <= 0 {
		return store.PackageInput{}, errInvalidAmount
	}
	return store.PackageInput{
		ID:           id,
		Name:         req.Name,
		Price:        price,
		DailyTasks:   req.DailyTasks,
		DailyReturn:  dailyReturn,
		DurationDays: req.DurationDays,
	}, nil
}

func (h *Handler) AdminCreatePackage(w http.ResponseWriter, r *http.Request) {
	var req packageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	input, err := req.toInput(uuid.NewString())
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid package")
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.packages.Create(r.Context(), tx, input)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create package")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": input.ID})
}

func (h *Handler) AdminUpdatePackage(w http.ResponseWriter, r *http.Request) {
	var req packageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	input, err := req.toInput(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid package")
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.packages.Update(r.Context(), tx, input)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update package")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// AdminDeactivatePackage retires a package from the catalog. Purchases made
// before deactivation keep running until their own expiry.
func (h *Handler) AdminDeactivatePackage(w http.ResponseWriter, r *http.Request) {
	packageID := chi.URLParam(r, "id")
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.packages.SetActive(r.Context(), tx, packageID, false)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to deactivate package")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

type taskRequest struct {
	PackageID    string  `json:"package_id"`
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	RewardAmount string  `json:"reward_amount"`
}

func (h *Handler) AdminCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PackageID == "" || req.Title == "" {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	reward, err := parseAmountMinor(req.RewardAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid reward amount")
		return
	}
	taskID := uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.tasks.Create(r.Context(), tx, store.TaskInput{
			ID:           taskID,
			PackageID:    req.PackageID,
			Title:        req.Title,
			Description:  req.Description,
			RewardAmount: reward,
		})
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create task")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": taskID})
}

type adminBankAccountRequest struct {
	BankName      string  `json:"bank_name"`
	AccountNumber string  `json:"account_number"`
	AccountHolder string  `json:"account_holder"`
	BranchName    *string `json:"branch_name"`
}

func (h *Handler) AdminCreateBankAccount(w http.ResponseWriter, r *http.Request) {
	var req adminBankAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BankName == "" || req.AccountNumber == "" || req.AccountHolder == "" {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	id := uuid.NewString()
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.bankAccounts.CreateAdminAccount(r.Context(), tx, id, req.BankName, req.AccountNumber, req.AccountHolder, req.BranchName)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create bank account")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) AdminDeleteBankAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.bankAccounts.DeleteAdminAccount(r.Context(), tx, id)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete bank account")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) AdminListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	logs, err := h.audit.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load audit logs")
		return
	}
	respondJSON(w, http.StatusOK, logs)
}

// AdminStats backs the dashboard header cards. Money figures are lifetime
// sums over settled records only; pending requests are counted, not summed.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Collect(r.Context(), services.DayOf(time.Now()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load stats")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"total_users":         stats.TotalUsers,
		"today_signups":       stats.TodaySignups,
		"deposited_total":     valueToMoney(stats.DepositedTotal),
		"withdrawn_total":     valueToMoney(stats.WithdrawnTotal),
		"pending_deposits":    stats.PendingDeposits,
		"pending_withdrawals": stats.PendingWithdrawals,
		"package_revenue":     valueToMoney(stats.PackageRevenue),
	})
}

func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	rows, err := h.ledger.Reconcile(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to reconcile")
		return
	}
	drifted := make([]map[string]any, 0)
	for _, row := range rows {
		if row.Difference == 0 {
			continue
		}
		drifted = append(drifted, map[string]any{
			"user_id":        row.UserID,
			"phone":          row.Phone,
			"stored_balance": valueToMoney(row.StoredBalance),
			"ledger_sum":     valueToMoney(row.LedgerSum),
			"difference":     valueToMoney(row.Difference),
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"checked": len(rows),
		"drifted": drifted,
	})
}

// decodeOptionalBody tolerates an empty body on review endpoints where notes
// are optional.
func decodeOptionalBody(r *http.Request, dst any) {
	_ = json.NewDecoder(r.Body).Decode(dst)
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
