package handlers

import (
	"context"
	"time"

	"taskvest/internal/config"
	"taskvest/internal/services"
	"taskvest/internal/store"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret: "secret",
		TokenTTL:  time.Minute,
	}
}

type stubUserStore struct {
	getByIDFn    func(ctx context.Context, userID string) (store.User, error)
	getByPhoneFn func(ctx context.Context, phone string) (store.User, error)
	isAdminFn    func(ctx context.Context, userID string) (bool, error)
	listAllFn    func(ctx context.Context, limit, offset int) ([]store.UserSummary, error)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (store.User, error) {
	if s.getByIDFn == nil {
		return store.User{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) GetByPhone(ctx context.Context, phone string) (store.User, error) {
	if s.getByPhoneFn == nil {
		return store.User{}, nil
	}
	return s.getByPhoneFn(ctx, phone)
}

func (s stubUserStore) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if s.isAdminFn == nil {
		return false, nil
	}
	return s.isAdminFn(ctx, userID)
}

func (s stubUserStore) ListAll(ctx context.Context, limit, offset int) ([]store.UserSummary, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx, limit, offset)
}

type stubLedgerService struct {
	balanceFn   func(ctx context.Context, userID string) (int64, error)
	listFn      func(ctx context.Context, userID string, limit, offset int) ([]store.Transaction, error)
	reconcileFn func(ctx context.Context) ([]store.ReconcileRow, error)
}

func (s stubLedgerService) Balance(ctx context.Context, userID string) (int64, error) {
	if s.balanceFn == nil {
		return 0, nil
	}
	return s.balanceFn(ctx, userID)
}

func (s stubLedgerService) ListTransactions(ctx context.Context, userID string, limit, offset int) ([]store.Transaction, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, userID, limit, offset)
}

func (s stubLedgerService) Reconcile(ctx context.Context) ([]store.ReconcileRow, error) {
	if s.reconcileFn == nil {
		return nil, nil
	}
	return s.reconcileFn(ctx)
}

type stubWalletService struct {
	requestDepositFn    func(ctx context.Context, userID string, amount int64, screenshotURL *string) (string, error)
	approveDepositFn    func(ctx context.Context, adminID, depositID string, notes *string) error
	rejectDepositFn     func(ctx context.Context, adminID, depositID string, notes *string) error
	requestWithdrawalFn func(ctx context.Context, userID string, amount int64) (string, error)
	approveWithdrawalFn func(ctx context.Context, adminID, withdrawalID string, notes *string) error
	rejectWithdrawalFn  func(ctx context.Context, adminID, withdrawalID string, notes *string) error
}

func (s stubWalletService) RequestDeposit(ctx context.Context, userID string, amount int64, screenshotURL *string) (string, error) {
	if s.requestDepositFn == nil {
		return "dep-1", nil
	}
	return s.requestDepositFn(ctx, userID, amount, screenshotURL)
}

func (s stubWalletService) ApproveDeposit(ctx context.Context, adminID, depositID string, notes *string) error {
	if s.approveDepositFn == nil {
		return nil
	}
	return s.approveDepositFn(ctx, adminID, depositID, notes)
}

func (s stubWalletService) RejectDeposit(ctx context.Context, adminID, depositID string, notes *string) error {
	if s.rejectDepositFn == nil {
		return nil
	}
	return s.rejectDepositFn(ctx, adminID, depositID, notes)
}

func (s stubWalletService) RequestWithdrawal(ctx context.Context, userID string, amount int64) (string, error) {
	if s.requestWithdrawalFn == nil {
		return "wd-1", nil
	}
	return s.requestWithdrawalFn(ctx, userID, amount)
}

func (s stubWalletService) ApproveWithdrawal(ctx context.Context, adminID, withdrawalID string, notes *string) error {
	if s.approveWithdrawalFn == nil {
		return nil
	}
	return s.approveWithdrawalFn(ctx, adminID, withdrawalID, notes)
}

func (s stubWalletService) RejectWithdrawal(ctx context.Context, adminID, withdrawalID string, notes *string) error {
	if s.rejectWithdrawalFn == nil {
		return nil
	}
	return s.rejectWithdrawalFn(ctx, adminID, withdrawalID, notes)
}

type stubTaskService struct {
	completeFn func(ctx context.Context, userID, taskID, userPackageID string) (services.CompleteResult, error)
}

func (s stubTaskService) Complete(ctx context.Context, userID, taskID, userPackageID string) (services.CompleteResult, error) {
	if s.completeFn == nil {
		return services.CompleteResult{}, nil
	}
	return s.completeFn(ctx, userID, taskID, userPackageID)
}

type stubPackageService struct {
	purchaseFn func(ctx context.Context, userID, packageID string) (services.PurchaseResult, error)
}

func (s stubPackageService) Purchase(ctx context.Context, userID, packageID string) (services.PurchaseResult, error) {
	if s.purchaseFn == nil {
		return services.PurchaseResult{}, nil
	}
	return s.purchaseFn(ctx, userID, packageID)
}

type stubCompletionStore struct {
	listForDayFn func(ctx context.Context, userID string, day time.Time) ([]store.Completion, error)
}

func (s stubCompletionStore) ListForDay(ctx context.Context, userID string, day time.Time) ([]store.Completion, error) {
	if s.listForDayFn == nil {
		return nil, nil
	}
	return s.listForDayFn(ctx, userID, day)
}

type stubAuditStore struct {
	listFn func(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

func (s stubAuditStore) List(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

type stubStatsStore struct {
	collectFn func(ctx context.Context, today time.Time) (store.Stats, error)
}

func (s stubStatsStore) Collect(ctx context.Context, today time.Time) (store.Stats, error) {
	if s.collectFn == nil {
		return store.Stats{}, nil
	}
	return s.collectFn(ctx, today)
}

type stubUserService struct {
	registerFn func(ctx context.Context, input services.RegisterInput) (services.RegisterResult, error)
}

func (s stubUserService) Register(ctx context.Context, input services.RegisterInput) (services.RegisterResult, error) {
	if s.registerFn == nil {
		return services.RegisterResult{UserID: "user-1", ReferralCode: "REFABC234"}, nil
	}
	return s.registerFn(ctx, input)
}
