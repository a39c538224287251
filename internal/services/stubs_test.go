package services

import (
	"context"
	"time"

	"taskvest/internal/store"
	"taskvest/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn            func(ctx context.Context, tx store.Execer, input store.UserInput) error
	getByIDFn           func(ctx context.Context, userID string) (store.User, error)
	getByPhoneFn        func(ctx context.Context, phone string) (store.User, error)
	getByReferralCodeFn func(ctx context.Context, tx store.Getter, code string) (store.User, error)
	getForUpdateFn      func(ctx context.Context, tx store.Getter, userID string) (store.User, error)
	updateBalanceFn     func(ctx context.Context, tx store.Execer, userID string, balance int64) error
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, input store.UserInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
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

func (s stubUserStore) GetByReferralCode(ctx context.Context, tx store.Getter, code string) (store.User, error) {
	if s.getByReferralCodeFn == nil {
		return store.User{}, nil
	}
	return s.getByReferralCodeFn(ctx, tx, code)
}

func (s stubUserStore) GetForUpdate(ctx context.Context, tx store.Getter, userID string) (store.User, error) {
	if s.getForUpdateFn == nil {
		return store.User{}, nil
	}
	return s.getForUpdateFn(ctx, tx, userID)
}

func (s stubUserStore) UpdateBalance(ctx context.Context, tx store.Execer, userID string, balance int64) error {
	if s.updateBalanceFn == nil {
		return nil
	}
	return s.updateBalanceFn(ctx, tx, userID, balance)
}

type stubTransactionStore struct {
	createFn    func(ctx context.Context, tx store.Execer, input store.TransactionInput) error
	listFn      func(ctx context.Context, userID string, limit, offset int) ([]store.Transaction, error)
	sumFn       func(ctx context.Context, q store.Getter, userID string) (int64, error)
	reconcileFn func(ctx context.Context) ([]store.ReconcileRow, error)
}

func (s stubTransactionStore) Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubTransactionStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]store.Transaction, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, userID, limit, offset)
}

func (s stubTransactionStore) SumSignedByUser(ctx context.Context, q store.Getter, userID string) (int64, error) {
	if s.sumFn == nil {
		return 0, nil
	}
	return s.sumFn(ctx, q, userID)
}

func (s stubTransactionStore) Reconcile(ctx context.Context) ([]store.ReconcileRow, error) {
	if s.reconcileFn == nil {
		return nil, nil
	}
	return s.reconcileFn(ctx)
}

type stubPackageStore struct {
	getFn func(ctx context.Context, q store.Getter, packageID string) (store.Package, error)
}

func (s stubPackageStore) Get(ctx context.Context, q store.Getter, packageID string) (store.Package, error) {
	return s.getFn(ctx, q, packageID)
}

type stubUserPackageStore struct {
	createFn           func(ctx context.Context, tx store.Execer, input store.UserPackageInput) error
	getForUpdateFn     func(ctx context.Context, tx store.Getter, userPackageID string) (store.UserPackage, error)
	recordCompletionFn func(ctx context.Context, tx store.Execer, userPackageID string, tasksToday int, taskDate time.Time, totalEarned int64) error
	deactivateFn       func(ctx context.Context, tx store.Execer, now time.Time) (int64, error)
}

func (s stubUserPackageStore) Create(ctx context.Context, tx store.Execer, input store.UserPackageInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubUserPackageStore) GetForUpdate(ctx context.Context, tx store.Getter, userPackageID string) (store.UserPackage, error) {
	return s.getForUpdateFn(ctx, tx, userPackageID)
}

func (s stubUserPackageStore) RecordCompletion(ctx context.Context, tx store.Execer, userPackageID string, tasksToday int, taskDate time.Time, totalEarned int64) error {
	if s.recordCompletionFn == nil {
		return nil
	}
	return s.recordCompletionFn(ctx, tx, userPackageID, tasksToday, taskDate, totalEarned)
}

func (s stubUserPackageStore) DeactivateExpired(ctx context.Context, tx store.Execer, now time.Time) (int64, error) {
	if s.deactivateFn == nil {
		return 0, nil
	}
	return s.deactivateFn(ctx, tx, now)
}

type stubTaskStore struct {
	getFn func(ctx context.Context, q store.Getter, taskID string) (store.Task, error)
}

func (s stubTaskStore) Get(ctx context.Context, q store.Getter, taskID string) (store.Task, error) {
	return s.getFn(ctx, q, taskID)
}

type stubCompletionStore struct {
	createFn func(ctx context.Context, tx store.Execer, input store.CompletionInput) error
	existsFn func(ctx context.Context, q store.Getter, taskID, userPackageID string, day time.Time) (bool, error)
}

func (s stubCompletionStore) Create(ctx context.Context, tx store.Execer, input store.CompletionInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubCompletionStore) ExistsForDay(ctx context.Context, q store.Getter, taskID, userPackageID string, day time.Time) (bool, error) {
	if s.existsFn == nil {
		return false, nil
	}
	return s.existsFn(ctx, q, taskID, userPackageID, day)
}

type stubDepositStore struct {
	createFn        func(ctx context.Context, tx store.Execer, id, userID string, amount int64, screenshotURL *string) error
	getForUpdateFn  func(ctx context.Context, tx store.Getter, depositID string) (store.Deposit, error)
	markProcessedFn func(ctx context.Context, tx store.Execer, depositID, status, processedBy string, notes *string, processedAt time.Time) error
}

func (s stubDepositStore) Create(ctx context.Context, tx store.Execer, id, userID string, amount int64, screenshotURL *string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, userID, amount, screenshotURL)
}

func (s stubDepositStore) GetForUpdate(ctx context.Context, tx store.Getter, depositID string) (store.Deposit, error) {
	return s.getForUpdateFn(ctx, tx, depositID)
}

func (s stubDepositStore) MarkProcessed(ctx context.Context, tx store.Execer, depositID, status, processedBy string, notes *string, processedAt time.Time) error {
	if s.markProcessedFn == nil {
		return nil
	}
	return s.markProcessedFn(ctx, tx, depositID, status, processedBy, notes, processedAt)
}

type stubWithdrawalStore struct {
	createFn        func(ctx context.Context, tx store.Execer, id, userID string, amount int64) error
	getForUpdateFn  func(ctx context.Context, tx store.Getter, withdrawalID string) (store.Withdrawal, error)
	hasPendingFn    func(ctx context.Context, q store.Getter, userID string) (bool, error)
	markProcessedFn func(ctx context.Context, tx store.Execer, withdrawalID, status, processedBy string, notes *string, processedAt time.Time) error
}

func (s stubWithdrawalStore) Create(ctx context.Context, tx store.Execer, id, userID string, amount int64) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, userID, amount)
}

func (s stubWithdrawalStore) GetForUpdate(ctx context.Context, tx store.Getter, withdrawalID string) (store.Withdrawal, error) {
	return s.getForUpdateFn(ctx, tx, withdrawalID)
}

func (s stubWithdrawalStore) HasPending(ctx context.Context, q store.Getter, userID string) (bool, error) {
	if s.hasPendingFn == nil {
		return false, nil
	}
	return s.hasPendingFn(ctx, q, userID)
}

func (s stubWithdrawalStore) MarkProcessed(ctx context.Context, tx store.Execer, withdrawalID, status, processedBy string, notes *string, processedAt time.Time) error {
	if s.markProcessedFn == nil {
		return nil
	}
	return s.markProcessedFn(ctx, tx, withdrawalID, status, processedBy, notes, processedAt)
}

type stubReferralStore struct {
	createFn func(ctx context.Context, tx store.Execer, id, referrerID, referredID string, bonusAmount int64) error
	existsFn func(ctx context.Context, q store.Getter, referredID string) (bool, error)
}

func (s stubReferralStore) Create(ctx context.Context, tx store.Execer, id, referrerID, referredID string, bonusAmount int64) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, referrerID, referredID, bonusAmount)
}

func (s stubReferralStore) ExistsForReferred(ctx context.Context, q store.Getter, referredID string) (bool, error) {
	if s.existsFn == nil {
		return false, nil
	}
	return s.existsFn(ctx, q, referredID)
}

type stubAuditStore struct {
	logFn func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

type recordedBroadcast struct {
	userID string
	update websocket.BalanceUpdate
}

type stubHub struct {
	broadcasts []recordedBroadcast
}

func (h *stubHub) BroadcastBalance(userID string, update websocket.BalanceUpdate) {
	h.broadcasts = append(h.broadcasts, recordedBroadcast{userID: userID, update: update})
}

type stubLedger struct {
	applyFn func(ctx context.Context, tx store.Tx, input ApplyInput) (ApplyResult, error)
	applied []ApplyInput
}

func (l *stubLedger) Apply(ctx context.Context, tx store.Tx, input ApplyInput) (ApplyResult, error) {
	l.applied = append(l.applied, input)
	if l.applyFn == nil {
		return ApplyResult{TransactionID: "tx-stub", BalanceAfter: 0}, nil
	}
	return l.applyFn(ctx, tx, input)
}
