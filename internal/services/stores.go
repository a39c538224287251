package services

import (
	"context"
	"time"

	"taskvest/internal/store"
	"taskvest/internal/websocket"
)

// Store contracts are declared on the consumer side, following the shape of
// the sqlx-backed implementations in internal/store.

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, input store.UserInput) error
	GetByID(ctx context.Context, userID string) (store.User, error)
	GetByPhone(ctx context.Context, phone string) (store.User, error)
	GetByReferralCode(ctx context.Context, tx store.Getter, code string) (store.User, error)
	GetForUpdate(ctx context.Context, tx store.Getter, userID string) (store.User, error)
	UpdateBalance(ctx context.Context, tx store.Execer, userID string, balance int64) error
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]store.Transaction, error)
	SumSignedByUser(ctx context.Context, q store.Getter, userID string) (int64, error)
	Reconcile(ctx context.Context) ([]store.ReconcileRow, error)
}

type PackageStore interface {
	Get(ctx context.Context, q store.Getter, packageID string) (store.Package, error)
}

type UserPackageStore interface {
	Create(ctx context.Context, tx store.Execer, input store.UserPackageInput) error
	GetForUpdate(ctx context.Context, tx store.Getter, userPackageID string) (store.UserPackage, error)
	RecordCompletion(ctx context.Context, tx store.Execer, userPackageID string, tasksToday int, taskDate time.Time, totalEarned int64) error
	DeactivateExpired(ctx context.Context, tx store.Execer, now time.Time) (int64, error)
}

type TaskStore interface {
	Get(ctx context.Context, q store.Getter, taskID string) (store.Task, error)
}

type CompletionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.CompletionInput) error
	ExistsForDay(ctx context.Context, q store.Getter, taskID, userPackageID string, day time.Time) (bool, error)
}

type DepositStore interface {
	Create(ctx context.Context, tx store.Execer, id, userID string, amount int64, screenshotURL *string) error
	GetForUpdate(ctx context.Context, tx store.Getter, depositID string) (store.Deposit, error)
	MarkProcessed(ctx context.Context, tx store.Execer, depositID, status, processedBy string, notes *string, processedAt time.Time) error
}

type WithdrawalStore interface {
	Create(ctx context.Context, tx store.Execer, id, userID string, amount int64) error
	GetForUpdate(ctx context.Context, tx store.Getter, withdrawalID string) (store.Withdrawal, error)
	HasPending(ctx context.Context, q store.Getter, userID string) (bool, error)
	MarkProcessed(ctx context.Context, tx store.Execer, withdrawalID, status, processedBy string, notes *string, processedAt time.Time) error
}

type ReferralStore interface {
	Create(ctx context.Context, tx store.Execer, id, referrerID, referredID string, bonusAmount int64) error
	ExistsForReferred(ctx context.Context, q store.Getter, referredID string) (bool, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type BalanceHub interface {
	BroadcastBalance(userID string, update websocket.BalanceUpdate)
}

// LedgerApplier is how the other services reach the single balance-mutation
// path in LedgerService.
type LedgerApplier interface {
	Apply(ctx context.Context, tx store.Tx, input ApplyInput) (ApplyResult, error)
}
