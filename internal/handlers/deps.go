package handlers

import (
	"context"
	"time"

	"taskvest/internal/services"
	"taskvest/internal/store"
)

type UserStore interface {
	GetByID(ctx context.Context, userID string) (store.User, error)
	GetByPhone(ctx context.Context, phone string) (store.User, error)
	IsAdmin(ctx context.Context, userID string) (bool, error)
	ListAll(ctx context.Context, limit, offset int) ([]store.UserSummary, error)
}

type PackageStore interface {
	Create(ctx context.Context, tx store.Execer, input store.PackageInput) error
	Update(ctx context.Context, tx store.Execer, input store.PackageInput) error
	SetActive(ctx context.Context, tx store.Execer, packageID string, active bool) error
	ListActive(ctx context.Context) ([]store.Package, error)
}

type UserPackageStore interface {
	ListByUser(ctx context.Context, userID string, activeOnly bool) ([]store.UserPackageWithCatalog, error)
	Get(ctx context.Context, userPackageID string) (store.UserPackage, error)
}

type TaskStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TaskInput) error
	ListActiveByPackage(ctx context.Context, packageID string) ([]store.Task, error)
}

type CompletionStore interface {
	ListForDay(ctx context.Context, userID string, day time.Time) ([]store.Completion, error)
}

type DepositStore interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]store.Deposit, error)
	ListPending(ctx context.Context) ([]store.Deposit, error)
}

type WithdrawalStore interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]store.Withdrawal, error)
	ListPending(ctx context.Context) ([]store.Withdrawal, error)
}

type ReferralStore interface {
	ListByReferrer(ctx context.Context, referrerID string) ([]store.ReferralWithUser, error)
}

type AuditStore interface {
	List(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

type StatsStore interface {
	Collect(ctx context.Context, today time.Time) (store.Stats, error)
}

type BankAccountStore interface {
	ListAdminAccounts(ctx context.Context) ([]store.AdminBankAccount, error)
	CreateAdminAccount(ctx context.Context, tx store.Execer, id, bankName, accountNumber, accountHolder string, branchName *string) error
	DeleteAdminAccount(ctx context.Context, tx store.Execer, id string) error
	GetCustomerAccount(ctx context.Context, userID string) (store.CustomerBankAccount, error)
	UpsertCustomerAccount(ctx context.Context, tx store.Execer, account store.CustomerBankAccount) error
	ListCustomerAccounts(ctx context.Context, userIDs []string) ([]store.CustomerBankAccount, error)
}

type LedgerService interface {
	Balance(ctx context.Context, userID string) (int64, error)
	ListTransactions(ctx context.Context, userID string, limit, offset int) ([]store.Transaction, error)
	Reconcile(ctx context.Context) ([]store.ReconcileRow, error)
}

type PackageService interface {
	Purchase(ctx context.Context, userID, packageID string) (services.PurchaseResult, error)
}

type TaskService interface {
	Complete(ctx context.Context, userID, taskID, userPackageID string) (services.CompleteResult, error)
}

type WalletService interface {
	RequestDeposit(ctx context.Context, userID string, amount int64, screenshotURL *string) (string, error)
	ApproveDeposit(ctx context.Context, adminID, depositID string, notes *string) error
	RejectDeposit(ctx context.Context, adminID, depositID string, notes *string) error
	RequestWithdrawal(ctx context.Context, userID string, amount int64) (string, error)
	ApproveWithdrawal(ctx context.Context, adminID, withdrawalID string, notes *string) error
	RejectWithdrawal(ctx context.Context, adminID, withdrawalID string, notes *string) error
}

type UserService interface {
	Register(ctx context.Context, input services.RegisterInput) (services.RegisterResult, error)
}
