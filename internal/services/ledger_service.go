package services

import (
	"context"
	"database/sql"
	"errors"

	"taskvest/internal/store"

	"github.com/google/uuid"
)

// Transaction kinds. The sign table is the single place the direction of a
// balance delta is decided.
const (
	KindDeposit         = "deposit"
	KindWithdrawal      = "withdrawal"
	KindPackagePurchase = "package_purchase"
	KindTaskReward      = "task_reward"
	KindReferralBonus   = "referral_bonus"
)

var kindSigns = map[string]int64{
	KindDeposit:         1,
	KindTaskReward:      1,
	KindReferralBonus:   1,
	KindWithdrawal:      -1,
	KindPackagePurchase: -1,
}

// LedgerService owns every balance mutation. All other services route their
// credits and debits through Apply so the balance-equals-transaction-sum
// invariant is enforced in exactly one place.
type LedgerService struct {
	users        UserStore
	transactions TransactionStore
	pageMax      int
}

func NewLedgerService(users UserStore, transactions TransactionStore, pageMax int) *LedgerService {
	if pageMax <= 0 {
		pageMax = 100
	}
	return &LedgerService{users: users, transactions: transactions, pageMax: pageMax}
}

type ApplyInput struct {
	UserID      string
	Kind        string
	Amount      int64
	Description string
	ReferenceID *string
}

type ApplyResult struct {
	TransactionID string
	BalanceAfter  int64
}

// Apply mutates the user's balance and appends the matching transaction
// inside the caller's transaction. The user row lock it takes is the
// per-user mutual exclusion scope: admin approvals and customer operations
// on the same user serialize here.
func (s *LedgerService) Apply(ctx context.Context, tx store.Tx, input ApplyInput) (ApplyResult, error) {
	if input.Amount <= 0 {
		return ApplyResult{}, ErrInvalidAmount
	}
	sign, ok := kindSigns[input.Kind]
	if !ok {
		return ApplyResult{}, ErrInvalidKind
	}
	user, err := s.users.GetForUpdate(ctx, tx, input.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ApplyResult{}, ErrNotFound
		}
		return ApplyResult{}, err
	}
	newBalance := user.Balance + sign*input.Amount
	if newBalance < 0 {
		return ApplyResult{}, ErrInsufficientFunds
	}
	if err := s.users.UpdateBalance(ctx, tx, input.UserID, newBalance); err != nil {
		return ApplyResult{}, err
	}
	transactionID := uuid.NewString()
	if err := s.transactions.Create(ctx, tx, store.TransactionInput{
		ID:          transactionID,
		UserID:      input.UserID,
		Type:        input.Kind,
		Amount:      input.Amount,
		Description: input.Description,
		ReferenceID: input.ReferenceID,
	}); err != nil {
		return ApplyResult{}, err
	}
	return ApplyResult{TransactionID: transactionID, BalanceAfter: newBalance}, nil
}

func (s *LedgerService) Balance(ctx context.Context, userID string) (int64, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return user.Balance, nil
}

func (s *LedgerService) ListTransactions(ctx context.Context, userID string, limit, offset int) ([]store.Transaction, error) {
	if limit <= 0 || limit > s.pageMax {
		limit = s.pageMax
	}
	if offset < 0 {
		offset = 0
	}
	return s.transactions.ListByUser(ctx, userID, limit, offset)
}

// Reconcile reports any drift between stored balances and the signed sum of
// the transaction log. A non-zero difference anywhere means a write bypassed
// Apply.
func (s *LedgerService) Reconcile(ctx context.Context) ([]store.ReconcileRow, error) {
	return s.transactions.Reconcile(ctx)
}
