package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"taskvest/internal/money"
	"taskvest/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Deposit and withdrawal request statuses. Pending is the only mutable state.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusPaid     = "paid"
	StatusRejected = "rejected"
)

// WalletService runs the admin-mediated money movement: requests created by
// customers, resolved by admins. Balance only moves on approval.
type WalletService struct {
	txRunner    TxRunner
	users       UserStore
	deposits    DepositStore
	withdrawals WithdrawalStore
	ledger      LedgerApplier
	audit       AuditStore
	hub         BalanceHub
	now         func() time.Time
}

func NewWalletService(txRunner TxRunner, users UserStore, deposits DepositStore, withdrawals WithdrawalStore, ledger LedgerApplier, audit AuditStore, hub BalanceHub) *WalletService {
	return &WalletService{
		txRunner:    txRunner,
		users:       users,
		deposits:    deposits,
		withdrawals: withdrawals,
		ledger:      ledger,
		audit:       audit,
		hub:         hub,
		now:         time.Now,
	}
}

// RequestDeposit records a pending deposit. No balance effect until an admin
// approves it. The screenshot reference is an opaque identifier; the engine
// never looks inside it.
func (s *WalletService) RequestDeposit(ctx context.Context, userID string, amount int64, screenshotURL *string) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}
	depositID := uuid.NewString()
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.deposits.Create(ctx, tx, depositID, userID, amount, screenshotURL); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{"amount": money.FormatMinor(amount)})
		return s.audit.Log(ctx, tx, userID, "request_deposit", "deposit", depositID, string(data))
	})
	if err != nil {
		return "", err
	}
	return depositID, nil
}

// ApproveDeposit credits the amount recorded at request time. The caller
// supplies no amount at all, which is what makes tampering impossible.
func (s *WalletService) ApproveDeposit(ctx context.Context, adminID, depositID string, notes *string) error {
	var userID string
	var balanceAfter int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		dep, err := s.deposits.GetForUpdate(ctx, tx, depositID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if dep.Status != StatusPending {
			return ErrInvalidStateTransition
		}
		applied, err := s.ledger.Apply(ctx, tx, ApplyInput{
			UserID:      dep.UserID,
			Kind:        KindDeposit,
			Amount:      dep.Amount,
			Description: "Deposit approved",
			ReferenceID: &dep.ID,
		})
		if err != nil {
			return err
		}
		if err := s.deposits.MarkProcessed(ctx, tx, depositID, StatusApproved, adminID, notes, s.now()); err != nil {
			return err
		}
		userID = dep.UserID
		balanceAfter = applied.BalanceAfter
		data, _ := json.Marshal(map[string]string{"amount": money.FormatMinor(dep.Amount)})
		return s.audit.Log(ctx, tx, adminID, "approve_deposit", "deposit", depositID, string(data))
	})
	if err != nil {
		return err
	}
	s.hub.BroadcastBalance(userID, websocket.BalanceUpdate{Balance: money.FormatMinor(balanceAfter)})
	return nil
}

func (s *WalletService) RejectDeposit(ctx context.Context, adminID, depositID string, notes *string) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		dep, err := s.deposits.GetForUpdate(ctx, tx, depositID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if dep.Status != StatusPending {
			return ErrInvalidStateTransition
		}
		if err := s.deposits.MarkProcessed(ctx, tx, depositID, StatusRejected, adminID, notes, s.now()); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, adminID, "reject_deposit", "deposit", depositID, "{}")
	})
}

// RequestWithdrawal checks the balance at submission time but does not hold
// the funds; the debit happens on approval. One pending request per user.
func (s *WalletService) RequestWithdrawal(ctx context.Context, userID string, amount int64) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}
	withdrawalID := uuid.NewString()
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		user, err := s.users.GetForUpdate(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		pending, err := s.withdrawals.HasPending(ctx, tx, userID)
		if err != nil {
			return err
		}
		if pending {
			return ErrPendingWithdrawalExists
		}
		if amount > user.Balance {
			return ErrInsufficientFunds
		}
		if err := s.withdrawals.Create(ctx, tx, withdrawalID, userID, amount); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{"amount": money.FormatMinor(amount)})
		return s.audit.Log(ctx, tx, userID, "request_withdrawal", "withdrawal", withdrawalID, string(data))
	})
	if err != nil {
		return "", err
	}
	return withdrawalID, nil
}

// ApproveWithdrawal debits the recorded amount, then marks the request paid.
// When the balance no longer covers the amount the debit fails, the whole
// transaction rolls back and the request stays pending for the admin to
// retry or reject.
func (s *WalletService) ApproveWithdrawal(ctx context.Context, adminID, withdrawalID string, notes *string) error {
	var userID string
	var balanceAfter int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		wd, err := s.withdrawals.GetForUpdate(ctx, tx, withdrawalID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if wd.Status != StatusPending {
			return ErrInvalidStateTransition
		}
		applied, err := s.ledger.Apply(ctx, tx, ApplyInput{
			UserID:      wd.UserID,
			Kind:        KindWithdrawal,
			Amount:      wd.Amount,
			Description: "Withdrawal paid",
			ReferenceID: &wd.ID,
		})
		if err != nil {
			return err
		}
		if err := s.withdrawals.MarkProcessed(ctx, tx, withdrawalID, StatusPaid, adminID, notes, s.now()); err != nil {
			return err
		}
		userID = wd.UserID
		balanceAfter = applied.BalanceAfter
		data, _ := json.Marshal(map[string]string{"amount": money.FormatMinor(wd.Amount)})
		return s.audit.Log(ctx, tx, adminID, "approve_withdrawal", "withdrawal", withdrawalID, string(data))
	})
	if err != nil {
		return err
	}
	s.hub.BroadcastBalance(userID, websocket.BalanceUpdate{Balance: money.FormatMinor(balanceAfter)})
	return nil
}

func (s *WalletService) RejectWithdrawal(ctx context.Context, adminID, withdrawalID string, notes *string) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		wd, err := s.withdrawals.GetForUpdate(ctx, tx, withdrawalID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if wd.Status != StatusPending {
			return ErrInvalidStateTransition
		}
		if err := s.withdrawals.MarkProcessed(ctx, tx, withdrawalID, StatusRejected, adminID, notes, s.now()); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, adminID, "reject_withdrawal", "withdrawal", withdrawalID, "{}")
	})
}
