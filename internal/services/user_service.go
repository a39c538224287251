package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"taskvest/internal/money"
	"taskvest/internal/store"
	"taskvest/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// UserService covers registration, including the silent referral-code
// resolution: a bad code never fails the signup, it just issues no bonus.
type UserService struct {
	txRunner  TxRunner
	users     UserStore
	referrals ReferralIssuer
	audit     AuditStore
	hub       BalanceHub
}

type ReferralIssuer interface {
	Issue(ctx context.Context, tx store.Tx, referrerID, referredID, referredName string) (IssueResult, error)
}

func NewUserService(txRunner TxRunner, users UserStore, referrals ReferralIssuer, audit AuditStore, hub BalanceHub) *UserService {
	return &UserService{txRunner: txRunner, users: users, referrals: referrals, audit: audit, hub: hub}
}

type RegisterInput struct {
	Phone        string
	FullName     string
	PasswordHash string
	ReferralCode string
}

type RegisterResult struct {
	UserID       string
	ReferralCode string
}

const referralCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func newReferralCode() string {
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)
	var b strings.Builder
	b.WriteString("REF")
	for _, c := range buf {
		b.WriteByte(referralCodeAlphabet[int(c)%len(referralCodeAlphabet)])
	}
	return b.String()
}

// Register creates the user and, when the supplied code resolves to an
// existing user, issues the referral bonus in the same transaction.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (RegisterResult, error) {
	userID := uuid.NewString()
	referralCode := newReferralCode()
	var referrerID string
	var referrerBalance int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		referrerID = ""
		var referredBy *string
		if code := strings.TrimSpace(input.ReferralCode); code != "" {
			referrer, err := s.users.GetByReferralCode(ctx, tx, code)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return err
			}
			if err == nil {
				referrerID = referrer.ID
				referredBy = &referrer.ID
			}
		}
		if err := s.users.Create(ctx, tx, store.UserInput{
			ID:           userID,
			Phone:        input.Phone,
			FullName:     input.FullName,
			PasswordHash: input.PasswordHash,
			ReferralCode: referralCode,
			ReferredBy:   referredBy,
		}); err != nil {
			return err
		}
		if referrerID != "" {
			issued, err := s.referrals.Issue(ctx, tx, referrerID, userID, input.FullName)
			if err != nil {
				return err
			}
			referrerBalance = issued.ReferrerBalanceAfter
		}
		data, _ := json.Marshal(map[string]string{
			"phone":       input.Phone,
			"referred_by": referrerID,
		})
		return s.audit.Log(ctx, tx, userID, "register", "user", userID, string(data))
	})
	if err != nil {
		if isPhoneConflict(err) {
			return RegisterResult{}, ErrPhoneTaken
		}
		return RegisterResult{}, err
	}
	if referrerID != "" {
		s.hub.BroadcastBalance(referrerID, websocket.BalanceUpdate{
			Balance: money.FormatMinor(referrerBalance),
		})
	}
	return RegisterResult{UserID: userID, ReferralCode: referralCode}, nil
}

func isPhoneConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return false
	}
	return strings.Contains(pqErr.Constraint, "phone")
}
