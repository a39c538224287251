package services

import (
	"context"
	"fmt"

	"taskvest/internal/store"

	"github.com/google/uuid"
)

// ReferralService issues the one-time bonus a referrer earns when someone
// registers with their code.
type ReferralService struct {
	referrals   ReferralStore
	ledger      LedgerApplier
	bonusAmount int64
}

func NewReferralService(referrals ReferralStore, ledger LedgerApplier, bonusAmount int64) *ReferralService {
	return &ReferralService{referrals: referrals, ledger: ledger, bonusAmount: bonusAmount}
}

type IssueResult struct {
	ReferralID           string
	BonusAmount          int64
	ReferrerBalanceAfter int64
}

// Issue runs inside the registration transaction. It is idempotent per
// referred user: a second attempt finds the existing row and does nothing,
// so the bonus can never be paid twice for the same signup.
func (s *ReferralService) Issue(ctx context.Context, tx store.Tx, referrerID, referredID, referredName string) (IssueResult, error) {
	exists, err := s.referrals.ExistsForReferred(ctx, tx, referredID)
	if err != nil {
		return IssueResult{}, err
	}
	if exists {
		return IssueResult{}, nil
	}
	referralID := uuid.NewString()
	if err := s.referrals.Create(ctx, tx, referralID, referrerID, referredID, s.bonusAmount); err != nil {
		return IssueResult{}, err
	}
	applied, err := s.ledger.Apply(ctx, tx, ApplyInput{
		UserID:      referrerID,
		Kind:        KindReferralBonus,
		Amount:      s.bonusAmount,
		Description: fmt.Sprintf("Referral bonus for inviting %s", referredName),
		ReferenceID: &referredID,
	})
	if err != nil {
		return IssueResult{}, err
	}
	return IssueResult{
		ReferralID:           referralID,
		BonusAmount:          s.bonusAmount,
		ReferrerBalanceAfter: applied.BalanceAfter,
	}, nil
}
