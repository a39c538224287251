package services

import (
	"context"
	"testing"

	"taskvest/internal/store"

	"github.com/stretchr/testify/require"
)

func TestIssueCreditsReferrerOnce(t *testing.T) {
	var createdBonus int64
	referrals := stubReferralStore{
		createFn: func(_ context.Context, _ store.Execer, _, referrerID, referredID string, bonusAmount int64) error {
			require.Equal(t, "referrer-1", referrerID)
			require.Equal(t, "referred-1", referredID)
			createdBonus = bonusAmount
			return nil
		},
	}
	ledger := &stubLedger{applyFn: func(_ context.Context, _ store.Tx, input ApplyInput) (ApplyResult, error) {
		return ApplyResult{TransactionID: "tx-1", BalanceAfter: 1000}, nil
	}}
	svc := NewReferralService(referrals, ledger, 1000)

	result, err := svc.Issue(context.Background(), nil, "referrer-1", "referred-1", "New User")
	require.NoError(t, err)
	require.Equal(t, int64(1000), result.BonusAmount)
	require.Equal(t, int64(1000), createdBonus)
	require.Len(t, ledger.applied, 1)
	require.Equal(t, KindReferralBonus, ledger.applied[0].Kind)
	require.Equal(t, "referrer-1", ledger.applied[0].UserID)
}

func TestIssueIsIdempotentPerReferredUser(t *testing.T) {
	referrals := stubReferralStore{
		existsFn: func(context.Context, store.Getter, string) (bool, error) {
			return true, nil
		},
		createFn: func(context.Context, store.Execer, string, string, string, int64) error {
			t.Fatal("no second referral row may be created")
			return nil
		},
	}
	ledger := &stubLedger{}
	svc := NewReferralService(referrals, ledger, 1000)

	result, err := svc.Issue(context.Background(), nil, "referrer-1", "referred-1", "New User")
	require.NoError(t, err)
	require.Empty(t, result.ReferralID)
	require.Empty(t, ledger.applied, "bonus must not be paid twice")
}
