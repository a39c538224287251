package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"taskvest/internal/store"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

type stubReferralIssuer struct {
	issueFn func(ctx context.Context, tx store.Tx, referrerID, referredID, referredName string) (IssueResult, error)
}

func (s stubReferralIssuer) Issue(ctx context.Context, tx store.Tx, referrerID, referredID, referredName string) (IssueResult, error) {
	if s.issueFn == nil {
		return IssueResult{}, nil
	}
	return s.issueFn(ctx, tx, referrerID, referredID, referredName)
}

func TestRegisterWithValidCodePaysReferrer(t *testing.T) {
	users := stubUserStore{
		getByReferralCodeFn: func(_ context.Context, _ store.Getter, code string) (store.User, error) {
			require.Equal(t, "REFABC234", code)
			return store.User{ID: "referrer-1"}, nil
		},
	}
	var issuedFor string
	issuer := stubReferralIssuer{
		issueFn: func(_ context.Context, _ store.Tx, referrerID, _, _ string) (IssueResult, error) {
			issuedFor = referrerID
			return IssueResult{ReferralID: "ref-1", BonusAmount: 1000, ReferrerBalanceAfter: 1000}, nil
		},
	}
	hub := &stubHub{}
	svc := NewUserService(fakeTxRunner{}, users, issuer, stubAuditStore{}, hub)

	result, err := svc.Register(context.Background(), RegisterInput{
		Phone:        "+12025550123",
		FullName:     "New User",
		PasswordHash: "hash",
		ReferralCode: "REFABC234",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.UserID)
	require.Equal(t, "referrer-1", issuedFor)
	require.Len(t, hub.broadcasts, 1)
	require.Equal(t, "referrer-1", hub.broadcasts[0].userID)
	require.Equal(t, "10.00", hub.broadcasts[0].update.Balance)
}

func TestRegisterIgnoresUnknownCode(t *testing.T) {
	users := stubUserStore{
		getByReferralCodeFn: func(context.Context, store.Getter, string) (store.User, error) {
			return store.User{}, sql.ErrNoRows
		},
	}
	issuer := stubReferralIssuer{
		issueFn: func(context.Context, store.Tx, string, string, string) (IssueResult, error) {
			t.Fatal("no bonus may be issued for an unknown code")
			return IssueResult{}, nil
		},
	}
	hub := &stubHub{}
	svc := NewUserService(fakeTxRunner{}, users, issuer, stubAuditStore{}, hub)

	result, err := svc.Register(context.Background(), RegisterInput{
		Phone:        "+12025550123",
		FullName:     "New User",
		PasswordHash: "hash",
		ReferralCode: "REFNOSUCH",
	})
	require.NoError(t, err, "a bad code never fails the signup")
	require.NotEmpty(t, result.UserID)
	require.Empty(t, hub.broadcasts)
}

func TestRegisterMapsPhoneConflict(t *testing.T) {
	users := stubUserStore{
		createFn: func(context.Context, store.Execer, store.UserInput) error {
			return &pq.Error{Code: "23505", Constraint: "users_phone_key"}
		},
	}
	svc := NewUserService(fakeTxRunner{}, users, stubReferralIssuer{}, stubAuditStore{}, &stubHub{})

	_, err := svc.Register(context.Background(), RegisterInput{
		Phone:        "+12025550123",
		FullName:     "New User",
		PasswordHash: "hash",
	})
	require.ErrorIs(t, err, ErrPhoneTaken)
}

func TestNewReferralCodeShape(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code := newReferralCode()
		require.Len(t, code, 9)
		require.True(t, strings.HasPrefix(code, "REF"))
		for _, c := range code[3:] {
			require.Contains(t, referralCodeAlphabet, string(c))
		}
		seen[code] = struct{}{}
	}
	require.Greater(t, len(seen), 90, "codes should rarely collide")
}
