package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestReferralStoreCreate(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO referrals") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 4 || args[1] != "referrer-1" || args[2] != "referred-1" || args[3] != int64(1000) {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewReferralStore(stubDB{})
	if err := store.Create(ctx, execer, "ref-1", "referrer-1", "referred-1", 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReferralStoreExistsForReferred(t *testing.T) {
	ctx := context.Background()
	getter := stubGetter{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE referred_id = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*int) = 0
			return nil
		},
	}
	store := NewReferralStore(stubDB{})
	exists, err := store.ExistsForReferred(ctx, getter, "referred-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Fatal("expected no referral")
	}
}

func TestReferralStoreListByReferrer(t *testing.T) {
	ctx := context.Background()
	store := NewReferralStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "JOIN users u ON u.id = r.referred_id") {
				t.Fatalf("unexpected query: %s", query)
			}
			rows := dest.(*[]ReferralWithUser)
			*rows = []ReferralWithUser{{Referral: Referral{ID: "ref-1"}, ReferredName: "New User"}}
			return nil
		},
	})
	rows, err := store.ListByReferrer(ctx, "referrer-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].ReferredName != "New User" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}
