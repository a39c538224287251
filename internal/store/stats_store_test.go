package store

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestStatsStoreCollect(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	store := NewStatsStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			switch {
			case strings.Contains(query, "created_at >= $1"):
				if len(args) != 1 || !args[0].(time.Time).Equal(today) {
					t.Fatalf("unexpected signup args: %#v", args)
				}
				*dest.(*int64) = 3
			case strings.Contains(query, "FROM deposits WHERE status = 'approved'"):
				*dest.(*int64) = 500000
			case strings.Contains(query, "FROM withdrawals WHERE status = 'paid'"):
				*dest.(*int64) = 120000
			case strings.Contains(query, "FROM deposits WHERE status = 'pending'"):
				*dest.(*int64) = 4
			case strings.Contains(query, "FROM withdrawals WHERE status = 'pending'"):
				*dest.(*int64) = 2
			case strings.Contains(query, "type = 'package_purchase'"):
				*dest.(*int64) = 300000
			case strings.Contains(query, "FROM users"):
				*dest.(*int64) = 42
			default:
				t.Fatalf("unexpected query: %s", query)
			}
			return nil
		},
	})
	stats, err := store.Collect(ctx, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Stats{
		TotalUsers:         42,
		TodaySignups:       3,
		DepositedTotal:     500000,
		WithdrawnTotal:     120000,
		PendingDeposits:    4,
		PendingWithdrawals: 2,
		PackageRevenue:     300000,
	}
	if stats != want {
		t.Fatalf("unexpected stats: %#v", stats)
	}
}

func TestStatsStoreCollectStopsOnError(t *testing.T) {
	ctx := context.Background()
	calls := 0
	store := NewStatsStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			calls++
			return context.DeadlineExceeded
		},
	})
	if _, err := store.Collect(ctx, time.Now()); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected collect to stop after first failure, ran %d queries", calls)
	}
}
