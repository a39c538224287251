package store

import (
	"context"
	"time"
)

type StatsStore struct {
	db DB
}

func NewStatsStore(db DB) *StatsStore {
	return &StatsStore{db: db}
}

// Stats is the admin dashboard snapshot. Money fields are minor-unit sums
// over settled records; the pending fields are row counts awaiting review.
type Stats struct {
	TotalUsers         int64
	TodaySignups       int64
	DepositedTotal     int64
	WithdrawnTotal     int64
	PendingDeposits    int64
	PendingWithdrawals int64
	PackageRevenue     int64
}

// Collect runs the dashboard aggregates one at a time. The queries are
// cheap counts and sums, so a snapshot transaction is not worth the cost
// of holding one open.
func (s *StatsStore) Collect(ctx context.Context, today time.Time) (Stats, error) {
	var stats Stats
	queries := []struct {
		dest  *int64
		query string
		args  []any
	}{
		{&stats.TotalUsers, `SELECT COUNT(*) FROM users`, nil},
		{&stats.TodaySignups, `SELECT COUNT(*) FROM users WHERE created_at >= $1`, []any{today}},
		{&stats.DepositedTotal, `SELECT COALESCE(SUM(amount), 0) FROM deposits WHERE status = 'approved'`, nil},
		{&stats.WithdrawnTotal, `SELECT COALESCE(SUM(amount), 0) FROM withdrawals WHERE status = 'paid'`, nil},
		{&stats.PendingDeposits, `SELECT COUNT(*) FROM deposits WHERE status = 'pending'`, nil},
		{&stats.PendingWithdrawals, `SELECT COUNT(*) FROM withdrawals WHERE status = 'pending'`, nil},
		{&stats.PackageRevenue, `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE type = 'package_purchase'`, nil},
	}
	for _, q := range queries {
		if err := s.db.GetContext(ctx, q.dest, q.query, q.args...); err != nil {
			return Stats{}, err
		}
	}
	return stats, nil
}
