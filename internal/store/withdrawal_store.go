package store

import (
	"context"
	"time"
)

type WithdrawalStore struct {
	db DB
}

func NewWithdrawalStore(db DB) *WithdrawalStore {
	return &WithdrawalStore{db: db}
}

type Withdrawal struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	Amount      int64      `db:"amount"`
	Status      string     `db:"status"`
	AdminNotes  *string    `db:"admin_notes"`
	ProcessedBy *string    `db:"processed_by"`
	ProcessedAt *time.Time `db:"processed_at"`
	CreatedAt   any        `db:"created_at"`
}

func (s *WithdrawalStore) Create(ctx context.Context, tx Execer, id, userID string, amount int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO withdrawals (id, user_id, amount, status)
		VALUES ($1, $2, $3, 'pending')
	`, id, userID, amount)
	return err
}

func (s *WithdrawalStore) GetForUpdate(ctx context.Context, tx Getter, withdrawalID string) (Withdrawal, error) {
	var row Withdrawal
	err := tx.GetContext(ctx, &row, `
		SELECT id, user_id, amount, status, admin_notes, processed_by, processed_at
		FROM withdrawals
		WHERE id = $1
		FOR UPDATE
	`, withdrawalID)
	return row, err
}

// HasPending reports whether the user already has an open request. Called
// inside the request transaction, after the user row lock, so two concurrent
// requests cannot both pass.
func (s *WithdrawalStore) HasPending(ctx context.Context, q Getter, userID string) (bool, error) {
	var count int
	err := q.GetContext(ctx, &count, `
		SELECT COUNT(1)
		FROM withdrawals
		WHERE user_id = $1 AND status = 'pending'
	`, userID)
	return count > 0, err
}

func (s *WithdrawalStore) MarkProcessed(ctx context.Context, tx Execer, withdrawalID, status, processedBy string, notes *string, processedAt time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE withdrawals
		SET status = $1, processed_by = $2, admin_notes = $3, processed_at = $4
		WHERE id = $5
	`, status, processedBy, notes, processedAt, withdrawalID)
	return err
}

func (s *WithdrawalStore) ListByUser(ctx context.Context, userID string, limit int) ([]Withdrawal, error) {
	var rows []Withdrawal
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, amount, status, admin_notes, processed_by, processed_at, created_at
		FROM withdrawals
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	return rows, err
}

func (s *WithdrawalStore) ListPending(ctx context.Context) ([]Withdrawal, error) {
	var rows []Withdrawal
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, amount, status, admin_notes, processed_by, processed_at, created_at
		FROM withdrawals
		WHERE status = 'pending'
		ORDER BY created_at DESC
	`)
	return rows, err
}
