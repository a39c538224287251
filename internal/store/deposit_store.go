package store

import (
	"context"
	"time"
)

type DepositStore struct {
	db DB
}

func NewDepositStore(db DB) *DepositStore {
	return &DepositStore{db: db}
}

type Deposit struct {
	ID            string     `db:"id"`
	UserID        string     `db:"user_id"`
	Amount        int64      `db:"amount"`
	ScreenshotURL *string    `db:"screenshot_url"`
	Status        string     `db:"status"`
	AdminNotes    *string    `db:"admin_notes"`
	ProcessedBy   *string    `db:"processed_by"`
	ProcessedAt   *time.Time `db:"processed_at"`
	CreatedAt     any        `db:"created_at"`
}

func (s *DepositStore) Create(ctx context.Context, tx Execer, id, userID string, amount int64, screenshotURL *string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO deposits (id, user_id, amount, screenshot_url, status)
		VALUES ($1, $2, $3, $4, 'pending')
	`, id, userID, amount, screenshotURL)
	return err
}

func (s *DepositStore) GetForUpdate(ctx context.Context, tx Getter, depositID string) (Deposit, error) {
	var row Deposit
	err := tx.GetContext(ctx, &row, `
		SELECT id, user_id, amount, screenshot_url, status, admin_notes, processed_by, processed_at
		FROM deposits
		WHERE id = $1
		FOR UPDATE
	`, depositID)
	return row, err
}

func (s *DepositStore) MarkProcessed(ctx context.Context, tx Execer, depositID, status, processedBy string, notes *string, processedAt time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE deposits
		SET status = $1, processed_by = $2, admin_notes = $3, processed_at = $4
		WHERE id = $5
	`, status, processedBy, notes, processedAt, depositID)
	return err
}

func (s *DepositStore) ListByUser(ctx context.Context, userID string, limit int) ([]Deposit, error) {
	var rows []Deposit
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, amount, screenshot_url, status, admin_notes, processed_by, processed_at, created_at
		FROM deposits
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	return rows, err
}

func (s *DepositStore) ListPending(ctx context.Context) ([]Deposit, error) {
	var rows []Deposit
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, amount, screenshot_url, status, admin_notes, processed_by, processed_at, created_at
		FROM deposits
		WHERE status = 'pending'
		ORDER BY created_at DESC
	`)
	return rows, err
}
