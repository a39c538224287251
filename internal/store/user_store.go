package store

import "context"

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

type User struct {
	ID           string  `db:"id"`
	Phone        string  `db:"phone"`
	FullName     string  `db:"full_name"`
	PasswordHash string  `db:"password_hash"`
	ReferralCode string  `db:"referral_code"`
	ReferredBy   *string `db:"referred_by"`
	Balance      int64   `db:"balance"`
	IsAdmin      bool    `db:"is_admin"`
	CreatedAt    any     `db:"created_at"`
}

type UserInput struct {
	ID           string
	Phone        string
	FullName     string
	PasswordHash string
	ReferralCode string
	ReferredBy   *string
	IsAdmin      bool
}

func (s *UserStore) Create(ctx context.Context, tx Execer, input UserInput) error {
	query := `
		INSERT INTO users (id, phone, full_name, password_hash, referral_code, referred_by, balance, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.Phone, input.FullName, input.PasswordHash,
		input.ReferralCode, input.ReferredBy, input.IsAdmin,
	)
	return err
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (User, error) {
	var row User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, phone, full_name, password_hash, referral_code, referred_by, balance, is_admin, created_at
		FROM users
		WHERE id = $1
	`, userID)
	return row, err
}

func (s *UserStore) GetByPhone(ctx context.Context, phone string) (User, error) {
	var row User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, phone, full_name, password_hash, referral_code, referred_by, balance, is_admin, created_at
		FROM users
		WHERE phone = $1
	`, phone)
	return row, err
}

func (s *UserStore) GetByReferralCode(ctx context.Context, tx Getter, code string) (User, error) {
	var row User
	err := tx.GetContext(ctx, &row, `
		SELECT id, phone, full_name, password_hash, referral_code, referred_by, balance, is_admin, created_at
		FROM users
		WHERE referral_code = $1
	`, code)
	return row, err
}

// GetForUpdate takes the per-user row lock every balance mutation serializes on.
func (s *UserStore) GetForUpdate(ctx context.Context, tx Getter, userID string) (User, error) {
	var row User
	err := tx.GetContext(ctx, &row, `
		SELECT id, phone, full_name, password_hash, referral_code, referred_by, balance, is_admin
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, userID)
	return row, err
}

func (s *UserStore) UpdateBalance(ctx context.Context, tx Execer, userID string, balance int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
	`, balance, userID)
	return err
}

func (s *UserStore) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var isAdmin bool
	err := s.db.GetContext(ctx, &isAdmin, `SELECT is_admin FROM users WHERE id = $1`, userID)
	return isAdmin, err
}

type UserSummary struct {
	ID           string `db:"id"`
	Phone        string `db:"phone"`
	FullName     string `db:"full_name"`
	ReferralCode string `db:"referral_code"`
	Balance      int64  `db:"balance"`
	IsAdmin      bool   `db:"is_admin"`
	CreatedAt    any    `db:"created_at"`
}

func (s *UserStore) ListAll(ctx context.Context, limit, offset int) ([]UserSummary, error) {
	var rows []UserSummary
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, phone, full_name, referral_code, balance, is_admin, created_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return rows, err
}
