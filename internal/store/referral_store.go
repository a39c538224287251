package store

import "context"

type ReferralStore struct {
	db DB
}

func NewReferralStore(db DB) *ReferralStore {
	return &ReferralStore{db: db}
}

type Referral struct {
	ID          string `db:"id"`
	ReferrerID  string `db:"referrer_id"`
	ReferredID  string `db:"referred_id"`
	BonusAmount int64  `db:"bonus_amount"`
	CreatedAt   any    `db:"created_at"`
}

func (s *ReferralStore) Create(ctx context.Context, tx Execer, id, referrerID, referredID string, bonusAmount int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO referrals (id, referrer_id, referred_id, bonus_amount)
		VALUES ($1, $2, $3, $4)
	`, id, referrerID, referredID, bonusAmount)
	return err
}

// ExistsForReferred enforces the one-referral-per-referred-user rule.
func (s *ReferralStore) ExistsForReferred(ctx context.Context, q Getter, referredID string) (bool, error) {
	var count int
	err := q.GetContext(ctx, &count, `
		SELECT COUNT(1)
		FROM referrals
		WHERE referred_id = $1
	`, referredID)
	return count > 0, err
}

type ReferralWithUser struct {
	Referral
	ReferredName  string `db:"referred_name"`
	ReferredPhone string `db:"referred_phone"`
}

func (s *ReferralStore) ListByReferrer(ctx context.Context, referrerID string) ([]ReferralWithUser, error) {
	var rows []ReferralWithUser
	err := s.db.SelectContext(ctx, &rows, `
		SELECT r.id, r.referrer_id, r.referred_id, r.bonus_amount, r.created_at,
		       u.full_name AS referred_name, u.phone AS referred_phone
		FROM referrals r
		JOIN users u ON u.id = r.referred_id
		WHERE r.referrer_id = $1
		ORDER BY r.created_at DESC
	`, referrerID)
	return rows, err
}
