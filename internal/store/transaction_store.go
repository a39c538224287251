package store

import "context"

type TransactionStore struct {
	db DB
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

type Transaction struct {
	ID          string  `db:"id"`
	UserID      string  `db:"user_id"`
	Type        string  `db:"type"`
	Amount      int64   `db:"amount"`
	Description string  `db:"description"`
	ReferenceID *string `db:"reference_id"`
	CreatedAt   any     `db:"created_at"`
}

type TransactionInput struct {
	ID          string
	UserID      string
	Type        string
	Amount      int64
	Description string
	ReferenceID *string
}

// Create appends to the transaction log. There is deliberately no update or
// delete on this table.
func (s *TransactionStore) Create(ctx context.Context, tx Execer, input TransactionInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, type, amount, description, reference_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, input.ID, input.UserID, input.Type, input.Amount, input.Description, input.ReferenceID)
	return err
}

func (s *TransactionStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Transaction, error) {
	var rows []Transaction
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, type, amount, description, reference_id, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	return rows, err
}

// SumSignedByUser folds the log into the balance it implies: credits count
// positive, debits negative.
func (s *TransactionStore) SumSignedByUser(ctx context.Context, q Getter, userID string) (int64, error) {
	var sum int64
	err := q.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(
			CASE WHEN type IN ('withdrawal', 'package_purchase') THEN -amount ELSE amount END
		), 0)
		FROM transactions
		WHERE user_id = $1
	`, userID)
	return sum, err
}

type ReconcileRow struct {
	UserID        string `db:"user_id"`
	Phone         string `db:"phone"`
	StoredBalance int64  `db:"stored_balance"`
	LedgerSum     int64  `db:"ledger_sum"`
	Difference    int64  `db:"difference"`
}

// Reconcile compares every stored balance against the signed sum of its
// transaction history.
func (s *TransactionStore) Reconcile(ctx context.Context) ([]ReconcileRow, error) {
	var rows []ReconcileRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT u.id AS user_id,
		       u.phone,
		       u.balance AS stored_balance,
		       COALESCE(SUM(CASE WHEN t.type IN ('withdrawal', 'package_purchase') THEN -t.amount ELSE t.amount END), 0) AS ledger_sum,
		       (u.balance - COALESCE(SUM(CASE WHEN t.type IN ('withdrawal', 'package_purchase') THEN -t.amount ELSE t.amount END), 0)) AS difference
		FROM users u
		LEFT JOIN transactions t ON t.user_id = u.id
		GROUP BY u.id, u.phone, u.balance
		ORDER BY u.created_at
	`)
	return rows, err
}
