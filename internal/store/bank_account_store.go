package store

import (
	"context"

	"github.com/lib/pq"
)

// BankAccountStore covers both sides of the manual money movement: the
// platform accounts customers pay deposits into, and the customer accounts
// admins pay withdrawals out to.
type BankAccountStore struct {
	db DB
}

func NewBankAccountStore(db DB) *BankAccountStore {
	return &BankAccountStore{db: db}
}

type AdminBankAccount struct {
	ID            string  `db:"id"`
	BankName      string  `db:"bank_name"`
	AccountNumber string  `db:"account_number"`
	AccountHolder string  `db:"account_holder"`
	BranchName    *string `db:"branch_name"`
	CreatedAt     any     `db:"created_at"`
}

func (s *BankAccountStore) ListAdminAccounts(ctx context.Context) ([]AdminBankAccount, error) {
	var rows []AdminBankAccount
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, bank_name, account_number, account_holder, branch_name, created_at
		FROM admin_bank_accounts
		ORDER BY bank_name
	`)
	return rows, err
}

func (s *BankAccountStore) CreateAdminAccount(ctx context.Context, tx Execer, id, bankName, accountNumber, accountHolder string, branchName *string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO admin_bank_accounts (id, bank_name, account_number, account_holder, branch_name)
		VALUES ($1, $2, $3, $4, $5)
	`, id, bankName, accountNumber, accountHolder, branchName)
	return err
}

func (s *BankAccountStore) DeleteAdminAccount(ctx context.Context, tx Execer, id string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM admin_bank_accounts WHERE id = $1`, id)
	return err
}

type CustomerBankAccount struct {
	UserID        string `db:"user_id"`
	BankName      string `db:"bank_name"`
	AccountNumber string `db:"account_number"`
	AccountHolder string `db:"account_holder"`
	UpdatedAt     any    `db:"updated_at"`
}

func (s *BankAccountStore) GetCustomerAccount(ctx context.Context, userID string) (CustomerBankAccount, error) {
	var row CustomerBankAccount
	err := s.db.GetContext(ctx, &row, `
		SELECT user_id, bank_name, account_number, account_holder, updated_at
		FROM customer_bank_accounts
		WHERE user_id = $1
	`, userID)
	return row, err
}

func (s *BankAccountStore) UpsertCustomerAccount(ctx context.Context, tx Execer, account CustomerBankAccount) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO customer_bank_accounts (user_id, bank_name, account_number, account_holder, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET bank_name = EXCLUDED.bank_name,
		    account_number = EXCLUDED.account_number,
		    account_holder = EXCLUDED.account_holder,
		    updated_at = NOW()
	`, account.UserID, account.BankName, account.AccountNumber, account.AccountHolder)
	return err
}

func (s *BankAccountStore) ListCustomerAccounts(ctx context.Context, userIDs []string) ([]CustomerBankAccount, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT user_id, bank_name, account_number, account_holder, updated_at
		FROM customer_bank_accounts
		WHERE user_id = ANY($1)
	`
	var rows []CustomerBankAccount
	err := s.db.SelectContext(ctx, &rows, query, pq.Array(userIDs))
	return rows, err
}
