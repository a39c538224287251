package store

import (
	"context"
	"time"
)

type UserPackageStore struct {
	db DB
}

func NewUserPackageStore(db DB) *UserPackageStore {
	return &UserPackageStore{db: db}
}

type UserPackage struct {
	ID                  string     `db:"id"`
	UserID              string     `db:"user_id"`
	PackageID           string     `db:"package_id"`
	PurchaseDate        time.Time  `db:"purchase_date"`
	ExpiryDate          time.Time  `db:"expiry_date"`
	TasksCompletedToday int        `db:"tasks_completed_today"`
	LastTaskDate        *time.Time `db:"last_task_date"`
	TotalEarned         int64      `db:"total_earned"`
	IsActive            bool       `db:"is_active"`
}

type UserPackageInput struct {
	ID           string
	UserID       string
	PackageID    string
	PurchaseDate time.Time
	ExpiryDate   time.Time
}

func (s *UserPackageStore) Create(ctx context.Context, tx Execer, input UserPackageInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO user_packages (id, user_id, package_id, purchase_date, expiry_date, tasks_completed_today, total_earned, is_active)
		VALUES ($1, $2, $3, $4, $5, 0, 0, TRUE)
	`, input.ID, input.UserID, input.PackageID, input.PurchaseDate, input.ExpiryDate)
	return err
}

// GetForUpdate locks the purchase row so daily counters cannot race.
func (s *UserPackageStore) GetForUpdate(ctx context.Context, tx Getter, userPackageID string) (UserPackage, error) {
	var row UserPackage
	err := tx.GetContext(ctx, &row, `
		SELECT id, user_id, package_id, purchase_date, expiry_date, tasks_completed_today, last_task_date, total_earned, is_active
		FROM user_packages
		WHERE id = $1
		FOR UPDATE
	`, userPackageID)
	return row, err
}

func (s *UserPackageStore) Get(ctx context.Context, userPackageID string) (UserPackage, error) {
	var row UserPackage
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, package_id, purchase_date, expiry_date, tasks_completed_today, last_task_date, total_earned, is_active
		FROM user_packages
		WHERE id = $1
	`, userPackageID)
	return row, err
}

// RecordCompletion advances the daily counter and running earnings after a
// task reward has been credited.
func (s *UserPackageStore) RecordCompletion(ctx context.Context, tx Execer, userPackageID string, tasksToday int, taskDate time.Time, totalEarned int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE user_packages
		SET tasks_completed_today = $1, last_task_date = $2, total_earned = $3
		WHERE id = $4
	`, tasksToday, taskDate, totalEarned, userPackageID)
	return err
}

type UserPackageWithCatalog struct {
	UserPackage
	PackageName  string `db:"package_name"`
	DailyTasks   int    `db:"daily_tasks"`
	DailyReturn  int64  `db:"daily_return"`
	DurationDays int    `db:"duration_days"`
}

func (s *UserPackageStore) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]UserPackageWithCatalog, error) {
	query := `
		SELECT up.id, up.user_id, up.package_id, up.purchase_date, up.expiry_date,
		       up.tasks_completed_today, up.last_task_date, up.total_earned, up.is_active,
		       p.name AS package_name, p.daily_tasks, p.daily_return, p.duration_days
		FROM user_packages up
		JOIN packages p ON p.id = up.package_id
		WHERE up.user_id = $1
	`
	if activeOnly {
		query += " AND up.is_active = TRUE AND up.expiry_date > NOW()"
	}
	query += " ORDER BY up.purchase_date DESC"
	var rows []UserPackageWithCatalog
	err := s.db.SelectContext(ctx, &rows, query, userID)
	return rows, err
}

// DeactivateExpired flips every lapsed purchase inactive and reports how many
// rows changed. Run by the daily sweep.
func (s *UserPackageStore) DeactivateExpired(ctx context.Context, tx Execer, now time.Time) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE user_packages
		SET is_active = FALSE
		WHERE is_active = TRUE AND expiry_date <= $1
	`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
