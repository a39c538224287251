package store

import "context"

type PackageStore struct {
	db DB
}

func NewPackageStore(db DB) *PackageStore {
	return &PackageStore{db: db}
}

type Package struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Price        int64  `db:"price"`
	DailyTasks   int    `db:"daily_tasks"`
	DailyReturn  int64  `db:"daily_return"`
	DurationDays int    `db:"duration_days"`
	IsActive     bool   `db:"is_active"`
	CreatedAt    any    `db:"created_at"`
}

type PackageInput struct {
	ID           string
	Name         string
	Price        int64
	DailyTasks   int
	DailyReturn  int64
	DurationDays int
}

func (s *PackageStore) Create(ctx context.Context, tx Execer, input PackageInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO packages (id, name, price, daily_tasks, daily_return, duration_days, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
	`, input.ID, input.Name, input.Price, input.DailyTasks, input.DailyReturn, input.DurationDays)
	return err
}

func (s *PackageStore) Get(ctx context.Context, q Getter, packageID string) (Package, error) {
	var row Package
	err := q.GetContext(ctx, &row, `
		SELECT id, name, price, daily_tasks, daily_return, duration_days, is_active
		FROM packages
		WHERE id = $1
	`, packageID)
	return row, err
}

func (s *PackageStore) ListActive(ctx context.Context) ([]Package, error) {
	var rows []Package
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, price, daily_tasks, daily_return, duration_days, is_active, created_at
		FROM packages
		WHERE is_active = TRUE
		ORDER BY price
	`)
	return rows, err
}

func (s *PackageStore) Update(ctx context.Context, tx Execer, input PackageInput) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE packages
		SET name = $1, price = $2, daily_tasks = $3, daily_return = $4, duration_days = $5
		WHERE id = $6
	`, input.Name, input.Price, input.DailyTasks, input.DailyReturn, input.DurationDays, input.ID)
	return err
}

func (s *PackageStore) SetActive(ctx context.Context, tx Execer, packageID string, active bool) error {
	_, err := tx.ExecContext(ctx, `UPDATE packages SET is_active = $1 WHERE id = $2`, active, packageID)
	return err
}
