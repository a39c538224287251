package store

import "context"

type TaskStore struct {
	db DB
}

func NewTaskStore(db DB) *TaskStore {
	return &TaskStore{db: db}
}

type Task struct {
	ID           string  `db:"id"`
	PackageID    string  `db:"package_id"`
	Title        string  `db:"title"`
	Description  *string `db:"description"`
	RewardAmount int64   `db:"reward_amount"`
	IsActive     bool    `db:"is_active"`
}

type TaskInput struct {
	ID           string
	PackageID    string
	Title        string
	Description  *string
	RewardAmount int64
}

func (s *TaskStore) Create(ctx context.Context, tx Execer, input TaskInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (id, package_id, title, description, reward_amount, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
	`, input.ID, input.PackageID, input.Title, input.Description, input.RewardAmount)
	return err
}

func (s *TaskStore) Get(ctx context.Context, q Getter, taskID string) (Task, error) {
	var row Task
	err := q.GetContext(ctx, &row, `
		SELECT id, package_id, title, description, reward_amount, is_active
		FROM tasks
		WHERE id = $1
	`, taskID)
	return row, err
}

func (s *TaskStore) ListActiveByPackage(ctx context.Context, packageID string) ([]Task, error) {
	var rows []Task
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, package_id, title, description, reward_amount, is_active
		FROM tasks
		WHERE package_id = $1 AND is_active = TRUE
		ORDER BY title
	`, packageID)
	return rows, err
}

func (s *TaskStore) SetActive(ctx context.Context, tx Execer, taskID string, active bool) error {
	_, err := tx.ExecContext(ctx, `UPDATE tasks SET is_active = $1 WHERE id = $2`, active, taskID)
	return err
}
