package store

import (
	"context"
	"time"
)

type CompletionStore struct {
	db DB
}

func NewCompletionStore(db DB) *CompletionStore {
	return &CompletionStore{db: db}
}

type CompletionInput struct {
	ID            string
	UserID        string
	TaskID        string
	UserPackageID string
	CompletedAt   time.Time
	CompletedOn   time.Time
	RewardEarned  int64
}

type Completion struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	TaskID        string    `db:"task_id"`
	UserPackageID string    `db:"user_package_id"`
	CompletedAt   time.Time `db:"completed_at"`
	RewardEarned  int64     `db:"reward_earned"`
	TaskTitle     string    `db:"task_title"`
}

// Create inserts a completion. The (task_id, user_package_id, completed_on)
// unique index makes the loser of a same-day race fail with a constraint
// violation rather than double-crediting.
func (s *CompletionStore) Create(ctx context.Context, tx Execer, input CompletionInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO user_tasks (id, user_id, task_id, user_package_id, completed_at, completed_on, reward_earned)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, input.ID, input.UserID, input.TaskID, input.UserPackageID, input.CompletedAt, input.CompletedOn, input.RewardEarned)
	return err
}

func (s *CompletionStore) ExistsForDay(ctx context.Context, q Getter, taskID, userPackageID string, day time.Time) (bool, error) {
	var count int
	err := q.GetContext(ctx, &count, `
		SELECT COUNT(1)
		FROM user_tasks
		WHERE task_id = $1 AND user_package_id = $2 AND completed_on = $3
	`, taskID, userPackageID, day)
	return count > 0, err
}

func (s *CompletionStore) ListForDay(ctx context.Context, userID string, day time.Time) ([]Completion, error) {
	var rows []Completion
	err := s.db.SelectContext(ctx, &rows, `
		SELECT ut.id, ut.user_id, ut.task_id, ut.user_package_id, ut.completed_at, ut.reward_earned,
		       t.title AS task_title
		FROM user_tasks ut
		JOIN tasks t ON t.id = ut.task_id
		WHERE ut.user_id = $1 AND ut.completed_on = $2
		ORDER BY ut.completed_at DESC
	`, userID, day)
	return rows, err
}
