package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskvest/internal/money"
	"taskvest/internal/store"
	"taskvest/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// TaskService enforces the per-day accrual rules: one completion per task per
// package per calendar day, at most daily_tasks completions per day, nothing
// after expiry.
type TaskService struct {
	txRunner     TxRunner
	tasks        TaskStore
	packages     PackageStore
	userPackages UserPackageStore
	completions  CompletionStore
	ledger       LedgerApplier
	hub          BalanceHub
	now          func() time.Time
}

func NewTaskService(txRunner TxRunner, tasks TaskStore, packages PackageStore, userPackages UserPackageStore, completions CompletionStore, ledger LedgerApplier, hub BalanceHub) *TaskService {
	return &TaskService{
		txRunner:     txRunner,
		tasks:        tasks,
		packages:     packages,
		userPackages: userPackages,
		completions:  completions,
		ledger:       ledger,
		hub:          hub,
		now:          time.Now,
	}
}

type CompleteResult struct {
	CompletionID string
	RewardEarned int64
	TasksToday   int
	BalanceAfter int64
}

// DayOf truncates to the UTC calendar date all daily accounting keys on.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}

// Complete runs the whole state machine for one completion attempt in a
// single transaction: expiry, eligibility, duplicate, cap, then the credit
// and counter update. If two attempts for the same task and day race, the
// unique index on user_tasks makes the second fail after the first commits.
func (s *TaskService) Complete(ctx context.Context, userID, taskID, userPackageID string) (CompleteResult, error) {
	var result CompleteResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		up, err := s.userPackages.GetForUpdate(ctx, tx, userPackageID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if up.UserID != userID {
			return ErrNotFound
		}
		now := s.now()
		if !up.IsActive || IsExpired(up, now) {
			return ErrPackageExpired
		}
		task, err := s.tasks.Get(ctx, tx, taskID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if task.PackageID != up.PackageID || !task.IsActive {
			return ErrTaskNotEligible
		}
		pkg, err := s.packages.Get(ctx, tx, up.PackageID)
		if err != nil {
			return err
		}
		today := DayOf(now)
		done, err := s.completions.ExistsForDay(ctx, tx, taskID, userPackageID, today)
		if err != nil {
			return err
		}
		if done {
			return ErrDuplicateCompletion
		}
		tasksToday := up.TasksCompletedToday
		if up.LastTaskDate == nil || !sameDay(*up.LastTaskDate, now) {
			tasksToday = 0
		}
		if tasksToday >= pkg.DailyTasks {
			return ErrDailyCapReached
		}
		completionID := uuid.NewString()
		if err := s.completions.Create(ctx, tx, store.CompletionInput{
			ID:            completionID,
			UserID:        userID,
			TaskID:        taskID,
			UserPackageID: userPackageID,
			CompletedAt:   now,
			CompletedOn:   today,
			RewardEarned:  task.RewardAmount,
		}); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateCompletion
			}
			return err
		}
		applied, err := s.ledger.Apply(ctx, tx, ApplyInput{
			UserID:      userID,
			Kind:        KindTaskReward,
			Amount:      task.RewardAmount,
			Description: fmt.Sprintf("Completed task: %s", task.Title),
			ReferenceID: &task.ID,
		})
		if err != nil {
			return err
		}
		if err := s.userPackages.RecordCompletion(ctx, tx, userPackageID, tasksToday+1, today, up.TotalEarned+task.RewardAmount); err != nil {
			return err
		}
		result = CompleteResult{
			CompletionID: completionID,
			RewardEarned: task.RewardAmount,
			TasksToday:   tasksToday + 1,
			BalanceAfter: applied.BalanceAfter,
		}
		return nil
	})
	if err != nil {
		return CompleteResult{}, err
	}
	s.hub.BroadcastBalance(userID, websocket.BalanceUpdate{
		Balance: money.FormatMinor(result.BalanceAfter),
	})
	return result, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
