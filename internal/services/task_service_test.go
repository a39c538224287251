package services

import (
	"context"
	"testing"
	"time"

	"taskvest/internal/store"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTaskFixture() (stubUserPackageStore, stubTaskStore, stubPackageStore) {
	userPackages := stubUserPackageStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, id string) (store.UserPackage, error) {
			return store.UserPackage{
				ID:         id,
				UserID:     "user-1",
				PackageID:  "pkg-1",
				ExpiryDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
				IsActive:   true,
			}, nil
		},
	}
	tasks := stubTaskStore{
		getFn: func(_ context.Context, _ store.Getter, id string) (store.Task, error) {
			return store.Task{ID: id, PackageID: "pkg-1", Title: "Watch video", RewardAmount: 250, IsActive: true}, nil
		},
	}
	packages := stubPackageStore{
		getFn: func(_ context.Context, _ store.Getter, id string) (store.Package, error) {
			return store.Package{ID: id, DailyTasks: 3, IsActive: true}, nil
		},
	}
	return userPackages, tasks, packages
}

func TestCompleteCreditsRewardAndAdvancesCounter(t *testing.T) {
	userPackages, tasks, packages := newTaskFixture()
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	var recordedTasksToday int
	var recordedDate time.Time
	userPackages.recordCompletionFn = func(_ context.Context, _ store.Execer, _ string, tasksToday int, taskDate time.Time, _ int64) error {
		recordedTasksToday = tasksToday
		recordedDate = taskDate
		return nil
	}
	ledger := &stubLedger{applyFn: func(_ context.Context, _ store.Tx, input ApplyInput) (ApplyResult, error) {
		return ApplyResult{TransactionID: "tx-1", BalanceAfter: 1250}, nil
	}}
	hub := &stubHub{}
	svc := NewTaskService(fakeTxRunner{}, tasks, packages, userPackages, stubCompletionStore{}, ledger, hub)
	svc.now = fixedClock(now)

	result, err := svc.Complete(context.Background(), "user-1", "task-1", "up-1")
	require.NoError(t, err)
	require.Equal(t, int64(250), result.RewardEarned)
	require.Equal(t, 1, result.TasksToday)
	require.Equal(t, int64(1250), result.BalanceAfter)
	require.Equal(t, 1, recordedTasksToday)
	require.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), recordedDate)
	require.Len(t, ledger.applied, 1)
	require.Equal(t, KindTaskReward, ledger.applied[0].Kind)
	require.Len(t, hub.broadcasts, 1)
	require.Equal(t, "user-1", hub.broadcasts[0].userID)
	require.Equal(t, "12.50", hub.broadcasts[0].update.Balance)
}

func TestCompleteRejectsDuplicateSameDay(t *testing.T) {
	userPackages, tasks, packages := newTaskFixture()
	completions := stubCompletionStore{
		existsFn: func(context.Context, store.Getter, string, string, time.Time) (bool, error) {
			return true, nil
		},
	}
	svc := NewTaskService(fakeTxRunner{}, tasks, packages, userPackages, completions, &stubLedger{}, &stubHub{})
	svc.now = fixedClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	_, err := svc.Complete(context.Background(), "user-1", "task-1", "up-1")
	require.ErrorIs(t, err, ErrDuplicateCompletion)
}

func TestCompleteMapsUniqueViolationToDuplicate(t *testing.T) {
	userPackages, tasks, packages := newTaskFixture()
	completions := stubCompletionStore{
		createFn: func(context.Context, store.Execer, store.CompletionInput) error {
			return &pq.Error{Code: "23505", Constraint: "user_tasks_once_per_day"}
		},
	}
	svc := NewTaskService(fakeTxRunner{}, tasks, packages, userPackages, completions, &stubLedger{}, &stubHub{})
	svc.now = fixedClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	_, err := svc.Complete(context.Background(), "user-1", "task-1", "up-1")
	require.ErrorIs(t, err, ErrDuplicateCompletion)
}

func TestCompleteEnforcesDailyCap(t *testing.T) {
	userPackages, tasks, packages := newTaskFixture()
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	lastTask := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	userPackages.getForUpdateFn = func(_ context.Context, _ store.Getter, id string) (store.UserPackage, error) {
		return store.UserPackage{
			ID:                  id,
			UserID:              "user-1",
			PackageID:           "pkg-1",
			ExpiryDate:          time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			TasksCompletedToday: 3,
			LastTaskDate:        &lastTask,
			IsActive:            true,
		}, nil
	}
	svc := NewTaskService(fakeTxRunner{}, tasks, packages, userPackages, stubCompletionStore{}, &stubLedger{}, &stubHub{})
	svc.now = fixedClock(now)

	_, err := svc.Complete(context.Background(), "user-1", "task-1", "up-1")
	require.ErrorIs(t, err, ErrDailyCapReached)
}

func TestCompleteResetsCounterOnNewDay(t *testing.T) {
	userPackages, tasks, packages := newTaskFixture()
	yesterday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	userPackages.getForUpdateFn = func(_ context.Context, _ store.Getter, id string) (store.UserPackage, error) {
		return store.UserPackage{
			ID:                  id,
			UserID:              "user-1",
			PackageID:           "pkg-1",
			ExpiryDate:          time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			TasksCompletedToday: 3,
			LastTaskDate:        &yesterday,
			IsActive:            true,
		}, nil
	}
	var recordedTasksToday int
	userPackages.recordCompletionFn = func(_ context.Context, _ store.Execer, _ string, tasksToday int, _ time.Time, _ int64) error {
		recordedTasksToday = tasksToday
		return nil
	}
	svc := NewTaskService(fakeTxRunner{}, tasks, packages, userPackages, stubCompletionStore{}, &stubLedger{}, &stubHub{})
	svc.now = fixedClock(time.Date(2026, 3, 10, 0, 5, 0, 0, time.UTC))

	result, err := svc.Complete(context.Background(), "user-1", "task-1", "up-1")
	require.NoError(t, err)
	require.Equal(t, 1, result.TasksToday)
	require.Equal(t, 1, recordedTasksToday)
}

func TestCompleteRejectsExpiredPackage(t *testing.T) {
	userPackages, tasks, packages := newTaskFixture()
	svc := NewTaskService(fakeTxRunner{}, tasks, packages, userPackages, stubCompletionStore{}, &stubLedger{}, &stubHub{})
	svc.now = fixedClock(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))

	_, err := svc.Complete(context.Background(), "user-1", "task-1", "up-1")
	require.ErrorIs(t, err, ErrPackageExpired)
}

func TestCompleteRejectsForeignPackage(t *testing.T) {
	userPackages, tasks, packages := newTaskFixture()
	svc := NewTaskService(fakeTxRunner{}, tasks, packages, userPackages, stubCompletionStore{}, &stubLedger{}, &stubHub{})
	svc.now = fixedClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	_, err := svc.Complete(context.Background(), "someone-else", "task-1", "up-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteRejectsTaskFromAnotherPackage(t *testing.T) {
	userPackages, _, packages := newTaskFixture()
	tasks := stubTaskStore{
		getFn: func(_ context.Context, _ store.Getter, id string) (store.Task, error) {
			return store.Task{ID: id, PackageID: "pkg-other", RewardAmount: 250, IsActive: true}, nil
		},
	}
	svc := NewTaskService(fakeTxRunner{}, tasks, packages, userPackages, stubCompletionStore{}, &stubLedger{}, &stubHub{})
	svc.now = fixedClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	_, err := svc.Complete(context.Background(), "user-1", "task-1", "up-1")
	require.ErrorIs(t, err, ErrTaskNotEligible)
}

func TestDayOfUsesUTCCalendarDate(t *testing.T) {
	late := time.Date(2026, 3, 10, 23, 59, 0, 0, time.FixedZone("UTC+5", 5*3600))
	require.Equal(t, time.Date(2026, 3, 10, 18, 59, 0, 0, time.UTC).Truncate(24*time.Hour), DayOf(late))
	require.False(t, sameDay(
		time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC),
		time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC),
	))
}
