package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"trust_insight/pkg/circle"
	"trust_insight/pkg/config"
)

func setupTestScheduler(t *testing.T) *Scheduler {
	logger := zaptest.NewLogger(t)
	cfg := &config.WarmerConfig{
		Schedule:      "* * * * * *",
		MaxConcurrent: 5,
	}

	s := NewScheduler(cfg, logger)
	require.NoError(t, s.Start())
	return s
}

func TestScheduleTask(t *testing.T) {
	s := setupTestScheduler(t)
	defer s.Stop()

	t.Run("ValidTask", func(t *testing.T) {
		task := &Task{
			ID:       "test-task-1",
			Name:     "Test Task",
			Schedule: "*/5 * * * * *",
			ExecutionFn: func(ctx context.Context) error {
				return nil
			},
		}

		err := s.ScheduleTask(task)
		require.NoError(t, err)

		scheduled, err := s.GetTask(task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, scheduled.ID)
		assert.Equal(t, TaskStatusPending, scheduled.Status)
	})

	t.Run("InvalidSchedule", func(t *testing.T) {
		task := &Task{
			ID:       "test-task-2",
			Schedule: "invalid",
			ExecutionFn: func(ctx context.Context) error {
				return nil
			},
		}
		assert.Error(t, s.ScheduleTask(task))
	})

	t.Run("DuplicateTask", func(t *testing.T) {
		task := &Task{
			ID:       "test-task-3",
			Schedule: "* * * * * *",
			ExecutionFn: func(ctx context.Context) error {
				return nil
			},
		}
		require.NoError(t, s.ScheduleTask(task))
		assert.Error(t, s.ScheduleTask(task))
	})

	t.Run("MissingExecutionFn", func(t *testing.T) {
		task := &Task{ID: "test-task-4", Schedule: "* * * * * *"}
		assert.Error(t, s.ScheduleTask(task))
	})
}

func TestTaskExecution(t *testing.T) {
	s := setupTestScheduler(t)
	defer s.Stop()

	t.Run("SuccessfulExecution", func(t *testing.T) {
		executed := make(chan bool, 1)
		task := &Task{
			ID:       "exec-1",
			Schedule: "* * * * * *", // Every second
			ExecutionFn: func(ctx context.Context) error {
				select {
				case executed <- true:
				default:
				}
				return nil
			},
		}
		require.NoError(t, s.ScheduleTask(task))

		select {
		case <-executed:
		case <-time.After(3 * time.Second):
			t.Fatal("task did not execute")
		}
	})

	t.Run("FailureRecorded", func(t *testing.T) {
		ran := make(chan bool, 1)
		task := &Task{
			ID:       "exec-2",
			Schedule: "* * * * * *",
			ExecutionFn: func(ctx context.Context) error {
				select {
				case ran <- true:
				default:
				}
				return errors.New("boom")
			},
		}
		require.NoError(t, s.ScheduleTask(task))

		select {
		case <-ran:
		case <-time.After(3 * time.Second):
			t.Fatal("task did not execute")
		}

		assert.Eventually(t, func() bool {
			got, err := s.GetTask("exec-2")
			return err == nil && got.Status == TaskStatusFailed
		}, 2*time.Second, 50*time.Millisecond)
	})
}

type fakeRefresher struct {
	calls atomic.Int64
}

func (f *fakeRefresher) RefreshTrustedCircle(ctx context.Context, userAddress string) ([]circle.TrustedContact, error) {
	f.calls.Add(1)
	return nil, nil
}

func TestTrackUser(t *testing.T) {
	s := setupTestScheduler(t)
	defer s.Stop()

	user := "0x1111111111111111111111111111111111111111"
	refresher := &fakeRefresher{}

	require.NoError(t, s.TrackUser(user, refresher))

	// Re-tracking (any casing) is a no-op, not an error.
	require.NoError(t, s.TrackUser("0x1111111111111111111111111111111111111111", refresher))

	assert.Eventually(t, func() bool {
		return refresher.calls.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)

	require.NoError(t, s.UntrackUser(user))
	assert.Error(t, s.UntrackUser(user))
}
