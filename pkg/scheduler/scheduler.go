// Package scheduler runs background cache-warming: it refreshes the
// trusted circles of tracked users on a cron schedule so interactive
// requests hit a warm cache instead of paying the provider round
// trip.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"trust_insight/pkg/config"
)

// TaskStatus represents the current state of a scheduled task
type TaskStatus string

const (
	TaskStatusPending  TaskStatus = "pending"
	TaskStatusRunning  TaskStatus = "running"
	TaskStatusComplete TaskStatus = "complete"
	TaskStatusFailed   TaskStatus = "failed"
)

// Task represents one scheduled warm-up
type Task struct {
	ID          string
	Name        string
	Schedule    string
	LastRun     time.Time
	Status      TaskStatus
	Error       error
	CronID      cron.EntryID
	ExecutionFn func(context.Context) error
}

// Scheduler manages task scheduling and execution
type Scheduler struct {
	cron       *cron.Cron
	tasks      map[string]*Task
	config     *config.WarmerConfig
	logger     *zap.Logger
	workerPool chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.RWMutex
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.WarmerConfig, logger *zap.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		tasks:      make(map[string]*Task),
		config:     cfg,
		logger:     logger,
		workerPool: make(chan struct{}, cfg.MaxConcurrent),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start begins the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting cache warmer",
		zap.Int("maxConcurrent", s.config.MaxConcurrent))

	s.cron.Start()
	return nil
}

// Stop gracefully shuts down the scheduler
func (s *Scheduler) Stop() error {
	s.logger.Info("Stopping cache warmer")

	s.cancel()

	// Stop accepting new tasks and wait for running ones
	ctx := s.cron.Stop()
	<-ctx.Done()

	return nil
}

// ScheduleTask adds a new task to the scheduler
func (s *Scheduler) ScheduleTask(task *Task) error {
	if err := s.validateTask(task); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return fmt.Errorf("task %s already scheduled", task.ID)
	}

	cronID, err := s.cron.AddFunc(task.Schedule, func() {
		s.runTask(task)
	})
	if err != nil {
		return fmt.Errorf("scheduling task: %w", err)
	}

	task.CronID = cronID
	task.Status = TaskStatusPending
	s.tasks[task.ID] = task

	s.logger.Debug("Task scheduled",
		zap.String("taskId", task.ID),
		zap.String("schedule", task.Schedule))
	return nil
}

// RemoveTask unschedules and forgets a task
func (s *Scheduler) RemoveTask(taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return fmt.Errorf("task %s not found", taskID)
	}

	s.cron.Remove(task.CronID)
	delete(s.tasks, taskID)
	return nil
}

// GetTask returns a scheduled task by ID
func (s *Scheduler) GetTask(taskID string) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return nil, fmt.Errorf("task %s not found", taskID)
	}
	return task, nil
}

func (s *Scheduler) validateTask(task *Task) error {
	if task.ID == "" {
		return fmt.Errorf("task ID is required")
	}
	if task.Schedule == "" {
		return fmt.Errorf("task schedule is required")
	}
	if task.ExecutionFn == nil {
		return fmt.Errorf("task execution function is required")
	}
	return nil
}

// runTask executes a task under the worker pool limit
func (s *Scheduler) runTask(task *Task) {
	select {
	case s.workerPool <- struct{}{}:
		defer func() { <-s.workerPool }()
	case <-s.ctx.Done():
		return
	}

	s.mu.Lock()
	task.Status = TaskStatusRunning
	task.LastRun = time.Now()
	s.mu.Unlock()

	err := task.ExecutionFn(s.ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		task.Status = TaskStatusFailed
		task.Error = err
		s.logger.Warn("Warm-up task failed",
			zap.String("taskId", task.ID),
			zap.Error(err))
		return
	}
	task.Status = TaskStatusComplete
	task.Error = nil
}
