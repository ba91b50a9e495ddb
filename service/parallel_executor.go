package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Default values for the parallel executor
const (
	DefaultMaxConcurrency = config.DefaultMaxGoroutines
	DefaultTimeout        = time.Duration(config.DefaultTimeoutSeconds) * time.Second
)

// TaskError represents a single detector task failure
type TaskError struct {
	TaskName string
	Err      error
}

// Error implements the error interface
func (e TaskError) Error() string {
	return fmt.Sprintf("[%s] %v", e.TaskName, e.Err)
}

// Unwrap returns the underlying error
func (e TaskError) Unwrap() error {
	return e.Err
}

// AggregatedError collects all task failures of one run
type AggregatedError struct {
	Errors []TaskError
}

// Error implements the error interface
func (e *AggregatedError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d detectors failed:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap returns the first error for errors.Is/As compatibility
func (e *AggregatedError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0].Err
}

// ParallelExecutorImpl implements domain.ParallelExecutor on an errgroup.
// Every enabled task runs to completion; failures are collected rather
// than cancelling the siblings.
type ParallelExecutorImpl struct {
	maxConcurrency int
	timeout        time.Duration
	progress       domain.ProgressManager
	logger         *zap.Logger
	mu             sync.RWMutex
}

// NewParallelExecutor creates an executor with the default limits
func NewParallelExecutor() *ParallelExecutorImpl {
	return &ParallelExecutorImpl{
		maxConcurrency: DefaultMaxConcurrency,
		timeout:        DefaultTimeout,
		logger:         zap.NewNop(),
	}
}

// NewParallelExecutorFromConfig creates an executor from the performance section
func NewParallelExecutorFromConfig(cfg *config.PerformanceConfig) *ParallelExecutorImpl {
	e := NewParallelExecutor()
	if cfg == nil {
		return e
	}
	if cfg.MaxGoroutines > 0 {
		e.maxConcurrency = cfg.MaxGoroutines
	}
	if cfg.TimeoutSeconds > 0 {
		e.timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return e
}

// NewParallelExecutorWithProgress creates an executor that reports task completion
func NewParallelExecutorWithProgress(cfg *config.PerformanceConfig, pm domain.ProgressManager) *ParallelExecutorImpl {
	e := NewParallelExecutorFromConfig(cfg)
	e.progress = pm
	return e
}

// WithLogger sets the logger used for task timings
func (e *ParallelExecutorImpl) WithLogger(logger *zap.Logger) *ParallelExecutorImpl {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// Execute runs the enabled tasks with the configured concurrency and timeout
func (e *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	enabled := filterEnabledTasks(tasks)
	if len(enabled) == 0 {
		return nil
	}

	e.mu.RLock()
	maxConcurrency := e.maxConcurrency
	timeout := e.timeout
	e.mu.RUnlock()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var progress domain.TaskProgress = &NoOpTaskProgress{}
	if e.progress != nil {
		progress = e.progress.StartTask("Running detectors", len(enabled))
	}
	defer progress.Complete()

	g, gCtx := errgroup.WithContext(timeoutCtx)
	g.SetLimit(maxConcurrency)

	var errMu sync.Mutex
	taskErrors := make([]TaskError, 0)

	for _, t := range enabled {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				errMu.Lock()
				taskErrors = append(taskErrors, TaskError{TaskName: t.Name(), Err: err})
				errMu.Unlock()
				return nil
			}

			start := time.Now()
			_, err := t.Execute(gCtx)
			progress.Describe(t.Name())
			progress.Increment(1)
			e.logger.Debug("detector finished",
				zap.String("task", t.Name()),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err),
			)

			if err != nil {
				errMu.Lock()
				taskErrors = append(taskErrors, TaskError{TaskName: t.Name(), Err: err})
				errMu.Unlock()
			}
			// nil keeps the group from cancelling the remaining detectors
			return nil
		})
	}
	_ = g.Wait()

	if len(taskErrors) > 0 {
		return &AggregatedError{Errors: taskErrors}
	}
	return nil
}

// SetMaxConcurrency sets the maximum number of concurrent tasks
func (e *ParallelExecutorImpl) SetMaxConcurrency(max int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if max > 0 {
		e.maxConcurrency = max
	}
}

// SetTimeout sets the timeout for one Execute call
func (e *ParallelExecutorImpl) SetTimeout(timeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if timeout > 0 {
		e.timeout = timeout
	}
}

func filterEnabledTasks(tasks []domain.ExecutableTask) []domain.ExecutableTask {
	enabled := make([]domain.ExecutableTask, 0, len(tasks))
	for _, t := range tasks {
		if t != nil && t.IsEnabled() {
			enabled = append(enabled, t)
		}
	}
	return enabled
}
