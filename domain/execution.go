package domain

import "context"

// ProgressManager creates progress trackers for long-running steps
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks a single step
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}

// ExecutableTask is a unit of work run by a ParallelExecutor
type ExecutableTask interface {
	Name() string
	IsEnabled() bool
	Execute(ctx context.Context) (any, error)
}

// ParallelExecutor runs tasks concurrently
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
}
