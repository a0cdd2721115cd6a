package domain

import "context"

// ExecutableTask is a unit of work run by the parallel executor
type ExecutableTask interface {
	// Name identifies the task in error reports
	Name() string

	// IsEnabled reports whether the task should run
	IsEnabled() bool

	// Execute runs the task
	Execute(ctx context.Context) (any, error)
}

// ParallelExecutor runs independent tasks concurrently
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
}

// ProgressManager creates progress tasks for long-running operations
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks progress of a single task
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}

// ProjectScanner enumerates a file tree into analysis targets plus shared
// bundle context. Implemented by the app layer; the analysis core only
// consumes the already-enumerated targets.
type ProjectScanner interface {
	Scan(ctx context.Context, paths []string) ([]SourceTarget, *AnalysisContext, error)
}
