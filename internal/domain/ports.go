package domain

import (
	"context"
	"time"
)

// TaskFetcher retrieves new tasks from the backend queue.
type TaskFetcher interface {
	// FetchNewTask requests a new task. It does not change backend state.
	// Returns (nil, nil) when the queue has no task to hand out.
	FetchNewTask(ctx context.Context) (*Task, error)
}

// TaskSubmitter sends replies to the backend queue.
type TaskSubmitter interface {
	// SubmitResponse records the reply and returns the next task in one call.
	// Callers must not fetch separately after a successful submission.
	// Returns (nil, nil) if the reply was recorded but the queue is drained.
	SubmitResponse(ctx context.Context, req SubmissionRequest) (*Task, error)
}

// TaskQueue is a backend that can both hand out tasks and accept replies.
type TaskQueue interface {
	TaskFetcher
	TaskSubmitter
}

// Logger writes diagnostic entries.
// taskID may be empty for entries that are not about a task.
type Logger interface {
	Debug(taskID, category, msg string)
	Info(taskID, category, msg string)
	Warn(taskID, category, msg string)
	Error(taskID, category, msg string)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults + global + project + explicit).
	Load() (*Config, error)

	// Sources returns the config files considered by Load, in merge order.
	Sources() []ConfigInfo
}

// ConfigManager writes configuration files.
type ConfigManager interface {
	// InitGlobal writes a config template to the global config path.
	InitGlobal(cfg *Config) (string, error)

	// InitProject writes a config template to the project config path.
	InitProject(cfg *Config) (string, error)
}

// ConfigInfo describes a config file location.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
