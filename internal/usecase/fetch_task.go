// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/promptdesk/internal/domain"
)

// FetchTaskInput contains the parameters for fetching a task.
type FetchTaskInput struct{}

// FetchTaskOutput contains the fetched task.
type FetchTaskOutput struct {
	Task *domain.Task
}

// FetchTask is the use case for requesting one task from the queue.
type FetchTask struct {
	fetcher domain.TaskFetcher
	logger  domain.Logger
}

// NewFetchTask creates a new FetchTask use case.
func NewFetchTask(fetcher domain.TaskFetcher, logger domain.Logger) *FetchTask {
	return &FetchTask{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Execute fetches a task. It returns domain.ErrEmptyQueue if none is available.
func (uc *FetchTask) Execute(ctx context.Context, _ FetchTaskInput) (*FetchTaskOutput, error) {
	task, err := uc.fetcher.FetchNewTask(ctx)
	if err != nil {
		if uc.logger != nil {
			uc.logger.Warn("", "fetch", err.Error())
		}
		return nil, fmt.Errorf("fetch task: %w", err)
	}
	if task == nil {
		return nil, domain.ErrEmptyQueue
	}

	if uc.logger != nil {
		uc.logger.Info(task.ID, "fetch", "task received")
	}

	return &FetchTaskOutput{Task: task}, nil
}
