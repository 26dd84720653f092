package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/promptdesk/internal/domain"
)

// SubmitReplyInput contains the parameters for replying to a task.
type SubmitReplyInput struct {
	TaskID string // Task being replied to (required)
	Text   string // Reply text, trimmed before sending
}

// SubmitReplyOutput contains the result of a reply.
type SubmitReplyOutput struct {
	Next *domain.Task // Next task, nil if the queue is drained
}

// SubmitReply is the use case for sending a text reply.
type SubmitReply struct {
	submitter domain.TaskSubmitter
	logger    domain.Logger
}

// NewSubmitReply creates a new SubmitReply use case.
func NewSubmitReply(submitter domain.TaskSubmitter, logger domain.Logger) *SubmitReply {
	return &SubmitReply{
		submitter: submitter,
		logger:    logger,
	}
}

// Execute sends the reply and returns the next task.
// Whether the task id is still valid is for the backend to decide.
func (uc *SubmitReply) Execute(ctx context.Context, in SubmitReplyInput) (*SubmitReplyOutput, error) {
	if in.TaskID == "" {
		return nil, domain.ErrNoCurrentTask
	}

	next, err := uc.submitter.SubmitResponse(ctx, domain.NewTextReply(in.TaskID, in.Text))
	if err != nil {
		if uc.logger != nil {
			uc.logger.Warn(in.TaskID, "submit", err.Error())
		}
		return nil, fmt.Errorf("submit reply: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(in.TaskID, "submit", "reply recorded")
	}

	return &SubmitReplyOutput{Next: next}, nil
}
