package domain

import "strings"

// UpdateType identifies the kind of update sent for a task.
type UpdateType string

// Update types understood by the backend.
const (
	UpdateTextReply UpdateType = "text_reply_to_message"
)

// IsValid returns true if the update type is known.
func (u UpdateType) IsValid() bool {
	return u == UpdateTextReply
}

// ReplyContent is the content of a text reply.
type ReplyContent struct {
	Text string `json:"text"`
}

// SubmissionRequest is the body of an update_task call.
// It is built at submit time and never stored.
type SubmissionRequest struct {
	Content    ReplyContent `json:"content"`
	TaskID     string       `json:"id"`
	UpdateType UpdateType   `json:"update_type"`
}

// NewTextReply builds a text reply for taskID.
// The draft is trimmed here and nowhere else; an empty reply is allowed.
func NewTextReply(taskID, draft string) SubmissionRequest {
	return SubmissionRequest{
		TaskID:     taskID,
		UpdateType: UpdateTextReply,
		Content:    ReplyContent{Text: strings.TrimSpace(draft)},
	}
}
