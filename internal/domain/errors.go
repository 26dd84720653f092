package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrEmptyQueue    = errors.New("no tasks available")
	ErrRequestFailed = errors.New("request failed")
	ErrInvalidTask   = errors.New("task has no id")
	ErrNoCurrentTask = errors.New("no current task")
	ErrConfigExists  = errors.New("config file already exists")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// RequestError describes a failed call to the backend.
// It matches ErrRequestFailed with errors.Is.
// Fields are ordered to minimize memory padding.
type RequestError struct {
	Err        error  // Underlying cause (transport, decode, ...)
	Op         string // Operation name, e.g. "fetch task"
	Body       string // Truncated response body, if any
	StatusCode int    // HTTP status, 0 when no response was received
}

func (e *RequestError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: backend returned %d", e.Op, e.StatusCode)
	default:
		return e.Op + ": " + ErrRequestFailed.Error()
	}
}

// Unwrap returns the underlying cause.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrRequestFailed.
func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}
