// Package domain contains the core types and ports of promptdesk.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Task is one unit of work issued by the backend queue.
// Only ID is interpreted by the client. Type and Hint are decoded for display,
// and the complete payload is kept in Raw exactly as received.
// Fields are ordered to minimize memory padding.
type Task struct {
	Raw  json.RawMessage `json:"-"`              // Payload as received from the backend
	ID   string          `json:"id"`             // Backend-assigned identifier (immutable)
	Type string          `json:"type,omitempty"` // Task type, e.g. "initial_prompt"
	Hint string          `json:"hint,omitempty"` // Optional hint shown above the editor
}

// UnmarshalJSON decodes the known fields and keeps a copy of the raw payload.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Task(p)
	t.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON returns the raw payload when one is present, so a task
// round-trips unchanged.
func (t Task) MarshalJSON() ([]byte, error) {
	if len(t.Raw) > 0 {
		return t.Raw, nil
	}
	type plain Task
	return json.Marshal(plain(t))
}

// Validate checks the minimum contract of a task.
func (t *Task) Validate() error {
	if t.ID == "" {
		return ErrInvalidTask
	}
	return nil
}

// Fields decodes the raw payload into a generic map.
// Tasks built in code without a raw payload return their known fields.
func (t *Task) Fields() (map[string]any, error) {
	data, err := t.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("decode task %s: %w", t.ID, err)
	}
	return fields, nil
}

// DecodeTask decodes a backend response body into a task.
// An empty body or a JSON null is the "no task" signal and returns (nil, nil).
func DecodeTask(body []byte) (*Task, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var task Task
	if err := json.Unmarshal(trimmed, &task); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return &task, nil
}

// TaskHistory is the ordered list of tasks received during a session.
// The last element is the current task. It only grows.
type TaskHistory struct {
	tasks []*Task
}

// Append adds a task as the new current task.
func (h *TaskHistory) Append(task *Task) {
	h.tasks = append(h.tasks, task)
}

// Len returns the number of tasks received so far.
func (h *TaskHistory) Len() int {
	return len(h.tasks)
}

// Current returns the most recently appended task, or nil if there is none.
func (h *TaskHistory) Current() *Task {
	if len(h.tasks) == 0 {
		return nil
	}
	return h.tasks[len(h.tasks)-1]
}

// Tasks returns a copy of the history in insertion order.
func (h *TaskHistory) Tasks() []*Task {
	out := make([]*Task, len(h.tasks))
	copy(out, h.tasks)
	return out
}
