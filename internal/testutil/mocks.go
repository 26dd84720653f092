// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/promptdesk/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Response is one scripted backend answer.
// A nil Task with a nil Err is an empty queue.
type Response struct {
	Task *domain.Task
	Err  error
}

// MockQueue is a test double for domain.TaskQueue.
// Fetches and submissions pop from separate scripted queues; when a script is
// exhausted the call answers with an empty queue.
// Fields are ordered to minimize memory padding.
type MockQueue struct {
	Fetches     []Response
	Submits     []Response
	Submitted   []domain.SubmissionRequest
	mu          sync.Mutex
	FetchCalls  int
	SubmitCalls int
}

// NewMockQueue creates a new MockQueue.
func NewMockQueue() *MockQueue {
	return &MockQueue{}
}

// OnFetch appends scripted fetch answers.
func (m *MockQueue) OnFetch(rs ...Response) *MockQueue {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fetches = append(m.Fetches, rs...)
	return m
}

// OnSubmit appends scripted submit answers.
func (m *MockQueue) OnSubmit(rs ...Response) *MockQueue {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Submits = append(m.Submits, rs...)
	return m
}

// FetchNewTask pops the next scripted fetch answer.
func (m *MockQueue) FetchNewTask(ctx context.Context) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchCalls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(m.Fetches) == 0 {
		return nil, nil
	}
	r := m.Fetches[0]
	m.Fetches = m.Fetches[1:]
	return r.Task, r.Err
}

// SubmitResponse records the request and pops the next scripted submit answer.
func (m *MockQueue) SubmitResponse(ctx context.Context, req domain.SubmissionRequest) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubmitCalls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.Submitted = append(m.Submitted, req)
	if len(m.Submits) == 0 {
		return nil, nil
	}
	r := m.Submits[0]
	m.Submits = m.Submits[1:]
	return r.Task, r.Err
}

// Task returns a task with the given id.
func Task(id string) *domain.Task {
	return &domain.Task{ID: id, Type: "initial_prompt"}
}

// Found is a Response carrying a task with the given id.
func Found(id string) Response {
	return Response{Task: Task(id)}
}

// Failed is a Response carrying a backend failure.
func Failed(status int) Response {
	return Response{Err: &domain.RequestError{Op: "mock", StatusCode: status, Body: fmt.Sprintf("status %d", status)}}
}

// Empty is a Response for an empty queue.
func Empty() Response {
	return Response{}
}

// LogEntry is one entry captured by MockLogger.
type LogEntry struct {
	Level    string
	TaskID   string
	Category string
	Msg      string
}

// MockLogger is a test double for domain.Logger that keeps every entry.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (m *MockLogger) add(level, taskID, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, TaskID: taskID, Category: category, Msg: msg})
}

// Debug records a debug entry.
func (m *MockLogger) Debug(taskID, category, msg string) { m.add("debug", taskID, category, msg) }

// Info records an info entry.
func (m *MockLogger) Info(taskID, category, msg string) { m.add("info", taskID, category, msg) }

// Warn records a warning entry.
func (m *MockLogger) Warn(taskID, category, msg string) { m.add("warn", taskID, category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(taskID, category, msg string) { m.add("error", taskID, category, msg) }

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config *domain.Config
	Err    error
	Infos  []domain.ConfigInfo
}

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Config == nil {
		return domain.NewDefaultConfig(), nil
	}
	return m.Config, nil
}

// Sources returns the configured file infos.
func (m *MockConfigLoader) Sources() []domain.ConfigInfo {
	return m.Infos
}
