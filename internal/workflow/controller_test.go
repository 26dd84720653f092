package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/runoshun/promptdesk/internal/domain"
	"github.com/runoshun/promptdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ready returns a controller that has already received the given task.
func ready(t *testing.T, q *testutil.MockQueue, firstID string, opts ...Option) *Controller {
	t.Helper()
	q.Fetches = append([]testutil.Response{testutil.Found(firstID)}, q.Fetches...)
	c := New(q, q, opts...)
	req := c.Activate()
	require.NotNil(t, req)
	require.True(t, c.Apply(req.Run()))
	require.Equal(t, StateReady, c.State())
	return c
}

func historyIDs(c *Controller) []string {
	var ids []string
	for _, task := range c.History() {
		ids = append(ids, task.ID)
	}
	return ids
}

func TestController_Activate_FetchesFirstTask(t *testing.T) {
	q := testutil.NewMockQueue().OnFetch(testutil.Found("t1"))
	c := New(q, q)
	assert.Equal(t, StateEmpty, c.State())

	req := c.Activate()
	require.NotNil(t, req)
	assert.Equal(t, RequestFetch, req.Kind)
	assert.Equal(t, StateLoading, c.State())
	assert.True(t, c.Snapshot().IsLoading)

	assert.True(t, c.Apply(req.Run()))

	assert.Equal(t, StateReady, c.State())
	assert.Equal(t, []string{"t1"}, historyIDs(c))
	require.NotNil(t, c.Current())
	assert.Equal(t, "t1", c.Current().ID)
	assert.Equal(t, 1, q.FetchCalls)
}

func TestController_Activate_OnlyOnce(t *testing.T) {
	q := testutil.NewMockQueue().OnFetch(testutil.Empty())
	c := New(q, q)

	req := c.Activate()
	require.NotNil(t, req)
	c.Apply(req.Run())

	// History is still empty, but the bootstrap fetch must not repeat.
	assert.Nil(t, c.Activate())
	assert.Nil(t, c.Activate())
	assert.Equal(t, 1, q.FetchCalls)
}

func TestController_Fetch_EmptyQueue(t *testing.T) {
	q := testutil.NewMockQueue().OnFetch(testutil.Empty())
	c := New(q, q)

	req := c.Activate()
	require.NotNil(t, req)
	assert.True(t, c.Apply(req.Run()))

	assert.Equal(t, StateEmpty, c.State())
	assert.Empty(t, c.History())
	assert.Nil(t, c.Current())
	assert.NoError(t, c.Err())
}

func TestController_Retry_AfterEmptyQueue(t *testing.T) {
	q := testutil.NewMockQueue().OnFetch(testutil.Empty(), testutil.Found("t1"))
	c := New(q, q)
	c.Apply(c.Activate().Run())
	require.Equal(t, StateEmpty, c.State())

	req := c.Retry()
	require.NotNil(t, req)
	assert.True(t, c.Apply(req.Run()))

	assert.Equal(t, StateReady, c.State())
	assert.Equal(t, []string{"t1"}, historyIDs(c))
}

func TestController_Retry_IgnoredWhenReady(t *testing.T) {
	q := testutil.NewMockQueue()
	c := ready(t, q, "t1")

	assert.Nil(t, c.Retry())
	assert.Equal(t, StateReady, c.State())
}

func TestController_Activate_FailureStaysEmpty(t *testing.T) {
	q := testutil.NewMockQueue().OnFetch(testutil.Failed(500))
	c := New(q, q)

	c.Apply(c.Activate().Run())

	assert.Equal(t, StateEmpty, c.State())
	assert.Empty(t, c.History())
	require.Error(t, c.Err())
	assert.ErrorIs(t, c.Err(), domain.ErrRequestFailed)
	assert.NotNil(t, c.Retry(), "retry must be possible after a failed bootstrap")
}

func TestController_Submit_AppendsNextTaskAndClearsDraft(t *testing.T) {
	q := testutil.NewMockQueue().OnSubmit(testutil.Found("t2"))
	c := ready(t, q, "t1")
	c.SetDraft("hello")

	req := c.Submit()
	require.NotNil(t, req)
	assert.Equal(t, RequestSubmit, req.Kind)
	assert.Equal(t, "t1", req.TaskID)
	assert.True(t, c.Apply(req.Run()))

	assert.Equal(t, []string{"t1", "t2"}, historyIDs(c))
	assert.Equal(t, "", c.Draft())
	assert.Equal(t, StateReady, c.State())

	require.Len(t, q.Submitted, 1)
	assert.Equal(t, domain.SubmissionRequest{
		TaskID:     "t1",
		UpdateType: domain.UpdateTextReply,
		Content:    domain.ReplyContent{Text: "hello"},
	}, q.Submitted[0])
	assert.Equal(t, 1, q.FetchCalls, "submit must not trigger a separate fetch")
}

func TestController_Submit_TrimsDraft(t *testing.T) {
	q := testutil.NewMockQueue().OnSubmit(testutil.Found("t2"))
	c := ready(t, q, "t1")
	c.SetDraft("  \n hello world \t\n")

	c.Apply(c.Submit().Run())

	require.Len(t, q.Submitted, 1)
	assert.Equal(t, "hello world", q.Submitted[0].Content.Text)
}

func TestController_Submit_EmptyDraftAllowed(t *testing.T) {
	q := testutil.NewMockQueue().OnSubmit(testutil.Found("t2"))
	c := ready(t, q, "t1")

	req := c.Submit()
	require.NotNil(t, req)
	c.Apply(req.Run())

	require.Len(t, q.Submitted, 1)
	assert.Equal(t, "", q.Submitted[0].Content.Text)
	assert.Equal(t, []string{"t1", "t2"}, historyIDs(c))
}

func TestController_Submit_FailurePreservesState(t *testing.T) {
	q := testutil.NewMockQueue().OnSubmit(testutil.Failed(409), testutil.Found("t2"))
	c := ready(t, q, "t1")
	c.SetDraft("keep me")

	c.Apply(c.Submit().Run())

	assert.Equal(t, StateReady, c.State())
	assert.Equal(t, []string{"t1"}, historyIDs(c))
	assert.Equal(t, "t1", c.Current().ID)
	assert.Equal(t, "keep me", c.Draft())
	assert.ErrorIs(t, c.Err(), domain.ErrRequestFailed)

	// The same input can be retried.
	c.Apply(c.Submit().Run())
	assert.NoError(t, c.Err())
	assert.Equal(t, []string{"t1", "t2"}, historyIDs(c))
	require.Len(t, q.Submitted, 2)
	assert.Equal(t, q.Submitted[0], q.Submitted[1])
}

func TestController_Submit_QueueDrained(t *testing.T) {
	q := testutil.NewMockQueue().OnSubmit(testutil.Empty())
	c := ready(t, q, "t1")
	c.SetDraft("last one")

	c.Apply(c.Submit().Run())

	assert.Equal(t, StateEmpty, c.State())
	assert.Equal(t, []string{"t1"}, historyIDs(c))
	assert.Nil(t, c.Current())
	assert.Equal(t, "", c.Draft())
}

func TestController_Skip_FetchesWithoutSendingDraft(t *testing.T) {
	q := testutil.NewMockQueue().OnFetch(testutil.Found("t3"))
	c := ready(t, q, "t1")
	c.SetDraft("draft")

	req := c.Skip()
	require.NotNil(t, req)
	assert.Equal(t, RequestSkip, req.Kind)
	c.Apply(req.Run())

	assert.Equal(t, []string{"t1", "t3"}, historyIDs(c))
	assert.Equal(t, "", c.Draft())
	assert.Equal(t, 0, q.SubmitCalls)
	assert.Empty(t, q.Submitted)
}

func TestController_Skip_FailurePreservesDraft(t *testing.T) {
	q := testutil.NewMockQueue().OnFetch(testutil.Failed(502))
	c := ready(t, q, "t1")
	c.SetDraft("draft")

	c.Apply(c.Skip().Run())

	assert.Equal(t, StateReady, c.State())
	assert.Equal(t, "draft", c.Draft())
	assert.Equal(t, "t1", c.Current().ID)
	assert.Error(t, c.Err())
}

func TestController_Skip_EmptyQueue(t *testing.T) {
	q := testutil.NewMockQueue().OnFetch(testutil.Empty())
	c := ready(t, q, "t1")
	c.SetDraft("draft")

	c.Apply(c.Skip().Run())

	assert.Equal(t, StateEmpty, c.State())
	assert.Equal(t, []string{"t1"}, historyIDs(c))
	assert.Nil(t, c.Current())
	assert.Equal(t, "", c.Draft())
}

func TestController_TriggersIgnoredWhileLoading(t *testing.T) {
	q := testutil.NewMockQueue().OnSubmit(testutil.Found("t2"))
	c := ready(t, q, "t1")
	c.SetDraft("hello")

	req := c.Submit()
	require.NotNil(t, req)

	assert.Nil(t, c.Submit())
	assert.Nil(t, c.Skip())
	assert.Nil(t, c.Retry())
	assert.Nil(t, c.Activate())

	c.Apply(req.Run())
	assert.Equal(t, 1, q.SubmitCalls)
	assert.Equal(t, 1, q.FetchCalls)
}

func TestController_SubmitIgnoredWhenEmpty(t *testing.T) {
	q := testutil.NewMockQueue()
	c := New(q, q)

	assert.Nil(t, c.Submit())
	assert.Nil(t, c.Skip())
	assert.Equal(t, StateEmpty, c.State())
}

func TestController_CurrentDuringLoading(t *testing.T) {
	q := testutil.NewMockQueue().OnSubmit(testutil.Found("t2"))
	c := ready(t, q, "t1")

	req := c.Submit()
	snap := c.Snapshot()
	assert.True(t, snap.IsLoading)
	require.NotNil(t, snap.CurrentTask)
	assert.Equal(t, "t1", snap.CurrentTask.ID)

	c.Apply(req.Run())
	assert.Equal(t, "t2", c.Snapshot().CurrentTask.ID)
}

func TestController_Apply_DropsUnknownResult(t *testing.T) {
	q := testutil.NewMockQueue()
	c := ready(t, q, "t1")

	ok := c.Apply(Result{RequestID: 99, Kind: RequestFetch, Task: testutil.Task("x")})

	assert.False(t, ok)
	assert.Equal(t, []string{"t1"}, historyIDs(c))
}

func TestController_Apply_DropsDuplicateResult(t *testing.T) {
	q := testutil.NewMockQueue().OnSubmit(testutil.Found("t2"))
	c := ready(t, q, "t1")

	res := c.Submit().Run()
	assert.True(t, c.Apply(res))
	assert.False(t, c.Apply(res))
	assert.Equal(t, []string{"t1", "t2"}, historyIDs(c))
}

func TestController_Teardown_DropsInFlightResult(t *testing.T) {
	q := testutil.NewMockQueue().OnSubmit(testutil.Found("t2"))
	c := ready(t, q, "t1")
	c.SetDraft("hello")

	req := c.Submit()
	c.Teardown()
	res := req.Run()

	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.False(t, c.Apply(res))
	assert.Equal(t, []string{"t1"}, historyIDs(c))
	assert.Equal(t, "hello", c.Draft())
	assert.Nil(t, c.Submit(), "no triggers after teardown")
}

func TestController_Run_RejectsTaskWithoutID(t *testing.T) {
	q := testutil.NewMockQueue().OnFetch(testutil.Response{Task: &domain.Task{}})
	c := New(q, q)

	c.Apply(c.Activate().Run())

	assert.Equal(t, StateEmpty, c.State())
	assert.Empty(t, c.History())
	assert.ErrorIs(t, c.Err(), domain.ErrRequestFailed)
	assert.ErrorIs(t, c.Err(), domain.ErrInvalidTask)
}

func TestController_HistoryGrowsByOnePerSuccess(t *testing.T) {
	q := testutil.NewMockQueue().
		OnFetch(testutil.Found("t2"), testutil.Failed(500), testutil.Found("t4")).
		OnSubmit(testutil.Found("t3"), testutil.Failed(500), testutil.Found("t5"))
	c := ready(t, q, "t1")

	steps := []func() *Request{c.Skip, c.Submit, c.Skip, c.Submit, c.Skip, c.Submit}
	prev := c.History()
	for i, step := range steps {
		req := step()
		require.NotNil(t, req, "step %d", i)
		res := req.Run()
		c.Apply(res)

		got := c.History()
		if res.Err == nil {
			assert.Len(t, got, len(prev)+1, "step %d", i)
		} else {
			assert.Len(t, got, len(prev), "step %d", i)
		}
		assert.Equal(t, prev, got[:len(prev)], "history is append-only (step %d)", i)
		prev = got
	}
	assert.Equal(t, []string{"t1", "t2", "t3", "t4", "t5"}, historyIDs(c))
}

func TestController_Observer(t *testing.T) {
	var events []Event
	obs := ObserverFunc(func(ev Event) { events = append(events, ev) })
	q := testutil.NewMockQueue().
		OnFetch(testutil.Found("t1"), testutil.Found("t3")).
		OnSubmit(testutil.Found("t2"), testutil.Failed(500))
	c := New(q, q, WithObserver(obs))

	c.Apply(c.Activate().Run())
	c.Apply(c.Submit().Run())
	c.Apply(c.Skip().Run())
	c.Apply(c.Submit().Run()) // failure is not observed

	require.Len(t, events, 3)
	assert.Equal(t, RequestFetch, events[0].Kind)
	assert.Nil(t, events[0].Previous)
	assert.Equal(t, "t1", events[0].Task.ID)

	assert.Equal(t, RequestSubmit, events[1].Kind)
	assert.Equal(t, "t1", events[1].Previous.ID)
	assert.Equal(t, "t2", events[1].Task.ID)

	assert.Equal(t, RequestSkip, events[2].Kind)
	assert.Equal(t, "t2", events[2].Previous.ID)
	assert.Equal(t, "t3", events[2].Task.ID)
}

func TestController_LogsFailures(t *testing.T) {
	logger := &testutil.MockLogger{}
	q := testutil.NewMockQueue().OnSubmit(testutil.Response{Err: errors.New("connection refused")})
	c := ready(t, q, "t1", WithLogger(logger))

	c.Apply(c.Submit().Run())

	var warned bool
	for _, e := range logger.Entries {
		if e.Level == "warn" && e.TaskID == "t1" && e.Category == "workflow" {
			warned = true
		}
	}
	assert.True(t, warned, "failed submit should be logged as a warning")
}

func TestState_String(t *testing.T) {
	tests := []struct {
		want  string
		state State
	}{
		{"empty", StateEmpty},
		{"loading", StateLoading},
		{"ready", StateReady},
		{"unknown", State(42)},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}
