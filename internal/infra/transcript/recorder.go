// Package transcript records what happened to each task of a session and
// writes it as YAML when the session ends.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/runoshun/promptdesk/internal/domain"
	"github.com/runoshun/promptdesk/internal/workflow"
	"gopkg.in/yaml.v3"
)

// Ensure Recorder implements workflow.Observer.
var _ workflow.Observer = (*Recorder)(nil)

// Outcome is how a task was left.
type Outcome string

// Task outcomes.
const (
	OutcomeOpen    Outcome = "open"    // Still current when the session ended
	OutcomeReplied Outcome = "replied" // A reply was submitted
	OutcomeSkipped Outcome = "skipped" // Skipped without a reply
)

// Entry is one task in the transcript.
// Fields are ordered to minimize memory padding.
type Entry struct {
	Received time.Time      `yaml:"received"`
	Payload  map[string]any `yaml:"payload,omitempty"`
	ID       string         `yaml:"id"`
	Via      string         `yaml:"via"`
	Outcome  Outcome        `yaml:"outcome"`
}

// Transcript is the document written at the end of a session.
type Transcript struct {
	Started  time.Time `yaml:"started"`
	Finished time.Time `yaml:"finished"`
	Session  string    `yaml:"session"`
	Backend  string    `yaml:"backend"`
	Tasks    []Entry   `yaml:"tasks"`
}

// Recorder builds a Transcript from workflow events.
// It is driven by the controller's event loop and is not safe for concurrent use.
type Recorder struct {
	clock domain.Clock
	doc   Transcript
	index map[string]int
}

// NewRecorder creates a Recorder for a session.
func NewRecorder(sessionID, backendURL string, clock domain.Clock) *Recorder {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Recorder{
		clock: clock,
		doc: Transcript{
			Session: sessionID,
			Backend: backendURL,
			Started: clock.Now(),
		},
		index: make(map[string]int),
	}
}

// Observe records a completed request.
func (r *Recorder) Observe(ev workflow.Event) {
	if ev.Previous != nil {
		switch ev.Kind {
		case workflow.RequestSubmit:
			r.mark(ev.Previous.ID, OutcomeReplied)
		case workflow.RequestSkip:
			r.mark(ev.Previous.ID, OutcomeSkipped)
		}
	}
	if ev.Task == nil {
		return
	}
	payload, err := ev.Task.Fields()
	if err != nil {
		payload = nil
	}
	r.index[ev.Task.ID] = len(r.doc.Tasks)
	r.doc.Tasks = append(r.doc.Tasks, Entry{
		ID:       ev.Task.ID,
		Received: r.clock.Now(),
		Via:      ev.Kind.String(),
		Outcome:  OutcomeOpen,
		Payload:  payload,
	})
}

func (r *Recorder) mark(taskID string, outcome Outcome) {
	if i, ok := r.index[taskID]; ok {
		r.doc.Tasks[i].Outcome = outcome
	}
}

// Transcript returns the transcript recorded so far.
func (r *Recorder) Transcript() Transcript {
	doc := r.doc
	doc.Tasks = append([]Entry(nil), r.doc.Tasks...)
	return doc
}

// WriteFile stamps the finish time and writes the transcript into dir.
// It returns the written path.
func (r *Recorder) WriteFile(dir string) (string, error) {
	r.doc.Finished = r.clock.Now()
	data, err := yaml.Marshal(&r.doc)
	if err != nil {
		return "", fmt.Errorf("encode transcript: %w", err)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create transcript directory: %w", err)
	}
	path := domain.TranscriptPath(dir, r.doc.Session)
	if err := os.WriteFile(filepath.Clean(path), data, 0o600); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}
