package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"net/url"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings   []string         `toml:"-"`          // Unknown keys found while loading
	Backend    BackendConfig    `toml:"backend"`    // [backend] settings
	Prompt     PromptConfig     `toml:"prompt"`     // [prompt] settings
	Log        LogConfig        `toml:"log"`        // [log] settings
	Transcript TranscriptConfig `toml:"transcript"` // [transcript] settings
}

// BackendConfig holds the task queue endpoint settings from [backend].
type BackendConfig struct {
	URL            string `toml:"url"`             // Base URL of the backend
	TaskType       string `toml:"task_type"`       // Task type requested from new_task
	TimeoutSeconds int    `toml:"timeout_seconds"` // Per-request timeout
}

// Timeout returns the per-request timeout as a duration.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// PromptConfig holds the texts and length markers shown next to the editor.
// The markers only drive presentation; they never block a submission.
type PromptConfig struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Heading     string `toml:"heading"`
	Placeholder string `toml:"placeholder"`
	Low         int    `toml:"low"`
	Medium      int    `toml:"medium"`
	Goal        int    `toml:"goal"`
}

// LogConfig holds logging settings from [log].
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// TranscriptConfig holds session transcript settings from [transcript].
type TranscriptConfig struct {
	Dir string `toml:"dir"` // Empty disables transcript export
}

// Default configuration values.
const (
	DefaultBackendURL     = "http://localhost:3000"
	DefaultTaskType       = "initial_prompt"
	DefaultTimeoutSeconds = 30
	DefaultLogLevel       = "info"

	DefaultPromptTitle       = "Start a conversation"
	DefaultPromptDescription = "Create an initial message to send to the assistant"
	DefaultPromptHeading     = "Provide the initial prompt"
	DefaultPromptPlaceholder = "Question, task, greeting or similar..."
	DefaultLowThreshold      = 20
	DefaultMediumThreshold   = 40
	DefaultGoalThreshold     = 50
)

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:            DefaultBackendURL,
			TaskType:       DefaultTaskType,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Prompt: PromptConfig{
			Title:       DefaultPromptTitle,
			Description: DefaultPromptDescription,
			Heading:     DefaultPromptHeading,
			Placeholder: DefaultPromptPlaceholder,
			Low:         DefaultLowThreshold,
			Medium:      DefaultMediumThreshold,
			Goal:        DefaultGoalThreshold,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Validate checks values that would make the client unusable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: backend.url %q is not an absolute URL", ErrInvalidConfig, c.Backend.URL)
	}
	if c.Backend.TaskType == "" {
		return fmt.Errorf("%w: backend.task_type is empty", ErrInvalidConfig)
	}
	if c.Backend.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: backend.timeout_seconds must be positive", ErrInvalidConfig)
	}
	p := c.Prompt
	if p.Low < 0 || p.Low > p.Medium || p.Medium > p.Goal {
		return fmt.Errorf("%w: prompt thresholds must satisfy 0 <= low <= medium <= goal", ErrInvalidConfig)
	}
	return nil
}

// LengthLevel classifies a draft length against the prompt markers.
type LengthLevel int

// Length levels, from shortest to longest.
const (
	LengthNone LengthLevel = iota
	LengthLow
	LengthMedium
	LengthGoal
)

// Level returns the marker reached by a draft of n characters.
func (p PromptConfig) Level(n int) LengthLevel {
	switch {
	case n >= p.Goal && p.Goal > 0:
		return LengthGoal
	case n >= p.Medium && p.Medium > 0:
		return LengthMedium
	case n >= p.Low && p.Low > 0:
		return LengthLow
	default:
		return LengthNone
	}
}

// RenderConfigTemplate renders a commented config file from cfg.
func RenderConfigTemplate(cfg *Config) string {
	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		// Should never happen with valid data
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}

	return buf.String()
}
