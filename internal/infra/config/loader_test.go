package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/promptdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoader_Load_Defaults(t *testing.T) {
	// Setup: no config files anywhere
	loader := NewLoaderWithGlobalDir(t.TempDir(), "", t.TempDir())

	// Execute
	cfg, err := loader.Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.NewDefaultConfig(), cfg)
}

func TestLoader_Load_ProjectConfigOnly(t *testing.T) {
	// Setup
	projectDir := t.TempDir()
	globalDir := t.TempDir()
	writeFile(t, domain.ProjectConfigPath(projectDir), `
[backend]
url = "https://queue.example.com"
task_type = "assistant_reply"
timeout_seconds = 5

[prompt]
heading = "Write the reply"
goal = 120

[log]
level = "debug"

[transcript]
dir = "/tmp/transcripts"
`)

	// Execute
	cfg, err := NewLoaderWithGlobalDir(projectDir, "", globalDir).Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://queue.example.com", cfg.Backend.URL)
	assert.Equal(t, "assistant_reply", cfg.Backend.TaskType)
	assert.Equal(t, 5, cfg.Backend.TimeoutSeconds)
	assert.Equal(t, "Write the reply", cfg.Prompt.Heading)
	assert.Equal(t, 120, cfg.Prompt.Goal)
	assert.Equal(t, domain.DefaultMediumThreshold, cfg.Prompt.Medium)
	assert.Equal(t, domain.DefaultPromptTitle, cfg.Prompt.Title)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/transcripts", cfg.Transcript.Dir)
	assert.Empty(t, cfg.Warnings)
}

func TestLoader_Load_GlobalConfigOnly(t *testing.T) {
	// Setup
	projectDir := t.TempDir()
	globalDir := t.TempDir()
	writeFile(t, filepath.Join(globalDir, domain.ConfigFileName), `
[backend]
url = "http://global.example.com"
`)

	// Execute
	cfg, err := NewLoaderWithGlobalDir(projectDir, "", globalDir).Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "http://global.example.com", cfg.Backend.URL)
	assert.Equal(t, domain.DefaultTaskType, cfg.Backend.TaskType)
}

func TestLoader_Load_MergeOrder(t *testing.T) {
	// Setup
	projectDir := t.TempDir()
	globalDir := t.TempDir()
	explicit := filepath.Join(t.TempDir(), "custom.toml")

	writeFile(t, filepath.Join(globalDir, domain.ConfigFileName), `
[backend]
url = "http://global"
task_type = "global_type"
timeout_seconds = 10

[log]
level = "warn"
`)
	writeFile(t, domain.ProjectConfigPath(projectDir), `
[backend]
url = "http://project"
task_type = "project_type"
`)
	writeFile(t, explicit, `
[backend]
url = "http://explicit"
`)

	// Execute
	cfg, err := NewLoaderWithGlobalDir(projectDir, explicit, globalDir).Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "http://explicit", cfg.Backend.URL)       // explicit wins
	assert.Equal(t, "project_type", cfg.Backend.TaskType)     // project over global
	assert.Equal(t, 10, cfg.Backend.TimeoutSeconds)           // only global sets it
	assert.Equal(t, "warn", cfg.Log.Level)                    // only global sets it
	assert.Equal(t, domain.DefaultPromptHeading, cfg.Prompt.Heading)
}

func TestLoader_Load_MissingExplicitFile(t *testing.T) {
	// Setup
	missing := filepath.Join(t.TempDir(), "nope.toml")
	loader := NewLoaderWithGlobalDir(t.TempDir(), missing, t.TempDir())

	// Execute
	_, err := loader.Load()

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), missing)
}

func TestLoader_Load_InvalidTOML(t *testing.T) {
	// Setup
	projectDir := t.TempDir()
	writeFile(t, domain.ProjectConfigPath(projectDir), "[backend\nurl = ")

	// Execute
	_, err := NewLoaderWithGlobalDir(projectDir, "", t.TempDir()).Load()

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ProjectConfigFileName)
}

func TestLoader_Load_UnknownKeysWarn(t *testing.T) {
	// Setup
	projectDir := t.TempDir()
	writeFile(t, domain.ProjectConfigPath(projectDir), `
stray = 1

[backend]
url = "http://localhost:9000"
retries = 3

[theme]
color = "blue"
`)

	// Execute
	cfg, err := NewLoaderWithGlobalDir(projectDir, "", t.TempDir()).Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.Backend.URL)
	assert.Equal(t, []string{
		"unknown key in [backend]: retries",
		"unknown key: stray",
		"unknown section: theme",
	}, cfg.Warnings)
}

func TestLoader_Sources(t *testing.T) {
	// Setup
	projectDir := t.TempDir()
	globalDir := t.TempDir()
	explicit := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, domain.ProjectConfigPath(projectDir), "[log]\nlevel = \"debug\"\n")

	// Execute
	infos := NewLoaderWithGlobalDir(projectDir, explicit, globalDir).Sources()

	// Assert
	require.Len(t, infos, 3)
	assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), infos[0].Path)
	assert.False(t, infos[0].Exists)
	assert.Equal(t, domain.ProjectConfigPath(projectDir), infos[1].Path)
	assert.True(t, infos[1].Exists)
	assert.Equal(t, "[log]\nlevel = \"debug\"\n", infos[1].Content)
	assert.Equal(t, explicit, infos[2].Path)
	assert.False(t, infos[2].Exists)
}

func TestLoader_Load_RenderedTemplateRoundTrips(t *testing.T) {
	// Setup: a rendered template must load back into the same values
	projectDir := t.TempDir()
	want := domain.NewDefaultConfig()
	want.Backend.URL = "https://queue.example.com"
	want.Prompt.Placeholder = `Say "hi"...`
	writeFile(t, domain.ProjectConfigPath(projectDir), domain.RenderConfigTemplate(want))

	// Execute
	cfg, err := NewLoaderWithGlobalDir(projectDir, "", t.TempDir()).Load()

	// Assert
	require.NoError(t, err)
	assert.Empty(t, cfg.Warnings)
	assert.Equal(t, want.Backend, cfg.Backend)
	assert.Equal(t, want.Prompt, cfg.Prompt)
	assert.Equal(t, want.Log, cfg.Log)
}
