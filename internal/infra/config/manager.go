package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runoshun/promptdesk/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager writes configuration files.
type Manager struct {
	projectDir    string // Working directory holding .promptdesk.toml
	globalConfDir string // Path to global config directory (e.g., ~/.config/promptdesk)
}

// NewManager creates a new Manager.
func NewManager(projectDir string) *Manager {
	return &Manager{
		projectDir:    projectDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(projectDir, globalConfDir string) *Manager {
	return &Manager{
		projectDir:    projectDir,
		globalConfDir: globalConfDir,
	}
}

// InitGlobal writes a config template to the global config path.
func (m *Manager) InitGlobal(cfg *domain.Config) (string, error) {
	if m.globalConfDir == "" {
		return "", errors.New("cannot determine global config directory")
	}
	return writeTemplate(filepath.Join(m.globalConfDir, domain.ConfigFileName), cfg)
}

// InitProject writes a config template to the project config path.
func (m *Manager) InitProject(cfg *domain.Config) (string, error) {
	return writeTemplate(domain.ProjectConfigPath(m.projectDir), cfg)
}

// writeTemplate renders cfg to path, refusing to overwrite an existing file.
func writeTemplate(path string, cfg *domain.Config) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, domain.ErrConfigExists
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return path, fmt.Errorf("create config directory: %w", err)
	}
	content := domain.RenderConfigTemplate(cfg)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return path, fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
