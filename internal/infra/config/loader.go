// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/promptdesk/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	projectDir    string // Working directory holding .promptdesk.toml
	globalConfDir string // Path to global config directory (e.g., ~/.config/promptdesk)
	explicitPath  string // File given with --config, must exist when set
}

// NewLoader creates a new Loader.
func NewLoader(projectDir, explicitPath string) *Loader {
	return &Loader{
		projectDir:    projectDir,
		globalConfDir: defaultGlobalConfigDir(),
		explicitPath:  explicitPath,
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(projectDir, explicitPath, globalConfDir string) *Loader {
	return &Loader{
		projectDir:    projectDir,
		globalConfDir: globalConfDir,
		explicitPath:  explicitPath,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// paths returns the candidate config files in merge order.
func (l *Loader) paths() []string {
	var paths []string
	if l.globalConfDir != "" {
		paths = append(paths, filepath.Join(l.globalConfDir, domain.ConfigFileName))
	}
	if l.projectDir != "" {
		paths = append(paths, domain.ProjectConfigPath(l.projectDir))
	}
	if l.explicitPath != "" {
		paths = append(paths, l.explicitPath)
	}
	return paths
}

// Sources returns the config files considered by Load, in merge order.
func (l *Loader) Sources() []domain.ConfigInfo {
	paths := l.paths()
	infos := make([]domain.ConfigInfo, 0, len(paths))
	for _, p := range paths {
		infos = append(infos, readConfigInfo(p))
	}
	return infos
}

// Load returns the merged configuration.
// Later files take precedence: default <- global <- project <- explicit.
func (l *Loader) Load() (*domain.Config, error) {
	base := domain.NewDefaultConfig()
	for _, path := range l.paths() {
		cfg, err := loadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) && path != l.explicitPath {
				continue
			}
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		base = mergeConfigs(base, cfg)
	}
	return base, nil
}

// loadFile loads a configuration from a file.
func loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	return convertRawToDomainConfig(raw), nil
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
// Zero values mean "not set" and are skipped when merging.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown key: %s", section))
			continue
		}
		switch section {
		case "backend":
			for k, v := range m {
				switch k {
				case "url":
					res.Backend.URL = asString(v)
				case "task_type":
					res.Backend.TaskType = asString(v)
				case "timeout_seconds":
					res.Backend.TimeoutSeconds = asInt(v)
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [backend]: %s", k))
				}
			}
		case "prompt":
			for k, v := range m {
				switch k {
				case "title":
					res.Prompt.Title = asString(v)
				case "description":
					res.Prompt.Description = asString(v)
				case "heading":
					res.Prompt.Heading = asString(v)
				case "placeholder":
					res.Prompt.Placeholder = asString(v)
				case "low":
					res.Prompt.Low = asInt(v)
				case "medium":
					res.Prompt.Medium = asInt(v)
				case "goal":
					res.Prompt.Goal = asInt(v)
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [prompt]: %s", k))
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					res.Log.Level = asString(v)
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [log]: %s", k))
				}
			}
		case "transcript":
			for k, v := range m {
				switch k {
				case "dir":
					res.Transcript.Dir = asString(v)
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [transcript]: %s", k))
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asInt accepts the int64 values produced by the TOML decoder.
func asInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := *base
	result.Warnings = append(append([]string{}, base.Warnings...), override.Warnings...)

	mergeString(&result.Backend.URL, override.Backend.URL)
	mergeString(&result.Backend.TaskType, override.Backend.TaskType)
	mergeInt(&result.Backend.TimeoutSeconds, override.Backend.TimeoutSeconds)

	mergeString(&result.Prompt.Title, override.Prompt.Title)
	mergeString(&result.Prompt.Description, override.Prompt.Description)
	mergeString(&result.Prompt.Heading, override.Prompt.Heading)
	mergeString(&result.Prompt.Placeholder, override.Prompt.Placeholder)
	mergeInt(&result.Prompt.Low, override.Prompt.Low)
	mergeInt(&result.Prompt.Medium, override.Prompt.Medium)
	mergeInt(&result.Prompt.Goal, override.Prompt.Goal)

	mergeString(&result.Log.Level, override.Log.Level)
	mergeString(&result.Transcript.Dir, override.Transcript.Dir)

	return &result
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

// readConfigInfo reads a config file and returns its info.
func readConfigInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{
			Path:   path,
			Exists: false,
		}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}
