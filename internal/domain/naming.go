package domain

import (
	"fmt"
	"path/filepath"
)

// Directory and file names for promptdesk.
const (
	AppDirName            = "promptdesk"       // Directory name under XDG config/state homes
	ConfigFileName        = "config.toml"      // Global config file name
	ProjectConfigFileName = ".promptdesk.toml" // Config file name in the working directory
	LogFileName           = "promptdesk.log"   // Log file name
	transcriptFilePattern = "session-%s.yaml"  // Transcript file name, %s = session id
)

// GlobalConfigDir returns the global config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalConfigDir(configHome), ConfigFileName)
}

// ProjectConfigPath returns the project config path for a working directory.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ProjectConfigFileName)
}

// StateDir returns the state directory.
// stateHome is typically XDG_STATE_HOME or ~/.local/state (resolved by caller).
func StateDir(stateHome string) string {
	return filepath.Join(stateHome, AppDirName)
}

// LogPath returns the path to the log file.
func LogPath(stateDir string) string {
	return filepath.Join(stateDir, "logs", LogFileName)
}

// TranscriptPath returns the path of the transcript for a session.
func TranscriptPath(dir, sessionID string) string {
	return filepath.Join(dir, fmt.Sprintf(transcriptFilePattern, sessionID))
}

// TaskEndpoint returns the path used to request a new task of taskType.
func TaskEndpoint(taskType string) string {
	return "/api/new_task/" + taskType
}

// UpdateEndpoint is the path used to submit task updates.
const UpdateEndpoint = "/api/update_task"
