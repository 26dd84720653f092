// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/runoshun/promptdesk/internal/domain"
	"github.com/runoshun/promptdesk/internal/infra/backend"
	"github.com/runoshun/promptdesk/internal/infra/config"
	"github.com/runoshun/promptdesk/internal/infra/logging"
	"github.com/runoshun/promptdesk/internal/infra/transcript"
	"github.com/runoshun/promptdesk/internal/usecase"
	"github.com/runoshun/promptdesk/internal/workflow"
)

// Config holds the application paths and session identity.
type Config struct {
	WorkDir   string // Directory searched for .promptdesk.toml
	StateDir  string // Directory for logs (e.g. ~/.local/state/promptdesk)
	SessionID string // Random id sent with every backend request
	Version   string // Reported in the User-Agent header
}

// ConfigureInput carries the command-line overrides applied on top of the
// config files.
type ConfigureInput struct {
	ConfigPath string // Explicit config file (--config)
	BackendURL string // Backend URL override (--url)
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Queue         domain.TaskQueue
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Clock         domain.Clock
	Logger        domain.Logger

	// Effective configuration
	AppConfig *domain.Config

	// Builders used by Configure; nil for containers built with NewWithDeps
	newQueue  func(domain.BackendConfig) domain.TaskQueue
	newLoader func(explicitPath string) domain.ConfigLoader
	logFile   *logging.Logger

	// Configuration
	Config Config
}

// New creates a Container for the given working directory.
// Config files are loaded immediately; Configure applies command-line overrides.
func New(workDir, version string) (*Container, error) {
	cfg := Config{
		WorkDir:   workDir,
		StateDir:  defaultStateDir(),
		SessionID: uuid.NewString(),
		Version:   version,
	}

	c := &Container{
		ConfigManager: config.NewManager(workDir),
		Clock:         domain.RealClock{},
		Config:        cfg,
	}
	c.newLoader = func(explicitPath string) domain.ConfigLoader {
		return config.NewLoader(workDir, explicitPath)
	}
	c.newQueue = func(bc domain.BackendConfig) domain.TaskQueue {
		return backend.NewClient(bc,
			backend.WithSessionID(cfg.SessionID),
			backend.WithUserAgent("promptdesk/"+cfg.Version),
		)
	}

	if err := c.Configure(ConfigureInput{}); err != nil {
		return nil, err
	}
	return c, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, queue domain.TaskQueue, loader domain.ConfigLoader, clock domain.Clock, logger domain.Logger) *Container {
	appConfig, err := loader.Load()
	if err != nil {
		appConfig = domain.NewDefaultConfig()
	}
	return &Container{
		Queue:        queue,
		ConfigLoader: loader,
		Clock:        clock,
		Logger:       logger,
		AppConfig:    appConfig,
		Config:       cfg,
	}
}

// defaultStateDir returns the state directory following XDG conventions.
func defaultStateDir() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return domain.StateDir(stateHome)
}

// Configure reloads the configuration with the given overrides and rebuilds
// the backend client and logger. Containers built with NewWithDeps only get
// the URL override applied.
func (c *Container) Configure(in ConfigureInput) error {
	if c.newLoader != nil {
		c.ConfigLoader = c.newLoader(in.ConfigPath)
		cfg, err := c.ConfigLoader.Load()
		if err != nil {
			return err
		}
		c.AppConfig = cfg
	}
	if c.AppConfig == nil {
		c.AppConfig = domain.NewDefaultConfig()
	}
	if in.BackendURL != "" {
		c.AppConfig.Backend.URL = in.BackendURL
	}

	if c.newQueue != nil {
		c.Queue = c.newQueue(c.AppConfig.Backend)
		c.resetLogger()
	}
	return nil
}

func (c *Container) resetLogger() {
	if c.logFile != nil {
		_ = c.logFile.Close()
	}
	path := ""
	if c.Config.StateDir != "" {
		path = domain.LogPath(c.Config.StateDir)
	}
	c.logFile = logging.New(path, logging.ParseLevel(c.AppConfig.Log.Level))
	c.Logger = c.logFile
}

// Close releases the log file.
func (c *Container) Close() error {
	if c.logFile == nil {
		return nil
	}
	return c.logFile.Close()
}

// Backend returns the task queue after validating the configuration.
func (c *Container) Backend() (domain.TaskQueue, error) {
	if err := c.AppConfig.Validate(); err != nil {
		return nil, err
	}
	if c.Queue == nil {
		return nil, fmt.Errorf("%w: no backend configured", domain.ErrInvalidConfig)
	}
	return c.Queue, nil
}

// UseCase factory methods

// FetchTaskUseCase returns a new FetchTask use case.
func (c *Container) FetchTaskUseCase() *usecase.FetchTask {
	return usecase.NewFetchTask(c.Queue, c.Logger)
}

// SubmitReplyUseCase returns a new SubmitReply use case.
func (c *Container) SubmitReplyUseCase() *usecase.SubmitReply {
	return usecase.NewSubmitReply(c.Queue, c.Logger)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// NewRecorder returns a transcript recorder for this session, or nil if
// transcripts are disabled.
func (c *Container) NewRecorder() *transcript.Recorder {
	if c.AppConfig.Transcript.Dir == "" {
		return nil
	}
	return transcript.NewRecorder(c.Config.SessionID, c.AppConfig.Backend.URL, c.Clock)
}

// NewController returns a workflow controller bound to the task queue.
// A nil recorder is ignored.
func (c *Container) NewController(ctx context.Context, rec *transcript.Recorder) *workflow.Controller {
	opts := []workflow.Option{
		workflow.WithContext(ctx),
		workflow.WithLogger(c.Logger),
	}
	if rec != nil {
		opts = append(opts, workflow.WithObserver(rec))
	}
	return workflow.New(c.Queue, c.Queue, opts...)
}
