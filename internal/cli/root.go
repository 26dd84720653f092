// Package cli provides the command-line interface for promptdesk.
package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/promptdesk/internal/app"
	"github.com/runoshun/promptdesk/internal/tui"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupTask  = "task"
	groupSetup = "setup"
)

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// NewRootCommand creates the root command for promptdesk.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var configPath string
	var backendURL string

	root := &cobra.Command{
		Use:   "promptdesk",
		Short: "Annotate tasks from a task queue in the terminal",
		Long: `promptdesk fetches one task at a time from the annotation backend,
lets you write a reply, submits it and moves on to the next task.

Run without arguments to start the interactive editor.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}
			if err := c.Configure(app.ConfigureInput{
				ConfigPath: configPath,
				BackendURL: backendURL,
			}); err != nil {
				return err
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return launchTUIFunc(cmd.Context(), c, cmd)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file to load on top of the global and project config")
	root.PersistentFlags().StringVar(&backendURL, "url", "", "Backend URL (overrides backend.url)")

	root.AddGroup(
		&cobra.Group{ID: groupTask, Title: "Task Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	fetchCmd := newFetchCommand(c)
	fetchCmd.GroupID = groupTask

	replyCmd := newReplyCommand(c)
	replyCmd.GroupID = groupTask

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	root.AddCommand(
		fetchCmd,
		replyCmd,
		configCmd,
	)

	return root
}

// launchTUI runs the interactive annotation loop until the user quits.
// When transcripts are enabled the session is written out afterwards.
func launchTUI(ctx context.Context, c *app.Container, cmd *cobra.Command) error {
	if c == nil {
		return errors.New("promptdesk is not initialized")
	}
	if _, err := c.Backend(); err != nil {
		return err
	}

	rec := c.NewRecorder()
	ctrl := c.NewController(ctx, rec)
	model := tui.New(ctrl, c.AppConfig.Prompt)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()
	ctrl.Teardown()

	if rec != nil {
		path, err := rec.WriteFile(c.AppConfig.Transcript.Dir)
		if err != nil {
			return errors.Join(runErr, err)
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Transcript written to %s\n", path)
	}
	return runErr
}
