package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/runoshun/promptdesk/internal/app"
	"github.com/runoshun/promptdesk/internal/domain"
	"github.com/runoshun/promptdesk/internal/usecase"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newFetchCommand creates the fetch command.
func newFetchCommand(c *app.Container) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a new task and print it",
		Long: `Fetch a new task from the queue and print it as JSON (or YAML with --yaml).

Fetching does not change the queue. Exits with an error if no task is available.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := c.Backend(); err != nil {
				return err
			}
			out, err := c.FetchTaskUseCase().Execute(cmd.Context(), usecase.FetchTaskInput{})
			if err != nil {
				return err
			}
			return printTask(cmd.OutOrStdout(), out.Task, asYAML)
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the task as YAML")

	return cmd
}

// printTask writes the task payload as indented JSON or YAML.
func printTask(w io.Writer, task *domain.Task, asYAML bool) error {
	if asYAML {
		fields, err := task.Fields()
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(fields)
		if err != nil {
			return fmt.Errorf("encode task: %w", err)
		}
		_, err = w.Write(data)
		return err
	}

	raw, err := task.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}
