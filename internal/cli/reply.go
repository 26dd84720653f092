package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/runoshun/promptdesk/internal/app"
	"github.com/runoshun/promptdesk/internal/usecase"
	"github.com/spf13/cobra"
)

// newReplyCommand creates the reply command.
func newReplyCommand(c *app.Container) *cobra.Command {
	var fromStdin bool
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "reply <task-id> [text...]",
		Short: "Reply to a task and print the next one",
		Long: `Send a text reply for a task and print the next task returned by the queue.

The reply text is taken from the remaining arguments, or from stdin with --stdin.
Leading and trailing whitespace is trimmed; an empty reply is sent as is.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.Backend(); err != nil {
				return err
			}

			text := strings.Join(args[1:], " ")
			if fromStdin {
				if len(args) > 1 {
					return fmt.Errorf("reply text given both as arguments and --stdin")
				}
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}

			out, err := c.SubmitReplyUseCase().Execute(cmd.Context(), usecase.SubmitReplyInput{
				TaskID: args[0],
				Text:   text,
			})
			if err != nil {
				return err
			}

			if out.Next == nil {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Reply recorded. No more tasks available.")
				return nil
			}
			return printTask(cmd.OutOrStdout(), out.Next, asYAML)
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the reply text from stdin")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the next task as YAML")

	return cmd
}
