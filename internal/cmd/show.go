package cmd

import (
	"fmt"

	"gitissue/internal/tracker"

	"github.com/spf13/cobra"
)

// newShowCmd creates the show command.
func newShowCmd(provider *AppProvider) *cobra.Command {
	var (
		comments bool
		format   string
	)

	cmd := &cobra.Command{
		Use:   "show <issue-id>",
		Short: "Show one issue",
		Long: `Show a single issue in the given format.

Formats are the presets simple, oneline and short, or a pattern with
placeholders:

  %i short id   %I full id   %D title      %M milestone
  %c created    %d due date  %T tags       %n newline   %% percent

Examples:
  gi show 1f2a
  gi show 1f2a --comments
  gi show 1f2a -l "%I %T"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			f, err := tracker.ParseFormat(format)
			if err != nil {
				return err
			}
			id, err := app.Tracker.Resolve(args[0])
			if err != nil {
				return err
			}
			is, err := app.Tracker.Load(id)
			if err != nil {
				return err
			}

			fmt.Fprintln(app.Out, is.Rendered(f))

			if comments {
				list, err := app.Tracker.Comments(id)
				if err != nil {
					return err
				}
				for _, c := range list {
					fmt.Fprintf(app.Out, "\nComment %s:\n%s\n", c.Seq, c.Text)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&comments, "comments", false, "Include the issue's comments")
	cmd.Flags().StringVarP(&format, "format", "l", "short", "Output format (preset name or pattern)")

	return cmd
}
