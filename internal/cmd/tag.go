package cmd

import (
	"fmt"
	"strings"

	"gitissue/internal/tracker"

	"github.com/spf13/cobra"
)

// newTagCmd creates the tag command.
func newTagCmd(provider *AppProvider) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "tag <issue-id> <tag>...",
		Short: "Add or remove issue tags",
		Long: `Add tags to an issue, or remove them with -r.

The lifecycle tags "open" and "closed" are managed by close and reopen
and cannot be removed here. Adding one of them transitions the issue,
replacing its counterpart.

Examples:
  gi tag 1f2a bug urgent
  gi tag -r 1f2a urgent`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			id, err := app.Tracker.Resolve(args[0])
			if err != nil {
				return err
			}
			tags := args[1:]

			var outcome tracker.Outcome
			if remove {
				outcome, err = app.Tracker.RemoveTags(id, tags)
			} else {
				outcome, err = app.Tracker.AddTags(id, tags)
			}
			if err != nil {
				return err
			}

			if outcome == tracker.NothingToDo {
				fmt.Fprintf(app.Out, "No tag changes for %s\n", app.Tracker.ShortID(id))
				return nil
			}
			verb := "Tagged"
			if remove {
				verb = "Untagged"
			}
			fmt.Fprintf(app.Out, "%s %s: %s\n", verb, app.Tracker.ShortID(id), strings.Join(tags, ", "))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&remove, "remove", "r", false, "Remove the tags instead of adding them")

	return cmd
}
