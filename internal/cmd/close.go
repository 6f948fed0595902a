package cmd

import (
	"fmt"

	"gitissue/internal/tracker"

	"github.com/spf13/cobra"
)

// newCloseCmd creates the close command.
func newCloseCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close <issue-id> [issue-id...]",
		Short: "Close one or more issues",
		Long: `Close one or more issues as a single commit.

Closing replaces the "open" lifecycle tag with "closed". Issues that
are already closed contribute nothing; closing only closed issues
creates no commit.

Examples:
  gi close 1f2a
  gi close 1f2a 9c3d`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLifecycle(provider, args, false)
		},
	}
	return cmd
}

// newReopenCmd creates the reopen command.
func newReopenCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reopen <issue-id> [issue-id...]",
		Short: "Reopen one or more closed issues",
		Long: `Reopen closed issues as a single commit, restoring the "open"
lifecycle tag.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLifecycle(provider, args, true)
		},
	}
	return cmd
}

func runLifecycle(provider *AppProvider, args []string, reopen bool) error {
	app, err := provider.Get()
	if err != nil {
		return err
	}

	// Resolve everything before mutating anything so a bad identifier
	// aborts the whole batch.
	ids := make([]tracker.ID, len(args))
	for i, arg := range args {
		id, err := app.Tracker.Resolve(arg)
		if err != nil {
			return err
		}
		ids[i] = id
	}

	var outcome tracker.Outcome
	if reopen {
		outcome, err = app.Tracker.Reopen(ids)
	} else {
		outcome, err = app.Tracker.Close(ids)
	}
	if err != nil {
		return err
	}

	verb, done := "close", "Closed"
	if reopen {
		verb, done = "reopen", "Reopened"
	}
	if outcome == tracker.NothingToDo {
		fmt.Fprintf(app.Out, "Nothing to %s\n", verb)
		return nil
	}
	for _, id := range ids {
		fmt.Fprintf(app.Out, "%s %s\n", done, app.Tracker.ShortID(id))
	}
	return nil
}
