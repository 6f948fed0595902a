package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gitissue/internal/editor"

	"github.com/spf13/cobra"
)

// newNewCmd creates the new command.
func newNewCmd(provider *AppProvider) *cobra.Command {
	var (
		summary   string
		tags      []string
		milestone string
		due       string
		edit      bool
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new issue",
		Long: `Create a new issue in the open state.

Without -s the description template opens in your editor. Lines
starting with '#' are ignored; an empty description aborts the
creation. The first line of the description is the issue's title.

Examples:
  gi new -s "Crash when the config file is empty"
  gi new -s "Flaky upload test" -t testing -m 1.2
  gi new -e`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			description := summary
			if summary == "" || edit {
				initial := app.Tracker.Template("description")
				if summary != "" {
					initial = summary + "\n" + initial
				}
				description, err = editor.Edit(app.Config.Editor, initial)
				if err != nil {
					return err
				}
			}
			if strings.TrimSpace(description) == "" {
				return errors.New("empty description, aborting")
			}

			var duePtr *time.Time
			if due != "" {
				parsed, err := parseDate(due)
				if err != nil {
					return err
				}
				duePtr = &parsed
			}

			id, err := app.Tracker.Create(description, tags, milestone, duePtr)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Added issue %s\n", app.Tracker.ShortID(id))
			return nil
		},
	}

	cmd.Flags().StringVarP(&summary, "summary", "s", "", "One-line issue summary (skips the editor)")
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "Tag to attach (repeatable)")
	cmd.Flags().StringVarP(&milestone, "milestone", "m", "", "Milestone to assign")
	cmd.Flags().StringVar(&due, "due", "", "Due date (2006-01-02 or RFC 3339)")
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "Open the editor even when -s is given")

	return cmd
}

// parseDate accepts a bare date or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want 2006-01-02 or RFC 3339)", value)
	}
	return t, nil
}
