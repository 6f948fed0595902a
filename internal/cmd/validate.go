package cmd

import (
	"fmt"

	"gitissue/internal/tracker"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// newValidateCmd creates the validate command.
func newValidateCmd(provider *AppProvider) *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the repository's structural invariants",
		Long: `Scan every issue for structural problems: malformed identifiers,
missing descriptions, files without a trailing newline, dangling
records, broken lifecycle state and unparseable timestamps.

One bad issue never aborts the scan; all findings are reported
together. With --fix the repairable class (missing trailing newlines)
is fixed as a single commit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			violations, err := app.Tracker.Validate()
			if err != nil {
				return err
			}

			if fix && anyFixable(violations) {
				if _, err := app.Tracker.Fix(violations); err != nil {
					return err
				}
				violations, err = app.Tracker.Validate()
				if err != nil {
					return err
				}
			}

			if len(violations) == 0 {
				fmt.Fprintln(app.Out, app.SuccessColor("OK"))
				return nil
			}

			warn := color.New(color.FgYellow)
			bad := color.New(color.FgRed)
			for _, v := range violations {
				p := bad
				if v.Fixable {
					p = warn
				}
				p.Fprintln(app.Out, v.String())
			}
			return fmt.Errorf("%w: %d found", tracker.ErrValidation, len(violations))
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Repair fixable violations as one commit")

	return cmd
}

func anyFixable(violations []tracker.Violation) bool {
	for _, v := range violations {
		if v.Fixable {
			return true
		}
	}
	return false
}
