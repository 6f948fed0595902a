package cmd

import (
	"fmt"
	"text/tabwriter"

	"gitissue/internal/tracker"

	"github.com/spf13/cobra"
)

// newMilestoneCmd creates the milestone command with its subcommands.
func newMilestoneCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "List or assign milestones",
		Long: `Milestones exist only by being referenced: assigning a label to an
issue creates the milestone, clearing the last reference retires it.`,
	}

	cmd.AddCommand(newMilestoneListCmd(provider))
	cmd.AddCommand(newMilestoneSetCmd(provider))
	cmd.AddCommand(newMilestoneRemoveCmd(provider))

	return cmd
}

func newMilestoneListCmd(provider *AppProvider) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List milestones with open/total counts",
		Long: `List milestones as "name open/total". Milestones whose issues are all
closed are hidden unless --all is given. Issues without a milestone
show up as the "No Milestone" bucket.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			counts, none, err := app.Tracker.Milestones()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(app.Out, 0, 8, 2, ' ', 0)
			for _, c := range counts {
				if c.Open == 0 && !all {
					continue
				}
				fmt.Fprintf(w, "%s\t%d/%d\n", c.Name, c.Open, c.Total())
			}
			if none.Total() > 0 && (none.Open > 0 || all) {
				fmt.Fprintf(w, "No Milestone\t%d/%d\n", none.Open, none.Total())
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include milestones with no open issues")

	return cmd
}

func newMilestoneSetCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "set <issue-id> <name>",
		Short: "Assign a milestone to an issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			id, err := app.Tracker.Resolve(args[0])
			if err != nil {
				return err
			}
			outcome, err := app.Tracker.SetMilestone(id, args[1])
			if err != nil {
				return err
			}
			if outcome == tracker.NothingToDo {
				fmt.Fprintf(app.Out, "%s already has milestone %s\n", app.Tracker.ShortID(id), args[1])
				return nil
			}
			fmt.Fprintf(app.Out, "Set milestone %s on %s\n", args[1], app.Tracker.ShortID(id))
			return nil
		},
	}
}

func newMilestoneRemoveCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <issue-id>",
		Short: "Remove an issue's milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			id, err := app.Tracker.Resolve(args[0])
			if err != nil {
				return err
			}
			outcome, err := app.Tracker.ClearMilestone(id)
			if err != nil {
				return err
			}
			if outcome == tracker.NothingToDo {
				fmt.Fprintf(app.Out, "%s has no milestone\n", app.Tracker.ShortID(id))
				return nil
			}
			fmt.Fprintf(app.Out, "Removed milestone from %s\n", app.Tracker.ShortID(id))
			return nil
		},
	}
}
