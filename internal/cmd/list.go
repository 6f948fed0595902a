package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gitissue/internal/tracker"

	"github.com/spf13/cobra"
)

// newListCmd creates the list command.
func newListCmd(provider *AppProvider) *cobra.Command {
	var (
		all         bool
		withTags    []string
		withoutTags []string
		milestone   string
		noMilestone bool
		format      string
		order       string
		reverse     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List issues",
		Long: `List issues, open ones by default.

Filters combine conjunctively: an issue must carry every -t tag, none
of the -T tags, and match the milestone filter. Ordering keys are the
field placeholders %c (created), %d (due date), %D (title) and
%M (milestone).

Examples:
  gi list
  gi list -a -t bug -T wontfix
  gi list -m 1.2 -o %d -r
  gi list -l "%I %M %D"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			f, err := tracker.ParseFormat(format)
			if err != nil {
				return err
			}

			issues, err := app.Tracker.All()
			if err != nil {
				return err
			}

			var selected []*tracker.Issue
			for _, is := range issues {
				ok, err := matches(is, all, withTags, withoutTags, milestone, noMilestone)
				if err != nil {
					return err
				}
				if ok {
					selected = append(selected, is)
				}
			}

			if order != "" {
				if err := orderIssues(selected, order); err != nil {
					return err
				}
			}
			if reverse {
				for i, j := 0, len(selected)-1; i < j; i, j = i+1, j-1 {
					selected[i], selected[j] = selected[j], selected[i]
				}
			}

			for _, is := range selected {
				fmt.Fprintln(app.Out, is.Rendered(f))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include closed issues")
	cmd.Flags().StringArrayVarP(&withTags, "tag", "t", nil, "Only issues carrying this tag (repeatable)")
	cmd.Flags().StringArrayVarP(&withoutTags, "without-tag", "T", nil, "Only issues not carrying this tag (repeatable)")
	cmd.Flags().StringVarP(&milestone, "milestone", "m", "", "Only issues in this milestone")
	cmd.Flags().BoolVarP(&noMilestone, "no-milestone", "M", false, "Only issues without a milestone")
	cmd.Flags().StringVarP(&format, "format", "l", "simple", "Output format (preset name or pattern)")
	cmd.Flags().StringVarP(&order, "order", "o", "", "Sort key (%c, %d, %D or %M)")
	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "Reverse the sort order")

	return cmd
}

func matches(is *tracker.Issue, all bool, withTags, withoutTags []string, milestone string, noMilestone bool) (bool, error) {
	if !all {
		closed, err := is.Closed()
		if err != nil {
			return false, err
		}
		if closed {
			return false, nil
		}
	}
	for _, tag := range withTags {
		has, err := is.HasTag(tag)
		if err != nil {
			return false, err
		}
		if !has {
			return false, nil
		}
	}
	for _, tag := range withoutTags {
		has, err := is.HasTag(tag)
		if err != nil {
			return false, err
		}
		if has {
			return false, nil
		}
	}
	if milestone != "" || noMilestone {
		m, err := is.Milestone()
		if err != nil {
			return false, err
		}
		if noMilestone && m != "" {
			return false, nil
		}
		if milestone != "" && m != milestone {
			return false, nil
		}
	}
	return true, nil
}

// orderIssues sorts issues in place by the given field key. RFC 3339
// timestamps sort correctly as strings; issues without the field sort
// first.
func orderIssues(issues []*tracker.Issue, order string) error {
	key := strings.TrimPrefix(order, "%")
	var fn func(*tracker.Issue) string
	switch key {
	case "c":
		fn = func(is *tracker.Issue) string {
			t, err := is.Created()
			if err != nil {
				return ""
			}
			return t.Format(time.RFC3339)
		}
	case "d":
		fn = func(is *tracker.Issue) string {
			d, err := is.Due()
			if err != nil || d == nil {
				return ""
			}
			return d.Format(time.RFC3339)
		}
	case "D":
		fn = func(is *tracker.Issue) string {
			title, err := is.Title()
			if err != nil {
				return ""
			}
			return title
		}
	case "M":
		fn = func(is *tracker.Issue) string {
			m, err := is.Milestone()
			if err != nil {
				return ""
			}
			return m
		}
	default:
		return fmt.Errorf("unknown sort key %q (want %%c, %%d, %%D or %%M)", order)
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return fn(issues[i]) < fn(issues[j])
	})
	return nil
}
