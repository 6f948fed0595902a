package tracker

import (
	"log/slog"
	"sort"
)

// MilestoneCount aggregates one milestone's open and closed members.
type MilestoneCount struct {
	Name   string
	Open   int
	Closed int
}

// Total returns the number of issues referencing the milestone.
func (m MilestoneCount) Total() int { return m.Open + m.Closed }

// Milestones aggregates all issues by milestone label, sorted
// lexicographically by label. The second result is the bucket of issues
// carrying no milestone. A milestone exists only by being referenced;
// whether closed-only milestones are surfaced is the caller's listing
// policy. Issues that fail to read are logged and skipped so one bad
// issue cannot abort the aggregation.
func (t *Tracker) Milestones() ([]MilestoneCount, MilestoneCount, error) {
	issues, err := t.All()
	if err != nil {
		return nil, MilestoneCount{}, err
	}

	var none MilestoneCount
	counts := make(map[string]*MilestoneCount)
	for _, is := range issues {
		milestone, err := is.Milestone()
		if err != nil {
			slog.Warn("skipping issue", "issue", t.ShortID(is.ID()), "cause", err)
			continue
		}
		closed, err := is.Closed()
		if err != nil {
			slog.Warn("skipping issue", "issue", t.ShortID(is.ID()), "cause", err)
			continue
		}

		target := &none
		if milestone != "" {
			c, ok := counts[milestone]
			if !ok {
				c = &MilestoneCount{Name: milestone}
				counts[milestone] = c
			}
			target = c
		}
		if closed {
			target.Closed++
		} else {
			target.Open++
		}
	}

	result := make([]MilestoneCount, 0, len(counts))
	for _, c := range counts {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, none, nil
}
