package tracker_test

import (
	"testing"

	"gitissue/internal/tracker"
)

func TestMilestonesAggregation(t *testing.T) {
	tr, _, _ := newTestTracker(t)

	mk := func(desc, milestone string) tracker.ID {
		t.Helper()
		id, err := tr.Create(desc, nil, milestone, nil)
		if err != nil {
			t.Fatal(err)
		}
		return id
	}

	mk("a", "1.0")
	closed := mk("b", "1.0")
	mk("c", "2.0")
	mk("d", "")

	if _, err := tr.Close([]tracker.ID{closed}); err != nil {
		t.Fatal(err)
	}

	counts, none, err := tr.Milestones()
	if err != nil {
		t.Fatal(err)
	}

	if len(counts) != 2 {
		t.Fatalf("expected 2 milestones, got %+v", counts)
	}
	// Sorted by name.
	if counts[0].Name != "1.0" || counts[1].Name != "2.0" {
		t.Errorf("order = %q, %q", counts[0].Name, counts[1].Name)
	}
	if counts[0].Open != 1 || counts[0].Closed != 1 || counts[0].Total() != 2 {
		t.Errorf("1.0 counts = %+v", counts[0])
	}
	if counts[1].Open != 1 || counts[1].Closed != 0 {
		t.Errorf("2.0 counts = %+v", counts[1])
	}
	if none.Open != 1 || none.Closed != 0 {
		t.Errorf("no-milestone bucket = %+v", none)
	}
}

func TestMilestoneRetiredWithLastReference(t *testing.T) {
	tr, _, _ := newTestTracker(t)

	id, err := tr.Create("only member", nil, "ephemeral", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.ClearMilestone(id); err != nil {
		t.Fatal(err)
	}

	counts, _, err := tr.Milestones()
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 0 {
		t.Errorf("milestone with no references must disappear, got %+v", counts)
	}
}

func TestSetMilestoneNoChange(t *testing.T) {
	tr, _, tx := newTestTracker(t)

	id, err := tr.Create("stable", nil, "1.0", nil)
	if err != nil {
		t.Fatal(err)
	}
	commits := len(tx.Messages)

	outcome, err := tr.SetMilestone(id, "1.0")
	if err != nil {
		t.Fatal(err)
	}
	if outcome != tracker.NothingToDo {
		t.Errorf("outcome = %v, want NothingToDo", outcome)
	}
	if len(tx.Messages) != commits {
		t.Errorf("no-change set must not commit")
	}
}
