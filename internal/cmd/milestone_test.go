package cmd

import (
	"bytes"
	"strings"
	"testing"

	"gitissue/internal/tracker"
)

func TestMilestoneSetAndRemove(t *testing.T) {
	app, _, _ := setupTestApp(t)
	id := seedIssue(t, app, "Ship the release")

	set := newMilestoneSetCmd(NewTestProvider(app))
	set.SetArgs([]string{string(id), "1.0"})
	if err := set.Execute(); err != nil {
		t.Fatalf("milestone set failed: %v", err)
	}
	m, err := app.Tracker.Issue(id).Milestone()
	if err != nil || m != "1.0" {
		t.Fatalf("milestone = %q, %v", m, err)
	}

	remove := newMilestoneRemoveCmd(NewTestProvider(app))
	remove.SetArgs([]string{string(id)})
	if err := remove.Execute(); err != nil {
		t.Fatalf("milestone remove failed: %v", err)
	}
	m, err = app.Tracker.Issue(id).Milestone()
	if err != nil || m != "" {
		t.Fatalf("milestone after remove = %q, %v", m, err)
	}
}

func TestMilestoneSetNoChange(t *testing.T) {
	app, _, tx := setupTestApp(t)
	out := app.Out.(*bytes.Buffer)
	id := seedIssue(t, app, "Ship the release")

	if _, err := app.Tracker.SetMilestone(id, "1.0"); err != nil {
		t.Fatalf("set: %v", err)
	}
	commits := len(tx.Messages)

	set := newMilestoneSetCmd(NewTestProvider(app))
	set.SetArgs([]string{string(id), "1.0"})
	if err := set.Execute(); err != nil {
		t.Fatalf("re-set failed: %v", err)
	}
	if !strings.Contains(out.String(), "already has milestone") {
		t.Errorf("unexpected output %q", out.String())
	}
	if len(tx.Messages) != commits {
		t.Errorf("re-setting the same milestone must not commit")
	}
}

func TestMilestoneRemoveAbsent(t *testing.T) {
	app, _, tx := setupTestApp(t)
	out := app.Out.(*bytes.Buffer)
	id := seedIssue(t, app, "No milestone here")
	commits := len(tx.Messages)

	remove := newMilestoneRemoveCmd(NewTestProvider(app))
	remove.SetArgs([]string{string(id)})
	if err := remove.Execute(); err != nil {
		t.Fatalf("remove on milestone-less issue must not error: %v", err)
	}
	if !strings.Contains(out.String(), "has no milestone") {
		t.Errorf("unexpected output %q", out.String())
	}
	if len(tx.Messages) != commits {
		t.Errorf("removing an absent milestone must not commit")
	}
}

func TestMilestoneListFiltersClosed(t *testing.T) {
	app, _, _ := setupTestApp(t)
	out := app.Out.(*bytes.Buffer)

	active := seedIssue(t, app, "Active work")
	done := seedIssue(t, app, "Finished work")
	if _, err := app.Tracker.SetMilestone(active, "1.0"); err != nil {
		t.Fatal(err)
	}
	if _, err := app.Tracker.SetMilestone(done, "0.9"); err != nil {
		t.Fatal(err)
	}
	if _, err := app.Tracker.Close([]tracker.ID{done}); err != nil {
		t.Fatal(err)
	}

	list := newMilestoneListCmd(NewTestProvider(app))
	list.SetArgs(nil)
	if err := list.Execute(); err != nil {
		t.Fatalf("milestone list failed: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "1.0") || !strings.Contains(output, "1/1") {
		t.Errorf("active milestone missing from %q", output)
	}
	if strings.Contains(output, "0.9") {
		t.Errorf("fully closed milestone should be hidden: %q", output)
	}

	out.Reset()
	list = newMilestoneListCmd(NewTestProvider(app))
	list.SetArgs([]string{"--all"})
	if err := list.Execute(); err != nil {
		t.Fatalf("milestone list --all failed: %v", err)
	}
	output = out.String()
	if !strings.Contains(output, "0.9") || !strings.Contains(output, "0/1") {
		t.Errorf("--all should surface closed-only milestones: %q", output)
	}
}
