package cmd

import (
	"bytes"
	"strings"
	"testing"

	"gitissue/internal/tracker"
	"gitissue/internal/tracker/memstore"
)

func setupTestApp(t *testing.T) (*App, *memstore.MemStore, *memstore.RecordingTx) {
	t.Helper()
	store := memstore.New()
	tx := memstore.NewTx()
	return &App{
		Tracker: tracker.New(store, tx, tracker.Options{ShortIDLength: 8}),
		Out:     &bytes.Buffer{},
		Err:     &bytes.Buffer{},
	}, store, tx
}

// extractAddedID extracts the abbreviated issue ID from new command
// output ("Added issue <id>").
func extractAddedID(t *testing.T, output string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if rest, ok := strings.CutPrefix(line, "Added issue "); ok {
			return strings.TrimSpace(rest)
		}
	}
	t.Fatalf("no 'Added issue' line in output %q", output)
	return ""
}

func TestNewBasic(t *testing.T) {
	app, _, tx := setupTestApp(t)
	out := app.Out.(*bytes.Buffer)

	cmd := newNewCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"-s", "Crash on empty config"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("new failed: %v", err)
	}

	short := extractAddedID(t, out.String())
	if len(short) != 8 {
		t.Errorf("expected 8-char abbreviated id, got %q", short)
	}

	id, err := app.Tracker.Resolve(short)
	if err != nil {
		t.Fatalf("resolving created issue: %v", err)
	}
	is, err := app.Tracker.Load(id)
	if err != nil {
		t.Fatalf("loading created issue: %v", err)
	}
	desc, err := is.Description()
	if err != nil || desc != "Crash on empty config" {
		t.Errorf("description = %q, %v", desc, err)
	}
	closed, err := is.Closed()
	if err != nil || closed {
		t.Errorf("new issue should be open, closed=%v err=%v", closed, err)
	}

	if len(tx.Messages) != 1 {
		t.Fatalf("expected one commit, got %d", len(tx.Messages))
	}
	if !strings.Contains(tx.Messages[0], "gi new "+string(id)) {
		t.Errorf("commit message missing trailer: %q", tx.Messages[0])
	}
}

func TestNewWithTagsMilestoneDue(t *testing.T) {
	app, _, _ := setupTestApp(t)
	out := app.Out.(*bytes.Buffer)

	cmd := newNewCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"-s", "Flaky upload test", "-t", "testing", "-t", "flaky", "-m", "1.2", "--due", "2026-10-01"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("new failed: %v", err)
	}

	id, err := app.Tracker.Resolve(extractAddedID(t, out.String()))
	if err != nil {
		t.Fatalf("resolving created issue: %v", err)
	}
	is := app.Tracker.Issue(id)

	tags, err := is.Tags()
	if err != nil {
		t.Fatalf("reading tags: %v", err)
	}
	want := []string{"flaky", "open", "testing"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q (sorted, deduped)", i, tags[i], want[i])
		}
	}

	m, err := is.Milestone()
	if err != nil || m != "1.2" {
		t.Errorf("milestone = %q, %v", m, err)
	}
	due, err := is.Due()
	if err != nil || due == nil {
		t.Fatalf("due = %v, %v", due, err)
	}
	if due.Year() != 2026 || due.Month() != 10 || due.Day() != 1 {
		t.Errorf("due = %v, want 2026-10-01", due)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2026-10-01", false},
		{"2026-10-01T12:30:00Z", false},
		{"next tuesday", true},
		{"01/10/2026", true},
	}
	for _, tt := range tests {
		_, err := parseDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}
