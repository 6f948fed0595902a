package tracker_test

import (
	"strings"
	"testing"

	"gitissue/internal/tracker"
	"gitissue/internal/tracker/memstore"
)

func violationsFor(violations []tracker.Violation, id tracker.ID) []tracker.Violation {
	var out []tracker.Violation
	for _, v := range violations {
		if v.ID == string(id) {
			out = append(out, v)
		}
	}
	return out
}

func TestValidateCleanRepository(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	for _, desc := range []string{"one", "two", "three"} {
		if _, err := tr.Create(desc, []string{"bug"}, "1.0", nil); err != nil {
			t.Fatal(err)
		}
	}

	violations, err := tr.Validate()
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) != 0 {
		t.Errorf("clean repository flagged: %+v", violations)
	}
}

func TestValidateScanSurvivesBadIssue(t *testing.T) {
	tr, store, _ := newTestTracker(t)

	good, err := tr.Create("healthy", nil, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	bad := tracker.ID("aa" + strings.Repeat("5", 38))
	// Tags only: description missing, lifecycle broken.
	if err := store.Write(bad.File("tags"), []byte("open\nclosed\n")); err != nil {
		t.Fatal(err)
	}

	violations, err := tr.Validate()
	if err != nil {
		t.Fatal(err)
	}
	if len(violationsFor(violations, good)) != 0 {
		t.Errorf("healthy issue flagged: %+v", violations)
	}
	badOnes := violationsFor(violations, bad)
	if len(badOnes) == 0 {
		t.Fatal("broken issue not flagged")
	}

	var missingDesc, badLifecycle bool
	for _, v := range badOnes {
		if strings.Contains(v.Message, "missing description") {
			missingDesc = true
		}
		if strings.Contains(v.Message, "reserved tags") {
			badLifecycle = true
		}
	}
	if !missingDesc || !badLifecycle {
		t.Errorf("expected missing-description and lifecycle violations, got %+v", badOnes)
	}
}

func TestValidateFlagsMalformedIdentifier(t *testing.T) {
	tr, store, _ := newTestTracker(t)
	if err := store.Write("issues/zz/NOT-HEX/description", []byte("x\n")); err != nil {
		t.Fatal(err)
	}

	violations, err := tr.Validate()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, v := range violations {
		if strings.Contains(v.Message, "token format") {
			found = true
		}
	}
	if !found {
		t.Errorf("malformed identifier not flagged: %+v", violations)
	}
}

func TestValidateNewlineViolationFixable(t *testing.T) {
	tr, store, tx := newTestTracker(t)

	id, err := tr.Create("no newline", nil, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Write(id.File("description"), []byte("no newline")); err != nil {
		t.Fatal(err)
	}

	violations, err := tr.Validate()
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) != 1 || !violations[0].Fixable {
		t.Fatalf("expected one fixable violation, got %+v", violations)
	}
	commits := len(tx.Messages)

	if _, err := tr.Fix(violations); err != nil {
		t.Fatal(err)
	}
	if len(tx.Messages) != commits+1 {
		t.Errorf("fix must be one commit")
	}

	violations, err = tr.Validate()
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) != 0 {
		t.Errorf("repository still dirty after fix: %+v", violations)
	}
}

func TestFixCommitMessageFollowsMode(t *testing.T) {
	tr, store, tx := newTestTracker(t)
	id, err := tr.Create("needs repair", nil, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Write(id.File("description"), []byte("needs repair")); err != nil {
		t.Fatal(err)
	}
	violations, err := tr.Validate()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Fix(violations); err != nil {
		t.Fatal(err)
	}
	msg := tx.Messages[len(tx.Messages)-1]
	if !strings.HasPrefix(msg, "gi("+string(id[:8])+"): Fix issue files") {
		t.Errorf("relaxed fix message = %q", msg)
	}
	if !strings.HasSuffix(msg, "\n\ngi validate --fix") {
		t.Errorf("fix trailer missing: %q", msg)
	}

	strictStore := memstore.New()
	strictTx := memstore.NewTx()
	strict := tracker.New(strictStore, strictTx, tracker.Options{StrictCompat: true, ShortIDLength: 8})
	sid, err := strict.Create("needs repair", nil, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := strictStore.Write(sid.File("description"), []byte("needs repair")); err != nil {
		t.Fatal(err)
	}
	violations, err = strict.Validate()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := strict.Fix(violations); err != nil {
		t.Fatal(err)
	}
	msg = strictTx.Messages[len(strictTx.Messages)-1]
	if !strings.HasPrefix(msg, "gi: Fix issue files\n\n") {
		t.Errorf("strict fix message = %q", msg)
	}
}

func TestFixWithNothingFixable(t *testing.T) {
	tr, store, tx := newTestTracker(t)
	id, err := tr.Create("bad clock", nil, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Write(id.File("created"), []byte("yesterday\n")); err != nil {
		t.Fatal(err)
	}
	violations, err := tr.Validate()
	if err != nil {
		t.Fatal(err)
	}
	commits := len(tx.Messages)

	outcome, err := tr.Fix(violations)
	if err != nil {
		t.Fatal(err)
	}
	if outcome != tracker.NothingToDo {
		t.Errorf("outcome = %v, want NothingToDo", outcome)
	}
	if len(tx.Messages) != commits {
		t.Errorf("fix with nothing fixable must not commit")
	}
}

func TestValidateDanglingEmptyMilestone(t *testing.T) {
	tr, store, _ := newTestTracker(t)

	id, err := tr.Create("dangler", nil, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Write(id.File("milestone"), []byte("\n")); err != nil {
		t.Fatal(err)
	}

	violations, err := tr.Validate()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, v := range violations {
		if strings.Contains(v.Message, "dangling") {
			found = true
		}
	}
	if !found {
		t.Errorf("dangling milestone not flagged: %+v", violations)
	}
}
