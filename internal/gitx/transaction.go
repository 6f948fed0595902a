package gitx

import (
	"fmt"
	"log/slog"

	"gitissue/internal/tracker"
)

// Transaction implements tracker.Transactor over a git repository. One
// transaction spans one command invocation: Begin snapshots the current
// state, Stage accumulates file mutations in the index, and Commit turns
// them into exactly one commit (or none, when nothing changed).
type Transaction struct {
	repo     *Repository
	startSHA string
	stashed  bool
	active   bool
}

// NewTransaction returns an unstarted Transaction for repo.
func NewTransaction(repo *Repository) *Transaction {
	return &Transaction{repo: repo}
}

// Begin records HEAD and stashes any uncommitted user changes so the
// transaction operates on a clean tree.
func (t *Transaction) Begin() error {
	if t.active {
		return fmt.Errorf("transaction already started")
	}
	sha, err := t.repo.Head()
	if err != nil {
		return err
	}
	clean, err := t.repo.IsClean()
	if err != nil {
		return err
	}
	if !clean {
		slog.Debug("stashing repository changes")
		if err := t.repo.StashPush("git-issue: transaction"); err != nil {
			return err
		}
		t.stashed = true
	}
	t.startSHA = sha
	t.active = true
	return nil
}

// Stage marks a pending file mutation at path, relative to the work tree.
func (t *Transaction) Stage(path string) error {
	if !t.active {
		return fmt.Errorf("transaction not started")
	}
	slog.Debug("staging", "path", path)
	return t.repo.Stage(path)
}

// Commit finishes the transaction. If the staged mutations produced no
// net change relative to the last committed state, no commit is created
// and NothingToDo is returned.
func (t *Transaction) Commit(message string) (tracker.Outcome, error) {
	if !t.active {
		return tracker.NothingToDo, fmt.Errorf("transaction not started")
	}
	staged, err := t.repo.HasStagedChanges()
	if err != nil {
		return tracker.NothingToDo, err
	}
	outcome := tracker.NothingToDo
	if staged {
		if err := t.repo.Commit(message); err != nil {
			return tracker.NothingToDo, err
		}
		outcome = tracker.Committed
	}
	if err := t.finish(); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// Rollback discards all pending mutations, restoring the state recorded
// by Begin. Best effort: a process kill mid-rollback can still leave the
// work tree dirty, which the validator detects on the next run.
func (t *Transaction) Rollback() error {
	if !t.active {
		return fmt.Errorf("transaction not started")
	}
	if t.startSHA != "" {
		if err := t.repo.ResetHard(t.startSHA); err != nil {
			return fmt.Errorf("%w\nuse git reset --hard %s to recover manually", err, t.startSHA)
		}
	}
	return t.finish()
}

func (t *Transaction) finish() error {
	t.active = false
	if t.stashed {
		slog.Debug("unstashing repository changes")
		t.stashed = false
		if err := t.repo.StashPop(); err != nil {
			return fmt.Errorf("%w\nuse git stash pop to restore your changes manually", err)
		}
	}
	return nil
}
