// Package gitx wraps the git command line for the issue tracker. All
// version-control interaction goes through this package; the engine
// itself never shells out.
package gitx

import (
	"fmt"
	"os/exec"
	"strings"
)

// Repository is a handle on the git repository that tracks the issues
// directory. Every method is a blocking subprocess call.
type Repository struct {
	// WorkTree is the directory git commands run in.
	WorkTree string
}

// Open returns a Repository for the given work tree after verifying that
// git can resolve it.
func Open(workTree string) (*Repository, error) {
	r := &Repository{WorkTree: workTree}
	if _, err := r.output("rev-parse", "--is-inside-work-tree"); err != nil {
		return nil, fmt.Errorf("%s is not inside a git work tree: %w", workTree, err)
	}
	return r, nil
}

// Init creates a new git repository at workTree.
func Init(workTree string) (*Repository, error) {
	r := &Repository{WorkTree: workTree}
	if err := r.run("init", "--quiet"); err != nil {
		return nil, err
	}
	return r, nil
}

// Head returns the SHA of HEAD, or "" on an unborn branch.
func (r *Repository) Head() (string, error) {
	out, err := r.output("rev-parse", "--verify", "--quiet", "HEAD")
	if err != nil {
		// Unborn branch: no commits yet.
		return "", nil
	}
	return strings.TrimSpace(out), nil
}

// IsClean reports whether the work tree has no uncommitted changes.
func (r *Repository) IsClean() (bool, error) {
	out, err := r.output("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "", nil
}

// Stage adds path (relative to the work tree) to the index. Removed
// files are staged as deletions.
func (r *Repository) Stage(path string) error {
	return r.run("add", "-A", "--", path)
}

// HasStagedChanges reports whether the index differs from HEAD.
func (r *Repository) HasStagedChanges() (bool, error) {
	cmd := r.git("diff", "--cached", "--quiet")
	err := cmd.Run()
	if err == nil {
		return false, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, fmt.Errorf("git diff --cached: %w", err)
}

// Commit records the index as a single commit. Repository hooks are
// suppressed so issue bookkeeping never triggers project automation.
func (r *Repository) Commit(message string) error {
	return r.run("commit", "--quiet", "--no-verify", "-m", message)
}

// StashPush stashes work-tree and index changes under the given label.
func (r *Repository) StashPush(label string) error {
	return r.run("stash", "push", "--quiet", "--include-untracked", "-m", label)
}

// StashPop restores the most recently stashed changes.
func (r *Repository) StashPop() error {
	return r.run("stash", "pop", "--quiet")
}

// ResetHard discards the index and work tree back to sha.
func (r *Repository) ResetHard(sha string) error {
	return r.run("reset", "--hard", "--quiet", sha)
}

func (r *Repository) git(args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.WorkTree
	return cmd
}

func (r *Repository) run(args ...string) error {
	out, err := r.git(args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return nil
}

func (r *Repository) output(args ...string) (string, error) {
	out, err := r.git(args...).Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(out), nil
}
