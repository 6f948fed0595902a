// Package tracker implements the issue-repository engine: identifier
// allocation and resolution, issue state kept as plain files, tag and
// milestone bookkeeping, and the per-action transaction protocol that
// turns a multi-file mutation into a single commit.
//
// The engine never touches the filesystem or git directly. Persistence
// goes through the Store interface and version control through the
// Transactor interface, so tests run against in-memory fakes.
package tracker

// Store is the persistence adapter for the issues directory. All paths
// are slash-separated and relative to the directory root.
type Store interface {
	// Read returns the raw contents of the file at path. A missing
	// file yields an error satisfying errors.Is(err, fs.ErrNotExist).
	Read(path string) ([]byte, error)
	// Write creates or replaces the file at path, creating parent
	// directories as needed.
	Write(path string, data []byte) error
	// Remove deletes the file at path.
	Remove(path string) error
	// Exists reports whether a file or directory exists at path.
	Exists(path string) bool
	// List returns the sorted names of entries in the directory at
	// path. A missing directory yields an empty list.
	List(path string) ([]string, error)
}

// Outcome reports what a committed transaction actually did.
type Outcome int

const (
	// Committed means the transaction produced exactly one commit.
	Committed Outcome = iota
	// NothingToDo means the pending mutations were a no-op relative to
	// the last committed state, and no history entry was created.
	NothingToDo
)

// Transactor wraps a sequence of staged file mutations plus a commit as
// one logical action. The engine drives it as:
//
//	Begin → Store writes + Stage(path)... → Commit(message) | Rollback
//
// Commit detects the no-op case and skips the commit. A failed mutation
// must be followed by Rollback, which best-effort discards pending
// changes; consistency after a mid-mutation process kill is not
// guaranteed and is the validator's job to detect.
type Transactor interface {
	Begin() error
	Stage(path string) error
	Commit(message string) (Outcome, error)
	Rollback() error
}
