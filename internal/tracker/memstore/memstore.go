// Package memstore provides in-memory fakes of the tracker persistence
// interfaces for tests.
package memstore

import (
	"io/fs"
	"sort"
	"strings"

	"gitissue/internal/tracker"
)

// MemStore is an in-memory tracker.Store keyed by slash-separated path.
type MemStore struct {
	files map[string][]byte
}

// New returns an empty MemStore.
func New() *MemStore {
	return &MemStore{files: make(map[string][]byte)}
}

func (s *MemStore) Read(path string) ([]byte, error) {
	data, ok := s.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemStore) Write(path string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	s.files[path] = cp
	return nil
}

func (s *MemStore) Remove(path string) error {
	if _, ok := s.files[path]; !ok {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrNotExist}
	}
	delete(s.files, path)
	return nil
}

func (s *MemStore) Exists(path string) bool {
	if _, ok := s.files[path]; ok {
		return true
	}
	prefix := path + "/"
	for p := range s.files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func (s *MemStore) List(path string) ([]string, error) {
	prefix := path + "/"
	seen := make(map[string]bool)
	for p := range s.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		name, _, _ := strings.Cut(rest, "/")
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Paths returns every stored file path, sorted. Test helper.
func (s *MemStore) Paths() []string {
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// RecordingTx is a tracker.Transactor that records the calls it
// receives. Commit reports NothingToDo when nothing was staged since
// the matching Begin.
type RecordingTx struct {
	Begun    int
	Staged   []string
	Messages []string
	Rolled   int

	stagedSinceBegin bool
}

func NewTx() *RecordingTx {
	return &RecordingTx{}
}

func (t *RecordingTx) Begin() error {
	t.Begun++
	t.stagedSinceBegin = false
	return nil
}

func (t *RecordingTx) Stage(path string) error {
	t.Staged = append(t.Staged, path)
	t.stagedSinceBegin = true
	return nil
}

func (t *RecordingTx) Commit(message string) (tracker.Outcome, error) {
	if !t.stagedSinceBegin {
		return tracker.NothingToDo, nil
	}
	t.Messages = append(t.Messages, message)
	t.stagedSinceBegin = false
	return tracker.Committed, nil
}

func (t *RecordingTx) Rollback() error {
	t.Rolled++
	t.stagedSinceBegin = false
	return nil
}
