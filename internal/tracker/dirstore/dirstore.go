// Package dirstore implements tracker.Store on a real directory tree.
// This is the production adapter: the directory is the work tree of the
// git repository that records issue history.
package dirstore

import (
	"os"
	"path/filepath"
	"sort"
)

// DirStore reads and writes files relative to a root directory.
type DirStore struct {
	root string
}

// New returns a DirStore rooted at root.
func New(root string) *DirStore {
	return &DirStore{root: root}
}

// Root returns the absolute directory the store operates on.
func (s *DirStore) Root() string { return s.root }

func (s *DirStore) abs(path string) string {
	return filepath.Join(s.root, filepath.FromSlash(path))
}

// Read returns the contents of the file at path.
func (s *DirStore) Read(path string) ([]byte, error) {
	return os.ReadFile(s.abs(path))
}

// Write creates or replaces the file at path, creating parents.
func (s *DirStore) Write(path string, data []byte) error {
	p := s.abs(path)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0644)
}

// Remove deletes the file at path.
func (s *DirStore) Remove(path string) error {
	return os.Remove(s.abs(path))
}

// Exists reports whether path exists.
func (s *DirStore) Exists(path string) bool {
	_, err := os.Stat(s.abs(path))
	return err == nil
}

// List returns the sorted entry names of the directory at path. A
// missing directory is an empty list, not an error.
func (s *DirStore) List(path string) ([]string, error) {
	entries, err := os.ReadDir(s.abs(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
