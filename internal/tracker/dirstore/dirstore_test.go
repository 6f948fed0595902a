package dirstore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestReadWriteRoundTrip(t *testing.T) {
	s := New(t.TempDir())

	if err := s.Write("issues/ab/cdef/description", []byte("hello\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := s.Read("issues/ab/cdef/description")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello\n" {
		t.Errorf("read back %q", data)
	}
	if !s.Exists("issues/ab/cdef/description") {
		t.Error("Exists should see the written file")
	}
	if !s.Exists("issues/ab/cdef") {
		t.Error("Exists should see the created directory")
	}
}

func TestReadMissing(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Read("nope")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestListSortedAndMissingDirEmpty(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	for _, name := range []string{"zz", "aa", "mm"} {
		if err := os.MkdirAll(filepath.Join(dir, "issues", name), 0755); err != nil {
			t.Fatal(err)
		}
	}

	names, err := s.List("issues")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"aa", "mm", "zz"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	empty, err := s.List("no/such/dir")
	if err != nil {
		t.Fatalf("missing dir must not error, got %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("missing dir = %v, want empty", empty)
	}
}

func TestRemove(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Write("milestone", []byte("1.0\n")); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove("milestone"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if s.Exists("milestone") {
		t.Error("file should be gone")
	}
}
