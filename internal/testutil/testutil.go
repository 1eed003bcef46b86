// Package testutil provides fixtures for building aged directory trees in
// tests. All file operations use t.TempDir() for safe, isolated testing.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestFixture builds a directory tree with controlled sizes and mtimes.
type TestFixture struct {
	T       *testing.T
	RootDir string // Root temp directory (auto-cleaned)
}

// NewFixture creates a fixture rooted in a fresh temp directory.
func NewFixture(t *testing.T) *TestFixture {
	t.Helper()
	return &TestFixture{T: t, RootDir: t.TempDir()}
}

// Mkdir creates a directory (and parents) under the root and returns its
// absolute path.
func (f *TestFixture) Mkdir(relPath string) string {
	f.T.Helper()
	full := filepath.Join(f.RootDir, relPath)
	if err := os.MkdirAll(full, 0o755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", full, err)
	}
	return full
}

// CreateFile creates a file of the given size in bytes and returns its
// absolute path. Parent directories are created as needed.
func (f *TestFixture) CreateFile(relPath string, size int) string {
	f.T.Helper()

	full := filepath.Join(f.RootDir, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", full, err)
	}
	if err := os.WriteFile(full, make([]byte, size), 0o644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", full, err)
	}
	return full
}

// CreateAgedFile creates a file of the given size with an explicit mtime
// (seconds since the epoch).
func (f *TestFixture) CreateAgedFile(relPath string, size int, mtime int64) string {
	f.T.Helper()

	full := f.CreateFile(relPath, size)
	stamp := time.Unix(mtime, 0)
	if err := os.Chtimes(full, stamp, stamp); err != nil {
		f.T.Fatalf("failed to set mtime on %s: %v", full, err)
	}
	return full
}

// CreateSymlink creates a symbolic link under the root. Skips the test on
// platforms where symlinks are unavailable.
func (f *TestFixture) CreateSymlink(relPath, target string) string {
	f.T.Helper()

	full := filepath.Join(f.RootDir, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", full, err)
	}
	if err := os.Symlink(target, full); err != nil {
		f.T.Skipf("symlinks not supported: %v", err)
	}
	return full
}
