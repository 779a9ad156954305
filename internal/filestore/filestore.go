// Package filestore implements the file operations the sync engine
// needs on top of an afero filesystem, so the same code runs against the
// OS or an in-memory tree.
package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Store performs file operations on an afero filesystem.
type Store struct {
	fs afero.Fs
}

// New returns a store backed by fs.
func New(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// NewOS returns a store backed by the operating system filesystem.
func NewOS() *Store {
	return New(afero.NewOsFs())
}

// Fs returns the underlying filesystem.
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// Exists reports whether path exists. Inaccessible paths count as absent.
func (s *Store) Exists(path string) bool {
	if path == "" {
		return false
	}
	ok, err := afero.Exists(s.fs, path)
	return err == nil && ok
}

// IsDir reports whether path exists and is a directory.
func (s *Store) IsDir(path string) bool {
	ok, err := afero.IsDir(s.fs, path)
	return err == nil && ok
}

// ListDirectories returns the names of the directories directly under
// path, sorted.
func (s *Store) ListDirectories(path string) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", path, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// ReadFile returns the contents of path.
func (s *Store) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(s.fs, path)
}

// WriteFile replaces path with data. The data is written to a temporary
// file in the same directory and renamed into place.
func (s *Store) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := s.EnsureDirectory(dir); err != nil {
		return err
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// EnsureDirectory creates path and any missing parents.
func (s *Store) EnsureDirectory(path string) error {
	if err := s.fs.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}

// CopyTree copies the directory src to dst. An existing dst is removed
// first so the result mirrors src exactly.
func (s *Store) CopyTree(src, dst string) error {
	info, err := s.fs.Stat(src)
	if err != nil {
		return fmt.Errorf("accessing %s: %w", src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("copy source %s is not a directory", src)
	}

	if s.Exists(dst) {
		if err := s.fs.RemoveAll(dst); err != nil {
			return fmt.Errorf("removing existing directory: %w", err)
		}
	}
	if err := s.EnsureDirectory(filepath.Dir(dst)); err != nil {
		return err
	}

	return afero.Walk(s.fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		targetPath := filepath.Join(dst, relPath)

		if info.IsDir() {
			return s.fs.MkdirAll(targetPath, info.Mode().Perm()|0o700)
		}
		return s.copyFile(path, targetPath, info.Mode().Perm())
	})
}

func (s *Store) copyFile(src, dst string, perm os.FileMode) error {
	in, err := s.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := s.fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}
