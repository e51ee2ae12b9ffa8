package engine

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FS is the filesystem capability the engine consumes: reading sources,
// glob-matched inclusion, atomic-enough output writing, and marker-file
// touching for the incremental dependency tracker. The default is the host
// filesystem; tests inject their own.
type FS interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm fs.FileMode) error
	Glob(pattern string) ([]string, error)
	Rename(oldpath, newpath string) error
	MkdirAll(path string, perm fs.FileMode) error

	// Touch refreshes the file's modification time, creating it empty if
	// missing.
	Touch(path string) error
}

// osFS is the host-filesystem implementation of FS.
type osFS struct{}

// OSFilesystem returns the host-filesystem capability.
func OSFilesystem() FS { return osFS{} }

func (osFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (osFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (osFS) Glob(pattern string) ([]string, error) { return filepath.Glob(pattern) }

func (osFS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }

func (osFS) MkdirAll(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }

func (osFS) Touch(path string) error {
	now := time.Now()
	if err := os.Chtimes(path, now, now); err == nil {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}
