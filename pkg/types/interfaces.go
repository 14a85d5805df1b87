package types

import (
	"io"
	"io/fs"
	"time"
)

// FS is the filesystem interface required for cfgmigrate operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Open(name string) (io.ReadCloser, error)
	Create(name string, perm fs.FileMode) (io.WriteCloser, error)

	// Metadata
	Chmod(name string, mode fs.FileMode) error
	Chtimes(name string, atime, mtime time.Time) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)
	EvalSymlinks(path string) (string, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error

	// For filesystems without symlink support, Lstat can fall back to Stat
	Lstat(name string) (fs.FileInfo, error)
}
