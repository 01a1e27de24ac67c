// Package fs provides the filesystem abstraction behind the document
// store and the static-site exporter.
//
// The main types are:
//   - [FS]: interface for the filesystem operations the engine performs
//   - [Real]: production implementation using the [os] package
//
// Injecting an [FS] keeps read and write paths testable without a real
// directory tree. The surface is deliberately narrow: there is no Remove
// or RemoveAll because nothing in this codebase deletes user content.
//
// Example usage:
//
//	fsys := fs.NewReal()
//	data, err := fsys.ReadFile("content/articles/hello.md")
//	if err != nil {
//	    return err
//	}
package fs

import (
	"os"
)

// FS defines filesystem operations for reading and writing document trees.
//
// All methods mirror their [os] package equivalents with identical error
// semantics, except [FS.Exists] which folds the not-found case into its
// boolean, and [FS.WriteFileAtomic] which replaces a plain write with a
// temp-file-plus-rename sequence.
//
// Paths use OS semantics (like the os package and path/filepath), not the
// slash-separated paths used by the standard library io/fs package.
type FS interface {
	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to a file atomically.
	// A crash mid-write leaves either the old content or the new,
	// never a truncated mix.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// ReadDir reads a directory and returns its entries. See [os.ReadDir].
	// Entries are sorted by name.
	ReadDir(path string) ([]os.DirEntry, error)

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	// No error if the directory already exists.
	MkdirAll(path string, perm os.FileMode) error

	// Stat returns file info. See [os.Stat].
	// Returns [os.ErrNotExist] if the file doesn't exist.
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)
}
