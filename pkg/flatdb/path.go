package flatdb

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// keyToPath converts a document key into a table-relative filesystem path.
// Keys always use forward slashes, regardless of the host separator.
func keyToPath(key string) string {
	return filepath.FromSlash(key)
}

// pathToKey converts a table-relative filesystem path back into a key.
func pathToKey(rel string) string {
	return filepath.ToSlash(rel)
}

// validateKey rejects keys that cannot be used verbatim as a file path
// below their table directory. All returned errors wrap [ErrInvalidKey].
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}

	if strings.HasPrefix(key, "/") {
		return fmt.Errorf("%w: %q is absolute", ErrInvalidKey, key)
	}

	if path.Clean(key) != key {
		return fmt.Errorf("%w: %q must be clean", ErrInvalidKey, key)
	}

	if key == "." || key == ".." {
		return fmt.Errorf("%w: %q must name a file", ErrInvalidKey, key)
	}

	if strings.HasPrefix(key, "../") {
		return fmt.Errorf("%w: %q escapes the table directory", ErrInvalidKey, key)
	}

	if strings.Contains(key, `\`) {
		return fmt.Errorf("%w: %q must use forward slashes", ErrInvalidKey, key)
	}

	return nil
}

// validateTableName rejects table names that would not map to a single
// directory directly below the root.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty table name", ErrInvalidKey)
	}

	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: table name %q must be a single path element", ErrInvalidKey, name)
	}

	return nil
}
