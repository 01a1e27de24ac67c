package flatdb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/platenpress/platen/pkg/fs"
)

// tableEntry is one file found below a table directory: its key (the
// slash-separated table-relative path) and its raw content.
type tableEntry struct {
	key  string
	data []byte
}

// scanTable walks a table directory depth-first and returns an entry for
// every regular file below it. A missing or empty directory yields zero
// entries and no error. Entries come back in ReadDir order (sorted per
// directory level), though callers must not rely on it.
func scanTable(fsys fs.FS, dir string) ([]tableEntry, error) {
	var entries []tableEntry

	err := walkTable(fsys, dir, "", &entries)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func walkTable(fsys fs.FS, dir string, rel string, out *[]tableEntry) error {
	dirents, err := fsys.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("fs: %w", err)
	}

	for _, ent := range dirents {
		name := ent.Name()

		childRel := name
		if rel != "" {
			childRel = rel + "/" + name
		}

		childPath := filepath.Join(dir, name)

		if ent.IsDir() {
			err := walkTable(fsys, childPath, childRel, out)
			if err != nil {
				return err
			}

			continue
		}

		if !ent.Type().IsRegular() {
			continue
		}

		data, err := fsys.ReadFile(childPath)
		if err != nil {
			return fmt.Errorf("fs: %w", err)
		}

		*out = append(*out, tableEntry{key: pathToKey(childRel), data: data})
	}

	return nil
}
