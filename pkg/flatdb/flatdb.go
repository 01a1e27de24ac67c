package flatdb

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/platenpress/platen/pkg/fs"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Store reads and writes a document tree.
//
// A Store is cheap to construct and holds no open resources; all state
// lives in the files. Operations are synchronous and single-threaded:
// nothing coordinates concurrent readers and writers, and a tree mutated
// between Read and Write will silently lose those mutations. Callers that
// need coordination must provide their own.
type Store struct {
	cfg  Config
	root string
	fsys fs.FS
	log  *slog.Logger
}

// Open validates cfg and returns a [Store] for the configured tree.
//
// The root directory does not have to exist; [Store.Read] reports such a
// tree as absent and [Store.Write] creates it.
//
// Required [Config] fields: Root, KeyField.
func Open(cfg Config) (*Store, error) {
	if cfg.Root == "" {
		return nil, errors.New("Config.Root is required")
	}

	if cfg.KeyField == "" {
		return nil, errors.New("Config.KeyField is required")
	}

	if cfg.BodyField != "" && cfg.BodyField == cfg.KeyField {
		return nil, errors.New("Config.BodyField must differ from Config.KeyField")
	}

	if cfg.Decode != DecodeCanonical && cfg.Decode != DecodeLegacy {
		return nil, fmt.Errorf("Config.Decode %d is not a known decode mode", cfg.Decode)
	}

	fsys := cfg.FS
	if fsys == nil {
		fsys = fs.NewReal()
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Store{
		cfg:  cfg,
		root: filepath.Clean(cfg.Root),
		fsys: fsys,
		log:  log,
	}, nil
}

// Read materializes the whole tree into a [Snapshot].
//
// A nonexistent root returns (nil, nil): the tree is absent, which is
// not an error and not the same as an existing empty tree. Every
// immediate subdirectory of the root becomes a table; files directly in
// the root are ignored. A table directory without files yields an empty,
// non-nil [Table].
//
// The first document that fails to decode aborts the read; the returned
// error carries the table and key of the offending file.
func (s *Store) Read() (Snapshot, error) {
	exists, err := s.fsys.Exists(s.root)
	if err != nil {
		return nil, fmt.Errorf("stat root: fs: %w", err)
	}

	if !exists {
		return nil, nil
	}

	dirents, err := s.fsys.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read root: fs: %w", err)
	}

	snap := make(Snapshot)

	for _, ent := range dirents {
		if !ent.IsDir() {
			continue
		}

		table, err := s.readTable(ent.Name())
		if err != nil {
			return nil, err
		}

		snap[ent.Name()] = table
	}

	return snap, nil
}

func (s *Store) readTable(name string) (Table, error) {
	entries, err := scanTable(s.fsys, filepath.Join(s.root, name))
	if err != nil {
		return nil, withContext(fmt.Errorf("scan table: %w", err), name, "")
	}

	table := make(Table, len(entries))

	for _, entry := range entries {
		doc, err := s.decodeEntry(entry)
		if err != nil {
			return nil, withContext(err, name, entry.key)
		}

		table[KeyID(entry.key)] = doc
	}

	return table, nil
}

// decodeEntry decodes one file and synthesizes the reserved fields: the
// body (if one is configured and present) and the key. The key always
// wins over whatever the on-disk header may have carried in those fields.
func (s *Store) decodeEntry(entry tableEntry) (Document, error) {
	var (
		doc     Document
		body    string
		hasBody bool
		err     error
	)

	switch s.cfg.Decode {
	case DecodeLegacy:
		doc, body, hasBody, err = decodeLegacyDocument(entry.data)
	default:
		doc, body, hasBody, err = decodeDocument(entry.data)
	}

	if err != nil {
		return nil, err
	}

	if s.cfg.BodyField != "" && hasBody {
		doc[s.cfg.BodyField] = body
	}

	doc[s.cfg.KeyField] = entry.key

	return doc, nil
}

// Write persists a snapshot back to the tree.
//
// On a read-only store Write does nothing and returns nil, logging a
// single warning. Otherwise it creates the root, one directory per
// table, and any intermediate directories that slash-separated keys call
// for, then writes each document atomically. The caller's snapshot is
// not mutated.
//
// Write never deletes: documents and tables present on disk but absent
// from the snapshot are left untouched.
func (s *Store) Write(snap Snapshot) error {
	if s.cfg.ReadOnly {
		s.log.Warn("write ignored, store is read-only", "root", s.root)

		return nil
	}

	err := s.fsys.MkdirAll(s.root, dirPerm)
	if err != nil {
		return fmt.Errorf("create root: fs: %w", err)
	}

	for name, table := range snap {
		err := s.writeTable(name, table)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) writeTable(name string, table Table) error {
	err := validateTableName(name)
	if err != nil {
		return withContext(err, name, "")
	}

	dir := filepath.Join(s.root, name)

	err = s.fsys.MkdirAll(dir, dirPerm)
	if err != nil {
		return withContext(fmt.Errorf("create table dir: fs: %w", err), name, "")
	}

	for _, doc := range table {
		err := s.writeDocument(dir, name, doc)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) writeDocument(dir string, table string, doc Document) error {
	key, err := s.documentKey(doc)
	if err != nil {
		return withContext(err, table, "")
	}

	err = validateKey(key)
	if err != nil {
		return withContext(err, table, key)
	}

	header, body, hasBody, err := s.splitDocument(doc)
	if err != nil {
		return withContext(err, table, key)
	}

	data, err := encodeDocument(header, body, hasBody)
	if err != nil {
		return withContext(err, table, key)
	}

	target := filepath.Join(dir, keyToPath(key))

	if parent := filepath.Dir(target); parent != dir {
		err := s.fsys.MkdirAll(parent, dirPerm)
		if err != nil {
			return withContext(fmt.Errorf("create document dir: fs: %w", err), table, key)
		}
	}

	err = s.fsys.WriteFileAtomic(target, data, filePerm)
	if err != nil {
		return withContext(fmt.Errorf("write document: fs: %w", err), table, key)
	}

	return nil
}

func (s *Store) documentKey(doc Document) (string, error) {
	raw, ok := doc[s.cfg.KeyField]
	if !ok {
		return "", ErrMissingKey
	}

	key, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q is %T, want string", ErrInvalidKey, s.cfg.KeyField, raw)
	}

	return key, nil
}

// splitDocument copies doc minus the reserved fields into a header and
// extracts the body value, leaving the caller's map untouched.
func (s *Store) splitDocument(doc Document) (Document, string, bool, error) {
	header := make(Document, len(doc))

	for k, v := range doc {
		header[k] = v
	}

	delete(header, s.cfg.KeyField)

	if s.cfg.BodyField == "" {
		return header, "", false, nil
	}

	raw, ok := header[s.cfg.BodyField]
	if !ok {
		return header, "", false, nil
	}

	delete(header, s.cfg.BodyField)

	body, ok := raw.(string)
	if !ok {
		return nil, "", false, fmt.Errorf("body field %q is %T, want string", s.cfg.BodyField, raw)
	}

	return header, body, true, nil
}
