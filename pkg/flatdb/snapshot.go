package flatdb

import (
	"hash/fnv"
)

// Document is one decoded record: the JSON header fields plus the
// synthesized key field and, when configured, the body field.
//
// Values are the usual encoding/json shapes (string, float64, bool, nil,
// []any, map[string]any).
type Document map[string]any

// EntityID identifies a document within its table.
//
// IDs are derived from the document key via [KeyID] and are therefore
// stable across runs and machines. Two distinct keys hashing to the same
// ID is not detected; the document read last wins.
type EntityID uint64

// Table maps entity IDs to documents.
type Table map[EntityID]Document

// Lookup returns the document stored under the given key.
func (t Table) Lookup(key string) (Document, bool) {
	doc, ok := t[KeyID(key)]

	return doc, ok
}

// Snapshot is a full in-memory copy of the document tree, keyed by table
// name. A nil snapshot means the tree does not exist on disk, which is
// distinct from an empty one.
type Snapshot map[string]Table

// KeyID derives the stable [EntityID] for a document key by hashing its
// UTF-8 bytes with FNV-1a.
func KeyID(key string) EntityID {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))

	return EntityID(h.Sum64())
}
