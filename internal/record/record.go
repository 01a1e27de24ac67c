// Package record maps raw store documents onto typed values.
//
// Each entity type supplies an explicit [DecodeFunc]; there is no
// reflection and no struct tags. Fields a decoder does not claim stay
// reachable through [ExtraFields], so adding a field to a content file
// never breaks decoding.
package record

import (
	"fmt"
	"slices"
	"strings"

	"github.com/platenpress/platen/pkg/flatdb"
)

// DecodeFunc turns one raw document into its typed value.
type DecodeFunc[T any] func(flatdb.Document) (T, error)

// Table is an immutable typed view over one snapshot table.
//
// Rows are decoded once at construction and ordered by document key, so
// iteration order is stable across runs.
type Table[T any] struct {
	name    string
	byID    map[flatdb.EntityID]T
	ordered []T
}

// NewTable decodes every document in src with decode. keyField names the
// reserved field carrying the document key; it orders the rows.
//
// The first document that fails to decode aborts construction.
func NewTable[T any](name string, keyField string, src flatdb.Table, decode DecodeFunc[T]) (*Table[T], error) {
	type row struct {
		key string
		val T
	}

	rows := make([]row, 0, len(src))
	byID := make(map[flatdb.EntityID]T, len(src))

	for id, doc := range src {
		key, _ := doc[keyField].(string)

		val, err := decode(doc)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", name, err)
		}

		byID[id] = val
		rows = append(rows, row{key: key, val: val})
	}

	slices.SortFunc(rows, func(a, b row) int {
		return strings.Compare(a.key, b.key)
	})

	ordered := make([]T, len(rows))
	for i, r := range rows {
		ordered[i] = r.val
	}

	return &Table[T]{name: name, byID: byID, ordered: ordered}, nil
}

// Name returns the table name.
func (t *Table[T]) Name() string {
	return t.name
}

// Len returns the number of rows.
func (t *Table[T]) Len() int {
	return len(t.ordered)
}

// All returns every row, ordered by document key.
func (t *Table[T]) All() []T {
	return slices.Clone(t.ordered)
}

// Get returns the row stored under the given document key.
func (t *Table[T]) Get(key string) (T, bool) {
	val, ok := t.byID[flatdb.KeyID(key)]

	return val, ok
}

// Search returns the rows matching pred, in key order.
func (t *Table[T]) Search(pred func(T) bool) []T {
	var out []T

	for _, val := range t.ordered {
		if pred(val) {
			out = append(out, val)
		}
	}

	return out
}
