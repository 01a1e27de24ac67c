// Package flatdb is a document store over a tree of flat files.
//
// It is intentionally designed to keep plain files as the source of truth
// (git-friendly, human-readable diffs): one directory per table, one file
// per document, the document key doubling as the file's table-relative
// path. Slashes in keys become subdirectories, so a key like
// "2020/01/first-post.md" nests naturally.
//
// Each file holds a compact JSON header, a separator line, and an optional
// free-form body:
//
//	{"date":"2020-01-01","title":"First Post"}
//	+++
//
//	The body text, verbatim.
//
// [Store.Read] materializes the whole tree into a [Snapshot];
// [Store.Write] persists a snapshot back, file by file, without ever
// deleting anything it does not recognize.
package flatdb
