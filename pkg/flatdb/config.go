package flatdb

import (
	"log/slog"

	"github.com/platenpress/platen/pkg/fs"
)

// DecodeMode selects the document grammar used by [Store.Read].
type DecodeMode int

const (
	// DecodeCanonical reads the header/body form produced by
	// [Store.Write]: a compact JSON header, the +++ separator, an
	// optional body. This is the default.
	DecodeCanonical DecodeMode = iota

	// DecodeLegacy reads the older line-oriented form with --- markers
	// around the header. Trees are one grammar or the other; modes are
	// never mixed within a read.
	DecodeLegacy
)

// Config describes a document tree and how to interpret it.
type Config struct {
	// Root is the directory holding the tree. Each immediate
	// subdirectory of Root is a table. Required.
	Root string

	// KeyField is the reserved document field that carries the key.
	// It is synthesized into every document on read and stripped from
	// the header on write; a value present in an on-disk header is
	// overwritten. Required.
	KeyField string

	// BodyField is the reserved document field that carries the body.
	// Optional. When empty, document bodies are ignored on read and
	// never written.
	BodyField string

	// ReadOnly turns [Store.Write] into a no-op.
	ReadOnly bool

	// Decode selects the document grammar. Defaults to [DecodeCanonical].
	Decode DecodeMode

	// FS is the filesystem the store operates on.
	// Defaults to [fs.NewReal].
	FS fs.FS

	// Logger receives operational warnings, currently only the note
	// that a write was ignored on a read-only store. Defaults to a
	// discarding logger.
	Logger *slog.Logger
}
