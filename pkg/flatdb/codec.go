package flatdb

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// separator divides the JSON header from the body. The blank line after
// the +++ marker is part of the separator, so a body never starts with
// an accidental leading newline.
const separator = "\n+++\n\n"

// encodeDocument serializes a header and optional body into the on-disk
// document form:
//
//	<compact JSON header> "\n+++\n\n" [body] "\n"
//
// The header is marshaled with sorted keys, so encoding is deterministic
// and re-encoding an unchanged document yields byte-identical files.
func encodeDocument(header Document, body string, hasBody bool) ([]byte, error) {
	hdr, err := json.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("marshal header: %w", err)
	}

	var buf bytes.Buffer

	buf.Grow(len(hdr) + len(separator) + len(body) + 1)
	buf.Write(hdr)
	buf.WriteString(separator)

	if hasBody {
		buf.WriteString(body)
	}

	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// decodeDocument parses the on-disk document form produced by
// [encodeDocument]: strip the single trailing newline, split once on the
// separator, parse the first part as a JSON object. An empty second part
// means the body is absent, so encode/decode round-trips exactly,
// including bodies with trailing newlines of their own.
//
// A file without a separator is treated as a header with no body; if that
// header is not valid JSON the resulting [HeaderError] points straight at
// the malformed text.
func decodeDocument(data []byte) (Document, string, bool, error) {
	data = bytes.TrimSuffix(data, []byte("\n"))

	head, body, _ := bytes.Cut(data, []byte(separator))

	doc, err := parseHeader(string(head))
	if err != nil {
		return nil, "", false, err
	}

	if len(body) == 0 {
		return doc, "", false, nil
	}

	return doc, string(body), true, nil
}

// parseHeader decodes raw as a JSON object, wrapping any failure in a
// [HeaderError] that carries the raw text.
func parseHeader(raw string) (Document, error) {
	var doc Document

	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &HeaderError{Raw: raw, Err: err}
	}

	if doc == nil {
		return nil, &HeaderError{Raw: raw, Err: errors.New("header is not a JSON object")}
	}

	return doc, nil
}
