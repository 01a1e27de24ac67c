package flatdb

import (
	"strings"
)

// legacyMarker delimits the header in the line-oriented legacy grammar:
//
//	---
//	{ "title": "First Post" }
//	---
//
//	The body text.
//
// Older trees were written in this form. The writer never produces it;
// [DecodeLegacy] exists so such trees can still be read and migrated.
const legacyMarker = "---"

// decodeLegacyDocument parses the legacy grammar with a small line state
// machine: skip blank lines, require the opening marker, collect header
// lines until the closing marker, skip blank lines again, and treat
// everything after that as the body.
//
// A missing closing marker is not a structural violation on its own; the
// remaining lines simply become part of the header and fail JSON parsing
// if they are not valid JSON. Bodies are joined with single newlines, so
// trailing newline information is not preserved in this mode.
func decodeLegacyDocument(data []byte) (Document, string, bool, error) {
	const (
		statePre = iota
		stateHeader
		stateSkip
		stateBody
	)

	var (
		headerLines []string
		bodyLines   []string
	)

	state := statePre

	for _, line := range splitLines(string(data)) {
		switch state {
		case statePre:
			if line == "" {
				continue
			}

			if line != legacyMarker {
				return nil, "", false, &StructuralError{Reason: `data file does not start with "---"`}
			}

			state = stateHeader

		case stateHeader:
			if line == legacyMarker {
				state = stateSkip

				continue
			}

			headerLines = append(headerLines, line)

		case stateSkip:
			if strings.TrimSpace(line) == "" {
				continue
			}

			state = stateBody

			bodyLines = append(bodyLines, line)

		case stateBody:
			bodyLines = append(bodyLines, line)
		}
	}

	doc, err := parseHeader(strings.Join(headerLines, "\n"))
	if err != nil {
		return nil, "", false, err
	}

	if len(bodyLines) == 0 {
		return doc, "", false, nil
	}

	return doc, strings.Join(bodyLines, "\n"), true, nil
}

// splitLines splits on newlines without producing a trailing empty
// element for newline-terminated input. CRLF line endings are tolerated.
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")

	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}
