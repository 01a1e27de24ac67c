package flatdb

import (
	"errors"
	"strings"
	"testing"
)

func Test_EncodeDocument_Produces_Header_Separator_Body_Newline(t *testing.T) {
	t.Parallel()

	data, err := encodeDocument(Document{"title": "Hello"}, "The body.", true)
	if err != nil {
		t.Fatalf("encodeDocument: %v", err)
	}

	if got, want := string(data), "{\"title\":\"Hello\"}\n+++\n\nThe body.\n"; got != want {
		t.Fatalf("encoded = %q, want %q", got, want)
	}
}

func Test_EncodeDocument_Writes_Trailing_Newline_Without_Body(t *testing.T) {
	t.Parallel()

	data, err := encodeDocument(Document{}, "", false)
	if err != nil {
		t.Fatalf("encodeDocument: %v", err)
	}

	if got, want := string(data), "{}\n+++\n\n\n"; got != want {
		t.Fatalf("encoded = %q, want %q", got, want)
	}
}

func Test_EncodeDocument_Sorts_Header_Keys(t *testing.T) {
	t.Parallel()

	data, err := encodeDocument(Document{"b": "2", "a": "1", "c": "3"}, "", false)
	if err != nil {
		t.Fatalf("encodeDocument: %v", err)
	}

	if got, want := string(data), "{\"a\":\"1\",\"b\":\"2\",\"c\":\"3\"}\n+++\n\n\n"; got != want {
		t.Fatalf("encoded = %q, want %q", got, want)
	}
}

func Test_DecodeDocument_Round_Trips_Bodies_Exactly(t *testing.T) {
	t.Parallel()

	bodies := []string{
		"plain",
		"trailing newline\n",
		"two trailing\n\n",
		"multi\nline\nbody",
		"contains the separator\n+++\n\nitself",
	}

	for _, body := range bodies {
		data, err := encodeDocument(Document{"k": "v"}, body, true)
		if err != nil {
			t.Fatalf("encode %q: %v", body, err)
		}

		doc, gotBody, hasBody, err := decodeDocument(data)
		if err != nil {
			t.Fatalf("decode %q: %v", body, err)
		}

		if !hasBody {
			t.Fatalf("decode %q: body reported absent", body)
		}

		if gotBody != body {
			t.Fatalf("body = %q, want %q", gotBody, body)
		}

		if got, want := doc["k"], "v"; got != want {
			t.Fatalf("header field = %v, want %v", got, want)
		}
	}
}

func Test_DecodeDocument_Reports_Empty_Body_As_Absent(t *testing.T) {
	t.Parallel()

	// An explicitly empty body encodes to the same bytes as no body at
	// all, so it comes back as absent.
	data, err := encodeDocument(Document{}, "", true)
	if err != nil {
		t.Fatalf("encodeDocument: %v", err)
	}

	_, body, hasBody, err := decodeDocument(data)
	if err != nil {
		t.Fatalf("decodeDocument: %v", err)
	}

	if hasBody || body != "" {
		t.Fatalf("body = (%q, %v), want absent", body, hasBody)
	}
}

func Test_DecodeDocument_Treats_File_Without_Separator_As_Bare_Header(t *testing.T) {
	t.Parallel()

	doc, _, hasBody, err := decodeDocument([]byte("{\"title\":\"Bare\"}\n"))
	if err != nil {
		t.Fatalf("decodeDocument: %v", err)
	}

	if hasBody {
		t.Fatal("body reported present, want absent")
	}

	if got, want := doc["title"], "Bare"; got != want {
		t.Fatalf("title = %v, want %v", got, want)
	}
}

func Test_DecodeDocument_Splits_On_First_Separator_Only(t *testing.T) {
	t.Parallel()

	raw := "{\"k\":\"v\"}\n+++\n\nfirst\n+++\n\nsecond\n"

	_, body, _, err := decodeDocument([]byte(raw))
	if err != nil {
		t.Fatalf("decodeDocument: %v", err)
	}

	if got, want := body, "first\n+++\n\nsecond"; got != want {
		t.Fatalf("body = %q, want %q", got, want)
	}
}

func Test_DecodeDocument_Fails_When_Header_Is_Not_JSON(t *testing.T) {
	t.Parallel()

	_, _, _, err := decodeDocument([]byte("{bad json\n+++\n\nbody\n"))
	if err == nil {
		t.Fatal("decodeDocument: error = nil, want HeaderError")
	}

	var hdrErr *HeaderError
	if !errors.As(err, &hdrErr) {
		t.Fatalf("error %T is not a HeaderError", err)
	}

	if hdrErr.Raw != "{bad json" {
		t.Fatalf("Raw = %q, want %q", hdrErr.Raw, "{bad json")
	}

	if !strings.Contains(err.Error(), "{bad json") {
		t.Fatalf("error %q does not contain the raw header text", err)
	}
}

func Test_DecodeDocument_Requires_The_Full_Separator_Sequence(t *testing.T) {
	t.Parallel()

	// A file cut short before its final newline: the trailing-newline
	// strip eats into the separator, so nothing splits and the whole
	// text is one header that fails to parse as JSON.
	_, _, _, err := decodeDocument([]byte("{\"name\":\"Jane\"}\n+++\n\n"))

	var hdrErr *HeaderError
	if !errors.As(err, &hdrErr) {
		t.Fatalf("error = %v, want HeaderError for truncated file", err)
	}

	if !strings.Contains(hdrErr.Raw, "+++") {
		t.Fatalf("Raw = %q, want the undivided text including the marker", hdrErr.Raw)
	}
}

func Test_DecodeDocument_Fails_When_Header_Is_Not_An_Object(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"null\n+++\n\n\n", "[1,2]\n+++\n\n\n", "42\n+++\n\n\n"} {
		_, _, _, err := decodeDocument([]byte(raw))

		var hdrErr *HeaderError
		if !errors.As(err, &hdrErr) {
			t.Fatalf("decode %q: error = %v, want HeaderError", raw, err)
		}
	}
}
