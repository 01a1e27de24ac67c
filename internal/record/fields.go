package record

import (
	"fmt"
	"slices"
	"time"

	"github.com/platenpress/platen/pkg/flatdb"
)

// RequireString returns the string stored under key. Missing, non-string
// and empty values are errors. label names the document in error messages.
func RequireString(doc flatdb.Document, key string, label string) (string, error) {
	value, ok := doc[key]
	if !ok {
		return "", fmt.Errorf("decode %s: missing required field %q", label, key)
	}

	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("decode %s: field %q must be a string, got %T", label, key, value)
	}

	if s == "" {
		return "", fmt.Errorf("decode %s: field %q cannot be empty", label, key)
	}

	return s, nil
}

// OptionalString returns the string stored under key, or "" when the
// field is absent. A present field must be a non-empty string.
func OptionalString(doc flatdb.Document, key string, label string) (string, error) {
	if _, ok := doc[key]; !ok {
		return "", nil
	}

	return RequireString(doc, key, label)
}

// StringList returns the list of strings stored under key, or nil when
// the field is absent. Duplicates are dropped, first occurrence wins.
func StringList(doc flatdb.Document, key string, label string) ([]string, error) {
	value, ok := doc[key]
	if !ok {
		return nil, nil
	}

	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("decode %s: field %q must be a list of strings, got %T", label, key, value)
	}

	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))

	for _, raw := range list {
		item, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("decode %s: field %q contains a %T, want string", label, key, raw)
		}

		if item == "" {
			return nil, fmt.Errorf("decode %s: field %q contains an empty list item", label, key)
		}

		if _, exists := seen[item]; exists {
			continue
		}

		seen[item] = struct{}{}
		out = append(out, item)
	}

	return out, nil
}

// RequireTime parses the timestamp stored under key. Both full RFC3339
// timestamps and bare YYYY-MM-DD dates are accepted; results are UTC.
func RequireTime(doc flatdb.Document, key string, label string) (time.Time, error) {
	raw, err := RequireString(doc, key, label)
	if err != nil {
		return time.Time{}, err
	}

	ts, err := ParseTime(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode %s: field %q: %w", label, key, err)
	}

	return ts, nil
}

// ParseTime parses value as RFC3339, falling back to a bare date.
func ParseTime(value string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return ts.UTC(), nil
	}

	ts, dateErr := time.Parse(time.DateOnly, value)
	if dateErr != nil {
		return time.Time{}, fmt.Errorf("timestamp %q is neither RFC3339 nor YYYY-MM-DD", value)
	}

	return ts.UTC(), nil
}

// ExtraFields copies the fields of doc that no decoder claimed. Returns
// nil when nothing is left over.
func ExtraFields(doc flatdb.Document, claimed ...string) map[string]any {
	var out map[string]any

	for k, v := range doc {
		if slices.Contains(claimed, k) {
			continue
		}

		if out == nil {
			out = make(map[string]any)
		}

		out[k] = v
	}

	return out
}
