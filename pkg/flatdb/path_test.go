package flatdb

import (
	"errors"
	"testing"
)

func Test_KeyToPath_PathToKey_Round_Trips(t *testing.T) {
	t.Parallel()

	keys := []string{"hello.md", "2020/01/post.md", "a/b/c/d.md"}

	for _, key := range keys {
		if got := pathToKey(keyToPath(key)); got != key {
			t.Fatalf("round trip of %q = %q", key, got)
		}
	}
}

func Test_ValidateKey_Accepts_Relative_Clean_Keys(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"post.md", "2020/01/post.md", "no-extension", "dot.in.name.md"} {
		if err := validateKey(key); err != nil {
			t.Fatalf("validateKey(%q) = %v, want nil", key, err)
		}
	}
}

func Test_ValidateKey_Rejects_Unsafe_Keys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
	}{
		{name: "empty", key: ""},
		{name: "absolute", key: "/etc/passwd"},
		{name: "parent escape", key: "../outside.md"},
		{name: "inner dotdot", key: "a/../../outside.md"},
		{name: "unclean", key: "a//b.md"},
		{name: "trailing slash", key: "a/"},
		{name: "dot", key: "."},
		{name: "backslash", key: `a\b.md`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateKey(tt.key)
			if !errors.Is(err, ErrInvalidKey) {
				t.Fatalf("validateKey(%q) = %v, want ErrInvalidKey", tt.key, err)
			}
		})
	}
}

func Test_ValidateTableName_Rejects_Nested_Names(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", ".", "..", "a/b", `a\b`} {
		if err := validateTableName(name); err == nil {
			t.Fatalf("validateTableName(%q) = nil, want error", name)
		}
	}

	if err := validateTableName("articles"); err != nil {
		t.Fatalf("validateTableName(articles) = %v, want nil", err)
	}
}
