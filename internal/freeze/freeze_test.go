package freeze_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platenpress/platen/internal/freeze"
	"github.com/platenpress/platen/internal/render"
	"github.com/platenpress/platen/internal/site"
	"github.com/platenpress/platen/internal/web"
)

func writeDoc(t *testing.T, root, table, key, header, body string) {
	t.Helper()

	path := filepath.Join(root, table, filepath.FromSlash(key))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	data := header + "\n+++\n\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func testSite(t *testing.T) (*site.Site, http.Handler) {
	t.Helper()

	dir := t.TempDir()
	root := filepath.Join(dir, "content")
	static := filepath.Join(dir, "static")

	writeDoc(t, root, "articles", "2020/01/first.md",
		`{"title":"First Post","date":"2020-01-15"}`, "Hello.")
	writeDoc(t, root, "articles", "second.md",
		`{"title":"Second Post","date":"2021-06-01"}`, "World.")
	writeDoc(t, root, "pages", "about.md", `{"title":"About"}`, "About.")

	require.NoError(t, os.MkdirAll(filepath.Join(static, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "style.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, "img", "logo.png"), []byte("png"), 0o644))

	cfg := site.Config{
		Title:      "Frozen Site",
		BaseURL:    "https://example.org",
		ContentDir: root,
		StaticDir:  static,
	}

	s, err := site.New(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, s.Load())

	srv, err := web.NewServer(s, render.New("/static/"), nil)
	require.NoError(t, err)

	return s, srv.Handler()
}

func Test_Freeze_Writes_Every_Site_URL(t *testing.T) {
	t.Parallel()

	s, handler := testSite(t)
	out := filepath.Join(t.TempDir(), "build")

	err := freeze.New(s, handler, nil).Freeze(context.Background(), out)
	require.NoError(t, err)

	for _, rel := range []string{
		"index.html",
		"feed.xml",
		"articles/2020/01/first/index.html",
		"articles/second/index.html",
		"about/index.html",
		"static/style.css",
		"static/img/logo.png",
	} {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(rel)))
	}
}

func Test_Freeze_Output_Matches_The_Live_Handler(t *testing.T) {
	t.Parallel()

	s, handler := testSite(t)
	out := filepath.Join(t.TempDir(), "build")

	require.NoError(t, freeze.New(s, handler, nil).Freeze(context.Background(), out))

	frozen, err := os.ReadFile(filepath.Join(out, "articles", "second", "index.html"))
	require.NoError(t, err)

	assert.Contains(t, string(frozen), "Second Post")
	assert.Contains(t, string(frozen), "<p>World.</p>")
}

func Test_Freeze_Fails_When_A_Page_Does_Not_Render(t *testing.T) {
	t.Parallel()

	s, _ := testSite(t)
	out := filepath.Join(t.TempDir(), "build")

	// A handler that knows none of the site's URLs: every render 404s.
	err := freeze.New(s, http.NotFoundHandler(), nil).Freeze(context.Background(), out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "got status 404")
}

func Test_Freeze_Overwrites_But_Never_Deletes(t *testing.T) {
	t.Parallel()

	s, handler := testSite(t)
	out := filepath.Join(t.TempDir(), "build")

	stale := filepath.Join(out, "articles", "removed", "index.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old page"), 0o644))

	require.NoError(t, freeze.New(s, handler, nil).Freeze(context.Background(), out))

	data, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.Equal(t, "old page", string(data), "freeze must leave unknown output alone")
}
