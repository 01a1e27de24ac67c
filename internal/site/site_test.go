package site_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platenpress/platen/internal/site"
)

// writeDoc writes one document file in the canonical header/body form.
func writeDoc(t *testing.T, root, table, key, header, body string) {
	t.Helper()

	path := filepath.Join(root, table, filepath.FromSlash(key))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	data := header + "\n+++\n\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func contentTree(t *testing.T) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "content")

	writeDoc(t, root, "articles", "2020/01/first.md",
		`{"title":"First Post","date":"2020-01-15","authors":["jane"]}`,
		"Hello **world**.")
	writeDoc(t, root, "articles", "second.md",
		`{"title":"Second Post","date":"2021-06-01T10:30:00Z"}`,
		"")
	writeDoc(t, root, "authors", "jane.md",
		`{"name":"Jane Doe","homepage":"https://jane.example"}`,
		"")
	writeDoc(t, root, "pages", "about.md",
		`{"title":"About"}`,
		"About this site.")

	return root
}

func Test_Site_Load_Decodes_All_Tables(t *testing.T) {
	t.Parallel()

	root := contentTree(t)

	s, err := site.New(site.Config{ContentDir: root}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Load())

	data := s.Data()

	assert.Equal(t, 2, data.Articles.Len())
	assert.Equal(t, 1, data.Authors.Len())
	assert.Equal(t, 1, data.Pages.Len())

	article, ok := data.Articles.Get("2020/01/first.md")
	require.True(t, ok)
	assert.Equal(t, "First Post", article.Title)
	assert.Equal(t, "Hello **world**.", article.Body)
	assert.Equal(t, "2020/01/first", article.URLSlug())
}

func Test_Site_Load_Fails_When_Content_Dir_Is_Absent(t *testing.T) {
	t.Parallel()

	s, err := site.New(site.Config{ContentDir: filepath.Join(t.TempDir(), "nope")}, nil)
	require.NoError(t, err, "construction does not touch the filesystem")

	err = s.Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func Test_Site_Load_Fails_When_A_Document_Is_Malformed(t *testing.T) {
	t.Parallel()

	root := contentTree(t)
	writeDoc(t, root, "articles", "broken.md", `{bad json`, "")

	s, err := site.New(site.Config{ContentDir: root}, nil)
	require.NoError(t, err)

	err = s.Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "{bad json", "error carries the raw header text")
}

func Test_Site_Reload_Keeps_Previous_Data_When_Tree_Breaks(t *testing.T) {
	t.Parallel()

	root := contentTree(t)

	s, err := site.New(site.Config{ContentDir: root}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Load())

	writeDoc(t, root, "articles", "broken.md", `{bad json`, "")

	err = s.Reload()

	require.Error(t, err)
	assert.Equal(t, 2, s.Data().Articles.Len(), "previous view keeps serving")
}

func Test_Site_Reload_Picks_Up_New_Documents(t *testing.T) {
	t.Parallel()

	root := contentTree(t)

	s, err := site.New(site.Config{ContentDir: root}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Load())

	writeDoc(t, root, "articles", "third.md",
		`{"title":"Third Post","date":"2022-03-03"}`, "Body.")

	require.NoError(t, s.Reload())

	assert.Equal(t, 3, s.Data().Articles.Len())
}

func Test_Data_AuthorsFor_Resolves_References_In_Order(t *testing.T) {
	t.Parallel()

	root := contentTree(t)
	writeDoc(t, root, "authors", "ada.md", `{"name":"Ada"}`, "")

	s, err := site.New(site.Config{ContentDir: root}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Load())

	authors := s.Data().AuthorsFor([]string{"ada", "ghost", "jane"})

	require.Len(t, authors, 2, "unknown references are skipped")
	assert.Equal(t, "Ada", authors[0].Name)
	assert.Equal(t, "Jane Doe", authors[1].Name)
}
