package record_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platenpress/platen/internal/record"
	"github.com/platenpress/platen/pkg/flatdb"
)

type post struct {
	Slug  string
	Title string
}

func decodePost(doc flatdb.Document) (post, error) {
	slug, err := record.RequireString(doc, "slug", "post")
	if err != nil {
		return post{}, err
	}

	title, err := record.RequireString(doc, "title", "post "+slug)
	if err != nil {
		return post{}, err
	}

	return post{Slug: slug, Title: title}, nil
}

func rawTable(docs ...flatdb.Document) flatdb.Table {
	table := make(flatdb.Table, len(docs))

	for _, doc := range docs {
		key, _ := doc["slug"].(string)
		table[flatdb.KeyID(key)] = doc
	}

	return table
}

func Test_NewTable_Orders_Rows_By_Document_Key(t *testing.T) {
	t.Parallel()

	src := rawTable(
		flatdb.Document{"slug": "c.md", "title": "C"},
		flatdb.Document{"slug": "a.md", "title": "A"},
		flatdb.Document{"slug": "b.md", "title": "B"},
	)

	table, err := record.NewTable("posts", "slug", src, decodePost)
	require.NoError(t, err, "NewTable should decode valid documents")

	want := []post{
		{Slug: "a.md", Title: "A"},
		{Slug: "b.md", Title: "B"},
		{Slug: "c.md", Title: "C"},
	}

	diff := cmp.Diff(want, table.All())
	assert.Empty(t, diff, "All should return rows in key order")
}

func Test_NewTable_Fails_When_A_Document_Does_Not_Decode(t *testing.T) {
	t.Parallel()

	src := rawTable(
		flatdb.Document{"slug": "ok.md", "title": "OK"},
		flatdb.Document{"slug": "bad.md"},
	)

	_, err := record.NewTable("posts", "slug", src, decodePost)
	require.Error(t, err, "NewTable should surface decode failures")
	assert.Contains(t, err.Error(), "table posts", "error should name the table")
	assert.Contains(t, err.Error(), "title", "error should name the missing field")
}

func Test_Table_Get_Looks_Up_By_Key(t *testing.T) {
	t.Parallel()

	src := rawTable(flatdb.Document{"slug": "a.md", "title": "A"})

	table, err := record.NewTable("posts", "slug", src, decodePost)
	require.NoError(t, err)

	got, ok := table.Get("a.md")
	require.True(t, ok, "Get should find an existing key")
	assert.Equal(t, "A", got.Title)

	_, ok = table.Get("missing.md")
	assert.False(t, ok, "Get should miss for an unknown key")
}

func Test_Table_Search_Filters_In_Key_Order(t *testing.T) {
	t.Parallel()

	src := rawTable(
		flatdb.Document{"slug": "b.md", "title": "match"},
		flatdb.Document{"slug": "a.md", "title": "match"},
		flatdb.Document{"slug": "c.md", "title": "other"},
	)

	table, err := record.NewTable("posts", "slug", src, decodePost)
	require.NoError(t, err)

	got := table.Search(func(p post) bool { return p.Title == "match" })

	want := []post{
		{Slug: "a.md", Title: "match"},
		{Slug: "b.md", Title: "match"},
	}

	diff := cmp.Diff(want, got)
	assert.Empty(t, diff, "Search should keep key order")
}

func Test_Table_All_Returns_A_Copy(t *testing.T) {
	t.Parallel()

	src := rawTable(flatdb.Document{"slug": "a.md", "title": "A"})

	table, err := record.NewTable("posts", "slug", src, decodePost)
	require.NoError(t, err)

	first := table.All()
	first[0].Title = "mutated"

	second := table.All()
	assert.Equal(t, "A", second[0].Title, "mutating a returned slice must not affect the table")
}

func Test_RequireString_Validates_Presence_Type_And_Content(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		doc     flatdb.Document
		wantErr string
	}{
		{name: "missing", doc: flatdb.Document{}, wantErr: "missing required field"},
		{name: "wrong type", doc: flatdb.Document{"title": 42.0}, wantErr: "must be a string"},
		{name: "empty", doc: flatdb.Document{"title": ""}, wantErr: "cannot be empty"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := record.RequireString(testCase.doc, "title", "post x")
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.wantErr)
			assert.Contains(t, err.Error(), "post x", "error should carry the document label")
		})
	}

	got, err := record.RequireString(flatdb.Document{"title": "ok"}, "title", "post x")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func Test_OptionalString_Treats_Absent_As_Empty(t *testing.T) {
	t.Parallel()

	got, err := record.OptionalString(flatdb.Document{}, "homepage", "author x")
	require.NoError(t, err, "absent optional field is not an error")
	assert.Equal(t, "", got)

	_, err = record.OptionalString(flatdb.Document{"homepage": ""}, "homepage", "author x")
	require.Error(t, err, "present but empty optional field is an error")
}

func Test_StringList_Decodes_And_Deduplicates(t *testing.T) {
	t.Parallel()

	doc := flatdb.Document{"authors": []any{"jane", "joe", "jane"}}

	got, err := record.StringList(doc, "authors", "article x")
	require.NoError(t, err)
	assert.Equal(t, []string{"jane", "joe"}, got, "duplicates drop, first occurrence wins")
}

func Test_StringList_Fails_On_Non_String_Items(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		doc  flatdb.Document
	}{
		{name: "not a list", doc: flatdb.Document{"authors": "jane"}},
		{name: "numeric item", doc: flatdb.Document{"authors": []any{"jane", 7.0}}},
		{name: "empty item", doc: flatdb.Document{"authors": []any{""}}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := record.StringList(testCase.doc, "authors", "article x")
			require.Error(t, err)
		})
	}
}

func Test_StringList_Returns_Nil_When_Field_Absent(t *testing.T) {
	t.Parallel()

	got, err := record.StringList(flatdb.Document{}, "authors", "article x")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func Test_RequireTime_Accepts_RFC3339_And_Bare_Dates(t *testing.T) {
	t.Parallel()

	doc := flatdb.Document{
		"published": "2020-03-01T12:30:00Z",
		"date":      "2020-03-01",
	}

	full, err := record.RequireTime(doc, "published", "article x")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 3, 1, 12, 30, 0, 0, time.UTC), full)

	bare, err := record.RequireTime(doc, "date", "article x")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), bare)
}

func Test_RequireTime_Fails_On_Garbage(t *testing.T) {
	t.Parallel()

	_, err := record.RequireTime(flatdb.Document{"date": "yesterday-ish"}, "date", "article x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yesterday-ish", "error should quote the bad value")
}

func Test_ExtraFields_Returns_Unclaimed_Fields_Only(t *testing.T) {
	t.Parallel()

	doc := flatdb.Document{
		"slug":   "a.md",
		"title":  "A",
		"series": "go-internals",
		"draft":  true,
	}

	got := record.ExtraFields(doc, "slug", "title")

	want := map[string]any{"series": "go-internals", "draft": true}
	diff := cmp.Diff(want, got)
	assert.Empty(t, diff)

	assert.Nil(t, record.ExtraFields(doc, "slug", "title", "series", "draft"),
		"fully claimed document has no extra fields")
}
