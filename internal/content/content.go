// Package content defines the entities stored in a site's content tree
// and their decoders.
//
// The tree layout is fixed: one table per entity type, keyed by slug,
// with the markdown body in the content field.
//
//	content/
//	  articles/2020/01/first-post.md
//	  authors/jane.md
//	  pages/about.md
package content

import (
	"slices"
	"strings"
	"time"
)

// Reserved document fields of a content store.
const (
	KeyField  = "slug"
	BodyField = "content"
)

// Table names of a content store.
const (
	TableArticles = "articles"
	TableAuthors  = "authors"
	TablePages    = "pages"
)

// Article is one post, stored under articles/. Slashes in the slug mean
// the file sits in a subdirectory; listings do not care.
type Article struct {
	// Slug is the document key, e.g. "2020/01/first-post.md".
	Slug string

	// Title is the display title.
	Title string

	// Date is the publication timestamp. Bare dates midnight UTC.
	Date time.Time

	// Authors lists author references, matched against [Author.Ref].
	Authors []string

	// Contributors lists additional author references credited below
	// the byline.
	Contributors []string

	// Body is the raw markdown body. Empty when the file has none.
	Body string

	// Extra holds header fields the decoder did not claim.
	Extra map[string]any
}

// URLSlug is the slug as it appears in URLs, without the .md suffix.
func (a Article) URLSlug() string {
	return strings.TrimSuffix(a.Slug, ".md")
}

// Author is one author profile, stored under authors/.
type Author struct {
	// Slug is the document key, e.g. "jane.md".
	Slug string

	// Name is the display name.
	Name string

	// Homepage is the author's site. Optional.
	Homepage string

	// Extra holds header fields the decoder did not claim.
	Extra map[string]any
}

// Ref is the name articles use to reference this author: the slug
// without its .md suffix.
func (a Author) Ref() string {
	return strings.TrimSuffix(a.Slug, ".md")
}

// Link returns where the author's name should point.
// Currently just the homepage; a bio page could hang here later.
func (a Author) Link() string {
	return a.Homepage
}

// Page is one standalone page, stored under pages/.
type Page struct {
	// Slug is the document key, e.g. "about.md".
	Slug string

	// Title is the display title.
	Title string

	// Body is the raw markdown body. Empty when the file has none.
	Body string

	// Extra holds header fields the decoder did not claim.
	Extra map[string]any
}

// URLSlug is the slug as it appears in URLs, without the .md suffix.
func (p Page) URLSlug() string {
	return strings.TrimSuffix(p.Slug, ".md")
}

// NewestFirst returns articles sorted by date, newest first. Articles
// sharing a date order by slug so the result is deterministic.
func NewestFirst(articles []Article) []Article {
	out := slices.Clone(articles)

	slices.SortFunc(out, func(a, b Article) int {
		if !a.Date.Equal(b.Date) {
			if a.Date.After(b.Date) {
				return -1
			}

			return 1
		}

		return strings.Compare(a.Slug, b.Slug)
	})

	return out
}
