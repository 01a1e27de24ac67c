package content

import (
	"github.com/platenpress/platen/internal/record"
	"github.com/platenpress/platen/pkg/flatdb"
)

// DecodeArticle builds an [Article] from a raw document.
func DecodeArticle(doc flatdb.Document) (Article, error) {
	slug, err := record.RequireString(doc, KeyField, "article")
	if err != nil {
		return Article{}, err
	}

	label := "article " + slug

	title, err := record.RequireString(doc, "title", label)
	if err != nil {
		return Article{}, err
	}

	date, err := record.RequireTime(doc, "date", label)
	if err != nil {
		return Article{}, err
	}

	authors, err := record.StringList(doc, "authors", label)
	if err != nil {
		return Article{}, err
	}

	contributors, err := record.StringList(doc, "contributors", label)
	if err != nil {
		return Article{}, err
	}

	body, err := record.OptionalString(doc, BodyField, label)
	if err != nil {
		return Article{}, err
	}

	return Article{
		Slug:         slug,
		Title:        title,
		Date:         date,
		Authors:      authors,
		Contributors: contributors,
		Body:         body,
		Extra:        record.ExtraFields(doc, KeyField, "title", "date", "authors", "contributors", BodyField),
	}, nil
}

// DecodeAuthor builds an [Author] from a raw document.
func DecodeAuthor(doc flatdb.Document) (Author, error) {
	slug, err := record.RequireString(doc, KeyField, "author")
	if err != nil {
		return Author{}, err
	}

	label := "author " + slug

	name, err := record.RequireString(doc, "name", label)
	if err != nil {
		return Author{}, err
	}

	homepage, err := record.OptionalString(doc, "homepage", label)
	if err != nil {
		return Author{}, err
	}

	return Author{
		Slug:     slug,
		Name:     name,
		Homepage: homepage,
		Extra:    record.ExtraFields(doc, KeyField, "name", "homepage", BodyField),
	}, nil
}

// DecodePage builds a [Page] from a raw document.
func DecodePage(doc flatdb.Document) (Page, error) {
	slug, err := record.RequireString(doc, KeyField, "page")
	if err != nil {
		return Page{}, err
	}

	label := "page " + slug

	title, err := record.RequireString(doc, "title", label)
	if err != nil {
		return Page{}, err
	}

	body, err := record.OptionalString(doc, BodyField, label)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Slug:  slug,
		Title: title,
		Body:  body,
		Extra: record.ExtraFields(doc, KeyField, "title", BodyField),
	}, nil
}
