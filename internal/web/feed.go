package web

import (
	"net/http"
	"strings"

	"github.com/gorilla/feeds"

	"github.com/platenpress/platen/internal/content"
)

// handleFeed serves the Atom feed of the newest articles, bodies
// rendered to HTML. Without a configured base URL links stay relative,
// which most readers tolerate but the freezer warns about.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	cfg := s.site.Config()
	data := s.site.Data()

	articles := content.NewestFirst(data.Articles.All())
	if cfg.FeedSize > 0 && len(articles) > cfg.FeedSize {
		articles = articles[:cfg.FeedSize]
	}

	base := strings.TrimSuffix(cfg.BaseURL, "/")

	feed := &feeds.Feed{
		Title:       cfg.Title,
		Description: cfg.Description,
		Link:        &feeds.Link{Href: base + "/"},
	}

	for _, a := range articles {
		html, err := s.renderer.Render(a.Body)
		if err != nil {
			s.fail(w, r, err)

			return
		}

		item := &feeds.Item{
			Title:   a.Title,
			Link:    &feeds.Link{Href: base + "/articles/" + a.URLSlug() + "/"},
			Id:      base + "/articles/" + a.URLSlug() + "/",
			Created: a.Date,
			Content: string(html),
		}

		if authors := data.AuthorsFor(a.Authors); len(authors) > 0 {
			item.Author = &feeds.Author{Name: authors[0].Name}
		}

		feed.Items = append(feed.Items, item)

		if feed.Updated.Before(a.Date) {
			feed.Updated = a.Date
		}
	}

	atom, err := feed.ToAtom()
	if err != nil {
		s.fail(w, r, err)

		return
	}

	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	_, _ = w.Write([]byte(atom))
}
