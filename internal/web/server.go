// Package web serves the site over HTTP.
//
// Routing uses the standard library mux with method-and-pattern routes.
// Pages are rendered per request from the site's current data view, so
// a content reload takes effect on the next request without restarting
// the server.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/platenpress/platen/internal/content"
	"github.com/platenpress/platen/internal/render"
	"github.com/platenpress/platen/internal/site"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Server renders and serves the site.
type Server struct {
	site     *site.Site
	renderer *render.Renderer
	log      *slog.Logger

	index   *template.Template
	article *template.Template
	page    *template.Template
}

// NewServer builds a [Server] over an already loaded site.
func NewServer(s *site.Site, r *render.Renderer, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	srv := &Server{site: s, renderer: r, log: log}

	for _, t := range []struct {
		dst  **template.Template
		name string
	}{
		{&srv.index, "index.html.tmpl"},
		{&srv.article, "article.html.tmpl"},
		{&srv.page, "page.html.tmpl"},
	} {
		tmpl, err := template.ParseFS(templateFS, "templates/base.html.tmpl", "templates/"+t.name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", t.name, err)
		}

		*t.dst = tmpl
	}

	return srv, nil
}

// Handler returns the routed HTTP handler, logging middleware included.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /articles/{$}", s.handleIndex)
	mux.HandleFunc("GET /articles/{slug...}", s.handleArticle)
	mux.HandleFunc("GET /about/{$}", s.handlePage("about.md"))
	mux.HandleFunc("GET /feed.xml", s.handleFeed)

	if static := s.site.Config().StaticDir; static != "" {
		mux.Handle("GET /static/",
			http.StripPrefix("/static/", http.FileServer(http.Dir(static))))
	}

	return logRequests(s.log, mux)
}

// baseData is the part of the template payload every page shares.
type baseData struct {
	Site site.Config
}

type articleView struct {
	content.Article
	Authors      []content.Author
	Contributors []content.Author
	HTML         template.HTML
}

type indexData struct {
	baseData
	Articles []articleView
}

type articleData struct {
	baseData
	Article articleView
}

type pageData struct {
	baseData
	Title string
	HTML  template.HTML
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := s.site.Data()

	articles := content.NewestFirst(data.Articles.All())
	views := make([]articleView, 0, len(articles))

	for _, a := range articles {
		views = append(views, articleView{
			Article: a,
			Authors: data.AuthorsFor(a.Authors),
		})
	}

	s.render(w, r, s.index, indexData{
		baseData: baseData{Site: s.site.Config()},
		Articles: views,
	})
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSuffix(r.PathValue("slug"), "/")

	data := s.site.Data()

	article, ok := data.Articles.Get(slug + ".md")
	if !ok {
		http.NotFound(w, r)

		return
	}

	html, err := s.renderer.Render(article.Body)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.render(w, r, s.article, articleData{
		baseData: baseData{Site: s.site.Config()},
		Article: articleView{
			Article:      article,
			Authors:      data.AuthorsFor(article.Authors),
			Contributors: data.AuthorsFor(article.Contributors),
			HTML:         html,
		},
	})
}

func (s *Server) handlePage(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := s.site.Data().Pages.Get(key)
		if !ok {
			http.NotFound(w, r)

			return
		}

		html, err := s.renderer.Render(page.Body)
		if err != nil {
			s.fail(w, r, err)

			return
		}

		s.render(w, r, s.page, pageData{
			baseData: baseData{Site: s.site.Config()},
			Title:    page.Title,
			HTML:     html,
		})
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	err := tmpl.ExecuteTemplate(w, "base", data)
	if err != nil {
		// Headers are gone by now; log instead of trying to respond.
		s.log.Error("render failed", "path", r.URL.Path, "error", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed", "path", r.URL.Path, "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
