// Package site assembles one content tree into typed tables.
//
// A [Site] owns the document store and the decoded views over it. The
// store is opened read-only: the web layer and the freezer only ever
// consume content, they never write it back.
package site

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/platenpress/platen/internal/content"
	"github.com/platenpress/platen/internal/record"
	"github.com/platenpress/platen/pkg/flatdb"
)

// Data is one consistent decoded view of the content tree. It is
// immutable once built; Reload swaps in a fresh one.
type Data struct {
	Articles *record.Table[content.Article]
	Authors  *record.Table[content.Author]
	Pages    *record.Table[content.Page]
}

// Site binds a read-only document store to its typed tables.
type Site struct {
	cfg   Config
	store *flatdb.Store
	log   *slog.Logger

	mu   sync.RWMutex
	data *Data
}

// New opens the content store for cfg. Call [Site.Load] before serving.
func New(cfg Config, log *slog.Logger) (*Site, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	store, err := flatdb.Open(flatdb.Config{
		Root:      cfg.ContentDir,
		KeyField:  content.KeyField,
		BodyField: content.BodyField,
		ReadOnly:  true,
		Logger:    log,
	})
	if err != nil {
		return nil, fmt.Errorf("open content store: %w", err)
	}

	return &Site{cfg: cfg, store: store, log: log}, nil
}

// Config returns the site configuration.
func (s *Site) Config() Config {
	return s.cfg
}

// Load reads the content tree and decodes it into typed tables.
//
// An absent content tree is an error here, unlike at the store level: a
// site without content cannot serve anything, so the caller should hear
// about the missing directory up front.
func (s *Site) Load() error {
	data, err := s.read()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()

	return nil
}

// Reload re-reads the content tree. On failure the previous view stays
// in place so the site keeps serving the last good state.
func (s *Site) Reload() error {
	data, err := s.read()
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()

	s.log.Info("content reloaded",
		"articles", data.Articles.Len(),
		"authors", data.Authors.Len(),
		"pages", data.Pages.Len())

	return nil
}

func (s *Site) read() (*Data, error) {
	snap, err := s.store.Read()
	if err != nil {
		return nil, err
	}

	if snap == nil {
		return nil, fmt.Errorf("content directory %s does not exist", s.cfg.ContentDir)
	}

	articles, err := record.NewTable(content.TableArticles, content.KeyField,
		snap[content.TableArticles], content.DecodeArticle)
	if err != nil {
		return nil, err
	}

	authors, err := record.NewTable(content.TableAuthors, content.KeyField,
		snap[content.TableAuthors], content.DecodeAuthor)
	if err != nil {
		return nil, err
	}

	pages, err := record.NewTable(content.TablePages, content.KeyField,
		snap[content.TablePages], content.DecodePage)
	if err != nil {
		return nil, err
	}

	return &Data{Articles: articles, Authors: authors, Pages: pages}, nil
}

// Data returns the current decoded view. Panics when called before the
// first successful [Site.Load]; that is a programming error, not a
// runtime condition.
func (s *Site) Data() *Data {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		panic("site: Data called before Load")
	}

	return s.data
}

// AuthorsFor resolves an article's author references against the
// authors table, preserving reference order. Unknown references are
// skipped; a byline pointing nowhere is a content bug the check command
// reports, not something to fail a page render over.
func (d *Data) AuthorsFor(refs []string) []content.Author {
	var out []content.Author

	for _, ref := range refs {
		if author, ok := d.Authors.Get(ref + ".md"); ok {
			out = append(out, author)
		}
	}

	return out
}
