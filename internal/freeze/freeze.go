// Package freeze exports the site as static files.
//
// Every site URL is rendered in-process through the HTTP handler, so
// frozen output is byte-identical to what the live server would send.
// No network listener is involved.
package freeze

import (
	"context"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/platenpress/platen/internal/site"
	"github.com/platenpress/platen/pkg/fs"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	defaultJobs = 4
)

// Freezer renders a loaded site to a static output tree.
type Freezer struct {
	site    *site.Site
	handler http.Handler
	fsys    fs.FS
	log     *slog.Logger

	// Jobs caps concurrent page renders. Zero means a small default.
	Jobs int
}

// New builds a [Freezer] over a loaded site and its HTTP handler.
func New(s *site.Site, handler http.Handler, log *slog.Logger) *Freezer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Freezer{site: s, handler: handler, fsys: fs.NewReal(), log: log}
}

// Freeze writes the whole site under outDir. Files already present are
// overwritten; nothing is deleted, mirroring the store's write policy.
func (f *Freezer) Freeze(ctx context.Context, outDir string) error {
	if f.site.Config().BaseURL == "" {
		f.log.Warn("base_url is not configured, feed links will be relative")
	}

	err := f.fsys.MkdirAll(outDir, dirPerm)
	if err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	jobs := f.Jobs
	if jobs <= 0 {
		jobs = defaultJobs
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for _, url := range f.urls() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			return f.freezeURL(url, outDir)
		})
	}

	err = g.Wait()
	if err != nil {
		return err
	}

	return f.copyStatic(outDir)
}

// urls enumerates every page the site serves.
func (f *Freezer) urls() []string {
	data := f.site.Data()

	urls := []string{"/", "/feed.xml"}

	for _, a := range data.Articles.All() {
		urls = append(urls, "/articles/"+a.URLSlug()+"/")
	}

	if _, ok := data.Pages.Get("about.md"); ok {
		urls = append(urls, "/about/")
	}

	return urls
}

// freezeURL renders one URL through the handler and writes the body to
// its output path. A non-200 response fails the freeze: a broken page
// must never silently disappear from the published site.
func (f *Freezer) freezeURL(url string, outDir string) error {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()

	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		return fmt.Errorf("freeze %s: got status %d", url, rec.Code)
	}

	target := filepath.Join(outDir, urlToPath(url))

	err := f.fsys.MkdirAll(filepath.Dir(target), dirPerm)
	if err != nil {
		return fmt.Errorf("freeze %s: %w", url, err)
	}

	err = f.fsys.WriteFileAtomic(target, rec.Body.Bytes(), filePerm)
	if err != nil {
		return fmt.Errorf("freeze %s: %w", url, err)
	}

	f.log.Debug("froze", "url", url, "path", target)

	return nil
}

// urlToPath maps a site URL to its output file: directory-style URLs
// get an index.html, file-style URLs map verbatim.
func urlToPath(url string) string {
	if strings.HasSuffix(url, "/") {
		return filepath.FromSlash(path.Join(url, "index.html"))
	}

	return filepath.FromSlash(strings.TrimPrefix(url, "/"))
}

// copyStatic mirrors the static asset tree under outDir/static.
func (f *Freezer) copyStatic(outDir string) error {
	staticDir := f.site.Config().StaticDir
	if staticDir == "" {
		return nil
	}

	exists, err := f.fsys.Exists(staticDir)
	if err != nil || !exists {
		return err
	}

	return filepath.WalkDir(staticDir, func(p string, d iofs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		rel, err := filepath.Rel(staticDir, p)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}

		target := filepath.Join(outDir, "static", rel)

		err = f.fsys.MkdirAll(filepath.Dir(target), dirPerm)
		if err != nil {
			return err
		}

		return f.fsys.WriteFileAtomic(target, data, filePerm)
	})
}
