package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/platenpress/platen/internal/render"
	"github.com/platenpress/platen/internal/site"
	"github.com/platenpress/platen/internal/web"
)

const shutdownTimeout = 5 * time.Second

func cmdServe() *Command {
	flags := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := flags.String("addr", "", "listen address (default from config, then :8000)")
	watch := flags.Bool("watch", false, "reload content on file changes")

	return &Command{
		Flags: flags,
		Usage: "serve [flags]",
		Short: "Serve the site over HTTP",
		Long: "Serve the site over HTTP.\n\n" +
			"Content is read once at startup. With --watch, changes to the\n" +
			"content tree reload it without restarting; a tree that fails to\n" +
			"decode keeps the previous content serving.",
		Exec: func(ctx context.Context, env *Env, _ []string) error {
			cfg, err := env.LoadConfig()
			if err != nil {
				return err
			}

			if *addr != "" {
				cfg.Addr = *addr
			}

			s, err := site.New(cfg, env.Log)
			if err != nil {
				return err
			}

			err = s.Load()
			if err != nil {
				return err
			}

			srv, err := web.NewServer(s, render.New("/static/"), env.Log)
			if err != nil {
				return err
			}

			if *watch {
				go func() {
					err := web.Watch(ctx, s, cfg.ContentDir, env.Log)
					if err != nil {
						env.Log.Error("watcher stopped", "error", err)
					}
				}()
			}

			httpServer := &http.Server{
				Addr:              cfg.Addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)

			go func() {
				env.Log.Info("serving", "addr", cfg.Addr, "content", cfg.ContentDir)
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			env.Log.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			err = httpServer.Shutdown(shutdownCtx)
			if err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return err
			}

			return nil
		},
	}
}
