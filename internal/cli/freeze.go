package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/platenpress/platen/internal/freeze"
	"github.com/platenpress/platen/internal/render"
	"github.com/platenpress/platen/internal/site"
	"github.com/platenpress/platen/internal/web"
)

func cmdFreeze() *Command {
	flags := flag.NewFlagSet("freeze", flag.ContinueOnError)
	out := flags.String("out", "build", "output directory")
	jobs := flags.Int("jobs", 0, "concurrent page renders (default 4)")

	return &Command{
		Flags: flags,
		Usage: "freeze [flags]",
		Short: "Export the site as static files",
		Long: "Export the site as static files.\n\n" +
			"Every page is rendered through the same handler serve uses and\n" +
			"written under the output directory, plus a copy of the static\n" +
			"assets. Existing output files are overwritten, never deleted.",
		Exec: func(ctx context.Context, env *Env, _ []string) error {
			cfg, err := env.LoadConfig()
			if err != nil {
				return err
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

			freezer := freeze.New(s, srv.Handler(), env.Log)
			freezer.Jobs = *jobs

			err = freezer.Freeze(ctx, *out)
			if err != nil {
				return err
			}

			data := s.Data()
			env.IO.Printf("froze %d articles, %d pages to %s\n",
				data.Articles.Len(), data.Pages.Len(), *out)

			return nil
		},
	}
}
