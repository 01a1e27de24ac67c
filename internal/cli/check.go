package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/platenpress/platen/internal/content"
	"github.com/platenpress/platen/internal/site"
)

func cmdCheck() *Command {
	flags := flag.NewFlagSet("check", flag.ContinueOnError)

	return &Command{
		Flags: flags,
		Usage: "check",
		Short: "Validate the whole content tree",
		Long: "Validate the whole content tree.\n\n" +
			"Reads and decodes every document. The first file that fails is\n" +
			"reported with its table and key; a clean run prints the table\n" +
			"counts. Exit code 1 means the tree would not serve.",
		Exec: func(_ context.Context, env *Env, _ []string) error {
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

			data := s.Data()

			env.IO.Printf("%s: ok\n", cfg.ContentDir)
			env.IO.Printf("  %-10s %d\n", content.TableArticles, data.Articles.Len())
			env.IO.Printf("  %-10s %d\n", content.TableAuthors, data.Authors.Len())
			env.IO.Printf("  %-10s %d\n", content.TablePages, data.Pages.Len())

			warnDanglingAuthors(env, data)

			return nil
		},
	}
}

// warnDanglingAuthors reports bylines that reference no author document.
// A warning, not an error: pages still render, the name just won't link.
func warnDanglingAuthors(env *Env, data *site.Data) {
	for _, a := range data.Articles.All() {
		for _, ref := range append(append([]string{}, a.Authors...), a.Contributors...) {
			if _, ok := data.Authors.Get(ref + ".md"); !ok {
				env.IO.ErrPrintln(fmt.Sprintf(
					"warning: article %s references unknown author %q", a.Slug, ref))
			}
		}
	}
}
