package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/platenpress/platen/internal/content"
	"github.com/platenpress/platen/internal/site"
	"github.com/platenpress/platen/pkg/flatdb"
	"github.com/platenpress/platen/pkg/fs"
)

const initConfigTemplate = `{
  // Site configuration. Comments and trailing commas are allowed.
  "title": "My Site",
  "base_url": "",
  "content_dir": "content",
  "static_dir": "static",
  "addr": ":8000",
}
`

const initStyle = `body { max-width: 42em; margin: 2em auto; padding: 0 1em; font-family: sans-serif; }
nav a { margin-right: 1em; }
.meta, .byline { color: #666; }
`

const initArticleBody = `Welcome to your new site.

This article lives in ` + "`content/articles/`" + `. Each file starts with a
JSON header, then a ` + "`+++`" + ` separator, then the markdown body you are
reading now.
`

func cmdInit() *Command {
	flags := flag.NewFlagSet("init", flag.ContinueOnError)

	return &Command{
		Flags: flags,
		Usage: "init [dir]",
		Short: "Scaffold a new site",
		Long: "Scaffold a new site in dir (default current directory).\n\n" +
			"Creates a config file, a sample content tree and a stylesheet.\n" +
			"Refuses to run where a config file already exists.",
		Exec: func(_ context.Context, env *Env, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			if len(args) > 1 {
				return fmt.Errorf("expected at most one argument, got %d", len(args))
			}

			return initSite(env, dir)
		},
	}
}

func initSite(env *Env, dir string) error {
	cfgPath := filepath.Join(dir, site.ConfigFileName)

	fsys := fs.NewReal()

	exists, err := fsys.Exists(cfgPath)
	if err != nil {
		return err
	}

	if exists {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	err = fsys.MkdirAll(dir, 0o755)
	if err != nil {
		return err
	}

	err = fsys.WriteFileAtomic(cfgPath, []byte(initConfigTemplate), 0o644)
	if err != nil {
		return err
	}

	// Sample content goes through the regular write path, so the
	// scaffold exercises exactly the encoding serve will read back.
	store, err := flatdb.Open(flatdb.Config{
		Root:      filepath.Join(dir, "content"),
		KeyField:  content.KeyField,
		BodyField: content.BodyField,
		Logger:    env.Log,
	})
	if err != nil {
		return err
	}

	err = store.Write(sampleSnapshot())
	if err != nil {
		return err
	}

	stylePath := filepath.Join(dir, "static", "style.css")

	err = fsys.MkdirAll(filepath.Dir(stylePath), 0o755)
	if err != nil {
		return err
	}

	err = fsys.WriteFileAtomic(stylePath, []byte(initStyle), 0o644)
	if err != nil {
		return err
	}

	env.IO.Printf("initialized site in %s\n", dir)
	env.IO.Println("next: platen serve")

	return nil
}

func sampleSnapshot() flatdb.Snapshot {
	today := time.Now().UTC().Format(time.DateOnly)

	article := flatdb.Document{
		content.KeyField:  "hello-world.md",
		content.BodyField: initArticleBody,
		"title":           "Hello, world",
		"date":            today,
		"authors":         []any{"me"},
	}

	author := flatdb.Document{
		content.KeyField: "me.md",
		"name":           "Your Name",
	}

	page := flatdb.Document{
		content.KeyField:  "about.md",
		content.BodyField: "This site is built with platen.\n",
		"title":           "About",
	}

	return flatdb.Snapshot{
		content.TableArticles: {flatdb.KeyID("hello-world.md"): article},
		content.TableAuthors:  {flatdb.KeyID("me.md"): author},
		content.TablePages:    {flatdb.KeyID("about.md"): page},
	}
}
