// Package cli implements the platen command line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"

	"github.com/platenpress/platen/internal/site"
)

// Env carries everything a command needs besides its own flags.
type Env struct {
	IO  *IO
	Log *slog.Logger

	// ConfigPath is the --config value; empty means the default
	// platen.json lookup.
	ConfigPath string

	// Overrides holds global flag values merged over the config file.
	Overrides site.Config
}

// LoadConfig resolves the effective site configuration for a command.
func (e *Env) LoadConfig() (site.Config, error) {
	return site.LoadConfig(e.ConfigPath, e.Overrides)
}

// Run is the main entry point. Returns exit code: 0 ok, 1 error,
// 2 usage.
func Run(ctx context.Context, in io.Reader, out, errOut io.Writer, args []string) int {
	o := NewIO(in, out, errOut)

	globals := flag.NewFlagSet("platen", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	var (
		configPath = globals.String("config", "", "config file (default platen.json)")
		contentDir = globals.String("content", "", "content directory override")
		logLevel   = globals.String("log-level", "info", "log level: debug, info, warn, error")
	)

	err := globals.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(o)

			return 0
		}

		o.ErrPrintln("error:", err)
		printUsage(o)

		return 2
	}

	level, err := parseLevel(*logLevel)
	if err != nil {
		o.ErrPrintln("error:", err)

		return 2
	}

	env := &Env{
		IO:         o,
		Log:        newLogger(errOut, level),
		ConfigPath: *configPath,
		Overrides:  site.Config{ContentDir: *contentDir},
	}

	rest := globals.Args()
	if len(rest) == 0 {
		printUsage(o)

		return 0
	}

	name := rest[0]
	if name == "-h" || name == "--help" || name == "help" {
		printUsage(o)

		return 0
	}

	for _, cmd := range commands() {
		if cmd.Name() == name {
			return cmd.Run(ctx, env, rest[1:])
		}
	}

	o.ErrPrintln("error: unknown command:", name)
	printUsage(o)

	return 2
}

func commands() []*Command {
	return []*Command{
		cmdServe(),
		cmdFreeze(),
		cmdCheck(),
		cmdShell(),
		cmdInit(),
	}
}

func printUsage(o *IO) {
	o.Println("Usage: platen [global flags] <command> [flags]")
	o.Println()
	o.Println("Commands:")

	for _, cmd := range commands() {
		o.Println(cmd.HelpLine())
	}

	o.Println()
	o.Println("Global flags:")
	o.Println("  --config <file>    config file (default platen.json)")
	o.Println("  --content <dir>    content directory override")
	o.Println("  --log-level <lvl>  debug, info, warn, error (default info)")
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, errors.New("unknown log level: " + s)
	}
}

// newLogger builds the tint handler, colors only when stderr is an
// actual terminal.
func newLogger(errOut io.Writer, level slog.Level) *slog.Logger {
	w := errOut
	noColor := true

	if f, ok := errOut.(*os.File); ok {
		if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
			noColor = false
		}

		w = colorable.NewColorable(f)
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:   level,
		NoColor: noColor,
	}))
}
