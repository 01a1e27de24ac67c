package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/platenpress/platen/internal/content"
	"github.com/platenpress/platen/pkg/flatdb"
)

func cmdShell() *Command {
	flags := flag.NewFlagSet("shell", flag.ContinueOnError)

	return &Command{
		Flags: flags,
		Usage: "shell",
		Short: "Inspect the raw document tables interactively",
		Long: "Inspect the raw document tables interactively.\n\n" +
			"Operates on the undecoded documents, so it also works on trees\n" +
			"the typed layer rejects. Type help at the prompt for commands.",
		Exec: func(_ context.Context, env *Env, _ []string) error {
			cfg, err := env.LoadConfig()
			if err != nil {
				return err
			}

			store, err := flatdb.Open(flatdb.Config{
				Root:      cfg.ContentDir,
				KeyField:  content.KeyField,
				BodyField: content.BodyField,
				ReadOnly:  true,
				Logger:    env.Log,
			})
			if err != nil {
				return err
			}

			snap, err := store.Read()
			if err != nil {
				return err
			}

			if snap == nil {
				return fmt.Errorf("content directory %s does not exist", cfg.ContentDir)
			}

			return runShell(env.IO, store, snap)
		},
	}
}

func runShell(o *IO, store *flatdb.Store, snap flatdb.Snapshot) error {
	line := liner.NewLiner()
	defer func() { _ = line.Close() }()

	line.SetCtrlCAborts(true)

	o.Println("platen shell -- type help for commands")

	for {
		input, err := line.Prompt("> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)

		fields := strings.Fields(input)

		done, err := shellDispatch(o, store, &snap, fields)
		if err != nil {
			o.ErrPrintln("error:", err)

			continue
		}

		if done {
			return nil
		}
	}
}

func shellDispatch(o *IO, store *flatdb.Store, snap *flatdb.Snapshot, fields []string) (bool, error) {
	switch fields[0] {
	case "exit", "quit", "q":
		return true, nil

	case "help":
		shellHelp(o)

	case "tables":
		names := make([]string, 0, len(*snap))
		for name := range *snap {
			names = append(names, name)
		}

		slices.Sort(names)

		for _, name := range names {
			o.Printf("%-12s %d documents\n", name, len((*snap)[name]))
		}

	case "reload":
		fresh, err := store.Read()
		if err != nil {
			return false, err
		}

		if fresh == nil {
			return false, errors.New("content directory no longer exists")
		}

		*snap = fresh
		o.Println("reloaded")

	case "count":
		table, err := shellTable(*snap, fields, 2)
		if err != nil {
			return false, err
		}

		o.Println(len(table))

	case "ls":
		table, err := shellTable(*snap, fields, 2)
		if err != nil {
			return false, err
		}

		for _, key := range shellKeys(table) {
			o.Println(key)
		}

	case "show":
		if len(fields) != 3 {
			return false, errors.New("usage: show <table> <key>")
		}

		table, err := shellTable(*snap, fields, 3)
		if err != nil {
			return false, err
		}

		doc, ok := table.Lookup(fields[2])
		if !ok {
			return false, fmt.Errorf("no document %q in table %s", fields[2], fields[1])
		}

		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return false, err
		}

		o.Println(string(out))

	default:
		return false, fmt.Errorf("unknown command %q, type help", fields[0])
	}

	return false, nil
}

func shellTable(snap flatdb.Snapshot, fields []string, want int) (flatdb.Table, error) {
	if len(fields) != want {
		return nil, fmt.Errorf("usage: %s <table>", fields[0])
	}

	table, ok := snap[fields[1]]
	if !ok {
		return nil, fmt.Errorf("no table %q", fields[1])
	}

	return table, nil
}

func shellKeys(table flatdb.Table) []string {
	keys := make([]string, 0, len(table))

	for _, doc := range table {
		if key, ok := doc[content.KeyField].(string); ok {
			keys = append(keys, key)
		}
	}

	slices.Sort(keys)

	return keys
}

func shellHelp(o *IO) {
	o.Println("Commands:")
	o.Println("  tables                 list tables and document counts")
	o.Println("  ls <table>             list document keys")
	o.Println("  show <table> <key>     print one document as JSON")
	o.Println("  count <table>          count documents")
	o.Println("  reload                 re-read the content tree")
	o.Println("  exit                   leave the shell")
}
