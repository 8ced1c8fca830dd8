// Package cmd implements the CLI application to reconcile accounts.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/reconcile"
	"github.com/etnz/reconcile/config"
	"github.com/etnz/reconcile/logging"
	"github.com/etnz/reconcile/store"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reconcileCmd{}, "accounts")
	c.Register(&positionsCmd{}, "accounts")
	c.Register(&fmtCmd{}, "accounts")

	c.Register(&importCmd{}, "store")
	c.Register(&accountsCmd{}, "store")

	c.Register(&topicCmd{}, "help")
	c.Register(&versionCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "recon.yaml", "Path to the configuration file (YAML)")
var Verbose = flag.Bool("v", false, "log debug messages")

// cfg is replaced by Setup with the loaded configuration.
var cfg = config.Default()

// stdout is where commands write their results.
var stdout io.Writer = os.Stdout

// Setup loads the configuration and installs the logger. It must be called
// after the flags are parsed. The returned function flushes pending traces.
func Setup() (func(context.Context) error, error) {
	loaded, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *Verbose {
		loaded.Log.Level = "debug"
	}
	cfg = loaded
	return logging.Setup(cfg.Log, os.Stderr)
}

// decodeAccount reads the account file named by the single positional
// argument, "-" meaning the standard input.
func decodeAccount(ctx context.Context, f *flag.FlagSet) (*reconcile.Account, error) {
	if f.NArg() != 1 {
		return nil, fmt.Errorf("expected exactly one input file, got %d arguments", f.NArg())
	}
	input := f.Arg(0)

	_, span := logging.StartSpan(ctx, "decode")
	defer span.End()

	if input == "-" {
		return reconcile.DecodeAccount(os.Stdin)
	}
	logging.Logger(ctx).Debug("loading account", "file", input)
	return reconcile.LoadAccount(input)
}

// openStore opens the account store configured in cfg, or dsn if not empty.
func openStore(ctx context.Context, dsn string) (*store.Store, error) {
	if dsn == "" {
		dsn = cfg.Database.DSN
	}
	logging.Logger(ctx).Debug("opening store", "driver", cfg.Database.Driver, "dsn", dsn)
	return store.Open(ctx, cfg.Database.Driver, dsn)
}

// currency returns c, or the configured currency if c is empty.
func currency(c string) string {
	if c == "" {
		return cfg.Currency
	}
	return strings.ToUpper(c)
}

// printMarkdown renders markdown for the terminal.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		// fall back to the raw markdown.
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

// writeOutput writes content to the file path, or to stdout if path is empty.
func writeOutput(path, content string) error {
	if path == "" {
		_, err := io.WriteString(stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("error writing output file %q: %w", path, err)
	}
	return nil
}
