package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/reconcile/logging"
	"github.com/google/subcommands"
)

type importCmd struct {
	name string
	dsn  string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "store an account file in the account store" }
func (*importCmd) Usage() string {
	return `recon import [-name <name>] [-db <dsn>] <input>

  Decodes an account file and saves a copy in the account store. The id of
  the stored account is printed, use it with 'recon reconcile -account'.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Name of the stored account (defaults to the input file name)")
	f.StringVar(&c.dsn, "db", "", "Data source of the account store (defaults to the configured one)")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, span := logging.StartSpan(ctx, "import")
	defer span.End()

	account, err := decodeAccount(ctx, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading account: %v\n", err)
		return subcommands.ExitFailure
	}

	name := c.name
	if name == "" {
		base := filepath.Base(f.Arg(0))
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	s, err := openStore(ctx, c.dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	id, err := s.SaveAccount(ctx, name, account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving account: %v\n", err)
		return subcommands.ExitFailure
	}
	logging.Logger(ctx).Info("account stored", "id", id, "name", name, "days", account.Len())
	fmt.Fprintln(stdout, id)
	return subcommands.ExitSuccess
}
