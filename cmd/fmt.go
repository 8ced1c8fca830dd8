package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/reconcile"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	outputFile string
	write      bool
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats an account file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `recon fmt [-o <file> | -w] <input>

  Validates and formats an account file. Days are written in order, the
  transactions of a day before its positions, positions sorted by symbol and
  numbers in their shortest form. Blank lines and lines before the first
  heading are dropped.
  By default, the formatted account is written to the standard output.

Usage Examples:
# Formats recon.in in place.
$ recon fmt -w recon.in

`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.outputFile, "o", "", "Write the formatted account to this file.")
	f.BoolVar(&p.write, "w", false, "Write the formatted account back to the input file.")
}

func (p *fmtCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.write && p.outputFile != "" {
		fmt.Fprintf(os.Stderr, "Error: -o and -w are mutually exclusive\n")
		return subcommands.ExitUsageError
	}
	if p.write && f.Arg(0) == "-" {
		fmt.Fprintf(os.Stderr, "Error: -w cannot rewrite the standard input\n")
		return subcommands.ExitUsageError
	}

	account, err := decodeAccount(ctx, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load account: %v\n", err)
		return subcommands.ExitFailure
	}

	var b bytes.Buffer
	if err := reconcile.EncodeAccount(&b, account); err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting account: %v\n", err)
		return subcommands.ExitFailure
	}

	output := p.outputFile
	if p.write {
		output = f.Arg(0)
	}
	if err := writeOutput(output, b.String()); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving formatted account: %v\n", err)
		return subcommands.ExitFailure
	}
	if output != "" {
		fmt.Fprintf(os.Stderr, "✅ Successfully formatted account into %s.\n", output)
	}
	return subcommands.ExitSuccess
}
