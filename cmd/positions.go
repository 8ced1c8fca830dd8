package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/reconcile"
	"github.com/etnz/reconcile/renderer"
	"github.com/google/subcommands"
)

type positionsCmd struct {
	start    int
	day      int
	format   string
	currency string
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display the replayed positions on a day" }
func (*positionsCmd) Usage() string {
	return `recon positions [-start <day>] [-day <day>] [-format <format>] [-c <currency>] <input>

  Replays the transactions recorded after the start day onto the positions
  recorded on the start day, and prints the positions computed for the given
  day. A negative day counts from the last day: -1, the default, is the last
  day of the input.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.start, "start", 0, "Day whose recorded positions the replay starts from")
	f.IntVar(&c.day, "day", -1, "Day to compute the positions of, negative values count from the last day")
	f.StringVar(&c.format, "format", "", "Output format: text, json, markdown, pretty or html (defaults to the configured one)")
	f.StringVar(&c.currency, "c", "", "Currency of the Cash position (defaults to the configured one)")
}

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	account, err := decodeAccount(ctx, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading account: %v\n", err)
		return subcommands.ExitFailure
	}

	report, err := account.Report(c.start, c.day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error replaying: %v\n", err)
		return subcommands.ExitUsageError
	}

	format := c.format
	if format == "" {
		format = cfg.OutputFormat
	}

	var out string
	switch format {
	case "text":
		var b bytes.Buffer
		if err := reconcile.EncodePositions(&b, report.Replayed); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing positions: %v\n", err)
			return subcommands.ExitFailure
		}
		out = b.String()
	case "json":
		data, err := json.MarshalIndent(report.Replayed, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing positions: %v\n", err)
			return subcommands.ExitFailure
		}
		out = string(data) + "\n"
	case "markdown", "pretty", "html":
		md := renderer.Positions(report.End, report.Replayed, replayedTransactions(account, report), currency(c.currency))
		if format == "pretty" {
			printMarkdown(md)
			return subcommands.ExitSuccess
		}
		out = md
		if format == "html" {
			if out, err = renderer.HTML(md); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return subcommands.ExitFailure
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown output format %q\n", format)
		return subcommands.ExitUsageError
	}

	if err := writeOutput("", out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// replayedTransactions lists the transactions applied by the replay of r, in
// replay order.
func replayedTransactions(account *reconcile.Account, r *reconcile.Report) []reconcile.Transaction {
	var txs []reconcile.Transaction
	days := account.Days()
	for i := r.Start + 1; i <= r.End && i < len(days); i++ {
		for t := range days[i].Transactions() {
			txs = append(txs, t)
		}
	}
	return txs
}
