package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/charmbracelet/glamour"
	"github.com/etnz/reconcile"
	"github.com/etnz/reconcile/config"
	"github.com/etnz/reconcile/logging"
	"github.com/etnz/reconcile/renderer"
	"github.com/google/subcommands"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type reconcileCmd struct {
	start    int
	end      int
	output   string
	format   string
	query    string
	currency string
	dsn      string
	account  string
}

func (*reconcileCmd) Name() string { return "reconcile" }
func (*reconcileCmd) Synopsis() string {
	return "replay transactions and report the differences with the recorded positions"
}
func (*reconcileCmd) Usage() string {
	return `recon reconcile [-start <day>] [-end <day>] [-o <file>] [-format <format>] [-q <jsonpath>] <input>
recon reconcile -account <id> [-db <dsn>] ...

  Replays the transactions recorded after the start day onto the positions
  recorded on the start day, and compares the result with the positions
  recorded on the end day. A negative end counts from the last day: -1, the
  default, is the last day of the input.

  The default text format prints one "<symbol> <difference>" line per
  differing symbol, sorted by symbol. The difference is the recorded quantity
  minus the replayed one. Other formats are json, markdown, pretty and html.

  -q filters the json report with a JSONPath expression, for instance
  '$.diff.Cash'.

Usage Examples:
$ recon reconcile recon.in
$ recon reconcile -o recon.out recon.in
$ recon reconcile -format pretty -c USD recon.in
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.start, "start", 0, "Day whose recorded positions the replay starts from")
	f.IntVar(&c.end, "end", -1, "Day whose recorded positions are compared, negative values count from the last day")
	f.StringVar(&c.output, "o", "", "Write the result to this file instead of the standard output")
	f.StringVar(&c.format, "format", "", "Output format: "+strings.Join(config.OutputFormats, ", ")+" (defaults to the configured one)")
	f.StringVar(&c.query, "q", "", "JSONPath expression applied to the json report")
	f.StringVar(&c.currency, "c", "", "Currency of the Cash position (defaults to the configured one)")
	f.StringVar(&c.dsn, "db", "", "Data source of the account store (defaults to the configured one)")
	f.StringVar(&c.account, "account", "", "Reconcile the stored account with this id instead of an input file")
}

func (c *reconcileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, span := logging.StartSpan(ctx, "reconcile", trace.WithAttributes(
		attribute.Int("start", c.start),
		attribute.Int("end", c.end),
	))
	defer span.End()

	format := c.format
	if format == "" {
		format = cfg.OutputFormat
	}
	if c.query != "" {
		format = "json"
	}

	account, err := c.load(ctx, f)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fmt.Fprintf(os.Stderr, "Error loading account: %v\n", err)
		return subcommands.ExitFailure
	}

	report, err := account.Report(c.start, c.end)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fmt.Fprintf(os.Stderr, "Error reconciling: %v\n", err)
		if errors.Is(err, reconcile.ErrInvalidOffset) || errors.Is(err, reconcile.ErrOutOfRange) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	span.SetAttributes(attribute.Int("transactions", report.Transactions), attribute.Int("differences", len(report.Diff)))
	logging.Logger(ctx).Info("reconciled", "start", report.Start, "end", report.End,
		"transactions", report.Transactions, "differences", len(report.Diff))

	if format == "pretty" && c.output == "" {
		printMarkdown(renderer.Reconciliation(report, currency(c.currency)))
		return subcommands.ExitSuccess
	}
	if format == "text" && c.output != "" {
		if err := reconcile.SaveDiff(c.output, report.Diff); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	out, err := c.render(report, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering report: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := writeOutput(c.output, out); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// load reads the account from the store when -account is set, from the
// input file otherwise.
func (c *reconcileCmd) load(ctx context.Context, f *flag.FlagSet) (*reconcile.Account, error) {
	if c.account == "" {
		return decodeAccount(ctx, f)
	}
	s, err := openStore(ctx, c.dsn)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.LoadAccount(ctx, c.account)
}

// render formats the report.
func (c *reconcileCmd) render(report *reconcile.Report, format string) (string, error) {
	switch format {
	case "text":
		var b bytes.Buffer
		if err := reconcile.EncodeDiff(&b, report.Diff); err != nil {
			return "", err
		}
		return b.String(), nil

	case "json":
		if c.query == "" {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return "", err
			}
			return string(data) + "\n", nil
		}
		return queryReport(report, c.query)

	case "markdown":
		return renderer.Reconciliation(report, currency(c.currency)), nil

	case "pretty":
		return glamour.Render(renderer.Reconciliation(report, currency(c.currency)), "notty")

	case "html":
		return renderer.HTML(renderer.Reconciliation(report, currency(c.currency)))

	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

// queryReport evaluates a JSONPath expression against the json form of the
// report.
func queryReport(report *reconcile.Report, path string) (string, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return "", err
	}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return "", err
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("error evaluating %q: %w", path, err)
	}
	out, err := json.MarshalIndent(jval, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}
