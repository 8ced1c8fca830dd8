package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/reconcile/docs"
	"github.com/google/subcommands"
)

// topicCmd prints the embedded documentation.
type topicCmd struct {
	raw bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the recon manual" }
func (*topicCmd) Usage() string {
	return `recon topic [-raw] [<topic>|*]...

  Prints pages of the recon manual. Without a topic, prints the index.
  '*' prints every page, in alphabetical order.

  Topics: ` + strings.Join(docs.All(), ", ") + `

Usage Examples:
$ recon topic format
$ recon topic -raw reconcile > reconcile.md
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "Print the markdown source instead of rendering it")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	names := f.Args()
	if len(names) == 0 {
		names = []string{"readme"}
	}

	page, err := docs.Topics(names...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v (known topics: %s)\n", err, strings.Join(docs.All(), ", "))
		return subcommands.ExitFailure
	}
	if c.raw {
		fmt.Fprint(stdout, page)
	} else {
		printMarkdown(page)
	}
	return subcommands.ExitSuccess
}
