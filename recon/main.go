// Command recon reconciles the positions of an account with its transactions.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/reconcile/cmd"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "recon")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// Exits when invoked by the shell to complete the command line.
	cmd.Completion(commander).Complete("recon")

	flag.Parse()

	shutdown, err := cmd.Setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}

	ctx := context.Background()
	var status int
	if name := flag.Arg(0); name != "" && !cmd.IsCommand(commander, name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			status = code
		} else {
			status = int(commander.Execute(ctx))
		}
	} else {
		status = int(commander.Execute(ctx))
	}

	if err := shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error flushing traces: %v\n", err)
	}
	os.Exit(status)
}
