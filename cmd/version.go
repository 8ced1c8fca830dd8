package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/reconcile"
	"github.com/google/subcommands"
)

type versionCmd struct{}

func (*versionCmd) Name() string     { return "version" }
func (*versionCmd) Synopsis() string { return "print the version" }
func (*versionCmd) Usage() string    { return "recon version\n" }

func (*versionCmd) SetFlags(*flag.FlagSet) {}

func (*versionCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Fprintf(stdout, "recon %s\n", reconcile.Version)
	return subcommands.ExitSuccess
}
