package cmd

import (
	"flag"

	"github.com/etnz/reconcile/config"
	"github.com/etnz/reconcile/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors completes the values of flags sharing a name across
// subcommands. Other flags take a value that cannot be predicted.
var flagPredictors = map[string]complete.Predictor{
	"config": predict.Files("*.yaml"),
	"o":      predict.Files("*"),
	"format": predict.Set(config.OutputFormats),
	"c":      predict.Set{"EUR", "USD", "GBP", "CHF", "JPY"},
}

// Completion describes the command line of c for shell completion: its global
// flags, subcommands and their flags.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagsOf(c.VisitAll),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(fs)
		sub := &complete.Command{Flags: flagsOf(fs.VisitAll)}
		switch cmd.Name() {
		case "reconcile", "positions", "fmt", "import":
			sub.Args = predict.Files("*")
		case "topic", "help":
			sub.Args = predict.Set(append(docs.All(), "readme"))
		}
		root.Sub[cmd.Name()] = sub
	})
	return root
}

// flagsOf maps the flags visited by visit to their predictor.
func flagsOf(visit func(func(*flag.Flag))) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	visit(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = nil
			return
		}
		if p, ok := flagPredictors[f.Name]; ok {
			flags[f.Name] = p
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}
