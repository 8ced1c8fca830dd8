package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"

	"github.com/google/subcommands"
)

// Environment passed to extensions.
const (
	EnvConfigFile = "RECON_CONFIG"
	EnvCurrency   = "RECON_CURRENCY"
	EnvDSN        = "RECON_DB_DSN"
	EnvVerbose    = "RECON_VERBOSE"
)

// IsCommand reports whether name is a registered subcommand of c.
func IsCommand(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		if cmd.Name() == name {
			found = true
		}
	})
	return found
}

// RunExtension attempts to find and execute an external recon-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "recon-" + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		slog.Debug("extension not found in PATH", "name", name, "error", err)
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// Pass global settings as environment variables.
	cmd.Env = append(os.Environ(),
		EnvConfigFile+"="+*configFile,
		EnvCurrency+"="+cfg.Currency,
		EnvDSN+"="+cfg.Database.DSN,
		EnvVerbose+"="+strconv.FormatBool(*Verbose),
	)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
