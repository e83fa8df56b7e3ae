// Command gnparser parses biological scientific names.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gnparser/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx)
	stop()

	cli.ReportError(err)
	os.Exit(cli.ExitCode(err))
}

// execute runs the root command. The log level depends on --verbose, which
// is only known after flag parsing, so it is applied in a pre-run hook ahead
// of the command's own.
func execute(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug messages")

	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if loadConfig == nil {
			return nil
		}
		return loadConfig(cmd, args)
	}
	return root.ExecuteContext(ctx)
}
