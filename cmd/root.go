package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"multiplot.GO/core/logging"
)

var rootCmd = &cobra.Command{
	Use:           "multiplot",
	Short:         "Volcano multiplot plot registry tools",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute applies registered commands and runs the root command until it
// finishes or the process is interrupted.
func Execute() {
	Apply()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Error().Err(err).Msg("command failed")
		stop()
		os.Exit(1)
	}
}
