package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pedalboard/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web interface",
	Long: `Start the web interface. Every page load runs one pass over the
input file with the effects and parameters in the query string.

Example:
  pedalboard serve --addr :8501 --input song.wav`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := newLogger(cmd.ErrOrStderr())

	runner, err := newRunner(logger)
	if err != nil {
		return err
	}

	srv, err := server.New(runner, logger)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx, cfg.Addr)
}
