package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pedalboard/internal/player"
)

var playCmd = &cobra.Command{
	Use:   "play [file]",
	Short: "Play a WAV file on the default audio device",
	Long: `Play a WAV file. Without an argument the output file is played.

Example:
  pedalboard play outputs.wav`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.OutputPath
		if len(args) == 1 {
			path = args[0]
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		return player.Play(ctx, path)
	},
}
