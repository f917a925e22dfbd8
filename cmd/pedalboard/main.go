// Command pedalboard applies a chain of audio effects to a WAV file.
//
// Usage:
//
//	pedalboard [global flags] <command> [flags]
//
// Examples:
//
//	pedalboard serve --addr :8501 --ir-dir ./irs
//	pedalboard apply --fx Gain:gain_db=6 --fx LowpassFilter:cutoff_frequency_hz=2000
//	pedalboard effects
//	pedalboard play outputs.wav
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pedalboard/catalog"
	"github.com/cwbudde/algo-pedalboard/fx"
	"github.com/cwbudde/algo-pedalboard/internal/config"
	"github.com/cwbudde/algo-pedalboard/internal/pass"
)

var version = "0.1.0"

var cfg = config.New()

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pedalboard",
	Short: "Apply a chain of audio effects to a WAV file",
	Long: `pedalboard reads a WAV file, runs it through an ordered chain of
effects picked from a fixed catalog and writes the result.

Pipeline: read → select → collect parameters → build → process → write`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return cfg.Validate() },
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(effectsCmd)
	rootCmd.AddCommand(playCmd)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfg.InputPath, "input", "i", cfg.InputPath, "Input WAV file")
	pf.StringVarP(&cfg.OutputPath, "output", "o", cfg.OutputPath, "Output WAV file")
	pf.IntVar(&cfg.BitDepth, "bit-depth", cfg.BitDepth, "Output bit depth (16, 24 or 32)")
	pf.BoolVar(&cfg.AllowEmptyPipeline, "allow-empty", cfg.AllowEmptyPipeline, "Offer an empty pipeline at position 1")
	pf.Float64Var(&cfg.TailSeconds, "tail", cfg.TailSeconds, "Seconds of silence appended before processing")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pf.StringVar(&cfg.IRDir, "ir-dir", cfg.IRDir, "Directory of impulse response WAV files for Convolution")

	serveCmd.Flags().StringVarP(&cfg.Addr, "addr", "a", cfg.Addr, "Address to listen on")

	applyCmd.Flags().StringArrayVarP(&fxSpecs, "fx", "f", nil, "Effect as Name[:param=value,...]; repeat in chain order")
	applyCmd.Flags().BoolVar(&applyPlay, "play", false, "Play the output after writing it")
}

// newLogger returns a text logger on w at the configured level.
func newLogger(w io.Writer) *slog.Logger {
	level, _ := config.ParseLevel(cfg.LogLevel)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// registry returns the catalog with Convolution bound to the configured
// impulse response directory.
func registry() (*catalog.Registry, error) {
	reg, err := catalog.New(fx.IRDir(cfg.IRDir))
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	return reg, nil
}

func newRunner(logger *slog.Logger) (*pass.Runner, error) {
	reg, err := registry()
	if err != nil {
		return nil, err
	}

	r, err := pass.NewRunner(cfg, reg, logger)
	if err != nil {
		return nil, fmt.Errorf("create runner: %w", err)
	}

	return r, nil
}
