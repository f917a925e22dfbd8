package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/cwbudde/algo-pedalboard/audio"
)

// Config holds all the configuration parameters for the application.
type Config struct {
	InputPath          string
	OutputPath         string
	Addr               string
	BitDepth           int
	AllowEmptyPipeline bool
	TailSeconds        float64
	LogLevel           string
	// IRDir holds the impulse responses Convolution may load. Empty
	// allows only the built-in room.
	IRDir string
}

// New returns a new Config with default values.
func New() *Config {
	return &Config{
		InputPath:          "./download.wav",
		OutputPath:         "./outputs.wav",
		Addr:               ":8501",
		BitDepth:           16,
		AllowEmptyPipeline: false,
		TailSeconds:        0,
		LogLevel:           "info",
	}
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.InputPath) == "" {
		errs = append(errs, errors.New("input path is empty"))
	}

	if strings.TrimSpace(c.OutputPath) == "" {
		errs = append(errs, errors.New("output path is empty"))
	}

	if !slices.Contains(audio.SupportedBitDepths, c.BitDepth) {
		errs = append(errs, fmt.Errorf("bit depth %d not in %v", c.BitDepth, audio.SupportedBitDepths))
	}

	if c.TailSeconds < 0 || math.IsNaN(c.TailSeconds) || math.IsInf(c.TailSeconds, 0) {
		errs = append(errs, fmt.Errorf("tail must be >= 0 and finite: %g", c.TailSeconds))
	}

	if c.IRDir != "" {
		if fi, err := os.Stat(c.IRDir); err != nil {
			errs = append(errs, fmt.Errorf("impulse response dir: %w", err))
		} else if !fi.IsDir() {
			errs = append(errs, fmt.Errorf("impulse response dir %s is not a directory", c.IRDir))
		}
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	return nil
}

// ParseLevel maps a level name (debug, info, warn, error) to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", name, err)
	}

	return l, nil
}
