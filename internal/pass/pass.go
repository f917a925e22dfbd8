package pass

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/algo-pedalboard/analysis"
	"github.com/cwbudde/algo-pedalboard/audio"
	"github.com/cwbudde/algo-pedalboard/catalog"
	"github.com/cwbudde/algo-pedalboard/internal/config"
	"github.com/cwbudde/algo-pedalboard/pipeline"
	"github.com/cwbudde/algo-pedalboard/selection"
)

// Stage names the step of a pass that failed.
type Stage string

const (
	StageRead    Stage = "read"
	StageSelect  Stage = "select"
	StageCollect Stage = "collect"
	StageBuild   Stage = "build"
	StageProcess Stage = "process"
	StageWrite   Stage = "write"
)

// Error is a failed pass.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Request is the user's input for one pass. Nil funcs mean no input, so
// every position and parameter takes its default.
type Request struct {
	Picks  func(k int) (string, bool)
	Params pipeline.RawInput
}

// Result is everything a completed pass produced.
type Result struct {
	Selection []string
	Stages    []pipeline.Stage
	Input     *audio.Buffer
	Output    *audio.Buffer
	InputSum  analysis.Summary
	OutputSum analysis.Summary
	Elapsed   time.Duration
}

// Runner executes passes against the configured input and output files.
type Runner struct {
	cfg     *config.Config
	reg     *catalog.Registry
	machine *selection.Machine
	logger  *slog.Logger
}

// NewRunner returns a Runner over reg. A nil logger discards logs.
func NewRunner(cfg *config.Config, reg *catalog.Registry, logger *slog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m, err := selection.New(reg.Names(), cfg.AllowEmptyPipeline)
	if err != nil {
		return nil, fmt.Errorf("pass: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Runner{cfg: cfg, reg: reg, machine: m, logger: logger}, nil
}

// Config returns the runner's configuration.
func (r *Runner) Config() *config.Config { return r.cfg }

// Registry returns the catalog effects are picked from.
func (r *Runner) Registry() *catalog.Registry { return r.reg }

// Machine returns the selection state machine.
func (r *Runner) Machine() *selection.Machine { return r.machine }

// Select finalizes the selection for picks.
func (r *Runner) Select(picks func(k int) (string, bool)) ([]string, error) {
	if picks == nil {
		picks = selection.FromSlice(nil)
	}

	names, err := r.machine.Finalize(picks)
	if err != nil {
		return nil, &Error{Stage: StageSelect, Err: err}
	}

	return names, nil
}

// Run reads the input file, applies the selected effects once and writes
// the output file. The first failing step aborts the pass and is returned
// as *Error; the output file is only written by a pass that got that far.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	in, err := audio.ReadWAV(r.cfg.InputPath)
	if err != nil {
		return nil, r.fail(StageRead, err)
	}

	names, err := r.Select(req.Picks)
	if err != nil {
		r.logger.Warn("pass failed", slog.String("stage", string(StageSelect)), slog.Any("error", err))
		return nil, err
	}

	params := req.Params
	if params == nil {
		params = pipeline.NoInput
	}

	stages, err := pipeline.Stages(r.reg, names, params)
	if err != nil {
		return nil, r.fail(StageCollect, err)
	}

	effects, err := pipeline.Build(stages)
	if err != nil {
		return nil, r.fail(StageBuild, err)
	}

	board, err := pipeline.NewBoard(effects, in.SampleRate, pipeline.WithTail(r.cfg.TailSeconds))
	if err != nil {
		return nil, r.fail(StageBuild, err)
	}

	out, err := board.Process(ctx, in)
	if err != nil {
		return nil, r.fail(StageProcess, err)
	}

	if err := audio.WriteWAV(r.cfg.OutputPath, out, r.cfg.BitDepth); err != nil {
		return nil, r.fail(StageWrite, err)
	}

	res := &Result{
		Selection: names,
		Stages:    stages,
		Input:     in,
		Output:    out,
		InputSum:  analysis.Summarize(in),
		OutputSum: analysis.Summarize(out),
		Elapsed:   time.Since(start),
	}

	r.logger.Info("pass complete",
		slog.Any("effects", names),
		slog.Int("sample_rate", in.SampleRate),
		slog.Int("channels", out.NumChannels()),
		slog.Int("frames", out.Frames()),
		slog.Duration("elapsed", res.Elapsed),
	)

	return res, nil
}

func (r *Runner) fail(stage Stage, err error) error {
	r.logger.Warn("pass failed", slog.String("stage", string(stage)), slog.Any("error", err))
	return &Error{Stage: stage, Err: err}
}
