package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pedalboard/analysis"
	"github.com/cwbudde/algo-pedalboard/internal/pass"
	"github.com/cwbudde/algo-pedalboard/internal/player"
	"github.com/cwbudde/algo-pedalboard/pipeline"
	"github.com/cwbudde/algo-pedalboard/selection"
)

var (
	fxSpecs   []string
	applyPlay bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Run one pass over the input file",
	Long: `Run the input file through the given effects in order and write the
output file. Parameters not given take their default; without any --fx
the default selection is used.

Examples:
  pedalboard apply --fx Gain:gain_db=6
  pedalboard apply -i in.wav -o out.wav --fx Compressor --fx Reverb:room_size=0.8,wet_level=0.4`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

// chain is a parsed list of --fx flags.
type chain struct {
	names  []string
	params []map[string]string
}

// parseFX parses Name[:param=value,...] specs.
func parseFX(specs []string) (*chain, error) {
	c := &chain{}

	for i, spec := range specs {
		name, rest, hasParams := strings.Cut(spec, ":")

		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("--fx %d: missing effect name in %q", i+1, spec)
		}

		params := map[string]string{}

		if hasParams && strings.TrimSpace(rest) != "" {
			for _, kv := range strings.Split(rest, ",") {
				k, v, ok := strings.Cut(kv, "=")

				k = strings.TrimSpace(k)
				if !ok || k == "" {
					return nil, fmt.Errorf("--fx %d (%s): want param=value, got %q", i+1, name, kv)
				}

				if _, dup := params[k]; dup {
					return nil, fmt.Errorf("--fx %d (%s): %s given twice", i+1, name, k)
				}

				params[k] = strings.TrimSpace(v)
			}
		}

		c.names = append(c.names, name)
		c.params = append(c.params, params)
	}

	return c, nil
}

// picks ends an explicit chain with the sentinel; an empty chain falls back
// to the default selection.
func (c *chain) picks() func(k int) (string, bool) {
	if len(c.names) == 0 {
		return selection.FromSlice(nil)
	}

	return selection.FromSlice(append(append([]string(nil), c.names...), selection.None))
}

func (c *chain) rawInput() pipeline.RawInput {
	return func(index int, name string) (string, bool) {
		if index >= len(c.params) {
			return "", false
		}

		v, ok := c.params[index][name]

		return v, ok
	}
}

func runApply(cmd *cobra.Command, _ []string) error {
	c, err := parseFX(fxSpecs)
	if err != nil {
		return err
	}

	runner, err := newRunner(newLogger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	res, err := runner.Run(ctx, pass.Request{Picks: c.picks(), Params: c.rawInput()})
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), res)

	if applyPlay {
		if err := player.PlayBuffer(ctx, res.Output); err != nil && !errors.Is(err, ctx.Err()) {
			return fmt.Errorf("play: %w", err)
		}
	}

	return nil
}

func printResult(w io.Writer, res *pass.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for i, st := range res.Stages {
		fmt.Fprintf(tw, "%d\t%s", i+1, st.Spec.Name)

		for _, name := range st.Params.Names() {
			v, _ := st.Params.Get(name)
			fmt.Fprintf(tw, "\t%s=%s", name, v)
		}

		fmt.Fprintln(tw)
	}

	if len(res.Stages) == 0 {
		fmt.Fprintln(tw, "-\t(no effects)")
	}

	tw.Flush()

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\trate\tch\tseconds\tpeak dB\trms dB\t")
	writeSummary(tw, "input", res.InputSum)
	writeSummary(tw, "output", res.OutputSum)
	tw.Flush()

	fmt.Fprintf(w, "processed in %s\n", res.Elapsed.Round(time.Millisecond))
}

func writeSummary(w io.Writer, label string, s analysis.Summary) {
	fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%.1f\t%.1f\t\n", label, s.SampleRate, s.Channels, s.Seconds, s.PeakDB, s.RMSDB)
}
