package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pedalboard/param"
)

var effectsCmd = &cobra.Command{
	Use:   "effects [name ...]",
	Short: "List the effect catalog",
	Long: `List every effect with its parameters, defaults and the range the
web interface offers. With names, only those effects are listed.`,
	RunE: runEffects,
}

func runEffects(cmd *cobra.Command, args []string) error {
	reg, err := registry()
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = reg.Names()
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer tw.Flush()

	for _, name := range names {
		spec, err := reg.Lookup(name)
		if err != nil {
			return err
		}

		fmt.Fprintf(tw, "%s\n", spec.Name)

		for _, c := range spec.Controls() {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", c.Name, c.Kind, c.Default, controlRange(c, spec.Suggestions[c.Name]))
		}
	}

	return nil
}

func controlRange(c param.Control, suggestions []string) string {
	switch c.Kind {
	case param.ControlSlider, param.ControlIntSlider:
		return fmt.Sprintf("[%g, %g] step %g", c.Min, c.Max, c.Step)
	case param.ControlSelect:
		return strings.Join(c.Choices, "|")
	default:
		return strings.Join(suggestions, "|")
	}
}
