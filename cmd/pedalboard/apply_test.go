package main

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/cwbudde/algo-pedalboard/catalog"
	"github.com/cwbudde/algo-pedalboard/param"
	"github.com/cwbudde/algo-pedalboard/selection"
)

func TestParseFX(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		specs      []string
		wantNames  []string
		wantParams []map[string]string
	}{
		{
			name: "none",
		},
		{
			name:       "bare name",
			specs:      []string{"Reverb"},
			wantNames:  []string{"Reverb"},
			wantParams: []map[string]string{{}},
		},
		{
			name:       "trailing colon",
			specs:      []string{"Reverb:"},
			wantNames:  []string{"Reverb"},
			wantParams: []map[string]string{{}},
		},
		{
			name:      "params in order",
			specs:     []string{"Gain:gain_db=6", "Reverb: room_size = 0.8 ,wet_level=0.4"},
			wantNames: []string{"Gain", "Reverb"},
			wantParams: []map[string]string{
				{"gain_db": "6"},
				{"room_size": "0.8", "wet_level": "0.4"},
			},
		},
		{
			name:       "empty value",
			specs:      []string{"Convolution:impulse_response_filename="},
			wantNames:  []string{"Convolution"},
			wantParams: []map[string]string{{"impulse_response_filename": ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := parseFX(tt.specs)
			if err != nil {
				t.Fatalf("parseFX: %v", err)
			}

			if !reflect.DeepEqual(c.names, tt.wantNames) {
				t.Errorf("names = %v, want %v", c.names, tt.wantNames)
			}

			if !reflect.DeepEqual(c.params, tt.wantParams) {
				t.Errorf("params = %v, want %v", c.params, tt.wantParams)
			}
		})
	}
}

func TestParseFXErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		specs []string
		want  string
	}{
		{"missing name", []string{":gain_db=1"}, "missing effect name"},
		{"missing equals", []string{"Gain:gain_db"}, "want param=value"},
		{"empty key", []string{"Gain:=3"}, "want param=value"},
		{"duplicate", []string{"Gain:gain_db=1,gain_db=2"}, "given twice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := parseFX(tt.specs)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestChainSelection(t *testing.T) {
	t.Parallel()

	m, err := selection.New(catalog.Default().Names(), false)
	if err != nil {
		t.Fatal(err)
	}

	c, err := parseFX([]string{"Gain", "Gain", "Reverb"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := m.Finalize(c.picks())
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if want := []string{"Gain", "Gain", "Reverb"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("selection = %v, want %v", got, want)
	}

	empty, err := parseFX(nil)
	if err != nil {
		t.Fatal(err)
	}

	got, err = m.Finalize(empty.picks())
	if err != nil {
		t.Fatalf("Finalize default: %v", err)
	}

	if want := []string{m.Default(1)}; !reflect.DeepEqual(got, want) {
		t.Fatalf("default selection = %v, want %v", got, want)
	}
}

func TestChainRawInput(t *testing.T) {
	t.Parallel()

	c, err := parseFX([]string{"Gain:gain_db=3", "Reverb"})
	if err != nil {
		t.Fatal(err)
	}

	in := c.rawInput()

	if v, ok := in(0, "gain_db"); !ok || v != "3" {
		t.Errorf("in(0, gain_db) = %q, %v", v, ok)
	}

	if _, ok := in(1, "room_size"); ok {
		t.Error("in(1, room_size) present, want absent")
	}

	if _, ok := in(5, "gain_db"); ok {
		t.Error("in(5, gain_db) present, want absent")
	}
}

func TestRunEffectsListsControls(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	effectsCmd.SetOut(&buf)

	if err := runEffects(effectsCmd, []string{"LadderFilter"}); err != nil {
		t.Fatalf("runEffects: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"LadderFilter", "mode", strings.Join(param.FilterModes, "|"), "cutoff_hz"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if err := runEffects(effectsCmd, []string{"Flanger"}); err == nil {
		t.Error("unknown effect: want error")
	}
}
