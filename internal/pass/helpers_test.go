package pass

import (
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-pedalboard/audio"
	"github.com/cwbudde/algo-pedalboard/catalog"
	"github.com/cwbudde/algo-pedalboard/internal/config"
	"github.com/cwbudde/algo-pedalboard/internal/testutil"
	"github.com/cwbudde/algo-pedalboard/selection"
)

// newTestRunner writes a stereo test tone at sampleRate to a temp input file
// and returns a runner reading it.
func newTestRunner(t *testing.T, sampleRate int) (*Runner, *config.Config) {
	t.Helper()

	dir := t.TempDir()

	cfg := config.New()
	cfg.InputPath = filepath.Join(dir, "download.wav")
	cfg.OutputPath = filepath.Join(dir, "outputs.wav")

	in := testutil.ToneBuffer(sampleRate, 2, 1000, 0.25, sampleRate/2)
	if err := audio.WriteWAV(cfg.InputPath, in, 16); err != nil {
		t.Fatal(err)
	}

	r, err := NewRunner(cfg, catalog.Default(), nil)
	if err != nil {
		t.Fatal(err)
	}

	return r, cfg
}

// params adapts a map of "position.name" keys (1-based) to a RawInput.
func params(m map[string]string) func(int, string) (string, bool) {
	return func(index int, name string) (string, bool) {
		v, ok := m[string(rune('1'+index))+"."+name]
		return v, ok
	}
}

func picks(names ...string) func(int) (string, bool) {
	return selection.FromSlice(names)
}
