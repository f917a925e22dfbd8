package fx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cwbudde/algo-pedalboard/audio"
)

// ErrIROutsideDir is returned for impulse response names that do not
// resolve to a file inside the impulse response directory.
var ErrIROutsideDir = errors.New("impulse response outside directory")

// IRDir is a directory of impulse response WAV files. Names are relative
// to it; absolute paths and names that leave it are rejected, including
// through symlinks. The zero value is an empty library.
type IRDir string

// Names lists the .wav files directly inside d, sorted.
func (d IRDir) Names() ([]string, error) {
	if d == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(string(d))
	if err != nil {
		return nil, fmt.Errorf("fx: impulse responses: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			names = append(names, e.Name())
		}
	}

	slices.Sort(names)

	return names, nil
}

// Load decodes the impulse response called name.
func (d IRDir) Load(name string) (*audio.Buffer, error) {
	if d == "" {
		return nil, fmt.Errorf("%w: %q: no impulse response directory configured", ErrIROutsideDir, name)
	}

	if !filepath.IsLocal(name) {
		return nil, fmt.Errorf("%w: %q", ErrIROutsideDir, name)
	}

	root, err := os.OpenRoot(string(d))
	if err != nil {
		return nil, fmt.Errorf("fx: impulse responses: %w", err)
	}
	defer root.Close()

	f, err := root.Open(name)
	if err != nil {
		return nil, fmt.Errorf("fx: impulse response %q: %w", name, err)
	}
	defer f.Close()

	b, err := audio.DecodeWAV(f)
	if err != nil {
		return nil, fmt.Errorf("fx: impulse response %q: %w", name, err)
	}

	return b, nil
}
