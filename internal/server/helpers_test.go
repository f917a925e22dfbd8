package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-pedalboard/audio"
	"github.com/cwbudde/algo-pedalboard/catalog"
	"github.com/cwbudde/algo-pedalboard/fx"
	"github.com/cwbudde/algo-pedalboard/internal/config"
	"github.com/cwbudde/algo-pedalboard/internal/pass"
	"github.com/cwbudde/algo-pedalboard/internal/testutil"
)

func newTestServer(t *testing.T) (*httptest.Server, *config.Config) {
	t.Helper()

	dir := t.TempDir()

	cfg := config.New()
	cfg.InputPath = filepath.Join(dir, "download.wav")
	cfg.OutputPath = filepath.Join(dir, "outputs.wav")

	in := testutil.ToneBuffer(22050, 1, 440, 0.3, 4410)

	if err := audio.WriteWAV(cfg.InputPath, in, 16); err != nil {
		t.Fatal(err)
	}

	cfg.IRDir = filepath.Join(dir, "irs")
	if err := os.Mkdir(cfg.IRDir, 0o755); err != nil {
		t.Fatal(err)
	}

	room := &audio.Buffer{SampleRate: 22050, Channels: [][]float64{{1, 0.25, 0.125}}}
	if err := audio.WriteWAV(filepath.Join(cfg.IRDir, "room.wav"), room, 16); err != nil {
		t.Fatal(err)
	}

	reg, err := catalog.New(fx.IRDir(cfg.IRDir))
	if err != nil {
		t.Fatal(err)
	}

	runner, err := pass.NewRunner(cfg, reg, nil)
	if err != nil {
		t.Fatal(err)
	}

	srv, err := New(runner, nil)
	if err != nil {
		t.Fatal(err)
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return ts, cfg
}

func get(t *testing.T, ts *httptest.Server, path string) (int, string) {
	t.Helper()

	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	return resp.StatusCode, string(body)
}

func post(t *testing.T, ts *httptest.Server, path, body string) (int, string) {
	t.Helper()

	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	return resp.StatusCode, string(out)
}
