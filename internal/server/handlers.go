package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cwbudde/algo-pedalboard/analysis"
	"github.com/cwbudde/algo-pedalboard/internal/pass"
	"github.com/cwbudde/algo-pedalboard/selection"
)

const maxRunBody = 1 << 20

var templateFuncs = template.FuncMap{
	"db": func(v float64) string {
		if v <= analysis.FloorDB {
			return "-inf dB"
		}

		return strconv.FormatFloat(v, 'f', 1, 64) + " dB"
	},
	"seconds": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64) + " s"
	},
	"half": func(v float64) float64 { return v / 2 },
	"add":  func(a, b float64) float64 { return a + b },
}

type pageError struct {
	Stage   string
	Message string
}

type resultView struct {
	Input     analysis.Summary
	Output    analysis.Summary
	Elapsed   time.Duration
	Waveforms []wavePlot
	Spectrum  *spectrumPlot
	Token     string
}

type indexPage struct {
	Positions []position
	Stages    []stageView
	Result    *resultView
	Error     *pageError
	Width     float64
	WaveH     float64
	SpecH     float64
}

// handleIndex runs one pass from the query string and renders the board.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	picks := formPicks(q)
	params := formParams(q)

	page := indexPage{
		Positions: positions(s.runner.Machine(), picks),
		Width:     plotWidth,
		WaveH:     waveHeight,
		SpecH:     spectrumHeight,
	}

	if names, err := s.runner.Select(picks); err == nil {
		page.Stages = stageViews(s.runner.Registry(), names, params)
	}

	s.mu.Lock()
	res, err := s.runner.Run(r.Context(), pass.Request{Picks: picks, Params: params})
	s.mu.Unlock()

	if err != nil {
		page.Error = toPageError(err)
	} else {
		page.Result = s.resultView(res)
	}

	s.render(w, "index.html", page)
}

func (s *Server) resultView(res *pass.Result) *resultView {
	v := &resultView{
		Input:     res.InputSum,
		Output:    res.OutputSum,
		Elapsed:   res.Elapsed,
		Waveforms: waveformPlots(res.Output),
		Token:     strconv.FormatInt(time.Now().UnixNano(), 36),
	}

	spec, err := spectrumPlots(res.Input, res.Output)
	if err != nil {
		s.logger.Warn("spectrum plot", slog.Any("error", err))
	} else {
		v.Spectrum = spec
	}

	return v
}

func toPageError(err error) *pageError {
	var pe *pass.Error
	if errors.As(err, &pe) {
		return &pageError{Stage: string(pe.Stage), Message: pe.Err.Error()}
	}

	return &pageError{Message: err.Error()}
}

func (s *Server) handleAudio(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		defer s.mu.RUnlock()

		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Type", "audio/wav")
		http.ServeFile(w, r, path)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type controlJSON struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Step    *float64 `json:"step,omitempty"`
	Default any      `json:"default"`
	Choices []string `json:"choices,omitempty"`
	Suggest []string `json:"suggestions,omitempty"`
}

type effectJSON struct {
	Name     string         `json:"name"`
	Defaults map[string]any `json:"defaults"`
	Controls []controlJSON  `json:"controls"`
}

func (s *Server) handleEffects(w http.ResponseWriter, _ *http.Request) {
	specs := s.runner.Registry().All()
	out := make([]effectJSON, 0, len(specs))

	for _, spec := range specs {
		e := effectJSON{Name: spec.Name, Defaults: spec.Defaults.Map()}

		for _, c := range spec.Controls() {
			cj := controlJSON{
				Name: c.Name, Kind: c.Kind.String(), Default: c.Default.Any(),
				Choices: c.Choices, Suggest: spec.Suggestions[c.Name],
			}
			if controlKind(c.Kind) == "slider" {
				cj.Min, cj.Max, cj.Step = &c.Min, &c.Max, &c.Step
			}

			e.Controls = append(e.Controls, cj)
		}

		out = append(out, e)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sentinel":   selection.None,
		"max_stages": selection.MaxStages,
		"effects":    out,
	})
}

type runRequest struct {
	Effects []string         `json:"effects"`
	Params  []map[string]any `json:"params"`
}

type runResponse struct {
	Selection []string         `json:"selection"`
	Params    []map[string]any `json:"params"`
	Input     analysis.Summary `json:"input"`
	Output    analysis.Summary `json:"output"`
	ElapsedMS float64          `json:"elapsed_ms"`
}

func (r runRequest) rawInput(index int, name string) (string, bool) {
	if index >= len(r.Params) {
		return "", false
	}

	v, ok := r.Params[index][name]
	if !ok {
		return "", false
	}

	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	default:
		return fmt.Sprint(x), true
	}
}

// handleRun runs one pass from a JSON request.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRunBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request: " + err.Error()})
		return
	}

	s.mu.Lock()
	res, err := s.runner.Run(r.Context(), pass.Request{
		Picks:  selection.FromSlice(req.Effects),
		Params: req.rawInput,
	})
	s.mu.Unlock()

	if err != nil {
		pe := toPageError(err)
		writeJSON(w, errorStatus(err), map[string]string{"stage": pe.Stage, "error": pe.Message})

		return
	}

	resp := runResponse{
		Selection: res.Selection,
		Params:    make([]map[string]any, len(res.Stages)),
		Input:     res.InputSum,
		Output:    res.OutputSum,
		ElapsedMS: float64(res.Elapsed) / float64(time.Millisecond),
	}

	for i, st := range res.Stages {
		resp.Params[i] = st.Params.Map()
	}

	writeJSON(w, http.StatusOK, resp)
}

// errorStatus maps a failed pass to an HTTP status: bad user input is 422,
// file trouble is 500.
func errorStatus(err error) int {
	var pe *pass.Error
	if !errors.As(err, &pe) {
		return http.StatusInternalServerError
	}

	switch pe.Stage {
	case pass.StageSelect, pass.StageCollect, pass.StageBuild, pass.StageProcess:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template error", slog.String("template", name), slog.Any("error", err))
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
