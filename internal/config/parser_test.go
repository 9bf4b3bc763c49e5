package config

import (
	"errors"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/opd-ai/go-grapher/internal/canvas"
	"github.com/opd-ai/go-grapher/internal/lua"
	"github.com/opd-ai/go-grapher/internal/plot"
)

const exampleScene = `
plot.window = { title = "Grapher", width = 720, height = 540, fps = 30 }
plot.graph  = { axis_offset = 20, x = {0, 10}, y = {min = -1, max = 11},
                x_step = 1, y_step = 0.5, thickness = 3,
                background = "white", axis_color = "#000", grid_color = 0xd1d1d1 }
plot.curves = {
  { name = "wave", fn = function(x) return 0.5*(x-3)*math.sin(2*x-2)+5 end,
    color = "red", step = 2 },
  { fn = "y / 2", orientation = "y", color = "blue" },
}
plot.points = { { name = "samples", data = {{2, 5.1}, {x = 4, y = 3}}, scale = 4, color = "green" } }
`

func newTestParser() *Parser {
	cfg := lua.DefaultConfig()
	cfg.Stdout = nil
	return NewParserWithRuntime(cfg)
}

func mustParse(t *testing.T, src string) *Scene {
	t.Helper()
	scene, err := newTestParser().Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	t.Cleanup(func() { scene.Close() })
	return scene
}

func TestParseExampleScene(t *testing.T) {
	scene := mustParse(t, exampleScene)
	cfg := scene.Config

	wantWindow := WindowConfig{Title: "Grapher", Width: 720, Height: 540, FPS: 30, Scale: 1}
	if diff := cmp.Diff(wantWindow, cfg.Window); diff != "" {
		t.Errorf("window mismatch (-want +got):\n%s", diff)
	}

	wantGraph := GraphConfig{
		AxisOffset: 20,
		X:          plot.AxisRange{Min: 0, Max: 10},
		Y:          plot.AxisRange{Min: -1, Max: 11},
		XStep:      1,
		YStep:      0.5,
		Thickness:  3,
		LabelScale: 1,
		Background: canvas.White,
		AxisColor:  canvas.Black,
		GridColor:  canvas.Grey,
	}
	if diff := cmp.Diff(wantGraph, cfg.Graph); diff != "" {
		t.Errorf("graph mismatch (-want +got):\n%s", diff)
	}

	if len(cfg.Curves) != 2 {
		t.Fatalf("got %d curves, want 2", len(cfg.Curves))
	}
	wantCurves := []CurveConfig{
		{Name: "wave", Color: canvas.Red, Step: 2, Orientation: OrientationX},
		{Name: "curve2", Color: canvas.Blue, Step: 1, Orientation: OrientationY},
	}
	if diff := cmp.Diff(wantCurves, cfg.Curves, cmpopts.IgnoreFields(CurveConfig{}, "Sampler")); diff != "" {
		t.Errorf("curves mismatch (-want +got):\n%s", diff)
	}

	wave := cfg.Curves[0].Sampler.Sample(3)
	if math.Abs(wave-5) > 1e-12 {
		t.Errorf("wave(3) = %v, want 5", wave)
	}
	if got := cfg.Curves[1].Sampler.Sample(8); got != 4 {
		t.Errorf("expression curve(8) = %v, want 4", got)
	}

	wantDatasets := []DatasetConfig{{
		Name:   "samples",
		Points: []plot.Point{{X: 2, Y: 5.1}, {X: 4, Y: 3}},
		Scale:  4,
		Color:  canvas.Green,
	}}
	if diff := cmp.Diff(wantDatasets, cfg.Datasets); diff != "" {
		t.Errorf("datasets mismatch (-want +got):\n%s", diff)
	}

	if len(scene.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", scene.Warnings)
	}
}

func TestParseDefaults(t *testing.T) {
	scene := mustParse(t, `plot.curves = { { fn = "x" } }`)

	want := DefaultConfig()
	if diff := cmp.Diff(want.Window, scene.Config.Window); diff != "" {
		t.Errorf("window mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Graph, scene.Config.Graph); diff != "" {
		t.Errorf("graph mismatch (-want +got):\n%s", diff)
	}

	c := scene.Config.Curves[0]
	if c.Color != DefaultCurveColor || c.Step != DefaultCurveStep || c.Name != "curve1" {
		t.Errorf("curve defaults = %+v", c)
	}
}

func TestParseEmptySceneWarns(t *testing.T) {
	scene := mustParse(t, "")

	if len(scene.Warnings) != 1 || scene.Warnings[0].Field != "plot" {
		t.Errorf("warnings = %v, want one plot warning", scene.Warnings)
	}
}

func TestParseWindowPosition(t *testing.T) {
	scene := mustParse(t, `plot.window = { x = 100, on_top = true }`)

	w := scene.Config.Window
	if !w.Positioned || w.Position != image.Pt(100, 0) {
		t.Errorf("position = %v positioned=%v, want (100,0) true", w.Position, w.Positioned)
	}
	if !w.OnTop {
		t.Error("on_top not parsed")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"syntax error", "plot.window = {", "compile"},
		{"runtime error", `error("nope")`, "execute"},
		{"plot replaced", `plot = 5`, "not a table"},
		{"bad color", `plot.graph = { background = "mauve-ish" }`, "background"},
		{"color out of range", `plot.graph = { axis_color = 0x1000000 }`, "axis_color"},
		{"bad range", `plot.graph = { x = {1} }`, "x range"},
		{"reversed range", `plot.graph = { y = {10, 0} }`, "validation failed"},
		{"bad orientation", `plot.curves = { { fn = "x", orientation = "z" } }`, "orientation"},
		{"missing fn", `plot.curves = { { name = "nothing" } }`, "no fn"},
		{"non-function fn", `plot.curves = { { fn = {} } }`, "not a function"},
		{"bad expression", `plot.curves = { { fn = "x +" } }`, "invalid expression"},
		{"curve not a table", `plot.curves = { 5 }`, "expected a table"},
		{"bad point", `plot.points = { { data = { {1} } } }`, "data[1]"},
		{"zero width", `plot.window = { width = 0 }`, "window.width"},
		{"zero step", `plot.curves = { { fn = "x", step = 0 } }`, "step"},
		{"startup hook fails", `function plot_startup() error("boom") end`, "startup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene, err := newTestParser().Parse([]byte(tt.src))
			if err == nil {
				scene.Close()
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestParseStrictMode(t *testing.T) {
	_, err := newTestParser().WithStrictMode(true).Parse([]byte(""))
	if err == nil {
		t.Error("expected strict mode to reject an empty scene")
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.lua")
	if err := os.WriteFile(path, []byte(exampleScene), 0o644); err != nil {
		t.Fatalf("failed to write scene: %v", err)
	}

	scene, err := newTestParser().ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	defer scene.Close()

	if scene.Config.Window.FPS != 30 {
		t.Errorf("FPS = %d, want 30", scene.Config.Window.FPS)
	}

	_, err = newTestParser().ParseFile(filepath.Join(t.TempDir(), "missing.lua"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ParseFile(missing) error = %v, want ErrNotExist", err)
	}

	broken := filepath.Join(t.TempDir(), "broken.lua")
	if err := os.WriteFile(broken, []byte("plot.window = {"), 0o644); err != nil {
		t.Fatalf("failed to write scene: %v", err)
	}
	_, err = newTestParser().ParseFile(broken)
	if err == nil || !strings.Contains(err.Error(), "broken.lua") {
		t.Errorf("ParseFile(broken) error = %v, want it to name the file", err)
	}
}

func TestParseFromFSAndReader(t *testing.T) {
	fsys := fstest.MapFS{
		"scenes/demo.lua": {Data: []byte(exampleScene)},
	}

	scene, err := newTestParser().ParseFromFS(fsys, "scenes/demo.lua")
	if err != nil {
		t.Fatalf("ParseFromFS() error = %v", err)
	}
	scene.Close()

	scene, err = newTestParser().ParseReader(strings.NewReader(exampleScene))
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}
	scene.Close()

	if _, err := newTestParser().ParseFromFS(fsys, "nope.lua"); err == nil {
		t.Error("expected error for missing FS file")
	}
}

func TestSceneHooksAndClose(t *testing.T) {
	scene := mustParse(t, `
		started, frames, stopped = false, 0, false
		function plot_startup() started = true end
		function plot_frame(n) frames = n end
		function plot_shutdown() stopped = true end
		plot.curves = { { fn = function(x) return frames end } }
	`)

	r := scene.Runtime()
	if v, _ := r.GetGlobal("started").TryBool(); !v {
		t.Error("startup hook did not run during parse")
	}

	if err := scene.BeginFrame(7); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if got := scene.Config.Curves[0].Sampler.Sample(0); got != 7 {
		t.Errorf("curve after frame hook = %v, want 7", got)
	}

	if err := scene.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := scene.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	// Curves of a closed scene fail as undefined samples.
	if got := scene.Config.Curves[0].Sampler.Sample(0); !math.IsNaN(got) {
		t.Errorf("sample after Close = %v, want NaN", got)
	}
}

func TestSceneDrainSampleErrors(t *testing.T) {
	scene := mustParse(t, `plot.curves = {
		{ fn = function(x) if x > 5 then error("too big") end return x end },
		{ fn = "x * 2" },
	}`)

	for _, x := range []float64{1, 6, 7} {
		for _, c := range scene.Config.Curves {
			c.Sampler.Sample(x)
		}
	}

	n, err := scene.DrainSampleErrors()
	if n != 2 || err == nil {
		t.Errorf("DrainSampleErrors() = %d, %v; want 2 and an error", n, err)
	}
	if n, err := scene.DrainSampleErrors(); n != 0 || err != nil {
		t.Errorf("second drain = %d, %v; want 0, nil", n, err)
	}
}
