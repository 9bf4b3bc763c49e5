package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-v"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), Version) {
		t.Errorf("version output = %q", stdout.String())
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"defaults", nil, false},
		{"headless frames", []string{"-headless", "-frames", "3"}, false},
		{"frames without headless", []string{"-frames", "3"}, true},
		{"stray argument", []string{"scene.lua"}, true},
		{"unknown flag", []string{"-bogus"}, true},
		{"bad frame count", []string{"-frames", "-1"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args, &bytes.Buffer{})
			if (err != nil) != tt.wantErr {
				t.Errorf("parseFlags(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}

	f, err := parseFlags([]string{"-c", "s.lua", "-watch", "-debug", "-json-log"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if f.scene != "s.lua" || !f.watch || !f.debug || !f.jsonLog {
		t.Errorf("parsed flags = %+v", f)
	}
}

func TestRunBadFlags(t *testing.T) {
	if code := run([]string{"-frames", "2"}, &bytes.Buffer{}, &bytes.Buffer{}); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestRunMissingScene(t *testing.T) {
	var stderr bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing.lua")
	if code := run([]string{"-headless", "-c", path}, &bytes.Buffer{}, &stderr); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "Error loading scene") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunHeadlessDefaultScene(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"-headless", "-frames", "2"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	log := stderr.String()
	if !strings.Contains(log, "headless run finished") || !strings.Contains(log, "frames=2") {
		t.Errorf("missing run summary in log: %s", log)
	}
}

func TestRunHeadlessSceneFile(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "scene.lua")
	src := `
print("scene loaded")
plot.window = { width = 120, height = 80 }
plot.graph = { axis_offset = 10, x = {-1, 1}, y = {-1, 1}, x_step = 0.5, y_step = 0.5 }
plot.curves = { { name = "cube", fn = "x ^ 3" } }
`
	if err := os.WriteFile(scene, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-headless", "-json-log", "-c", scene}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "scene loaded") {
		t.Errorf("Lua print output missing from stdout: %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), `"msg":"scene loaded"`) {
		t.Errorf("expected JSON log records, got %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), `"frames":1`) {
		t.Errorf("expected a one-frame summary, got %q", stderr.String())
	}
}

func TestStartProfiling(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.prof")
	mem := filepath.Join(dir, "mem.prof")

	stop, err := startProfiling(cpu, mem)
	if err != nil {
		t.Fatalf("startProfiling() error = %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop() error = %v", err)
	}
	for _, p := range []string{cpu, mem} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("profile %s not written: %v", p, err)
		}
	}

	if _, err := startProfiling(filepath.Join(dir, "missing", "cpu.prof"), ""); err == nil {
		t.Error("expected an error for an unwritable CPU profile path")
	}
}
