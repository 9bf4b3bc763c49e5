package lua

import (
	"errors"
	"math"
	"testing"

	rt "github.com/arnodel/golua/runtime"
)

func mustSampler(t *testing.T, r *Runtime, code string) *Sampler {
	t.Helper()
	fn, err := r.ExecuteString("curve", code)
	if err != nil {
		t.Fatalf("failed to compile curve: %v", err)
	}
	s, err := NewSampler(r, "f", fn)
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}
	return s
}

func TestSamplerValues(t *testing.T) {
	runtime := newTestRuntime(t)

	tests := []struct {
		name string
		code string
		x    float64
		want float64
	}{
		{"linear", "return function(x) return 2*x + 1 end", 3, 7},
		{"integer result", "return function(x) return 4 end", 0, 4},
		{"numeric string", `return function(x) return " 2.5 " end`, 0, 2.5},
		{"math library", "return function(x) return math.sin(x) end", math.Pi / 2, 1},
		{"infinity passes through", "return function(x) return 1/(x-5) end", 5, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustSampler(t, runtime, tt.code)
			got := s.Sample(tt.x)
			if math.Abs(got-tt.want) > 1e-12 && got != tt.want {
				t.Errorf("Sample(%v) = %v, want %v", tt.x, got, tt.want)
			}
			if err := s.Err(); err != nil {
				t.Errorf("Err() = %v, want nil", err)
			}
		})
	}
}

func TestSamplerFailuresYieldNaN(t *testing.T) {
	runtime := newTestRuntime(t)

	tests := []struct {
		name    string
		code    string
		wantErr error
	}{
		{"nil result", "return function(x) return nil end", ErrNotNumber},
		{"table result", "return function(x) return {} end", ErrNotNumber},
		{"text result", `return function(x) return "abc" end`, ErrNotNumber},
		{"lua error", `return function(x) error("undefined") end`, nil},
		{"nil arithmetic", "return function(x) return x + nil end", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustSampler(t, runtime, tt.code)
			if got := s.Sample(1); !math.IsNaN(got) {
				t.Errorf("Sample() = %v, want NaN", got)
			}
			err := s.Err()
			if err == nil {
				t.Fatal("expected failure to be recorded")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Err() = %v, want %v", err, tt.wantErr)
			}
			if s.Errors() != 1 {
				t.Errorf("Errors() = %d, want 1", s.Errors())
			}
		})
	}
}

func TestSamplerReset(t *testing.T) {
	runtime := newTestRuntime(t)
	s := mustSampler(t, runtime, "return function(x) if x < 0 then return nil end return x end")

	s.Sample(-1)
	s.Sample(-2)
	if s.Errors() != 2 {
		t.Fatalf("Errors() = %d, want 2", s.Errors())
	}

	s.Reset()
	if s.Err() != nil || s.Errors() != 0 {
		t.Errorf("after Reset: Err() = %v, Errors() = %d", s.Err(), s.Errors())
	}
	if got := s.Sample(3); got != 3 {
		t.Errorf("Sample(3) = %v, want 3", got)
	}
}

func TestNewSamplerRejectsNonFunction(t *testing.T) {
	runtime := newTestRuntime(t)

	if _, err := NewSampler(runtime, "f", rt.IntValue(1)); !errors.Is(err, ErrNotCallable) {
		t.Errorf("NewSampler(int) error = %v, want ErrNotCallable", err)
	}
	if _, err := NewSampler(nil, "f", rt.NilValue); !errors.Is(err, ErrNilRuntime) {
		t.Errorf("NewSampler(nil runtime) error = %v, want ErrNilRuntime", err)
	}
}

func TestGlobalSampler(t *testing.T) {
	runtime := newTestRuntime(t)
	if _, err := runtime.ExecuteString("setup", "function square(x) return x * x end"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	s, err := GlobalSampler(runtime, "square")
	if err != nil {
		t.Fatalf("GlobalSampler: %v", err)
	}
	if s.Name() != "square" {
		t.Errorf("Name() = %q", s.Name())
	}
	if got := s.Sample(1.5); got != 2.25 {
		t.Errorf("Sample(1.5) = %v, want 2.25", got)
	}

	if _, err := GlobalSampler(runtime, "missing"); !errors.Is(err, ErrNotCallable) {
		t.Errorf("GlobalSampler(missing) error = %v, want ErrNotCallable", err)
	}
}
