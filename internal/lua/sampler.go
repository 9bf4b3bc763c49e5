package lua

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	rt "github.com/arnodel/golua/runtime"
)

// Sampler evaluates a Lua function at plot sample positions. It satisfies
// plot.Sampler.
//
// Sample never fails: a Lua error, an exceeded limit or a non-numeric
// result yields NaN, which the renderer treats as an undefined point.
// The most recent failure is kept for Err.
type Sampler struct {
	runtime *Runtime
	fn      rt.Value
	name    string

	mu     sync.Mutex
	err    error
	errors int
}

// NewSampler wraps fn, which must be a Lua function owned by r.
func NewSampler(r *Runtime, name string, fn rt.Value) (*Sampler, error) {
	if r == nil {
		return nil, ErrNilRuntime
	}
	if fn.Type() != rt.FunctionType {
		return nil, fmt.Errorf("curve %q: %w", name, ErrNotCallable)
	}
	return &Sampler{runtime: r, fn: fn, name: name}, nil
}

// GlobalSampler wraps the global Lua function called name.
func GlobalSampler(r *Runtime, name string) (*Sampler, error) {
	if r == nil {
		return nil, ErrNilRuntime
	}
	return NewSampler(r, name, r.GetGlobal(name))
}

// Name returns the curve name the sampler was created with.
func (s *Sampler) Name() string { return s.name }

// Sample calls the Lua function with x.
func (s *Sampler) Sample(x float64) float64 {
	result, err := s.runtime.Call(s.fn, rt.FloatValue(x))
	if err != nil {
		s.fail(fmt.Errorf("%s(%v): %w", s.name, x, err))
		return math.NaN()
	}

	v, ok := toFloat(result)
	if !ok {
		s.fail(fmt.Errorf("%s(%v) returned %s: %w", s.name, x, result.TypeName(), ErrNotNumber))
		return math.NaN()
	}
	return v
}

func (s *Sampler) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	s.errors++
}

// Err returns the most recent sampling failure, or nil.
func (s *Sampler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Errors returns how many samples have failed since the last Reset.
func (s *Sampler) Errors() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors
}

// Reset clears the recorded failure state.
func (s *Sampler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
	s.errors = 0
}

// toFloat reads a Lua result as a number. Numeric strings are accepted
// the way Lua's arithmetic coerces them.
func toFloat(v rt.Value) (float64, bool) {
	if f, ok := v.TryFloat(); ok {
		return f, true
	}
	if n, ok := v.TryInt(); ok {
		return float64(n), true
	}
	if str, ok := v.TryString(); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err == nil {
			return f, true
		}
	}
	return 0, false
}
