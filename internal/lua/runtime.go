// Package lua provides Golua integration for go-grapher.
// It wraps a Lua runtime with per-call resource limits and exposes Lua
// functions as plot samplers.
package lua

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"
)

// RuntimeConfig contains configuration options for the Lua runtime.
type RuntimeConfig struct {
	// CPULimit is the CPU instruction limit applied to each call into Lua.
	// 0 means unlimited.
	CPULimit uint64
	// MemoryLimit is the maximum memory in bytes one call may allocate.
	// 0 means unlimited.
	MemoryLimit uint64
	// Stdout receives Lua print output. If nil, output is only captured.
	Stdout io.Writer
}

// DefaultConfig returns a RuntimeConfig suited to scene files.
// CPU limit: 10,000,000 instructions
// Memory limit: 50 MB
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		CPULimit:    10_000_000,
		MemoryLimit: 50 * 1024 * 1024,
		Stdout:      os.Stdout,
	}
}

// Runtime wraps a Golua runtime. All access is serialized, so a Runtime
// may be shared between the render loop and a config reload.
type Runtime struct {
	config  RuntimeConfig
	runtime *rt.Runtime
	output  *bytes.Buffer
	cleanup func()
	closed  bool
	mu      sync.Mutex
}

// New creates a Runtime with the Lua standard libraries loaded.
func New(config RuntimeConfig) (*Runtime, error) {
	output := &bytes.Buffer{}
	var stdout io.Writer = output
	if config.Stdout != nil {
		stdout = io.MultiWriter(config.Stdout, output)
	}

	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)

	return &Runtime{
		config:  config,
		runtime: runtime,
		output:  output,
		cleanup: cleanup,
	}, nil
}

// LoadString compiles a Lua chunk against the global environment.
func (r *Runtime) LoadString(name, code string) (*rt.Closure, error) {
	return r.load(name, []byte(code))
}

// LoadFile reads and compiles a Lua file.
func (r *Runtime) LoadFile(path string) (*rt.Closure, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read Lua file %s: %w", path, err)
	}
	return r.load(path, content)
}

func (r *Runtime) load(name string, content []byte) (*rt.Closure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}

	closure, err := r.runtime.CompileAndLoadLuaChunk(
		name,
		content,
		rt.TableValue(r.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load Lua chunk %s: %w", name, err)
	}
	return closure, nil
}

// Execute runs a compiled chunk within the configured resource limits.
func (r *Runtime) Execute(closure *rt.Closure) (rt.Value, error) {
	if closure == nil {
		return rt.NilValue, ErrNotCallable
	}
	return r.Call(rt.FunctionValue(closure))
}

// ExecuteString compiles and runs a Lua chunk.
func (r *Runtime) ExecuteString(name, code string) (rt.Value, error) {
	closure, err := r.LoadString(name, code)
	if err != nil {
		return rt.NilValue, err
	}
	return r.Execute(closure)
}

// Call invokes fn with args and returns its first result. Exceeding the
// CPU or memory limit is reported as an error matching ErrResourceLimit.
func (r *Runtime) Call(fn rt.Value, args ...rt.Value) (rt.Value, error) {
	if fn.Type() != rt.FunctionType {
		return rt.NilValue, fmt.Errorf("%w: got %s", ErrNotCallable, fn.TypeName())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return rt.NilValue, ErrClosed
	}
	return r.call(fn, args)
}

// call runs fn under a fresh limited context. The caller holds r.mu.
func (r *Runtime) call(fn rt.Value, args []rt.Value) (result rt.Value, err error) {
	// golua panics when a hard limit is reached.
	defer func() {
		if p := recover(); p != nil {
			result = rt.NilValue
			err = fmt.Errorf("%w: %v", ErrResourceLimit, p)
		}
	}()

	r.runtime.PushContext(rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    r.config.CPULimit,
			Memory: r.config.MemoryLimit,
		},
	})
	defer r.runtime.PopContext()

	result, err = rt.Call1(r.runtime.MainThread(), fn, args...)
	if err != nil {
		return rt.NilValue, fmt.Errorf("Lua execution error: %w", err)
	}
	return result, nil
}

// CallFunction calls the global function name with args.
func (r *Runtime) CallFunction(name string, args ...rt.Value) (rt.Value, error) {
	fn := r.GetGlobal(name)
	if fn == rt.NilValue {
		return rt.NilValue, fmt.Errorf("function %s not found", name)
	}
	result, err := r.Call(fn, args...)
	if err != nil {
		return rt.NilValue, fmt.Errorf("failed to call function %s: %w", name, err)
	}
	return result, nil
}

// GetGlobal retrieves a global variable from the Lua environment.
func (r *Runtime) GetGlobal(name string) rt.Value {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.runtime.GlobalEnv().Get(rt.StringValue(name))
}

// SetGlobal sets a global variable in the Lua environment.
func (r *Runtime) SetGlobal(name string, value rt.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runtime.GlobalEnv().Set(rt.StringValue(name), value)
}

// Output returns everything Lua has printed since the runtime was created
// or ResetOutput was last called.
func (r *Runtime) Output() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.output.String()
}

// ResetOutput discards the captured print output.
func (r *Runtime) ResetOutput() {
	r.mu.Lock()
	r.output.Reset()
	r.mu.Unlock()
}

// Config returns the runtime configuration.
func (r *Runtime) Config() RuntimeConfig {
	return r.config
}

// Close releases the runtime. Later calls fail with ErrClosed.
// Close is idempotent.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	if r.cleanup != nil {
		r.cleanup()
		r.cleanup = nil
	}
	return nil
}
