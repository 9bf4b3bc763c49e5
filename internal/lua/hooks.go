package lua

import (
	"fmt"
	"sync"

	rt "github.com/arnodel/golua/runtime"
)

// HookType identifies a scene lifecycle callback.
type HookType int

const (
	// HookInvalid is returned by ParseHookType when parsing fails.
	HookInvalid HookType = iota

	// HookStartup runs once after a scene is loaded.
	HookStartup

	// HookFrame runs before every frame is rendered and receives the frame
	// number. Scenes use it to animate globals their curves read.
	HookFrame

	// HookShutdown runs once before a scene is closed or replaced.
	HookShutdown
)

// HookPrefix is prepended to the hook name to form the Lua function name.
const HookPrefix = "plot_"

// String returns the string representation of a HookType.
func (h HookType) String() string {
	switch h {
	case HookStartup:
		return "startup"
	case HookFrame:
		return "frame"
	case HookShutdown:
		return "shutdown"
	case HookInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// LuaFunctionName returns the global Lua function name for a hook type,
// for example "plot_frame".
func (h HookType) LuaFunctionName() string {
	return HookPrefix + h.String()
}

// ParseHookType parses a string into a HookType.
func ParseHookType(s string) (HookType, error) {
	switch s {
	case "startup":
		return HookStartup, nil
	case "frame":
		return HookFrame, nil
	case "shutdown":
		return HookShutdown, nil
	default:
		return HookInvalid, fmt.Errorf("unknown hook type: %s", s)
	}
}

// Hooks holds the lifecycle callbacks a scene defined.
type Hooks struct {
	runtime *Runtime
	hooks   map[HookType]rt.Value
	mu      sync.RWMutex
}

// NewHooks scans runtime for plot_startup, plot_frame and plot_shutdown
// globals and registers the ones that are functions.
func NewHooks(runtime *Runtime) (*Hooks, error) {
	if runtime == nil {
		return nil, ErrNilRuntime
	}

	h := &Hooks{
		runtime: runtime,
		hooks:   make(map[HookType]rt.Value),
	}
	for _, hookType := range []HookType{HookStartup, HookFrame, HookShutdown} {
		fn := runtime.GetGlobal(hookType.LuaFunctionName())
		if fn.Type() == rt.FunctionType {
			h.hooks[hookType] = fn
		}
	}
	return h, nil
}

// Has reports whether the scene defined the hook.
func (h *Hooks) Has(hookType HookType) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.hooks[hookType]
	return ok
}

// Registered returns the defined hooks in lifecycle order.
func (h *Hooks) Registered() []HookType {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]HookType, 0, len(h.hooks))
	for _, hookType := range []HookType{HookStartup, HookFrame, HookShutdown} {
		if _, ok := h.hooks[hookType]; ok {
			out = append(out, hookType)
		}
	}
	return out
}

// Call invokes the hook if it is defined. A missing hook is not an error.
func (h *Hooks) Call(hookType HookType, args ...rt.Value) error {
	h.mu.RLock()
	fn, ok := h.hooks[hookType]
	h.mu.RUnlock()

	if !ok {
		return nil
	}
	if _, err := h.runtime.Call(fn, args...); err != nil {
		return fmt.Errorf("hook %s execution failed: %w", hookType, err)
	}
	return nil
}

// Frame invokes the frame hook with the frame number.
func (h *Hooks) Frame(n uint64) error {
	return h.Call(HookFrame, rt.IntValue(int64(n)))
}
