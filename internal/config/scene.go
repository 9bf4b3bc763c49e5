package config

import (
	"errors"
	"sync"

	"github.com/opd-ai/go-grapher/internal/lua"
)

// Scene is a parsed scene together with the Lua runtime its curves run in.
// A Scene must be closed to release the runtime.
type Scene struct {
	// Config is the parsed configuration.
	Config Config
	// Warnings are non-fatal validation findings.
	Warnings []ValidationError

	runtime  *lua.Runtime
	hooks    *lua.Hooks
	samplers []*lua.Sampler
	closeMu  sync.Mutex
	closed   bool
}

// Runtime returns the Lua runtime owning the curve functions.
func (s *Scene) Runtime() *lua.Runtime { return s.runtime }

// Hooks returns the lifecycle hooks the scene defined.
func (s *Scene) Hooks() *lua.Hooks { return s.hooks }

// BeginFrame runs the scene's frame hook, if any. Print output captured
// during the previous frame is discarded first.
func (s *Scene) BeginFrame(n uint64) error {
	if s.runtime != nil {
		s.runtime.ResetOutput()
	}
	if s.hooks == nil {
		return nil
	}
	return s.hooks.Frame(n)
}

// DrainSampleErrors returns the number of failed curve samples since the
// previous call and the most recent failure, and resets the counters.
func (s *Scene) DrainSampleErrors() (int, error) {
	var (
		total int
		last  error
	)
	for _, sampler := range s.samplers {
		if n := sampler.Errors(); n > 0 {
			total += n
			last = sampler.Err()
			sampler.Reset()
		}
	}
	return total, last
}

// Close runs the shutdown hook and releases the Lua runtime.
// Close is idempotent.
func (s *Scene) Close() error {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var hookErr error
	if s.hooks != nil {
		hookErr = s.hooks.Call(lua.HookShutdown)
	}
	var closeErr error
	if s.runtime != nil {
		closeErr = s.runtime.Close()
	}
	return errors.Join(hookErr, closeErr)
}
