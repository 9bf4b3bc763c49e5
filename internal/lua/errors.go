package lua

import "errors"

var (
	// ErrNilRuntime is returned when a nil runtime is passed to a function that requires one.
	ErrNilRuntime = errors.New("runtime cannot be nil")

	// ErrClosed is returned by every call on a closed Runtime.
	ErrClosed = errors.New("lua runtime is closed")

	// ErrNotCallable is returned when a value that is not a function is called.
	ErrNotCallable = errors.New("value is not a function")

	// ErrResourceLimit is returned when a call exceeds its CPU or memory limit.
	ErrResourceLimit = errors.New("lua resource limit exceeded")

	// ErrNotNumber is recorded by a Sampler whose function returned a value
	// that cannot be read as a number.
	ErrNotNumber = errors.New("lua function did not return a number")
)
