package backend

import "errors"

var (
	// ErrUnsupportedAlignment indicates an alignment the backend cannot honour.
	ErrUnsupportedAlignment = errors.New("backend: unsupported alignment")

	// ErrTooLarge indicates a request larger than the backend will serve.
	ErrTooLarge = errors.New("backend: allocation too large")

	// ErrReleased indicates an allocation from an arena after Release.
	ErrReleased = errors.New("backend: arena used after Release")
)
