package multialloc

import "errors"

var (
	// ErrInvalidLayout indicates a negative size or a non power-of-two alignment.
	ErrInvalidLayout = errors.New("multialloc: invalid layout")

	// ErrNoBackends indicates a table built from an empty registration list.
	ErrNoBackends = errors.New("multialloc: no backends registered")

	// ErrTooManyBackends indicates more registrations than a one-byte tag can name.
	ErrTooManyBackends = errors.New("multialloc: too many backends")

	// ErrDuplicateName indicates two registrations sharing a name.
	ErrDuplicateName = errors.New("multialloc: duplicate backend name")

	// ErrEmptyName indicates a registration without a name.
	ErrEmptyName = errors.New("multialloc: empty backend name")

	// ErrNilBackend indicates a registration without a backend.
	ErrNilBackend = errors.New("multialloc: nil backend")
)
