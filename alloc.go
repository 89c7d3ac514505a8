package multialloc

import "unsafe"

// Alloc allocates a zeroed T from a.
// The returned pointer must be released with Free on an allocator
// routing to the same Multi (or the same backend).
func Alloc[T any](a Allocator) (*T, error) {
	l := LayoutOf[T]()
	p, err := a.Allocate(l)
	if err != nil {
		return nil, err
	}
	clear(unsafe.Slice((*byte)(p), l.Size))
	return (*T)(p), nil
}

// Free releases a value allocated with Alloc.
func Free[T any](a Allocator, t *T) {
	if t == nil {
		return
	}
	a.Deallocate(unsafe.Pointer(t), LayoutOf[T]())
}

// AllocSlice allocates a zeroed slice of n elements of type T from a.
// Returns nil if n <= 0.
func AllocSlice[T any](a Allocator, n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	l, err := ArrayLayout[T](n)
	if err != nil {
		return nil, err
	}
	p, err := a.Allocate(l)
	if err != nil {
		return nil, err
	}
	clear(unsafe.Slice((*byte)(p), l.Size))
	return unsafe.Slice((*T)(p), n), nil
}

// FreeSlice releases a slice allocated with AllocSlice. The slice must
// have the length it was allocated with.
func FreeSlice[T any](a Allocator, s []T) {
	if len(s) == 0 {
		return
	}
	l, err := ArrayLayout[T](len(s))
	if err != nil {
		panic(err)
	}
	a.Deallocate(unsafe.Pointer(unsafe.SliceData(s)), l)
}

// AllocBytes allocates n uninitialized bytes aligned to align.
// Returns nil if n <= 0.
func AllocBytes(a Allocator, n, align int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	l, err := NewLayout(n, align)
	if err != nil {
		return nil, err
	}
	p, err := a.Allocate(l)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(p), n), nil
}

// FreeBytes releases a buffer allocated with AllocBytes using the same align.
func FreeBytes(a Allocator, b []byte, align int) {
	if len(b) == 0 {
		return
	}
	a.Deallocate(unsafe.Pointer(unsafe.SliceData(b)), MustLayout(len(b), align))
}
