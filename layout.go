package multialloc

import (
	"fmt"
	"math/bits"
	"unsafe"
)

// Layout describes the size and alignment of a block of memory.
// Align is always a power of two and at least 1.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// NewLayout returns a Layout for size bytes at the given alignment.
// It returns ErrInvalidLayout if size is negative or align is not a
// positive power of two.
func NewLayout(size, align int) (Layout, error) {
	if size < 0 {
		return Layout{}, fmt.Errorf("%w: negative size %d", ErrInvalidLayout, size)
	}
	if align < 1 || bits.OnesCount(uint(align)) != 1 {
		return Layout{}, fmt.Errorf("%w: alignment %d is not a power of two", ErrInvalidLayout, align)
	}
	return Layout{Size: uintptr(size), Align: uintptr(align)}, nil
}

// MustLayout is like NewLayout but panics on an invalid layout.
func MustLayout(size, align int) Layout {
	l, err := NewLayout(size, align)
	if err != nil {
		panic(err)
	}
	return l
}

// LayoutOf returns the layout of a single T.
func LayoutOf[T any]() Layout {
	var zero T
	return Layout{Size: unsafe.Sizeof(zero), Align: unsafe.Alignof(zero)}
}

// ArrayLayout returns the layout of n consecutive values of type T.
func ArrayLayout[T any](n int) (Layout, error) {
	if n < 0 {
		return Layout{}, fmt.Errorf("%w: negative length %d", ErrInvalidLayout, n)
	}
	l := LayoutOf[T]()
	hi, size := bits.Mul64(uint64(l.Size), uint64(n))
	if hi != 0 || size > uint64(maxSize) {
		return Layout{}, fmt.Errorf("%w: %d elements of %d bytes overflow", ErrInvalidLayout, n, l.Size)
	}
	l.Size = uintptr(size)
	return l, nil
}

// Extend returns the layout requested from a backend for a tagged block:
// a header of Align bytes followed by the user data. A zero-sized request
// still gets one byte of payload so the user pointer stays inside the block.
func (l Layout) Extend() Layout {
	size := l.Size
	if size == 0 {
		size = 1
	}
	return Layout{Size: size + l.Align, Align: l.Align}
}

// Valid reports whether Align is a positive power of two and Size is
// small enough for Extend not to overflow.
func (l Layout) Valid() bool {
	return l.Align != 0 && l.Align&(l.Align-1) == 0 && l.Size <= maxSize
}

func (l Layout) String() string {
	return fmt.Sprintf("size=%d align=%d", l.Size, l.Align)
}

// maxSize keeps Size+Align from overflowing when a layout is extended.
const maxSize = ^uintptr(0) >> 1
