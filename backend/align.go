package backend

import (
	"fmt"
	"unsafe"

	"github.com/pavanmanishd/multialloc"
)

// MaxBlock is the largest block the heap-backed allocators will serve.
const MaxBlock = 1 << 40

// alignUp rounds n up to a multiple of align, a power of two.
func alignUp(n, align uintptr) uintptr {
	mask := align - 1
	return (n + mask) & ^mask
}

// alignedIn returns the first address in buf aligned to align.
// buf must have at least align-1 bytes of slack.
func alignedIn(buf []byte, align uintptr) unsafe.Pointer {
	base := unsafe.Pointer(unsafe.SliceData(buf))
	addr := uintptr(base)
	return unsafe.Add(base, alignUp(addr, align)-addr)
}

// checkLayout rejects layouts no backend can serve.
func checkLayout(l multialloc.Layout) error {
	if !l.Valid() {
		return fmt.Errorf("%w: %v", multialloc.ErrInvalidLayout, l)
	}
	if l.Size > MaxBlock {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, l.Size)
	}
	return nil
}
