package backend

import (
	"unsafe"

	"github.com/pavanmanishd/multialloc"
)

// Heap allocates from the Go heap. It is safe for concurrent use.
type Heap struct{}

// NewHeap returns a heap backend.
func NewHeap() *Heap {
	return &Heap{}
}

// Allocate returns l.Size bytes aligned to l.Align.
func (h *Heap) Allocate(l multialloc.Layout) (unsafe.Pointer, error) {
	if err := checkLayout(l); err != nil {
		return nil, err
	}
	n := l.Size + l.Align - 1
	if n == 0 {
		n = 1
	}
	return alignedIn(make([]byte, n), l.Align), nil
}

// Deallocate is a no-op; the garbage collector reclaims the block once
// nothing refers to it.
func (h *Heap) Deallocate(unsafe.Pointer, multialloc.Layout) {}
