//go:build unix

package backend

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/pavanmanishd/multialloc"
)

// Mmap serves every block from its own anonymous private mapping, rounded
// up to whole pages, and unmaps it on Deallocate. It is safe for
// concurrent use.
//
// Mapped memory is not scanned by the garbage collector; do not store Go
// pointers in it.
type Mmap struct {
	pageSize uintptr
	mapped   atomic.Int64
}

// NewMmap returns an mmap backend.
func NewMmap() *Mmap {
	return &Mmap{pageSize: uintptr(unix.Getpagesize())}
}

// PageSize returns the mapping granularity.
func (m *Mmap) PageSize() int {
	return int(m.pageSize)
}

// Mapped returns the number of bytes currently mapped.
func (m *Mmap) Mapped() int64 {
	return m.mapped.Load()
}

func (m *Mmap) length(l multialloc.Layout) uintptr {
	return alignUp(max(l.Size, 1), m.pageSize)
}

// Allocate maps a fresh zeroed region for l. Alignments above the page
// size fail with ErrUnsupportedAlignment.
func (m *Mmap) Allocate(l multialloc.Layout) (unsafe.Pointer, error) {
	if err := checkLayout(l); err != nil {
		return nil, err
	}
	if l.Align > m.pageSize {
		return nil, fmt.Errorf("%w: mmap serves at most %d, got %d", ErrUnsupportedAlignment, m.pageSize, l.Align)
	}
	n := m.length(l)
	b, err := unix.Mmap(-1, 0, int(n), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("backend: mmap %d bytes: %w", n, err)
	}
	m.mapped.Add(int64(n))
	return unsafe.Pointer(unsafe.SliceData(b)), nil
}

// Deallocate unmaps the region holding p. It panics if the kernel rejects
// the unmap, which means p and l did not come from Allocate.
func (m *Mmap) Deallocate(p unsafe.Pointer, l multialloc.Layout) {
	if p == nil {
		return
	}
	n := m.length(l)
	if err := unix.Munmap(unsafe.Slice((*byte)(p), n)); err != nil {
		panic(fmt.Sprintf("backend: munmap %p (%d bytes): %v", p, n, err))
	}
	m.mapped.Add(-int64(n))
}
