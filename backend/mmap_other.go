//go:build !unix

package backend

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/pavanmanishd/multialloc"
)

// Mmap falls back to heap memory where anonymous mappings are not
// available. It keeps the page-size alignment limit and the accounting of
// the mapping backend so configurations behave the same.
type Mmap struct {
	pageSize uintptr
	mapped   atomic.Int64
	heap     Heap
}

// NewMmap returns an mmap backend.
func NewMmap() *Mmap {
	return &Mmap{pageSize: uintptr(os.Getpagesize())}
}

// PageSize returns the mapping granularity.
func (m *Mmap) PageSize() int {
	return int(m.pageSize)
}

// Mapped returns the number of bytes currently allocated.
func (m *Mmap) Mapped() int64 {
	return m.mapped.Load()
}

func (m *Mmap) length(l multialloc.Layout) uintptr {
	return alignUp(max(l.Size, 1), m.pageSize)
}

// Allocate returns zeroed, page-rounded heap memory for l.
func (m *Mmap) Allocate(l multialloc.Layout) (unsafe.Pointer, error) {
	if err := checkLayout(l); err != nil {
		return nil, err
	}
	if l.Align > m.pageSize {
		return nil, fmt.Errorf("%w: mmap serves at most %d, got %d", ErrUnsupportedAlignment, m.pageSize, l.Align)
	}
	n := m.length(l)
	p, err := m.heap.Allocate(multialloc.Layout{Size: n, Align: l.Align})
	if err != nil {
		return nil, err
	}
	m.mapped.Add(int64(n))
	return p, nil
}

// Deallocate drops the accounting for p; the garbage collector reclaims it.
func (m *Mmap) Deallocate(p unsafe.Pointer, l multialloc.Layout) {
	if p == nil {
		return
	}
	m.mapped.Add(-int64(m.length(l)))
}
