package multialloc

import (
	"fmt"
	"unsafe"

	"github.com/sirupsen/logrus"
)

// Allocator is the uniform allocation interface. Backends implement it,
// and so does a *Local, which routes each call through a Multi.
//
// Deallocate must be called with the pointer returned by Allocate and the
// exact layout that was passed to it. Anything else is undefined.
type Allocator interface {
	Allocate(l Layout) (unsafe.Pointer, error)
	Deallocate(p unsafe.Pointer, l Layout)
}

// Multi routes allocations to the backends of a Table and records the
// chosen tag in a hidden header in front of every block:
//
//	+---------------+----------------+
//	| tag | padding | user data .... |
//	+---------------+----------------+
//	                ^ returned pointer
//
// The header is as wide as the requested alignment, so the returned
// pointer keeps that alignment and Deallocate finds the header again by
// stepping back Align bytes.
//
// A Multi has no notion of a current backend. Selection lives in a
// Local, one per goroutine.
type Multi struct {
	table *Table
	stats []backendStats
	log   logrus.FieldLogger
}

// New returns a tagging allocator over table.
func New(table *Table, opts ...Option) *Multi {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Multi{
		table: table,
		stats: make([]backendStats, table.Len()),
		log:   o.logger,
	}
}

// Table returns the dispatch table.
func (m *Multi) Table() *Table {
	return m.table
}

// Local returns a new selection for the calling goroutine. It starts on
// tag 0, the first registered backend.
func (m *Multi) Local() *Local {
	return &Local{m: m}
}

// AllocateTag allocates l from the backend registered under tag. A
// backend error is returned as is. An invalid layout fails with
// ErrInvalidLayout before any backend is asked.
func (m *Multi) AllocateTag(tag Tag, l Layout) (unsafe.Pointer, error) {
	backend := m.table.Backend(tag)
	if !l.Valid() {
		m.stats[tag].failures.Add(1)
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, l)
	}
	ext := l.Extend()
	region, err := backend.Allocate(ext)
	if err != nil {
		m.stats[tag].failures.Add(1)
		return nil, err
	}
	*(*uint8)(region) = tag.Raw()
	m.stats[tag].allocated(l)
	return unsafe.Add(region, l.Align), nil
}

// Deallocate returns a block to the backend that produced it. p and l
// must match a previous allocation exactly. A nil p is ignored.
func (m *Multi) Deallocate(p unsafe.Pointer, l Layout) {
	if p == nil {
		return
	}
	region := unsafe.Add(p, -int(l.Align))
	tag := m.table.Tag(*(*uint8)(region))
	m.table.Backend(tag).Deallocate(region, l.Extend())
	m.stats[tag].deallocated(l)
}

// TagOf reports which backend owns the block at p. p and l must come
// from a live allocation.
func (m *Multi) TagOf(p unsafe.Pointer, l Layout) Tag {
	return m.table.Tag(*(*uint8)(unsafe.Add(p, -int(l.Align))))
}
