package multialloc

import (
	"fmt"
	"unsafe"
)

// Local is the selection state of one goroutine: the tag new allocations
// are served from. A Local is not safe for concurrent use and must not be
// handed to another goroutine; each goroutine creates its own with
// Multi.Local or NewLocal.
//
// Local implements Allocator, so it can be passed to code that only
// knows the uniform interface.
type Local struct {
	m   *Multi
	tag Tag
}

// Multi returns the allocator this selection routes through.
func (l *Local) Multi() *Multi {
	return l.m
}

// Current returns the selected tag.
func (l *Local) Current() Tag {
	return l.tag
}

// Set selects tag for subsequent allocations. Prefer With, which restores
// the previous selection.
func (l *Local) Set(tag Tag) {
	l.tag = tag
}

// With runs work with tag selected and restores the previous selection
// when work returns or panics.
func (l *Local) With(tag Tag, work func()) {
	saved := l.tag
	l.tag = tag
	defer func() { l.tag = saved }()
	work()
}

// WithErr is like With for work that returns an error.
func (l *Local) WithErr(tag Tag, work func() error) error {
	saved := l.tag
	l.tag = tag
	defer func() { l.tag = saved }()
	return work()
}

// WithName runs work with the backend registered under name selected.
// It panics if no backend has that name.
func (l *Local) WithName(name string, work func()) {
	l.With(l.m.table.MustTag(name), work)
}

// Allocate allocates from the selected backend.
func (l *Local) Allocate(layout Layout) (unsafe.Pointer, error) {
	return l.m.AllocateTag(l.tag, layout)
}

// Deallocate returns p to the backend that allocated it, whatever the
// current selection is.
func (l *Local) Deallocate(p unsafe.Pointer, layout Layout) {
	l.m.Deallocate(p, layout)
}

func (l *Local) String() string {
	return fmt.Sprintf("local(%s)", l.m.table.Name(l.tag))
}
