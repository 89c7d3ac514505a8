package backend

import (
	"sync"
	"unsafe"

	"github.com/pavanmanishd/multialloc"
)

// Op is a recorded backend call.
type Op uint8

const (
	OpAllocate Op = iota
	OpDeallocate
)

func (o Op) String() string {
	if o == OpAllocate {
		return "allocate"
	}
	return "deallocate"
}

// Event is one call seen by a Recorder.
type Event struct {
	Op     Op
	Addr   uintptr
	Layout multialloc.Layout
}

// Recorder wraps a backend and records every successful call.
type Recorder struct {
	inner multialloc.Allocator

	mu     sync.Mutex
	events []Event
}

// NewRecorder wraps inner.
func NewRecorder(inner multialloc.Allocator) *Recorder {
	return &Recorder{inner: inner}
}

func (r *Recorder) Allocate(l multialloc.Layout) (unsafe.Pointer, error) {
	p, err := r.inner.Allocate(l)
	if err != nil {
		return nil, err
	}
	r.record(Event{Op: OpAllocate, Addr: uintptr(p), Layout: l})
	return p, nil
}

func (r *Recorder) Deallocate(p unsafe.Pointer, l multialloc.Layout) {
	r.record(Event{Op: OpDeallocate, Addr: uintptr(p), Layout: l})
	r.inner.Deallocate(p, l)
}

func (r *Recorder) record(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded calls in order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Count returns how many calls of op were recorded.
func (r *Recorder) Count(op Op) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Op == op {
			n++
		}
	}
	return n
}

// Allocated reports whether addr was returned by an Allocate call.
func (r *Recorder) Allocated(addr uintptr) bool {
	return r.seen(OpAllocate, addr)
}

// Freed reports whether addr was passed to a Deallocate call.
func (r *Recorder) Freed(addr uintptr) bool {
	return r.seen(OpDeallocate, addr)
}

func (r *Recorder) seen(op Op, addr uintptr) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Op == op && e.Addr == addr {
			return true
		}
	}
	return false
}

// Reset forgets all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
