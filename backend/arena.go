package backend

import (
	"sync"
	"unsafe"

	"github.com/pavanmanishd/multialloc"
)

// DefaultChunkSize is the default chunk size for new arenas (64 KiB).
const DefaultChunkSize = 1 << 16

// chunk represents a single memory chunk within an arena.
type chunk struct {
	buf    []byte  // backing memory
	offset uintptr // allocation offset within buf
}

// Arena is a chunked bump allocator. Deallocate is a no-op; memory comes
// back all at once through Reset or Release. It is safe for concurrent use.
//
// Typical usage: register one arena for request-scoped work, select it
// around the request, then Reset it when the request is done.
type Arena struct {
	mu        sync.Mutex
	chunks    []chunk
	chunkSize int
	current   int
}

// NewArena creates a new Arena with the specified chunk size.
// If chunkSize <= 0, DefaultChunkSize is used.
func NewArena(chunkSize int) *Arena {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	a := &Arena{chunkSize: chunkSize}
	a.grow(chunkSize)
	return a
}

// Allocate bumps l.Size bytes aligned to l.Align out of the current chunk,
// starting a new chunk when it is full.
func (a *Arena) Allocate(l multialloc.Layout) (unsafe.Pointer, error) {
	if err := checkLayout(l); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.chunks == nil {
		return nil, ErrReleased
	}

	// Fast path: current chunk has room
	if p, ok := a.bump(&a.chunks[a.current], l); ok {
		return p, nil
	}

	// Slow path: reuse a later chunk left over from before a Reset, or grow
	for a.current+1 < len(a.chunks) {
		a.current++
		if p, ok := a.bump(&a.chunks[a.current], l); ok {
			return p, nil
		}
	}
	a.grow(int(max(l.Size, 1) + l.Align - 1))
	p, _ := a.bump(&a.chunks[a.current], l)
	return p, nil
}

// bump carves l out of c if it fits.
func (a *Arena) bump(c *chunk, l multialloc.Layout) (unsafe.Pointer, bool) {
	size := max(l.Size, 1)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(c.buf)))
	off := alignUp(base+c.offset, l.Align) - base
	if off+size > uintptr(len(c.buf)) {
		return nil, false
	}
	c.offset = off + size
	return unsafe.Pointer(&c.buf[off]), true
}

// Deallocate is a no-op. Use Reset or Release for bulk cleanup.
func (a *Arena) Deallocate(unsafe.Pointer, multialloc.Layout) {}

// EnsureCapacity ensures the current chunk has at least n free bytes.
// An untouched last chunk is replaced by a larger one; otherwise the
// arena grows with a new chunk.
func (a *Arena) EnsureCapacity(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.panicIfReleased()
	c := &a.chunks[a.current]
	if uintptr(n)+c.offset <= uintptr(len(c.buf)) {
		return
	}
	if c.offset == 0 && a.current == len(a.chunks)-1 {
		c.buf = make([]byte, max(n, a.chunkSize))
		return
	}
	a.grow(n)
}

// Reset resets allocation offsets to zero but keeps allocated chunks for reuse.
// Every block handed out before the Reset becomes invalid.
func (a *Arena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.panicIfReleased()
	for i := range a.chunks {
		a.chunks[i].offset = 0
	}
	a.current = 0
}

// Release drops all chunks and makes the arena unusable.
// Subsequent allocations fail with ErrReleased; Reset and
// EnsureCapacity panic.
func (a *Arena) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.chunks = nil
	a.current = 0
}

// grow appends a new chunk of at least min bytes and makes it current.
func (a *Arena) grow(min int) {
	size := a.chunkSize
	if min > size {
		size = min
	}
	a.chunks = append(a.chunks, chunk{buf: make([]byte, size)})
	a.current = len(a.chunks) - 1
}

// panicIfReleased panics if the arena has been released.
func (a *Arena) panicIfReleased() {
	if a.chunks == nil {
		panic("backend: arena used after Release()")
	}
}
