package backend

import (
	"fmt"
	"math/bits"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/pavanmanishd/multialloc"
)

const (
	// DefaultMaxPooled is the largest size class a Pool recycles (1 MiB).
	DefaultMaxPooled = 1 << 20

	minClassShift = 4 // 16 bytes
	maxPoolAlign  = 4096
)

// Pool recycles blocks in power-of-two size classes, one sync.Pool per
// class. Requests above the largest class go straight to the heap and
// are not recycled. It is safe for concurrent use.
//
// Blocks in a class are aligned to the class size, capped at 4096, so any
// alignment up to 4096 is served from the same class as its size.
type Pool struct {
	maxShift int
	classes  []sync.Pool
	heap     Heap

	hits    atomic.Int64
	misses  atomic.Int64
	returns atomic.Int64
}

// NewPool creates a pool recycling classes up to maxPooled bytes,
// rounded up to a power of two. If maxPooled <= 0, DefaultMaxPooled is used.
func NewPool(maxPooled int) *Pool {
	if maxPooled <= 0 {
		maxPooled = DefaultMaxPooled
	}
	shift := bits.Len(uint(maxPooled - 1))
	if shift < minClassShift {
		shift = minClassShift
	}
	return &Pool{
		maxShift: shift,
		classes:  make([]sync.Pool, shift-minClassShift+1),
	}
}

// class returns the size-class index and size serving l, or ok=false if
// l is too large to pool.
func (p *Pool) class(l multialloc.Layout) (idx int, size uintptr, ok bool) {
	n := max(l.Size, l.Align, 1<<minClassShift)
	shift := bits.Len(uint(n - 1))
	if shift > p.maxShift {
		return 0, 0, false
	}
	return shift - minClassShift, uintptr(1) << shift, true
}

// Allocate returns a block from the class serving l, reusing a freed one
// when available.
func (p *Pool) Allocate(l multialloc.Layout) (unsafe.Pointer, error) {
	if err := checkLayout(l); err != nil {
		return nil, err
	}
	if l.Align > maxPoolAlign {
		return nil, fmt.Errorf("%w: pool serves at most %d, got %d", ErrUnsupportedAlignment, maxPoolAlign, l.Align)
	}
	idx, size, ok := p.class(l)
	if !ok {
		return p.heap.Allocate(l)
	}
	if v := p.classes[idx].Get(); v != nil {
		p.hits.Add(1)
		return v.(unsafe.Pointer), nil
	}
	p.misses.Add(1)
	align := min(size, maxPoolAlign)
	return alignedIn(make([]byte, size+align-1), align), nil
}

// Deallocate returns a pooled block to its class.
func (p *Pool) Deallocate(ptr unsafe.Pointer, l multialloc.Layout) {
	idx, _, ok := p.class(l)
	if !ok || ptr == nil {
		return
	}
	p.returns.Add(1)
	p.classes[idx].Put(ptr)
}

// MaxPooled returns the size of the largest recycled class.
func (p *Pool) MaxPooled() int {
	return 1 << p.maxShift
}

// PoolStats counts how pooled allocations were served.
type PoolStats struct {
	Hits    int64 // Allocations served by a recycled block
	Misses  int64 // Allocations that needed a fresh block
	Returns int64 // Blocks handed back to a class
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Hits:    p.hits.Load(),
		Misses:  p.misses.Load(),
		Returns: p.returns.Load(),
	}
}
