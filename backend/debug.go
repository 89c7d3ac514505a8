package backend

import (
	"fmt"
	"sort"
	"sync"
	"unsafe"

	"github.com/sirupsen/logrus"

	"github.com/pavanmanishd/multialloc"
	"github.com/pavanmanishd/multialloc/internal/logging"
)

const (
	// PoisonFresh fills newly allocated memory when poisoning is enabled.
	PoisonFresh = 0xCD
	// PoisonFreed fills memory just before it is handed back.
	PoisonFreed = 0xDD

	// DefaultFreedHistory is how many freed addresses a Debug remembers
	// for double-free detection.
	DefaultFreedHistory = 1 << 16
)

// Block is a live allocation tracked by Debug.
type Block struct {
	Addr   uintptr
	Layout multialloc.Layout
}

// Debug wraps another backend and validates every Deallocate against the
// set of live blocks. Double frees, frees of unknown pointers and frees
// with a different layout than the allocation are logged and then panic.
// It is safe for concurrent use if the wrapped backend is.
//
// Debug is meant for tests and diagnostic runs: every live block costs a
// map entry. Only the most recent DefaultFreedHistory frees are
// remembered, so a double free of an older block is reported as a free of
// an unknown pointer.
type Debug struct {
	inner  multialloc.Allocator
	poison bool
	log    logrus.FieldLogger

	mu         sync.Mutex
	live       map[uintptr]multialloc.Layout
	freed      map[uintptr]struct{}
	freedOrder []uintptr
	history    int
}

// DebugOption configures a Debug backend.
type DebugOption func(*Debug)

// WithPoison enables filling fresh memory with PoisonFresh and freed
// memory with PoisonFreed.
func WithPoison(on bool) DebugOption {
	return func(d *Debug) {
		d.poison = on
	}
}

// WithDebugLogger sets the logger violations and leaks are reported to.
func WithDebugLogger(l logrus.FieldLogger) DebugOption {
	return func(d *Debug) {
		if l != nil {
			d.log = l
		}
	}
}

// NewDebug wraps inner.
func NewDebug(inner multialloc.Allocator, opts ...DebugOption) *Debug {
	d := &Debug{
		inner:   inner,
		log:     logging.Get().WithField("prefix", "debug"),
		live:    make(map[uintptr]multialloc.Layout),
		freed:   make(map[uintptr]struct{}),
		history: DefaultFreedHistory,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Allocate allocates from the wrapped backend and records the block.
func (d *Debug) Allocate(l multialloc.Layout) (unsafe.Pointer, error) {
	p, err := d.inner.Allocate(l)
	if err != nil {
		d.log.WithError(err).WithField("layout", l.String()).Debug("allocation refused")
		return nil, err
	}
	addr := uintptr(p)

	d.mu.Lock()
	d.live[addr] = l
	delete(d.freed, addr)
	d.mu.Unlock()

	if d.poison {
		fill(p, l.Size, PoisonFresh)
	}
	return p, nil
}

// Deallocate checks p against the live set and forwards it to the
// wrapped backend.
func (d *Debug) Deallocate(p unsafe.Pointer, l multialloc.Layout) {
	addr := uintptr(p)

	d.mu.Lock()
	recorded, ok := d.live[addr]
	_, wasFreed := d.freed[addr]
	if ok && recorded == l {
		delete(d.live, addr)
		d.remember(addr)
	}
	d.mu.Unlock()

	switch {
	case !ok && wasFreed:
		d.violation("double free", addr, l, multialloc.Layout{})
	case !ok:
		d.violation("free of unknown pointer", addr, l, multialloc.Layout{})
	case recorded != l:
		d.violation("layout mismatch", addr, l, recorded)
	}

	if d.poison {
		fill(p, l.Size, PoisonFreed)
	}
	d.inner.Deallocate(p, l)
}

// remember adds addr to the freed set, forgetting the oldest entry once
// history is reached. d.mu must be held.
func (d *Debug) remember(addr uintptr) {
	if len(d.freedOrder) >= d.history {
		delete(d.freed, d.freedOrder[0])
		d.freedOrder = d.freedOrder[1:]
	}
	d.freed[addr] = struct{}{}
	d.freedOrder = append(d.freedOrder, addr)
}

func (d *Debug) violation(what string, addr uintptr, got, want multialloc.Layout) {
	fields := logrus.Fields{
		"addr":   fmt.Sprintf("%#x", addr),
		"layout": got.String(),
	}
	if want != (multialloc.Layout{}) {
		fields["allocated"] = want.String()
	}
	d.log.WithFields(fields).Error(what)
	panic(fmt.Sprintf("backend: debug: %s at %#x (%v)", what, addr, got))
}

// Live returns the number of blocks allocated and not yet freed.
func (d *Debug) Live() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.live)
}

// Leaks returns the live blocks ordered by address.
func (d *Debug) Leaks() []Block {
	d.mu.Lock()
	out := make([]Block, 0, len(d.live))
	for addr, l := range d.live {
		out = append(out, Block{Addr: addr, Layout: l})
	}
	d.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Addr < out[j].Addr })
	return out
}

// ReportLeaks logs every live block as a warning and returns how many
// there were.
func (d *Debug) ReportLeaks() int {
	leaks := d.Leaks()
	for _, b := range leaks {
		d.log.WithFields(logrus.Fields{
			"addr":   fmt.Sprintf("%#x", b.Addr),
			"layout": b.Layout.String(),
		}).Warn("leaked block")
	}
	return len(leaks)
}

func fill(p unsafe.Pointer, n uintptr, b byte) {
	if n == 0 {
		return
	}
	buf := unsafe.Slice((*byte)(p), n)
	for i := range buf {
		buf[i] = b
	}
}
