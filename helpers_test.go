package multialloc

import (
	"errors"
	"sync"
	"unsafe"
)

var errExhausted = errors.New("fake: exhausted")

// fakeBackend serves Go heap memory and records every call. It keeps each
// block reachable until it is freed so tests can hold plain addresses.
type fakeBackend struct {
	mu     sync.Mutex
	fail   error
	blocks map[uintptr][]byte
	live   map[uintptr]Layout
	allocs []uintptr
	frees  []uintptr
	got    []Layout
}

func newFake() *fakeBackend {
	return &fakeBackend{
		blocks: make(map[uintptr][]byte),
		live:   make(map[uintptr]Layout),
	}
}

func (f *fakeBackend) Allocate(l Layout) (unsafe.Pointer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	buf := make([]byte, l.Size+l.Align)
	base := unsafe.Pointer(unsafe.SliceData(buf))
	addr := uintptr(base)
	p := unsafe.Add(base, ((addr+l.Align-1)&^(l.Align-1))-addr)
	f.blocks[uintptr(p)] = buf
	f.live[uintptr(p)] = l
	f.allocs = append(f.allocs, uintptr(p))
	f.got = append(f.got, l)
	return p, nil
}

func (f *fakeBackend) Deallocate(p unsafe.Pointer, l Layout) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want, ok := f.live[uintptr(p)]
	if !ok {
		panic("fake: free of unknown block")
	}
	if want != l {
		panic("fake: layout mismatch on free")
	}
	delete(f.live, uintptr(p))
	delete(f.blocks, uintptr(p))
	f.frees = append(f.frees, uintptr(p))
}

func (f *fakeBackend) freed(addr uintptr) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.frees {
		if a == addr {
			return true
		}
	}
	return false
}

func (f *fakeBackend) liveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

// newFakeMulti registers n fake backends named "b0", "b1", ...
func newFakeMulti(n int) (*Multi, []*fakeBackend) {
	fakes := make([]*fakeBackend, n)
	regs := make([]Registration, n)
	for i := range fakes {
		fakes[i] = newFake()
		regs[i] = Registration{Name: "b" + string(rune('0'+i)), Backend: fakes[i]}
	}
	return New(MustTable(regs...)), fakes
}
