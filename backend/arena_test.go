package backend

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"unsafe"

	"github.com/pavanmanishd/multialloc"
)

func TestNewArena(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		expected  int
	}{
		{"default chunk size", 0, DefaultChunkSize},
		{"negative chunk size", -1, DefaultChunkSize},
		{"custom chunk size", 8192, 8192},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArena(tt.chunkSize)
			if a.chunkSize != tt.expected {
				t.Errorf("NewArena(%d) chunk size = %d, want %d", tt.chunkSize, a.chunkSize, tt.expected)
			}
			if len(a.chunks) != 1 {
				t.Errorf("NewArena(%d) chunks = %d, want 1", tt.chunkSize, len(a.chunks))
			}
		})
	}
}

func TestArenaAllocate(t *testing.T) {
	a := NewArena(1024)

	// Test normal allocation
	p1, err := a.Allocate(multialloc.MustLayout(100, 8))
	if err != nil || p1 == nil {
		t.Fatalf("Allocate(100) = %v, %v", p1, err)
	}

	// Test allocation that forces chunk growth
	p2, err := a.Allocate(multialloc.MustLayout(2000, 8))
	if err != nil || p2 == nil {
		t.Fatalf("Allocate(2000) = %v, %v", p2, err)
	}
	if a.NumChunks() != 2 {
		t.Errorf("NumChunks after large allocation = %d, want 2", a.NumChunks())
	}

	// Blocks do not overlap
	b1 := unsafe.Slice((*byte)(p1), 100)
	b2 := unsafe.Slice((*byte)(p2), 2000)
	for i := range b1 {
		b1[i] = 1
	}
	for i := range b2 {
		b2[i] = 2
	}
	for i := range b1 {
		if b1[i] != 1 {
			t.Fatalf("block 1 overwritten at %d", i)
		}
	}
}

func TestArenaAlignment(t *testing.T) {
	a := NewArena(4096)
	for _, align := range []int{1, 2, 4, 8, 16, 64, 256, 4096} {
		// Odd size first so the next request has to skip padding
		if _, err := a.Allocate(multialloc.MustLayout(3, 1)); err != nil {
			t.Fatal(err)
		}
		p, err := a.Allocate(multialloc.MustLayout(24, align))
		if err != nil {
			t.Fatalf("Allocate(align=%d): %v", align, err)
		}
		if uintptr(p)%uintptr(align) != 0 {
			t.Errorf("Allocate(align=%d) = %p, not aligned", align, p)
		}
	}
}

func TestArenaEnsureCapacity(t *testing.T) {
	a := NewArena(1024)
	if _, err := a.Allocate(multialloc.MustLayout(8, 8)); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	initialChunks := a.NumChunks()

	// Ensure capacity within current chunk
	a.EnsureCapacity(100)
	if a.NumChunks() != initialChunks {
		t.Errorf("EnsureCapacity(100) changed chunk count")
	}

	// Ensure capacity that requires new chunk
	a.EnsureCapacity(2000)
	if a.NumChunks() != initialChunks+1 {
		t.Errorf("EnsureCapacity(2000) chunks = %d, want %d", a.NumChunks(), initialChunks+1)
	}
}

func TestArenaEnsureCapacityUntouched(t *testing.T) {
	a := NewArena(1024)
	a.EnsureCapacity(4096)

	if a.NumChunks() != 1 {
		t.Errorf("NumChunks() = %d, want 1", a.NumChunks())
	}
	if a.Capacity() != 4096 {
		t.Errorf("Capacity() = %d, want 4096", a.Capacity())
	}
	p, err := a.Allocate(multialloc.MustLayout(4000, 8))
	if err != nil || p == nil {
		t.Fatalf("Allocate(4000) = %v, %v", p, err)
	}
	if a.NumChunks() != 1 {
		t.Errorf("reserved space was not used: NumChunks() = %d", a.NumChunks())
	}
}

func TestArenaReset(t *testing.T) {
	a := NewArena(1024)

	// Allocate some data, enough to need a second chunk
	a.Allocate(multialloc.MustLayout(100, 8))
	a.Allocate(multialloc.MustLayout(2000, 8))

	if a.SizeInUse() == 0 {
		t.Error("Expected non-zero size in use after allocations")
	}

	// Reset and check
	a.Reset()
	if a.SizeInUse() != 0 {
		t.Errorf("SizeInUse after Reset() = %d, want 0", a.SizeInUse())
	}
	if a.NumChunks() != 2 {
		t.Errorf("NumChunks after Reset() = %d, want 2", a.NumChunks())
	}

	// A request that only fits the second chunk reuses it instead of growing
	if _, err := a.Allocate(multialloc.MustLayout(1500, 8)); err != nil {
		t.Fatal(err)
	}
	if a.NumChunks() != 2 {
		t.Errorf("NumChunks after reuse = %d, want 2", a.NumChunks())
	}
}

func TestArenaRelease(t *testing.T) {
	a := NewArena(1024)
	a.Allocate(multialloc.MustLayout(100, 8))

	a.Release()

	if a.chunks != nil {
		t.Error("Expected chunks to be nil after Release()")
	}
	if _, err := a.Allocate(multialloc.MustLayout(100, 8)); !errors.Is(err, ErrReleased) {
		t.Errorf("Allocate after Release() error = %v, want ErrReleased", err)
	}

	// Test panic on reset after release
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic on Reset() after Release()")
		}
	}()
	a.Reset()
}

func TestArenaConcurrentAllocate(t *testing.T) {
	a := NewArena(4096)
	var wg sync.WaitGroup
	seen := make(chan uintptr, 8*200)

	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				p, err := a.Allocate(multialloc.MustLayout(32, 16))
				if err != nil {
					t.Error(err)
					return
				}
				seen <- uintptr(p)
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[uintptr]bool)
	for p := range seen {
		if unique[p] {
			t.Fatalf("address %#x handed out twice", p)
		}
		unique[p] = true
	}
	if len(unique) != 8*200 {
		t.Errorf("got %d blocks, want %d", len(unique), 8*200)
	}
}

func TestAlignUp(t *testing.T) {
	tests := []struct {
		input    uintptr
		align    uintptr
		expected uintptr
	}{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{4095, 4096, 4096},
		{5, 1, 5},
	}

	for _, tt := range tests {
		result := alignUp(tt.input, tt.align)
		if result != tt.expected {
			t.Errorf("alignUp(%d, %d) = %d, want %d", tt.input, tt.align, result, tt.expected)
		}
	}
}

func BenchmarkArenaAllocate(b *testing.B) {
	a := NewArena(1024 * 1024) // 1MB chunks
	sizes := []int{8, 64, 256, 1024}

	for _, size := range sizes {
		l := multialloc.MustLayout(size, 8)
		b.Run(fmt.Sprintf("size-%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				a.Allocate(l)
				if i%1000 == 999 { // Reset periodically to avoid growing too much
					a.Reset()
				}
			}
		})
	}
}
