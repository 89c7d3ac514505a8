// Package backend provides concrete allocators that can be registered in
// a multialloc.Table.
//
// # Backends
//
//   - Heap: Go heap memory, aligned by over-allocation. Freed blocks are
//     left to the garbage collector.
//   - Pool: power-of-two size classes recycled through sync.Pool.
//   - Arena: chunked bump allocator. Individual frees are no-ops; Reset
//     and Release reclaim everything at once.
//   - Mmap: one anonymous mapping per block, unmapped on free. Builds
//     without mmap fall back to the heap.
//   - Debug: wraps another backend and checks every free against the
//     live set, optionally poisoning fresh and freed memory.
//   - Recorder: wraps another backend and records every call.
//
// # Usage
//
//	table := multialloc.MustTable(
//		multialloc.Registration{Name: "heap", Backend: backend.NewHeap()},
//		multialloc.Registration{Name: "scratch", Backend: backend.NewArena(0)},
//	)
//	local := multialloc.New(table).Local()
//
//	local.WithName("scratch", func() {
//		buf, _ := multialloc.AllocBytes(local, 4096, 64)
//		_ = buf
//	})
//
// # Memory lifetime
//
// Heap, Pool and Arena hand out Go heap memory. A block stays reachable
// for as long as some unsafe.Pointer or slice refers into it; converting
// the pointer to a uintptr and dropping the pointer lets the garbage
// collector reclaim the block. Mmap memory is invisible to the garbage
// collector and must not hold Go pointers.
package backend
