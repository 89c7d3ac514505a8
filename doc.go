// Package multialloc routes allocations to one of several registered
// backends behind a single allocation interface.
//
// # Overview
//
// A program registers an ordered list of backends (a heap allocator, a
// pool, an arena, a debugging wrapper, ...) in a Table. Each backend gets
// a Tag, its position in the list. A Multi serves allocations from the
// backend a goroutine has selected and writes the tag into a hidden
// header in front of the block, so a later Deallocate that only has the
// pointer and the layout still reaches the backend that produced it.
//
// This is useful for:
//
//   - Routing request-scoped work to an arena while the rest of the
//     program uses the heap
//   - Turning on a checking allocator for one code path
//   - Handing memory-agnostic code (anything taking an Allocator) a
//     different backend without changing its signature
//
// # Basic Usage
//
//	table := multialloc.MustTable(
//		multialloc.Registration{Name: "heap", Backend: backend.NewHeap()},
//		multialloc.Registration{Name: "scratch", Backend: backend.NewArena(0)},
//	)
//	m := multialloc.New(table)
//
//	local := m.Local()          // one per goroutine, starts on "heap"
//	p, _ := multialloc.Alloc[Point](local)
//
//	local.WithName("scratch", func() {
//		buf, _ := multialloc.AllocBytes(local, 4096, 64) // served by the arena
//		_ = buf
//	})
//
//	multialloc.Free(local, p) // goes back to the heap backend
//
// # Selection
//
// Go has no thread-local storage, so the current selection lives in a
// Local that its goroutine owns. With, WithErr and WithName override the
// selection for the duration of a function and restore the previous one
// on every exit path, panics included; scopes nest. A Local can travel
// down a call chain in a context.Context with NewContext and FromContext.
// Selections in other goroutines are never affected.
//
// # Memory Layout
//
//	+---------------+----------------+
//	| tag | padding | user data .... |
//	+---------------+----------------+
//	^ backend block ^ returned pointer
//
// The header is Align bytes wide, so the returned pointer has the
// requested alignment and the header sits exactly Align bytes before it.
// The backend is asked for Size+Align bytes at Align.
//
// # Important Notes
//
//   - A block is bound to its backend forever; changing the selection
//     does not move existing blocks
//   - Deallocate must receive the exact pointer and layout of the
//     allocation; anything else is undefined
//   - A tag outside the table panics: it is a programming error
//   - Backend allocation errors are returned unchanged, with no retry and
//     no fallback to another backend
//
// # Global Allocator
//
// Install binds one Multi as the process-wide allocator at start-up;
// Installed and NewLocal retrieve it. There is no uninstall.
//
// # Metrics and Monitoring
//
// A Multi keeps per-backend counters:
//
//	for _, bm := range m.Metrics() {
//		fmt.Printf("%s: %d live blocks, %d bytes\n", bm.Name, bm.Live(), bm.BytesInUse)
//	}
package multialloc
