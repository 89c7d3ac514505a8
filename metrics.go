package multialloc

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// backendStats is updated on every call, from many goroutines at once.
// The padding keeps neighbouring backends off the same cache line.
type backendStats struct {
	allocs      atomic.Int64
	frees       atomic.Int64
	failures    atomic.Int64
	bytesInUse  atomic.Int64
	headerInUse atomic.Int64
	_           cpu.CacheLinePad
}

func (s *backendStats) allocated(l Layout) {
	s.allocs.Add(1)
	s.bytesInUse.Add(int64(l.Size))
	s.headerInUse.Add(int64(l.Extend().Size - l.Size))
}

func (s *backendStats) deallocated(l Layout) {
	s.frees.Add(1)
	s.bytesInUse.Add(-int64(l.Size))
	s.headerInUse.Add(-int64(l.Extend().Size - l.Size))
}

// BackendMetrics contains statistical information about one backend as
// seen through a Multi.
type BackendMetrics struct {
	Name          string
	Tag           Tag
	Allocations   int64 // Successful allocations
	Deallocations int64 // Deallocations routed to this backend
	Failures      int64 // Allocations the backend refused
	BytesInUse    int64 // User bytes currently allocated
	HeaderInUse   int64 // Header and padding bytes currently allocated
}

// Live returns the number of blocks allocated and not yet freed.
func (b BackendMetrics) Live() int64 {
	return b.Allocations - b.Deallocations
}

// Overhead returns the ratio of header bytes to total bytes in use (0.0-1.0).
// Returns 0.0 if nothing is in use.
func (b BackendMetrics) Overhead() float64 {
	total := b.BytesInUse + b.HeaderInUse
	if total == 0 {
		return 0
	}
	return float64(b.HeaderInUse) / float64(total)
}

// MetricsFor returns a snapshot of the statistics for tag.
func (m *Multi) MetricsFor(tag Tag) BackendMetrics {
	s := &m.stats[m.table.Tag(tag.Raw())]
	return BackendMetrics{
		Name:          m.table.Name(tag),
		Tag:           tag,
		Allocations:   s.allocs.Load(),
		Deallocations: s.frees.Load(),
		Failures:      s.failures.Load(),
		BytesInUse:    s.bytesInUse.Load(),
		HeaderInUse:   s.headerInUse.Load(),
	}
}

// Metrics returns a snapshot of the statistics of every backend, in tag order.
func (m *Multi) Metrics() []BackendMetrics {
	out := make([]BackendMetrics, m.table.Len())
	for i := range out {
		out[i] = m.MetricsFor(Tag(i))
	}
	return out
}
