package backend

// SizeInUse returns the total number of bytes currently allocated in the arena.
// This includes internal fragmentation due to alignment.
func (a *Arena) SizeInUse() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sizeInUse()
}

// NumChunks returns the number of chunks currently allocated by the arena.
func (a *Arena) NumChunks() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.chunks)
}

// Capacity returns the total capacity (in bytes) of all chunks in the arena.
func (a *Arena) Capacity() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.capacity()
}

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (a *Arena) Utilization() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.utilization()
}

// ChunkSize returns the default chunk size used by this arena.
func (a *Arena) ChunkSize() int {
	return a.chunkSize
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() ArenaMetrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	return ArenaMetrics{
		SizeInUse:   a.sizeInUse(),
		Capacity:    a.capacity(),
		NumChunks:   len(a.chunks),
		ChunkSize:   a.chunkSize,
		Utilization: a.utilization(),
	}
}

// ArenaMetrics contains statistical information about an arena.
type ArenaMetrics struct {
	SizeInUse   int     // Bytes currently allocated
	Capacity    int     // Total capacity in bytes
	NumChunks   int     // Number of chunks
	ChunkSize   int     // Default chunk size
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}

func (a *Arena) sizeInUse() int {
	sum := 0
	for _, c := range a.chunks {
		sum += int(c.offset)
	}
	return sum
}

func (a *Arena) capacity() int {
	sum := 0
	for _, c := range a.chunks {
		sum += len(c.buf)
	}
	return sum
}

func (a *Arena) utilization() float64 {
	capacity := a.capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.sizeInUse()) / float64(capacity)
}
