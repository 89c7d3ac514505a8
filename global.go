package multialloc

import "sync/atomic"

var global atomic.Pointer[Multi]

// Install makes m the process-wide allocator. It is meant to be called
// once during start-up and panics if an allocator is already installed.
// There is no teardown.
func Install(m *Multi) {
	if m == nil {
		panic("multialloc: Install(nil)")
	}
	if !global.CompareAndSwap(nil, m) {
		panic("multialloc: global allocator already installed")
	}
	m.log.WithField("backends", m.table.Names()).Info("installed global allocator")
}

// Installed returns the process-wide allocator. It panics if Install has
// not been called.
func Installed() *Multi {
	m := global.Load()
	if m == nil {
		panic("multialloc: no global allocator installed")
	}
	return m
}

// NewLocal returns a selection on the installed allocator for the calling
// goroutine.
func NewLocal() *Local {
	return Installed().Local()
}
