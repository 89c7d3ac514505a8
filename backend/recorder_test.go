package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/multialloc"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder(NewHeap())
	l := multialloc.MustLayout(40, 8)

	p, err := r.Allocate(l)
	require.NoError(t, err)
	assert.True(t, r.Allocated(uintptr(p)))
	assert.False(t, r.Freed(uintptr(p)))

	r.Deallocate(p, l)
	assert.True(t, r.Freed(uintptr(p)))

	assert.Equal(t, []Event{
		{Op: OpAllocate, Addr: uintptr(p), Layout: l},
		{Op: OpDeallocate, Addr: uintptr(p), Layout: l},
	}, r.Events())
	assert.Equal(t, 1, r.Count(OpAllocate))
	assert.Equal(t, 1, r.Count(OpDeallocate))

	r.Reset()
	assert.Empty(t, r.Events())
}

func TestRecorder_SkipsFailedAllocations(t *testing.T) {
	r := NewRecorder(NewPool(0))
	_, err := r.Allocate(multialloc.MustLayout(8, 1<<13))
	require.Error(t, err)
	assert.Zero(t, r.Count(OpAllocate))
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "allocate", OpAllocate.String())
	assert.Equal(t, "deallocate", OpDeallocate.String())
}
