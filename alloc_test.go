package multialloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
	a int64
	b int32
	c int16
	d int8
}

func TestAlloc(t *testing.T) {
	m, fakes := newFakeMulti(2)
	l := m.Local()

	// Test basic allocation
	ptr, err := Alloc[int](l)
	require.NoError(t, err)
	require.NotNil(t, ptr)
	assert.Zero(t, *ptr, "Alloc must zero memory")

	// Test struct allocation
	s, err := Alloc[testStruct](l)
	require.NoError(t, err)
	assert.Equal(t, testStruct{}, *s)
	assert.Zero(t, uintptr(unsafe.Pointer(s))%unsafe.Alignof(*s))

	// Verify we can write to allocated memory
	*ptr = 42
	s.a = 100
	assert.Equal(t, 42, *ptr)
	assert.EqualValues(t, 100, s.a)

	Free(l, ptr)
	Free(l, s)
	Free[int](l, nil)
	assert.Len(t, fakes[0].frees, 2)
}

func TestAllocSlice(t *testing.T) {
	m, fakes := newFakeMulti(1)
	l := m.Local()

	// Test normal slice allocation
	slice, err := AllocSlice[int](l, 10)
	require.NoError(t, err)
	assert.Len(t, slice, 10)
	assert.Equal(t, 10, cap(slice))
	for i, v := range slice {
		assert.Zero(t, v, "slice[%d]", i)
	}

	// Test zero and negative size
	empty, err := AllocSlice[int](l, 0)
	require.NoError(t, err)
	assert.Nil(t, empty)
	negative, err := AllocSlice[int](l, -1)
	require.NoError(t, err)
	assert.Nil(t, negative)

	// Verify we can write to slice
	for i := range slice {
		slice[i] = i * 2
	}
	for i := range slice {
		assert.Equal(t, i*2, slice[i])
	}

	FreeSlice(l, slice)
	FreeSlice[int](l, nil)
	assert.Len(t, fakes[0].frees, 1)
	assert.Zero(t, fakes[0].liveCount())
}

func TestAllocBytes(t *testing.T) {
	m, _ := newFakeMulti(1)
	l := m.Local()

	b, err := AllocBytes(l, 100, 32)
	require.NoError(t, err)
	assert.Len(t, b, 100)
	assert.Zero(t, uintptr(unsafe.Pointer(unsafe.SliceData(b)))%32)
	FreeBytes(l, b, 32)

	none, err := AllocBytes(l, 0, 8)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = AllocBytes(l, 8, 12)
	require.ErrorIs(t, err, ErrInvalidLayout)
}

func TestAllocPropagatesErrors(t *testing.T) {
	m, fakes := newFakeMulti(1)
	fakes[0].fail = errExhausted
	l := m.Local()

	_, err := Alloc[testStruct](l)
	require.ErrorIs(t, err, errExhausted)
	_, err = AllocSlice[int](l, 4)
	require.ErrorIs(t, err, errExhausted)
	_, err = AllocBytes(l, 4, 4)
	require.ErrorIs(t, err, errExhausted)
}
