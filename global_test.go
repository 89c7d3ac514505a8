package multialloc_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/multialloc"
	"github.com/pavanmanishd/multialloc/backend"
)

// The global allocator can only be installed once per process, so this is
// the only test that installs it.
func TestInstall(t *testing.T) {
	assert.PanicsWithValue(t, "multialloc: no global allocator installed", func() { multialloc.Installed() })
	assert.Panics(t, func() { multialloc.Install(nil) })

	logger, hook := test.NewNullLogger()
	table := multialloc.MustTable(
		multialloc.Registration{Name: "heap", Backend: backend.NewHeap()},
		multialloc.Registration{Name: "pool", Backend: backend.NewPool(0)},
	)
	m := multialloc.New(table, multialloc.WithLogger(logger))
	multialloc.Install(m)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "installed global allocator", hook.LastEntry().Message)

	assert.Same(t, m, multialloc.Installed())
	assert.PanicsWithValue(t, "multialloc: global allocator already installed", func() {
		multialloc.Install(multialloc.New(table))
	})

	local := multialloc.NewLocal()
	assert.Same(t, m, local.Multi())
	assert.Equal(t, multialloc.Tag(0), local.Current())

	p, err := multialloc.Alloc[[4]uint64](local)
	require.NoError(t, err)
	multialloc.Free(local, p)
	assert.EqualValues(t, 1, m.MetricsFor(0).Deallocations)
}
