package gc_test

import (
	"testing"

	"github.com/emberlang/ember/lang/gc"
	"github.com/emberlang/ember/lang/value"
	"github.com/stretchr/testify/require"
)

func TestInternStringDeduplicates(t *testing.T) {
	g := gc.New()
	a := g.InternString("hello")
	b := g.InternString("hello")
	require.Same(t, a, b)

	c := g.InternString("world")
	require.NotSame(t, a, c)
}

type fakeRoot struct {
	vals []value.Value
}

func (f *fakeRoot) MarkRoots(t value.Tracer) {
	for _, v := range f.vals {
		t.MarkValue(v)
	}
}

func TestCollectSweepsUnreachableStrings(t *testing.T) {
	g := gc.New()
	kept := g.InternString("kept")
	discarded := g.InternString("discarded")

	root := &fakeRoot{vals: []value.Value{value.FromObj(kept)}}
	remove := g.AddRoot(root)
	defer remove()

	g.Collect()

	require.NotNil(t, g.InternString("kept"))
	require.Same(t, kept, g.InternString("kept"))

	// A fresh intern of the discarded content allocates a new object, proof
	// the old one was evicted from the strings table by RemoveWhite.
	again := g.InternString("discarded")
	require.NotSame(t, discarded, again)
	require.False(t, again.Header.Marked)
}

func TestUpvalueCloseIsIdempotent(t *testing.T) {
	slot := value.Number(42)
	g := gc.New()
	uv := g.NewUpvalue(&slot)
	require.True(t, uv.IsOpen())

	uv.Close()
	require.False(t, uv.IsOpen())
	require.Equal(t, float64(42), uv.Closed.AsNumber())

	slot = value.Number(99) // mutating the now-disconnected stack slot
	uv.Close()              // no-op; must not re-copy
	require.Equal(t, float64(42), uv.Closed.AsNumber())
}
