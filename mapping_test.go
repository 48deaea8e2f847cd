package astdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingAddIdempotentAndReplacing(t *testing.T) {
	tree := mustBuild(t, branch("module", ident("a"), ident("b"), ident("c")))
	a, b, c := tree.Root().Child(0), tree.Root().Child(1), tree.Root().Child(2)

	m := NewMapping()
	m.Add(a, b)
	m.Add(a, b) // idempotent
	require.Equal(t, 1, m.Size())
	assert.True(t, m.Has(a, b))

	d, ok := m.Dst(a)
	require.True(t, ok)
	assert.Equal(t, b, d)

	s, ok := m.Src(b)
	require.True(t, ok)
	assert.Equal(t, a, s)

	// Re-pairing a drops the stale b->a reverse link.
	m.Add(a, c)
	assert.Equal(t, 1, m.Size())
	assert.False(t, m.HasDst(b))
	assert.True(t, m.Has(a, c))
}

func TestShapeCounterCountsDuplicateShapes(t *testing.T) {
	tree := mustBuild(t, branch("module", ident("x"), ident("x"), ident("y")))
	sc := NewShapeCounter(tree.Root())
	x1 := tree.Root().Child(0)
	y := tree.Root().Child(2)
	assert.Equal(t, 2, sc.Count(x1), "the two identical 'x' leaves share a shape")
	assert.Equal(t, 1, sc.Count(y))
}

func TestHeightHeapOrdersByDescendingHeightThenDeterministicTiebreak(t *testing.T) {
	tree := mustBuild(t, branch("module",
		branch("call", ident("a")),
		ident("b"),
		branch("attribute", ident("c"), ident("d")),
	))
	hh := NewHeightHeap()
	for _, c := range tree.Root().Children() {
		hh.Push(c)
	}
	assert.Equal(t, 2, hh.Max(), "call and attribute both have height 2")

	frontier := hh.Pop()
	assert.Len(t, frontier, 2, "both height-2 nodes pop together")
	for _, n := range frontier {
		assert.Equal(t, 2, n.Height())
	}

	assert.Equal(t, 1, hh.Max(), "only the height-1 leaf 'b' remains")
	rest := hh.Pop()
	require.Len(t, rest, 1)
	assert.Equal(t, "identifier", rest[0].Type())
	assert.True(t, hh.Empty())
}

func TestHeightHeapEmpty(t *testing.T) {
	hh := NewHeightHeap()
	assert.Equal(t, 0, hh.Max())
	assert.Nil(t, hh.Pop())
	assert.True(t, hh.Empty())
}
