package astdiff

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomFakeTree builds a small, deterministic-shape-but-random-content
// fakeNode tree from a handful of fuzzed seeds, bounding depth so the
// arena stays small regardless of what gofuzz hands back.
func randomFakeTree(seeds []int) *fakeNode {
	kinds := []string{"identifier", "call", "attribute", "binary_operator", "argument_list"}
	var build func(depth int, i *int) *fakeNode
	build = func(depth int, i *int) *fakeNode {
		s := seeds[*i%len(seeds)]
		*i++
		if s < 0 {
			s = -(s + 1)
		}
		if depth <= 0 || s%3 == 0 {
			return leaf("identifier", kinds[(s%len(kinds)+len(kinds))%len(kinds)])
		}
		n := s % 3
		children := make([]*fakeNode, 0, n+1)
		for j := 0; j <= n; j++ {
			children = append(children, build(depth-1, i))
		}
		kind := kinds[(s/3)%len(kinds)]
		return branch(kind, children...)
	}
	i := 0
	return build(3, &i)
}

// TestIsomorphismReflexivity is Testable Property 1: for any node n,
// n.isomorph(n) is true - checked over gofuzz-generated random small trees
// rather than one hand-picked example.
func TestIsomorphismReflexivity(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(6, 12)
	for i := 0; i < 50; i++ {
		var seeds []int
		f.Fuzz(&seeds)
		if len(seeds) == 0 {
			continue
		}
		tree := mustBuild(t, randomFakeTree(seeds))
		walk(tree.Root(), func(n Node) bool {
			assert.True(t, n.Isomorphic(n), "node %q should be isomorphic to itself", n.Type())
			return true
		})
	}
}

// TestHashSubstitutivity is Testable Property 2: two structurally equal
// trees (equal labels, recursively equal children) are isomorphic - built
// by constructing the same fuzzed shape twice from independent fakeNode
// graphs and comparing the two resulting (distinct) trees' roots.
func TestHashSubstitutivity(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(6, 12)
	for i := 0; i < 50; i++ {
		var seeds []int
		f.Fuzz(&seeds)
		if len(seeds) == 0 {
			continue
		}
		t1 := mustBuild(t, randomFakeTree(seeds))
		t2 := mustBuild(t, randomFakeTree(seeds))
		assert.True(t, t1.Root().Isomorphic(t2.Root()), "two trees built from the same seed sequence should be isomorphic")
	}
}

func TestBuildDropsComments(t *testing.T) {
	root := branch("call", leaf("identifier", "f"), leaf("comment", "# hi"), branch("argument_list"))
	tree, err := Build(root)
	require.NoError(t, err)
	assert.Equal(t, 3, tree.Len(), "comment node should not be counted")
	assert.Equal(t, 2, tree.Root().NumChildren())
}

func TestBuildEmptyTree(t *testing.T) {
	_, err := Build(nil)
	assert.ErrorIs(t, err, ErrEmptyTree)
}

func TestNodeHeightWeight(t *testing.T) {
	tree := mustBuild(t, branch("call", leaf("identifier", "f"), branch("argument_list", leaf("identifier", "x"))))
	root := tree.Root()
	assert.Equal(t, 3, root.Height())
	assert.Equal(t, 4, root.Weight())
}

func TestChildByField(t *testing.T) {
	fn := ident("f")
	args := argList(ident("x"))
	n := call(fn, args)
	tree := mustBuild(t, n)

	fnNode, ok := tree.Root().ChildByField("function")
	require.True(t, ok)
	assert.Equal(t, "identifier", fnNode.Type())
	assert.Equal(t, "f", fnNode.Text())

	_, ok = tree.Root().ChildByField("nonexistent")
	assert.False(t, ok)
}
