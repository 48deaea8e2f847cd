package astdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBottomUpMatchExtendsToUnmatchedContainer(t *testing.T) {
	// The inner argument lists aren't isomorphic (one argument renamed),
	// so the top-down phase can only match the identifier leaves that did
	// not change; the bottom-up phase must still pull the two
	// argument_list containers themselves into the mapping.
	s := mustBuild(t, call(ident("f"), argList(ident("a"), ident("b"))))
	d := mustBuild(t, call(ident("f"), argList(ident("a"), ident("c"))))

	m := TopDownMatch(s.Root(), d.Root(), 0)
	sArgs, _ := firstOfType(s.Root(), "argument_list")
	dArgs, _ := firstOfType(d.Root(), "argument_list")
	require.False(t, m.HasSrc(sArgs), "argument lists differ, top-down alone should not match them")

	m = BottomUpMatch(m, s.Root(), d.Root(), 1000, 0.3)
	assert.True(t, m.Has(sArgs, dArgs), "bottom-up refinement should extend the mapping to the containing argument_list")
	assert.True(t, m.Has(s.Root(), d.Root()), "roots are always paired during bottom-up finalization")
}

func TestBottomUpMatchEmptyTopDownMappingIsNoop(t *testing.T) {
	s := mustBuild(t, ident("a"))
	d := mustBuild(t, ident("b"))
	m := NewMapping()
	out := BottomUpMatch(m, s.Root(), d.Root(), 1000, 0.5)
	assert.Equal(t, 0, out.Size(), "BottomUpMatch should not run when the top-down phase produced nothing")
}

func TestSelectNearCandidateRequiresSharedType(t *testing.T) {
	// A mapped descendant's ancestor of a *different* type than source
	// must never be offered as a candidate, even if it's the only
	// ancestor available below the destination root.
	s := mustBuild(t, branch("module", branch("tuple", ident("x"))))
	d := mustBuild(t, branch("module", branch("list", ident("x"))))

	tupleS := s.Root().Child(0)
	xS, xD := tupleS.Child(0), d.Root().Child(0).Child(0)

	m := NewMapping()
	m.Add(xS, xD)

	best, dice := selectNearCandidate(m, tupleS, d.Root())
	assert.True(t, best.IsZero(), "the only ancestor candidate is a 'list', not a 'tuple' - must be rejected")
	assert.Equal(t, 0.0, dice)
}
