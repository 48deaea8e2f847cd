package astdiff

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// DefaultMinHeight is the default H_min threshold below which the top-down
// matcher stops opening nodes.
const DefaultMinHeight = 2

// maxTokenMove bounds the positional-distance tie-break so a single huge
// column delta on one line can't dominate a smaller number of line deltas.
const maxTokenMove = 1000

// TopDownMatch runs the GumTree top-down isomorphic matching phase between
// source root s and target root t, restarting with a smaller height
// threshold whenever a run produces an empty mapping - this guarantees at
// least one pairing whenever either tree is non-trivial.
func TopDownMatch(s, t Node, hMin int) *Mapping {
	m := runTopDown(s, t, hMin)
	for m.Size() == 0 && hMin > 0 {
		hMin--
		m = runTopDown(s, t, hMin)
	}
	return m
}

// isoCandidate is an ambiguous top-down pairing deferred to the selection
// heuristic because one or both sides have a duplicate (hash, weight)
// shape elsewhere in their tree.
type isoCandidate struct{ s, t Node }

func runTopDown(s, t Node, hMin int) *Mapping {
	cntS := NewShapeCounter(s)
	cntT := NewShapeCounter(t)

	heapS := NewHeightHeap()
	heapS.Push(s)
	heapT := NewHeightHeap()
	heapT.Push(t)

	m := NewMapping()

	var candidates []isoCandidate

	for max(heapS.Max(), heapT.Max()) > hMin {
		if heapS.Max() > heapT.Max() {
			for _, n := range heapS.Pop() {
				openNode(heapS, n)
			}
			continue
		}
		if heapT.Max() > heapS.Max() {
			for _, n := range heapT.Pop() {
				openNode(heapT, n)
			}
			continue
		}

		cs := heapS.Pop()
		ct := heapT.Pop()

		placedS := mapset.NewThreadUnsafeSet[Node]()
		placedT := mapset.NewThreadUnsafeSet[Node]()

		for _, s1 := range cs {
			for _, t1 := range ct {
				if !s1.Isomorphic(t1) {
					continue
				}
				if cntS.Count(s1) > 1 || cntT.Count(t1) > 1 {
					candidates = append(candidates, isoCandidate{s1, t1})
				} else {
					mapRecursively(m, s1, t1)
				}
				placedS.Add(s1)
				placedT.Add(t1)
			}
		}

		for _, s1 := range cs {
			if !placedS.Contains(s1) {
				openNode(heapS, s1)
			}
		}
		for _, t1 := range ct {
			if !placedT.Contains(t1) {
				openNode(heapT, t1)
			}
		}
	}

	finalizeCandidates(m, candidates)
	return m
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func openNode(h *HeightHeap, n Node) {
	for _, c := range n.Children() {
		h.Push(c)
	}
}

// mapRecursively adds (s, t) and, because isomorphic nodes have identical
// shape, every positionally-corresponding descendant pair.
func mapRecursively(m *Mapping, s, t Node) {
	m.Add(s, t)
	for i := 0; i < s.NumChildren(); i++ {
		mapRecursively(m, s.Child(i), t.Child(i))
	}
}

// finalizeCandidates scores every ambiguous candidate once against the
// mapping as it stood when the main loop finished, sorts by the selection
// heuristic (dice similarity, then positional distance), and greedily
// commits pairs whose source and target are still unused.
func finalizeCandidates(m *Mapping, candidates []isoCandidate) {
	if len(candidates) == 0 {
		return
	}

	type scored struct {
		s, t     Node
		dice     float64
		posScore int
	}
	ss := make([]scored, len(candidates))
	for i, c := range candidates {
		ss[i] = scored{
			s:        c.s,
			t:        c.t,
			dice:     diceSimilarity(m, c.s, c.t),
			posScore: positionalScore(c.s, c.t),
		}
	}

	sort.SliceStable(ss, func(i, j int) bool {
		if ss[i].dice != ss[j].dice {
			return ss[i].dice > ss[j].dice
		}
		return ss[i].posScore > ss[j].posScore
	})

	usedSrc := mapset.NewThreadUnsafeSet[Node]()
	usedDst := mapset.NewThreadUnsafeSet[Node]()
	for _, p := range m.Pairs() {
		usedSrc.Add(p.Src)
		usedDst.Add(p.Dst)
	}

	for _, c := range ss {
		if usedSrc.Contains(c.s) || usedDst.Contains(c.t) {
			continue
		}
		mapRecursively(m, c.s, c.t)
		usedSrc.Add(c.s)
		usedDst.Add(c.t)
	}
}

// diceSimilarity is the dice coefficient 2*common/(|desc(A)|+|desc(B)|),
// where common counts A's descendants mapped to one of B's descendants,
// under the mapping as it stood before this candidate was
// resolved - the selection heuristic's primary key.
func diceSimilarity(m *Mapping, a, b Node) float64 {
	da := properDescendants(a)
	db := properDescendants(b)
	if len(da) == 0 && len(db) == 0 {
		return 1.0
	}

	inDB := mapset.NewThreadUnsafeSet[Node]()
	for _, n := range db {
		inDB.Add(n)
	}

	common := 0
	for _, n := range da {
		if d, ok := m.Dst(n); ok && inDB.Contains(d) {
			common++
		}
	}
	return 2 * float64(common) / float64(len(da)+len(db))
}

// properDescendants returns every strict descendant of n (n itself
// excluded), matching the glossary's desc() notation.
func properDescendants(n Node) []Node {
	all := descendants(n)
	if len(all) == 0 {
		return nil
	}
	return all[1:]
}

// positionalScore is the secondary selection-heuristic key: same-line
// candidates beat cross-line, and closer columns beat farther ones. Larger
// is "closer".
func positionalScore(s, t Node) int {
	sp, tp := s.Position(), t.Position()
	dLine := absInt(sp.StartLine - tp.StartLine)
	dCol := absInt(sp.StartCol - tp.StartCol)
	if dCol > maxTokenMove-1 {
		dCol = maxTokenMove - 1
	}
	return -(maxTokenMove*dLine + dCol)
}

func absInt(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
