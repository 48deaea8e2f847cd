package astdiff

import (
	"strings"

	"github.com/emirpasic/gods/trees/binaryheap"
)

// Mapping is a bidirectional, at-most-one-to-one relation between nodes of
// two trees, src ↔ dst, with O(1) membership and lookup by either side.
// Insertions are idempotent: adding an existing pair is a no-op, and adding
// a pair that supersedes an existing one on either side drops the stale
// reverse link so the relation never dangles.
type Mapping struct {
	fwd map[Node]Node
	rev map[Node]Node
}

// NewMapping returns an empty Mapping.
func NewMapping() *Mapping {
	return &Mapping{fwd: map[Node]Node{}, rev: map[Node]Node{}}
}

// Add registers s ↔ d, replacing whatever s or d were previously paired
// with.
func (m *Mapping) Add(s, d Node) {
	if old, ok := m.fwd[s]; ok {
		delete(m.rev, old)
	}
	if old, ok := m.rev[d]; ok {
		delete(m.fwd, old)
	}
	m.fwd[s] = d
	m.rev[d] = s
}

// Has reports whether (s, d) is in the mapping.
func (m *Mapping) Has(s, d Node) bool {
	d2, ok := m.fwd[s]
	return ok && d2 == d
}

// Dst returns the node d such that (s, d) ∈ M, if any.
func (m *Mapping) Dst(s Node) (Node, bool) {
	d, ok := m.fwd[s]
	return d, ok
}

// Src returns the node s such that (s, d) ∈ M, if any.
func (m *Mapping) Src(d Node) (Node, bool) {
	s, ok := m.rev[d]
	return s, ok
}

// HasSrc reports whether s is mapped to anything.
func (m *Mapping) HasSrc(s Node) bool {
	_, ok := m.fwd[s]
	return ok
}

// HasDst reports whether d is mapped to anything.
func (m *Mapping) HasDst(d Node) bool {
	_, ok := m.rev[d]
	return ok
}

// Size returns the number of unique pairs in the mapping.
func (m *Mapping) Size() int { return len(m.fwd) }

// Pair is one (src, dst) mapping entry.
type Pair struct{ Src, Dst Node }

// Pairs returns every pair in the mapping. Order is unspecified; callers
// that need a deterministic order should sort the result.
func (m *Mapping) Pairs() []Pair {
	out := make([]Pair, 0, len(m.fwd))
	for s, d := range m.fwd {
		out = append(out, Pair{s, d})
	}
	return out
}

// ShapeCounter counts occurrences of distinct (hash, weight) shapes across
// a tree, used to decide whether a subtree is "unique" or has duplicates -
// ambiguous isomorphism candidates only arise from duplicated shapes.
type ShapeCounter map[string]int

// shapeKey identifies a node's (hash, weight) shape.
func shapeKey(n Node) string {
	return hashStr(n.Hash()) + "|" + itoa(n.Weight())
}

// NewShapeCounter builds a ShapeCounter over every node in tree.
func NewShapeCounter(tree Node) ShapeCounter {
	sc := ShapeCounter{}
	walk(tree, func(n Node) bool {
		sc[shapeKey(n)]++
		return true
	})
	return sc
}

// Count returns how many nodes in the tree this ShapeCounter was built from
// share n's (hash, weight) shape.
func (sc ShapeCounter) Count(n Node) int { return sc[shapeKey(n)] }

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var b [20]byte
	pos := len(b)
	for i > 0 {
		pos--
		b[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		b[pos] = '-'
	}
	return string(b[pos:])
}

// heapItem wraps a Node with the bookkeeping needed for a total,
// reproducible ordering: push order (insertion sequence, a stand-in for
// "push-index") and sibling index, both tie-breakers below hash.
type heapItem struct {
	node      Node
	pushOrder int
}

// HeightHeap is the height-priority heap described in the matcher design:
// orders nodes by descending height, breaking ties by (hash, push-order,
// sibling-index). Pop returns every node sharing the current max height at
// once, the "frontier" the top-down matcher operates on a level at a time.
type HeightHeap struct {
	h       *binaryheap.Heap
	counter int
}

func heightHeapComparator(a, b interface{}) int {
	x, y := a.(*heapItem), b.(*heapItem)
	if x.node.Height() != y.node.Height() {
		// descending height: taller pops first, so a smaller comparator
		// result (pops first in gods' min-heap) means "taller".
		return y.node.Height() - x.node.Height()
	}
	xh, yh := hashStr(x.node.Hash()), hashStr(y.node.Hash())
	if xh != yh {
		return strings.Compare(xh, yh)
	}
	if x.pushOrder != y.pushOrder {
		return x.pushOrder - y.pushOrder
	}
	return x.node.Index() - y.node.Index()
}

// NewHeightHeap returns an empty HeightHeap.
func NewHeightHeap() *HeightHeap {
	return &HeightHeap{h: binaryheap.NewWith(heightHeapComparator)}
}

// Push adds a node to the heap.
func (hh *HeightHeap) Push(n Node) {
	hh.h.Push(&heapItem{node: n, pushOrder: hh.counter})
	hh.counter++
}

// Max returns the height of the current frontier, or 0 if the heap is
// empty.
func (hh *HeightHeap) Max() int {
	top, ok := hh.h.Peek()
	if !ok {
		return 0
	}
	return top.(*heapItem).node.Height()
}

// Empty reports whether the heap has no nodes left.
func (hh *HeightHeap) Empty() bool { return hh.h.Empty() }

// Pop removes and returns every node at the current max height. It returns
// nil if the heap is empty.
func (hh *HeightHeap) Pop() []Node {
	if hh.h.Empty() {
		return nil
	}
	max := hh.Max()
	var out []Node
	for {
		top, ok := hh.h.Peek()
		if !ok || top.(*heapItem).node.Height() != max {
			break
		}
		v, _ := hh.h.Pop()
		out = append(out, v.(*heapItem).node)
	}
	return out
}
