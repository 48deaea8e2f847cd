package astdiff

import "fmt"

// wNode is one node of a working tree: a mutable, copy-on-write overlay the
// script synthesizer mutates in place as it emits each edit, so that later
// position computations see the tree as it will actually look at that point
// in the script rather than as it started out. A wNode either wraps an
// immutable source Node (synthID == 0) or stands in for a node the script
// has inserted that has no source counterpart (synthID > 0).
type wNode struct {
	base     Node
	synthID  int
	kind     string
	text     string
	parent   *wNode
	children []*wNode

	// inorder is the alignment bit child-alignment resets and sets: once
	// true, this node already has its final relative position among its
	// current working siblings and later moves compute positions against it.
	inorder bool
}

func (w *wNode) isSynthetic() bool { return w.synthID > 0 }

// index returns w's position among its current parent's children, or -1 if
// w has no parent.
func (w *wNode) index() int {
	if w.parent == nil {
		return -1
	}
	for i, c := range w.parent.children {
		if c == w {
			return i
		}
	}
	return -1
}

// WorkingTree is the copy-on-write overlay the Chawathe synthesizer runs
// against: it starts as an exact mirror of the source tree and accumulates
// inserts, deletes, moves and updates as the script is built, so each
// subsequent step can be computed against the tree's current shape.
type WorkingTree struct {
	root      *wNode
	bySrc     map[Node]*wNode
	byDst     map[Node]*wNode
	dstOf     map[*wNode]Node
	nextSynth int

	// dstInorder mirrors target_node.inorder from the reference
	// implementation: it can't live on Node itself (Node is immutable), so
	// the working tree tracks it out of band, keyed by target node.
	dstInorder map[Node]bool

	m *Mapping
}

// NewWorkingTree builds a working tree mirroring root, against the mapping m
// that was already established by the top-down/bottom-up matching phases.
func NewWorkingTree(root Node, m *Mapping) *WorkingTree {
	wt := &WorkingTree{
		bySrc:      map[Node]*wNode{},
		byDst:      map[Node]*wNode{},
		dstOf:      map[*wNode]Node{},
		dstInorder: map[Node]bool{},
		m:          m,
	}
	wt.root = wt.mirror(root, nil)
	return wt
}

func (wt *WorkingTree) mirror(n Node, parent *wNode) *wNode {
	w := &wNode{base: n, kind: n.Type(), text: n.Text(), parent: parent}
	wt.bySrc[n] = w
	for _, c := range n.Children() {
		w.children = append(w.children, wt.mirror(c, w))
	}
	return w
}

// Of returns the working node mirroring source node n.
func (wt *WorkingTree) Of(n Node) *wNode { return wt.bySrc[n] }

// BindDst records that a target-tree node t is realized, in the working
// tree, by working node w - the inverse lookup the BFS synthesizer needs
// to resolve a target parent to the working node it has already placed,
// and the lookup child alignment needs to go from a working node back to
// the target node it currently stands in for.
func (wt *WorkingTree) BindDst(t Node, w *wNode) {
	wt.byDst[t] = w
	wt.dstOf[w] = t
}

// OfDst returns the working node already placed for target node t, if any.
func (wt *WorkingTree) OfDst(t Node) (*wNode, bool) {
	w, ok := wt.byDst[t]
	return w, ok
}

// partnerOfSrc returns the target node w currently stands in for: either
// one explicitly bound during synthesis (covers inserted nodes, and any
// node already visited by the BFS), or - for a node the walk hasn't reached
// yet - whatever the original matching phases paired its source with.
func (wt *WorkingTree) partnerOfSrc(w *wNode) (Node, bool) {
	if t, ok := wt.dstOf[w]; ok {
		return t, true
	}
	if w.base.IsZero() {
		return Node{}, false
	}
	return wt.m.Dst(w.base)
}

// partnerOfDst is the dual of partnerOfSrc: the working node currently
// standing in for target node t.
func (wt *WorkingTree) partnerOfDst(t Node) (*wNode, bool) {
	if w, ok := wt.byDst[t]; ok {
		return w, true
	}
	if s, ok := wt.m.Src(t); ok {
		return wt.Of(s), true
	}
	return nil, false
}

// NewSynthetic allocates a fresh InsertNode with a monotonically
// increasing id (N1, N2, ...), unattached to any parent until Insert
// places it.
func (wt *WorkingTree) NewSynthetic(kind, text string) *wNode {
	wt.nextSynth++
	return &wNode{synthID: wt.nextSynth, kind: kind, text: text}
}

func removeFromParent(w *wNode) {
	p := w.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == w {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	w.parent = nil
}

func insertAt(parent *wNode, child *wNode, pos int) {
	if pos < 0 || pos > len(parent.children) {
		pos = len(parent.children)
	}
	parent.children = append(parent.children, nil)
	copy(parent.children[pos+1:], parent.children[pos:])
	parent.children[pos] = child
	child.parent = parent
}

// Insert places a new (synthetic or detached) node under parent at pos.
func (wt *WorkingTree) Insert(parent, child *wNode, pos int) {
	insertAt(parent, child, pos)
}

// Move detaches child from its current parent and reinserts it under
// newParent at pos.
func (wt *WorkingTree) Move(child, newParent *wNode, pos int) {
	removeFromParent(child)
	insertAt(newParent, child, pos)
}

// Update sets a node's text in place.
func (wt *WorkingTree) Update(w *wNode, text string) { w.text = text }

// Delete detaches a node (and, transitively, whatever remains of its
// subtree) from the working tree.
func (wt *WorkingTree) Delete(w *wNode) { removeFromParent(w) }

// ref renders a working node the way the textual edit-script format
// identifies it: a synthetic insert by its Nk id, an existing node by its
// type, text (if a leaf) and source span.
func (w *wNode) ref() string {
	if w.isSynthetic() {
		return fmt.Sprintf("%s, N%d", w.kind, w.synthID)
	}
	pos := w.base.Position()
	if w.text != "" {
		return fmt.Sprintf("%s:%s, line %d:%d - %d:%d", w.kind, w.text, pos.StartLine, pos.StartCol, pos.EndLine, pos.EndCol)
	}
	return fmt.Sprintf("%s, line %d:%d - %d:%d", w.kind, pos.StartLine, pos.StartCol, pos.EndLine, pos.EndCol)
}
