package astdiff

// GenerateEditScript synthesizes a Chawathe-style edit script that turns
// srcRoot into dstRoot, given a node mapping already produced by the
// top-down and bottom-up matching phases. It returns both the script and
// the WorkingTree it built the script against, so a caller can inspect a
// node's final working position rather than only the script that produced
// it.
//
// The synthesis walks the target tree breadth-first. For every target node
// t: if t has no source partner, a synthetic node is inserted; otherwise
// the existing working node is updated (if its text changed) and moved (if
// its parent changed). After each node is placed, its children are aligned
// against the matching working node's children via a longest-common-
// subsequence pass, which may itself emit Moves for children that are
// mapped but out of order. Once every target node has been visited, every
// source-tree node left without a destination partner is deleted, in
// postorder so a parent is never deleted before its children.
func GenerateEditScript(m *Mapping, srcRoot, dstRoot Node) (EditScript, *WorkingTree) {
	wt := NewWorkingTree(srcRoot, m)
	if !m.Has(srcRoot, dstRoot) {
		m.Add(srcRoot, dstRoot)
	}
	wt.BindDst(dstRoot, wt.root)

	var script EditScript
	queue := []Node{dstRoot}
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]

		var wCur *wNode
		if t == dstRoot {
			wCur = wt.root
			if t.IsLeaf() && wCur.text != t.Text() {
				script = append(script, Edit{Kind: UpdateOp, Node: wCur, Value: t.Text()})
				wt.Update(wCur, t.Text())
			}
		} else {
			wParent := resolveParent(wt, t)
			s, hasMatch := m.Src(t)

			if !hasMatch {
				wCur = wt.NewSynthetic(t.Type(), t.Text())
				pos := findPos(wt, t)
				wt.Insert(wParent, wCur, pos)
				wt.BindDst(t, wCur)
				script = append(script, Edit{Kind: InsertOp, Node: wCur, Parent: wParent, Pos: pos})
			} else {
				wCur = wt.Of(s)
				wt.BindDst(t, wCur)

				if t.IsLeaf() && wCur.text != t.Text() {
					script = append(script, Edit{Kind: UpdateOp, Node: wCur, Value: t.Text()})
					wt.Update(wCur, t.Text())
				}
				if wCur.parent != wParent {
					pos := findPos(wt, t)
					script = append(script, Edit{Kind: MoveOp, Node: wCur, Parent: wParent, Pos: pos})
					wt.Move(wCur, wParent, pos)
				}
			}
		}

		wt.dstInorder[t] = true
		script = append(script, alignChildren(wt, wCur, t)...)

		queue = append(queue, t.Children()...)
	}

	for _, w := range unmatchedSourceNodesPostorder(wt, m) {
		script = append(script, Edit{Kind: DeleteOp, Node: w})
		wt.Delete(w)
	}

	return script, wt
}

// resolveParent finds the working node standing in for t's target parent,
// which by breadth-first order has always already been placed (the root
// case is handled by the caller never asking for t == dstRoot).
func resolveParent(wt *WorkingTree, t Node) *wNode {
	tParent := t.Parent()
	if w, ok := wt.OfDst(tParent); ok {
		return w
	}
	if s, ok := wt.m.Src(tParent); ok {
		return wt.Of(s)
	}
	return wt.root
}

// findPos computes the position t should occupy among its new parent's
// working children, per the position() procedure in the reference
// implementation: if no earlier target sibling of t has its inorder bit
// set, t belongs at position 0; otherwise let ℓ be the nearest earlier
// inorder sibling and ℓ_p its current working-tree partner - t's slot is
// (count of ℓ_p's working siblings, before ℓ_p, with the inorder bit set)
// + 1. This is the spec's designated tie-break for child alignment and
// must be reproduced exactly: it is what keeps synthesis deterministic.
func findPos(wt *WorkingTree, t Node) int {
	tParent := t.Parent()
	if tParent.IsZero() {
		return 0
	}
	siblings := tParent.Children()
	n := t.Index()

	anyInorder := false
	for i := 0; i < n; i++ {
		if wt.dstInorder[siblings[i]] {
			anyInorder = true
			break
		}
	}
	if !anyInorder {
		return 0
	}

	li := n - 1
	for li >= 0 && !wt.dstInorder[siblings[li]] {
		li--
	}
	left := siblings[li]
	lw, ok := wt.partnerOfDst(left)
	if !ok || lw.parent == nil {
		return 0
	}

	idx := lw.index()
	count := 0
	for _, c := range lw.parent.children[:idx] {
		if c.inorder {
			count++
		}
	}
	return count + 1
}

// alignChildren runs the LCS-based child-alignment pass between working
// node A (the just-placed partner of target node B) and B itself: children
// already in the same relative order on both sides are left alone and
// marked inorder; children that are mapped to each other but fell outside
// the longest common subsequence are out of order and get an explicit Move.
func alignChildren(wt *WorkingTree, A *wNode, B Node) EditScript {
	for _, c := range A.children {
		c.inorder = false
	}
	for _, c := range B.Children() {
		wt.dstInorder[c] = false
	}

	var s1 []*wNode
	for _, c := range A.children {
		if p, ok := wt.partnerOfSrc(c); ok && p.Parent() == B {
			s1 = append(s1, c)
		}
	}
	var s2 []Node
	for _, c := range B.Children() {
		if s, ok := wt.m.Src(c); ok {
			if w := wt.Of(s); w != nil && w.parent == A {
				s2 = append(s2, c)
			}
		}
	}

	equal := func(a *wNode, b Node) bool {
		p, ok := wt.partnerOfSrc(a)
		return ok && p == b
	}

	lcs := longestCommonSubsequence(s1, s2, equal)
	matched := make(map[*wNode]Node, len(lcs))
	for _, p := range lcs {
		p.a.inorder = true
		wt.dstInorder[p.b] = true
		matched[p.a] = p.b
	}

	var script EditScript
	for _, a := range s1 {
		for _, b := range s2 {
			if !equal(a, b) {
				continue
			}
			if mb, ok := matched[a]; ok && mb == b {
				continue
			}
			pos := findPos(wt, b)
			script = append(script, Edit{Kind: MoveOp, Node: a, Parent: A, Pos: pos})
			wt.Move(a, A, pos)
			a.inorder = true
			wt.dstInorder[b] = true
		}
	}
	return script
}

type lcsPair struct {
	a *wNode
	b Node
}

// longestCommonSubsequence aligns s1 against s2 under equal, backtracking
// with the reference implementation's stability rule: when both directions
// extend the subsequence equally far, prefer to drop a non-leaf s1 element
// (advance i) over dropping an s2 element (advance j), the way the original
// algorithm favors keeping terminal (leaf) nodes in the aligned set.
func longestCommonSubsequence(s1 []*wNode, s2 []Node, equal func(*wNode, Node) bool) []lcsPair {
	n, m := len(s1), len(s2)
	if n == 0 || m == 0 {
		return nil
	}

	lengths := make([][]int, n+1)
	for i := range lengths {
		lengths[i] = make([]int, m+1)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			if equal(s1[i], s2[j]) {
				lengths[i+1][j+1] = lengths[i][j] + 1
			} else if lengths[i+1][j] >= lengths[i][j+1] {
				lengths[i+1][j+1] = lengths[i+1][j]
			} else {
				lengths[i+1][j+1] = lengths[i][j+1]
			}
		}
	}

	var result []lcsPair
	i, j := n, m
	for i > 0 && j > 0 {
		if equal(s1[i-1], s2[j-1]) {
			result = append(result, lcsPair{s1[i-1], s2[j-1]})
			i--
			j--
			continue
		}
		if lengths[i][j-1] > lengths[i-1][j] {
			j--
		} else if lengths[i][j-1] == lengths[i-1][j] {
			if s1[i-1].text == "" {
				i--
			} else {
				j--
			}
		} else {
			i--
		}
	}

	for l, r := 0, len(result)-1; l < r; l, r = l+1, r-1 {
		result[l], result[r] = result[r], result[l]
	}
	return result
}

// unmatchedSourceNodesPostorder returns every working node, in postorder,
// whose source counterpart never received a destination partner - the set
// the finalization pass deletes.
func unmatchedSourceNodesPostorder(wt *WorkingTree, m *Mapping) []*wNode {
	var out []*wNode
	var walk func(w *wNode)
	walk = func(w *wNode) {
		for _, c := range append([]*wNode{}, w.children...) {
			walk(c)
		}
		if w.isSynthetic() {
			return
		}
		if !m.HasSrc(w.base) {
			out = append(out, w)
		}
	}
	walk(wt.root)
	return out
}
