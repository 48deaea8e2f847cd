package astdiff

// This is the Zhang-Shasha tree-edit-distance algorithm (the algorithm the
// APTED line of work descends from), specialized to unit costs: renaming a
// node costs 0 when type and text both match, 1 otherwise; inserting or
// deleting a single node always costs 1. It is used as a minimal-edit
// refinement step to extend an existing isomorphism mapping into the
// interior of two subtrees that aren't themselves isomorphic.

// editOpKind tags one step of a minimal edit alignment.
type editOpKind byte

const (
	editDelete editOpKind = 'D'
	editInsert editOpKind = 'I'
	editMatch  editOpKind = 'M'
)

type editOp struct {
	kind     editOpKind
	src, dst Node
}

func concatOps(a, b []editOp) []editOp {
	out := make([]editOp, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

// postorderWithIndex returns root's descendants (root included) in
// bottom-up order, plus a lookup from node back to its position in that
// order.
func postorderWithIndex(root Node) ([]Node, map[Node]int) {
	var list []Node
	walkPostfix(root, func(n Node) {
		list = append(list, n)
	})
	idx := make(map[Node]int, len(list))
	for i, n := range list {
		idx[n] = i
	}
	return list, idx
}

// leftmostArray computes, for every node in a postorder list, the 0-indexed
// position of its leftmost leaf descendant within that same list.
func leftmostArray(list []Node, idx map[Node]int) []int {
	lm := make([]int, len(list))
	for i, n := range list {
		if n.NumChildren() == 0 {
			lm[i] = i
			continue
		}
		lm[i] = lm[idx[n.Child(0)]]
	}
	return lm
}

// keyroots returns, in ascending order, every 1-indexed position i such
// that no later position shares its leftmost-leaf value - the set of
// "complete subtree" boundaries the Zhang-Shasha recurrence iterates over.
func keyroots(l []int, n int) []int {
	seen := make(map[int]bool, n)
	kr := make([]int, 0, n)
	for i := n; i >= 1; i-- {
		if !seen[l[i]] {
			kr = append(kr, i)
			seen[l[i]] = true
		}
	}
	for i, j := 0, len(kr)-1; i < j; i, j = i+1, j-1 {
		kr[i], kr[j] = kr[j], kr[i]
	}
	return kr
}

func renameCost(s, t Node) float64 {
	if s.Type() != t.Type() {
		return 1
	}
	if s.Text() != t.Text() {
		return 1
	}
	return 0
}

// minimalEditMapping computes the minimum-cost alignment between the trees
// rooted at srcRoot and dstRoot and returns every (src, dst) pair the
// alignment matched (renamed with cost 0 or 1), in no particular order.
// Unmatched (deleted/inserted) nodes are not returned.
func minimalEditMapping(srcRoot, dstRoot Node) []Pair {
	A, idxA := postorderWithIndex(srcRoot)
	B, idxB := postorderWithIndex(dstRoot)
	n := len(A)
	m := len(B)
	if n == 0 || m == 0 {
		return nil
	}

	lmA := leftmostArray(A, idxA)
	lmB := leftmostArray(B, idxB)

	L1 := make([]int, n+1)
	for i := 1; i <= n; i++ {
		L1[i] = lmA[i-1] + 1
	}
	L2 := make([]int, m+1)
	for j := 1; j <= m; j++ {
		L2[j] = lmB[j-1] + 1
	}

	node1 := func(i int) Node { return A[i-1] }
	node2 := func(j int) Node { return B[j-1] }

	keyrootsA := keyroots(L1, n)
	keyrootsB := keyroots(L2, m)

	treedist := make([][]float64, n+1)
	ops := make([][][]editOp, n+1)
	for i := 0; i <= n; i++ {
		treedist[i] = make([]float64, m+1)
		ops[i] = make([][]editOp, m+1)
	}

	computeWindow := func(i, j int) {
		ioff := L1[i] - 1
		joff := L2[j] - 1
		szA := i - ioff + 1
		szB := j - joff + 1

		fd := make([][]float64, szA)
		fo := make([][][]editOp, szA)
		for x := 0; x < szA; x++ {
			fd[x] = make([]float64, szB)
			fo[x] = make([][]editOp, szB)
		}

		for x := 1; x < szA; x++ {
			n1 := node1(x + ioff)
			fd[x][0] = fd[x-1][0] + 1
			fo[x][0] = concatOps(fo[x-1][0], []editOp{{kind: editDelete, src: n1}})
		}
		for y := 1; y < szB; y++ {
			n2 := node2(y + joff)
			fd[0][y] = fd[0][y-1] + 1
			fo[0][y] = concatOps(fo[0][y-1], []editOp{{kind: editInsert, dst: n2}})
		}

		for x := 1; x < szA; x++ {
			for y := 1; y < szB; y++ {
				ai := x + ioff
				bj := y + joff
				n1 := node1(ai)
				n2 := node2(bj)

				delCost := fd[x-1][y] + 1
				insCost := fd[x][y-1] + 1

				if L1[ai] == L1[i] && L2[bj] == L2[j] {
					matchCost := fd[x-1][y-1] + renameCost(n1, n2)
					best, choice := delCost, 0
					if insCost < best {
						best, choice = insCost, 1
					}
					if matchCost < best {
						best, choice = matchCost, 2
					}
					fd[x][y] = best
					switch choice {
					case 0:
						fo[x][y] = concatOps(fo[x-1][y], []editOp{{kind: editDelete, src: n1}})
					case 1:
						fo[x][y] = concatOps(fo[x][y-1], []editOp{{kind: editInsert, dst: n2}})
					default:
						fo[x][y] = concatOps(fo[x-1][y-1], []editOp{{kind: editMatch, src: n1, dst: n2}})
					}
					treedist[ai][bj] = fd[x][y]
					ops[ai][bj] = fo[x][y]
				} else {
					p := L1[ai] - 1 - ioff
					q := L2[bj] - 1 - joff
					inheritCost := fd[p][q] + treedist[ai][bj]
					best, choice := delCost, 0
					if insCost < best {
						best, choice = insCost, 1
					}
					if inheritCost < best {
						best, choice = inheritCost, 2
					}
					fd[x][y] = best
					switch choice {
					case 0:
						fo[x][y] = concatOps(fo[x-1][y], []editOp{{kind: editDelete, src: n1}})
					case 1:
						fo[x][y] = concatOps(fo[x][y-1], []editOp{{kind: editInsert, dst: n2}})
					default:
						fo[x][y] = concatOps(fo[p][q], ops[ai][bj])
					}
				}
			}
		}
	}

	for _, i := range keyrootsA {
		for _, j := range keyrootsB {
			computeWindow(i, j)
		}
	}

	var pairs []Pair
	for _, op := range ops[n][m] {
		if op.kind == editMatch {
			pairs = append(pairs, Pair{Src: op.src, Dst: op.dst})
		}
	}
	return pairs
}
