package astdiff

// BottomUpMatch is the GumTree container-matching phase: it walks the
// source tree bottom-up, looking for an unmapped target node that shares
// enough already-mapped descendants with an unmapped source node to be a
// plausible match, then runs a minimal-edit refinement between the two
// candidates to pull in finer-grained correspondences the top-down phase's
// isomorphism requirement couldn't see.
func BottomUpMatch(m *Mapping, srcRoot, dstRoot Node, maxSize int, minDice float64) *Mapping {
	if m.Size() == 0 {
		return m
	}

	walkPostfix(srcRoot, func(s Node) {
		if s == srcRoot {
			m.Add(srcRoot, dstRoot)
			refineMapping(m, srcRoot, dstRoot, maxSize)
			return
		}
		if s.NumChildren() == 0 {
			return
		}
		if m.HasSrc(s) {
			return
		}

		t, dice := selectNearCandidate(m, s, dstRoot)
		if t.IsZero() || dice <= minDice {
			return
		}
		refineMapping(m, s, t, maxSize)
		m.Add(s, t)
	})

	return m
}

// refineMapping runs a minimal-edit alignment between source and target and
// adds every pair it finds that isn't already present on either side and
// whose two nodes share a type - the same filter the bottom-up matcher
// design calls for, so a rename refinement never masquerades as a type
// change.
func refineMapping(m *Mapping, source, target Node, maxSize int) {
	if source.Weight() > maxSize || target.Weight() > maxSize {
		return
	}
	for _, p := range minimalEditMapping(source, target) {
		if p.Src.Type() != p.Dst.Type() {
			continue
		}
		if m.HasSrc(p.Src) || m.HasDst(p.Dst) {
			continue
		}
		m.Add(p.Src, p.Dst)
	}
}

// selectNearCandidate finds the best unmapped target node to pair with an
// unmapped source node: collect every destination that a descendant of
// source is already mapped to, walk each one's ancestor chain looking for
// an unmapped node of source's own type, and return whichever candidate has
// the highest dice similarity to source.
func selectNearCandidate(m *Mapping, source, dstRoot Node) (Node, float64) {
	seen := map[Node]bool{}
	var best Node
	bestDice := 0.0

	for _, d := range descendants(source) {
		dst, ok := m.Dst(d)
		if !ok {
			continue
		}
		for anc := dst.Parent(); !anc.IsZero(); anc = anc.Parent() {
			if anc == dstRoot {
				break
			}
			if seen[anc] {
				continue
			}
			seen[anc] = true
			if anc.Type() != source.Type() || m.HasDst(anc) {
				continue
			}
			dice := diceSimilarity(m, source, anc)
			if dice > bestDice {
				bestDice = dice
				best = anc
			}
		}
	}

	return best, bestDice
}
