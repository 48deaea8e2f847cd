package astdiff

// Stats holds summary statistics about a computed diff.
type Stats struct {
	SourceNodes int `json:"sourceNodes"` // node count of the source tree
	TargetNodes int `json:"targetNodes"` // node count of the target tree

	Inserts int `json:"inserts,omitempty"`
	Updates int `json:"updates,omitempty"`
	Deletes int `json:"deletes,omitempty"`
	Moves   int `json:"moves,omitempty"`
}

// NodeChange returns the shift in node count between source and target.
func (s Stats) NodeChange() int { return s.TargetNodes - s.SourceNodes }

// StatsOf summarizes a computed diff's edit script and tree sizes.
func StatsOf(d *ASTDiff) Stats {
	st := Stats{
		SourceNodes: d.SourceAST().Len(),
		TargetNodes: d.TargetAST().Len(),
	}
	st.Inserts, st.Updates, st.Deletes, st.Moves = d.EditScript().Counts()
	return st
}
