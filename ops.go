package astdiff

import (
	"fmt"
	"strings"
)

// EditKind tags which of the four edit-script operations an Edit performs.
type EditKind int

const (
	UpdateOp EditKind = iota
	InsertOp
	MoveOp
	DeleteOp
)

func (k EditKind) String() string {
	switch k {
	case UpdateOp:
		return "Update"
	case InsertOp:
		return "Insert"
	case MoveOp:
		return "Move"
	case DeleteOp:
		return "Delete"
	default:
		return "Unknown"
	}
}

// Edit is one step of an edit script, expressed against the working tree:
// Update changes a node's text in place; Insert places a brand new node
// (possibly synthetic) under Parent at Pos; Move relocates an existing
// node to Parent at Pos; Delete removes a node outright. Parent and Pos are
// unused (zero) for Update and Delete.
type Edit struct {
	Kind   EditKind
	Node   *wNode
	Parent *wNode
	Pos    int
	Value  string
}

// IsGhost reports whether this operation's target is a node the script
// itself inserted earlier - a script whose very first operation targets a
// synthetic node is sometimes called a "ghost script": every subsequent
// operation necessarily references tree structure that didn't exist in the
// source, which is a useful signal that the script is dominated by a
// wholesale rewrite rather than a small, localized edit.
//
// For an Insert the target is the receiving Parent, since Node is the node
// this very operation creates.
func (e Edit) IsGhost() bool {
	target := e.Node
	if e.Kind == InsertOp {
		target = e.Parent
	}
	return target != nil && target.isSynthetic()
}

// String renders an Edit using the project's textual edit-script format.
// Every node reference is parenthesized, on both sides of every operation,
// so the format is unambiguous to parse back with DeserializeScript:
//
//	Update((type[:text], line a:b - c:d), value)
//	Insert((type, Nk), (parent-ref), pos)
//	Move((moved-ref), (new-parent-ref), pos)
//	Delete((ref))
func (e Edit) String() string {
	switch e.Kind {
	case UpdateOp:
		return fmt.Sprintf("Update((%s), %s)", e.Node.ref(), e.Value)
	case InsertOp:
		return fmt.Sprintf("Insert((%s), (%s), %d)", e.Node.ref(), e.Parent.ref(), e.Pos)
	case MoveOp:
		return fmt.Sprintf("Move((%s), (%s), %d)", e.Node.ref(), e.Parent.ref(), e.Pos)
	case DeleteOp:
		return fmt.Sprintf("Delete((%s))", e.Node.ref())
	default:
		return ""
	}
}

// EditScript is an ordered sequence of edits that transforms a source tree
// into a target tree when applied in order against a WorkingTree.
type EditScript []Edit

// String renders every edit on its own line, in script order.
func (es EditScript) String() string {
	lines := make([]string, len(es))
	for i, e := range es {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}

// Counts tallies each edit kind, the basis for Stats.
func (es EditScript) Counts() (inserts, updates, deletes, moves int) {
	for _, e := range es {
		switch e.Kind {
		case InsertOp:
			inserts++
		case UpdateOp:
			updates++
		case DeleteOp:
			deletes++
		case MoveOp:
			moves++
		}
	}
	return
}
