package astdiff

// Shared fakeNode builders shaped like a tree-sitter-python parse, used
// across the test files in this package so each test only has to describe
// the shape of the statement it cares about.

func ident(name string) *fakeNode { return leaf("identifier", name) }

func integer(text string) *fakeNode  { return leaf("integer", text) }
func float_(text string) *fakeNode   { return leaf("float", text) }
func falseLit() *fakeNode            { return leaf("false", "False") }
func trueLit() *fakeNode             { return leaf("true", "True") }
func pyString(text string) *fakeNode { return leaf("string", text) }

func argList(args ...*fakeNode) *fakeNode {
	return branch("argument_list", args...)
}

func call(fn *fakeNode, args *fakeNode) *fakeNode {
	n := branch("call", fn, args)
	withField(n, "function", fn)
	withField(n, "arguments", args)
	return n
}

func attribute(obj, attr *fakeNode) *fakeNode {
	n := branch("attribute", obj, attr)
	withField(n, "object", obj)
	withField(n, "attribute", attr)
	return n
}

func keywordArg(name, value *fakeNode) *fakeNode {
	n := branch("keyword_argument", name, value)
	withField(n, "name", name)
	withField(n, "value", value)
	return n
}

func binary(kind string, left, op, right *fakeNode) *fakeNode {
	n := branch(kind, left, op, right)
	withField(n, "left", left)
	withField(n, "right", right)
	return n
}

func unary(kind string, op, operand *fakeNode) *fakeNode {
	n := branch(kind, op, operand)
	return n
}

func parenExpr(inner *fakeNode) *fakeNode {
	return branch("parenthesized_expression", leaf("(", "("), inner, leaf(")", ")"))
}

func assign(lhs, rhs *fakeNode) *fakeNode {
	n := branch("assignment", lhs, leaf("=", "="), rhs)
	withField(n, "left", lhs)
	withField(n, "right", rhs)
	return n
}

func exprStatement(expr *fakeNode) *fakeNode {
	return branch("expression_statement", expr)
}

func ifStatement(cond *fakeNode, body ...*fakeNode) *fakeNode {
	n := branch("if_statement", append([]*fakeNode{cond}, body...)...)
	withField(n, "condition", cond)
	return n
}

func module(stmts ...*fakeNode) *fakeNode {
	return branch("module", stmts...)
}

func tupleOf(items ...*fakeNode) *fakeNode { return branch("tuple", items...) }
func listOf(items ...*fakeNode) *fakeNode  { return branch("list", items...) }

// firstOfType does a depth-first search for the first node of the given
// type in n's subtree (n included), the way tests locate the node a
// classifier predicate is meant to receive without hand-indexing children.
func firstOfType(n Node, typ string) (Node, bool) {
	if n.Type() == typ {
		return n, true
	}
	for _, c := range n.Children() {
		if f, ok := firstOfType(c, typ); ok {
			return f, true
		}
	}
	return Node{}, false
}

// nthOfType returns the i'th (0-indexed) node of the given type found via
// a depth-first walk.
func nthOfType(n Node, typ string, i int) (Node, bool) {
	var matches []Node
	var walk func(Node)
	walk = func(m Node) {
		if m.Type() == typ {
			matches = append(matches, m)
		}
		for _, c := range m.Children() {
			walk(c)
		}
	}
	walk(n)
	if i < 0 || i >= len(matches) {
		return Node{}, false
	}
	return matches[i], true
}
