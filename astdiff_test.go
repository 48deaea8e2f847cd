package astdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureParser builds a Parser from a fixed table of source strings to
// pre-built fakeNode trees, standing in for a real tree-sitter-backed parse
// backend the way the other example repos' tests stub out an external
// dependency rather than reaching for the real thing.
func fixtureParser(table map[string]*fakeNode) Parser {
	return func(source, lang string) (BackendNode, error) {
		n, ok := table[source]
		if !ok {
			return nil, ErrParseFailure
		}
		return n, nil
	}
}

func TestDifferenceEndToEndWrongFunctionName(t *testing.T) {
	src, dst := "test()", "test2()"
	parse := fixtureParser(map[string]*fakeNode{
		src: exprStatement(call(ident("test"), argList())),
		dst: exprStatement(call(ident("test2"), argList())),
	})

	d, err := Difference(src, dst, "python", parse)
	require.NoError(t, err)

	assert.True(t, d.IsSingleStatement())
	tag, err := d.SStubPattern()
	require.NoError(t, err)
	assert.Equal(t, WrongFunctionName, tag)

	s, tn, err := d.RootDiff()
	require.NoError(t, err)
	assert.Equal(t, "identifier", s.Type())
	assert.Equal(t, "identifier", tn.Type())

	assert.NotEmpty(t, d.EditScript())
}

func TestDifferenceParseFailureSurfaces(t *testing.T) {
	parse := fixtureParser(map[string]*fakeNode{"a": ident("a")})
	_, err := Difference("a", "does-not-exist", "python", parse)
	assert.ErrorIs(t, err, ErrParseFailure)
}

func TestDifferenceUnsupportedPatternLang(t *testing.T) {
	src, dst := "x", "y"
	parse := fixtureParser(map[string]*fakeNode{
		src: ident("x"),
		dst: ident("y"),
	})
	other := &LanguageConfig{Lang: "go", StatementTypes: []string{"*_statement"}}

	d, err := Difference(src, dst, "go", parse, WithLanguageConfig(other))
	require.NoError(t, err)

	_, err = d.SStubPattern()
	assert.ErrorIs(t, err, ErrUnsupportedPatternLang)
}

func TestDifferenceIdenticalTreesRootDiffErrors(t *testing.T) {
	src := "x"
	parse := fixtureParser(map[string]*fakeNode{src: ident("x")})

	d, err := Difference(src, src, "python", parse)
	require.NoError(t, err)

	_, _, err = d.RootDiff()
	assert.ErrorIs(t, err, ErrIdenticalTrees)

	_, err = d.SStubPattern()
	assert.ErrorIs(t, err, ErrIdenticalTrees)
}

func TestDifferenceStatementDiffNotInStatement(t *testing.T) {
	// Bare identifiers with no enclosing statement-shaped ancestor at all.
	src, dst := "x", "y"
	parse := fixtureParser(map[string]*fakeNode{
		src: ident("x"),
		dst: ident("y"),
	})

	d, err := Difference(src, dst, "python", parse)
	require.NoError(t, err)

	_, _, err = d.StatementDiff()
	assert.ErrorIs(t, err, ErrNotInStatement)
	assert.False(t, d.IsSingleStatement())
}

func TestDifferenceOptionsOverrideDefaults(t *testing.T) {
	src, dst := "a", "b"
	parse := fixtureParser(map[string]*fakeNode{
		src: ident("a"),
		dst: ident("b"),
	})

	d, err := Difference(src, dst, "python", parse,
		WithMinHeight(0), WithMaxSize(1), WithMinDice(0.9))
	require.NoError(t, err)
	assert.NotNil(t, d)
}

// TestDifferenceMultiStatementBlockWithMatchingEnclosingType covers a
// localized diff pair that spans two differing statements inside one
// function body, where the enclosing statement (the function_definition)
// happens to have the same type on both sides. Enclosing-statement type
// equality is not what "single statement" means: the block itself
// contains two nested statement-type descendants that changed, so this
// must report MultiStmt, not fall through to the classifier.
func TestDifferenceMultiStatementBlockWithMatchingEnclosingType(t *testing.T) {
	funcDef := func(bodyStmts ...*fakeNode) *fakeNode {
		return branch("function_definition", ident("f"), branch("block", bodyStmts...))
	}

	src, dst := "def f(): a = 1; b = 2", "def f(): a = 9; b = 8"
	parse := fixtureParser(map[string]*fakeNode{
		src: module(funcDef(
			exprStatement(assign(ident("a"), integer("1"))),
			exprStatement(assign(ident("b"), integer("2"))),
		)),
		dst: module(funcDef(
			exprStatement(assign(ident("a"), integer("9"))),
			exprStatement(assign(ident("b"), integer("8"))),
		)),
	})

	d, err := Difference(src, dst, "python", parse)
	require.NoError(t, err)

	s, tn, err := d.RootDiff()
	require.NoError(t, err)
	assert.Equal(t, "block", s.Type())
	assert.Equal(t, "block", tn.Type())

	assert.False(t, d.IsSingleStatement(), "a block with two changed nested statements is not a single-statement diff")

	tag, err := d.SStubPattern()
	require.NoError(t, err)
	assert.Equal(t, MultiStmt, tag)
}

// TestDifferenceIfToWhileConditionIsSingleStatement covers the opposite
// direction of the same bug: "if x: pass" -> "while x and y: pass"
// localizes inside the condition (x -> boolean_operator(x, and, y)), which
// forces the enclosing statement walk to land on an if_statement on the
// source side and a while_statement on the target side - legitimately
// different types, since the diff touches which kind of header the
// condition belongs to. The diff itself is still fully contained within a
// single statement (neither endpoint has a nested statement-type
// descendant), so this must not report MultiStmt.
func TestDifferenceIfToWhileConditionIsSingleStatement(t *testing.T) {
	cond := ident("x")
	src := module(ifStatement(cond, exprStatement(ident("pass"))))

	condTarget := binary("boolean_operator", ident("x"), leaf("and", "and"), ident("y"))
	whileStmt := branch("while_statement", condTarget, exprStatement(ident("pass")))
	withField(whileStmt, "condition", condTarget)
	dst := module(whileStmt)

	srcText, dstText := "if x: pass", "while x and y: pass"
	parse := fixtureParser(map[string]*fakeNode{
		srcText: src,
		dstText: dst,
	})

	d, err := Difference(srcText, dstText, "python", parse)
	require.NoError(t, err)

	s, tn, err := d.RootDiff()
	require.NoError(t, err)
	assert.Equal(t, "identifier", s.Type())
	assert.Equal(t, "boolean_operator", tn.Type())

	assert.True(t, d.IsSingleStatement(), "an if/while condition change with no nested statement is still single-statement")

	tag, err := d.SStubPattern()
	require.NoError(t, err)
	assert.Equal(t, MoreSpecificIf, tag)
}

func TestStatsOfCountsScriptAndTreeSizes(t *testing.T) {
	src, dst := "test(x)", "test(x, y)"
	parse := fixtureParser(map[string]*fakeNode{
		src: call(ident("test"), argList(ident("x"))),
		dst: call(ident("test"), argList(ident("x"), ident("y"))),
	})

	d, err := Difference(src, dst, "python", parse)
	require.NoError(t, err)

	st := StatsOf(d)
	assert.Equal(t, 1, st.Inserts)
	assert.Equal(t, 0, st.Deletes)
	assert.Equal(t, 1, st.NodeChange())
	assert.Equal(t, d.SourceAST().Len(), st.SourceNodes)
	assert.Equal(t, d.TargetAST().Len(), st.TargetNodes)
}
