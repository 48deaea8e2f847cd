package astdiff

import "strconv"

// SStubPattern names a single-statement-bug mutation pattern, or one of the
// sentinels Classify returns when no specific pattern applies.
type SStubPattern string

const (
	NoStatement SStubPattern = "NO_STMT"
	MultiStmt   SStubPattern = "MULTI_STMT"
	SingleStmt  SStubPattern = "SINGLE_STMT"
	SingleToken SStubPattern = "SINGLE_TOKEN"

	WrongFunctionName         SStubPattern = "WRONG_FUNCTION_NAME"
	SameFunctionMoreArgs      SStubPattern = "SAME_FUNCTION_MORE_ARGS"
	SameFunctionLessArgs      SStubPattern = "SAME_FUNCTION_LESS_ARGS"
	SameFunctionSwapArgs      SStubPattern = "SAME_FUNCTION_SWAP_ARGS"
	SameFunctionWrongCaller   SStubPattern = "SAME_FUNCTION_WRONG_CALLER"
	AddFunctionAroundExpr     SStubPattern = "ADD_FUNCTION_AROUND_EXPRESSION"
	AddMethodCall             SStubPattern = "ADD_METHOD_CALL"
	ChangeIdentifierUsed      SStubPattern = "CHANGE_IDENTIFIER_USED"
	ChangeAttributeUsed       SStubPattern = "CHANGE_ATTRIBUTE_USED"
	ChangeKeywordArgumentUsed SStubPattern = "CHANGE_KEYWORD_ARGUMENT_USED"
	ChangeNumericLiteral      SStubPattern = "CHANGE_NUMERIC_LITERAL"
	ChangeBooleanLiteral      SStubPattern = "CHANGE_BOOLEAN_LITERAL"
	ChangeStringLiteral       SStubPattern = "CHANGE_STRING_LITERAL"
	ChangeConstantType        SStubPattern = "CHANGE_CONSTANT_TYPE"
	ChangeUnaryOperator       SStubPattern = "CHANGE_UNARY_OPERATOR"
	ChangeBinaryOperator      SStubPattern = "CHANGE_BINARY_OPERATOR"
	ChangeBinaryOperand       SStubPattern = "CHANGE_BINARY_OPERAND"
	MoreSpecificIf            SStubPattern = "MORE_SPECIFIC_IF"
	LessSpecificIf            SStubPattern = "LESS_SPECIFIC_IF"
	AddElementsToIterable     SStubPattern = "ADD_ELEMENTS_TO_ITERABLE"
	AddAttributeAccess        SStubPattern = "ADD_ATTRIBUTE_ACCESS"
)

var numericLiteralTypes = map[string]bool{"integer": true, "float": true}
var booleanLiteralTypes = map[string]bool{"true": true, "false": true}
var stringLiteralTypes = map[string]bool{"string": true}
var binaryOpTypes = map[string]bool{"binary_operator": true, "comparison_operator": true, "boolean_operator": true}
var unaryOpTypes = map[string]bool{"unary_operator": true, "not_operator": true}
var iterableTypes = map[string]bool{"tuple": true, "list": true, "set": true, "dictionary": true}
var conditionalTypes = map[string]bool{"if_statement": true, "elif_clause": true, "while_statement": true}

// pisomorph is isomorphism modulo a parenthesized_expression wrapper on
// either side, per the glossary definition.
func pisomorph(a, b Node) bool {
	if a.Isomorphic(b) {
		return true
	}
	if a.Type() == "parenthesized_expression" && a.NumChildren() > 1 {
		if pisomorph(a.Child(1), b) {
			return true
		}
	}
	if b.Type() == "parenthesized_expression" && b.NumChildren() > 1 {
		if pisomorph(a, b.Child(1)) {
			return true
		}
	}
	return false
}

func isLiteralFamily(set map[string]bool, n Node) bool { return set[n.Type()] }

func isLeaf(n Node) bool { return !n.IsZero() && n.IsLeaf() }

// Classify dispatches a localized diff pair to the first matching SStuB
// pattern, falling back to SingleToken (both sides are same-role leaves)
// or SingleStmt (anything else inside a statement).
func Classify(source, target Node) SStubPattern {
	for _, try := range classifierCandidates {
		if p, ok := try(source, target); ok {
			return p
		}
	}
	if isLeaf(source) && isLeaf(target) && source.Type() == target.Type() {
		return SingleToken
	}
	return SingleStmt
}

type candidateFn func(source, target Node) (SStubPattern, bool)

var classifierCandidates = []candidateFn{
	tryWrongFunctionName,
	trySameFunctionSwapArgs,
	trySameFunctionMoreArgs,
	trySameFunctionLessArgs,
	trySameFunctionWrongCaller,
	tryAddFunctionAroundExpression,
	tryAddMethodCall,
	tryChangeUnaryOperator,
	tryChangeBinaryOperator,
	tryChangeBinaryOperand,
	tryMoreOrLessSpecificIf,
	tryChangeKeywordArgumentUsed,
	tryChangeAttributeUsed,
	tryChangeConstantType,
	tryChangeNumericLiteral,
	tryChangeBooleanLiteral,
	tryChangeStringLiteral,
	tryAddElementsToIterable,
	tryAddAttributeAccess,
	tryChangeIdentifierUsed,
}

func tryWrongFunctionName(source, target Node) (SStubPattern, bool) {
	if source.Type() != "identifier" || target.Type() != "identifier" {
		return "", false
	}
	call := source.Parent()
	for !call.IsZero() && call.Type() != "call" {
		call = call.Parent()
	}
	if call.IsZero() {
		return "", false
	}
	fn, ok := call.ChildByField("function")
	if !ok {
		return "", false
	}
	if fn.NumChildren() > 0 {
		fn = fn.Child(fn.NumChildren() - 1)
	}
	if fn == source {
		return WrongFunctionName, true
	}
	return "", false
}

// isArgumentListOfCall reports whether n is an argument_list whose own
// parent is the call it belongs to - the shape the localized diff pair
// takes whenever an argument count changes, since LocalizeDiff returns the
// smallest common container and a differing argument count can only be
// resolved at the argument_list itself, never a single child position.
func isArgumentListOfCall(n Node) bool {
	if n.Type() != "argument_list" {
		return false
	}
	p := n.Parent()
	return !p.IsZero() && p.Type() == "call"
}

func trySameFunctionMoreArgs(source, target Node) (SStubPattern, bool) {
	if !isArgumentListOfCall(source) || !isArgumentListOfCall(target) {
		return "", false
	}
	sc, tc := source.Children(), target.Children()
	if len(tc) <= len(sc) {
		return "", false
	}
	if isPositionalSubset(sc, tc) {
		return SameFunctionMoreArgs, true
	}
	return "", false
}

func trySameFunctionLessArgs(source, target Node) (SStubPattern, bool) {
	if !isArgumentListOfCall(source) || !isArgumentListOfCall(target) {
		return "", false
	}
	sc, tc := source.Children(), target.Children()
	if len(sc) <= len(tc) {
		return "", false
	}
	if isPositionalSubset(tc, sc) {
		return SameFunctionLessArgs, true
	}
	return "", false
}

// isPositionalSubset reports whether the shorter list appears, in order,
// as a positional subsequence of the longer list under pseudo-isomorphism.
func isPositionalSubset(shorter, longer []Node) bool {
	i := 0
	for _, l := range longer {
		if i < len(shorter) && pisomorph(shorter[i], l) {
			i++
		}
	}
	return i == len(shorter)
}

func trySameFunctionSwapArgs(source, target Node) (SStubPattern, bool) {
	if !isArgumentListOfCall(source) || !isArgumentListOfCall(target) {
		return "", false
	}
	sc, tc := source.Children(), target.Children()
	if len(sc) != len(tc) {
		return "", false
	}
	var diffs []int
	for i := range sc {
		if !pisomorph(sc[i], tc[i]) {
			diffs = append(diffs, i)
		}
	}
	if len(diffs) != 2 {
		return "", false
	}
	i, j := diffs[0], diffs[1]
	if pisomorph(sc[i], tc[j]) && pisomorph(sc[j], tc[i]) {
		return SameFunctionSwapArgs, true
	}
	return "", false
}

func trySameFunctionWrongCaller(source, target Node) (SStubPattern, bool) {
	attr := source.Parent()
	if attr.IsZero() || attr.Type() != "attribute" {
		return "", false
	}
	obj, ok := attr.ChildByField("object")
	if !ok || obj != source {
		return "", false
	}
	call := attr.Parent()
	if call.IsZero() || call.Type() != "call" {
		return "", false
	}
	if fn, ok := call.ChildByField("function"); !ok || fn != attr {
		return "", false
	}
	return SameFunctionWrongCaller, true
}

func tryAddFunctionAroundExpression(source, target Node) (SStubPattern, bool) {
	if target.Type() != "call" {
		return "", false
	}
	args, ok := target.ChildByField("arguments")
	if !ok {
		for i := 0; i < target.NumChildren(); i++ {
			if target.Child(i).Type() == "argument_list" {
				args = target.Child(i)
				ok = true
				break
			}
		}
	}
	if !ok {
		return "", false
	}
	for _, a := range args.Children() {
		if pisomorph(source, a) {
			return AddFunctionAroundExpr, true
		}
	}
	return "", false
}

// tryAddMethodCall matches `result = x.get()` -> `result = x.return().get()`:
// the call being introduced (target) has a method-chain expression as its
// function slot (an attribute or a further call), and the object at the
// base of that chain is pseudo-isomorphic to the untouched source
// expression. Isomorphism, not reference equality, is the right test here:
// source and target live in two different trees, so no node from one can
// ever be reference-equal to a node in the other.
func tryAddMethodCall(source, target Node) (SStubPattern, bool) {
	if target.NumChildren() == 0 {
		return "", false
	}
	first := target.Child(0)
	if first.Type() != "attribute" && first.Type() != "call" {
		return "", false
	}
	if first.NumChildren() == 0 {
		return "", false
	}
	if pisomorph(first.Child(0), source) {
		return AddMethodCall, true
	}
	return "", false
}

func tryChangeIdentifierUsed(source, target Node) (SStubPattern, bool) {
	if source.Type() != "identifier" || target.Type() != "identifier" {
		return "", false
	}
	p := source.Parent()
	if p.IsZero() {
		return ChangeIdentifierUsed, true
	}
	if containsAny(p.Type(), "definition", "declaration") {
		return "", false
	}
	return ChangeIdentifierUsed, true
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if len(s) >= len(sub) && indexOf(s, sub) >= 0 {
			return true
		}
	}
	return false
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func tryChangeAttributeUsed(source, target Node) (SStubPattern, bool) {
	p := source.Parent()
	if p.IsZero() || p.Type() != "attribute" {
		return "", false
	}
	if a, ok := p.ChildByField("attribute"); ok && a == source {
		return ChangeAttributeUsed, true
	}
	return "", false
}

func tryChangeKeywordArgumentUsed(source, target Node) (SStubPattern, bool) {
	p := source.Parent()
	if p.IsZero() || p.Type() != "keyword_argument" {
		return "", false
	}
	if n, ok := p.ChildByField("name"); ok && n == source {
		return ChangeKeywordArgumentUsed, true
	}
	return "", false
}

func tryChangeNumericLiteral(source, target Node) (SStubPattern, bool) {
	if isLiteralFamily(numericLiteralTypes, source) && isLiteralFamily(numericLiteralTypes, target) {
		return ChangeNumericLiteral, true
	}
	return "", false
}

func tryChangeBooleanLiteral(source, target Node) (SStubPattern, bool) {
	if isLiteralFamily(booleanLiteralTypes, source) && isLiteralFamily(booleanLiteralTypes, target) {
		return ChangeBooleanLiteral, true
	}
	return "", false
}

func tryChangeStringLiteral(source, target Node) (SStubPattern, bool) {
	if isLiteralFamily(stringLiteralTypes, source) && isLiteralFamily(stringLiteralTypes, target) {
		return ChangeStringLiteral, true
	}
	return "", false
}

// tryChangeConstantType covers literals of different node types that
// normalize to the same value: strings unquoted, numerics coerced to
// float.
func tryChangeConstantType(source, target Node) (SStubPattern, bool) {
	if source.Type() == target.Type() {
		return "", false
	}
	sv, sok := normalizeConstant(source)
	tv, tok := normalizeConstant(target)
	if sok && tok && sv == tv {
		return ChangeConstantType, true
	}
	return "", false
}

func normalizeConstant(n Node) (string, bool) {
	switch {
	case stringLiteralTypes[n.Type()]:
		return unquote(n.Text()), true
	case numericLiteralTypes[n.Type()]:
		f, err := strconv.ParseFloat(n.Text(), 64)
		if err != nil {
			return "", false
		}
		return strconv.FormatFloat(f, 'g', -1, 64), true
	default:
		return "", false
	}
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func tryChangeUnaryOperator(source, target Node) (SStubPattern, bool) {
	if unaryOpTypes[source.Type()] && source.NumChildren() > 0 && pisomorph(source.Child(source.NumChildren()-1), target) {
		return ChangeUnaryOperator, true
	}
	if unaryOpTypes[target.Type()] && target.NumChildren() > 0 && pisomorph(source, target.Child(target.NumChildren()-1)) {
		return ChangeUnaryOperator, true
	}
	return "", false
}

func tryChangeBinaryOperator(source, target Node) (SStubPattern, bool) {
	p := source.Parent()
	if p.IsZero() || !binaryOpTypes[p.Type()] {
		return "", false
	}
	left, hasLeft := p.ChildByField("left")
	right, hasRight := p.ChildByField("right")
	if hasLeft && left == source {
		return "", false
	}
	if hasRight && right == source {
		return "", false
	}
	return ChangeBinaryOperator, true
}

func tryChangeBinaryOperand(source, target Node) (SStubPattern, bool) {
	p := source.Parent()
	if p.IsZero() || !binaryOpTypes[p.Type()] {
		return "", false
	}
	if left, ok := p.ChildByField("left"); ok && left == source {
		return ChangeBinaryOperand, true
	}
	if right, ok := p.ChildByField("right"); ok && right == source {
		return ChangeBinaryOperand, true
	}
	return "", false
}

func tryMoreOrLessSpecificIf(source, target Node) (SStubPattern, bool) {
	cond := source.Parent()
	for !cond.IsZero() && !conditionalTypes[cond.Type()] {
		cond = cond.Parent()
	}
	if cond.IsZero() {
		return "", false
	}
	if !binaryOpTypes[target.Type()] {
		return "", false
	}
	op, ok := target.ChildByField("operator")
	if !ok {
		for i := 0; i < target.NumChildren(); i++ {
			c := target.Child(i)
			if c.Text() == "and" || c.Text() == "or" {
				op = c
				ok = true
				break
			}
		}
	}
	if !ok {
		return "", false
	}
	left, _ := target.ChildByField("left")
	right, _ := target.ChildByField("right")
	matchesOperand := pisomorph(source, left) || pisomorph(source, right)
	if !matchesOperand {
		return "", false
	}
	switch op.Text() {
	case "and":
		return MoreSpecificIf, true
	case "or":
		return LessSpecificIf, true
	}
	return "", false
}

func tryAddElementsToIterable(source, target Node) (SStubPattern, bool) {
	if !iterableTypes[source.Type()] || source.Type() != target.Type() {
		return "", false
	}
	sc, tc := source.Children(), target.Children()
	if len(tc) <= len(sc) {
		return "", false
	}
	if isPositionalSubset(sc, tc) {
		return AddElementsToIterable, true
	}
	return "", false
}

func tryAddAttributeAccess(source, target Node) (SStubPattern, bool) {
	if target.Type() != "attribute" {
		return "", false
	}
	obj, ok := target.ChildByField("object")
	if !ok {
		return "", false
	}
	if pisomorph(obj, source) {
		return AddAttributeAccess, true
	}
	return "", false
}
