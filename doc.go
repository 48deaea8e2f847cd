// Package astdiff computes a structural, syntax-aware diff between two
// source-code snippets of the same language. Given two parsed ASTs it
// finds the smallest enclosing pair of subtrees that actually differ,
// synthesizes an edit script of Insert/Update/Move/Delete operations that
// turns the source tree into the target tree, and (for Python) classifies
// the change into one of a fixed catalogue of single-statement bug
// patterns.
//
// Matching runs in two phases against an arena-backed AST: a top-down pass
// pairs up isomorphic subtrees by height, falling back to a dice-similarity
// and positional-distance heuristic when a shape repeats; a bottom-up pass
// then walks the remaining unmapped container nodes looking for a
// plausible target by shared mapped descendants, refining each accepted
// pair with a minimal tree-edit-distance alignment. The resulting mapping
// drives a Chawathe-style script synthesizer that mutates a copy-on-write
// working tree one operation at a time.
//
// astdiff does not parse source text itself; callers supply a Parser that
// turns source into a BackendNode tree, the same way a tree-sitter grammar
// would be wired into a consumer of this package.
package astdiff
