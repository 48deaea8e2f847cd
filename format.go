package astdiff

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// FormatScriptString renders an edit script to a string, one operation per
// line, optionally with ANSI color coding by operation kind.
func FormatScriptString(script EditScript, colorTTY bool) (string, error) {
	buf := &bytes.Buffer{}
	if err := FormatScript(buf, script, colorTTY); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatScript writes an edit script to w: green Insert, red Delete, blue
// Update, yellow Move, when colorTTY is set.
func FormatScript(w io.Writer, script EditScript, colorTTY bool) error {
	var colorMap map[EditKind]string
	const closeColor = "\x1b[0m"
	if colorTTY {
		colorMap = map[EditKind]string{
			InsertOp: "\x1b[32m",
			DeleteOp: "\x1b[31m",
			UpdateOp: "\x1b[34m",
			MoveOp:   "\x1b[33m",
		}
	}
	for _, e := range script {
		if colorTTY {
			if _, err := fmt.Fprintf(w, "%s%s%s\n", colorMap[e.Kind], e.String(), closeColor); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\n", e.String()); err != nil {
			return err
		}
	}
	return nil
}

// FormatStats renders a Stats summary as a one-line report.
func FormatStats(st Stats) string {
	return fmt.Sprintf(
		"%+d nodes. %d inserts. %d deletes. %d updates. %d moves.",
		st.NodeChange(), st.Inserts, st.Deletes, st.Updates, st.Moves,
	)
}

// NodeRef is the parsed form of one node reference embedded in a serialized
// edit-script line: either a synthetic insert node ("type, Nk") or a
// reference to a real tree node ("type[:text], line a:b - c:d").
type NodeRef struct {
	Synthetic bool
	SynthID   int

	Type    string
	Text    string
	HasText bool

	StartLine, StartCol, EndLine, EndCol int
}

// ParsedEdit is the deserialized form of one edit-script line: structurally
// the same information as an Edit, but carrying NodeRefs rather than live
// WorkingTree pointers, since a standalone line of text has no path back to
// the working tree that produced it. Comparing two ParsedEdit slices for
// equality, after zeroing SynthID on both sides, is what the round-trip
// property ("up to insert_id renaming") asks for: the id is a fresh counter
// per synthesis run, not semantic content.
type ParsedEdit struct {
	Kind   EditKind
	Node   NodeRef
	Parent NodeRef
	Pos    int
	Value  string
}

var synthRefPattern = regexp.MustCompile(`^(.*), N(\d+)$`)
var posRefPattern = regexp.MustCompile(`^(.*), line (\d+):(\d+) - (\d+):(\d+)$`)

func parseNodeRef(s string) (NodeRef, error) {
	if m := synthRefPattern.FindStringSubmatch(s); m != nil {
		id, err := strconv.Atoi(m[2])
		if err != nil {
			return NodeRef{}, fmt.Errorf("astdiff: bad synthetic id in %q: %w", s, err)
		}
		return NodeRef{Synthetic: true, SynthID: id, Type: m[1]}, nil
	}
	m := posRefPattern.FindStringSubmatch(s)
	if m == nil {
		return NodeRef{}, fmt.Errorf("astdiff: unrecognized node reference %q", s)
	}
	sl, _ := strconv.Atoi(m[2])
	sc, _ := strconv.Atoi(m[3])
	el, _ := strconv.Atoi(m[4])
	ec, _ := strconv.Atoi(m[5])
	ref := NodeRef{StartLine: sl, StartCol: sc, EndLine: el, EndCol: ec}
	if idx := strings.Index(m[1], ":"); idx >= 0 {
		ref.Type, ref.Text, ref.HasText = m[1][:idx], m[1][idx+1:], true
	} else {
		ref.Type = m[1]
	}
	return ref, nil
}

// splitTopLevel splits s on commas that occur at paren-depth 0, trimming
// surrounding whitespace from each piece - node references are always
// parenthesized, so a comma inside one never looks like a field separator.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}

func stripOuterParens(s string) string {
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		return s[1 : len(s)-1]
	}
	return s
}

func parseEditLine(line string) (ParsedEdit, error) {
	kindOf := func(prefix string) (string, bool) {
		if strings.HasPrefix(line, prefix+"(") && strings.HasSuffix(line, ")") {
			return line[len(prefix)+1 : len(line)-1], true
		}
		return "", false
	}

	if inner, ok := kindOf("Update"); ok {
		parts := splitTopLevel(inner)
		if len(parts) < 2 {
			return ParsedEdit{}, fmt.Errorf("astdiff: malformed Update line %q", line)
		}
		ref, err := parseNodeRef(stripOuterParens(parts[0]))
		if err != nil {
			return ParsedEdit{}, err
		}
		value := inner[len(parts[0])+1:]
		return ParsedEdit{Kind: UpdateOp, Node: ref, Value: strings.TrimSpace(value)}, nil
	}
	if inner, ok := kindOf("Insert"); ok {
		parts := splitTopLevel(inner)
		if len(parts) != 3 {
			return ParsedEdit{}, fmt.Errorf("astdiff: malformed Insert line %q", line)
		}
		node, err := parseNodeRef(stripOuterParens(parts[0]))
		if err != nil {
			return ParsedEdit{}, err
		}
		parent, err := parseNodeRef(stripOuterParens(parts[1]))
		if err != nil {
			return ParsedEdit{}, err
		}
		pos, err := strconv.Atoi(parts[2])
		if err != nil {
			return ParsedEdit{}, fmt.Errorf("astdiff: bad Insert position in %q: %w", line, err)
		}
		return ParsedEdit{Kind: InsertOp, Node: node, Parent: parent, Pos: pos}, nil
	}
	if inner, ok := kindOf("Move"); ok {
		parts := splitTopLevel(inner)
		if len(parts) != 3 {
			return ParsedEdit{}, fmt.Errorf("astdiff: malformed Move line %q", line)
		}
		node, err := parseNodeRef(stripOuterParens(parts[0]))
		if err != nil {
			return ParsedEdit{}, err
		}
		parent, err := parseNodeRef(stripOuterParens(parts[1]))
		if err != nil {
			return ParsedEdit{}, err
		}
		pos, err := strconv.Atoi(parts[2])
		if err != nil {
			return ParsedEdit{}, fmt.Errorf("astdiff: bad Move position in %q: %w", line, err)
		}
		return ParsedEdit{Kind: MoveOp, Node: node, Parent: parent, Pos: pos}, nil
	}
	if inner, ok := kindOf("Delete"); ok {
		node, err := parseNodeRef(stripOuterParens(inner))
		if err != nil {
			return ParsedEdit{}, err
		}
		return ParsedEdit{Kind: DeleteOp, Node: node}, nil
	}
	return ParsedEdit{}, fmt.Errorf("astdiff: unrecognized edit-script line %q", line)
}

// DeserializeScript parses the textual form FormatScriptString (uncolored)
// produces back into a sequence of ParsedEdit values, one per non-blank
// line, in order.
func DeserializeScript(s string) ([]ParsedEdit, error) {
	lines := strings.Split(s, "\n")
	out := make([]ParsedEdit, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pe, err := parseEditLine(line)
		if err != nil {
			return nil, err
		}
		out = append(out, pe)
	}
	return out, nil
}
