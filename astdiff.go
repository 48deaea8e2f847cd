package astdiff

// sstubCatalogueLang is the language the pattern table in sstub.go was
// written against. SStubPattern refuses to classify for any other
// configured language.
const sstubCatalogueLang = "python"

// Config holds every tunable the diff pipeline exposes.
type Config struct {
	// MinHeight is H_min, the height threshold below which the top-down
	// matcher stops opening nodes looking for isomorphic subtrees.
	MinHeight int
	// MaxSize caps the subtree weight the minimal-edit (APTED) refinement
	// will run against; larger pairs are left unrefined rather than paying
	// its cubic cost.
	MaxSize int
	// MinDice is the bottom-up matcher's similarity threshold for
	// accepting a container-match candidate.
	MinDice float64
	// Lang carries the statement-boundary and SStuB-catalogue knowledge
	// for the language being diffed. Defaults to PythonLanguageConfig.
	Lang *LanguageConfig
}

// DiffOption adjusts a Config. Zero or more may be passed to Difference.
type DiffOption func(cfg *Config)

// WithMinHeight overrides the top-down matcher's height threshold.
func WithMinHeight(h int) DiffOption { return func(c *Config) { c.MinHeight = h } }

// WithMaxSize overrides the APTED refinement's subtree-weight cap.
func WithMaxSize(n int) DiffOption { return func(c *Config) { c.MaxSize = n } }

// WithMinDice overrides the bottom-up matcher's similarity threshold.
func WithMinDice(d float64) DiffOption { return func(c *Config) { c.MinDice = d } }

// WithLanguageConfig overrides the default (Python) language config.
func WithLanguageConfig(lc *LanguageConfig) DiffOption { return func(c *Config) { c.Lang = lc } }

func defaultConfig() *Config {
	return &Config{
		MinHeight: DefaultMinHeight,
		MaxSize:   1000,
		MinDice:   0.5,
		Lang:      PythonLanguageConfig(),
	}
}

// ASTDiff is the result of diffing one source/target pair: the two parsed
// trees, the node mapping and edit script between them, and the localized
// smallest-differing-subtree pair computed eagerly at construction time.
type ASTDiff struct {
	sourceAST, targetAST   *Tree
	sourceText, targetText string
	lang                   *LanguageConfig

	mapping *Mapping
	script  EditScript
	wt      *WorkingTree

	localSrc, localDst Node
	localErr           error
	isSingleStatement  bool
}

// Difference parses source and target with parse, matches and diffs their
// trees, and eagerly localizes the smallest differing subtree pair. It
// returns ErrParseFailure if either parse fails, or whatever Build reports
// (ErrEmptyTree) if a parsed tree has no nodes once comments are stripped.
func Difference(source, target, lang string, parse Parser, opts ...DiffOption) (*ASTDiff, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	sbn, err := parse(source, lang)
	if err != nil || sbn == nil {
		return nil, ErrParseFailure
	}
	tbn, err := parse(target, lang)
	if err != nil || tbn == nil {
		return nil, ErrParseFailure
	}

	st, err := Build(sbn)
	if err != nil {
		return nil, err
	}
	tt, err := Build(tbn)
	if err != nil {
		return nil, err
	}

	m := TopDownMatch(st.Root(), tt.Root(), cfg.MinHeight)
	m = BottomUpMatch(m, st.Root(), tt.Root(), cfg.MaxSize, cfg.MinDice)
	script, wt := GenerateEditScript(m, st.Root(), tt.Root())

	ls, ld, locErr := LocalizeDiff(st.Root(), tt.Root())

	d := &ASTDiff{
		sourceAST:  st,
		targetAST:  tt,
		sourceText: source,
		targetText: target,
		lang:       cfg.Lang,
		mapping:    m,
		script:     script,
		wt:         wt,
		localSrc:   ls,
		localDst:   ld,
		localErr:   locErr,
	}
	if locErr == nil {
		d.isSingleStatement = isSingleStatementSubtree(ls, cfg.Lang) && isSingleStatementSubtree(ld, cfg.Lang)
	}
	return d, nil
}

// SourceAST returns the parsed source tree.
func (d *ASTDiff) SourceAST() *Tree { return d.sourceAST }

// TargetAST returns the parsed target tree.
func (d *ASTDiff) TargetAST() *Tree { return d.targetAST }

// SourceText returns the original source text.
func (d *ASTDiff) SourceText() string { return d.sourceText }

// TargetText returns the original target text.
func (d *ASTDiff) TargetText() string { return d.targetText }

// IsSingleStatement reports whether the localized diff pair is fully
// contained within a single statement on both sides.
func (d *ASTDiff) IsSingleStatement() bool { return d.isSingleStatement }

// EditScript returns the synthesized edit script turning the source tree
// into the target tree.
func (d *ASTDiff) EditScript() EditScript { return d.script }

// Mapping returns the node mapping the edit script was derived from.
func (d *ASTDiff) Mapping() *Mapping { return d.mapping }

// RootDiff returns the smallest pair of corresponding subtrees that
// actually differ, or the error LocalizeDiff produced (ErrEmptyTree,
// ErrRootTypeMismatch, ErrIdenticalTrees).
func (d *ASTDiff) RootDiff() (Node, Node, error) {
	if d.localErr != nil {
		return Node{}, Node{}, d.localErr
	}
	return d.localSrc, d.localDst, nil
}

// StatementDiff returns the statement enclosing the localized diff pair on
// each side, or ErrNotInStatement if either side has no statement
// ancestor.
func (d *ASTDiff) StatementDiff() (Node, Node, error) {
	if d.localErr != nil {
		return Node{}, Node{}, d.localErr
	}
	s, err := enclosingStatement(d.localSrc, d.lang)
	if err != nil {
		return Node{}, Node{}, err
	}
	t, err := enclosingStatement(d.localDst, d.lang)
	if err != nil {
		return Node{}, Node{}, err
	}
	return s, t, nil
}

// SStubPattern classifies the localized diff pair into a single-statement
// bug pattern. It returns ErrUnsupportedPatternLang if the configured
// language isn't the one the catalogue was written against, and otherwise
// whatever LocalizeDiff's error was (ErrEmptyTree, ErrRootTypeMismatch,
// ErrIdenticalTrees); a
// missing or split statement boundary is reported as the NoStatement or
// MultiStmt pattern value, not an error, matching the classifier's own
// sentinel vocabulary.
func (d *ASTDiff) SStubPattern() (SStubPattern, error) {
	if d.lang.sstubLang() != sstubCatalogueLang {
		return "", ErrUnsupportedPatternLang
	}
	if d.localErr != nil {
		return "", d.localErr
	}

	if _, errS := enclosingStatement(d.localSrc, d.lang); errS != nil {
		return NoStatement, nil
	}
	if _, errT := enclosingStatement(d.localDst, d.lang); errT != nil {
		return NoStatement, nil
	}
	if !d.isSingleStatement {
		return MultiStmt, nil
	}
	return Classify(d.localSrc, d.localDst), nil
}
