package astdiff

import (
	"path"

	"github.com/BurntSushi/toml"
)

// Parser is the parse backend contract the core consumes: turn source text
// into a tagged, positioned tree for the given language. Everything about
// tokenizing and grammar lives on the other side of this function; the core
// only ever walks the tree it returns.
type Parser func(source, lang string) (BackendNode, error)

// LanguageConfig carries the per-language knowledge the core needs but does
// not implement itself: which node types count as statements (for
// statement-boundary checks) and which language the SStuB catalogue in this
// config was written against.
type LanguageConfig struct {
	// Lang names the language this config (and its SStuB catalogue. if any)
	// applies to, e.g. "python".
	Lang string `toml:"lang"`
	// StatementTypes lists glob-style patterns matched against a node's
	// Type() via matchType, e.g. "*_statement", "expression_statement".
	StatementTypes []string `toml:"statement_types"`
	// SStubLang is the language the SStuB pattern catalogue was designed
	// for. ASTDiff.SStubPattern refuses to run for any other language.
	// Defaults to Lang when empty.
	SStubLang string `toml:"sstub_lang"`
}

// sstubLang returns the effective SStuB catalogue language for this config.
func (c *LanguageConfig) sstubLang() string {
	if c.SStubLang != "" {
		return c.SStubLang
	}
	return c.Lang
}

// PythonLanguageConfig is the bundled configuration for Python, the
// language the SStuB catalogue in sstub.go was designed against.
func PythonLanguageConfig() *LanguageConfig {
	return &LanguageConfig{
		Lang: "python",
		StatementTypes: []string{
			"*_statement",
			"decorated_definition",
			"function_definition",
			"class_definition",
		},
	}
}

// LoadLanguageConfig reads a LanguageConfig from a TOML file on disk. Hand
// authoring a language config is the main way to extend pattern-driven
// statement detection to a new grammar without the core needing to know
// anything about it.
func LoadLanguageConfig(filename string) (*LanguageConfig, error) {
	cfg := &LanguageConfig{}
	if _, err := toml.DecodeFile(filename, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// matchType reports whether a node's type tag matches a statement-type
// pattern. Patterns are plain strings or shell-style globs ("*_statement"),
// evaluated the same way a language config author would expect from a
// config file: exact string match, or glob match when the pattern contains
// a wildcard.
func matchType(pattern, nodeType string) bool {
	if pattern == nodeType {
		return true
	}
	ok, err := path.Match(pattern, nodeType)
	return err == nil && ok
}

// isStatementType reports whether nodeType matches any pattern in types.
func isStatementType(types []string, nodeType string) bool {
	for _, pattern := range types {
		if matchType(pattern, nodeType) {
			return true
		}
	}
	return false
}
