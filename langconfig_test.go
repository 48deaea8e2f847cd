package astdiff

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchTypeExactAndGlob(t *testing.T) {
	assert.True(t, matchType("if_statement", "if_statement"))
	assert.False(t, matchType("if_statement", "while_statement"))
	assert.True(t, matchType("*_statement", "while_statement"))
	assert.False(t, matchType("*_statement", "call"))
}

func TestPythonLanguageConfigRecognizesStatementShapes(t *testing.T) {
	cfg := PythonLanguageConfig()
	assert.True(t, isStatementType(cfg.StatementTypes, "if_statement"))
	assert.True(t, isStatementType(cfg.StatementTypes, "expression_statement"))
	assert.True(t, isStatementType(cfg.StatementTypes, "function_definition"))
	assert.False(t, isStatementType(cfg.StatementTypes, "call"))
	assert.Equal(t, "python", cfg.sstubLang())
}

func TestLanguageConfigSStubLangDefaultsToLang(t *testing.T) {
	cfg := &LanguageConfig{Lang: "go"}
	assert.Equal(t, "go", cfg.sstubLang())

	cfg2 := &LanguageConfig{Lang: "go", SStubLang: "python"}
	assert.Equal(t, "python", cfg2.sstubLang())
}

func TestLoadLanguageConfigDecodesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lang.toml")
	doc := `
lang = "ruby"
statement_types = ["if", "*_statement"]
sstub_lang = "python"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := LoadLanguageConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ruby", cfg.Lang)
	assert.Equal(t, []string{"if", "*_statement"}, cfg.StatementTypes)
	assert.Equal(t, "python", cfg.sstubLang())
}

func TestLoadLanguageConfigMissingFileErrors(t *testing.T) {
	_, err := LoadLanguageConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
