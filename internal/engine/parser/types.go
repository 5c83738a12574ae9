package parser

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Dialect is the source language a module is parsed as.
type Dialect string

const (
	DialectJavaScript Dialect = "javascript"
	DialectTypeScript Dialect = "typescript"
)

// Extension is appended to extension-less import sources written in this dialect.
func (d Dialect) Extension() string {
	if d == DialectTypeScript {
		return ".ts"
	}
	return ".js"
}

const (
	grammarJavaScript = "javascript"
	grammarTypeScript = "typescript"
	grammarTSX        = "tsx"
)

var extensionGrammars = map[string]string{
	".js":  grammarJavaScript,
	".jsx": grammarJavaScript,
	".mjs": grammarJavaScript,
	".cjs": grammarJavaScript,
	".ts":  grammarTypeScript,
	".mts": grammarTypeScript,
	".cts": grammarTypeScript,
	".tsx": grammarTSX,
}

// ResolutionExtensions is the order in which extensions are tried for an
// extension-less import after the importing dialect's own extension.
var ResolutionExtensions = []string{".js", ".ts", ".tsx", ".jsx"}

func grammarForPath(path string) string {
	return extensionGrammars[strings.ToLower(filepath.Ext(path))]
}

// DialectForPath returns the dialect for a source path, or "" when unsupported.
func DialectForPath(path string) Dialect {
	switch grammarForPath(path) {
	case grammarJavaScript:
		return DialectJavaScript
	case grammarTypeScript, grammarTSX:
		return DialectTypeScript
	}
	return ""
}

func IsSourcePath(path string) bool {
	return grammarForPath(path) != ""
}

// SourceExtensions lists every extension the parser accepts.
func SourceExtensions() []string {
	out := make([]string, 0, len(extensionGrammars))
	for ext := range extensionGrammars {
		out = append(out, ext)
	}
	return sortStrings(out)
}

type Location struct {
	File   string
	Line   int
	Column int
}

// Module is a parsed source file. The tree is owned by the module; Close
// releases it and invalidates every node obtained from Root.
type Module struct {
	Path    string
	Dialect Dialect
	Source  []byte
	tree    *sitter.Tree
}

func (m *Module) Root() *sitter.Node {
	if m == nil || m.tree == nil {
		return nil
	}
	return m.tree.RootNode()
}

func (m *Module) Text(node *sitter.Node) string {
	return NodeText(node, m.Source)
}

func (m *Module) Location(node *sitter.Node) Location {
	if node == nil {
		return Location{File: m.Path}
	}
	pos := node.StartPosition()
	return Location{
		File:   m.Path,
		Line:   int(pos.Row) + 1,
		Column: int(pos.Column) + 1,
	}
}

func (m *Module) Close() {
	if m == nil || m.tree == nil {
		return
	}
	m.tree.Close()
	m.tree = nil
}
