package parser

import (
	"fmt"
	"os"
	"time"

	"graphqlpal/internal/core/errors"
	"graphqlpal/internal/shared/observability"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Parser turns JavaScript-family source files into modules. It is safe for
// concurrent use.
type Parser struct {
	pools map[string]*ParserPool
}

func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{pools: make(map[string]*ParserPool)}
	for _, id := range loader.GrammarIDs() {
		lang, _ := loader.Language(id)
		p.pools[id] = NewParserPool(lang)
	}
	return p
}

// NewDefaultParser builds a parser over every compiled-in grammar.
func NewDefaultParser() *Parser {
	return NewParser(NewGrammarLoader())
}

func (p *Parser) ParseFile(path string) (*Module, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeIOError, "unable to read source file"), errors.CtxPath, path)
	}
	return p.Parse(path, content)
}

// Parse parses content as the dialect implied by path. Trees containing
// syntax errors are rejected.
func (p *Parser) Parse(path string, content []byte) (*Module, error) {
	grammar := grammarForPath(path)
	if grammar == "" {
		return nil, errors.AddContext(errors.New(errors.CodeNotSupported, "unsupported source file"), errors.CtxPath, path)
	}
	pool := p.pools[grammar]
	if pool == nil {
		return nil, errors.New(errors.CodeInternal, fmt.Sprintf("grammar not loaded: %s", grammar))
	}

	start := time.Now()
	sp := pool.Get()
	tree := sp.Parse(content, nil)
	pool.Put(sp)
	observability.ParsingDuration.WithLabelValues(grammar).Observe(time.Since(start).Seconds())

	if tree == nil {
		return nil, errors.AddContext(errors.New(errors.CodeParseError, "parse failed"), errors.CtxPath, path)
	}

	module := &Module{
		Path:    path,
		Dialect: DialectForPath(path),
		Source:  content,
		tree:    tree,
	}

	root := tree.RootNode()
	if root.HasError() {
		loc := module.Location(firstErrorNode(root))
		module.Close()
		err := errors.Newf(errors.CodeParseError, "syntax error at %d:%d", loc.Line, loc.Column)
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return module, nil
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if found := firstErrorNode(child); found != nil {
			return found
		}
	}
	return node
}
