package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// GrammarLoader owns the compiled-in grammars, one per grammar id.
type GrammarLoader struct {
	languages map[string]*sitter.Language
}

func NewGrammarLoader() *GrammarLoader {
	return &GrammarLoader{
		languages: map[string]*sitter.Language{
			grammarJavaScript: sitter.NewLanguage(tree_sitter_javascript.Language()),
			grammarTypeScript: sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
			grammarTSX:        sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
		},
	}
}

func (gl *GrammarLoader) Language(id string) (*sitter.Language, error) {
	lang, ok := gl.languages[id]
	if !ok {
		return nil, fmt.Errorf("grammar %q is not loaded", id)
	}
	return lang, nil
}

func (gl *GrammarLoader) GrammarIDs() []string {
	ids := make([]string, 0, len(gl.languages))
	for id := range gl.languages {
		ids = append(ids, id)
	}
	return sortStrings(ids)
}
