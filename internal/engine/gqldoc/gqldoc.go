// Package gqldoc parses GraphQL schema and executable documents.
package gqldoc

import (
	stderrors "errors"
	"fmt"

	"graphqlpal/internal/core/errors"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
)

// ParseSchema parses SDL text without validating it against the GraphQL
// type system rules.
func ParseSchema(name, text string) (*ast.SchemaDocument, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: name, Input: text})
	if err != nil {
		return nil, parseError("invalid schema", name, err)
	}
	return doc, nil
}

// ParseDocument parses operations and fragments.
func ParseDocument(name, text string) (*ast.QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: name, Input: text})
	if err != nil {
		return nil, parseError("invalid document", name, err)
	}
	return doc, nil
}

// Validate reports whether text is a syntactically valid, non-empty
// executable document.
func Validate(text string) error {
	doc, err := ParseDocument("", text)
	if err != nil {
		return err
	}
	if len(doc.Operations) == 0 && len(doc.Fragments) == 0 {
		return errors.New(errors.CodeParseError, "empty document")
	}
	return nil
}

func parseError(msg, name string, err error) error {
	de := errors.Wrap(unwrapGQL(err), errors.CodeParseError, msg)
	if name != "" {
		de = errors.AddContext(de, errors.CtxPath, name)
	}
	var gqlErr *gqlerror.Error
	if stderrors.As(err, &gqlErr) && len(gqlErr.Locations) > 0 {
		de = errors.AddContext(de, errors.CtxLine, gqlErr.Locations[0].Line)
	}
	return de
}

// unwrapGQL drops the source name gqlparser prefixes to its messages; the
// path is carried as context instead.
func unwrapGQL(err error) error {
	var gqlErr *gqlerror.Error
	if !stderrors.As(err, &gqlErr) {
		return err
	}
	if len(gqlErr.Locations) == 0 {
		return stderrors.New(gqlErr.Message)
	}
	loc := gqlErr.Locations[0]
	return fmt.Errorf("%s at %d:%d", gqlErr.Message, loc.Line, loc.Column)
}
