// Package extractor reconstructs GraphQL documents embedded in gql and
// Relay.QL tagged templates.
package extractor

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"graphqlpal/internal/core/errors"
	"graphqlpal/internal/engine/parser"
	"graphqlpal/internal/engine/resolver"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

const (
	gqlTag         = "gql"
	relayNamespace = "Relay"
	relayMember    = "QL"

	anonymousFragmentPrefix = "fragment on "
)

// SkippedResult records a template or file that produced no document.
type SkippedResult struct {
	Path   string
	Reason string
	Code   errors.ErrorCode
}

type Result struct {
	Queries []string
	Skipped []SkippedResult
}

// Extractor walks modules for GraphQL templates. Root files are parsed
// directly; imported modules go through the resolver's loader.
type Extractor struct {
	parser   *parser.Parser
	resolver *resolver.Resolver
}

func NewExtractor(p *parser.Parser, r *resolver.Resolver) *Extractor {
	return &Extractor{parser: p, resolver: r}
}

// ExtractFile parses path and extracts its templates. A file that cannot be
// read or parsed is returned as an error for the caller to record.
func (e *Extractor) ExtractFile(path string) (Result, error) {
	m, err := e.parser.ParseFile(path)
	if err != nil {
		return Result{}, err
	}
	defer m.Close()
	return e.Extract(m), nil
}

// Extract visits m depth-first in document order. Descent stops below a
// recognized template.
func (e *Extractor) Extract(m *parser.Module) Result {
	var res Result
	walker := parser.NewWalker(map[string]parser.NodeHandler{
		"call_expression": func(m *parser.Module, node *sitter.Node) bool {
			tpl, ok := parser.AsTaggedTemplate(m, node)
			if !ok || !isGraphQLTag(m, tpl.Tag) {
				return false
			}
			query, err := e.reconstruct(m, tpl)
			if err != nil {
				res.Skipped = append(res.Skipped, SkippedResult{
					Path:   m.Path,
					Reason: errors.Reason(err),
					Code:   errors.CodeOf(err),
				})
				return true
			}
			res.Queries = append(res.Queries, query)
			return true
		},
	})
	walker.Walk(m)
	return res
}

func isGraphQLTag(m *parser.Module, tag *sitter.Node) bool {
	switch tag.Kind() {
	case "identifier":
		return m.Text(tag) == gqlTag
	case "member_expression":
		object := tag.ChildByFieldName("object")
		property := tag.ChildByFieldName("property")
		return object != nil && property != nil &&
			object.Kind() == "identifier" && m.Text(object) == relayNamespace &&
			m.Text(property) == relayMember
	}
	return false
}

func (e *Extractor) reconstruct(m *parser.Module, tpl parser.TaggedTemplate) (string, error) {
	var sb strings.Builder
	for i, quasi := range tpl.Quasis {
		sb.WriteString(quasi)
		if i >= len(tpl.Expressions) {
			continue
		}
		value, err := e.substitute(m, tpl.Expressions[i])
		if err != nil {
			return "", err
		}
		sb.WriteString(value)
	}
	return NameAnonymousFragment(strings.TrimSpace(sb.String())), nil
}

func (e *Extractor) substitute(m *parser.Module, expr *sitter.Node) (string, error) {
	if expr == nil {
		return "", errors.New(errors.CodeNotSupported, "unsupported expression <empty>")
	}
	switch expr.Kind() {
	case "identifier":
		return e.resolver.Resolve(m.Text(expr), m)
	case "member_expression":
		return e.resolver.ResolveMember(m, expr)
	}
	loc := m.Location(expr)
	err := errors.Newf(errors.CodeNotSupported, "unsupported expression %s", expr.Kind())
	return "", errors.AddContext(err, errors.CtxLine, loc.Line)
}

// NameAnonymousFragment gives `fragment on T {...}` a name derived from the
// MD5 digest of the whole text. Other documents are returned unchanged.
func NameAnonymousFragment(query string) string {
	if !strings.HasPrefix(query, anonymousFragmentPrefix) {
		return query
	}
	sum := md5.Sum([]byte(query))
	return "fragment F_" + hex.EncodeToString(sum[:]) + " on " + query[len(anonymousFragmentPrefix):]
}
