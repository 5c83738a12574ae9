package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// TaggedTemplate is a template literal applied to a tag, e.g. gql`...`.
// Quasis hold the raw literal segments; len(Quasis) == len(Expressions)+1.
type TaggedTemplate struct {
	Node        *sitter.Node
	Tag         *sitter.Node
	Quasis      []string
	Expressions []*sitter.Node
}

// AsTaggedTemplate decomposes a call_expression whose argument is a
// template_string. Any other node yields false.
func AsTaggedTemplate(m *Module, node *sitter.Node) (TaggedTemplate, bool) {
	if node == nil || node.Kind() != "call_expression" {
		return TaggedTemplate{}, false
	}
	tag := node.ChildByFieldName("function")
	tpl := node.ChildByFieldName("arguments")
	if tag == nil || tpl == nil || tpl.Kind() != "template_string" {
		return TaggedTemplate{}, false
	}

	out := TaggedTemplate{Node: node, Tag: tag}
	// Segments are sliced from the source between the backticks and the
	// ${...} substitutions so escapes stay raw.
	cursor := tpl.StartByte() + 1
	for i := uint(0); i < tpl.ChildCount(); i++ {
		child := tpl.Child(i)
		if child == nil || child.Kind() != "template_substitution" {
			continue
		}
		out.Quasis = append(out.Quasis, string(m.Source[cursor:child.StartByte()]))
		out.Expressions = append(out.Expressions, child.NamedChild(0))
		cursor = child.EndByte()
	}
	end := tpl.EndByte() - 1
	if end < cursor {
		end = cursor
	}
	out.Quasis = append(out.Quasis, string(m.Source[cursor:end]))
	return out, true
}
