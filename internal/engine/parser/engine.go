package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// NodeHandler processes a node of a registered kind.
// Returns true if the walker must not descend into the node's children.
type NodeHandler func(m *Module, node *sitter.Node) bool

// Walker visits a module depth-first in document order and dispatches
// handlers by node kind.
type Walker struct {
	handlers map[string]NodeHandler
}

func NewWalker(handlers map[string]NodeHandler) *Walker {
	return &Walker{handlers: handlers}
}

func (w *Walker) Walk(m *Module) {
	w.walk(m, m.Root())
}

func (w *Walker) walk(m *Module, node *sitter.Node) {
	if node == nil {
		return
	}

	if handler, ok := w.handlers[node.Kind()]; ok {
		if handler(m, node) {
			return
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		w.walk(m, node.Child(i))
	}
}

// TopLevel returns the root's direct children of the given kind, in order.
func TopLevel(m *Module, kind string) []*sitter.Node {
	root := m.Root()
	if root == nil {
		return nil
	}
	var out []*sitter.Node
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child != nil && child.Kind() == kind {
			out = append(out, child)
		}
	}
	return out
}
