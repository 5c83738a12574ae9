// Package usage counts how often each schema field is selected by a corpus
// of GraphQL operations and fragments.
package usage

import (
	"fmt"
	"log/slog"
	"strings"

	"graphqlpal/internal/core/errors"
	"graphqlpal/internal/engine/gqldoc"
	"graphqlpal/internal/shared/observability"

	"github.com/vektah/gqlparser/v2/ast"
)

const (
	KindQuery        = "query"
	KindMutation     = "mutation"
	KindSubscription = "subscription"
	KindFragment     = "fragment"
)

// OperationError is a failed walk of one operation or fragment. Counts
// applied before the failure are kept.
type OperationError struct {
	Kind  string
	Name  string
	Index int
	Err   error
}

func (e *OperationError) Error() string {
	name := e.Name
	if name == "" {
		name = fmt.Sprintf("#%d", e.Index+1)
	}
	return fmt.Sprintf("%s %s: %s", e.Kind, name, errors.Reason(e.Err))
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

type Report struct {
	Usage      UsageMap
	Errors     []*OperationError
	Operations int
	Fragments  int
}

// Analyze parses both documents and walks every operation, plus every
// fragment definition when includeFragments is set. Parse failures are
// fatal; walk failures are collected per operation.
func Analyze(schemaText, documentsText string, includeFragments bool) (*Report, error) {
	schema, err := gqldoc.ParseSchema("schema", schemaText)
	if err != nil {
		return nil, err
	}
	docs, err := gqldoc.ParseDocument("documents", documentsText)
	if err != nil {
		return nil, err
	}
	return AnalyzeDocuments(schema, docs, includeFragments), nil
}

func AnalyzeDocuments(schema *ast.SchemaDocument, docs *ast.QueryDocument, includeFragments bool) *Report {
	w := &walker{
		usage:     NewUsageMap(schema),
		fragments: indexFragments(docs.Fragments),
	}
	roots := rootTypes(schema)
	report := &Report{Usage: w.usage}

	for i, op := range docs.Operations {
		kind := operationKind(op.Operation)
		observability.OperationsAnalyzedTotal.WithLabelValues(kind).Inc()
		report.Operations++
		if err := w.walk(roots[op.Operation], op.SelectionSet); err != nil {
			report.fail(kind, op.Name, i, err)
		}
	}

	if includeFragments {
		for i, frag := range docs.Fragments {
			observability.OperationsAnalyzedTotal.WithLabelValues(KindFragment).Inc()
			report.Fragments++
			w.path = append(w.path[:0], frag.Name)
			if err := w.walk(frag.TypeCondition, frag.SelectionSet); err != nil {
				report.fail(KindFragment, frag.Name, i, err)
			}
		}
	}
	return report
}

func (r *Report) fail(kind, name string, index int, err error) {
	observability.OperationErrorsTotal.Inc()
	if name != "" {
		err = errors.AddContext(err, errors.CtxOperation, name)
	}
	r.Errors = append(r.Errors, &OperationError{Kind: kind, Name: name, Index: index, Err: err})
}

// NewUsageMap collects object and interface types, merging the fields of
// type extensions into their base entry. Every count starts at zero.
func NewUsageMap(schema *ast.SchemaDocument) UsageMap {
	usage := make(UsageMap)
	add := func(defs ast.DefinitionList) {
		for _, def := range defs {
			if def.Kind != ast.Object && def.Kind != ast.Interface {
				continue
			}
			t, ok := usage[def.Name]
			if !ok {
				t = &GraphQLType{Name: def.Name, Fields: make(map[string]*FieldStats)}
				usage[def.Name] = t
			}
			for _, f := range def.Fields {
				if _, exists := t.Fields[f.Name]; exists {
					continue
				}
				t.Fields[f.Name] = &FieldStats{Name: f.Name, Type: f.Type.String()}
			}
		}
	}
	add(schema.Definitions)
	add(schema.Extensions)
	return usage
}

// rootTypes defaults to Query, Mutation and Subscription, overridden by an
// explicit schema definition.
func rootTypes(schema *ast.SchemaDocument) map[ast.Operation]string {
	roots := map[ast.Operation]string{
		ast.Query:        "Query",
		ast.Mutation:     "Mutation",
		ast.Subscription: "Subscription",
	}
	for _, defs := range []ast.SchemaDefinitionList{schema.Schema, schema.SchemaExtension} {
		for _, def := range defs {
			for _, op := range def.OperationTypes {
				roots[op.Operation] = op.Type
			}
		}
	}
	return roots
}

func operationKind(op ast.Operation) string {
	switch op {
	case ast.Mutation:
		return KindMutation
	case ast.Subscription:
		return KindSubscription
	}
	return KindQuery
}

// indexFragments keys fragments by name; a later definition replaces an
// earlier one.
func indexFragments(defs ast.FragmentDefinitionList) map[string]*ast.FragmentDefinition {
	out := make(map[string]*ast.FragmentDefinition, len(defs))
	for _, def := range defs {
		if _, dup := out[def.Name]; dup {
			slog.Warn("duplicate fragment definition, keeping the last one", "fragment", def.Name)
		}
		out[def.Name] = def
	}
	return out
}

type walker struct {
	usage     UsageMap
	fragments map[string]*ast.FragmentDefinition
	// fragment names on the current recursion path
	path []string
}

func (w *walker) walk(typeName string, set ast.SelectionSet) error {
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			if s.Name == "__typename" {
				continue
			}
			t, ok := w.usage[typeName]
			if !ok {
				return errors.Newf(errors.CodeNotFound, "type not found: %s", typeName)
			}
			f, ok := t.Fields[s.Name]
			if !ok {
				return errors.Newf(errors.CodeNotFound, "field not found: %s.%s", typeName, s.Name)
			}
			f.Count++
			if len(s.SelectionSet) == 0 {
				continue
			}
			if err := w.walk(NamedType(f.Type), s.SelectionSet); err != nil {
				return err
			}

		case *ast.InlineFragment:
			next := s.TypeCondition
			if next == "" {
				next = typeName
			}
			if err := w.walk(next, s.SelectionSet); err != nil {
				return err
			}

		case *ast.FragmentSpread:
			frag, ok := w.fragments[s.Name]
			if !ok {
				continue
			}
			if err := w.enter(s.Name); err != nil {
				return err
			}
			err := w.walk(frag.TypeCondition, frag.SelectionSet)
			w.path = w.path[:len(w.path)-1]
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *walker) enter(name string) error {
	for i, seen := range w.path {
		if seen == name {
			cycle := append(append([]string{}, w.path[i:]...), name)
			return errors.Newf(errors.CodeValidationError, "fragment cycle detected: %s", strings.Join(cycle, " -> "))
		}
	}
	w.path = append(w.path, name)
	return nil
}
