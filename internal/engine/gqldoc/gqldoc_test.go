package gqldoc

import (
	"strings"
	"testing"

	"graphqlpal/internal/core/errors"

	"github.com/vektah/gqlparser/v2/ast"
)

func TestParseSchema(t *testing.T) {
	doc, err := ParseSchema("schema.graphql", `
		scalar Date
		type Query { viewer: Viewer }
		interface Node { id: ID! }
		type Viewer implements Node { id: ID! friends: [Viewer!]! }
		extend type Viewer { born: Date }
	`)
	if err != nil {
		t.Fatalf("ParseSchema: %v", err)
	}

	kinds := map[string]ast.DefinitionKind{}
	for _, def := range doc.Definitions {
		kinds[def.Name] = def.Kind
	}
	if kinds["Query"] != ast.Object || kinds["Node"] != ast.Interface || kinds["Date"] != ast.Scalar {
		t.Errorf("unexpected kinds: %v", kinds)
	}
	if len(doc.Extensions) != 1 || doc.Extensions[0].Name != "Viewer" {
		t.Errorf("expected one Viewer extension, got %d", len(doc.Extensions))
	}
}

func TestParseSchema_Invalid(t *testing.T) {
	_, err := ParseSchema("schema.graphql", "type Query {")
	if !errors.IsCode(err, errors.CodeParseError) {
		t.Fatalf("expected PARSE_ERROR, got %v", err)
	}
	if !strings.HasPrefix(errors.Reason(err), "invalid schema: ") {
		t.Errorf("reason = %q", errors.Reason(err))
	}
}

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument("docs.graphql", `
		{ viewer { id } }
		mutation M { rename(name: "x") { id } }
		fragment F on Viewer { id }
	`)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(doc.Operations) != 2 {
		t.Fatalf("operations = %d, want 2", len(doc.Operations))
	}
	if doc.Operations[0].Operation != ast.Query {
		t.Errorf("bare selection set should be a query, got %q", doc.Operations[0].Operation)
	}
	if doc.Operations[1].Operation != ast.Mutation || doc.Operations[1].Name != "M" {
		t.Errorf("unexpected second operation %+v", doc.Operations[1])
	}
	if len(doc.Fragments) != 1 || doc.Fragments[0].TypeCondition != "Viewer" {
		t.Errorf("unexpected fragments")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		valid bool
	}{
		{"query", "{ viewer { id } }", true},
		{"fragment only", "fragment F_abc on User { id }", true},
		{"anonymous fragment", "fragment on User { id }", false},
		{"unbalanced", "query { viewer { id }", false},
		{"empty", "  ", false},
		{"substitution leftover", "query { ...${Frag} }", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.text)
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected an error")
			}
		})
	}
}
