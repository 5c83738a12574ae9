package usage

import (
	"strings"

	"graphqlpal/internal/shared/util"
)

// FieldStats counts selections of one declared field. Type keeps the
// declared signature, list and non-null markers included.
type FieldStats struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type GraphQLType struct {
	Name   string                 `json:"name"`
	Fields map[string]*FieldStats `json:"fields"`
}

// UsageMap holds every object and interface type of a schema, keyed by name.
type UsageMap map[string]*GraphQLType

type Totals struct {
	Types      int `json:"types"`
	Fields     int `json:"fields"`
	Unused     int `json:"unused"`
	Selections int `json:"selections"`
}

// NamedType strips list and non-null decoration: "[Foo!]!" becomes "Foo".
func NamedType(signature string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '!':
			return -1
		}
		return r
	}, signature)
}

func (u UsageMap) SortedTypeNames() []string {
	return util.SortedStringKeys(u)
}

func (u UsageMap) SortedFieldNames(typeName string) []string {
	t, ok := u[typeName]
	if !ok {
		return nil
	}
	return util.SortedStringKeys(t.Fields)
}

// Count returns the selection count of typeName.field and whether the
// field exists.
func (u UsageMap) Count(typeName, field string) (int, bool) {
	t, ok := u[typeName]
	if !ok {
		return 0, false
	}
	f, ok := t.Fields[field]
	if !ok {
		return 0, false
	}
	return f.Count, true
}

// Unused lists "Type.field" for every field never selected, sorted.
func (u UsageMap) Unused() []string {
	var out []string
	for _, typeName := range u.SortedTypeNames() {
		for _, field := range u.SortedFieldNames(typeName) {
			if u[typeName].Fields[field].Count == 0 {
				out = append(out, typeName+"."+field)
			}
		}
	}
	return out
}

func (u UsageMap) Totals() Totals {
	var t Totals
	t.Types = len(u)
	for _, typ := range u {
		for _, f := range typ.Fields {
			t.Fields++
			t.Selections += f.Count
			if f.Count == 0 {
				t.Unused++
			}
		}
	}
	return t
}
