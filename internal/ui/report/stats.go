package report

import (
	"encoding/json"
	"fmt"
	"io"

	"graphqlpal/internal/engine/usage"
)

// WriteStatsText lists every type and field in name order. Unused fields are
// red, selected ones green.
func WriteStatsText(w io.Writer, u usage.UsageMap) {
	s := newStyles(w)
	for _, typeName := range u.SortedTypeNames() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, indent+s.typeTag.Render(s.italic.Render("type")+" "+typeName))
		t := u[typeName]
		for _, fieldName := range u.SortedFieldNames(typeName) {
			stats := t.Fields[fieldName]
			name := s.used.Render(fieldName)
			if stats.Count == 0 {
				name = s.unused.Render(fieldName)
			}
			fmt.Fprintf(w, "%s%s%s x %d\n", indent, indent, name, stats.Count)
		}
	}
}

func WriteStatsJSON(w io.Writer, u usage.UsageMap) error {
	data, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// WriteOperationErrors prints one line per failed operation walk.
func WriteOperationErrors(w io.Writer, errs []*usage.OperationError) {
	if len(errs) == 0 {
		return
	}
	s := newStyles(w)
	for _, err := range errs {
		fmt.Fprintln(w, s.warning.Render("warning: ")+err.Error())
	}
}
