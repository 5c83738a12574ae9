package report

import (
	"fmt"
	"io"

	"graphqlpal/internal/core/app"
)

func WriteExtractionHeader(w io.Writer, root string) {
	s := newStyles(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, indent+s.title.Render("## Extracting documents"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%sExtracting documents from %s\n\n", indent, root)
}

// WriteExtractionSummary prints the saved count and every skip with the
// scan root stripped from its path.
func WriteExtractionSummary(w io.Writer, run *app.ExtractionRun, output string) {
	s := newStyles(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, indent+s.success.Render(fmt.Sprintf("Successfully saved %d queries to %s", len(run.Queries), output)))

	skipped := run.RelativeSkips()
	if len(skipped) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, indent+s.warning.Render(fmt.Sprintf("Skipped %d files:", len(skipped))))
	for _, skip := range skipped {
		fmt.Fprintf(w, "%s%s: %s\n", indent, skip.Path, s.bold.Render(skip.Reason))
	}
}
