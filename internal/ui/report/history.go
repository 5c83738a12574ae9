package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"graphqlpal/internal/data/history"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const historyTimeLayout = "2006-01-02 15:04:05"

// WriteHistoryTable renders trend points oldest first.
func WriteHistoryTable(w io.Writer, points []history.TrendPoint) {
	s := newStyles(w)
	if len(points) == 0 {
		fmt.Fprintln(w, indent+s.muted.Render("No usage runs recorded."))
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.muted).
		Headers("Run", "Timestamp", "Types", "Fields", "Unused", "Selections", "Ops", "Errors", "ΔUnused", "ΔSelections")
	for _, p := range points {
		t.Row(
			shortID(p.ID),
			p.Timestamp.Local().Format(historyTimeLayout),
			strconv.Itoa(p.Types),
			strconv.Itoa(p.Fields),
			strconv.Itoa(p.Unused),
			strconv.Itoa(p.Selections),
			strconv.Itoa(p.Operations),
			strconv.Itoa(p.OperationErrors),
			signed(p.DeltaUnused),
			signed(p.DeltaSelections),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func WriteHistoryJSON(w io.Writer, points []history.TrendPoint) error {
	data, err := json.MarshalIndent(points, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
