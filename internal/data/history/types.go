package history

import "time"

const SchemaVersion = 2

// Run is one schema-stats invocation with its per-field counts.
type Run struct {
	ID              string
	Project         string
	Timestamp       time.Time
	SchemaPath      string
	DocumentsPath   string
	TypeCount       int
	OperationCount  int
	OperationErrors int
	Counts          []FieldCount
}

type FieldCount struct {
	Type      string `json:"type"`
	Field     string `json:"field"`
	Signature string `json:"signature"`
	Count     int    `json:"count"`
}

// RunSummary is a stored run with totals computed from its field counts.
type RunSummary struct {
	ID              string    `json:"id"`
	Project         string    `json:"project"`
	Timestamp       time.Time `json:"timestamp"`
	SchemaPath      string    `json:"schema_path"`
	DocumentsPath   string    `json:"documents_path"`
	Types           int       `json:"types"`
	Fields          int       `json:"fields"`
	Unused          int       `json:"unused"`
	Selections      int       `json:"selections"`
	Operations      int       `json:"operations"`
	OperationErrors int       `json:"operation_errors"`
}

type TrendPoint struct {
	RunSummary
	DeltaFields     int `json:"delta_fields"`
	DeltaUnused     int `json:"delta_unused"`
	DeltaSelections int `json:"delta_selections"`
}
