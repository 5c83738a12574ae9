package ports

import (
	"graphqlpal/internal/data/history"
	"graphqlpal/internal/engine/extractor"
	"graphqlpal/internal/engine/parser"
)

// TemplateExtractor turns one parsed source module into GraphQL texts.
type TemplateExtractor interface {
	Extract(m *parser.Module) extractor.Result
}

// HistoryStore abstracts usage-run persistence for stats and history workflows.
type HistoryStore interface {
	SaveRun(run history.Run) (string, error)
	LoadRuns(project string, limit int) ([]history.RunSummary, error)
	LoadCounts(runID string) ([]history.FieldCount, error)
}

// ProgressFunc receives the number of processed files out of total.
type ProgressFunc func(done, total int)
