package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"graphqlpal/internal/core/errors"
	"graphqlpal/internal/data/history"
	"graphqlpal/internal/engine/gqldoc"
	"graphqlpal/internal/engine/usage"
	"graphqlpal/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type StatsRequest struct {
	DocumentsPath    string
	SchemaPath       string
	IncludeFragments bool
	// Project keys the history run; empty uses the configured project.
	Project string
}

type StatsResult struct {
	Report *usage.Report
	// RunID is set when the run was stored in the usage history.
	RunID string
}

// SchemaStats counts field selections of the documents file against the
// schema file. Unreadable or unparseable inputs are fatal; failed operation
// walks are reported in the result.
func (a *App) SchemaStats(ctx context.Context, req StatsRequest) (*StatsResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.SchemaStats", trace.WithAttributes(
		attribute.String("schema", req.SchemaPath),
		attribute.String("documents", req.DocumentsPath),
	))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	documentsText, err := readInput(req.DocumentsPath, "unable to read documents")
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	schemaText, err := readInput(req.SchemaPath, "unable to read schema")
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	schema, err := gqldoc.ParseSchema(req.SchemaPath, schemaText)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	docs, err := gqldoc.ParseDocument(req.DocumentsPath, documentsText)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	report := usage.AnalyzeDocuments(schema, docs, req.IncludeFragments)
	for _, opErr := range report.Errors {
		slog.Debug("operation walk failed", "kind", opErr.Kind, "name", opErr.Name, "error", opErr.Err)
	}
	result := &StatsResult{Report: report}

	if a.history != nil {
		id, err := a.history.SaveRun(buildRun(req, a.project(req.Project), report))
		if err != nil {
			slog.Warn("failed to save usage history", "error", err)
		} else {
			result.RunID = id
		}
	}

	observability.RunDuration.WithLabelValues("stats").Observe(time.Since(start).Seconds())
	span.SetAttributes(
		attribute.Int("operations", report.Operations),
		attribute.Int("operation_errors", len(report.Errors)),
	)
	return result, nil
}

func readInput(path, msg string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.AddContext(errors.Wrap(err, errors.CodeIOError, msg), errors.CtxPath, path)
	}
	return string(data), nil
}

func (a *App) project(override string) string {
	if override != "" {
		return override
	}
	return a.Config.History.Project
}

func buildRun(req StatsRequest, project string, report *usage.Report) history.Run {
	run := history.Run{
		Project:         project,
		SchemaPath:      req.SchemaPath,
		DocumentsPath:   req.DocumentsPath,
		TypeCount:       len(report.Usage),
		OperationCount:  report.Operations,
		OperationErrors: len(report.Errors),
	}
	for _, typeName := range report.Usage.SortedTypeNames() {
		t := report.Usage[typeName]
		for _, fieldName := range report.Usage.SortedFieldNames(typeName) {
			f := t.Fields[fieldName]
			run.Counts = append(run.Counts, history.FieldCount{
				Type:      typeName,
				Field:     fieldName,
				Signature: f.Type,
				Count:     f.Count,
			})
		}
	}
	return run
}

// UsageTrend loads the newest limit runs of project oldest first, with
// deltas against the preceding run.
func (a *App) UsageTrend(project string, limit int) ([]history.TrendPoint, error) {
	if a.history == nil {
		return nil, fmt.Errorf("usage history is not configured")
	}
	runs, err := a.history.LoadRuns(a.project(project), limit)
	if err != nil {
		return nil, err
	}
	return history.BuildTrend(runs), nil
}

// RunCounts returns the stored field counts of one history run.
func (a *App) RunCounts(runID string) ([]history.FieldCount, error) {
	if a.history == nil {
		return nil, fmt.Errorf("usage history is not configured")
	}
	return a.history.LoadCounts(runID)
}
