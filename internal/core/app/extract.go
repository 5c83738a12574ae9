package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"graphqlpal/internal/core/errors"
	"graphqlpal/internal/core/ports"
	"graphqlpal/internal/engine/extractor"
	"graphqlpal/internal/engine/gqldoc"
	"graphqlpal/internal/shared/observability"
	"graphqlpal/internal/shared/util"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const graphqlExtension = ".graphql"

// ExtractionRun is the merged outcome of one extraction over a tree. Queries
// and Skipped follow the sorted scan order regardless of parallelism.
type ExtractionRun struct {
	Root     string
	Files    []string
	Queries  []string
	Skipped  []extractor.SkippedResult
	Duration time.Duration
}

type ExtractRequest struct {
	// Root is a directory to scan or a single file.
	Root string
	// Output is left out of the scan so a previous run's file is not read back.
	Output   string
	Progress ports.ProgressFunc
}

// ExtractQueries collects every GraphQL document below req.Root. Per-file and
// per-template failures become skip records; only an unreadable root or
// cancellation fails the run.
func (a *App) ExtractQueries(ctx context.Context, req ExtractRequest) (*ExtractionRun, error) {
	root, progress := req.Root, req.Progress
	ctx, span := observability.Tracer.Start(ctx, "app.ExtractQueries", trace.WithAttributes(
		attribute.String("root", root),
		attribute.Int("jobs", a.Config.Extract.Jobs),
	))
	defer span.End()

	start := time.Now()
	files, err := a.sourceFiles(root, req.Output)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	results := make([]extractor.Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.Config.Extract.Jobs, 1))

	var (
		progressMu sync.Mutex
		done       int
	)
	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.extractPath(path)
			if progress != nil {
				progressMu.Lock()
				done++
				progress(done, len(files))
				progressMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	run := &ExtractionRun{Root: root, Files: files}
	for _, res := range results {
		run.Queries = append(run.Queries, res.Queries...)
		run.Skipped = append(run.Skipped, res.Skipped...)
	}
	run.Duration = time.Since(start)
	observability.RunDuration.WithLabelValues("extract").Observe(run.Duration.Seconds())
	span.SetAttributes(
		attribute.Int("files", len(files)),
		attribute.Int("queries", len(run.Queries)),
		attribute.Int("skipped", len(run.Skipped)),
	)
	return run, nil
}

func (a *App) sourceFiles(root, output string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		err = errors.Wrap(err, errors.CodeIOError, "unable to read extraction root")
		return nil, errors.AddContext(err, errors.CtxPath, root)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	files, err := ScanSources(root, a.Config.Extract.Exclude, a.Config.Extract.Extensions)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeIOError, "scan failed"), errors.CtxPath, root)
	}
	if output == "" {
		return files, nil
	}
	return withoutPath(files, output), nil
}

func withoutPath(files []string, target string) []string {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return files
	}
	out := files[:0]
	for _, f := range files {
		if abs, err := filepath.Abs(f); err == nil && abs == absTarget {
			continue
		}
		out = append(out, f)
	}
	return out
}

// extractPath never fails: every problem is reported as a skip record.
func (a *App) extractPath(path string) extractor.Result {
	observability.FilesScannedTotal.Inc()

	var res extractor.Result
	if strings.EqualFold(filepath.Ext(path), graphqlExtension) {
		content, err := os.ReadFile(path)
		if err != nil {
			err = errors.Wrap(err, errors.CodeIOError, "unable to read document")
			return skipFile(path, err)
		}
		res.Queries = []string{string(content)}
	} else {
		m, err := a.Parser.ParseFile(path)
		if err != nil {
			return skipFile(path, err)
		}
		res = a.extractor.Extract(m)
		m.Close()
	}

	valid := res.Queries[:0]
	for _, query := range res.Queries {
		if err := gqldoc.Validate(query); err != nil {
			res.Skipped = append(res.Skipped, extractor.SkippedResult{
				Path:   path,
				Reason: "invalid GraphQL: " + errors.Reason(err),
				Code:   errors.CodeValidationError,
			})
			continue
		}
		valid = append(valid, query)
	}
	res.Queries = valid

	observability.TemplatesExtractedTotal.Add(float64(len(res.Queries)))
	for _, s := range res.Skipped {
		observability.TemplatesSkippedTotal.WithLabelValues(strings.ToLower(string(s.Code))).Inc()
		logSkip(s)
	}
	return res
}

func skipFile(path string, err error) extractor.Result {
	observability.FilesSkippedTotal.Inc()
	s := extractor.SkippedResult{Path: path, Reason: errors.Reason(err), Code: errors.CodeOf(err)}
	logSkip(s)
	return extractor.Result{Skipped: []extractor.SkippedResult{s}}
}

func logSkip(s extractor.SkippedResult) {
	slog.Warn("skipped graphql template", "path", s.Path, "code", s.Code, "reason", s.Reason)
}

// WriteQueries writes each query followed by a newline. Parent directories
// are created as needed.
func WriteQueries(path string, queries []string) error {
	var b strings.Builder
	for _, q := range queries {
		b.WriteString(q)
		b.WriteByte('\n')
	}
	if err := util.WriteFileWithDirs(path, []byte(b.String()), 0o644); err != nil {
		err = errors.Wrap(err, errors.CodeIOError, "unable to write queries")
		return errors.AddContext(err, errors.CtxPath, path)
	}
	observability.QueriesWrittenTotal.Add(float64(len(queries)))
	return nil
}

// RelativeSkips returns skip paths with the extraction root stripped.
func (r *ExtractionRun) RelativeSkips() []extractor.SkippedResult {
	out := make([]extractor.SkippedResult, len(r.Skipped))
	for i, s := range r.Skipped {
		s.Path = util.StripRoot(r.Root, s.Path)
		out[i] = s
	}
	return out
}
