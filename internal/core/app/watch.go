package app

import (
	"context"
	"log/slog"
	"path/filepath"

	"graphqlpal/internal/core/watcher"
)

// WatchAndExtract runs an extraction, writes output and repeats both whenever
// the watcher reports changed sources, until ctx is cancelled. onRun sees
// every run; a failed run is reported there and watching continues.
func (a *App) WatchAndExtract(ctx context.Context, root, output string, onRun func(*ExtractionRun, error)) error {
	extractAndWrite := func() {
		run, err := a.ExtractQueries(ctx, ExtractRequest{Root: root, Output: output})
		if err == nil {
			err = WriteQueries(output, run.Queries)
		}
		if ctx.Err() != nil {
			return
		}
		if onRun != nil {
			onRun(run, err)
		}
	}

	extractAndWrite()
	if err := ctx.Err(); err != nil {
		return nil
	}

	absOutput, _ := filepath.Abs(output)
	changes := make(chan struct{}, 1)
	w, err := watcher.NewWatcher(a.Config.Watch.Debounce, a.Config.Extract.Exclude, func(paths []string) {
		relevant := 0
		for _, p := range paths {
			if abs, err := filepath.Abs(p); err == nil && abs == absOutput {
				continue
			}
			relevant++
		}
		if relevant == 0 {
			return
		}
		slog.Info("detected changes", "count", relevant)
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()
	w.SetExtensions(a.Config.Extract.Extensions)

	watchRoot := root
	if !isDir(root) {
		watchRoot = filepath.Dir(root)
	}
	if err := w.Watch([]string{watchRoot}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			extractAndWrite()
		}
	}
}
