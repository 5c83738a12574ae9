package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"graphqlpal/internal/core/app"
	"graphqlpal/internal/core/config"
	"graphqlpal/internal/ui/report"

	"github.com/spf13/cobra"
)

type extractOptions struct {
	exclude     []string
	jobs        int
	watch       bool
	metricsFile string
}

func newExtractCmd(root *rootOptions) *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract-queries <path> [output]",
		Short: "Extract GraphQL documents from JS/TS sources into one file",
		Args:  usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if len(args) == 2 {
				cfg.Extract.Output = args[1]
			}
			cfg.Extract.Exclude = config.MergeExcludes(cfg.Extract.Exclude, opts.exclude)
			if cmd.Flags().Changed("jobs") {
				if opts.jobs < 1 || opts.jobs > config.MaxJobs {
					return usagef("--jobs must be between 1 and %d", config.MaxJobs)
				}
				cfg.Extract.Jobs = opts.jobs
			}
			if errs := config.Validate(cfg); len(errs) > 0 {
				return usageError{err: errs[0]}
			}
			return withObservability(cmd.Context(), cfg, opts.metricsFile, func(ctx context.Context) error {
				return runExtract(ctx, cfg, args[0], opts.watch, cmd.OutOrStdout(), cmd.ErrOrStderr())
			})
		},
	}
	cmd.Flags().StringArrayVarP(&opts.exclude, "exclude", "e", nil, "Path(s) to exclude (glob on base names, repeatable)")
	cmd.Flags().IntVar(&opts.jobs, "jobs", 1, "Number of files processed in parallel")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Re-extract whenever sources change")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	return cmd
}

func runExtract(ctx context.Context, cfg *config.Config, root string, watch bool, stdout, stderr io.Writer) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	output := cfg.Extract.Output
	report.WriteExtractionHeader(stdout, root)

	if watch {
		return a.WatchAndExtract(ctx, root, output, func(run *app.ExtractionRun, err error) {
			if err != nil {
				slog.Error("extraction failed", "error", err)
				return
			}
			report.WriteExtractionSummary(stdout, run, output)
		})
	}

	progress := newProgress(stderr)
	run, err := a.ExtractQueries(ctx, app.ExtractRequest{
		Root:     root,
		Output:   output,
		Progress: progress.Update,
	})
	progress.Finish()
	if err != nil {
		return err
	}
	if err := app.WriteQueries(output, run.Queries); err != nil {
		return err
	}
	report.WriteExtractionSummary(stdout, run, output)
	return nil
}

// newProgress draws only when stderr is a real terminal.
func newProgress(stderr io.Writer) *report.Progress {
	f, ok := stderr.(*os.File)
	if !ok {
		return nil
	}
	return report.NewProgress(f)
}
