package cli

import (
	"context"
	"io"

	"graphqlpal/internal/core/app"
	"graphqlpal/internal/core/config"
	"graphqlpal/internal/ui/report"

	"github.com/spf13/cobra"
)

type statsOptions struct {
	includeFragments bool
	json             bool
	history          string
	project          string
	metricsFile      string
}

func newStatsCmd(root *rootOptions) *cobra.Command {
	opts := &statsOptions{}
	cmd := &cobra.Command{
		Use:   "schema-stats <documents> <schema>",
		Short: "Count how often each schema field is selected by a documents file",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if cmd.Flags().Changed("include-fragments") {
				cfg.Stats.IncludeFragments = opts.includeFragments
			}
			if opts.history != "" {
				cfg.History.Path = opts.history
			}
			if opts.project != "" {
				cfg.History.Project = opts.project
			}
			req := app.StatsRequest{
				DocumentsPath:    args[0],
				SchemaPath:       args[1],
				IncludeFragments: cfg.Stats.IncludeFragments,
			}
			return withObservability(cmd.Context(), cfg, opts.metricsFile, func(ctx context.Context) error {
				return runStats(ctx, cfg, req, opts.json, cmd.OutOrStdout(), cmd.ErrOrStderr())
			})
		},
	}
	cmd.Flags().BoolVar(&opts.includeFragments, "include-fragments", false, "Include fields from fragments, even if they are not used")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output results as JSON")
	cmd.Flags().StringVar(&opts.history, "history", "", "Record the run in this usage history database")
	cmd.Flags().StringVar(&opts.project, "project", "", "Project key for the usage history")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	return cmd
}

func runStats(ctx context.Context, cfg *config.Config, req app.StatsRequest, asJSON bool, stdout, stderr io.Writer) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.SchemaStats(ctx, req)
	if err != nil {
		return err
	}
	report.WriteOperationErrors(stderr, res.Report.Errors)
	if asJSON {
		return report.WriteStatsJSON(stdout, res.Report.Usage)
	}
	report.WriteStatsText(stdout, res.Report.Usage)
	return nil
}
