package cli

import (
	"graphqlpal/internal/core/app"
	"graphqlpal/internal/ui/report"

	"github.com/spf13/cobra"
)

type historyOptions struct {
	path    string
	project string
	limit   int
	json    bool
}

func newHistoryCmd(root *rootOptions) *cobra.Command {
	opts := &historyOptions{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored schema usage runs",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if opts.path != "" {
				cfg.History.Path = opts.path
			}
			if cfg.History.Path == "" {
				return usagef("a history database is required (--history or [history].path)")
			}
			if opts.limit < 0 {
				return usagef("--limit must not be negative")
			}

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			points, err := a.UsageTrend(opts.project, opts.limit)
			if err != nil {
				return err
			}
			if opts.json {
				return report.WriteHistoryJSON(cmd.OutOrStdout(), points)
			}
			report.WriteHistoryTable(cmd.OutOrStdout(), points)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.path, "history", "", "Usage history database")
	cmd.Flags().StringVar(&opts.project, "project", "", "Project key (default from config)")
	cmd.Flags().IntVar(&opts.limit, "limit", 20, "Number of most recent runs to show (0 for all)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output runs as JSON")
	return cmd
}
