package cli

import (
	"context"
	"io"
	"log/slog"

	"graphqlpal/internal/core/config"
	"graphqlpal/internal/shared/observability"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	verbose    bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "graphqlpal",
		Short:         "GraphQL pal",
		Long:          "graphqlpal extracts GraphQL documents embedded in JavaScript and TypeScript sources and reports schema field usage.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return usagef("a command is required")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(cmd.ErrOrStderr(), opts.verbose)
			if cmd.Annotations[annotationSkipConfig] == "true" {
				return nil
			}
			cfg, err := config.LoadOrDefault(opts.configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "Path to config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newExtractCmd(opts))
	cmd.AddCommand(newStatsCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

const annotationSkipConfig = "skip-config"

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError{err: err}
		}
		return nil
	}
}

func configureLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}

// withObservability runs fn under the configured tracer and writes the
// metrics textfile afterwards, also when fn fails.
func withObservability(ctx context.Context, cfg *config.Config, metricsFile string, fn func(context.Context) error) error {
	shutdown, err := observability.SetupTracing(ctx, cfg.Observability.OTLPEndpoint)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		defer func() {
			if err := shutdown(context.WithoutCancel(ctx)); err != nil {
				slog.Warn("failed to flush traces", "error", err)
			}
		}()
	}

	runErr := fn(ctx)

	if metricsFile == "" {
		metricsFile = cfg.Observability.MetricsFile
	}
	if metricsFile != "" {
		if err := observability.WriteTextfile(metricsFile); err != nil {
			slog.Warn("failed to write metrics file", "path", metricsFile, "error", err)
		}
	}
	return runErr
}
