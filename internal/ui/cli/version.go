package cli

import (
	"fmt"

	"graphqlpal/internal/shared/version"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version and exit",
		Args:        usageArgs(cobra.NoArgs),
		Annotations: map[string]string{annotationSkipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "graphqlpal v%s\n", version.Version)
			return nil
		},
	}
}
