package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/samplegate/pkg/lint"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display samplegate version and build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "samplegate v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Static validation for code samples (%d rules, %s)\n", lint.Count(), runtime.Version())
		},
	}
}
