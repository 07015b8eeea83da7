package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentcrate/agentcrate/pkg/version"
)

// VersionCmd prints build information.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			info := version.Get()
			fmt.Fprintf(cmd.OutOrStdout(), "agentcrate %s (commit %s, built %s)\n",
				info.Version, info.CommitHash, info.BuildDate)
		},
	}
}
