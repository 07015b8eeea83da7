package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/agentcrate/agentcrate/pkg/logger"
)

// RootCmd builds the agentcrate command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "agentcrate",
		Short: "Container entrypoint tooling for the packaged agent",
		Long: `agentcrate synthesizes the packaged agent's runtime configuration from
its three sources (custom document, persisted document, environment) and
derives the reverse proxy's routing rules. It runs once per container start,
before the process manager launches the agent and the proxy.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			envFile, err := cmd.Flags().GetString("env-file")
			if err != nil {
				return err
			}
			if envFile != "" {
				if _, statErr := os.Stat(envFile); statErr == nil {
					if err := godotenv.Load(envFile); err != nil {
						return err
					}
				}
			}
			logLevel, err := cmd.Flags().GetString("log-level")
			if err != nil {
				return err
			}
			logJSON, err := cmd.Flags().GetBool("log-json")
			if err != nil {
				return err
			}
			logger.SetupLogger(logLevel, logJSON)
			return nil
		},
	}

	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "Log in JSON format")
	// The dotenv file must be resolved before settings load, so its env var
	// is read directly as the flag default rather than through Settings.
	root.PersistentFlags().String("env-file", os.Getenv("AGENTCRATE_ENV_FILE"),
		"Optional dotenv file loaded before env scanning")

	root.AddCommand(
		UpCmd(),
		ConfigCmd(),
		RoutesCmd(),
		VersionCmd(),
	)
	return root
}
