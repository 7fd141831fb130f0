// slackgw receives Slack slash commands and events and talks back to the
// Slack Web API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonny/slackgw/internal/config"
)

var (
	configPath string
	envFiles   []string
)

var rootCmd = &cobra.Command{
	Use:   "slackgw",
	Short: "Slack webhook gateway",
	Long: `slackgw serves the Slack-facing webhook endpoints (slash commands,
interactions and Events API deliveries) and exposes the outbound chat calls
it uses as CLI commands.

Without a subcommand it runs the server.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return config.LoadEnvFiles(envFiles...)
	},
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to config file")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "env files to load before reading config")
	rootCmd.AddCommand(serveCmd, postCmd, updateCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
