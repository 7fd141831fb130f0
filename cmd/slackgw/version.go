package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonny/slackgw/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", version.Name, version.String())
	},
}
