package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/incident.report/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("incident-report %s (%s, built %s)\n",
			version.Version, version.GitSHA, version.BuildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
