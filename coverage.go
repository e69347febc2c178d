package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/banshee-data/incident.report/internal/pipeline"
)

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Show the final-month coverage estimate without writing output",
	Long: `Run the pipeline's estimation stages and print the per-company
incident-coverage triples for the analysis window's final month.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fatal(err)
		}

		res, err := pipeline.New(cfg).Run(context.Background())
		if err != nil {
			fatal(err)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan("=== Final-Month Incident Coverage ==="))
		if len(res.Corrections) == 0 {
			fmt.Println("final month complete; all company-months at full coverage")
			return
		}
		for _, company := range sortedTripleKeys(res.Corrections) {
			printTriple(company, res.Corrections[company])
		}
	},
}

func init() {
	rootCmd.AddCommand(coverageCmd)
}
