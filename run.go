package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/banshee-data/incident.report/internal/coverage"
	"github.com/banshee-data/incident.report/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline and write the output datasets",
	Long: `Fetch the report feeds, fault tables, and exposure sheet, run every
reconciliation stage, and write the incident JSON and exposure CSV named in
the configuration. Any fatal condition aborts with no partial output.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fatal(err)
		}

		res, err := pipeline.New(cfg).Run(context.Background())
		if err != nil {
			fatal(err)
		}

		outputs := cfg.GetOutputs()
		if err := pipeline.WriteIncidents(outputs.Incidents, res.Incidents); err != nil {
			fatal(err)
		}
		if err := pipeline.WriteExposure(outputs.Exposure, res.Exposure); err != nil {
			fatal(err)
		}

		printSummary(res, outputs.Incidents, outputs.Exposure)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func printSummary(res *pipeline.Result, incidentsPath, exposurePath string) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan("=== Pipeline Run "+res.RunID+" ==="))

	fmt.Printf("%s\n", yellow("Incidents:"))
	for _, company := range sortedKeys(res.CompanyCounts) {
		fmt.Printf("  %-10s %d\n", company, res.CompanyCounts[company])
	}
	if res.Excluded > 0 {
		fmt.Printf("  %s\n", gray(fmt.Sprintf("%d excluded outside the analysis window", res.Excluded)))
	}

	fmt.Printf("\n%s\n", yellow("Final-month coverage:"))
	if len(res.Corrections) == 0 {
		fmt.Printf("  %s\n", gray("final month complete; no correction applied"))
	} else {
		for _, company := range sortedTripleKeys(res.Corrections) {
			printTriple(company, res.Corrections[company])
		}
	}

	fmt.Printf("\nWrote %s and %s in %s\n", incidentsPath, exposurePath, res.Duration)
}

func printTriple(company string, tr coverage.Triple) {
	c := color.New(color.FgGreen)
	if tr.Best < 1 {
		c = color.New(color.FgYellow)
	}
	fmt.Fprintf(os.Stdout, "  %-10s best=%.3f lo=%.3f hi=%.3f\n",
		c.Sprint(company), tr.Best, tr.Lo, tr.Hi)
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedTripleKeys(m map[string]coverage.Triple) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
