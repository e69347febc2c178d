// Command incident-report reconciles autonomous-vehicle crash reports from
// the regulator's Standing General Order feeds into a deduplicated incident
// dataset with fault estimates and coverage-corrected mileage exposure.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/banshee-data/incident.report/internal/config"
	"github.com/banshee-data/incident.report/internal/fetch"
	"github.com/banshee-data/incident.report/internal/monitoring"
)

var (
	configPath string
	quiet      bool
	offline    bool
)

var rootCmd = &cobra.Command{
	Use:   "incident-report",
	Short: "AV crash-report reconciliation and exposure pipeline",
	Long: `incident-report ingests the current and archive SGO crash-report feeds,
reconciles their schemas, deduplicates amended reports, merges per-estimator
fault tables, and emits the incident dataset alongside a coverage-annotated
vehicle-miles-traveled exposure table.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "pipeline.yaml", "pipeline configuration file")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress progress logging")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "refuse remote sources; every location must be a local file")
}

// loadConfig reads the configured pipeline definition, applying the quiet
// flag before any stage can log.
func loadConfig() (*config.PipelineConfig, error) {
	if quiet {
		monitoring.SetLogger(nil)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", configPath, err)
	}
	if offline {
		if err := checkOffline(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// checkOffline rejects any configured source that would touch the network.
func checkOffline(cfg *config.PipelineConfig) error {
	locations := map[string]string{
		"sources.current":        cfg.Sources.Current,
		"sources.archive":        cfg.Sources.Archive,
		"sources.exposure_sheet": cfg.Sources.ExposureSheet,
	}
	for name, path := range cfg.Sources.FaultTables {
		locations["sources.fault_tables."+name] = path
	}
	for name, location := range locations {
		if fetch.IsRemote(location) {
			return fmt.Errorf("offline mode: %s is remote (%s)", name, location)
		}
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
