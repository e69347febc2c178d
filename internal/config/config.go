// Package config loads the pipeline configuration: where the report feeds,
// fault tables, and exposure sheet live, and which date window the analysis
// covers.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DateFormat is the layout for window boundary dates in the config file.
const DateFormat = "2006-01-02"

// defaultFetchTimeout bounds every source acquisition.
const defaultFetchTimeout = 30 * time.Second

// Sources names every external input. Current and archive accept either a
// local path or an http(s) URL; fault tables are local paths keyed by
// estimator name.
type Sources struct {
	Current       string            `yaml:"current"`
	Archive       string            `yaml:"archive,omitempty"`
	ExposureSheet string            `yaml:"exposure_sheet"`
	FaultTables   map[string]string `yaml:"fault_tables"`
}

// WindowConfig is the inclusive analysis date range.
type WindowConfig struct {
	Start string `yaml:"start"` // YYYY-MM-DD
	End   string `yaml:"end"`   // YYYY-MM-DD
}

// Outputs are the emitted artifact paths.
type Outputs struct {
	Incidents string `yaml:"incidents"`
	Exposure  string `yaml:"exposure"`
}

// PipelineConfig is the root configuration document.
type PipelineConfig struct {
	Sources      Sources           `yaml:"sources"`
	Window       WindowConfig      `yaml:"window"`
	FetchTimeout string            `yaml:"fetch_timeout,omitempty"` // duration string like "30s"
	CompanyNames map[string]string `yaml:"company_short_names,omitempty"`
	Outputs      Outputs           `yaml:"outputs,omitempty"`
}

// defaultCompanyNames shortens the regulator's legal entity names for
// output and exposure-sheet joins. Entities without an entry pass through
// unchanged.
var defaultCompanyNames = map[string]string{
	"Waymo LLC":   "Waymo",
	"Tesla, Inc.": "Tesla",
	"Zoox, Inc.":  "Zoox",
}

// Load reads and validates a PipelineConfig from a YAML file.
// Partial configs are safe: omitted optional fields get defaults.
func Load(path string) (*PipelineConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .yaml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &PipelineConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *PipelineConfig) Validate() error {
	if c.Sources.Current == "" {
		return fmt.Errorf("sources.current is required")
	}
	if c.Sources.ExposureSheet == "" {
		return fmt.Errorf("sources.exposure_sheet is required")
	}
	if len(c.Sources.FaultTables) == 0 {
		return fmt.Errorf("sources.fault_tables must name at least one estimator")
	}
	for name, path := range c.Sources.FaultTables {
		if path == "" {
			return fmt.Errorf("fault table path for estimator %q is empty", name)
		}
	}

	start, err := time.Parse(DateFormat, c.Window.Start)
	if err != nil {
		return fmt.Errorf("invalid window.start %q: %w", c.Window.Start, err)
	}
	end, err := time.Parse(DateFormat, c.Window.End)
	if err != nil {
		return fmt.Errorf("invalid window.end %q: %w", c.Window.End, err)
	}
	if end.Before(start) {
		return fmt.Errorf("window.end %s before window.start %s", c.Window.End, c.Window.Start)
	}

	if c.FetchTimeout != "" {
		if _, err := time.ParseDuration(c.FetchTimeout); err != nil {
			return fmt.Errorf("invalid fetch_timeout %q: %w", c.FetchTimeout, err)
		}
	}
	return nil
}

// WindowDates returns the parsed inclusive window boundaries (UTC).
func (c *PipelineConfig) WindowDates() (start, end time.Time) {
	start, _ = time.Parse(DateFormat, c.Window.Start)
	end, _ = time.Parse(DateFormat, c.Window.End)
	return start.UTC(), end.UTC()
}

// GetFetchTimeout parses and returns the fetch timeout as a time.Duration.
func (c *PipelineConfig) GetFetchTimeout() time.Duration {
	if c.FetchTimeout == "" {
		return defaultFetchTimeout
	}
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil {
		return defaultFetchTimeout
	}
	return d
}

// GetCompanyNames returns the configured short-name map, or the defaults.
func (c *PipelineConfig) GetCompanyNames() map[string]string {
	if len(c.CompanyNames) == 0 {
		return defaultCompanyNames
	}
	return c.CompanyNames
}

// GetOutputs returns the output paths, defaulting alongside the working
// directory.
func (c *PipelineConfig) GetOutputs() Outputs {
	out := c.Outputs
	if out.Incidents == "" {
		out.Incidents = "incidents.json"
	}
	if out.Exposure == "" {
		out.Exposure = "exposure.csv"
	}
	return out
}
