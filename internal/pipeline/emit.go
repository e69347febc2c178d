package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/banshee-data/incident.report/internal/coverage"
	"github.com/banshee-data/incident.report/internal/monitoring"
)

// WriteIncidents emits the canonical incident list as pretty-printed JSON.
func WriteIncidents(path string, incidents []Incident) error {
	data, err := json.MarshalIndent(incidents, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode incidents: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	monitoring.Logf("emit: wrote %d incidents to %s", len(incidents), path)
	return nil
}

// WriteExposure emits the annotated exposure table with the extended
// header: the sheet's own columns verbatim, then the four coverage columns.
func WriteExposure(path string, rows []coverage.ExposureRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	header := append(append([]string{}, coverage.SheetColumns...), coverage.AddedColumns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write exposure header: %w", err)
	}
	for _, row := range rows {
		rec := []string{
			row.Company,
			row.Month,
			row.VMT,
			row.CumulativeVMT,
			row.VMTMin,
			row.VMTMax,
			row.Rationale,
			formatFrac(row.Coverage),
			formatFrac(row.ICov.Best),
			formatFrac(row.ICov.Lo),
			formatFrac(row.ICov.Hi),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write exposure row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	monitoring.Logf("emit: wrote %d exposure rows to %s", len(rows), path)
	return nil
}

// formatFrac renders a coverage fraction with the shortest exact
// representation, so re-runs over identical input are byte-identical.
func formatFrac(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
