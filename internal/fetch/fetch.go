// Package fetch acquires the pipeline's external inputs: the current and
// archive report feeds, the published exposure sheet, and the fault
// estimator tables. Every acquisition is all-or-nothing with a bounded
// timeout; a timeout, non-2xx status, or malformed payload aborts the run.
// Partial or stale statistical input would silently corrupt the coverage
// estimates, so there are no retries and no degraded modes.
package fetch

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/banshee-data/incident.report/internal/coverage"
	"github.com/banshee-data/incident.report/internal/fault"
	"github.com/banshee-data/incident.report/internal/httputil"
	"github.com/banshee-data/incident.report/internal/monitoring"
	"github.com/banshee-data/incident.report/internal/months"
	"github.com/banshee-data/incident.report/internal/sgo"
)

// Loader resolves source locations (local paths or http(s) URLs) into
// parsed inputs.
type Loader struct {
	HTTP httputil.HTTPClient
}

// NewLoader creates a Loader. A nil client falls back to the standard one.
func NewLoader(client httputil.HTTPClient) *Loader {
	if client == nil {
		client = httputil.NewStandardClient(nil)
	}
	return &Loader{HTTP: client}
}

// IsRemote reports whether a source location needs network access.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// bytes fetches or reads the raw payload for a location.
func (l *Loader) bytes(ctx context.Context, location string) ([]byte, error) {
	if IsRemote(location) {
		return httputil.FetchBody(ctx, l.HTTP, location)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	return data, nil
}

// ReportRows loads one report feed and projects its CSV records into rows.
// The CSV reader enforces rectangular records; a ragged row is a malformed
// payload, not something to skip.
func (l *Loader) ReportRows(ctx context.Context, location string, feed sgo.Feed) ([]sgo.Row, error) {
	data, err := l.bytes(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%s feed: %w", feed, err)
	}
	rows, err := parseRows(data, feed)
	if err != nil {
		return nil, fmt.Errorf("%s feed %s: %w", feed, location, err)
	}
	monitoring.Logf("fetch: loaded %d rows from %s feed (%s)", len(rows), feed, location)
	return rows, nil
}

func parseRows(data []byte, feed sgo.Feed) ([]sgo.Row, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("implausible header with %d columns", len(header))
	}

	var rows []sgo.Row
	for index := 1; ; index++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", index, err)
		}
		fields := make(map[string]string, len(header))
		for i, name := range header {
			fields[name] = strings.TrimSpace(rec[i])
		}
		rows = append(rows, sgo.Row{Fields: fields, Index: index, Source: feed})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("feed has no data rows")
	}
	return rows, nil
}

// Exposure fetches the published per-company-month distance sheet. The
// header must match the sheet contract exactly; the numeric and month
// columns are validated here so downstream stages can trust them.
func (l *Loader) Exposure(ctx context.Context, location string) ([]coverage.ExposureRow, error) {
	data, err := l.bytes(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("exposure sheet: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("exposure sheet: failed to read header: %w", err)
	}
	if strings.Join(header, ",") != strings.Join(coverage.SheetColumns, ",") {
		return nil, fmt.Errorf("exposure sheet header mismatch: got %q, want %q",
			strings.Join(header, ","), strings.Join(coverage.SheetColumns, ","))
	}

	var rows []coverage.ExposureRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("exposure sheet line %d: %w", line, err)
		}
		row := coverage.ExposureRow{
			Company:       rec[0],
			Month:         rec[1],
			VMT:           rec[2],
			CumulativeVMT: rec[3],
			VMTMin:        rec[4],
			VMTMax:        rec[5],
			Rationale:     rec[6],
		}
		if row.Company == "" {
			return nil, fmt.Errorf("exposure sheet line %d: empty company", line)
		}
		if !months.IsValidToken(row.Month) {
			return nil, fmt.Errorf("exposure sheet line %d (%s): invalid month %q (expected: MMM-YYYY)",
				line, row.Company, row.Month)
		}
		for _, col := range []struct{ name, value string }{
			{"vmt", row.VMT}, {"vmt_min", row.VMTMin}, {"vmt_max", row.VMTMax},
		} {
			v, err := strconv.ParseFloat(col.value, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return nil, fmt.Errorf("exposure sheet line %d (%s %s): invalid %s %q",
					line, row.Company, row.Month, col.name, col.value)
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("exposure sheet has no rows")
	}
	monitoring.Logf("fetch: loaded %d exposure rows", len(rows))
	return rows, nil
}

// FaultTables loads every configured estimator table.
func (l *Loader) FaultTables(ctx context.Context, locations map[string]string) (map[string]fault.Table, error) {
	tables := make(map[string]fault.Table, len(locations))
	for name, location := range locations {
		data, err := l.bytes(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("fault table %s: %w", name, err)
		}
		table, err := fault.ParseTable(name, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		tables[name] = table
	}
	return tables, nil
}
