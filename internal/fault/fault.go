// Package fault loads and reconciles the independently produced
// per-incident fault-fraction tables. Each named estimator ships one CSV
// table; the tables must agree on exactly which incidents they cover before
// any of them is merged onto the canonical incident set.
package fault

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Required columns in every estimator table. Enrichment passes may append
// extra columns; those are ignored.
const (
	colReportID  = "Report ID"
	colFaultFrac = "faultfrac"
	colReasoning = "reasoning"
)

// previewLimit bounds how many mismatched identifiers a diagnostic lists.
const previewLimit = 5

// Estimate is one estimator's judgment for one report: a fault fraction in
// [0,1] (0 = AV not at fault, 1 = fully at fault) and its reasoning text.
type Estimate struct {
	Frac      float64
	Reasoning string
}

// Table maps report identifiers to one estimator's estimates.
type Table map[string]Estimate

// ParseTable reads one estimator's CSV table. Every row must carry a
// non-empty identifier and a finite fraction in [0,1]. A repeated
// identifier is tolerated only when its fraction and reasoning are
// byte-identical to the first occurrence; a conflicting repeat is a
// data-integrity failure.
func ParseTable(name string, r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("fault table %s: failed to read header: %w", name, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[h] = i
	}
	for _, required := range []string{colReportID, colFaultFrac, colReasoning} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("fault table %s: header missing %q (got: %s)",
				name, required, strings.Join(header, ","))
		}
	}

	table := make(Table)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fault table %s line %d: %w", name, line, err)
		}
		id := strings.TrimSpace(rec[cols[colReportID]])
		if id == "" {
			return nil, fmt.Errorf("fault table %s line %d: missing %s", name, line, colReportID)
		}
		raw := rec[cols[colFaultFrac]]
		frac, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("fault table %s line %d (%s): unparseable faultfrac %q",
				name, line, id, raw)
		}
		if math.IsNaN(frac) || math.IsInf(frac, 0) {
			return nil, fmt.Errorf("fault table %s line %d (%s): faultfrac %q not finite",
				name, line, id, raw)
		}
		if frac < 0 || frac > 1 {
			return nil, fmt.Errorf("fault table %s line %d (%s): faultfrac %v out of range [0,1]",
				name, line, id, frac)
		}
		est := Estimate{Frac: frac, Reasoning: strings.TrimSpace(rec[cols[colReasoning]])}
		if prev, ok := table[id]; ok {
			if prev != est {
				return nil, fmt.Errorf("fault table %s line %d: duplicate %s with conflicting payload",
					name, line, id)
			}
			continue
		}
		table[id] = est
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("fault table %s has no rows", name)
	}
	return table, nil
}

// Models is the reconciled set of estimator tables. Names are sorted so
// every walk over the estimators is deterministic.
type Models struct {
	Names  []string
	Tables map[string]Table
}

// Reconcile validates that all estimator tables cover pairwise identical
// identifier sets. A mismatch reports a bounded preview of the identifiers
// unique to each side.
func Reconcile(tables map[string]Table) (Models, error) {
	if len(tables) == 0 {
		return Models{}, fmt.Errorf("no fault estimator tables configured")
	}
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	base := names[0]
	for _, name := range names[1:] {
		onlyBase := missingFrom(tables[base], tables[name])
		onlyOther := missingFrom(tables[name], tables[base])
		if len(onlyBase) > 0 || len(onlyOther) > 0 {
			return Models{}, fmt.Errorf(
				"fault estimator ID sets disagree: %s-only=%v %s-only=%v",
				base, preview(onlyBase), name, preview(onlyOther))
		}
	}
	return Models{Names: names, Tables: tables}, nil
}

// IDs returns the identifier set the reconciled estimators cover.
func (m Models) IDs() map[string]bool {
	ids := make(map[string]bool)
	for id := range m.Tables[m.Names[0]] {
		ids[id] = true
	}
	return ids
}

// Lookup returns estimator name→estimate for one report identifier, or an
// error if any estimator lacks it. After Reconcile this can only fail for
// identifiers outside the covered set.
func (m Models) Lookup(reportID string) (map[string]Estimate, error) {
	out := make(map[string]Estimate, len(m.Names))
	for _, name := range m.Names {
		est, ok := m.Tables[name][reportID]
		if !ok {
			return nil, fmt.Errorf("missing fault estimate for report %s (estimator %s)", reportID, name)
		}
		out[name] = est
	}
	return out, nil
}

// missingFrom returns IDs in a that b lacks, sorted.
func missingFrom(a, b Table) []string {
	var ids []string
	for id := range a {
		if _, ok := b[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func preview(ids []string) []string {
	if len(ids) > previewLimit {
		return ids[:previewLimit]
	}
	return ids
}
