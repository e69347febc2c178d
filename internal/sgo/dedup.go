package sgo

import (
	"fmt"
	"strconv"
)

// Group is one real-world incident after deduplication: all filings sharing
// a Same Incident ID collapsed to the highest-version row, with the
// lowest-version row's report type retained. Amendments are retyped as
// Update regardless of how the incident was first filed, so OriginalType is
// the only surviving record of whether the first filing was quick or
// periodic.
type Group struct {
	Canonical    Row
	Version      int
	OriginalType ReportType
	minVersion   int
}

// Deduplicate partitions the fully-driverless subset of rows by incident
// identifier and resolves each partition to its canonical row. Report
// versions are unique within an incident by construction; a repeated
// version is reported as a validation failure rather than resolved
// arbitrarily. The result is independent of input row order.
func Deduplicate(rows []Row) (map[string]Group, error) {
	groups := make(map[string]Group)
	seen := make(map[string]map[int]bool)

	for _, r := range rows {
		if OperatorType(r.Get(FieldOperatorType)) != OperatorNone {
			continue
		}
		id := r.Get(FieldIncidentID)
		ver, err := strconv.Atoi(r.Get(FieldReportVersion))
		if err != nil || ver < 1 {
			return nil, fmt.Errorf("%s row %d: invalid %s %q (expected: positive integer)",
				r.Source, r.Index, FieldReportVersion, r.Get(FieldReportVersion))
		}

		if seen[id] == nil {
			seen[id] = make(map[int]bool)
		}
		if seen[id][ver] {
			return nil, fmt.Errorf("incident %s: duplicate report version %d (%s row %d)",
				id, ver, r.Source, r.Index)
		}
		seen[id][ver] = true

		g, ok := groups[id]
		if !ok {
			groups[id] = Group{
				Canonical:    r,
				Version:      ver,
				OriginalType: ReportType(r.Get(FieldReportType)),
				minVersion:   ver,
			}
			continue
		}
		if ver > g.Version {
			g.Canonical = r
			g.Version = ver
		}
		if ver < g.minVersion {
			g.OriginalType = ReportType(r.Get(FieldReportType))
			g.minVersion = ver
		}
		groups[id] = g
	}
	return groups, nil
}
