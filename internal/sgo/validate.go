package sgo

import (
	"fmt"
	"strconv"

	"github.com/banshee-data/incident.report/internal/months"
)

// Clean drops placeholder rows (no incident identifier or no incident date).
// Placeholders are the monthly "no new incidents" filings; they carry no
// data and are excluded before validation.
func Clean(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.IsPlaceholder() {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ValidateRows checks every row's categorical and date-like fields against
// the allow-lists and the month-token pattern. The first violation aborts
// with a diagnostic naming the row, field, observed value and expected set;
// an unrecognised category must never be silently accepted because it would
// skew every downstream statistic without detection.
func ValidateRows(rows []Row) error {
	for _, r := range rows {
		if err := validateRow(r); err != nil {
			return err
		}
	}
	return nil
}

func validateRow(r Row) error {
	if v := r.Get(FieldReportType); !IsValidReportType(v) {
		return violation(r, FieldReportType, v, validReportTypesString())
	}
	if v := r.Get(FieldOperatorType); !IsValidOperatorType(v) {
		return violation(r, FieldOperatorType, v, validOperatorTypesString())
	}
	if v := r.Get(FieldEntity); !IsValidEntity(v) {
		return violation(r, FieldEntity, v, validEntitiesString())
	}
	if v := r.Get(FieldIncidentDate); !months.IsValidToken(v) {
		return violation(r, FieldIncidentDate, v, "MMM-YYYY")
	}
	// Submission date is absent on never-submitted rows; strict when present.
	if v := r.Get(FieldSubmissionDate); v != "" && !months.IsValidToken(v) {
		return violation(r, FieldSubmissionDate, v, "MMM-YYYY")
	}
	v := r.Get(FieldReportVersion)
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return violation(r, FieldReportVersion, v, "positive integer")
	}
	return nil
}

func violation(r Row, field, value, expected string) error {
	return fmt.Errorf("%s row %d: invalid %s %q (expected: %s)",
		r.Source, r.Index, field, value, expected)
}
