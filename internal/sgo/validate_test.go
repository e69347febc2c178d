package sgo

import (
	"strings"
	"testing"
)

func TestCleanDropsPlaceholders(t *testing.T) {
	rows := []Row{
		makeRow(1, nil),
		makeRow(2, map[string]string{FieldIncidentID: ""}),   // monthly no-op
		makeRow(3, map[string]string{FieldIncidentDate: ""}), // never-dated stub
		makeRow(4, nil),
	}
	got := Clean(rows)
	if len(got) != 2 {
		t.Fatalf("Clean kept %d rows, want 2", len(got))
	}
	if got[0].Index != 1 || got[1].Index != 4 {
		t.Errorf("Clean kept rows %d,%d, want 1,4", got[0].Index, got[1].Index)
	}
}

func TestValidateRowsAcceptsCleanData(t *testing.T) {
	rows := []Row{
		makeRow(1, nil),
		makeRow(2, map[string]string{
			FieldReportType:     "Monthly",
			FieldEntity:         "Zoox, Inc.",
			FieldOperatorType:   "In-Vehicle",
			FieldSubmissionDate: "AUG-2025",
		}),
	}
	if err := ValidateRows(rows); err != nil {
		t.Errorf("ValidateRows() = %v, want nil", err)
	}
}

func TestValidateRowsRejections(t *testing.T) {
	tests := []struct {
		name     string
		override map[string]string
		wantIn   []string // fragments the diagnostic must contain
	}{
		{
			name:     "unknown report type",
			override: map[string]string{FieldReportType: "15-Day"},
			wantIn:   []string{"Report Type", `"15-Day"`, "1-Day, 5-Day, Monthly, Update"},
		},
		{
			name:     "unknown operator type",
			override: map[string]string{FieldOperatorType: "Autonomous"},
			wantIn:   []string{"Driver / Operator Type", `"Autonomous"`, "None"},
		},
		{
			name:     "unlisted entity",
			override: map[string]string{FieldEntity: "Motional AD Inc."},
			wantIn:   []string{"Reporting Entity", "Motional", "Waymo LLC"},
		},
		{
			name:     "malformed incident date",
			override: map[string]string{FieldIncidentDate: "2025-07"},
			wantIn:   []string{"Incident Date", "2025-07", "MMM-YYYY"},
		},
		{
			name:     "unknown month token",
			override: map[string]string{FieldIncidentDate: "JYL-2025"},
			wantIn:   []string{"Incident Date", "JYL-2025"},
		},
		{
			name:     "malformed submission date",
			override: map[string]string{FieldSubmissionDate: "July 2025"},
			wantIn:   []string{"Report Submission Date", "July 2025"},
		},
		{
			name:     "non-numeric version",
			override: map[string]string{FieldReportVersion: "one"},
			wantIn:   []string{"Report Version", `"one"`, "positive integer"},
		},
		{
			name:     "zero version",
			override: map[string]string{FieldReportVersion: "0"},
			wantIn:   []string{"Report Version", `"0"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []Row{makeRow(7, tt.override)}
			err := ValidateRows(rows)
			if err == nil {
				t.Fatal("ValidateRows() = nil, want error")
			}
			msg := err.Error()
			if !strings.Contains(msg, "row 7") {
				t.Errorf("diagnostic %q does not identify row 7", msg)
			}
			for _, frag := range tt.wantIn {
				if !strings.Contains(msg, frag) {
					t.Errorf("diagnostic %q missing %q", msg, frag)
				}
			}
		})
	}
}

func TestValidateRowsEmptySubmissionDateAllowed(t *testing.T) {
	rows := []Row{makeRow(1, map[string]string{FieldSubmissionDate: ""})}
	if err := ValidateRows(rows); err != nil {
		t.Errorf("ValidateRows() = %v, want nil for empty submission date", err)
	}
}
