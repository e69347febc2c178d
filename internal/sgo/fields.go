// Package sgo models report rows published under the regulator's Standing
// General Order: the canonical field set shared by the current and archive
// feeds, the categorical allow-lists, row validation, and incident
// deduplication.
package sgo

import "strings"

// Canonical field names, as published by the current feed.
const (
	FieldReportID       = "Report ID"
	FieldReportVersion  = "Report Version"
	FieldReportType     = "Report Type"
	FieldEntity         = "Reporting Entity"
	FieldOperatorType   = "Driver / Operator Type"
	FieldIncidentDate   = "Incident Date"
	FieldIncidentTime   = "Incident Time (24:00)"
	FieldSubmissionDate = "Report Submission Date"
	FieldIncidentID     = "Same Incident ID"
	FieldCity           = "City"
	FieldState          = "State"
	FieldRoadway        = "Roadway Type"
	FieldCrashWith      = "Crash With"
	FieldSeverity       = "Highest Injury Severity Alleged"
	FieldSpeed          = "SV Precrash Speed (MPH)"
	FieldSVMovement     = "SV Pre-Crash Movement"
	FieldCPMovement     = "CP Pre-Crash Movement"
	FieldNarrative      = "Narrative"
	FieldNarrativeCBI   = "Narrative - CBI?"
	FieldWxClear        = "Weather - Clear"
	FieldWxRain         = "Weather - Rain"
	FieldWxCloudy       = "Weather - Cloudy"
	FieldWxPartlyCloudy = "Weather - Partly Cloudy"
)

// Contact-area flag columns share these prefixes; the set of suffixes varies
// between feed snapshots, so they are matched by prefix rather than
// enumerated.
const (
	SVContactAreaPrefix = "SV Contact Area"
	CPContactAreaPrefix = "CP Contact Area"
)

// archiveAliases maps canonical field names to the archive feed's spelling.
// The reconciler consults this table only to fill canonical fields the row
// does not carry; values already present are never overwritten.
var archiveAliases = map[string]string{
	FieldIncidentID:     "Incident ID",
	FieldSubmissionDate: "Report Date",
	FieldEntity:         "Reporting Entity Name",
	FieldSVMovement:     "SV Precrash Movement",
	FieldCPMovement:     "CP Precrash Movement",
}

// ReportType is the regulator's filing-speed category.
type ReportType string

const (
	ReportOneDay  ReportType = "1-Day"
	ReportFiveDay ReportType = "5-Day"
	ReportMonthly ReportType = "Monthly"
	ReportUpdate  ReportType = "Update"
)

// ValidReportTypes contains all report types the feeds may carry.
var ValidReportTypes = []ReportType{ReportOneDay, ReportFiveDay, ReportMonthly, ReportUpdate}

// IsValidReportType checks membership in ValidReportTypes.
func IsValidReportType(v string) bool {
	for _, rt := range ValidReportTypes {
		if v == string(rt) {
			return true
		}
	}
	return false
}

// IsQuick reports whether rt is a quick filing (due within days of the
// incident).
func (rt ReportType) IsQuick() bool {
	return rt == ReportOneDay || rt == ReportFiveDay
}

// IsPeriodic reports whether rt is a periodic filing (due by day 15 of the
// following month).
func (rt ReportType) IsPeriodic() bool {
	return rt == ReportMonthly
}

// OperatorType is the regulator's driver/operator category.
type OperatorType string

const (
	// OperatorNone marks fully driverless operation; the pipeline's
	// incident universe is restricted to this value.
	OperatorNone          OperatorType = "None"
	OperatorInVehicle     OperatorType = "In-Vehicle"
	OperatorRemote        OperatorType = "Remote (Not In-Vehicle)"
	OperatorInVehicleAndR OperatorType = "In-Vehicle and Remote"
)

// ValidOperatorTypes contains all operator types the feeds may carry.
var ValidOperatorTypes = []OperatorType{
	OperatorNone, OperatorInVehicle, OperatorRemote, OperatorInVehicleAndR,
}

// IsValidOperatorType checks membership in ValidOperatorTypes.
func IsValidOperatorType(v string) bool {
	for _, ot := range ValidOperatorTypes {
		if v == string(ot) {
			return true
		}
	}
	return false
}

// ValidEntities is the allow-list of reporting entities. A new company
// appearing in the feed must be added here deliberately; the validator
// refuses to guess.
var ValidEntities = []string{
	"Waymo LLC",
	"Tesla, Inc.",
	"Zoox, Inc.",
	"Cruise LLC",
	"Aurora Operations, Inc.",
}

// IsValidEntity checks membership in ValidEntities.
func IsValidEntity(v string) bool {
	for _, e := range ValidEntities {
		if v == e {
			return true
		}
	}
	return false
}

func validReportTypesString() string {
	parts := make([]string, len(ValidReportTypes))
	for i, rt := range ValidReportTypes {
		parts[i] = string(rt)
	}
	return strings.Join(parts, ", ")
}

func validOperatorTypesString() string {
	parts := make([]string, len(ValidOperatorTypes))
	for i, ot := range ValidOperatorTypes {
		parts[i] = string(ot)
	}
	return strings.Join(parts, ", ")
}

func validEntitiesString() string {
	return strings.Join(ValidEntities, ", ")
}
