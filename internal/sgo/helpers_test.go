package sgo

// makeRow builds a minimal valid current-feed row for tests. Overrides are
// applied on top of the defaults.
func makeRow(index int, overrides map[string]string) Row {
	fields := map[string]string{
		FieldReportID:      "30011-1001-1",
		FieldReportVersion: "1",
		FieldReportType:    "1-Day",
		FieldEntity:        "Waymo LLC",
		FieldOperatorType:  "None",
		FieldIncidentDate:  "JUL-2025",
		FieldIncidentTime:  "13:45",
		FieldIncidentID:    "30011-1001",
	}
	for k, v := range overrides {
		fields[k] = v
	}
	return Row{Fields: fields, Index: index, Source: FeedCurrent}
}
