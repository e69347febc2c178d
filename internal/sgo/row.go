package sgo

// Feed identifies which published dataset a row came from.
type Feed string

const (
	FeedCurrent Feed = "current"
	FeedArchive Feed = "archive"
)

// Row is one filed report record: an ordered CSV record projected into a
// field-name→value map, plus enough provenance to produce useful
// diagnostics. Rows are never mutated after parse; transforms return copies.
type Row struct {
	Fields map[string]string
	Index  int  // 1-based record index within the source file
	Source Feed // which feed the row came from
}

// Get returns the named field's value, or "" if the row does not carry it.
func (r Row) Get(name string) string {
	return r.Fields[name]
}

// Has reports whether the row carries the named field at all, empty or not.
func (r Row) Has(name string) bool {
	_, ok := r.Fields[name]
	return ok
}

// IsPlaceholder reports whether the row is a no-op filing: a monthly
// "nothing to report" record carries no incident identifier and no incident
// date, and holds no data for the pipeline.
func (r Row) IsPlaceholder() bool {
	return r.Get(FieldIncidentID) == "" || r.Get(FieldIncidentDate) == ""
}

// clone returns a copy of the row with an independent field map.
func (r Row) clone() Row {
	fields := make(map[string]string, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	return Row{Fields: fields, Index: r.Index, Source: r.Source}
}
