package coverage

// SheetColumns is the exact header the published exposure sheet must carry.
var SheetColumns = []string{
	"company", "month", "vmt", "company_cumulative_vmt", "vmt_min", "vmt_max", "rationale",
}

// AddedColumns are appended to the sheet header when coverage annotations
// are emitted.
var AddedColumns = []string{"coverage", "icov", "icov_lo", "icov_hi"}

// ExposureRow is one (company, calendar-month) distance-traveled estimate.
// The sheet's own values are carried verbatim so the emitted table is
// byte-stable against the upstream source; only the coverage columns are
// computed here.
type ExposureRow struct {
	Company       string
	Month         string // month token, e.g. JUN-2025
	VMT           string
	CumulativeVMT string
	VMTMin        string
	VMTMax        string
	Rationale     string

	Coverage float64 // fraction of the calendar month inside the window
	ICov     Triple  // fraction of true incidents expected visible
}

// Annotate attaches window coverage and incident-coverage estimates to the
// exposure table, preserving row order. Months get full incident coverage
// except the window's final month, where a company listed in corrections
// carries its estimated triple. An exposure month outside the analysis
// window is a source error, not something to skip quietly.
func Annotate(rows []ExposureRow, w Window, corrections map[string]Triple) ([]ExposureRow, error) {
	out := make([]ExposureRow, len(rows))
	final := w.FinalMonth()
	for i, row := range rows {
		cov, err := w.MonthCoverage(row.Month)
		if err != nil {
			return nil, err
		}
		row.Coverage = cov
		row.ICov = Full
		if row.Month == final {
			if tr, ok := corrections[row.Company]; ok {
				row.ICov = tr
			}
		}
		out[i] = row
	}
	return out, nil
}
