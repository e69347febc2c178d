package coverage

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/incident.report/internal/monitoring"
	"github.com/banshee-data/incident.report/internal/months"
	"github.com/banshee-data/incident.report/internal/sgo"
)

// minMonthIncidents is the smallest per-month sample that contributes a
// historical quick-filing ratio.
const minMonthIncidents = 3

// Triple is a best/lo/hi incident-coverage estimate: the fraction of true
// incidents expected to be visible in the dataset snapshot. lo pairs with a
// pessimistic rate bound, hi with an optimistic one.
type Triple struct {
	Best float64
	Lo   float64
	Hi   float64
}

// Full is the no-correction estimate.
var Full = Triple{Best: 1, Lo: 1, Hi: 1}

// Observation is one canonical incident's contribution to the estimator:
// which company, which incident month, and how the incident was originally
// filed (before amendments retyped it as Update).
type Observation struct {
	Company  string
	Month    string
	Original sgo.ReportType
}

// SubmissionMonths collects the distinct non-empty submission-month tokens
// across all raw rows, placeholders included; a placeholder's submission
// month is still evidence that filings for that month have arrived.
func SubmissionMonths(rows []sgo.Row) map[string]bool {
	out := make(map[string]bool)
	for _, r := range rows {
		if v := r.Get(sgo.FieldSubmissionDate); v != "" {
			out[v] = true
		}
	}
	return out
}

// FinalMonthComplete reports whether periodic reports for the window's last
// month have had time to arrive. They are due by day 15 of the following
// month, so the following month must itself appear among the observed
// submission months; if it does not, the final month is structurally
// incomplete rather than genuinely quiet.
func FinalMonthComplete(submissionMonths map[string]bool, w Window) (bool, error) {
	final, err := months.Parse(w.FinalMonth())
	if err != nil {
		return false, err
	}
	return submissionMonths[months.Token(months.Next(final))], nil
}

// Estimate returns the per-company incident-coverage correction for the
// window's final month. When the final month is complete the map is empty:
// every company-month already has full coverage. When it is incomplete,
// each company's triple is the (mean, min, max) of its historical per-month
// quick-filing ratios over complete months with at least minMonthIncidents
// incidents, except that a company with a periodic filing already present
// in the final month is an early filer and keeps full coverage, as does a
// company with no usable history (never a NaN or undefined ratio).
func Estimate(obs []Observation, w Window, submissionMonths map[string]bool) (map[string]Triple, error) {
	complete, err := FinalMonthComplete(submissionMonths, w)
	if err != nil {
		return nil, err
	}
	if complete {
		return map[string]Triple{}, nil
	}

	final := w.FinalMonth()

	// company → month token → (quick, total) over the driverless canonical set.
	type tally struct{ quick, total int }
	counts := make(map[string]map[string]*tally)
	earlyFiler := make(map[string]bool)
	for _, o := range obs {
		if counts[o.Company] == nil {
			counts[o.Company] = make(map[string]*tally)
		}
		c := counts[o.Company][o.Month]
		if c == nil {
			c = &tally{}
			counts[o.Company][o.Month] = c
		}
		c.total++
		if o.Original.IsQuick() {
			c.quick++
		}
		if o.Month == final && o.Original.IsPeriodic() {
			earlyFiler[o.Company] = true
		}
	}

	companies := make([]string, 0, len(counts))
	for company := range counts {
		companies = append(companies, company)
	}
	sort.Strings(companies)

	out := make(map[string]Triple, len(companies))
	for _, company := range companies {
		if earlyFiler[company] {
			// A periodic filing for the open month means this company's
			// monthly batch already arrived.
			monitoring.Logf("coverage: %s filed periodic reports early for %s; full coverage", company, final)
			out[company] = Full
			continue
		}

		var ratios []float64
		for _, tok := range w.Months {
			if tok == final {
				continue
			}
			c := counts[company][tok]
			if c == nil || c.total < minMonthIncidents {
				continue
			}
			ratios = append(ratios, float64(c.quick)/float64(c.total))
		}
		if len(ratios) == 0 {
			monitoring.Logf("coverage: %s has no usable history; full coverage for %s", company, final)
			out[company] = Full
			continue
		}

		tr := Triple{
			Best: stat.Mean(ratios, nil),
			Lo:   floats.Min(ratios),
			Hi:   floats.Max(ratios),
		}
		if err := tr.validate(); err != nil {
			return nil, fmt.Errorf("coverage estimate for %s: %w", company, err)
		}
		monitoring.Logf("coverage: %s %s estimated from %d historical months: best=%.4f lo=%.4f hi=%.4f",
			company, final, len(ratios), tr.Best, tr.Lo, tr.Hi)
		out[company] = tr
	}
	return out, nil
}

// validate enforces 0 < lo ≤ best ≤ hi ≤ 1. A zero low bound means the
// company has months with no quick filings at all, and the thinning model
// cannot correct a coverage of zero.
func (t Triple) validate() error {
	if !(t.Lo > 0 && t.Lo <= t.Best && t.Best <= t.Hi && t.Hi <= 1) {
		return fmt.Errorf("invalid coverage triple best=%v lo=%v hi=%v (want 0 < lo <= best <= hi <= 1)",
			t.Best, t.Lo, t.Hi)
	}
	return nil
}
