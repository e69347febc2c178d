// Package coverage classifies incident filings as quick or periodic,
// estimates per-company reporting completeness for a not-yet-closed month,
// and composes partial-month coverage over the analysis window.
package coverage

import (
	"fmt"
	"time"

	"github.com/banshee-data/incident.report/internal/months"
)

// Window is the inclusive observation date range and the calendar months it
// touches.
type Window struct {
	Start  time.Time
	End    time.Time
	Months []string // chronological month tokens

	ordinals map[string]int
}

// NewWindow builds a Window from the inclusive [start, end] date range.
func NewWindow(start, end time.Time) (Window, error) {
	tokens, err := months.Sequence(start, end)
	if err != nil {
		return Window{}, fmt.Errorf("invalid analysis window: %w", err)
	}
	ords := make(map[string]int, len(tokens))
	for i, tok := range tokens {
		ords[tok] = i
	}
	return Window{Start: start, End: end, Months: tokens, ordinals: ords}, nil
}

// Contains reports whether the month token falls inside the window.
func (w Window) Contains(token string) bool {
	_, ok := w.ordinals[token]
	return ok
}

// FinalMonth returns the window's last month token.
func (w Window) FinalMonth() string {
	return w.Months[len(w.Months)-1]
}

// MonthCoverage returns the fraction of the calendar month that lies inside
// the window: 1.0 for interior months, a pro-rated day fraction for the
// first and last months. This keeps the incident numerator and the
// distance-traveled denominator aligned to the same partial-month slice.
func (w Window) MonthCoverage(token string) (float64, error) {
	idx, ok := w.ordinals[token]
	if !ok {
		return 0, fmt.Errorf("month %s outside analysis window (%s..%s)",
			token, w.Months[0], w.FinalMonth())
	}

	first := idx == 0
	last := idx == len(w.Months)-1
	if !first && !last {
		return 1.0, nil
	}

	m, err := months.Parse(token)
	if err != nil {
		return 0, err
	}
	days := float64(months.DaysIn(m))
	startDay := 1
	endDay := months.DaysIn(m)
	if first {
		startDay = w.Start.Day()
	}
	if last {
		endDay = w.End.Day()
	}
	return float64(endDay-startDay+1) / days, nil
}
