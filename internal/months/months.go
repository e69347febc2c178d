// Package months provides parsing and calendar arithmetic for the
// regulator's ABBREVIATED-MONTH-YEAR labels (e.g. "JUN-2025").
package months

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TokenPattern is the strict shape every date-like field must match.
var TokenPattern = regexp.MustCompile(`^[A-Z]{3}-[0-9]{4}$`)

// monthNumbers maps the recognised three-letter month tokens.
var monthNumbers = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// IsValidToken checks that token matches TokenPattern and carries a
// recognised month abbreviation.
func IsValidToken(token string) bool {
	if !TokenPattern.MatchString(token) {
		return false
	}
	_, ok := monthNumbers[token[:3]]
	return ok
}

// Parse converts a month token into the first instant of that month (UTC).
func Parse(token string) (time.Time, error) {
	if !TokenPattern.MatchString(token) {
		return time.Time{}, fmt.Errorf("malformed month token %q (want MMM-YYYY)", token)
	}
	m, ok := monthNumbers[token[:3]]
	if !ok {
		return time.Time{}, fmt.Errorf("unrecognised month abbreviation in %q", token)
	}
	var year int
	if _, err := fmt.Sscanf(token[4:], "%d", &year); err != nil {
		return time.Time{}, fmt.Errorf("unparseable year in %q: %w", token, err)
	}
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC), nil
}

// Token formats t as the regulator's month label.
func Token(t time.Time) string {
	return strings.ToUpper(t.Format("Jan-2006"))
}

// Ordinal returns a total ordering over calendar months.
func Ordinal(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

// TokenOrdinal parses token and returns its ordinal.
func TokenOrdinal(token string) (int, error) {
	t, err := Parse(token)
	if err != nil {
		return 0, err
	}
	return Ordinal(t), nil
}

// Next returns the first instant of the month after t's month.
func Next(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}

// DaysIn returns the number of calendar days in t's month.
func DaysIn(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

// Sequence returns the tokens of every calendar month touched by the
// inclusive [start, end] date range, in chronological order.
func Sequence(start, end time.Time) ([]string, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("month sequence end %s before start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	var tokens []string
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(last) {
		tokens = append(tokens, Token(cur))
		cur = cur.AddDate(0, 1, 0)
	}
	return tokens, nil
}
