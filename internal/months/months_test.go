package months

import (
	"testing"
	"time"
)

func TestIsValidToken(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected bool
	}{
		{"valid june", "JUN-2025", true},
		{"valid january", "JAN-2026", true},
		{"lowercase rejected", "jun-2025", false},
		{"unknown month", "JNU-2025", false},
		{"two digit year", "JUN-25", false},
		{"full month name", "JUNE-2025", false},
		{"empty string", "", false},
		{"trailing garbage", "JUN-2025 ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidToken(tt.token); got != tt.expected {
				t.Errorf("IsValidToken(%q) = %v, want %v", tt.token, got, tt.expected)
			}
		})
	}
}

func TestParseAndToken(t *testing.T) {
	got, err := Parse("JUN-2025")
	if err != nil {
		t.Fatalf("Parse(JUN-2025) error: %v", err)
	}
	want := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Parse(JUN-2025) = %v, want %v", got, want)
	}
	if tok := Token(got); tok != "JUN-2025" {
		t.Errorf("Token(%v) = %q, want JUN-2025", got, tok)
	}

	if _, err := Parse("XXX-2025"); err == nil {
		t.Error("Parse(XXX-2025) expected error, got nil")
	}
}

func TestOrdinalOrdersAcrossYears(t *testing.T) {
	dec, err := TokenOrdinal("DEC-2025")
	if err != nil {
		t.Fatalf("TokenOrdinal(DEC-2025) error: %v", err)
	}
	jan, err := TokenOrdinal("JAN-2026")
	if err != nil {
		t.Fatalf("TokenOrdinal(JAN-2026) error: %v", err)
	}
	if jan != dec+1 {
		t.Errorf("JAN-2026 ordinal = %d, want %d", jan, dec+1)
	}
}

func TestDaysIn(t *testing.T) {
	tests := []struct {
		token    string
		expected int
	}{
		{"JUN-2025", 30},
		{"JUL-2025", 31},
		{"FEB-2026", 28},
		{"FEB-2028", 29}, // leap year
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			m, err := Parse(tt.token)
			if err != nil {
				t.Fatalf("Parse(%s) error: %v", tt.token, err)
			}
			if got := DaysIn(m); got != tt.expected {
				t.Errorf("DaysIn(%s) = %d, want %d", tt.token, got, tt.expected)
			}
		})
	}
}

func TestNext(t *testing.T) {
	dec := time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC)
	if got := Token(Next(dec)); got != "JAN-2026" {
		t.Errorf("Next(DEC-2025) = %s, want JAN-2026", got)
	}
}

func TestSequence(t *testing.T) {
	start := time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	got, err := Sequence(start, end)
	if err != nil {
		t.Fatalf("Sequence error: %v", err)
	}
	want := []string{
		"JUN-2025", "JUL-2025", "AUG-2025", "SEP-2025",
		"OCT-2025", "NOV-2025", "DEC-2025", "JAN-2026",
	}
	if len(got) != len(want) {
		t.Fatalf("Sequence returned %d months, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sequence[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	if _, err := Sequence(end, start); err == nil {
		t.Error("Sequence with end before start expected error, got nil")
	}
}
