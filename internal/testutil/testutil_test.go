package testutil

import (
	"os"
	"testing"
)

func TestWriteFileRoundTrip(t *testing.T) {
	path := WriteFile(t, "fixture.csv", "a,b\n1,2\n")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture back: %v", err)
	}
	if string(data) != "a,b\n1,2\n" {
		t.Errorf("fixture content = %q", data)
	}
}

func TestCSV(t *testing.T) {
	got := CSV("a,b", "1,2", "3,4")
	want := "a,b\n1,2\n3,4\n"
	if got != want {
		t.Errorf("CSV() = %q, want %q", got, want)
	}
}
