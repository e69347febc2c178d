package sgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduplicateKeepsLatestVersionAndOriginalType(t *testing.T) {
	rows := []Row{
		makeRow(1, map[string]string{
			FieldIncidentID:    "X",
			FieldReportVersion: "1",
			FieldReportType:    "1-Day",
			FieldCity:          "Phoenix",
		}),
		makeRow(2, map[string]string{
			FieldIncidentID:    "X",
			FieldReportVersion: "2",
			FieldReportType:    "Update",
			FieldCity:          "Tempe", // amendment corrected the city
		}),
	}

	groups, err := Deduplicate(rows)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	g := groups["X"]
	assert.Equal(t, 2, g.Version)
	assert.Equal(t, "Tempe", g.Canonical.Get(FieldCity))
	assert.Equal(t, ReportOneDay, g.OriginalType, "original filing type must survive the Update retype")
}

func TestDeduplicateOrderIndependent(t *testing.T) {
	forward := []Row{
		makeRow(1, map[string]string{FieldIncidentID: "X", FieldReportVersion: "1", FieldReportType: "5-Day"}),
		makeRow(2, map[string]string{FieldIncidentID: "X", FieldReportVersion: "3", FieldReportType: "Update"}),
		makeRow(3, map[string]string{FieldIncidentID: "X", FieldReportVersion: "2", FieldReportType: "Update"}),
	}
	reversed := []Row{forward[2], forward[1], forward[0]}

	a, err := Deduplicate(forward)
	require.NoError(t, err)
	b, err := Deduplicate(reversed)
	require.NoError(t, err)

	assert.Equal(t, a["X"].Version, b["X"].Version)
	assert.Equal(t, a["X"].Canonical.Index, b["X"].Canonical.Index)
	assert.Equal(t, a["X"].OriginalType, b["X"].OriginalType)
	assert.Equal(t, ReportFiveDay, a["X"].OriginalType)
}

func TestDeduplicateFiltersToDriverless(t *testing.T) {
	rows := []Row{
		makeRow(1, map[string]string{FieldIncidentID: "A"}),
		makeRow(2, map[string]string{FieldIncidentID: "B", FieldOperatorType: "In-Vehicle"}),
	}
	groups, err := Deduplicate(rows)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
	assert.Contains(t, groups, "A")
}

func TestDeduplicateDuplicateVersionFails(t *testing.T) {
	rows := []Row{
		makeRow(1, map[string]string{FieldIncidentID: "X", FieldReportVersion: "2"}),
		makeRow(2, map[string]string{FieldIncidentID: "X", FieldReportVersion: "2"}),
	}
	_, err := Deduplicate(rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate report version 2")
	assert.Contains(t, err.Error(), "incident X")
}

func TestDeduplicateOneGroupPerIncident(t *testing.T) {
	rows := []Row{
		makeRow(1, map[string]string{FieldIncidentID: "A", FieldReportVersion: "1"}),
		makeRow(2, map[string]string{FieldIncidentID: "B", FieldReportVersion: "1"}),
		makeRow(3, map[string]string{FieldIncidentID: "A", FieldReportVersion: "2", FieldReportType: "Update"}),
	}
	groups, err := Deduplicate(rows)
	require.NoError(t, err)
	assert.Len(t, groups, 2)
	assert.Equal(t, 2, groups["A"].Version)
	assert.Equal(t, 1, groups["B"].Version)
}
