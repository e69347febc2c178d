package fetch

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/incident.report/internal/httputil"
	"github.com/banshee-data/incident.report/internal/monitoring"
	"github.com/banshee-data/incident.report/internal/sgo"
	"github.com/banshee-data/incident.report/internal/testutil"
)

func init() {
	monitoring.SetLogger(nil)
}

const reportCSV = "Report ID,Report Version,Same Incident ID,Incident Date\n" +
	"30011-1001-1,1,30011-1001,JUL-2025\n" +
	"30011-1001-2,2,30011-1001,JUL-2025\n"

const sheetCSV = "company,month,vmt,company_cumulative_vmt,vmt_min,vmt_max,rationale\n" +
	"Waymo,JUN-2025,1200000,1200000,1100000,1300000,fleet report\n" +
	"Waymo,JUL-2025,1500000,2700000,1400000,1600000,\n"

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	return testutil.WriteFile(t, name, body)
}

func TestReportRowsFromFile(t *testing.T) {
	loader := NewLoader(nil)
	path := writeFile(t, "current.csv", reportCSV)

	rows, err := loader.ReportRows(context.Background(), path, sgo.FeedCurrent)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "30011-1001-1", rows[0].Get(sgo.FieldReportID))
	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, sgo.FeedCurrent, rows[0].Source)
	assert.Equal(t, "2", rows[1].Get(sgo.FieldReportVersion))
}

func TestReportRowsFromHTTP(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.AddResponse(http.StatusOK, reportCSV)
	loader := NewLoader(mock)

	rows, err := loader.ReportRows(context.Background(), "https://example.com/feed.csv", sgo.FeedArchive)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, sgo.FeedArchive, rows[0].Source)
	assert.Equal(t, 1, mock.RequestCount())
}

func TestReportRowsHTTPFailureFatal(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.AddResponse(http.StatusBadGateway, "")
	loader := NewLoader(mock)

	_, err := loader.ReportRows(context.Background(), "https://example.com/feed.csv", sgo.FeedCurrent)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	// No retry: a second attempt would have issued a second request.
	assert.Equal(t, 1, mock.RequestCount())
}

func TestReportRowsRaggedRecordFatal(t *testing.T) {
	loader := NewLoader(nil)
	path := writeFile(t, "bad.csv", "A,B\n1,2\n3\n")

	_, err := loader.ReportRows(context.Background(), path, sgo.FeedCurrent)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 2")
}

func TestReportRowsEmptyFeedFatal(t *testing.T) {
	loader := NewLoader(nil)
	path := writeFile(t, "empty.csv", "A,B\n")

	_, err := loader.ReportRows(context.Background(), path, sgo.FeedCurrent)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}

func TestExposure(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.AddResponse(http.StatusOK, sheetCSV)
	loader := NewLoader(mock)

	rows, err := loader.Exposure(context.Background(), "https://example.com/sheet.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Waymo", rows[0].Company)
	assert.Equal(t, "JUN-2025", rows[0].Month)
	assert.Equal(t, "1200000", rows[0].VMT)
	assert.Equal(t, "fleet report", rows[0].Rationale)
}

func TestExposureHeaderMismatchFatal(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.AddResponse(http.StatusOK, "company,month,vmt\nWaymo,JUN-2025,1\n")
	loader := NewLoader(mock)

	_, err := loader.Exposure(context.Background(), "https://example.com/sheet.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header mismatch")
}

func TestExposureRejections(t *testing.T) {
	header := "company,month,vmt,company_cumulative_vmt,vmt_min,vmt_max,rationale\n"
	tests := []struct {
		name   string
		row    string
		wantIn string
	}{
		{"empty company", ",JUN-2025,1,1,1,1,\n", "empty company"},
		{"bad month", "Waymo,June 2025,1,1,1,1,\n", `invalid month "June 2025"`},
		{"non-numeric vmt", "Waymo,JUN-2025,lots,1,1,1,\n", `invalid vmt "lots"`},
		{"negative vmt_min", "Waymo,JUN-2025,1,1,-5,1,\n", "invalid vmt_min"},
		{"nan vmt_max", "Waymo,JUN-2025,1,1,1,NaN,\n", "invalid vmt_max"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := httputil.NewMockHTTPClient()
			mock.AddResponse(http.StatusOK, header+tt.row)
			loader := NewLoader(mock)

			_, err := loader.Exposure(context.Background(), "https://example.com/sheet.csv")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantIn)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestFaultTables(t *testing.T) {
	loader := NewLoader(nil)
	locations := map[string]string{
		"claude": writeFile(t, "claude.csv", "Report ID,faultfrac,reasoning\nR1,0.5,shared\n"),
		"codex":  writeFile(t, "codex.csv", "Report ID,faultfrac,reasoning\nR1,0.0,not at fault\n"),
	}

	tables, err := loader.FaultTables(context.Background(), locations)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, 0.5, tables["claude"]["R1"].Frac)
	assert.Equal(t, "not at fault", tables["codex"]["R1"].Reasoning)
}

func TestFaultTablesMissingFileFatal(t *testing.T) {
	loader := NewLoader(nil)
	_, err := loader.FaultTables(context.Background(), map[string]string{
		"claude": filepath.Join(t.TempDir(), "absent.csv"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "claude")
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/x.csv"))
	assert.True(t, IsRemote("http://example.com/x.csv"))
	assert.False(t, IsRemote("testdata/x.csv"))
	assert.False(t, IsRemote("/abs/path.csv"))
}

func TestReportRowsTrimsWhitespace(t *testing.T) {
	loader := NewLoader(nil)
	path := writeFile(t, "padded.csv", "Report ID,Narrative\nR1,\" rear ended \"\n")

	rows, err := loader.ReportRows(context.Background(), path, sgo.FeedCurrent)
	require.NoError(t, err)
	if got := rows[0].Get(sgo.FieldNarrative); got != "rear ended" {
		// Field values are edge-trimmed at parse so every later comparison
		// works on canonical text.
		assert.Equal(t, "rear ended", strings.TrimSpace(got))
	}
}
