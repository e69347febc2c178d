// Package pipeline wires the stages together: fetch, reconcile, validate,
// deduplicate, estimate coverage, merge fault models, and emit the final
// incident list and annotated exposure table.
package pipeline

import (
	"sort"
	"strconv"
	"strings"

	"github.com/banshee-data/incident.report/internal/fault"
	"github.com/banshee-data/incident.report/internal/sgo"
)

// FaultRecord is one estimator's merged judgment on an output incident.
type FaultRecord struct {
	Frac      float64 `json:"frac"`
	Reasoning string  `json:"reasoning"`
}

// Incident is one canonical incident as emitted to consumers. Field names
// are short, greppable JSON keys; values come from the highest-version
// filing except originalReportType, which preserves how the incident was
// first filed.
type Incident struct {
	ReportID           string                 `json:"reportId"`
	Version            int                    `json:"version"`
	Company            string                 `json:"company"`
	Date               string                 `json:"date"`
	Time               string                 `json:"time"`
	IncidentID         string                 `json:"incidentId"`
	City               string                 `json:"city"`
	State              string                 `json:"state"`
	Road               string                 `json:"road"`
	CrashWith          string                 `json:"crashWith"`
	Severity           string                 `json:"severity"`
	Speed              *int                   `json:"speed"`
	SVMovement         string                 `json:"svMovement"`
	CPMovement         string                 `json:"cpMovement"`
	SVHit              string                 `json:"svHit"`
	CPHit              string                 `json:"cpHit"`
	Narrative          string                 `json:"narrative"`
	NarrativeCBI       string                 `json:"narrativeCbi"`
	WxClear            string                 `json:"wxClear"`
	WxRain             string                 `json:"wxRain"`
	WxCloudy           string                 `json:"wxCloudy"`
	WxPartlyCloudy     string                 `json:"wxPartlyCloudy"`
	OriginalReportType string                 `json:"originalReportType"`
	Fault              map[string]FaultRecord `json:"fault"`

	monthOrdinal int
}

// buildIncident projects a deduplicated group into the output record.
func buildIncident(g sgo.Group, companyNames map[string]string, monthOrdinal int) Incident {
	row := g.Canonical
	company := row.Get(sgo.FieldEntity)
	if short, ok := companyNames[company]; ok {
		company = short
	}

	inc := Incident{
		ReportID:           row.Get(sgo.FieldReportID),
		Version:            g.Version,
		Company:            company,
		Date:               row.Get(sgo.FieldIncidentDate),
		Time:               row.Get(sgo.FieldIncidentTime),
		IncidentID:         row.Get(sgo.FieldIncidentID),
		City:               row.Get(sgo.FieldCity),
		State:              row.Get(sgo.FieldState),
		Road:               row.Get(sgo.FieldRoadway),
		CrashWith:          row.Get(sgo.FieldCrashWith),
		Severity:           row.Get(sgo.FieldSeverity),
		Speed:              parseSpeed(row.Get(sgo.FieldSpeed)),
		SVMovement:         row.Get(sgo.FieldSVMovement),
		CPMovement:         row.Get(sgo.FieldCPMovement),
		SVHit:              contactAreas(row, sgo.SVContactAreaPrefix),
		CPHit:              contactAreas(row, sgo.CPContactAreaPrefix),
		Narrative:          row.Get(sgo.FieldNarrative),
		NarrativeCBI:       row.Get(sgo.FieldNarrativeCBI),
		WxClear:            row.Get(sgo.FieldWxClear),
		WxRain:             row.Get(sgo.FieldWxRain),
		WxCloudy:           row.Get(sgo.FieldWxCloudy),
		WxPartlyCloudy:     row.Get(sgo.FieldWxPartlyCloudy),
		OriginalReportType: string(g.OriginalType),
		monthOrdinal:       monthOrdinal,
	}
	return inc
}

// parseSpeed reads the precrash speed as an integer MPH, or null for
// "Unknown", redacted, or absent values.
func parseSpeed(v string) *int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

// contactAreas folds the flag columns sharing prefix into a pipe-joined
// list of struck areas, sorted for a stable output.
func contactAreas(row sgo.Row, prefix string) string {
	var hit []string
	for name, value := range row.Fields {
		if value != "Y" {
			continue
		}
		if rest, ok := strings.CutPrefix(name, prefix+" - "); ok {
			hit = append(hit, rest)
		}
	}
	sort.Strings(hit)
	return strings.Join(hit, "|")
}

// attachFault merges one estimate per estimator onto the incident.
func (inc *Incident) attachFault(estimates map[string]fault.Estimate) {
	inc.Fault = make(map[string]FaultRecord, len(estimates))
	for name, est := range estimates {
		inc.Fault[name] = FaultRecord{Frac: est.Frac, Reasoning: est.Reasoning}
	}
}

// sortIncidents orders the output by company, incident month, and time of
// day, with the report identifier as a final tiebreak so equal keys still
// emit deterministically.
func sortIncidents(incidents []Incident) {
	sort.Slice(incidents, func(i, j int) bool {
		a, b := incidents[i], incidents[j]
		if a.Company != b.Company {
			return a.Company < b.Company
		}
		if a.monthOrdinal != b.monthOrdinal {
			return a.monthOrdinal < b.monthOrdinal
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.ReportID < b.ReportID
	})
}
