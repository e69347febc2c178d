package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/incident.report/internal/config"
	"github.com/banshee-data/incident.report/internal/coverage"
	"github.com/banshee-data/incident.report/internal/fault"
	"github.com/banshee-data/incident.report/internal/fetch"
	"github.com/banshee-data/incident.report/internal/monitoring"
	"github.com/banshee-data/incident.report/internal/months"
	"github.com/banshee-data/incident.report/internal/sgo"
	"github.com/banshee-data/incident.report/internal/timeutil"
)

// mismatchPreview bounds how many identifiers a set-mismatch diagnostic lists.
const mismatchPreview = 5

// Pipeline runs the whole batch computation. Every stage consumes the
// previous stage's immutable snapshot; any fatal condition aborts the run
// with no partial output.
type Pipeline struct {
	Config *config.PipelineConfig
	Loader *fetch.Loader
	Clock  timeutil.Clock
}

// New assembles a Pipeline with production defaults.
func New(cfg *config.PipelineConfig) *Pipeline {
	return &Pipeline{
		Config: cfg,
		Loader: fetch.NewLoader(nil),
		Clock:  timeutil.RealClock{},
	}
}

// Result is the completed run: the sorted canonical incident list and the
// coverage-annotated exposure table, plus run metadata for the summary.
type Result struct {
	RunID         string
	Incidents     []Incident
	Exposure      []coverage.ExposureRow
	Corrections   map[string]coverage.Triple
	CompanyCounts map[string]int
	Excluded      int // incidents dropped by the window filter
	Duration      time.Duration
}

// Run executes the pipeline end to end.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := p.Clock.Now()
	runID := uuid.NewString()
	monitoring.Logf("pipeline %s: starting", runID)

	w, err := p.window()
	if err != nil {
		return nil, err
	}

	rows, err := p.acquireReports(ctx)
	if err != nil {
		return nil, err
	}

	// Placeholder rows still witness submission months, so collect these
	// before cleaning.
	submissionMonths := coverage.SubmissionMonths(rows)

	cleaned := sgo.Clean(rows)
	if err := sgo.ValidateRows(cleaned); err != nil {
		return nil, fmt.Errorf("row validation: %w", err)
	}
	monitoring.Logf("pipeline %s: %d rows after placeholder drop (%d raw)", runID, len(cleaned), len(rows))

	groups, err := sgo.Deduplicate(cleaned)
	if err != nil {
		return nil, fmt.Errorf("deduplication: %w", err)
	}
	monitoring.Logf("pipeline %s: %d driverless incidents after dedup", runID, len(groups))

	kept, excluded, err := p.applyWindow(groups, w)
	if err != nil {
		return nil, err
	}

	models, err := p.acquireFaultModels(ctx)
	if err != nil {
		return nil, err
	}

	incidents, err := p.assemble(kept, models)
	if err != nil {
		return nil, err
	}

	corrections, err := coverage.Estimate(p.observations(incidents), w, submissionMonths)
	if err != nil {
		return nil, fmt.Errorf("coverage estimation: %w", err)
	}

	timeout := p.Config.GetFetchTimeout()
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	exposure, err := p.Loader.Exposure(fetchCtx, p.Config.Sources.ExposureSheet)
	cancel()
	if err != nil {
		return nil, err
	}
	annotated, err := coverage.Annotate(exposure, w, corrections)
	if err != nil {
		return nil, fmt.Errorf("exposure annotation: %w", err)
	}

	sortIncidents(incidents)

	counts := make(map[string]int)
	for _, inc := range incidents {
		counts[inc.Company]++
	}

	res := &Result{
		RunID:         runID,
		Incidents:     incidents,
		Exposure:      annotated,
		Corrections:   corrections,
		CompanyCounts: counts,
		Excluded:      excluded,
		Duration:      p.Clock.Since(start),
	}
	monitoring.Logf("pipeline %s: %d incidents, %d exposure rows in %s",
		runID, len(res.Incidents), len(res.Exposure), res.Duration)
	return res, nil
}

func (p *Pipeline) window() (coverage.Window, error) {
	start, end := p.Config.WindowDates()
	return coverage.NewWindow(start, end)
}

// acquireReports loads the current feed, and the archive feed when
// configured, then reconciles every row onto the canonical field set.
// Reconciliation is idempotent, so current-feed rows pass through intact.
func (p *Pipeline) acquireReports(ctx context.Context) ([]sgo.Row, error) {
	timeout := p.Config.GetFetchTimeout()

	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	rows, err := p.Loader.ReportRows(fetchCtx, p.Config.Sources.Current, sgo.FeedCurrent)
	cancel()
	if err != nil {
		return nil, err
	}

	if p.Config.Sources.Archive != "" {
		fetchCtx, cancel := context.WithTimeout(ctx, timeout)
		archive, err := p.Loader.ReportRows(fetchCtx, p.Config.Sources.Archive, sgo.FeedArchive)
		cancel()
		if err != nil {
			return nil, err
		}
		rows = append(rows, archive...)
	}
	return sgo.ReconcileAll(rows), nil
}

func (p *Pipeline) acquireFaultModels(ctx context.Context) (fault.Models, error) {
	timeout := p.Config.GetFetchTimeout()
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tables, err := p.Loader.FaultTables(fetchCtx, p.Config.Sources.FaultTables)
	if err != nil {
		return fault.Models{}, err
	}
	return fault.Reconcile(tables)
}

// applyWindow drops incidents dated outside the analysis months. This is
// the pipeline's only recoverable condition: each exclusion is warned with
// the report identifier, company, and date, never silently discarded.
func (p *Pipeline) applyWindow(groups map[string]sgo.Group, w coverage.Window) (map[string]sgo.Group, int, error) {
	kept := make(map[string]sgo.Group, len(groups))
	excluded := 0
	for id, g := range groups {
		date := g.Canonical.Get(sgo.FieldIncidentDate)
		if !w.Contains(date) {
			monitoring.Warnf("excluding incident %s (%s, %s): outside analysis window %s..%s",
				g.Canonical.Get(sgo.FieldReportID), g.Canonical.Get(sgo.FieldEntity), date,
				w.Months[0], w.FinalMonth())
			excluded++
			continue
		}
		kept[id] = g
	}
	return kept, excluded, nil
}

// assemble projects groups into output incidents, merges fault estimates,
// and enforces that the output identifier set equals the fault-covered set
// exactly, never a superset or subset.
func (p *Pipeline) assemble(groups map[string]sgo.Group, models fault.Models) ([]Incident, error) {
	companyNames := p.Config.GetCompanyNames()
	faultIDs := models.IDs()

	incidents := make([]Incident, 0, len(groups))
	outputIDs := make(map[string]bool, len(groups))
	for _, g := range groups {
		date := g.Canonical.Get(sgo.FieldIncidentDate)
		ord, err := months.TokenOrdinal(date)
		if err != nil {
			return nil, fmt.Errorf("incident %s: %w", g.Canonical.Get(sgo.FieldReportID), err)
		}
		inc := buildIncident(g, companyNames, ord)

		estimates, err := models.Lookup(inc.ReportID)
		if err != nil {
			return nil, err
		}
		inc.attachFault(estimates)

		incidents = append(incidents, inc)
		outputIDs[inc.ReportID] = true
	}

	if err := sameIDSets(outputIDs, faultIDs); err != nil {
		return nil, err
	}
	return incidents, nil
}

func (p *Pipeline) observations(incidents []Incident) []coverage.Observation {
	obs := make([]coverage.Observation, len(incidents))
	for i, inc := range incidents {
		obs[i] = coverage.Observation{
			Company:  inc.Company,
			Month:    inc.Date,
			Original: sgo.ReportType(inc.OriginalReportType),
		}
	}
	return obs
}

// sameIDSets verifies the incident and fault identifier sets are equal,
// reporting a bounded sample of the symmetric difference.
func sameIDSets(incidents, faults map[string]bool) error {
	onlyIncidents := setDifference(incidents, faults)
	onlyFaults := setDifference(faults, incidents)
	if len(onlyIncidents) == 0 && len(onlyFaults) == 0 {
		return nil
	}
	return fmt.Errorf("incident/fault report ID sets must match: incidents-only=%v fault-only=%v",
		onlyIncidents, onlyFaults)
}

func setDifference(a, b map[string]bool) []string {
	var out []string
	for id := range a {
		if !b[id] {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	if len(out) > mismatchPreview {
		out = out[:mismatchPreview]
	}
	return out
}
