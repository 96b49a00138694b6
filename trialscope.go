// Package trialscope analyzes clinical-trial registry exports. It loads
// ClinicalTrials.gov, WHO ICTRP and EU CTIS export files into a normalized
// record type, applies a date-range filter, aggregates by sponsor, sponsor
// class, phase, country and year, and writes Markdown reports and PNG
// charts. Registries are never merged: cross-registry sponsor comparison is
// a separate, explicitly approximate report.
package trialscope

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/trialscope/trialscope/internal/fetch"
	"github.com/trialscope/trialscope/pkg/charts"
	"github.com/trialscope/trialscope/pkg/constants"
	"github.com/trialscope/trialscope/pkg/errors"
	"github.com/trialscope/trialscope/pkg/logging"
	"github.com/trialscope/trialscope/pkg/reconcile"
	"github.com/trialscope/trialscope/pkg/registries"
	"github.com/trialscope/trialscope/pkg/report"
	"github.com/trialscope/trialscope/pkg/trials"
)

// Analyzer runs the load, filter, aggregate, report pipeline over one or
// more registry exports. Each run owns its own in-memory tables; nothing is
// shared or persisted across runs.
type Analyzer struct {
	config *config
}

// New creates an Analyzer with the given options.
func New(opts ...Option) (*Analyzer, error) {
	c := &config{
		outputDir:    "analysis",
		topSponsors:  constants.DefaultTopSponsors,
		recentTrials: constants.DefaultRecentTrials,
		charts:       true,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if len(c.sources) == 0 && c.condition == "" {
		return nil, errors.NewValidationError("sources", nil,
			"at least one registry source or a fetch condition is required")
	}

	return &Analyzer{config: c}, nil
}

// SourceResult is the outcome of analyzing one registry export.
type SourceResult struct {
	Registry    trials.Registry         `json:"registry"`
	Label       string                  `json:"label"`
	Total       int                     `json:"total"`
	Filtered    int                     `json:"filtered"`
	Undated     int                     `json:"undated"`
	TopSponsors []trials.SponsorSummary `json:"top_sponsors,omitempty"`
	Artifacts   []string                `json:"artifacts,omitempty"`
	Error       string                  `json:"error,omitempty"`
}

// Failed reports whether this source could not be analyzed.
func (r SourceResult) Failed() bool { return r.Error != "" }

// Result is the outcome of one Analyzer run: a per-source pass/fail tally
// plus the cross-registry comparison.
type Result struct {
	Timeframe string            `json:"timeframe,omitempty"`
	Sources   []SourceResult    `json:"sources"`
	Matches   []reconcile.Match `json:"matches,omitempty"`
	Artifacts []string          `json:"artifacts,omitempty"`
}

// FailedCount returns how many sources failed to analyze.
func (r *Result) FailedCount() int {
	n := 0
	for _, s := range r.Sources {
		if s.Failed() {
			n++
		}
	}
	return n
}

// analyzedView is one successfully analyzed source's filtered records,
// kept for the cross-source reports.
type analyzedView struct {
	registry trials.Registry
	prefix   string
	view     []trials.Record
	top      []trials.SponsorSummary
}

// Run executes the pipeline. A source that fails to load is recorded in
// the result and the run continues with the remaining sources; Run returns
// an error only when the output directories cannot be created or every
// source failed.
func (a *Analyzer) Run(ctx context.Context) (*Result, error) {
	logger := a.config.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	reportsDir := filepath.Join(a.config.outputDir, "reports")
	chartsDir := filepath.Join(a.config.outputDir, "charts")
	for _, dir := range []string{reportsDir, chartsDir} {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("create", dir, err)
		}
	}

	result := &Result{Timeframe: a.config.timeframe}
	var views []analyzedView

	for _, source := range a.config.sources {
		sr, view := a.analyzeFile(logger, source, reportsDir, chartsDir)
		result.Sources = append(result.Sources, sr)
		result.Artifacts = append(result.Artifacts, sr.Artifacts...)
		if !sr.Failed() {
			views = append(views, view)
		}
	}

	if a.config.condition != "" {
		sr, view := a.analyzeCondition(ctx, logger, reportsDir, chartsDir)
		result.Sources = append(result.Sources, sr)
		result.Artifacts = append(result.Artifacts, sr.Artifacts...)
		if !sr.Failed() {
			views = append(views, view)
		}
	}

	if result.FailedCount() == len(result.Sources) {
		return result, errors.New("all registry sources failed to load")
	}

	if err := a.writeTopSponsorsReport(result, reportsDir, views); err != nil {
		logger.Error().Err(err).Msg("Failed to write top sponsors report")
	}

	a.compare(logger, result, reportsDir, views)

	return result, nil
}

// analyzeFile loads and analyzes one registry export file.
func (a *Analyzer) analyzeFile(
	logger *zerolog.Logger,
	source Source,
	reportsDir, chartsDir string,
) (SourceResult, analyzedView) {
	sr := SourceResult{Registry: source.Registry, Label: source.Path}

	records, err := registries.Load(source.Registry, source.Path)
	if err != nil {
		logger.Error().
			Err(err).
			Str("registry", source.Registry.String()).
			Str("path", source.Path).
			Msg("Failed to load registry export")
		sr.Error = err.Error()
		return sr, analyzedView{}
	}

	return a.analyzeRecords(logger, sr, slug(source.Registry), records, reportsDir, chartsDir)
}

// analyzeCondition fetches studies for the configured condition from the
// ClinicalTrials.gov API and analyzes the snapshot like a file source.
func (a *Analyzer) analyzeCondition(
	ctx context.Context,
	logger *zerolog.Logger,
	reportsDir, chartsDir string,
) (SourceResult, analyzedView) {
	sr := SourceResult{
		Registry: trials.ClinicalTrialsGov,
		Label:    "api:" + a.config.condition,
	}

	studies, err := fetch.New(a.config.fetchOpts...).Studies(ctx, a.config.condition)
	if err != nil {
		logger.Error().
			Err(err).
			Str("condition", a.config.condition).
			Msg("Failed to fetch studies")
		sr.Error = err.Error()
		return sr, analyzedView{}
	}

	return a.analyzeRecords(logger, sr, slug(sr.Registry)+"_api", fetch.FlattenAll(studies), reportsDir, chartsDir)
}

// analyzeRecords is the shared per-source pipeline: filter, aggregate,
// summary report and charts. Report or chart failures are logged and the
// remaining artifacts are still attempted.
func (a *Analyzer) analyzeRecords(
	logger *zerolog.Logger,
	sr SourceResult,
	prefix string,
	records []trials.Record,
	reportsDir, chartsDir string,
) (SourceResult, analyzedView) {
	sr.Total = len(records)

	view := records
	if a.config.dateRange != nil {
		view = trials.FilterByDate(records, a.config.dateRange.Start, a.config.dateRange.End)
	}
	sr.Filtered = len(view)
	for _, r := range records {
		if r.RegistrationDate == nil {
			sr.Undated++
		}
	}

	summaries := trials.SponsorSummaries(view)
	n := a.config.topSponsors
	if n > len(summaries) {
		n = len(summaries)
	}
	sr.TopSponsors = summaries[:n]

	logger.Info().
		Str("registry", sr.Registry.String()).
		Str("source", sr.Label).
		Int("total", sr.Total).
		Int("filtered", sr.Filtered).
		Int("undated", sr.Undated).
		Msg("Analyzed registry source")

	summaryPath := filepath.Join(reportsDir, prefix+"_summary.md")
	if err := a.writeSummary(summaryPath, sr.Registry, view); err != nil {
		logger.Error().Err(err).Str("path", summaryPath).Msg("Failed to write summary report")
	} else {
		sr.Artifacts = append(sr.Artifacts, summaryPath)
	}

	if a.config.charts {
		sr.Artifacts = append(sr.Artifacts, a.renderCharts(logger, chartsDir, prefix, sr.Registry, view)...)
	}

	return sr, analyzedView{
		registry: sr.Registry,
		prefix:   prefix,
		view:     view,
		top:      sr.TopSponsors,
	}
}

func (a *Analyzer) writeSummary(path string, registry trials.Registry, view []trials.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer f.Close() //nolint:errcheck // report content is flushed by the writer

	return report.WriteSummary(f, report.Summary{
		Registry:  registry,
		Timeframe: a.config.timeframe,
		Records:   view,
		TopN:      a.config.topSponsors,
	})
}

// renderCharts renders the standard chart set for one registry view.
// Chart failures are logged individually; every chart is attempted.
func (a *Analyzer) renderCharts(
	logger *zerolog.Logger,
	chartsDir, prefix string,
	registry trials.Registry,
	view []trials.Record,
) []string {
	sponsors := trials.AggregateBy(view, func(r trials.Record) string { return r.SponsorName })
	classes := trials.AggregateBy(view, func(r trials.Record) string { return r.SponsorClass })
	phases := trials.AggregateBy(view, func(r trials.Record) string { return r.Phase })
	years := trials.CountByYear(view)

	title := func(what string) string {
		t := fmt.Sprintf("%s %s", registry, what)
		if a.config.timeframe != "" {
			t += fmt.Sprintf(" (%s)", a.config.timeframe)
		}
		return t
	}

	renders := []struct {
		path   string
		render func(path string) error
	}{
		{filepath.Join(chartsDir, prefix+"_top_sponsors.png"), func(p string) error {
			return charts.HorizontalBar(p, title("Top Sponsors"), trials.TopN(sponsors, a.config.topSponsors))
		}},
		{filepath.Join(chartsDir, prefix+"_sponsor_classes.png"), func(p string) error {
			return charts.Pie(p, title("Sponsor Classes"), classes)
		}},
		{filepath.Join(chartsDir, prefix+"_phases.png"), func(p string) error {
			return charts.Bar(p, title("Phase Distribution"), phases)
		}},
		{filepath.Join(chartsDir, prefix+"_trials_per_year.png"), func(p string) error {
			return charts.Line(p, title("Trials per Year"), years)
		}},
	}

	var written []string
	for _, r := range renders {
		if err := r.render(r.path); err != nil {
			logger.Error().Err(err).Str("path", r.path).Msg("Failed to render chart")
			continue
		}
		written = append(written, r.path)
	}
	return written
}

// writeTopSponsorsReport writes the cross-source top-sponsors report with
// each sponsor's most recent trials.
func (a *Analyzer) writeTopSponsorsReport(
	result *Result,
	reportsDir string,
	views []analyzedView,
) error {
	var sections []report.Section
	for _, v := range views {
		section := report.Section{Registry: v.registry, Total: len(v.view)}
		for _, sponsor := range v.top {
			if sponsor.SponsorName == constants.UnknownBucket {
				continue
			}
			section.Sponsors = append(section.Sponsors, report.SponsorTrials{
				Sponsor: sponsor,
				Recent:  trials.MostRecent(trials.FilterBySponsor(v.view, sponsor.SponsorName), a.config.recentTrials),
			})
		}
		sections = append(sections, section)
	}

	path := filepath.Join(reportsDir, "top_sponsors.md")
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer f.Close() //nolint:errcheck // report content is flushed by the writer

	if err := report.WriteTopSponsors(f, report.TopSponsors{
		Timeframe: a.config.timeframe,
		Sections:  sections,
	}); err != nil {
		return err
	}
	result.Artifacts = append(result.Artifacts, path)
	return nil
}

// compare runs the approximate sponsor-overlap comparison for every pair
// of successfully analyzed sources and writes one comparison report.
func (a *Analyzer) compare(
	logger *zerolog.Logger,
	result *Result,
	reportsDir string,
	views []analyzedView,
) {
	if len(views) < 2 {
		return
	}

	for i := 0; i < len(views); i++ {
		for j := i + 1; j < len(views); j++ {
			result.Matches = append(result.Matches, reconcile.Overlap(
				namedSummaries(views[i].view),
				namedSummaries(views[j].view),
			)...)
		}
	}

	path := filepath.Join(reportsDir, "cross_registry_comparison.md")
	f, err := os.Create(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("Failed to write comparison report")
		return
	}
	defer f.Close() //nolint:errcheck // report content is flushed by the writer

	if err := report.WriteComparison(f, a.config.timeframe, result.Matches); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("Failed to write comparison report")
		return
	}
	result.Artifacts = append(result.Artifacts, path)
}

// namedSummaries returns sponsor summaries with the Unknown bucket removed;
// two piles of unattributed trials are never comparison candidates.
func namedSummaries(view []trials.Record) []trials.SponsorSummary {
	summaries := trials.SponsorSummaries(view)
	out := summaries[:0:0]
	for _, s := range summaries {
		if s.SponsorName != constants.UnknownBucket {
			out = append(out, s)
		}
	}
	return out
}

// slug converts a registry name to a lower-case artifact file prefix.
func slug(registry trials.Registry) string {
	return strings.ToLower(registry.String())
}
