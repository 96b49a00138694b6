package trialscope

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/trialscope/trialscope/internal/fetch"
	"github.com/trialscope/trialscope/pkg/trials"
)

// Option is a function that configures an Analyzer instance.
type Option func(*config) error

// Source is one registry export to analyze.
type Source struct {
	Registry trials.Registry
	Path     string
}

// DateRange is an inclusive calendar-date window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// config is the explicit run configuration. There is no module-level
// mutable state; every entry point receives its configuration through one
// of these.
type config struct {
	sources      []Source
	condition    string
	fetchOpts    []fetch.Option
	dateRange    *DateRange
	timeframe    string
	outputDir    string
	topSponsors  int
	recentTrials int
	charts       bool
	logger       *zerolog.Logger
}

// WithSource adds a registry export file to the run.
func WithSource(registry trials.Registry, path string) Option {
	return func(c *config) error {
		c.sources = append(c.sources, Source{Registry: registry, Path: path})
		return nil
	}
}

// WithCondition adds a live ClinicalTrials.gov API source: all studies
// matching the condition are fetched and analyzed alongside any file
// sources. The optional fetch options configure the API client.
func WithCondition(condition string, opts ...fetch.Option) Option {
	return func(c *config) error {
		c.condition = condition
		c.fetchOpts = opts
		return nil
	}
}

// WithDateRange restricts the analysis to trials registered within the
// inclusive [start, end] window. The label names the timeframe in reports
// and artifact paths, e.g. "2020-2025".
func WithDateRange(start, end time.Time, label string) Option {
	return func(c *config) error {
		c.dateRange = &DateRange{Start: start, End: end}
		c.timeframe = label
		return nil
	}
}

// WithOutputDir configures where reports and charts are written.
func WithOutputDir(dir string) Option {
	return func(c *config) error {
		c.outputDir = dir
		return nil
	}
}

// WithTopSponsors configures how many leading sponsors reports cover.
func WithTopSponsors(n int) Option {
	return func(c *config) error {
		c.topSponsors = n
		return nil
	}
}

// WithRecentTrials configures how many most recent trials are listed per
// top sponsor.
func WithRecentTrials(n int) Option {
	return func(c *config) error {
		c.recentTrials = n
		return nil
	}
}

// WithCharts configures whether PNG charts are rendered alongside reports.
func WithCharts(enabled bool) Option {
	return func(c *config) error {
		c.charts = enabled
		return nil
	}
}

// WithLogger configures the logger used during the run.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}
