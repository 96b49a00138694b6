package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/trialscope/trialscope"
	"github.com/trialscope/trialscope/internal/cmd/output"
	"github.com/trialscope/trialscope/pkg/logging"
	"github.com/trialscope/trialscope/pkg/trials"
)

// timeframes are the named analysis windows selectable with --timeframe.
var timeframes = map[string]trialscope.DateRange{
	"2020-2025": {
		Start: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	},
	"2001-2025": {
		Start: time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze registry export files",
	Long: `Analyze loads one or more registry export files, filters them to the
selected timeframe, and writes per-registry summary reports, charts, a
top-sponsors report and a cross-registry sponsor comparison.

Sponsor comparison across registries is name-based and approximate;
trial records are never merged or deduplicated across registries.`,
	Example: `  trialscope analyze --ctgov ctg-studies.csv --timeframe 2020-2025
  trialscope analyze --ctgov ctg-studies.csv --ictrp ICTRP.xlsx --ctis CTIS_trials.csv --timeframe both
  trialscope analyze --ctis CTIS_trials.csv --out-dir results --no-charts`,
	RunE: runAnalyze,
}

var analyzeFlags struct {
	ctgov     string
	ictrp     string
	ctis      string
	condition string
	timeframe string
	outDir    string
	top       int
	recent    int
	noCharts  bool
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeFlags.ctgov, "ctgov", "", "ClinicalTrials.gov CSV export")
	analyzeCmd.Flags().StringVar(&analyzeFlags.ictrp, "ictrp", "", "WHO ICTRP XLSX export")
	analyzeCmd.Flags().StringVar(&analyzeFlags.ctis, "ctis", "", "EU CTIS CSV export")
	analyzeCmd.Flags().StringVar(&analyzeFlags.condition, "condition", "",
		"also fetch and analyze ClinicalTrials.gov API studies for this condition")
	analyzeCmd.Flags().StringVar(&analyzeFlags.timeframe, "timeframe", "2020-2025",
		"analysis window: 2020-2025, 2001-2025, or both")
	analyzeCmd.Flags().StringVar(&analyzeFlags.outDir, "out-dir", "analysis", "output directory for reports and charts")
	analyzeCmd.Flags().IntVar(&analyzeFlags.top, "top", 0, "number of top sponsors per registry (default 5)")
	analyzeCmd.Flags().IntVar(&analyzeFlags.recent, "recent", 0, "recent trials listed per top sponsor (default 5)")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.noCharts, "no-charts", false, "skip chart rendering")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	applyConfigDefaults(cmd)

	sources := analyzeSources()
	if len(sources) == 0 && analyzeFlags.condition == "" {
		return fmt.Errorf("at least one of --ctgov, --ictrp, --ctis or --condition is required")
	}

	labels, err := timeframeLabels(analyzeFlags.timeframe)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	var results []*trialscope.Result
	for _, label := range labels {
		result, err := runTimeframe(cmd, sources, label)
		if err != nil {
			return err
		}
		results = append(results, result)
	}

	if err := printAnalyzeResults(results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		failed += r.FailedCount()
	}
	if failed > 0 {
		return fmt.Errorf("%d registry source(s) failed to analyze", failed)
	}
	return nil
}

// applyConfigDefaults fills unset flags from the viper config file, so
// source paths, the output directory and the fetch condition can live in
// .trialscope.yaml instead of the command line.
func applyConfigDefaults(cmd *cobra.Command) {
	for _, entry := range []struct {
		flag   string
		target *string
	}{
		{"ctgov", &analyzeFlags.ctgov},
		{"ictrp", &analyzeFlags.ictrp},
		{"ctis", &analyzeFlags.ctis},
		{"condition", &analyzeFlags.condition},
		{"out-dir", &analyzeFlags.outDir},
	} {
		if !cmd.Flags().Changed(entry.flag) {
			if v := viper.GetString(entry.flag); v != "" {
				*entry.target = v
			}
		}
	}
}

func analyzeSources() []trialscope.Source {
	var sources []trialscope.Source
	if analyzeFlags.ctgov != "" {
		sources = append(sources, trialscope.Source{Registry: trials.ClinicalTrialsGov, Path: analyzeFlags.ctgov})
	}
	if analyzeFlags.ictrp != "" {
		sources = append(sources, trialscope.Source{Registry: trials.WHOICTRP, Path: analyzeFlags.ictrp})
	}
	if analyzeFlags.ctis != "" {
		sources = append(sources, trialscope.Source{Registry: trials.EUCTIS, Path: analyzeFlags.ctis})
	}
	return sources
}

// timeframeLabels resolves the --timeframe flag into one or two named windows.
func timeframeLabels(flag string) ([]string, error) {
	if flag == "both" {
		return []string{"2020-2025", "2001-2025"}, nil
	}
	if _, ok := timeframes[flag]; !ok {
		return nil, fmt.Errorf("unknown timeframe %q: use 2020-2025, 2001-2025 or both", flag)
	}
	return []string{flag}, nil
}

// runTimeframe runs one full analysis for one named window. When several
// windows run, each gets its own subdirectory under the output directory.
func runTimeframe(cmd *cobra.Command, sources []trialscope.Source, label string) (*trialscope.Result, error) {
	window := timeframes[label]

	outDir := analyzeFlags.outDir
	if analyzeFlags.timeframe == "both" {
		outDir = filepath.Join(outDir, label)
	}

	opts := []trialscope.Option{
		trialscope.WithDateRange(window.Start, window.End, label),
		trialscope.WithOutputDir(outDir),
		trialscope.WithCharts(!analyzeFlags.noCharts),
		trialscope.WithLogger(logging.Default()),
	}
	for _, source := range sources {
		opts = append(opts, trialscope.WithSource(source.Registry, source.Path))
	}
	if analyzeFlags.condition != "" {
		opts = append(opts, trialscope.WithCondition(analyzeFlags.condition))
	}
	if analyzeFlags.top > 0 {
		opts = append(opts, trialscope.WithTopSponsors(analyzeFlags.top))
	}
	if analyzeFlags.recent > 0 {
		opts = append(opts, trialscope.WithRecentTrials(analyzeFlags.recent))
	}

	analyzer, err := trialscope.New(opts...)
	if err != nil {
		return nil, err
	}

	result, err := analyzer.Run(cmd.Context())
	if err != nil {
		return result, err
	}
	return result, nil
}

// printAnalyzeResults writes the per-source tally in the selected format.
func printAnalyzeResults(results []*trialscope.Result) error {
	format, err := output.ParseFormat(globalFlags.Output)
	if err != nil {
		return err
	}
	formatter := output.NewFormatter(format)

	if format != output.FormatTable {
		return formatter.Format(os.Stdout, results)
	}

	data := output.Data{
		Headers: []string{"Timeframe", "Registry", "Total", "In Window", "Undated", "Status"},
	}
	for _, result := range results {
		for _, s := range result.Sources {
			status := "ok"
			if s.Failed() {
				status = "failed: " + s.Error
			}
			data.Rows = append(data.Rows, []string{
				result.Timeframe,
				s.Registry.String(),
				strconv.Itoa(s.Total),
				strconv.Itoa(s.Filtered),
				strconv.Itoa(s.Undated),
				status,
			})
		}
	}
	return formatter.Format(os.Stdout, data)
}
