package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trialscope/trialscope/internal/cmd/output"
	"github.com/trialscope/trialscope/internal/fetch"
	"github.com/trialscope/trialscope/pkg/logging"
	"github.com/trialscope/trialscope/pkg/trials"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch studies from the ClinicalTrials.gov API",
	Long: `Fetch retrieves all studies matching a condition from the
ClinicalTrials.gov v2 API, following pagination with a fixed delay
between pages, and saves the snapshot as CSV and optionally JSON.

The CSV snapshot uses the same columns as a ClinicalTrials.gov export,
so it can be fed straight back into the analyze command.`,
	Example: `  trialscope fetch --condition "breast cancer"
  trialscope fetch --condition melanoma --csv melanoma.csv --json melanoma.json`,
	RunE: runFetch,
}

var fetchFlags struct {
	condition string
	baseURL   string
	pageSize  int
	csvPath   string
	jsonPath  string
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchFlags.condition, "condition", "", "condition to search for (required)")
	fetchCmd.Flags().StringVar(&fetchFlags.baseURL, "base-url", fetch.DefaultBaseURL, "ClinicalTrials.gov API base URL")
	fetchCmd.Flags().IntVar(&fetchFlags.pageSize, "page-size", 0, "studies per API page (default 1000)")
	fetchCmd.Flags().StringVar(&fetchFlags.csvPath, "csv", "", "CSV output path (default <condition>.csv)")
	fetchCmd.Flags().StringVar(&fetchFlags.jsonPath, "json", "", "JSON output path (optional)")

	_ = fetchCmd.MarkFlagRequired("condition")
}

func runFetch(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	logger := logging.Default()

	opts := []fetch.Option{fetch.WithBaseURL(fetchFlags.baseURL)}
	if fetchFlags.pageSize > 0 {
		opts = append(opts, fetch.WithPageSize(fetchFlags.pageSize))
	}
	client := fetch.New(opts...)

	studies, err := client.Studies(cmd.Context(), fetchFlags.condition)
	if err != nil {
		return err
	}
	logger.Info().
		Str("condition", fetchFlags.condition).
		Int("studies", len(studies)).
		Msg("Fetched studies")

	csvPath := fetchFlags.csvPath
	if csvPath == "" {
		csvPath = conditionSlug(fetchFlags.condition) + ".csv"
	}
	if err := fetch.SaveCSV(csvPath, studies); err != nil {
		return err
	}
	paths := []string{csvPath}

	if fetchFlags.jsonPath != "" {
		if err := fetch.SaveJSON(fetchFlags.jsonPath, studies); err != nil {
			return err
		}
		paths = append(paths, fetchFlags.jsonPath)
	}

	return printFetchResult(studies, paths)
}

// conditionSlug turns a search condition into a file name stem.
func conditionSlug(condition string) string {
	return strings.ToLower(strings.Join(strings.Fields(condition), "_"))
}

func printFetchResult(studies []fetch.Study, paths []string) error {
	format, err := output.ParseFormat(globalFlags.Output)
	if err != nil {
		return err
	}
	formatter := output.NewFormatter(format)

	if format != output.FormatTable {
		return formatter.Format(os.Stdout, map[string]any{
			"studies": len(studies),
			"files":   paths,
		})
	}

	statuses := trials.AggregateBy(fetch.FlattenAll(studies), func(r trials.Record) string {
		return r.Status
	})
	data := output.Data{Headers: []string{"Status", "Studies"}}
	for _, s := range statuses {
		data.Rows = append(data.Rows, []string{s.Key, fmt.Sprintf("%d", s.Count)})
	}
	if err := formatter.Format(os.Stdout, data); err != nil {
		return err
	}
	fmt.Printf("\nSaved %d studies to %s\n", len(studies), strings.Join(paths, ", "))
	return nil
}
