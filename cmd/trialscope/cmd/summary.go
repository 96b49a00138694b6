package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/trialscope/trialscope/internal/cmd/output"
	"github.com/trialscope/trialscope/pkg/registries"
	"github.com/trialscope/trialscope/pkg/trials"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <registry> <file>",
	Short: "Print aggregate tables for one registry export",
	Long: `Summary loads a single registry export file and prints its sponsor,
sponsor-class, phase and per-year aggregates without writing any report
files. Registry is one of: ctgov, ictrp, ctis.`,
	Example: `  trialscope summary ctgov ctg-studies.csv
  trialscope summary ctis CTIS_trials.csv -o json`,
	Args: cobra.ExactArgs(2),
	RunE: runSummary,
}

var summaryTop int

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().IntVar(&summaryTop, "top", 10, "number of top sponsors to show")
}

func runSummary(cmd *cobra.Command, args []string) error {
	registry, ok := trials.ParseRegistry(args[0])
	if !ok {
		return fmt.Errorf("unknown registry %q: use ctgov, ictrp or ctis", args[0])
	}

	cmd.SilenceUsage = true

	records, err := registries.Load(registry, args[1])
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(globalFlags.Output)
	if err != nil {
		return err
	}
	formatter := output.NewFormatter(format)

	sponsors := trials.TopN(trials.AggregateBy(records, func(r trials.Record) string {
		return r.SponsorName
	}), summaryTop)
	classes := trials.AggregateBy(records, func(r trials.Record) string { return r.SponsorClass })
	phases := trials.AggregateBy(records, func(r trials.Record) string { return r.Phase })
	years := trials.CountByYear(records)

	if format != output.FormatTable {
		return formatter.Format(os.Stdout, map[string]any{
			"registry":        registry,
			"total":           len(records),
			"top_sponsors":    sponsors,
			"sponsor_classes": classes,
			"phases":          phases,
			"years":           years,
		})
	}

	fmt.Printf("%s: %d trials\n\n", registry, len(records))
	for _, section := range []struct {
		title   string
		header  string
		buckets []trials.KeyCount
	}{
		{"Top Sponsors", "Sponsor", sponsors},
		{"Sponsor Classes", "Class", classes},
		{"Phase Distribution", "Phase", phases},
		{"Trials per Year", "Year", years},
	} {
		fmt.Println(section.title)
		data := output.Data{Headers: []string{section.header, "Trials"}}
		for _, b := range section.buckets {
			data.Rows = append(data.Rows, []string{b.Key, strconv.Itoa(b.Count)})
		}
		if err := formatter.Format(os.Stdout, data); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}
