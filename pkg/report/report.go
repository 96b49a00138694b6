// Package report renders Markdown reports from aggregated trial tables.
package report

import (
	"fmt"
	"io"

	md "github.com/nao1215/markdown"

	"github.com/trialscope/trialscope/pkg/reconcile"
	"github.com/trialscope/trialscope/pkg/trials"
)

// absentCell marks an absent optional value in report tables.
const absentCell = "N/A"

// Summary is the input for a per-registry summary report.
type Summary struct {
	Registry  trials.Registry
	Timeframe string
	Records   []trials.Record
	TopN      int
}

// WriteSummary renders a per-registry summary: totals, date coverage, top
// sponsors with share of total, and sponsor-class and phase distributions.
func WriteSummary(w io.Writer, s Summary) error {
	doc := md.NewMarkdown(w).
		H1(fmt.Sprintf("%s Trial Summary", s.Registry)).
		PlainText(coverageLine(s)).
		LF()

	doc.H2("Top Sponsors")
	doc.Table(sponsorTable(s.Records, s.TopN))
	doc.LF()

	doc.H2("Sponsor Classes")
	doc.Table(distributionTable("Class", trials.AggregateBy(s.Records, func(r trials.Record) string {
		return r.SponsorClass
	})))
	doc.LF()

	doc.H2("Phase Distribution")
	doc.Table(distributionTable("Phase", trials.AggregateBy(s.Records, func(r trials.Record) string {
		return r.Phase
	})))
	doc.LF()

	doc.H2("Trials per Year")
	doc.Table(distributionTable("Year", trials.CountByYear(s.Records)))

	return doc.Build()
}

// coverageLine summarizes collection size and date coverage in one sentence.
func coverageLine(s Summary) string {
	line := fmt.Sprintf("%d trials", len(s.Records))
	if s.Timeframe != "" {
		line += fmt.Sprintf(" in timeframe %s", s.Timeframe)
	}
	if minDate, maxDate, ok := trials.DateBounds(s.Records); ok {
		line += fmt.Sprintf(", registration dates %s to %s",
			minDate.Format("2006-01-02"), maxDate.Format("2006-01-02"))
	}
	return line + "."
}

func sponsorTable(records []trials.Record, topN int) md.TableSet {
	summaries := trials.SponsorSummaries(records)
	if topN > 0 && len(summaries) > topN {
		summaries = summaries[:topN]
	}

	rows := make([][]string, 0, len(summaries))
	for i, s := range summaries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			s.SponsorName,
			fmt.Sprintf("%d", s.TrialCount),
			fmt.Sprintf("%.1f%%", s.ShareOfTotal*100),
		})
	}
	return md.TableSet{
		Header: []string{"Rank", "Sponsor", "Trials", "Share"},
		Rows:   rows,
	}
}

func distributionTable(label string, buckets []trials.KeyCount) md.TableSet {
	rows := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, []string{b.Key, fmt.Sprintf("%d", b.Count)})
	}
	return md.TableSet{
		Header: []string{label, "Trials"},
		Rows:   rows,
	}
}

// SponsorTrials pairs one leading sponsor with its most recent trials.
type SponsorTrials struct {
	Sponsor trials.SponsorSummary
	Recent  []trials.Record
}

// Section is one registry's slice of a top-sponsors report.
type Section struct {
	Registry trials.Registry
	Total    int
	Sponsors []SponsorTrials
}

// TopSponsors is the input for the top-sponsors-and-recent-trials report.
type TopSponsors struct {
	Timeframe string
	Sections  []Section
}

// WriteTopSponsors renders the leading sponsors of each registry together
// with each sponsor's most recent trials.
func WriteTopSponsors(w io.Writer, r TopSponsors) error {
	title := "Top Sponsors and Recent Trials"
	if r.Timeframe != "" {
		title += fmt.Sprintf(" (%s)", r.Timeframe)
	}
	doc := md.NewMarkdown(w).H1(title)

	for _, section := range r.Sections {
		doc.H2(fmt.Sprintf("%s (%d trials)", section.Registry, section.Total))

		for i, st := range section.Sponsors {
			doc.H3(fmt.Sprintf("%d. %s (%d trials)", i+1, st.Sponsor.SponsorName, st.Sponsor.TrialCount))

			rows := make([][]string, 0, len(st.Recent))
			for _, rec := range st.Recent {
				rows = append(rows, []string{
					rec.TrialID,
					rec.Title,
					formatDate(rec),
					orAbsent(rec.Phase),
					orAbsent(rec.Status),
				})
			}
			doc.Table(md.TableSet{
				Header: []string{"Trial ID", "Title", "Registered", "Phase", "Status"},
				Rows:   rows,
			}).LF()
		}
	}

	return doc.Build()
}

// WriteComparison renders heuristic cross-registry sponsor matches. The
// report states that matching is approximate; name similarity across
// registries is never presented as established identity.
func WriteComparison(w io.Writer, timeframe string, matches []reconcile.Match) error {
	title := "Cross-Registry Sponsor Overlap"
	if timeframe != "" {
		title += fmt.Sprintf(" (%s)", timeframe)
	}
	doc := md.NewMarkdown(w).
		H1(title).
		PlainText("Sponsor matching across registries is heuristic, based on "+
			"normalized name comparison. Every match below is approximate and "+
			"may pair distinct organizations with similar names.").
		LF()

	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, []string{
			m.NameA,
			fmt.Sprintf("%d", m.CountA),
			m.NameB,
			fmt.Sprintf("%d", m.CountB),
			m.Kind,
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Sponsor (A)", "Trials (A)", "Sponsor (B)", "Trials (B)", "Match"},
		Rows:   rows,
	})

	return doc.Build()
}

func formatDate(r trials.Record) string {
	if r.RegistrationDate == nil {
		return absentCell
	}
	return r.RegistrationDate.Format("2006-01-02")
}

func orAbsent(v string) string {
	if v == "" {
		return absentCell
	}
	return v
}
