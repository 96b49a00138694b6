package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialscope/trialscope/pkg/reconcile"
	"github.com/trialscope/trialscope/pkg/trials"
)

func testRecords() []trials.Record {
	d1 := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2023, 8, 15, 0, 0, 0, 0, time.UTC)
	return []trials.Record{
		{TrialID: "NCT01", Title: "First trial", SponsorName: "Biogen", SponsorClass: "Industry",
			RegistrationDate: &d1, Phase: "PHASE3", Status: "RECRUITING", Source: trials.ClinicalTrialsGov},
		{TrialID: "NCT02", Title: "Second trial", SponsorName: "Biogen", SponsorClass: "Industry",
			RegistrationDate: &d2, Phase: "PHASE2", Status: "COMPLETED", Source: trials.ClinicalTrialsGov},
		{TrialID: "NCT03", Title: "Third trial", Source: trials.ClinicalTrialsGov},
	}
}

func TestWriteSummary(t *testing.T) {
	var sb strings.Builder
	err := WriteSummary(&sb, Summary{
		Registry:  trials.ClinicalTrialsGov,
		Timeframe: "2020-2025",
		Records:   testRecords(),
		TopN:      5,
	})
	require.NoError(t, err)

	out := sb.String()
	assert.Contains(t, out, "# CLINICALTRIALS_GOV Trial Summary")
	assert.Contains(t, out, "3 trials in timeframe 2020-2025")
	assert.Contains(t, out, "registration dates 2021-03-01 to 2023-08-15")
	assert.Contains(t, out, "## Top Sponsors")
	assert.Contains(t, out, "Biogen")
	assert.Contains(t, out, "66.7%")
	assert.Contains(t, out, "Unknown", "absent sponsors surface as the Unknown bucket")
	assert.Contains(t, out, "## Trials per Year")
	assert.Contains(t, out, "2021")
}

func TestWriteTopSponsors(t *testing.T) {
	records := testRecords()
	var sb strings.Builder
	err := WriteTopSponsors(&sb, TopSponsors{
		Timeframe: "2020-2025",
		Sections: []Section{
			{
				Registry: trials.ClinicalTrialsGov,
				Total:    len(records),
				Sponsors: []SponsorTrials{
					{
						Sponsor: trials.SponsorSummary{SponsorName: "Biogen", TrialCount: 2},
						Recent:  trials.MostRecent(trials.FilterBySponsor(records, "Biogen"), 5),
					},
				},
			},
		},
	})
	require.NoError(t, err)

	out := sb.String()
	assert.Contains(t, out, "# Top Sponsors and Recent Trials (2020-2025)")
	assert.Contains(t, out, "## CLINICALTRIALS_GOV (3 trials)")
	assert.Contains(t, out, "1. Biogen — 2 trials")
	assert.Contains(t, out, "NCT02")
	// Most recent trial listed before the older one.
	assert.Less(t, strings.Index(out, "NCT02"), strings.Index(out, "NCT01"))
}

func TestWriteComparisonFlagsApproximate(t *testing.T) {
	var sb strings.Builder
	err := WriteComparison(&sb, "2020-2025", []reconcile.Match{
		{NameA: "Novartis Pharma AG", CountA: 11, NameB: "Novartis", CountB: 4,
			Kind: reconcile.MatchContainment, Approximate: true},
	})
	require.NoError(t, err)

	out := sb.String()
	assert.Contains(t, out, "heuristic")
	assert.Contains(t, out, "approximate")
	assert.Contains(t, out, "Novartis Pharma AG")
	assert.Contains(t, out, "containment")
}
