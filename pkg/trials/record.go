// Package trials defines the normalized clinical-trial record type shared by
// all registry sources, along with pure transformations over record
// collections: date-range filtering, key aggregation, and multi-valued field
// splitting. Nothing in this package performs I/O; loading registry exports
// into records is the job of the registries package.
package trials

import (
	"strings"
	"time"
)

// Registry identifies the trial registry a record was loaded from.
type Registry string

// Known registries.
const (
	// ClinicalTrialsGov is the U.S. ClinicalTrials.gov registry.
	ClinicalTrialsGov Registry = "CLINICALTRIALS_GOV"

	// WHOICTRP is the WHO International Clinical Trials Registry Platform.
	WHOICTRP Registry = "WHO_ICTRP"

	// EUCTIS is the EU Clinical Trials Information System.
	EUCTIS Registry = "EU_CTIS"
)

// String returns the string representation of a registry.
func (r Registry) String() string {
	return string(r)
}

// Registries returns all known registries.
func Registries() []Registry {
	return []Registry{ClinicalTrialsGov, WHOICTRP, EUCTIS}
}

// ParseRegistry resolves a registry from its canonical name or a common
// short alias (ctgov, ictrp, ctis). Matching is case insensitive.
func ParseRegistry(s string) (Registry, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ctgov", "clinicaltrials.gov", "clinicaltrials_gov":
		return ClinicalTrialsGov, true
	case "ictrp", "who_ictrp":
		return WHOICTRP, true
	case "ctis", "eu_ctis":
		return EUCTIS, true
	default:
		return "", false
	}
}

// Record is one trial row from a registry export after normalization.
// Optional fields are the empty string, or nil for RegistrationDate.
// Source is set once at load time and never mutated.
type Record struct {
	TrialID          string     `json:"trial_id"`
	Title            string     `json:"title"`
	SponsorName      string     `json:"sponsor_name,omitempty"`
	SponsorClass     string     `json:"sponsor_class,omitempty"`
	RegistrationDate *time.Time `json:"registration_date,omitempty"`
	Phase            string     `json:"phase,omitempty"`
	Countries        []string   `json:"countries,omitempty"`
	Status           string     `json:"status,omitempty"`
	Source           Registry   `json:"source_registry"`
}

// SponsorSummary is a per-sponsor aggregate computed fresh from a record
// collection on each report run. It is never persisted.
type SponsorSummary struct {
	SponsorName  string  `json:"sponsor_name"`
	TrialCount   int     `json:"trial_count"`
	ShareOfTotal float64 `json:"share_of_total"`
}

// SponsorSummaries computes per-sponsor aggregates for a record collection,
// ordered by descending trial count with ties in first-seen order. Records
// without a sponsor are summarized under the Unknown bucket.
func SponsorSummaries(records []Record) []SponsorSummary {
	counts := AggregateBy(records, func(r Record) string { return r.SponsorName })
	total := len(records)

	summaries := make([]SponsorSummary, 0, len(counts))
	for _, c := range counts {
		share := 0.0
		if total > 0 {
			share = float64(c.Count) / float64(total)
		}
		summaries = append(summaries, SponsorSummary{
			SponsorName:  c.Key,
			TrialCount:   c.Count,
			ShareOfTotal: share,
		})
	}
	return summaries
}

// SplitMultivalued splits a delimited multi-value field such as a country
// list, trimming surrounding whitespace from each piece and dropping empty
// pieces. The delimiter is registry specific: ClinicalTrials.gov and EU CTIS
// use commas, WHO ICTRP uses semicolons.
func SplitMultivalued(value, delimiter string) []string {
	if value == "" {
		return nil
	}

	pieces := strings.Split(value, delimiter)
	out := make([]string, 0, len(pieces))
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
