package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialscope/trialscope/pkg/trials"
)

func TestNormalizeSponsor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Novartis Pharma AG", "novartis pharma"},
		{"F. Hoffmann-La Roche AG", "f hoffmann la roche"},
		{"Biogen Idec Research Limited", "biogen idec research"},
		{"Tg Therapeutics Inc.", "tg therapeutics"},
		{"Eli Lilly and Company", "eli lilly and"},
		{"Helse Bergen HF", "helse bergen"},
		{"  PFIZER  ", "pfizer"},
		{"", ""},
		{"Inc", "inc"}, // a lone legal token is kept, never stripped to nothing
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSponsor(tt.in), "input %q", tt.in)
	}
}

func summaries(names ...string) []trials.SponsorSummary {
	out := make([]trials.SponsorSummary, 0, len(names))
	for i, n := range names {
		out = append(out, trials.SponsorSummary{SponsorName: n, TrialCount: i + 1})
	}
	return out
}

func TestOverlapNormalizedMatch(t *testing.T) {
	a := summaries("Novartis Pharma AG", "Indiana University")
	b := summaries("NOVARTIS PHARMA", "Helse Bergen HF")

	got := Overlap(a, b)
	require.Len(t, got, 1)
	assert.Equal(t, "Novartis Pharma AG", got[0].NameA)
	assert.Equal(t, "NOVARTIS PHARMA", got[0].NameB)
	assert.Equal(t, MatchNormalized, got[0].Kind)
	assert.True(t, got[0].Approximate, "matches are always flagged approximate")
}

func TestOverlapContainmentMatch(t *testing.T) {
	a := summaries("Assistance Publique - Hôpitaux de Paris")
	b := summaries("Assistance Publique Hopitaux De Paris APHP")

	got := Overlap(a, b)
	require.Len(t, got, 1)
	assert.Equal(t, MatchContainment, got[0].Kind)
}

func TestOverlapShortKeysNeverContainmentMatch(t *testing.T) {
	a := summaries("NIH")
	b := summaries("NIH Clinical Center Research Hospital")

	assert.Empty(t, Overlap(a, b), "short keys must not trigger containment")
}

func TestOverlapNoMatch(t *testing.T) {
	a := summaries("Biogen")
	b := summaries("Sanofi-Aventis R&D")

	assert.Empty(t, Overlap(a, b))
}

func TestOverlapEachSponsorMatchesOnce(t *testing.T) {
	a := summaries("Pfizer")
	b := summaries("Pfizer", "Pfizer Inc")

	got := Overlap(a, b)
	require.Len(t, got, 1)
	assert.Equal(t, "Pfizer", got[0].NameB, "first candidate wins")
}

func TestOverlapSkipsUnknownBucket(t *testing.T) {
	// Aggregations bucket absent sponsors under "Unknown"; two Unknown
	// buckets are not the same organization but they do share a key, so
	// callers filter them out before calling Overlap. Empty names are
	// skipped here regardless.
	a := []trials.SponsorSummary{{SponsorName: "", TrialCount: 3}}
	b := []trials.SponsorSummary{{SponsorName: "", TrialCount: 9}}

	assert.Empty(t, Overlap(a, b))
}
