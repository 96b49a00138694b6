// Package reconcile compares sponsor activity across trial registries.
//
// Cross-registry sponsor matching is explicitly heuristic: registries spell
// the same organization differently ("Novartis Pharma AG" vs "Novartis
// Pharmaceuticals Corporation"), so matches are reported as approximate and
// never treated as established identity. Trial records themselves are never
// deduplicated or merged across registries.
package reconcile

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/trialscope/trialscope/pkg/trials"
)

// legalSuffixes are corporate-form tokens stripped from the end of sponsor
// names before comparison.
var legalSuffixes = map[string]bool{
	"inc":          true,
	"incorporated": true,
	"ltd":          true,
	"limited":      true,
	"llc":          true,
	"plc":          true,
	"gmbh":         true,
	"ag":           true,
	"sa":           true,
	"srl":          true,
	"bv":           true,
	"hf":           true,
	"co":           true,
	"corp":         true,
	"corporation":  true,
	"company":      true,
}

var caseFolder = cases.Fold()

// NormalizeSponsor reduces a sponsor name to a comparison key: case-folded,
// punctuation removed, whitespace collapsed, trailing legal-form tokens
// stripped. It is a comparison key only, never a display name.
func NormalizeSponsor(name string) string {
	folded := caseFolder.String(name)

	var b strings.Builder
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '/':
			b.WriteRune(' ')
		}
		// Remaining punctuation is dropped entirely.
	}

	tokens := strings.Fields(b.String())
	for len(tokens) > 1 && legalSuffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

// Match is one approximate cross-registry sponsor correspondence.
type Match struct {
	// NameA and NameB are the display names as they appear in each registry.
	NameA string `json:"name_a"`
	NameB string `json:"name_b"`

	// CountA and CountB are the per-registry trial counts.
	CountA int `json:"count_a"`
	CountB int `json:"count_b"`

	// Kind is how the names matched: "normalized" for equal comparison
	// keys, "containment" when one key contains the other.
	Kind string `json:"kind"`

	// Approximate is always true. Name-based matching is evidence of
	// plausible identity, not proof of it.
	Approximate bool `json:"approximate"`
}

// Match kinds.
const (
	MatchNormalized  = "normalized"
	MatchContainment = "containment"
)

// minContainmentKey guards the containment heuristic against matching on
// very short keys like "ms" or "nih".
const minContainmentKey = 8

// Overlap finds sponsors that plausibly appear in both summary sets. Each
// sponsor from a matches at most once, against the first b sponsor whose
// normalized key is equal to or contains (or is contained by) its own.
// Results preserve the order of a.
func Overlap(a, b []trials.SponsorSummary) []Match {
	type keyed struct {
		summary trials.SponsorSummary
		key     string
	}

	keyedB := make([]keyed, 0, len(b))
	for _, s := range b {
		if key := NormalizeSponsor(s.SponsorName); key != "" {
			keyedB = append(keyedB, keyed{summary: s, key: key})
		}
	}

	var matches []Match
	for _, sa := range a {
		keyA := NormalizeSponsor(sa.SponsorName)
		if keyA == "" {
			continue
		}

		for _, kb := range keyedB {
			kind, ok := compareKeys(keyA, kb.key)
			if !ok {
				continue
			}
			matches = append(matches, Match{
				NameA:       sa.SponsorName,
				NameB:       kb.summary.SponsorName,
				CountA:      sa.TrialCount,
				CountB:      kb.summary.TrialCount,
				Kind:        kind,
				Approximate: true,
			})
			break
		}
	}
	return matches
}

// compareKeys reports whether two normalized keys plausibly name the same
// organization and which heuristic fired.
func compareKeys(a, b string) (string, bool) {
	if a == b {
		return MatchNormalized, true
	}
	if len(a) >= minContainmentKey && len(b) >= minContainmentKey &&
		(strings.Contains(a, b) || strings.Contains(b, a)) {
		return MatchContainment, true
	}
	return "", false
}
