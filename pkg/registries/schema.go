// Package registries maps heterogeneous registry export schemas onto the
// normalized trials.Record type. Each supported registry declares, in one
// place, which source column backs each canonical field, which delimiter its
// multi-valued country column uses, and how its sponsor-class vocabulary
// folds into common labels. Downstream code never branches on the registry.
package registries

import (
	"github.com/trialscope/trialscope/pkg/trials"
)

// Format is the tabular file format of a registry export.
type Format string

// Supported export formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Field is a canonical record field resolvable through a schema.
type Field string

// Canonical fields.
const (
	FieldTrialID      Field = "trial_id"
	FieldTitle        Field = "title"
	FieldSponsorName  Field = "sponsor_name"
	FieldSponsorClass Field = "sponsor_class"
	FieldDate         Field = "registration_date"
	FieldPhase        Field = "phase"
	FieldCountries    Field = "countries"
	FieldStatus       Field = "status"
)

// Schema describes how one registry's export maps onto canonical fields.
type Schema struct {
	Registry trials.Registry
	Format   Format

	// Columns maps canonical fields to source column headers. A canonical
	// field with no entry is absent for every record of this registry.
	Columns map[Field]string

	// CountryDelimiter separates values in the multi-valued country column.
	CountryDelimiter string

	// SponsorClasses folds the registry's free-text sponsor-class vocabulary
	// into common labels. Raw values without an entry pass through unchanged.
	SponsorClasses map[string]string
}

// ClassLabel returns the common label for a raw sponsor-class value, or the
// raw value itself when the vocabulary has no mapping for it.
func (s Schema) ClassLabel(raw string) string {
	if label, ok := s.SponsorClasses[raw]; ok {
		return label
	}
	return raw
}

// Column returns the source column header for a canonical field. ok is
// false when the registry export has no column for the field.
func (s Schema) Column(field Field) (string, bool) {
	col, ok := s.Columns[field]
	return col, ok
}

// schemas is the per-registry schema table, consulted once at load time.
var schemas = map[trials.Registry]Schema{
	trials.ClinicalTrialsGov: {
		Registry: trials.ClinicalTrialsGov,
		Format:   FormatCSV,
		Columns: map[Field]string{
			FieldTrialID:      "NCTId",
			FieldTitle:        "BriefTitle",
			FieldSponsorName:  "LeadSponsorName",
			FieldSponsorClass: "LeadSponsorClass",
			FieldDate:         "StudyFirstPostDate",
			FieldPhase:        "Phase",
			FieldCountries:    "LocationCountry",
			FieldStatus:       "OverallStatus",
		},
		CountryDelimiter: ",",
		SponsorClasses: map[string]string{
			"INDUSTRY":  "Industry",
			"NIH":       "Government",
			"FED":       "Government",
			"OTHER_GOV": "Government",
			"NETWORK":   "Academic/Other",
			"INDIV":     "Academic/Other",
			"OTHER":     "Academic/Other",
		},
	},
	trials.WHOICTRP: {
		Registry: trials.WHOICTRP,
		Format:   FormatXLSX,
		Columns: map[Field]string{
			FieldTrialID:     "TrialID",
			FieldTitle:       "Public_title",
			FieldSponsorName: "Primary_sponsor",
			FieldDate:        "Date_registration",
			FieldPhase:       "Phase",
			FieldCountries:   "Countries",
			FieldStatus:      "Recruitment_Status",
		},
		CountryDelimiter: ";",
		// ICTRP exports carry no sponsor-class column.
	},
	trials.EUCTIS: {
		Registry: trials.EUCTIS,
		Format:   FormatCSV,
		Columns: map[Field]string{
			FieldTrialID:      "Trial number",
			FieldTitle:        "Title of the trial",
			FieldSponsorName:  "Sponsor/Co-Sponsors",
			FieldSponsorClass: "Sponsor type",
			FieldDate:         "Decision date",
			FieldPhase:        "Trial phase",
			FieldCountries:    "Member State concerned",
			FieldStatus:       "Overall trial status",
		},
		CountryDelimiter: ",",
		SponsorClasses: map[string]string{
			"Pharmaceutical company":                      "Industry",
			"Hospital/Clinic/Other health care facility":  "Academic/Other",
			"University/Educational institution":          "Academic/Other",
			"Laboratory/Research/Testing facility":        "Academic/Other",
			"Patient organisation/association":            "Academic/Other",
			"Government institution/public body of a Member State": "Government",
		},
	},
}

// SchemaFor returns the schema for a registry. ok is false for registries
// without a declared schema.
func SchemaFor(registry trials.Registry) (Schema, bool) {
	s, ok := schemas[registry]
	return s, ok
}
