package fetch

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"

	"github.com/trialscope/trialscope/pkg/constants"
	"github.com/trialscope/trialscope/pkg/errors"
	"github.com/trialscope/trialscope/pkg/registries"
	"github.com/trialscope/trialscope/pkg/trials"
)

// Study is the subset of the nested API study document this tool consumes.
type Study struct {
	ProtocolSection struct {
		IdentificationModule struct {
			NCTID      string `json:"nctId"`
			BriefTitle string `json:"briefTitle"`
		} `json:"identificationModule"`
		StatusModule struct {
			OverallStatus            string `json:"overallStatus"`
			StudyFirstPostDateStruct struct {
				Date string `json:"date"`
			} `json:"studyFirstPostDateStruct"`
		} `json:"statusModule"`
		DesignModule struct {
			StudyType string   `json:"studyType"`
			Phases    []string `json:"phases"`
		} `json:"designModule"`
		SponsorCollaboratorsModule struct {
			LeadSponsor struct {
				Name  string `json:"name"`
				Class string `json:"class"`
			} `json:"leadSponsor"`
		} `json:"sponsorCollaboratorsModule"`
		ContactsLocationsModule struct {
			Locations []struct {
				Country string `json:"country"`
			} `json:"locations"`
		} `json:"contactsLocationsModule"`
	} `json:"protocolSection"`
}

// countries returns the distinct location countries in first-seen order.
func (s Study) countries() []string {
	seen := make(map[string]bool)
	var out []string
	for _, loc := range s.ProtocolSection.ContactsLocationsModule.Locations {
		if loc.Country == "" || seen[loc.Country] {
			continue
		}
		seen[loc.Country] = true
		out = append(out, loc.Country)
	}
	return out
}

// Flatten normalizes one nested API study into a trial record.
func Flatten(s Study) trials.Record {
	ctgov, _ := registries.SchemaFor(trials.ClinicalTrialsGov)
	return trials.Record{
		TrialID:          s.ProtocolSection.IdentificationModule.NCTID,
		Title:            s.ProtocolSection.IdentificationModule.BriefTitle,
		SponsorName:      s.ProtocolSection.SponsorCollaboratorsModule.LeadSponsor.Name,
		SponsorClass:     ctgov.ClassLabel(s.ProtocolSection.SponsorCollaboratorsModule.LeadSponsor.Class),
		RegistrationDate: registries.ParseDate(s.ProtocolSection.StatusModule.StudyFirstPostDateStruct.Date),
		Phase:            strings.Join(s.ProtocolSection.DesignModule.Phases, "|"),
		Countries:        s.countries(),
		Status:           s.ProtocolSection.StatusModule.OverallStatus,
		Source:           trials.ClinicalTrialsGov,
	}
}

// FlattenAll normalizes a fetched study list.
func FlattenAll(studies []Study) []trials.Record {
	records := make([]trials.Record, 0, len(studies))
	for _, s := range studies {
		records = append(records, Flatten(s))
	}
	return records
}

// csvHeader matches the ClinicalTrials.gov export schema, so snapshots
// written here load back through registries.Load unchanged.
var csvHeader = []string{
	"NCTId", "BriefTitle", "LeadSponsorName", "LeadSponsorClass",
	"StudyFirstPostDate", "Phase", "LocationCountry", "OverallStatus",
}

// SaveCSV writes fetched studies as a ClinicalTrials.gov-shaped CSV snapshot.
func SaveCSV(path string, studies []Study) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer f.Close() //nolint:errcheck // flushed and synced via writer below

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return errors.WrapIO("write", path, err)
	}

	for _, s := range studies {
		ps := s.ProtocolSection
		row := []string{
			ps.IdentificationModule.NCTID,
			ps.IdentificationModule.BriefTitle,
			ps.SponsorCollaboratorsModule.LeadSponsor.Name,
			ps.SponsorCollaboratorsModule.LeadSponsor.Class,
			ps.StatusModule.StudyFirstPostDateStruct.Date,
			strings.Join(ps.DesignModule.Phases, "|"),
			strings.Join(s.countries(), ", "),
			ps.StatusModule.OverallStatus,
		}
		if err := w.Write(row); err != nil {
			return errors.WrapIO("write", path, err)
		}
	}

	w.Flush()
	return errors.WrapIO("write", path, w.Error())
}

// SaveJSON writes the raw study documents as a JSON snapshot.
func SaveJSON(path string, studies []Study) error {
	data, err := json.MarshalIndent(studies, "", "  ")
	if err != nil {
		return errors.WrapIO("encode", path, err)
	}
	return errors.WrapIO("write", path, os.WriteFile(path, data, constants.FilePermissions))
}
