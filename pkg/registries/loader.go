package registries

import (
	"encoding/csv"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/xuri/excelize/v2"

	"github.com/trialscope/trialscope/pkg/errors"
	"github.com/trialscope/trialscope/pkg/trials"
)

// Load reads a registry export fully into memory and normalizes every row
// into a trials.Record using the registry's schema. Unparsable dates and
// missing optional columns degrade to absent values; the only error returned
// is a DataLoadError when the file cannot be opened, the registry is
// unknown, or the content is not tabular.
func Load(registry trials.Registry, path string) ([]trials.Record, error) {
	schema, ok := SchemaFor(registry)
	if !ok {
		return nil, errors.NewDataLoadError(registry.String(), path,
			errors.New("unknown registry"))
	}

	var rows [][]string
	var err error
	switch schema.Format {
	case FormatXLSX:
		rows, err = readXLSX(path)
	default:
		rows, err = readCSV(path)
	}
	if err != nil {
		return nil, errors.NewDataLoadError(registry.String(), path, err)
	}
	if len(rows) == 0 {
		return nil, errors.NewDataLoadError(registry.String(), path,
			errors.New("file has no header row"))
	}

	columns := indexColumns(rows[0], schema)
	records := make([]trials.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, normalize(row, columns, schema))
	}
	return records, nil
}

// readCSV reads an entire CSV file. Rows are allowed to have varying field
// counts; registry exports are frequently ragged.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only file

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// readXLSX reads the first sheet of a spreadsheet export.
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only file

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// indexColumns resolves each canonical field to a column index in the
// header row. Fields whose source column is missing stay unresolved and
// degrade to absent values for every record.
func indexColumns(header []string, schema Schema) map[Field]int {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.TrimSpace(h)] = i
	}

	columns := make(map[Field]int)
	for field, source := range schema.Columns {
		if i, ok := byName[source]; ok {
			columns[field] = i
		}
	}
	return columns
}

// normalize builds one record from a raw row. Source is set here, once, and
// never mutated afterwards.
func normalize(row []string, columns map[Field]int, schema Schema) trials.Record {
	return trials.Record{
		TrialID:          cell(row, columns, FieldTrialID),
		Title:            cell(row, columns, FieldTitle),
		SponsorName:      cell(row, columns, FieldSponsorName),
		SponsorClass:     schema.ClassLabel(cell(row, columns, FieldSponsorClass)),
		RegistrationDate: ParseDate(cell(row, columns, FieldDate)),
		Phase:            cell(row, columns, FieldPhase),
		Countries:        trials.SplitMultivalued(cell(row, columns, FieldCountries), schema.CountryDelimiter),
		Status:           cell(row, columns, FieldStatus),
		Source:           schema.Registry,
	}
}

// cell returns the trimmed value of a canonical field in a row, or the
// empty string when the field is unresolved or the row is too short.
func cell(row []string, columns map[Field]int, field Field) string {
	i, ok := columns[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ParseDate permissively parses a registry date string to a date-only value.
// Unparsable or empty input yields nil, never an error, so downstream logic
// stays branch-free on the happy path.
func ParseDate(value string) *time.Time {
	if value == "" {
		return nil
	}

	parsed, err := dateparse.ParseAny(value)
	if err != nil {
		return nil
	}

	d := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
