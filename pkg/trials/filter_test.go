package trials

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func date(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

func datedRecord(id string, when *time.Time) Record {
	return Record{TrialID: id, RegistrationDate: when, Source: ClinicalTrialsGov}
}

func TestFilterByDate(t *testing.T) {
	records := []Record{
		datedRecord("NCT001", date(2019, 6, 1)),
		datedRecord("NCT002", date(2020, 1, 1)),
		datedRecord("NCT003", nil),
		datedRecord("NCT004", date(2023, 3, 15)),
		datedRecord("NCT005", date(2025, 12, 31)),
		datedRecord("NCT006", date(2026, 1, 1)),
	}

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	got := FilterByDate(records, start, end)

	var ids []string
	for _, r := range got {
		ids = append(ids, r.TrialID)
	}
	assert.Equal(t, []string{"NCT002", "NCT004", "NCT005"}, ids, "range is inclusive on both ends")
	assert.Len(t, records, 6, "input collection is untouched")
}

func TestFilterByDateInvertedRange(t *testing.T) {
	records := []Record{
		datedRecord("NCT001", date(2022, 1, 1)),
	}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Empty(t, FilterByDate(records, start, end), "end before start yields empty, not an error")
}

func TestFilterByDateDropsUndated(t *testing.T) {
	records := []Record{
		datedRecord("NCT001", nil),
		datedRecord("NCT002", nil),
	}

	wide := FilterByDate(records,
		time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Empty(t, wide, "records without a registration date never pass a date filter")
}

func TestFilterByDateFullRangeRoundTrip(t *testing.T) {
	records := []Record{
		datedRecord("NCT002", date(2021, 5, 2)),
		datedRecord("NCT001", date(2020, 1, 1)),
		datedRecord("NCT003", date(2024, 11, 30)),
	}

	minDate, maxDate, ok := DateBounds(records)
	assert.True(t, ok)

	got := FilterByDate(records, minDate, maxDate)
	if diff := cmp.Diff(records, got); diff != "" {
		t.Errorf("filtering by own min/max bounds changed the collection (-want +got):\n%s", diff)
	}
}

func TestFilterBySponsor(t *testing.T) {
	records := []Record{
		{TrialID: "A1", SponsorName: "Novartis Pharma AG"},
		{TrialID: "B1", SponsorName: "Biogen"},
		{TrialID: "A2", SponsorName: "Novartis Pharma AG"},
	}

	got := FilterBySponsor(records, "Novartis Pharma AG")
	assert.Len(t, got, 2)
	assert.Equal(t, "A1", got[0].TrialID)
	assert.Equal(t, "A2", got[1].TrialID)
}

func TestMostRecent(t *testing.T) {
	records := []Record{
		datedRecord("old", date(2018, 1, 1)),
		datedRecord("undated", nil),
		datedRecord("newest", date(2025, 6, 1)),
		datedRecord("mid", date(2022, 3, 1)),
	}

	got := MostRecent(records, 2)
	assert.Len(t, got, 2)
	assert.Equal(t, "newest", got[0].TrialID)
	assert.Equal(t, "mid", got[1].TrialID)
}

func TestMostRecentStableOnTies(t *testing.T) {
	records := []Record{
		datedRecord("first", date(2023, 1, 1)),
		datedRecord("second", date(2023, 1, 1)),
	}

	got := MostRecent(records, 5)
	assert.Equal(t, "first", got[0].TrialID)
	assert.Equal(t, "second", got[1].TrialID)
}

func TestDateBoundsEmpty(t *testing.T) {
	_, _, ok := DateBounds([]Record{datedRecord("x", nil)})
	assert.False(t, ok)
}
