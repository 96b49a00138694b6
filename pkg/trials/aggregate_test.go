package trials

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sponsorKey(r Record) string { return r.SponsorName }

func TestAggregateBy(t *testing.T) {
	records := []Record{
		{SponsorName: "A"},
		{SponsorName: "A"},
		{SponsorName: ""},
	}

	got := AggregateBy(records, sponsorKey)
	assert.Equal(t, []KeyCount{
		{Key: "A", Count: 2},
		{Key: "Unknown", Count: 1},
	}, got)
}

func TestAggregateByCountsSumToTotal(t *testing.T) {
	records := []Record{
		{SponsorName: "Roche"},
		{SponsorName: ""},
		{SponsorName: "Biogen"},
		{SponsorName: "Roche"},
		{SponsorName: "Sanofi"},
		{SponsorName: ""},
	}

	got := AggregateBy(records, sponsorKey)

	sum := 0
	for _, b := range got {
		sum += b.Count
	}
	assert.Equal(t, len(records), sum, "no record may be lost or double-counted")
}

func TestAggregateByTiesKeepFirstSeenOrder(t *testing.T) {
	records := []Record{
		{SponsorName: "Beta"},
		{SponsorName: "Alpha"},
		{SponsorName: "Beta"},
		{SponsorName: "Alpha"},
		{SponsorName: "Gamma"},
	}

	got := AggregateBy(records, sponsorKey)
	assert.Equal(t, []KeyCount{
		{Key: "Beta", Count: 2},
		{Key: "Alpha", Count: 2},
		{Key: "Gamma", Count: 1},
	}, got)
}

func TestAggregateByEmpty(t *testing.T) {
	assert.Empty(t, AggregateBy(nil, sponsorKey))
}

func TestTopN(t *testing.T) {
	buckets := []KeyCount{
		{Key: "A", Count: 5},
		{Key: "B", Count: 3},
		{Key: "C", Count: 1},
	}

	assert.Len(t, TopN(buckets, 2), 2)
	assert.Len(t, TopN(buckets, 10), 3)
	assert.Len(t, TopN(buckets, -1), 3)
}

func TestCountByYear(t *testing.T) {
	records := []Record{
		datedRecord("a", date(2021, 3, 1)),
		datedRecord("b", date(2023, 7, 9)),
		datedRecord("c", date(2021, 12, 31)),
		datedRecord("d", nil),
	}

	got := CountByYear(records)
	assert.Equal(t, []KeyCount{
		{Key: "2021", Count: 2},
		{Key: "2023", Count: 1},
	}, got)
}

func TestSponsorSummaries(t *testing.T) {
	records := []Record{
		{SponsorName: "Roche"},
		{SponsorName: "Roche"},
		{SponsorName: "Biogen"},
		{SponsorName: ""},
	}

	got := SponsorSummaries(records)
	assert.Len(t, got, 3)
	assert.Equal(t, "Roche", got[0].SponsorName)
	assert.Equal(t, 2, got[0].TrialCount)
	assert.InDelta(t, 0.5, got[0].ShareOfTotal, 1e-9)
	assert.Equal(t, "Unknown", got[2].SponsorName)
}
