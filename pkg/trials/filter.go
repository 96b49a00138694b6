package trials

import (
	"sort"
	"time"
)

// FilterByDate returns the records whose registration date is present and
// falls within [start, end] inclusive. Records with an absent registration
// date are dropped. The input slice is never modified and the returned slice
// preserves input order. An inverted range (end before start) yields an
// empty result, not an error.
func FilterByDate(records []Record, start, end time.Time) []Record {
	if end.Before(start) {
		return nil
	}

	var out []Record
	for _, r := range records {
		if r.RegistrationDate == nil {
			continue
		}
		d := *r.RegistrationDate
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterBySponsor returns the records credited to the given sponsor name,
// preserving input order.
func FilterBySponsor(records []Record, sponsor string) []Record {
	var out []Record
	for _, r := range records {
		if r.SponsorName == sponsor {
			out = append(out, r)
		}
	}
	return out
}

// MostRecent returns up to n records ordered by descending registration
// date. Records without a registration date are excluded. The sort is
// stable, so records sharing a date keep their input order.
func MostRecent(records []Record, n int) []Record {
	dated := make([]Record, 0, len(records))
	for _, r := range records {
		if r.RegistrationDate != nil {
			dated = append(dated, r)
		}
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].RegistrationDate.After(*dated[j].RegistrationDate)
	})

	if n >= 0 && len(dated) > n {
		dated = dated[:n]
	}
	return dated
}

// DateBounds returns the earliest and latest registration dates present in
// the collection. ok is false when no record carries a date.
func DateBounds(records []Record) (minDate, maxDate time.Time, ok bool) {
	for _, r := range records {
		if r.RegistrationDate == nil {
			continue
		}
		d := *r.RegistrationDate
		if !ok {
			minDate, maxDate = d, d
			ok = true
			continue
		}
		if d.Before(minDate) {
			minDate = d
		}
		if d.After(maxDate) {
			maxDate = d
		}
	}
	return minDate, maxDate, ok
}
