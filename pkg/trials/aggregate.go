package trials

import (
	"sort"
	"strconv"

	"github.com/trialscope/trialscope/pkg/constants"
)

// KeyCount is one bucket of an aggregation: an extracted key and the number
// of records that produced it.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// AggregateBy groups records by the key extracted by keyFn and returns one
// bucket per distinct key, ordered by descending count with ties broken by
// first-seen key order. Records whose extracted key is empty are grouped
// under the Unknown bucket instead of being dropped, so the bucket counts
// always sum to len(records).
func AggregateBy(records []Record, keyFn func(Record) string) []KeyCount {
	counts := make(map[string]int, len(records))
	order := make([]string, 0, len(records))

	for _, r := range records {
		key := keyFn(r)
		if key == "" {
			key = constants.UnknownBucket
		}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	firstSeen := make(map[string]int, len(order))
	for i, key := range order {
		firstSeen[key] = i
	}

	out := make([]KeyCount, 0, len(order))
	for _, key := range order {
		out = append(out, KeyCount{Key: key, Count: counts[key]})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSeen[out[i].Key] < firstSeen[out[j].Key]
	})

	return out
}

// TopN returns the first n buckets of an aggregation, or all of them when
// fewer exist.
func TopN(buckets []KeyCount, n int) []KeyCount {
	if n < 0 || n > len(buckets) {
		n = len(buckets)
	}
	return buckets[:n]
}

// CountByYear buckets dated records by registration year in ascending year
// order. Records without a registration date are omitted; callers that need
// a lossless total should aggregate on another key.
func CountByYear(records []Record) []KeyCount {
	counts := make(map[int]int)
	for _, r := range records {
		if r.RegistrationDate == nil {
			continue
		}
		counts[r.RegistrationDate.Year()]++
	}

	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]KeyCount, 0, len(years))
	for _, y := range years {
		out = append(out, KeyCount{Key: strconv.Itoa(y), Count: counts[y]})
	}
	return out
}
