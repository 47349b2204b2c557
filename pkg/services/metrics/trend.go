package metrics

import (
	"sort"

	"github.com/finboard/finboard/pkg/models/domain"
)

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
)

// Label returns the calendar bucket label for a timestamp. Labels are
// year-qualified so same-named months in different years never merge.
func (g Granularity) Label(t domain.Record, field string) (string, bool) {
	ts, ok := t.Time(field)
	if !ok {
		return "", false
	}
	if g == GranularityDay {
		return ts.Format("2006-01-02"), true
	}
	return ts.Format("2006-01"), true
}

// Trend buckets records by the calendar label of timeField, summing
// amountField per bucket. Records without a usable timestamp are dropped;
// each remaining record lands in exactly one bucket. Buckets come back in
// chronological order.
func Trend(records []domain.Record, timeField, amountField string, g Granularity) []domain.Bucket {
	index := make(map[string]int)
	var buckets []domain.Bucket
	for _, r := range records {
		label, ok := g.Label(r, timeField)
		if !ok {
			continue
		}
		i, seen := index[label]
		if !seen {
			i = len(buckets)
			index[label] = i
			buckets = append(buckets, domain.Bucket{Label: label})
		}
		if amount, ok := r.Number(amountField); ok {
			buckets[i].Sum += amount
		}
		buckets[i].Count++
	}

	// Labels sort lexically into chronological order for both formats.
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Label < buckets[j].Label })
	return buckets
}
