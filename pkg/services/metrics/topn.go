package metrics

import (
	"github.com/finboard/finboard/pkg/models/domain"
	"github.com/finboard/finboard/pkg/transform"
)

// TopN ranks candidates by metricField descending and truncates to n.
// Ties keep original fetch order (the sort is stable); n <= 0 yields an
// empty ranking. Extra fields are carried onto each entry when numeric.
func TopN(candidates []domain.Record, keyField, metricField string, n int, extraFields ...string) []domain.RankingEntry {
	if n <= 0 {
		return []domain.RankingEntry{}
	}
	sorted := transform.Sort(candidates, domain.SortSpec{Field: metricField, Desc: true})
	if n < len(sorted) {
		sorted = sorted[:n]
	}

	entries := make([]domain.RankingEntry, 0, len(sorted))
	for _, r := range sorted {
		value, _ := r.Number(metricField)
		entry := domain.RankingEntry{
			Key:   fieldString(r, keyField),
			Value: value,
		}
		for _, field := range extraFields {
			if v, ok := r.Number(field); ok {
				if entry.Extra == nil {
					entry.Extra = make(map[string]float64, len(extraFields))
				}
				entry.Extra[field] = v
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// RankGroups groups records by groupField, sums metricField per group and
// ranks the groups. The group's record count rides along as "count".
func RankGroups(records []domain.Record, groupField, metricField string, n int) []domain.RankingEntry {
	groups := transform.GroupBy(records, groupField)
	candidates := make([]domain.Record, 0, len(groups))
	for _, g := range groups {
		candidates = append(candidates, domain.Record{
			"key":   g.Key,
			"total": transform.SumField(g.Records, metricField),
			"count": float64(len(g.Records)),
		})
	}
	return TopN(candidates, "key", "total", n, "count")
}

func fieldString(r domain.Record, field string) string {
	if s := r.String(field); s != "" {
		return s
	}
	return transform.Key(r, field)
}
