// Package metrics contains the report derivers. Each deriver is a pure
// function over a fetched snapshot (or decoded procedure payload) and
// holds no state across calls; re-running one on the same input yields
// identical output.
package metrics

import (
	"github.com/finboard/finboard/pkg/models/domain"
	"github.com/finboard/finboard/pkg/models/store"
	"github.com/finboard/finboard/pkg/transform"
)

// BuildSalesSummary computes headline sales figures from an order/invoice
// snapshot. Average order value is 0 when the snapshot is empty.
func BuildSalesSummary(orders []domain.Record, amountField string) domain.SalesSummary {
	revenue := transform.SumField(orders, amountField)
	count := len(orders)
	summary := domain.SalesSummary{
		TotalRevenue: revenue,
		OrderCount:   count,
	}
	if count > 0 {
		summary.AverageOrderValue = revenue / float64(count)
	}
	return summary
}

// MergeSalesDashboard reshapes server-computed dashboard aggregates into a
// SalesSummary. It is a pure merge step; nothing is recomputed except the
// average, which the procedure does not supply.
func MergeSalesDashboard(
	totals store.SalesTotals,
	topCustomers, topProducts []store.RankedItem,
	trend []store.TrendEntry,
) domain.SalesSummary {
	summary := domain.SalesSummary{
		TotalRevenue:    totals.TotalRevenue,
		OrderCount:      totals.OrderCount,
		ActiveCustomers: totals.ActiveCustomers,
		TopCustomers:    rankedToEntries(topCustomers),
		TopProducts:     rankedToEntries(topProducts),
		Trend:           trendToBuckets(trend),
	}
	if totals.OrderCount > 0 {
		summary.AverageOrderValue = totals.TotalRevenue / float64(totals.OrderCount)
	}
	return summary
}

func rankedToEntries(items []store.RankedItem) []domain.RankingEntry {
	entries := make([]domain.RankingEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, domain.RankingEntry{
			Key:   item.Name,
			Value: item.Amount,
			Extra: map[string]float64{"count": float64(item.Count)},
		})
	}
	return entries
}

func trendToBuckets(entries []store.TrendEntry) []domain.Bucket {
	buckets := make([]domain.Bucket, 0, len(entries))
	for _, e := range entries {
		buckets = append(buckets, domain.Bucket{Label: e.Label, Sum: e.Amount, Count: e.Count})
	}
	return buckets
}
