package source

import (
	"github.com/finboard/finboard/pkg/models/domain"
	"github.com/finboard/finboard/pkg/models/store"
)

// Procedure payloads are decoded here, once, at the adapter edge. Every
// decoder defaults missing or malformed fields (0 / empty) instead of
// failing, so derivers only ever see fully typed structures.

// DecodeSalesTotals reads the single-row sales_totals payload.
func DecodeSalesTotals(records []domain.Record) store.SalesTotals {
	if len(records) == 0 {
		return store.SalesTotals{}
	}
	r := records[0]
	revenue, _ := r.Number("total_revenue")
	orders, _ := r.Number("order_count")
	customers, _ := r.Number("active_customers")
	return store.SalesTotals{
		TotalRevenue:    revenue,
		OrderCount:      int(orders),
		ActiveCustomers: int(customers),
	}
}

// DecodeRanked reads top_customers / top_products rows.
func DecodeRanked(records []domain.Record) []store.RankedItem {
	items := make([]store.RankedItem, 0, len(records))
	for _, r := range records {
		amount, _ := r.Number("amount")
		count, _ := r.Number("entry_count")
		items = append(items, store.RankedItem{
			Name:   r.String("name"),
			Amount: amount,
			Count:  int(count),
		})
	}
	return items
}

// DecodeTrend reads sales_trend rows.
func DecodeTrend(records []domain.Record) []store.TrendEntry {
	entries := make([]store.TrendEntry, 0, len(records))
	for _, r := range records {
		amount, _ := r.Number("amount")
		count, _ := r.Number("entry_count")
		entries = append(entries, store.TrendEntry{
			Label:  r.String("period"),
			Amount: amount,
			Count:  int(count),
		})
	}
	return entries
}

// DecodePaymentStats reads the single-row payment_stats payload.
func DecodePaymentStats(records []domain.Record) store.PaymentStats {
	if len(records) == 0 {
		return store.PaymentStats{}
	}
	r := records[0]
	collection, _ := r.Number("average_collection_days")
	payment, _ := r.Number("average_payment_days")
	return store.PaymentStats{
		AverageCollectionDays: collection,
		AveragePaymentDays:    payment,
	}
}

// DecodeProfitLoss reads profit_loss rows. Line rows carry kind
// "revenue" or "expense" with category, name and amount; total rows
// carry kind "total_revenue" / "total_expenses". Absent totals stay 0.
func DecodeProfitLoss(records []domain.Record) store.ProfitLossStatement {
	var statement store.ProfitLossStatement
	revenue := newSectionBuilder()
	expenses := newSectionBuilder()

	for _, r := range records {
		amount, _ := r.Number("amount")
		switch r.String("kind") {
		case "revenue":
			revenue.add(r.String("category"), r.String("name"), amount)
		case "expense":
			expenses.add(r.String("category"), r.String("name"), amount)
		case "total_revenue":
			statement.TotalRevenue = amount
		case "total_expenses":
			statement.TotalExpenses = amount
		}
	}

	statement.Revenue = revenue.sections
	statement.Expenses = expenses.sections
	return statement
}

// DecodeBalanceSheet reads balance_sheet rows, keyed by side: "asset",
// "liability" or "equity". Unknown sides are dropped.
func DecodeBalanceSheet(records []domain.Record) store.BalanceSheetStatement {
	assets := newSectionBuilder()
	liabilities := newSectionBuilder()
	equity := newSectionBuilder()

	for _, r := range records {
		amount, _ := r.Number("amount")
		switch r.String("side") {
		case "asset":
			assets.add(r.String("category"), r.String("name"), amount)
		case "liability":
			liabilities.add(r.String("category"), r.String("name"), amount)
		case "equity":
			equity.add(r.String("category"), r.String("name"), amount)
		}
	}

	return store.BalanceSheetStatement{
		Assets:      assets.sections,
		Liabilities: liabilities.sections,
		Equity:      equity.sections,
	}
}

// sectionBuilder accumulates statement lines into categories in
// first-seen order.
type sectionBuilder struct {
	index    map[string]int
	sections []store.StatementSection
}

func newSectionBuilder() *sectionBuilder {
	return &sectionBuilder{index: make(map[string]int)}
}

func (b *sectionBuilder) add(category, name string, amount float64) {
	i, ok := b.index[category]
	if !ok {
		i = len(b.sections)
		b.index[category] = i
		b.sections = append(b.sections, store.StatementSection{Category: category})
	}
	b.sections[i].Items = append(b.sections[i].Items, store.StatementItem{Name: name, Amount: amount})
}
