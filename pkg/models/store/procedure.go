package store

// Decoded shapes for RecordSource procedure payloads. The decoding
// boundary in services/source produces these once, at the adapter edge,
// so derivers never touch raw procedure records.

// SalesTotals carries server-computed dashboard headline figures.
type SalesTotals struct {
	TotalRevenue    float64
	OrderCount      int
	ActiveCustomers int
}

// RankedItem is one pre-aggregated ranking row.
type RankedItem struct {
	Name   string
	Amount float64
	Count  int
}

// TrendEntry is one pre-aggregated trend point.
type TrendEntry struct {
	Label  string
	Amount float64
	Count  int
}

// StatementItem is a single line of a financial statement section.
type StatementItem struct {
	Name   string
	Amount float64
}

// StatementSection is one categorized block of statement lines.
type StatementSection struct {
	Category string
	Items    []StatementItem
}

// ProfitLossStatement is the decoded profit & loss procedure payload.
// Totals default to 0 when the procedure omits them.
type ProfitLossStatement struct {
	Revenue       []StatementSection
	Expenses      []StatementSection
	TotalRevenue  float64
	TotalExpenses float64
}

// BalanceSheetStatement is the decoded balance sheet procedure payload.
type BalanceSheetStatement struct {
	Assets      []StatementSection
	Liabilities []StatementSection
	Equity      []StatementSection
}

// PaymentStats carries externally computed collection/payment metrics;
// this core passes them through without recomputing.
type PaymentStats struct {
	AverageCollectionDays float64
	AveragePaymentDays    float64
}
