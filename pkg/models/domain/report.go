package domain

import "time"

// Bucket is a named accumulation window (a calendar period or an aging
// range) holding running totals.
type Bucket struct {
	Label string
	Sum   float64
	Count int
}

// RankingEntry is one row of a top-N ranking, ordered by Value descending.
// Extra carries secondary metrics keyed by field name.
type RankingEntry struct {
	Key   string
	Value float64
	Extra map[string]float64
}

// SalesSummary is the dashboard headline model.
type SalesSummary struct {
	TotalRevenue      float64
	OrderCount        int
	AverageOrderValue float64
	ActiveCustomers   int
	TopCustomers      []RankingEntry
	TopProducts       []RankingEntry
	Trend             []Bucket
}

// AgingRow summarises one subject's outstanding amounts by days overdue.
// Total always equals the sum of the five bucket fields.
type AgingRow struct {
	Subject    string
	Current    float64
	Days1To30  float64
	Days31To60 float64
	Days61To90 float64
	DaysOver90 float64
	Total      float64
}

// AgingReport is a receivables or payables aging statement as of a date.
// AveragePeriodDays is supplied upstream and passed through unmodified.
type AgingReport struct {
	AsOf              time.Time
	Rows              []AgingRow
	Total             AgingRow
	AveragePeriodDays float64
}

// LineItem is a single named amount inside a financial section.
type LineItem struct {
	Name   string
	Amount float64
}

// FinancialSection groups line items under a category with its total.
type FinancialSection struct {
	Category string
	Items    []LineItem
	Total    float64
}

// ProfitLoss is the profit & loss statement model. NetProfit may be
// negative; the sign drives presentation only.
type ProfitLoss struct {
	Revenue       []FinancialSection
	Expenses      []FinancialSection
	TotalRevenue  float64
	TotalExpenses float64
	NetProfit     float64
}

// BalanceSheet sections assets, liabilities and equity. Balanced and
// Delta report whether assets equal liabilities plus equity; a mismatch
// is diagnostic, never an error.
type BalanceSheet struct {
	Assets           []FinancialSection
	Liabilities      []FinancialSection
	Equity           []FinancialSection
	TotalAssets      float64
	TotalLiabilities float64
	TotalEquity      float64
	Balanced         bool
	Delta            float64
}

// EngagementSummary counts recorded events for one subject by event type.
type EngagementSummary struct {
	SubjectID string
	Events    []Bucket
	Total     int
}

// ReportModel is the assembled, ready-to-render result of a report build.
// Exactly one of the report fields is populated, according to Kind.
type ReportModel struct {
	Kind         string
	Period       DateRange
	Sales        *SalesSummary
	Ranking      []RankingEntry
	Trend        []Bucket
	Aging        *AgingReport
	ProfitLoss   *ProfitLoss
	BalanceSheet *BalanceSheet
	Engagement   *EngagementSummary
}
