package api

import "time"

type Bucket struct {
	Label string  `json:"label"`
	Sum   float64 `json:"sum"`
	Count int     `json:"count"`
}

type RankingEntry struct {
	Key   string             `json:"key"`
	Value float64            `json:"value"`
	Extra map[string]float64 `json:"extra,omitempty"`
}

type SalesSummary struct {
	TotalRevenue      float64        `json:"total_revenue"`
	OrderCount        int            `json:"order_count"`
	AverageOrderValue float64        `json:"average_order_value"`
	ActiveCustomers   int            `json:"active_customers"`
	TopCustomers      []RankingEntry `json:"top_customers,omitempty"`
	TopProducts       []RankingEntry `json:"top_products,omitempty"`
	Trend             []Bucket       `json:"trend,omitempty"`
}

type AgingRow struct {
	Subject    string  `json:"subject"`
	Current    float64 `json:"current"`
	Days1To30  float64 `json:"days_1_30"`
	Days31To60 float64 `json:"days_31_60"`
	Days61To90 float64 `json:"days_61_90"`
	DaysOver90 float64 `json:"days_over_90"`
	Total      float64 `json:"total"`
}

type AgingReport struct {
	AsOf              time.Time `json:"as_of"`
	Rows              []AgingRow `json:"rows"`
	Total             AgingRow   `json:"total"`
	AveragePeriodDays float64    `json:"average_period_days"`
}

type LineItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type FinancialSection struct {
	Category string     `json:"category"`
	Items    []LineItem `json:"items"`
	Total    float64    `json:"total"`
}

type ProfitLoss struct {
	Revenue       []FinancialSection `json:"revenue"`
	Expenses      []FinancialSection `json:"expenses"`
	TotalRevenue  float64            `json:"total_revenue"`
	TotalExpenses float64            `json:"total_expenses"`
	NetProfit     float64            `json:"net_profit"`
}

type BalanceSheet struct {
	Assets           []FinancialSection `json:"assets"`
	Liabilities      []FinancialSection `json:"liabilities"`
	Equity           []FinancialSection `json:"equity"`
	TotalAssets      float64            `json:"total_assets"`
	TotalLiabilities float64            `json:"total_liabilities"`
	TotalEquity      float64            `json:"total_equity"`
	Balanced         bool               `json:"balanced"`
	Delta            float64            `json:"delta"`
}

type EngagementSummary struct {
	SubjectID string   `json:"subject_id"`
	Events    []Bucket `json:"events"`
	Total     int      `json:"total"`
}

type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type Report struct {
	Kind         string             `json:"kind"`
	Period       *Period            `json:"period,omitempty"`
	Sales        *SalesSummary      `json:"sales,omitempty"`
	Ranking      []RankingEntry     `json:"ranking,omitempty"`
	Trend        []Bucket           `json:"trend,omitempty"`
	Aging        *AgingReport       `json:"aging,omitempty"`
	ProfitLoss   *ProfitLoss        `json:"profit_loss,omitempty"`
	BalanceSheet *BalanceSheet      `json:"balance_sheet,omitempty"`
	Engagement   *EngagementSummary `json:"engagement,omitempty"`
}

type TrackAck struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

type Error struct {
	Error string `json:"error"`
}
