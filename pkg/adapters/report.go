package adapters

import (
	"github.com/finboard/finboard/pkg/models/api"
	"github.com/finboard/finboard/pkg/models/domain"
)

func MapReportDomainToApi(model domain.ReportModel) api.Report {
	report := api.Report{
		Kind:    model.Kind,
		Ranking: mapRanking(model.Ranking),
		Trend:   mapBuckets(model.Trend),
	}
	if !model.Period.From.IsZero() || !model.Period.To.IsZero() {
		report.Period = &api.Period{From: model.Period.From, To: model.Period.To}
	}
	if model.Sales != nil {
		report.Sales = mapSales(*model.Sales)
	}
	if model.Aging != nil {
		report.Aging = mapAging(*model.Aging)
	}
	if model.ProfitLoss != nil {
		report.ProfitLoss = &api.ProfitLoss{
			Revenue:       mapSections(model.ProfitLoss.Revenue),
			Expenses:      mapSections(model.ProfitLoss.Expenses),
			TotalRevenue:  model.ProfitLoss.TotalRevenue,
			TotalExpenses: model.ProfitLoss.TotalExpenses,
			NetProfit:     model.ProfitLoss.NetProfit,
		}
	}
	if model.BalanceSheet != nil {
		report.BalanceSheet = &api.BalanceSheet{
			Assets:           mapSections(model.BalanceSheet.Assets),
			Liabilities:      mapSections(model.BalanceSheet.Liabilities),
			Equity:           mapSections(model.BalanceSheet.Equity),
			TotalAssets:      model.BalanceSheet.TotalAssets,
			TotalLiabilities: model.BalanceSheet.TotalLiabilities,
			TotalEquity:      model.BalanceSheet.TotalEquity,
			Balanced:         model.BalanceSheet.Balanced,
			Delta:            model.BalanceSheet.Delta,
		}
	}
	if model.Engagement != nil {
		report.Engagement = &api.EngagementSummary{
			SubjectID: model.Engagement.SubjectID,
			Events:    mapBuckets(model.Engagement.Events),
			Total:     model.Engagement.Total,
		}
	}
	return report
}

func mapSales(s domain.SalesSummary) *api.SalesSummary {
	return &api.SalesSummary{
		TotalRevenue:      s.TotalRevenue,
		OrderCount:        s.OrderCount,
		AverageOrderValue: s.AverageOrderValue,
		ActiveCustomers:   s.ActiveCustomers,
		TopCustomers:      mapRanking(s.TopCustomers),
		TopProducts:       mapRanking(s.TopProducts),
		Trend:             mapBuckets(s.Trend),
	}
}

func mapAging(a domain.AgingReport) *api.AgingReport {
	report := &api.AgingReport{
		AsOf:              a.AsOf,
		Total:             mapAgingRow(a.Total),
		AveragePeriodDays: a.AveragePeriodDays,
		Rows:              make([]api.AgingRow, 0, len(a.Rows)),
	}
	for _, row := range a.Rows {
		report.Rows = append(report.Rows, mapAgingRow(row))
	}
	return report
}

func mapAgingRow(r domain.AgingRow) api.AgingRow {
	return api.AgingRow{
		Subject:    r.Subject,
		Current:    r.Current,
		Days1To30:  r.Days1To30,
		Days31To60: r.Days31To60,
		Days61To90: r.Days61To90,
		DaysOver90: r.DaysOver90,
		Total:      r.Total,
	}
}

func mapSections(sections []domain.FinancialSection) []api.FinancialSection {
	out := make([]api.FinancialSection, 0, len(sections))
	for _, s := range sections {
		section := api.FinancialSection{Category: s.Category, Total: s.Total}
		for _, item := range s.Items {
			section.Items = append(section.Items, api.LineItem{Name: item.Name, Amount: item.Amount})
		}
		out = append(out, section)
	}
	return out
}

func mapRanking(entries []domain.RankingEntry) []api.RankingEntry {
	if entries == nil {
		return nil
	}
	out := make([]api.RankingEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, api.RankingEntry{Key: e.Key, Value: e.Value, Extra: e.Extra})
	}
	return out
}

func mapBuckets(buckets []domain.Bucket) []api.Bucket {
	if buckets == nil {
		return nil
	}
	out := make([]api.Bucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, api.Bucket{Label: b.Label, Sum: b.Sum, Count: b.Count})
	}
	return out
}
