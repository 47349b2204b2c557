package export

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/finboard/finboard/pkg/models/domain"
)

// Reporter outputs reports to the console in a formatted text form
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) Handle(report domain.ReportModel) error {
	tmpl := `
{{.Kind}} report
Period: {{.Period.From.Format "2006-01-02"}} to {{.Period.To.Format "2006-01-02"}}
{{if .Sales}}
Total Revenue: {{printf "%.2f" .Sales.TotalRevenue}}
Orders: {{.Sales.OrderCount}}
Average Order Value: {{printf "%.2f" .Sales.AverageOrderValue}}
Active Customers: {{.Sales.ActiveCustomers}}
{{if .Sales.TopCustomers}}
=== Top Customers ===
{{range .Sales.TopCustomers}}- {{.Key}}: {{printf "%.2f" .Value}}
{{end}}{{end}}{{if .Sales.TopProducts}}
=== Top Products ===
{{range .Sales.TopProducts}}- {{.Key}}: {{printf "%.2f" .Value}}
{{end}}{{end}}{{if .Sales.Trend}}
=== Trend ===
{{range .Sales.Trend}}{{.Label}}: {{printf "%.2f" .Sum}} ({{.Count}} entries)
{{end}}{{end}}{{end}}{{if .Ranking}}
{{range .Ranking}}- {{.Key}}: {{printf "%.2f" .Value}}
{{end}}{{end}}{{if .Trend}}
{{range .Trend}}{{.Label}}: {{printf "%.2f" .Sum}} ({{.Count}} entries)
{{end}}{{end}}{{if .Aging}}
As of: {{.Aging.AsOf.Format "2006-01-02"}}
{{range .Aging.Rows}}{{formatAgingRow .}}
{{end}}
Outstanding Total: {{printf "%.2f" .Aging.Total.Total}}
Average Period: {{printf "%.1f" .Aging.AveragePeriodDays}} days
{{end}}{{if .ProfitLoss}}{{range .ProfitLoss.Revenue}}{{formatSection .}}{{end}}{{range .ProfitLoss.Expenses}}{{formatSection .}}{{end}}
Total Revenue: {{printf "%.2f" .ProfitLoss.TotalRevenue}}
Total Expenses: {{printf "%.2f" .ProfitLoss.TotalExpenses}}
Net Profit: {{printf "%.2f" .ProfitLoss.NetProfit}}
{{end}}{{if .BalanceSheet}}{{range .BalanceSheet.Assets}}{{formatSection .}}{{end}}{{range .BalanceSheet.Liabilities}}{{formatSection .}}{{end}}{{range .BalanceSheet.Equity}}{{formatSection .}}{{end}}
Total Assets: {{printf "%.2f" .BalanceSheet.TotalAssets}}
Total Liabilities: {{printf "%.2f" .BalanceSheet.TotalLiabilities}}
Total Equity: {{printf "%.2f" .BalanceSheet.TotalEquity}}
{{if not .BalanceSheet.Balanced}}Warning: sheet out of balance by {{printf "%.2f" .BalanceSheet.Delta}}
{{end}}{{end}}{{if .Engagement}}
Subject: {{.Engagement.SubjectID}}
{{range .Engagement.Events}}- {{.Label}}: {{.Count}}
{{end}}
Total Events: {{.Engagement.Total}}
{{end}}`

	funcMap := template.FuncMap{
		"formatAgingRow": func(row domain.AgingRow) string {
			return fmt.Sprintf("%-30s current %10.2f | 1-30 %10.2f | 31-60 %10.2f | 61-90 %10.2f | 90+ %10.2f | total %10.2f",
				row.Subject, row.Current, row.Days1To30, row.Days31To60, row.Days61To90, row.DaysOver90, row.Total)
		},
		"formatSection": func(section domain.FinancialSection) string {
			out := fmt.Sprintf("\n=== %s ===\n", section.Category)
			for _, item := range section.Items {
				out += fmt.Sprintf("- %s: %.2f\n", item.Name, item.Amount)
			}
			out += fmt.Sprintf("Subtotal: %.2f\n", section.Total)
			return out
		},
	}

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
