package metrics

import (
	"github.com/finboard/finboard/pkg/models/domain"
	"github.com/finboard/finboard/pkg/models/store"
)

// BuildProfitLoss reshapes a decoded statement into the P&L model. The
// breakdowns and totals come from upstream; the only computed value is
// the net figure. Absent totals were already defaulted to 0 at the
// decode boundary, so the net can never fault.
func BuildProfitLoss(statement store.ProfitLossStatement) domain.ProfitLoss {
	return domain.ProfitLoss{
		Revenue:       sectionsToDomain(statement.Revenue),
		Expenses:      sectionsToDomain(statement.Expenses),
		TotalRevenue:  statement.TotalRevenue,
		TotalExpenses: statement.TotalExpenses,
		NetProfit:     statement.TotalRevenue - statement.TotalExpenses,
	}
}

func sectionsToDomain(sections []store.StatementSection) []domain.FinancialSection {
	out := make([]domain.FinancialSection, 0, len(sections))
	for _, s := range sections {
		section := domain.FinancialSection{Category: s.Category}
		for _, item := range s.Items {
			section.Items = append(section.Items, domain.LineItem{Name: item.Name, Amount: item.Amount})
			section.Total += item.Amount
		}
		out = append(out, section)
	}
	return out
}
