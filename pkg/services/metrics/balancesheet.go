package metrics

import (
	"math"

	"github.com/finboard/finboard/pkg/models/domain"
	"github.com/finboard/finboard/pkg/models/store"
)

// Amounts closer than this are considered equal when checking the
// accounting equation.
const balanceTolerance = 0.005

// BuildBalanceSheet sections the three decoded statement sides, computing
// each category total from its line items. Assets = liabilities + equity
// is checked diagnostically: a mismatch sets Balanced false and reports
// the delta, it is never corrected or treated as a failure.
func BuildBalanceSheet(statement store.BalanceSheetStatement) domain.BalanceSheet {
	sheet := domain.BalanceSheet{
		Assets:      sectionsToDomain(statement.Assets),
		Liabilities: sectionsToDomain(statement.Liabilities),
		Equity:      sectionsToDomain(statement.Equity),
	}
	sheet.TotalAssets = sumSections(sheet.Assets)
	sheet.TotalLiabilities = sumSections(sheet.Liabilities)
	sheet.TotalEquity = sumSections(sheet.Equity)
	sheet.Delta = sheet.TotalAssets - (sheet.TotalLiabilities + sheet.TotalEquity)
	sheet.Balanced = math.Abs(sheet.Delta) < balanceTolerance
	return sheet
}

func sumSections(sections []domain.FinancialSection) float64 {
	var total float64
	for _, s := range sections {
		total += s.Total
	}
	return total
}
