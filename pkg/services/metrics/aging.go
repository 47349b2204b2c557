package metrics

import (
	"time"

	"github.com/finboard/finboard/pkg/models/domain"
)

// Obligation is one outstanding receivable or payable.
type Obligation struct {
	Subject     string
	DueDate     time.Time
	Outstanding float64
}

// ObligationsFromRecords lifts raw records into obligations. Records with
// no usable due date are dropped; a missing amount defaults to 0.
func ObligationsFromRecords(records []domain.Record, subjectField, dueField, amountField string) []Obligation {
	obligations := make([]Obligation, 0, len(records))
	for _, r := range records {
		due, ok := r.Time(dueField)
		if !ok {
			continue
		}
		amount, _ := r.Number(amountField)
		obligations = append(obligations, Obligation{
			Subject:     r.String(subjectField),
			DueDate:     due,
			Outstanding: amount,
		})
	}
	return obligations
}

// BuildAging buckets obligations by whole days overdue relative to asOf:
// not yet due (<= 0) is current, then 1-30, 31-60, 61-90 and over 90,
// with upper bounds closed (30 days overdue is still 1-30). Rows are
// grouped per subject in first-seen order; the grand total row sums the
// subject rows. avgPeriodDays is carried through unmodified.
func BuildAging(obligations []Obligation, asOf time.Time, avgPeriodDays float64) domain.AgingReport {
	index := make(map[string]int)
	var rows []domain.AgingRow
	for _, ob := range obligations {
		i, ok := index[ob.Subject]
		if !ok {
			i = len(rows)
			index[ob.Subject] = i
			rows = append(rows, domain.AgingRow{Subject: ob.Subject})
		}
		addToBucket(&rows[i], daysOverdue(asOf, ob.DueDate), ob.Outstanding)
	}

	total := domain.AgingRow{Subject: "Total"}
	for _, row := range rows {
		total.Current += row.Current
		total.Days1To30 += row.Days1To30
		total.Days31To60 += row.Days31To60
		total.Days61To90 += row.Days61To90
		total.DaysOver90 += row.DaysOver90
		total.Total += row.Total
	}

	return domain.AgingReport{
		AsOf:              asOf,
		Rows:              rows,
		Total:             total,
		AveragePeriodDays: avgPeriodDays,
	}
}

func daysOverdue(asOf, due time.Time) int {
	return int(asOf.Sub(due).Hours() / 24)
}

func addToBucket(row *domain.AgingRow, days int, amount float64) {
	switch {
	case days <= 0:
		row.Current += amount
	case days <= 30:
		row.Days1To30 += amount
	case days <= 60:
		row.Days31To60 += amount
	case days <= 90:
		row.Days61To90 += amount
	default:
		row.DaysOver90 += amount
	}
	row.Total += amount
}
