// Package report orchestrates RecordSource fetches and metric derivers
// into ready-to-render report models. The assembler is the sole error
// boundary: any underlying fetch failure surfaces as one FetchError and
// no partially populated model is ever returned.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/finboard/finboard/pkg/models/domain"
	"github.com/finboard/finboard/pkg/services/metrics"
	"github.com/finboard/finboard/pkg/services/source"
	"golang.org/x/sync/errgroup"
)

// Kind selects which report BuildReport assembles.
type Kind string

const (
	// KindDashboard merges server-computed aggregates; nothing is
	// recomputed beyond reshaping.
	KindDashboard Kind = "dashboard"
	// KindSalesSummary derives the same headline figures from raw
	// snapshots instead of procedures.
	KindSalesSummary     Kind = "sales-summary"
	KindTopCustomers     Kind = "top-customers"
	KindTopProducts      Kind = "top-products"
	KindSalesTrend       Kind = "sales-trend"
	KindReceivablesAging Kind = "receivables-aging"
	KindPayablesAging    Kind = "payables-aging"
	KindProfitLoss       Kind = "profit-loss"
	KindBalanceSheet     Kind = "balance-sheet"
)

// Scope identifies whose records a report is built over. It is passed
// explicitly on every call; there is no ambient tenant state.
type Scope struct {
	TenantID string
}

const defaultTopN = 5

// Assembler builds reports against a RecordSource. It holds no state
// across calls; concurrent builds share nothing but the source.
type Assembler struct {
	src  source.RecordSource
	topN int
}

func NewAssembler(src source.RecordSource) *Assembler {
	return &Assembler{src: src, topN: defaultTopN}
}

// BuildReport fetches the minimum record sets needed for kind, derives
// the metrics and assembles the model. Independent fetches run
// concurrently; the first failure cancels the rest and becomes the
// returned error.
func (a *Assembler) BuildReport(
	ctx context.Context,
	scope Scope,
	kind Kind,
	rng domain.DateRange,
	page domain.Page,
) (domain.ReportModel, error) {
	model := domain.ReportModel{Kind: string(kind), Period: rng}

	switch kind {
	case KindDashboard:
		sales, err := a.buildDashboard(ctx, scope, rng)
		if err != nil {
			return domain.ReportModel{}, err
		}
		model.Sales = sales
	case KindSalesSummary:
		sales, err := a.buildSalesSummary(ctx, scope, rng)
		if err != nil {
			return domain.ReportModel{}, err
		}
		model.Sales = sales
	case KindTopCustomers:
		invoices, err := a.fetch(ctx, scope, "invoices", source.FetchOptions{Range: &rng})
		if err != nil {
			return domain.ReportModel{}, err
		}
		model.Ranking = metrics.RankGroups(invoices, "customer_name", "grand_total", a.rankingSize(page))
	case KindTopProducts:
		products, err := a.fetch(ctx, scope, "products", source.FetchOptions{})
		if err != nil {
			return domain.ReportModel{}, err
		}
		model.Ranking = metrics.TopN(products, "name", "total_sales", a.rankingSize(page), "units_sold")
	case KindSalesTrend:
		invoices, err := a.fetch(ctx, scope, "invoices", source.FetchOptions{Range: &rng})
		if err != nil {
			return domain.ReportModel{}, err
		}
		model.Trend = metrics.Trend(invoices, "posting_date", "grand_total", granularity(rng))
	case KindReceivablesAging:
		aging, err := a.buildAging(ctx, scope, rng, "receivables")
		if err != nil {
			return domain.ReportModel{}, err
		}
		model.Aging = aging
	case KindPayablesAging:
		aging, err := a.buildAging(ctx, scope, rng, "payables")
		if err != nil {
			return domain.ReportModel{}, err
		}
		model.Aging = aging
	case KindProfitLoss:
		records, err := a.call(ctx, scope, "profit_loss", map[string]any{
			"from_date": rng.From,
			"to_date":   rng.To,
		})
		if err != nil {
			return domain.ReportModel{}, err
		}
		pl := metrics.BuildProfitLoss(source.DecodeProfitLoss(records))
		model.ProfitLoss = &pl
	case KindBalanceSheet:
		records, err := a.call(ctx, scope, "balance_sheet", map[string]any{
			"as_of": asOf(rng),
		})
		if err != nil {
			return domain.ReportModel{}, err
		}
		sheet := metrics.BuildBalanceSheet(source.DecodeBalanceSheet(records))
		model.BalanceSheet = &sheet
	default:
		return domain.ReportModel{}, fmt.Errorf("unknown report kind: %q", kind)
	}

	return model, nil
}

// Engagement summarises recorded events for one subject: a grouped count
// over the same primitives as everything else.
func (a *Assembler) Engagement(ctx context.Context, scope Scope, subjectID string) (domain.ReportModel, error) {
	events, err := a.fetch(ctx, scope, "engagement_events", source.FetchOptions{
		Filter: domain.FilterSpec{"subject_id": subjectID},
	})
	if err != nil {
		return domain.ReportModel{}, err
	}
	summary := metrics.BuildEngagement(events, subjectID, "event_type")
	return domain.ReportModel{Kind: "engagement", Engagement: &summary}, nil
}

// buildDashboard is the procedure-merge path: four independent procedure
// calls joined, then reshaped.
func (a *Assembler) buildDashboard(ctx context.Context, scope Scope, rng domain.DateRange) (*domain.SalesSummary, error) {
	rangeParams := map[string]any{"from_date": rng.From, "to_date": rng.To}
	rankParams := map[string]any{"from_date": rng.From, "to_date": rng.To, "row_limit": a.topN}

	var totalsRecs, customerRecs, productRecs, trendRecs []domain.Record

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalsRecs, err = a.call(gctx, scope, "sales_totals", rangeParams)
		return err
	})
	g.Go(func() (err error) {
		customerRecs, err = a.call(gctx, scope, "top_customers", rankParams)
		return err
	})
	g.Go(func() (err error) {
		productRecs, err = a.call(gctx, scope, "top_products", rankParams)
		return err
	})
	g.Go(func() (err error) {
		trendRecs, err = a.call(gctx, scope, "sales_trend", rangeParams)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := metrics.MergeSalesDashboard(
		source.DecodeSalesTotals(totalsRecs),
		source.DecodeRanked(customerRecs),
		source.DecodeRanked(productRecs),
		source.DecodeTrend(trendRecs),
	)
	return &summary, nil
}

// buildSalesSummary is the compute path: raw snapshots in, everything
// derived locally.
func (a *Assembler) buildSalesSummary(ctx context.Context, scope Scope, rng domain.DateRange) (*domain.SalesSummary, error) {
	var invoices, customers, products []domain.Record

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		invoices, err = a.fetch(gctx, scope, "invoices", source.FetchOptions{Range: &rng})
		return err
	})
	g.Go(func() (err error) {
		customers, err = a.fetch(gctx, scope, "customers", source.FetchOptions{
			Filter: domain.FilterSpec{"status": "active"},
		})
		return err
	})
	g.Go(func() (err error) {
		products, err = a.fetch(gctx, scope, "products", source.FetchOptions{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := metrics.BuildSalesSummary(invoices, "grand_total")
	summary.ActiveCustomers = len(customers)
	summary.TopCustomers = metrics.RankGroups(invoices, "customer_name", "grand_total", a.topN)
	summary.TopProducts = metrics.TopN(products, "name", "total_sales", a.topN, "units_sold")
	summary.Trend = metrics.Trend(invoices, "posting_date", "grand_total", granularity(rng))
	return &summary, nil
}

func (a *Assembler) buildAging(ctx context.Context, scope Scope, rng domain.DateRange, entity string) (*domain.AgingReport, error) {
	at := asOf(rng)

	var obligations, statsRecs []domain.Record

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		obligations, err = a.fetch(gctx, scope, entity, source.FetchOptions{})
		return err
	})
	g.Go(func() (err error) {
		statsRecs, err = a.call(gctx, scope, "payment_stats", map[string]any{"as_of": at})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := source.DecodePaymentStats(statsRecs)
	avgDays := stats.AverageCollectionDays
	subjectField := "customer_name"
	if entity == "payables" {
		avgDays = stats.AveragePaymentDays
		subjectField = "supplier_name"
	}

	report := metrics.BuildAging(
		metrics.ObligationsFromRecords(obligations, subjectField, "due_date", "outstanding"),
		at,
		avgDays,
	)
	return &report, nil
}

// fetch scopes every query to the tenant and tags failures with the
// entity name.
func (a *Assembler) fetch(ctx context.Context, scope Scope, entity string, opts source.FetchOptions) ([]domain.Record, error) {
	filter := domain.FilterSpec{"tenant_id": scope.TenantID}
	for field, value := range opts.Filter {
		filter[field] = value
	}
	opts.Filter = filter

	records, err := a.src.Fetch(ctx, entity, opts)
	if err != nil {
		return nil, source.WrapFetch(entity, err)
	}
	return records, nil
}

func (a *Assembler) call(ctx context.Context, scope Scope, name string, params map[string]any) ([]domain.Record, error) {
	scoped := map[string]any{"tenant_id": scope.TenantID}
	for k, v := range params {
		scoped[k] = v
	}

	records, err := a.src.CallProcedure(ctx, name, scoped)
	if err != nil {
		return nil, source.WrapFetch(name, err)
	}
	return records, nil
}

func (a *Assembler) rankingSize(page domain.Page) int {
	if page.Limit != nil {
		return *page.Limit
	}
	return a.topN
}

// granularity picks daily buckets for short windows, monthly otherwise.
func granularity(rng domain.DateRange) metrics.Granularity {
	if !rng.From.IsZero() && rng.Days() <= 31 {
		return metrics.GranularityDay
	}
	return metrics.GranularityMonth
}

func asOf(rng domain.DateRange) time.Time {
	if rng.To.IsZero() {
		return time.Now().UTC().Truncate(24 * time.Hour)
	}
	return rng.To
}
