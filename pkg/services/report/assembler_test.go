package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finboard/finboard/pkg/models/domain"
	"github.com/finboard/finboard/pkg/services/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Fetch(ctx context.Context, entity string, opts source.FetchOptions) ([]domain.Record, error) {
	args := m.Called(ctx, entity, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *mockSource) CallProcedure(ctx context.Context, name string, params map[string]any) ([]domain.Record, error) {
	args := m.Called(ctx, name, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var testRange = domain.DateRange{From: day(2024, time.January, 1), To: day(2024, time.June, 30)}

func TestBuildReport_SalesSummary(t *testing.T) {
	src := &mockSource{}
	scope := Scope{TenantID: "t1"}

	invoices := []domain.Record{
		{"customer_name": "acme", "grand_total": 1000.0, "posting_date": day(2024, time.January, 10)},
		{"customer_name": "globex", "grand_total": 3000.0, "posting_date": day(2024, time.February, 2)},
		{"customer_name": "acme", "grand_total": 2000.0, "posting_date": day(2024, time.February, 20)},
	}
	src.On("Fetch", mock.Anything, "invoices", mock.Anything).Return(invoices, nil)
	src.On("Fetch", mock.Anything, "customers", mock.Anything).Return([]domain.Record{
		{"name": "acme"}, {"name": "globex"},
	}, nil)
	src.On("Fetch", mock.Anything, "products", mock.Anything).Return([]domain.Record{
		{"name": "widget", "total_sales": 4000.0, "units_sold": 40.0},
		{"name": "gadget", "total_sales": 2000.0, "units_sold": 10.0},
	}, nil)

	model, err := NewAssembler(src).BuildReport(context.Background(), scope, KindSalesSummary, testRange, domain.Page{})
	require.NoError(t, err)
	require.NotNil(t, model.Sales)

	sales := model.Sales
	assert.Equal(t, 6000.0, sales.TotalRevenue)
	assert.Equal(t, 3, sales.OrderCount)
	assert.Equal(t, 2000.0, sales.AverageOrderValue)
	assert.Equal(t, 2, sales.ActiveCustomers)

	require.Len(t, sales.TopCustomers, 2)
	assert.Equal(t, "acme", sales.TopCustomers[0].Key)
	assert.Equal(t, 3000.0, sales.TopCustomers[0].Value)

	require.Len(t, sales.TopProducts, 2)
	assert.Equal(t, "widget", sales.TopProducts[0].Key)

	require.Len(t, sales.Trend, 2)
	assert.Equal(t, "2024-01", sales.Trend[0].Label)
	assert.Equal(t, "2024-02", sales.Trend[1].Label)

	t.Run("tenant scoping reaches every fetch", func(t *testing.T) {
		for _, call := range src.Calls {
			opts := call.Arguments.Get(2).(source.FetchOptions)
			assert.Equal(t, "t1", opts.Filter["tenant_id"])
		}
	})
}

func TestBuildReport_Dashboard_MergesProcedures(t *testing.T) {
	src := &mockSource{}

	src.On("CallProcedure", mock.Anything, "sales_totals", mock.Anything).Return([]domain.Record{
		{"total_revenue": 120000.0, "order_count": 40.0, "active_customers": 12.0},
	}, nil)
	src.On("CallProcedure", mock.Anything, "top_customers", mock.Anything).Return([]domain.Record{
		{"name": "acme", "amount": 50000.0, "entry_count": 9.0},
	}, nil)
	src.On("CallProcedure", mock.Anything, "top_products", mock.Anything).Return([]domain.Record{
		{"name": "widget", "amount": 70000.0, "entry_count": 30.0},
	}, nil)
	src.On("CallProcedure", mock.Anything, "sales_trend", mock.Anything).Return([]domain.Record{
		{"period": "2024-01", "amount": 60000.0, "entry_count": 20.0},
		{"period": "2024-02", "amount": 60000.0, "entry_count": 20.0},
	}, nil)

	model, err := NewAssembler(src).BuildReport(context.Background(), Scope{TenantID: "t1"}, KindDashboard, testRange, domain.Page{})
	require.NoError(t, err)
	require.NotNil(t, model.Sales)
	assert.Equal(t, 120000.0, model.Sales.TotalRevenue)
	assert.Equal(t, 3000.0, model.Sales.AverageOrderValue)
	assert.Equal(t, 12, model.Sales.ActiveCustomers)
	require.Len(t, model.Sales.TopCustomers, 1)
	require.Len(t, model.Sales.Trend, 2)

	t.Run("procedure params carry tenant and range", func(t *testing.T) {
		for _, call := range src.Calls {
			params := call.Arguments.Get(2).(map[string]any)
			assert.Equal(t, "t1", params["tenant_id"])
		}
	})
}

func TestBuildReport_FetchFailureIsComposite(t *testing.T) {
	src := &mockSource{}
	boom := errors.New("connection refused")

	src.On("Fetch", mock.Anything, "invoices", mock.Anything).Return(nil, boom)
	src.On("Fetch", mock.Anything, "customers", mock.Anything).Return([]domain.Record{}, nil).Maybe()
	src.On("Fetch", mock.Anything, "products", mock.Anything).Return([]domain.Record{}, nil).Maybe()

	model, err := NewAssembler(src).BuildReport(context.Background(), Scope{}, KindSalesSummary, testRange, domain.Page{})
	require.Error(t, err)

	var fe *source.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "invoices", fe.Entity)
	assert.ErrorIs(t, err, boom)

	t.Run("no partial model", func(t *testing.T) {
		assert.Equal(t, domain.ReportModel{}, model)
	})
}

func TestBuildReport_ReceivablesAging_EndToEnd(t *testing.T) {
	// Invoice A is 30 days overdue, invoice B is 5 days overdue as of
	// five days past B's due date.
	bDue := day(2024, time.June, 25)
	asOfDate := bDue.AddDate(0, 0, 5)
	aDue := asOfDate.AddDate(0, 0, -30)

	src := &mockSource{}
	src.On("Fetch", mock.Anything, "receivables", mock.Anything).Return([]domain.Record{
		{"customer_name": "acme", "due_date": aDue, "outstanding": 1000.0},
		{"customer_name": "globex", "due_date": bDue, "outstanding": 2000.0},
	}, nil)
	src.On("CallProcedure", mock.Anything, "payment_stats", mock.Anything).Return([]domain.Record{
		{"average_collection_days": 18.0, "average_payment_days": 25.0},
	}, nil)

	rng := domain.DateRange{From: day(2024, time.January, 1), To: asOfDate}
	model, err := NewAssembler(src).BuildReport(context.Background(), Scope{TenantID: "t1"}, KindReceivablesAging, rng, domain.Page{})
	require.NoError(t, err)
	require.NotNil(t, model.Aging)

	aging := model.Aging
	assert.Equal(t, asOfDate, aging.AsOf)
	assert.Equal(t, 18.0, aging.AveragePeriodDays)
	require.Len(t, aging.Rows, 2)

	acme := aging.Rows[0]
	assert.Equal(t, "acme", acme.Subject)
	assert.Equal(t, 1000.0, acme.Days1To30)
	assert.Equal(t, acme.Total, acme.Current+acme.Days1To30+acme.Days31To60+acme.Days61To90+acme.DaysOver90)

	globex := aging.Rows[1]
	assert.Equal(t, 2000.0, globex.Days1To30)
	assert.Equal(t, 2000.0, globex.Total)

	assert.Equal(t, 3000.0, aging.Total.Total)
}

func TestBuildReport_PayablesAging_UsesPaymentSide(t *testing.T) {
	asOfDate := day(2024, time.June, 30)
	src := &mockSource{}
	src.On("Fetch", mock.Anything, "payables", mock.Anything).Return([]domain.Record{
		{"supplier_name": "initech", "due_date": asOfDate.AddDate(0, 0, -45), "outstanding": 800.0},
	}, nil)
	src.On("CallProcedure", mock.Anything, "payment_stats", mock.Anything).Return([]domain.Record{
		{"average_collection_days": 18.0, "average_payment_days": 25.0},
	}, nil)

	rng := domain.DateRange{From: day(2024, time.January, 1), To: asOfDate}
	model, err := NewAssembler(src).BuildReport(context.Background(), Scope{}, KindPayablesAging, rng, domain.Page{})
	require.NoError(t, err)
	require.NotNil(t, model.Aging)
	assert.Equal(t, 25.0, model.Aging.AveragePeriodDays)
	require.Len(t, model.Aging.Rows, 1)
	assert.Equal(t, "initech", model.Aging.Rows[0].Subject)
	assert.Equal(t, 800.0, model.Aging.Rows[0].Days31To60)
}

func TestBuildReport_ProfitLoss(t *testing.T) {
	src := &mockSource{}
	src.On("CallProcedure", mock.Anything, "profit_loss", mock.Anything).Return([]domain.Record{
		{"kind": "revenue", "category": "Sales", "name": "Product Sales", "amount": 120000.0},
		{"kind": "expense", "category": "Operating", "name": "Salaries", "amount": 45000.0},
		{"kind": "total_revenue", "amount": 120000.0},
		{"kind": "total_expenses", "amount": 45000.0},
	}, nil)

	model, err := NewAssembler(src).BuildReport(context.Background(), Scope{}, KindProfitLoss, testRange, domain.Page{})
	require.NoError(t, err)
	require.NotNil(t, model.ProfitLoss)
	assert.Equal(t, 75000.0, model.ProfitLoss.NetProfit)
}

func TestBuildReport_BalanceSheet(t *testing.T) {
	src := &mockSource{}
	src.On("CallProcedure", mock.Anything, "balance_sheet", mock.Anything).Return([]domain.Record{
		{"side": "asset", "category": "Current Assets", "name": "Cash", "amount": 100000.0},
		{"side": "liability", "category": "Current Liabilities", "name": "Payables", "amount": 40000.0},
		{"side": "equity", "category": "Equity", "name": "Capital", "amount": 60000.0},
	}, nil)

	model, err := NewAssembler(src).BuildReport(context.Background(), Scope{}, KindBalanceSheet, testRange, domain.Page{})
	require.NoError(t, err)
	require.NotNil(t, model.BalanceSheet)
	assert.True(t, model.BalanceSheet.Balanced)
	assert.Equal(t, 100000.0, model.BalanceSheet.TotalAssets)
}

func TestBuildReport_UnknownKind(t *testing.T) {
	src := &mockSource{}
	_, err := NewAssembler(src).BuildReport(context.Background(), Scope{}, Kind("nope"), testRange, domain.Page{})
	assert.ErrorContains(t, err, "unknown report kind")
}

func TestBuildReport_EmptyDatasetIsZeroValued(t *testing.T) {
	src := &mockSource{}
	src.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return([]domain.Record{}, nil)

	model, err := NewAssembler(src).BuildReport(context.Background(), Scope{}, KindSalesSummary, testRange, domain.Page{})
	require.NoError(t, err)
	require.NotNil(t, model.Sales)
	assert.Equal(t, 0.0, model.Sales.TotalRevenue)
	assert.Equal(t, 0.0, model.Sales.AverageOrderValue)
	assert.Equal(t, 0, model.Sales.OrderCount)
}

func TestBuildReport_Idempotent(t *testing.T) {
	src := &mockSource{}
	src.On("Fetch", mock.Anything, "invoices", mock.Anything).Return([]domain.Record{
		{"customer_name": "acme", "grand_total": 100.0, "posting_date": day(2024, time.March, 1)},
	}, nil)

	a := NewAssembler(src)
	first, err := a.BuildReport(context.Background(), Scope{}, KindSalesTrend, testRange, domain.Page{})
	require.NoError(t, err)
	second, err := a.BuildReport(context.Background(), Scope{}, KindSalesTrend, testRange, domain.Page{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEngagement(t *testing.T) {
	src := &mockSource{}
	src.On("Fetch", mock.Anything, "engagement_events", mock.MatchedBy(func(opts source.FetchOptions) bool {
		return opts.Filter["subject_id"] == "q-42"
	})).Return([]domain.Record{
		{"event_type": "open"},
		{"event_type": "open"},
		{"event_type": "click"},
	}, nil)

	model, err := NewAssembler(src).Engagement(context.Background(), Scope{TenantID: "t1"}, "q-42")
	require.NoError(t, err)
	require.NotNil(t, model.Engagement)
	assert.Equal(t, 3, model.Engagement.Total)
	require.Len(t, model.Engagement.Events, 2)
	assert.Equal(t, "open", model.Engagement.Events[0].Label)
	assert.Equal(t, 2, model.Engagement.Events[0].Count)
}
