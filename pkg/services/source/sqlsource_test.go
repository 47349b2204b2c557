package source

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/finboard/finboard/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSource(t *testing.T) (RecordSource, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLSource(db), mock
}

func TestSQLSource_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("plain fetch scans rows into records", func(t *testing.T) {
		src, mock := newMockSource(t)
		posted := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM sales_invoices")).
			WillReturnRows(sqlmock.NewRows([]string{"name", "grand_total", "posting_date"}).
				AddRow("INV-001", 1500.0, posted).
				AddRow("INV-002", nil, posted))

		records, err := src.Fetch(ctx, "invoices", FetchOptions{})
		require.NoError(t, err)
		require.Len(t, records, 2)

		total, ok := records[0].Number("grand_total")
		assert.True(t, ok)
		assert.Equal(t, 1500.0, total)
		assert.Equal(t, "INV-001", records[0].String("name"))
		ts, ok := records[0].Time("posting_date")
		assert.True(t, ok)
		assert.Equal(t, posted, ts)

		_, ok = records[1].Number("grand_total")
		assert.False(t, ok)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filter, range, sort and page compose", func(t *testing.T) {
		src, mock := newMockSource(t)
		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
		limit := 10

		query := "SELECT * FROM sales_invoices WHERE status = $1 AND tenant_id = $2" +
			" AND posting_date >= $3 AND posting_date <= $4 ORDER BY posting_date DESC LIMIT $5 OFFSET $6"
		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs("unpaid", "t1", from, to, limit, 20).
			WillReturnRows(sqlmock.NewRows([]string{"name"}))

		records, err := src.Fetch(ctx, "invoices", FetchOptions{
			Filter: domain.FilterSpec{"tenant_id": "t1", "status": "unpaid"},
			Range:  &domain.DateRange{From: from, To: to},
			Sort:   &domain.SortSpec{Field: "posting_date", Desc: true},
			Page:   &domain.Page{Offset: 20, Limit: &limit},
		})
		require.NoError(t, err)
		assert.Empty(t, records)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown entity is refused", func(t *testing.T) {
		src, _ := newMockSource(t)
		_, err := src.Fetch(ctx, "secrets", FetchOptions{})
		assert.ErrorContains(t, err, "unknown entity")
	})

	t.Run("invalid identifiers are refused", func(t *testing.T) {
		src, _ := newMockSource(t)

		_, err := src.Fetch(ctx, "invoices", FetchOptions{
			Filter: domain.FilterSpec{"amount; DROP TABLE": 1},
		})
		assert.ErrorContains(t, err, "invalid filter field")

		_, err = src.Fetch(ctx, "invoices", FetchOptions{
			Sort: &domain.SortSpec{Field: "posting_date--"},
		})
		assert.ErrorContains(t, err, "invalid sort field")
	})

	t.Run("query failure is propagated", func(t *testing.T) {
		src, mock := newMockSource(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM customers")).
			WillReturnError(assert.AnError)

		_, err := src.Fetch(ctx, "customers", FetchOptions{})
		assert.ErrorContains(t, err, "customers query failed")
	})
}

func TestSQLSource_CallProcedure(t *testing.T) {
	ctx := context.Background()

	t.Run("named params map to positional args", func(t *testing.T) {
		src, mock := newMockSource(t)
		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM sales_totals($1, $2, $3)")).
			WithArgs("t1", from, to).
			WillReturnRows(sqlmock.NewRows([]string{"total_revenue", "order_count", "active_customers"}).
				AddRow(120000.0, 40, 12))

		records, err := src.CallProcedure(ctx, "sales_totals", map[string]any{
			"tenant_id": "t1",
			"from_date": from,
			"to_date":   to,
		})
		require.NoError(t, err)
		require.Len(t, records, 1)

		totals := DecodeSalesTotals(records)
		assert.Equal(t, 120000.0, totals.TotalRevenue)
		assert.Equal(t, 40, totals.OrderCount)
		assert.Equal(t, 12, totals.ActiveCustomers)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent params become NULL", func(t *testing.T) {
		src, mock := newMockSource(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM payment_stats($1, $2)")).
			WithArgs("t1", nil).
			WillReturnRows(sqlmock.NewRows([]string{"average_collection_days"}).AddRow(41.0))

		records, err := src.CallProcedure(ctx, "payment_stats", map[string]any{"tenant_id": "t1"})
		require.NoError(t, err)
		assert.Equal(t, 41.0, DecodePaymentStats(records).AverageCollectionDays)
	})

	t.Run("unknown procedure is refused", func(t *testing.T) {
		src, _ := newMockSource(t)
		_, err := src.CallProcedure(ctx, "drop_everything", nil)
		assert.ErrorContains(t, err, "unknown procedure")
	})
}

func TestNormalizeValue(t *testing.T) {
	t.Run("numeric text goes through decimal", func(t *testing.T) {
		v := normalizeValue([]byte("12345.67"), "NUMERIC")
		assert.Equal(t, 12345.67, v)
	})

	t.Run("plain text stays string", func(t *testing.T) {
		v := normalizeValue([]byte("hello"), "TEXT")
		assert.Equal(t, "hello", v)
	})

	t.Run("integers widen to float64", func(t *testing.T) {
		v := normalizeValue(int64(7), "INT8")
		assert.Equal(t, 7.0, v)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, normalizeValue(nil, "TEXT"))
	})
}
