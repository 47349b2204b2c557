package source

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/finboard/finboard/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type entityTable struct {
	table     string
	dateField string
}

// Entities the SQL source is willing to query. Fetch refuses anything
// else, so entity names never reach the query text unchecked.
var entityTables = map[string]entityTable{
	"customers":         {table: "customers", dateField: "created_at"},
	"suppliers":         {table: "suppliers", dateField: "created_at"},
	"products":          {table: "products", dateField: "created_at"},
	"orders":            {table: "sales_orders", dateField: "posting_date"},
	"invoices":          {table: "sales_invoices", dateField: "posting_date"},
	"payments":          {table: "payments", dateField: "posting_date"},
	"quotations":        {table: "quotations", dateField: "posting_date"},
	"purchase_orders":   {table: "purchase_orders", dateField: "posting_date"},
	"receivables":       {table: "outstanding_receivables", dateField: "due_date"},
	"payables":          {table: "outstanding_payables", dateField: "due_date"},
	"engagement_events": {table: "engagement_events", dateField: "created_at"},
}

// Registered procedures with their positional parameter names. Absent
// params are passed as SQL NULL.
var procedureParams = map[string][]string{
	"sales_totals":  {"tenant_id", "from_date", "to_date"},
	"top_customers": {"tenant_id", "from_date", "to_date", "row_limit"},
	"top_products":  {"tenant_id", "from_date", "to_date", "row_limit"},
	"sales_trend":   {"tenant_id", "from_date", "to_date"},
	"payment_stats": {"tenant_id", "as_of"},
	"profit_loss":   {"tenant_id", "from_date", "to_date"},
	"balance_sheet": {"tenant_id", "as_of"},
}

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type sqlSource struct {
	db *sql.DB
}

// NewSQLSource wraps a database handle as a RecordSource. The handle's
// driver owns connection timeouts; this adapter only propagates them.
func NewSQLSource(db *sql.DB) RecordSource {
	return &sqlSource{db: db}
}

func (s *sqlSource) Fetch(ctx context.Context, entity string, opts FetchOptions) ([]domain.Record, error) {
	tbl, ok := entityTables[entity]
	if !ok {
		return nil, fmt.Errorf("unknown entity: %s", entity)
	}

	var sb strings.Builder
	var args []any
	fmt.Fprintf(&sb, "SELECT * FROM %s", tbl.table)

	// Filter fields in sorted order so the query text is deterministic.
	fields := make([]string, 0, len(opts.Filter))
	for field := range opts.Filter {
		if !identPattern.MatchString(field) {
			return nil, fmt.Errorf("invalid filter field: %q", field)
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var conds []string
	for _, field := range fields {
		args = append(args, opts.Filter[field])
		conds = append(conds, fmt.Sprintf("%s = $%d", field, len(args)))
	}
	if opts.Range != nil {
		args = append(args, opts.Range.From)
		conds = append(conds, fmt.Sprintf("%s >= $%d", tbl.dateField, len(args)))
		args = append(args, opts.Range.To)
		conds = append(conds, fmt.Sprintf("%s <= $%d", tbl.dateField, len(args)))
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}

	if opts.Sort != nil && opts.Sort.Field != "" {
		if !identPattern.MatchString(opts.Sort.Field) {
			return nil, fmt.Errorf("invalid sort field: %q", opts.Sort.Field)
		}
		direction := "ASC"
		if opts.Sort.Desc {
			direction = "DESC"
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s", opts.Sort.Field, direction)
	}

	if opts.Page != nil {
		if opts.Page.Limit != nil {
			args = append(args, *opts.Page.Limit)
			fmt.Fprintf(&sb, " LIMIT $%d", len(args))
		}
		if opts.Page.Offset > 0 {
			args = append(args, opts.Page.Offset)
			fmt.Fprintf(&sb, " OFFSET $%d", len(args))
		}
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%s query failed: %w", entity, err)
	}
	defer closeRows(ctx, rows)

	return scanRecords(rows)
}

func (s *sqlSource) CallProcedure(ctx context.Context, name string, params map[string]any) ([]domain.Record, error) {
	paramNames, ok := procedureParams[name]
	if !ok {
		return nil, fmt.Errorf("unknown procedure: %s", name)
	}

	placeholders := make([]string, len(paramNames))
	args := make([]any, len(paramNames))
	for i, p := range paramNames {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if v, ok := params[p]; ok {
			args[i] = v
		}
	}
	query := fmt.Sprintf("SELECT * FROM %s(%s)", name, strings.Join(placeholders, ", "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("procedure %s failed: %w", name, err)
	}
	defer closeRows(ctx, rows)

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]domain.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	records := []domain.Record{}
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		record := make(domain.Record, len(cols))
		for i, col := range cols {
			record[col] = normalizeValue(raw[i], types[i].DatabaseTypeName())
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// normalizeValue narrows driver values to the Record scalar set. NUMERIC
// columns arrive as text from lib/pq; they go through decimal so scale is
// honored before the single conversion to float64.
func normalizeValue(v any, dbType string) any {
	switch t := v.(type) {
	case nil:
		return nil
	case []byte:
		s := string(t)
		switch dbType {
		case "NUMERIC", "DECIMAL":
			if d, err := decimal.NewFromString(s); err == nil {
				return d.InexactFloat64()
			}
		}
		return s
	case int64:
		return float64(t)
	case float64, bool, string:
		return t
	case time.Time:
		return t
	}
	return fmt.Sprint(v)
}

func closeRows(ctx context.Context, rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close query rows")
	}
}
