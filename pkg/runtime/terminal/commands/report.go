package commands

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/finboard/finboard/pkg/models/domain"
	"github.com/finboard/finboard/pkg/runtime/terminal/export"
	"github.com/finboard/finboard/pkg/services/report"
	"github.com/finboard/finboard/pkg/services/source"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

type ReportCmd struct {
	dsn      string
	kind     string
	tenant   string
	from     string
	to       string
	top      int
	reporter *export.Reporter
}

func NewReportCmd(reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build a report and print it",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.dsn, "dsn", "", "Postgres connection string")
	cmd.Flags().StringVar(&rc.kind, "kind", "", "Report kind (e.g. sales-summary, receivables-aging)")
	cmd.Flags().StringVar(&rc.tenant, "tenant", "default", "Tenant to report on")
	cmd.Flags().StringVar(&rc.from, "from", "", "Start date (YYYY-MM-DD, default 30 days ago)")
	cmd.Flags().StringVar(&rc.to, "to", "", "End date (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&rc.top, "top", 5, "Number of entries in ranking reports")

	_ = cmd.MarkFlagRequired("dsn")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	rng, err := rc.parseRange()
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", rc.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	assembler := report.NewAssembler(source.NewSQLSource(db))
	scope := report.Scope{TenantID: rc.tenant}

	model, err := assembler.BuildReport(ctx, scope, report.Kind(rc.kind), rng, domain.Page{Limit: &rc.top})
	if err != nil {
		return fmt.Errorf("failed to build %q report: %w", rc.kind, err)
	}

	return rc.reporter.Handle(model)
}

func (rc *ReportCmd) parseRange() (domain.DateRange, error) {
	to := time.Now().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -30)

	var err error
	if rc.from != "" {
		from, err = time.Parse("2006-01-02", rc.from)
		if err != nil {
			return domain.DateRange{}, fmt.Errorf("invalid --from date %q: %w", rc.from, err)
		}
	}
	if rc.to != "" {
		to, err = time.Parse("2006-01-02", rc.to)
		if err != nil {
			return domain.DateRange{}, fmt.Errorf("invalid --to date %q: %w", rc.to, err)
		}
	}
	if to.Before(from) {
		return domain.DateRange{}, fmt.Errorf("end date %s is before start date %s", to.Format("2006-01-02"), from.Format("2006-01-02"))
	}

	return domain.DateRange{From: from, To: to}, nil
}
