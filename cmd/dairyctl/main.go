// Command dairyctl runs maintenance and back-office tasks against the shop database.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sangkips/dairy-pos/internal/app"
	"github.com/sangkips/dairy-pos/internal/application/service"
	"github.com/sangkips/dairy-pos/internal/config"
	"github.com/sangkips/dairy-pos/internal/infrastructure/database"
	"github.com/sangkips/dairy-pos/pkg/logger"
	"github.com/sangkips/dairy-pos/pkg/utils"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	a := &cli.App{
		Name:  "dairyctl",
		Usage: "dairy shop back-office tasks",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "create or update the schema and seed default categories",
				Action: withApp(migrate),
			},
			{
				Name:   "seed",
				Usage:  "create the default categories",
				Action: withApp(seed),
			},
			{
				Name:  "recompute-prices",
				Usage: "rebuild variant prices from base prices",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "slug", Usage: "only this product"},
				},
				Action: withApp(recomputePrices),
			},
			{
				Name:  "import-products",
				Usage: "import products from an xlsx sheet",
				Flags: []cli.Flag{
					&cli.PathFlag{Name: "file", Required: true},
				},
				Action: withApp(importProducts),
			},
			{
				Name:  "statement",
				Usage: "print a customer statement",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "customer", Required: true, Usage: "customer id"},
					&cli.StringFlag{Name: "from", Usage: "YYYY-MM-DD"},
					&cli.StringFlag{Name: "to", Usage: "YYYY-MM-DD"},
				},
				Action: withApp(statement),
			},
			{
				Name:  "export-sales",
				Usage: "write the sales report workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "YYYY-MM-DD"},
					&cli.StringFlag{Name: "to", Usage: "YYYY-MM-DD"},
					&cli.PathFlag{Name: "out", Usage: "output file, defaults to the report name"},
				},
				Action: withApp(exportSales),
			},
			{
				Name:  "invoice-month",
				Usage: "post milk invoices for every customer",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "month", Usage: "YYYY-MM, defaults to last month"},
				},
				Action: withApp(invoiceMonth),
			},
			{
				Name:   "purge-keys",
				Usage:  "delete expired idempotency keys",
				Action: withApp(purgeKeys),
			},
		},
	}

	if err := a.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "dairyctl:", err)
		os.Exit(1)
	}
}

// withApp opens the database for the duration of one command
func withApp(fn func(*cli.Context, *app.App) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg := config.Load()
		base, err := logger.New(cfg.Log.Level)
		if err != nil {
			return err
		}
		defer func() { _ = base.Sync() }()

		a, err := app.Open(cfg, base)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer a.Close()

		return fn(c, a)
	}
}

func migrate(_ *cli.Context, a *app.App) error {
	if err := a.Migrate(); err != nil {
		return err
	}
	a.Logger.Info("schema up to date")
	return nil
}

func seed(_ *cli.Context, a *app.App) error {
	return database.SeedDefaultData(a.DB, a.Logger)
}

func recomputePrices(c *cli.Context, a *app.App) error {
	products := a.Services.Products
	if slug := c.String("slug"); slug != "" {
		p, err := products.RecomputePrices(c.Context, slug)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "recomputed %s\n", p.Name)
		return nil
	}

	n, err := products.RecomputeAllPrices(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "recomputed %d products\n", n)
	return nil
}

func importProducts(c *cli.Context, a *app.App) error {
	f, err := os.Open(c.Path("file"))
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := service.ParseProductSheet(f)
	if err != nil {
		return err
	}
	res, err := a.Services.Products.ImportProducts(c.Context, rows)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "%d rows, %d imported, %d failed\n", res.TotalRows, res.Successful, res.Failed)
	for _, e := range res.Errors {
		fmt.Fprintf(c.App.Writer, "  row %d: %s\n", e.Row, e.Message)
	}
	return nil
}

func dateFlags(c *cli.Context) (*time.Time, *time.Time, error) {
	from, err := utils.ParseOptionalDate(c.String("from"))
	if err != nil {
		return nil, nil, err
	}
	to, err := utils.ParseOptionalDate(c.String("to"))
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func statement(c *cli.Context, a *app.App) error {
	id, err := utils.ParseUUID(c.String("customer"))
	if err != nil {
		return fmt.Errorf("invalid customer id: %w", err)
	}
	from, to, err := dateFlags(c)
	if err != nil {
		return err
	}

	st, err := a.Services.Customers.GetStatement(c.Context, id, from, to)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "%s\t\t\t\n", st.Customer.Name)
	fmt.Fprintf(w, "Opening balance\t\t%s\t\n", utils.FormatMoney(st.Totals.OpeningBalance))
	fmt.Fprintln(w, "Date\tType\tAmount\tBalance\t")
	for _, l := range st.Chronological() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
			l.Date.Format(utils.DateLayout), l.Kind, utils.FormatMoney(l.Amount), utils.FormatMoney(l.RunningBalance))
	}
	fmt.Fprintf(w, "Invoiced\t\t%s\t\n", utils.FormatMoney(st.Totals.TotalInvoiced))
	fmt.Fprintf(w, "Paid\t\t%s\t\n", utils.FormatMoney(st.Totals.TotalPaid))
	fmt.Fprintf(w, "Closing balance\t\t%s\t\n", utils.FormatMoney(st.Totals.ClosingBalance))
	return w.Flush()
}

func exportSales(c *cli.Context, a *app.App) error {
	from, to, err := dateFlags(c)
	if err != nil {
		return err
	}

	data, filename, err := a.Services.Reports.ExportSalesXLSX(c.Context, from, to, "")
	if err != nil {
		return err
	}
	out := c.Path("out")
	if out == "" {
		out = filename
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "wrote %s\n", out)
	return nil
}

func invoiceMonth(c *cli.Context, a *app.App) error {
	year, month := utils.PreviousMonth(time.Now())
	if s := c.String("month"); s != "" {
		var err error
		if year, month, err = utils.ParseMonth(s); err != nil {
			return err
		}
	}

	res, err := a.Services.Deliveries.InvoiceAllForMonth(c.Context, year, month)
	if err != nil {
		return err
	}
	a.Logger.Info("monthly invoices posted",
		zap.String("month", res.Month),
		zap.Int("invoiced", res.Invoiced),
		zap.Int("already_invoiced", res.AlreadyInvoiced),
		zap.Int("skipped", res.Skipped),
		zap.String("total", res.Total.StringFixed(2)),
	)
	fmt.Fprintf(c.App.Writer, "%s: %d invoiced, %d already invoiced, total %s\n",
		res.Month, res.Invoiced, res.AlreadyInvoiced, utils.FormatMoney(res.Total))
	return nil
}

func purgeKeys(c *cli.Context, a *app.App) error {
	n, err := a.Repos.Idempotency.DeleteExpired(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "deleted %d expired keys\n", n)
	return nil
}
