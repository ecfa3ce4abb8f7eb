// pkg/report/report.go
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/retailops/ingress/pkg/config"
	"github.com/retailops/ingress/pkg/frame"
	"github.com/retailops/ingress/pkg/model"
	"github.com/retailops/ingress/pkg/store"
)

// Report is one derived summary: a read query against the curate layer
// and the CSV file its result is exported to
type Report struct {
	Name       string
	Query      string
	OutputPath string
}

// Definitions returns the three summary reports. The quantity and
// price columns come from the transaction side of the join, hence the
// _x suffix.
func Definitions(paths config.OutputPaths) []Report {
	return []Report{
		{
			Name: "top2_best_selling",
			Query: `
				SELECT product_id, product_name, SUM(quantity) AS total_sold
				FROM curate.unified_transactions
				GROUP BY product_id, product_name
				ORDER BY total_sold DESC
				LIMIT 2`,
			OutputPath: paths.TopSellers,
		},
		{
			Name: "average_order_value_per_customer",
			Query: `
				SELECT customer_id, AVG(quantity * price_x) AS average_order_value
				FROM curate.unified_transactions
				GROUP BY customer_id`,
			OutputPath: paths.AvgOrderValue,
		},
		{
			Name: "total_revenue_per_category",
			Query: `
				SELECT category, SUM(quantity * price_x) AS total_revenue
				FROM curate.unified_transactions
				GROUP BY category`,
			OutputPath: paths.RevenueByCat,
		},
	}
}

// Runner executes reports and exports their results
type Runner struct {
	store  *store.Store
	logger *zap.Logger
	stdout io.Writer
}

// NewRunner creates a report runner writing tables to standard output
func NewRunner(st *store.Store, logger *zap.Logger) *Runner {
	return &Runner{store: st, logger: logger, stdout: os.Stdout}
}

// WithOutput redirects the printed tables, used by tests
func (r *Runner) WithOutput(w io.Writer) *Runner {
	r.stdout = w
	return r
}

// Run executes every report in order: query the curate layer, print
// the result table, then export it as CSV with a header row. The first
// failure aborts the remaining reports.
func (r *Runner) Run(ctx context.Context, reports []Report) error {
	for _, rep := range reports {
		fr, err := r.store.QueryFrame(ctx, rep.Query)
		if err != nil {
			return fmt.Errorf("report %s: %w", rep.Name, err)
		}

		if err := Print(r.stdout, rep.Name, fr); err != nil {
			return model.NewError(model.CategoryIO, "export",
				fmt.Errorf("print report %s: %w", rep.Name, err))
		}

		if err := WriteCSV(rep.OutputPath, fr); err != nil {
			return model.NewError(model.CategoryIO, "export",
				fmt.Errorf("report %s: %w", rep.Name, err))
		}

		r.logger.Info("Exported report",
			zap.String("report", rep.Name),
			zap.String("path", rep.OutputPath),
			zap.Int("rows", fr.NumRows()))
	}
	return nil
}

// Print renders a frame as an aligned text table
func Print(w io.Writer, name string, fr *frame.Frame) error {
	if _, err := fmt.Fprintf(w, "%s\n", name); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := ""
	for i, col := range fr.Columns() {
		if i > 0 {
			header += "\t"
		}
		header += col
	}
	fmt.Fprintln(tw, header)
	for i := 0; i < fr.NumRows(); i++ {
		line := ""
		for j, v := range fr.Row(i) {
			if j > 0 {
				line += "\t"
			}
			line += formatCell(v)
		}
		fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}

// WriteCSV exports a frame to path with a header row and no index column
func WriteCSV(path string, fr *frame.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(fr.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < fr.NumRows(); i++ {
		record := make([]string, fr.NumColumns())
		for j, v := range fr.Row(i) {
			record[j] = formatCell(v)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// formatCell renders a scalar for text output
func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}
