package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"procurement/chat"
	"procurement/config"
	"procurement/export"
	"procurement/models"
	"procurement/procurement"
	"procurement/session"
)

var (
	branch   string
	week     string
	view     string
	lookback int
	format   string
	outFile  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print or export a sales report or purchase schedule",
	Long: `Build one table and write it to stdout or a file.

Views:
- sales_report: quantity sold per item across all branches for the week
- purchase_schedule: recommended order quantity per item for the branch

Formats: table (stdout), pdf (purchase schedule only), xlsx.`,
	RunE: runReport,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the data assistant about a report",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	for _, c := range []*cobra.Command{reportCmd, askCmd} {
		c.Flags().StringVar(&branch, "branch", "", "Branch to report on")
		c.Flags().StringVar(&week, "week", "", "ISO week (YYYY-Www), latest when empty")
		c.Flags().StringVar(&view, "view", string(models.ViewPurchaseSchedule), "View (sales_report|purchase_schedule)")
		rootCmd.AddCommand(c)
	}
	reportCmd.Flags().IntVar(&lookback, "lookback", 0, "Prior weeks to average, configured default when 0")
	reportCmd.Flags().StringVar(&format, "format", "table", "Output format (table|pdf|xlsx)")
	reportCmd.Flags().StringVarP(&outFile, "out", "o", "", "Output file, default name when empty")
}

// buildTable runs the selected view. Insufficient history is reported as an error here.
func buildTable(ctx context.Context, svc *procurement.Service) (*models.DisplayTable, error) {
	mode := models.ViewMode(view)
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown view %q", view)
	}
	if mode == models.ViewPurchaseSchedule {
		if branch == "" {
			return nil, fmt.Errorf("--branch is required for the purchase schedule")
		}
		return svc.PurchaseSchedule(ctx, branch, week, lookback)
	}
	return svc.SalesReport(ctx, branch, week)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadForCLI()
	if err != nil {
		return err
	}
	ctx := context.Background()
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	table, err := buildTable(ctx, b.service)
	if err != nil {
		return err
	}

	switch format {
	case "table":
		return WriteTable(cmd.OutOrStdout(), table)
	case "pdf":
		return writeFile(outFile, export.PDFFilename(table.Branch, table.Week), func(w io.Writer) error {
			return export.PurchasePDF(w, table)
		})
	case "xlsx":
		return writeFile(outFile, export.XLSXFilename(table), func(w io.Writer) error {
			return export.TableXLSX(w, table)
		})
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadForCLI()
	if err != nil {
		return err
	}
	ctx := context.Background()
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	table, err := buildTable(ctx, b.service)
	switch {
	case errors.Is(err, procurement.ErrInsufficientHistory), errors.Is(err, procurement.ErrNoWeeks):
		fmt.Fprintln(cmd.OutOrStdout(), chat.NoDataText)
		return nil
	case err != nil:
		return err
	case len(table.Rows) == 0:
		fmt.Fprintln(cmd.OutOrStdout(), chat.NoDataText)
		return nil
	}

	orch := chat.NewOrchestrator(b.generator, cfg.ChatHistoryLimit)
	turns, err := orch.Ask(ctx, session.NewStore().Create(), procurement.Summarize(table), strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), turns[len(turns)-1].Text)
	return nil
}

func writeFile(path, fallback string, write func(io.Writer) error) error {
	if path == "" {
		path = fallback
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	config.GetLogger().WithField("file", path).Info("[EXPORT] written")
	return nil
}

// WriteTable prints t as aligned text columns, metrics rounded to two decimals.
func WriteTable(w io.Writer, t *models.DisplayTable) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns(), "\t"))
	for _, r := range t.Rows {
		values := t.Values(r)
		cells := make([]string, len(values))
		for i, v := range values {
			switch x := v.(type) {
			case float64:
				cells[i] = strconv.FormatFloat(x, 'f', 2, 64)
			default:
				cells[i] = fmt.Sprint(x)
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
