// Package export renders display tables as downloadable files.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/go-pdf/fpdf"

	"procurement/models"
	"procurement/procurement"
	"procurement/utils"
)

var (
	ErrEmptyTable = errors.New("table has no rows to export")
	ErrWrongView  = errors.New("purchase recommendation export needs the purchase schedule view")
)

type pdfColumn struct {
	title string
	width float64
	value func(models.DisplayRow) string
}

func qty(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}

var pdfColumns = []pdfColumn{
	{"Item Name", 60, func(r models.DisplayRow) string { return utils.Truncate(utils.PointerToString(r.ItemName, ""), 40) }},
	{"Order Qty", 22, func(r models.DisplayRow) string { return qty(r.Schedule.OrderQty) }},
	{"Stock On Hand", 22, func(r models.DisplayRow) string { return qty(r.Schedule.StockOnHand) }},
	{"Avg Sales", 22, func(r models.DisplayRow) string { return qty(r.Schedule.AvgWeeklySales) }},
	{"Cat0", 28, func(r models.DisplayRow) string { return utils.Truncate(utils.PointerToString(r.Cat0, ""), 12) }},
	{"Cat1", 28, func(r models.DisplayRow) string { return utils.Truncate(utils.PointerToString(r.Cat1, ""), 12) }},
}

// supplierGroup is the rows of one supplier page, in table order.
type supplierGroup struct {
	id, name *string
	rows     []models.DisplayRow
}

// groupBySupplier splits rows by (supplier id, supplier name). Groups are ordered
// by id then name, with missing values last.
func groupBySupplier(rows []models.DisplayRow) []*supplierGroup {
	var groups []*supplierGroup
	index := map[[2]string]*supplierGroup{}
	for _, r := range rows {
		// A leading byte keeps nil apart from an empty string.
		key := [2]string{"\x00", "\x00"}
		if r.SupplierID != nil {
			key[0] = "v" + *r.SupplierID
		}
		if r.SupplierName != nil {
			key[1] = "v" + *r.SupplierName
		}
		g, ok := index[key]
		if !ok {
			g = &supplierGroup{id: r.SupplierID, name: r.SupplierName}
			index[key] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, r)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if d := procurement.CompareNullable(groups[i].id, groups[j].id); d != 0 {
			return d < 0
		}
		return procurement.CompareNullable(groups[i].name, groups[j].name) < 0
	})
	return groups
}

// PurchasePDF writes one page per supplier listing the recommended orders of t.
func PurchasePDF(w io.Writer, t *models.DisplayTable) error {
	if t.Mode != models.ViewPurchaseSchedule {
		return ErrWrongView
	}
	if len(t.Rows) == 0 {
		return ErrEmptyTable
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, g := range groupBySupplier(t.Rows) {
		name := utils.PointerToString(g.name, procurement.UnknownLabel)
		id := utils.PointerToString(g.id, procurement.UnknownLabel)

		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Purchase Recommendation - %s (%s)", name, id)), "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Branch: %s | Week: %s", t.Branch, t.Week)), "", 1, "", false, 0, "")
		pdf.Ln(4)

		pdf.SetFont("Arial", "B", 11)
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, 8, col.title, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, r := range g.rows {
			if r.Schedule == nil {
				continue
			}
			for _, col := range pdfColumns {
				pdf.CellFormat(col.width, 8, tr(col.value(r)), "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

// PDFFilename is the download name of the purchase recommendation for branch and week.
func PDFFilename(branch, week string) string {
	return fmt.Sprintf("purchase_recommendation_%s_%s.pdf", branch, week)
}
