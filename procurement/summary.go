package procurement

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"procurement/models"
	"procurement/utils"
)

// TopK is how many leading rows the summary lists by primary metric.
const TopK = 5

// UnknownLabel stands in for a missing supplier id or name in summaries and exports.
const UnknownLabel = "Unknown"

// Summarize renders table as a text snapshot for the data assistant. Every row
// appears in the name mappings; only the top rows are listed separately.
// The output depends only on the table, so equal tables give equal text.
func Summarize(t *models.DisplayTable) string {
	var b strings.Builder

	names := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		names[i] = itemLabel(r)
	}

	metric := t.MetricName()
	if t.Mode == models.ViewPurchaseSchedule {
		fmt.Fprintf(&b, "Purchase Schedule for branch %s, week %s", t.Branch, t.Week)
		if len(t.PriorWeeks) > 0 {
			fmt.Fprintf(&b, " (average of weeks %s)", strings.Join(t.PriorWeeks, ", "))
		}
		b.WriteString(".\n")
		b.WriteString("Top recommended orders: ")
	} else {
		fmt.Fprintf(&b, "Weekly Sales Table (all branches) for week %s.\n", t.Week)
		b.WriteString("Top items by quantity sold: ")
	}

	top := topRows(t)
	parts := make([]string, len(top))
	for i, idx := range top {
		parts[i] = fmt.Sprintf("{%s: %s, %s: %s}",
			strconv.Quote("Item Name"), strconv.Quote(names[idx]),
			strconv.Quote(metric), formatQty(t.Metric(t.Rows[idx])))
	}
	b.WriteString("[" + strings.Join(parts, ", ") + "]\n")

	fmt.Fprintf(&b, "Total items: %d\n", len(t.Rows))

	pairs := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		pairs[i] = strconv.Quote(names[i]) + ": " + formatQty(t.Metric(r))
	}
	if t.Mode == models.ViewPurchaseSchedule {
		b.WriteString("Product order mapping: ")
	} else {
		b.WriteString("Product sales mapping: ")
	}
	b.WriteString("{" + strings.Join(pairs, ", ") + "}\n")

	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
	}
	b.WriteString("All product names: [" + strings.Join(quoted, ", ") + "]\n")

	b.WriteString("Supplier mapping (SupplierID to SupplierName): " + supplierMapping(t) + "\n")

	itemSupplier := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		itemSupplier[i] = strconv.Quote(names[i]) + ": " + strconv.Quote(utils.PointerToString(r.SupplierID, UnknownLabel))
	}
	b.WriteString("Product to SupplierID mapping: {" + strings.Join(itemSupplier, ", ") + "}\n")

	if t.Mode == models.ViewPurchaseSchedule {
		b.WriteString("Supplier total order quantity: ")
	} else {
		b.WriteString("Supplier total quantity sold: ")
	}
	b.WriteString(supplierTotals(t))

	return b.String()
}

func itemLabel(r models.DisplayRow) string {
	return utils.PointerToString(r.ItemName, "Item "+r.StockID)
}

// topRows returns the indices of the TopK rows by metric, descending, ties in table order.
func topRows(t *models.DisplayTable) []int {
	idx := make([]int, len(t.Rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return t.Metric(t.Rows[idx[a]]) > t.Metric(t.Rows[idx[b]])
	})
	if len(idx) > TopK {
		idx = idx[:TopK]
	}
	return idx
}

func supplierMapping(t *models.DisplayTable) string {
	seen := map[string]bool{}
	var pairs []string
	for _, r := range t.Rows {
		if r.SupplierID == nil || seen[*r.SupplierID] {
			continue
		}
		seen[*r.SupplierID] = true
		pairs = append(pairs, strconv.Quote(*r.SupplierID)+": "+strconv.Quote(utils.PointerToString(r.SupplierName, UnknownLabel)))
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

// supplierTotals sums the primary metric per supplier name, largest first,
// ties in order of first appearance.
func supplierTotals(t *models.DisplayTable) string {
	type total struct {
		name string
		sum  float64
	}
	var totals []*total
	byName := map[string]*total{}
	for _, r := range t.Rows {
		name := utils.PointerToString(r.SupplierName, UnknownLabel)
		tt, ok := byName[name]
		if !ok {
			tt = &total{name: name}
			byName[name] = tt
			totals = append(totals, tt)
		}
		tt.sum += t.Metric(r)
	}
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].sum > totals[j].sum })

	pairs := make([]string, len(totals))
	for i, tt := range totals {
		pairs[i] = strconv.Quote(tt.name) + ": " + formatQty(tt.sum)
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

// formatQty prints a quantity rounded to two decimals without trailing zeros.
func formatQty(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
