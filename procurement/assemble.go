package procurement

import (
	"sort"

	"procurement/models"
	"procurement/utils"
)

// Metadata is reference data indexed for left joins. Item keys are normalized
// stock codes; the first record wins when the source repeats a key. Dropped
// counts item records whose code has no digits.
type Metadata struct {
	Items     map[string]models.Item
	Suppliers map[string]models.Supplier
	Dropped   int
}

// NewMetadata indexes items by normalized code and suppliers by id.
func NewMetadata(items []models.Item, suppliers []models.Supplier) Metadata {
	md := Metadata{
		Items:     make(map[string]models.Item, len(items)),
		Suppliers: make(map[string]models.Supplier, len(suppliers)),
	}
	for _, it := range items {
		code := utils.NormalizeStockCode(it.StockID)
		if code == "" {
			md.Dropped++
			continue
		}
		if _, dup := md.Items[code]; dup {
			continue
		}
		md.Items[code] = it
	}
	for _, s := range suppliers {
		if _, dup := md.Suppliers[s.SupplierID]; dup {
			continue
		}
		md.Suppliers[s.SupplierID] = s
	}
	return md
}

// SupplierIDs lists the distinct non-empty supplier ids of items, in first-seen order.
func SupplierIDs(items []models.Item) []string {
	seen := map[string]bool{}
	var ids []string
	for _, it := range items {
		if it.SupplierID == nil || *it.SupplierID == "" || seen[*it.SupplierID] {
			continue
		}
		seen[*it.SupplierID] = true
		ids = append(ids, *it.SupplierID)
	}
	return ids
}

// info left-joins one code against item and supplier metadata. Missing metadata
// leaves fields nil; the row is always produced.
func (md Metadata) info(code string) models.ItemInfo {
	info := models.ItemInfo{StockID: code}
	it, ok := md.Items[code]
	if !ok {
		return info
	}
	info.ItemName = it.Description1
	info.SupplierID = it.SupplierID
	info.Cat0, info.Cat1, info.Cat2, info.Cat3, info.Cat4 = it.Cat0, it.Cat1, it.Cat2, it.Cat3, it.Cat4
	info.Brand = it.Brand
	if it.SupplierID != nil {
		if s, ok := md.Suppliers[*it.SupplierID]; ok {
			info.SupplierName = s.SupplierName
		}
	}
	return info
}

// AssembleSchedule builds purchase schedule rows, one per recommendation, sorted for display.
func AssembleSchedule(recs []models.RecommendationRow, md Metadata) []models.DisplayRow {
	rows := make([]models.DisplayRow, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, models.DisplayRow{
			ItemInfo: md.info(r.StockID),
			Schedule: &models.ScheduleMetrics{
				AvgWeeklySales: r.AvgSales,
				StockOnHand:    r.OnHand,
				OrderQty:       r.OrderQty,
			},
		})
	}
	SortForDisplay(rows)
	return rows
}

// AssembleSales builds sales report rows, one per weekly sales row, sorted for display.
func AssembleSales(sales []models.WeeklySalesRow, md Metadata) []models.DisplayRow {
	rows := make([]models.DisplayRow, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, models.DisplayRow{
			ItemInfo: md.info(s.StockID),
			Sales: &models.SalesMetrics{
				QuantitySold: s.QuantitySold,
				LinkQty:      s.LinkQtySold,
			},
		})
	}
	SortForDisplay(rows)
	return rows
}

// CompareNullable orders nil after every value, and values lexically.
func CompareNullable(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}

// SortForDisplay orders rows by supplier name, cat0..cat4, brand, then item name,
// with missing values last in every column. Stock code breaks remaining ties,
// so the order is total.
func SortForDisplay(rows []models.DisplayRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		ki, kj := rows[i].GroupKey(), rows[j].GroupKey()
		for c := range ki {
			if d := CompareNullable(ki[c], kj[c]); d != 0 {
				return d < 0
			}
		}
		if d := CompareNullable(rows[i].ItemName, rows[j].ItemName); d != 0 {
			return d < 0
		}
		return rows[i].StockID < rows[j].StockID
	})
}
