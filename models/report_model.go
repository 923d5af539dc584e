package models

// ViewMode selects which table a session is looking at.
type ViewMode string

const (
	ViewSalesReport      ViewMode = "sales_report"
	ViewPurchaseSchedule ViewMode = "purchase_schedule"
)

// Valid reports whether m is a known view mode.
func (m ViewMode) Valid() bool {
	return m == ViewSalesReport || m == ViewPurchaseSchedule
}

// Toggle returns the other view mode.
func (m ViewMode) Toggle() ViewMode {
	if m == ViewPurchaseSchedule {
		return ViewSalesReport
	}
	return ViewPurchaseSchedule
}

// RecommendationRow is the purchase recommendation for one item at one branch.
type RecommendationRow struct {
	StockID  string  `json:"stock_id"`
	AvgSales float64 `json:"avg_sales"`
	OnHand   float64 `json:"onhand"`
	OrderQty float64 `json:"order_qty"`
}

// ItemInfo holds the identifying and descriptive columns shared by both views.
type ItemInfo struct {
	SupplierID   *string `json:"supplier_id"`
	SupplierName *string `json:"supplier_name"`
	Cat0         *string `json:"cat0"`
	Cat1         *string `json:"cat1"`
	Cat2         *string `json:"cat2"`
	Cat3         *string `json:"cat3"`
	Cat4         *string `json:"cat4"`
	Brand        *string `json:"brand"`
	StockID      string  `json:"stock_id"`
	ItemName     *string `json:"item_name"`
}

// GroupKey returns the display grouping columns in order: supplier name, cat0..cat4, brand.
func (i ItemInfo) GroupKey() [7]*string {
	return [7]*string{i.SupplierName, i.Cat0, i.Cat1, i.Cat2, i.Cat3, i.Cat4, i.Brand}
}

// SalesMetrics is the metric set of the sales report view.
type SalesMetrics struct {
	QuantitySold float64 `json:"quantity_sold"`
	LinkQty      float64 `json:"link_qty"`
}

// ScheduleMetrics is the metric set of the purchase schedule view.
type ScheduleMetrics struct {
	AvgWeeklySales float64 `json:"avg_weekly_sales"`
	StockOnHand    float64 `json:"stock_on_hand"`
	OrderQty       float64 `json:"order_qty"`
}

// DisplayRow is one rendered row. Exactly one of Sales or Schedule is set,
// matching the owning table's mode.
type DisplayRow struct {
	ItemInfo
	Sales    *SalesMetrics    `json:"sales,omitempty"`
	Schedule *ScheduleMetrics `json:"schedule,omitempty"`
}

// DisplayTable is the row set for one view.
type DisplayTable struct {
	Mode       ViewMode     `json:"mode"`
	Week       string       `json:"week"`
	Branch     string       `json:"branch"`
	PriorWeeks []string     `json:"prior_weeks,omitempty"`
	Rows       []DisplayRow `json:"rows"`
}

var (
	identityColumns = []string{
		"SupplierID", "SupplierName", "Cat0", "Cat1", "Cat2", "Cat3", "Cat4", "Brand", "StockID", "Item Name",
	}
	salesColumns    = []string{"Quantity Sold", "LinkQty"}
	scheduleColumns = []string{"Avg Weekly Sales", "Stock On Hand", "Order Qty"}
)

// Columns returns the column contract of the table's view mode.
func (t *DisplayTable) Columns() []string {
	cols := append([]string{}, identityColumns...)
	if t.Mode == ViewPurchaseSchedule {
		return append(cols, scheduleColumns...)
	}
	return append(cols, salesColumns...)
}

// MetricName is the label of the primary metric: quantity sold or order quantity.
func (t *DisplayTable) MetricName() string {
	if t.Mode == ViewPurchaseSchedule {
		return "Order Qty"
	}
	return "Quantity Sold"
}

// Metric returns the primary metric of a row for the table's mode.
func (t *DisplayTable) Metric(r DisplayRow) float64 {
	if t.Mode == ViewPurchaseSchedule {
		if r.Schedule == nil {
			return 0
		}
		return r.Schedule.OrderQty
	}
	if r.Sales == nil {
		return 0
	}
	return r.Sales.QuantitySold
}

// Values returns a row's cells in Columns order. Missing text cells are empty strings.
func (t *DisplayTable) Values(r DisplayRow) []any {
	str := func(p *string) any {
		if p == nil {
			return ""
		}
		return *p
	}
	vals := []any{
		str(r.SupplierID), str(r.SupplierName), str(r.Cat0), str(r.Cat1), str(r.Cat2),
		str(r.Cat3), str(r.Cat4), str(r.Brand), r.StockID, str(r.ItemName),
	}
	if t.Mode == ViewPurchaseSchedule {
		var m ScheduleMetrics
		if r.Schedule != nil {
			m = *r.Schedule
		}
		return append(vals, m.AvgWeeklySales, m.StockOnHand, m.OrderQty)
	}
	var m SalesMetrics
	if r.Sales != nil {
		m = *r.Sales
	}
	return append(vals, m.QuantitySold, m.LinkQty)
}

// ReportQuery selects the branch and week of a report. An empty week means the latest.
type ReportQuery struct {
	Branch string `query:"branch"`
	Week   string `query:"week" validate:"omitempty,max=10"`
}

// ScheduleQuery selects a purchase schedule. Lookback zero uses the configured default.
type ScheduleQuery struct {
	Branch   string `query:"branch" validate:"required"`
	Week     string `query:"week" validate:"omitempty,max=10"`
	Lookback int    `query:"lookback" validate:"omitempty,min=1,max=52"`
}

// HistoryQuery pages through a session's conversation.
type HistoryQuery struct {
	Page     int `query:"page" validate:"omitempty,min=1,max=100000"`
	PageSize int `query:"pageSize" validate:"omitempty,min=1,max=200"`
}
