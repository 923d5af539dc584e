package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"procurement/models"
)

func sp(s string) *string { return &s }

func schedule() *models.DisplayTable {
	return &models.DisplayTable{
		Mode:   models.ViewPurchaseSchedule,
		Week:   "2024-W10",
		Branch: "North",
		Rows: []models.DisplayRow{
			{ItemInfo: models.ItemInfo{StockID: "100", ItemName: sp("Rice 5kg"), SupplierID: sp("S2"), SupplierName: sp("Bolt"), Cat0: sp("Groceries and staples")},
				Schedule: &models.ScheduleMetrics{AvgWeeklySales: 5, StockOnHand: 3, OrderQty: 2}},
			{ItemInfo: models.ItemInfo{StockID: "300"},
				Schedule: &models.ScheduleMetrics{AvgWeeklySales: 1.6, OrderQty: 1.6}},
			{ItemInfo: models.ItemInfo{StockID: "200", ItemName: sp("Café crème"), SupplierID: sp("S1"), SupplierName: sp("Acme")},
				Schedule: &models.ScheduleMetrics{AvgWeeklySales: 4, OrderQty: 4}},
			{ItemInfo: models.ItemInfo{StockID: "201", ItemName: sp("Tea"), SupplierID: sp("S1"), SupplierName: sp("Acme")},
				Schedule: &models.ScheduleMetrics{AvgWeeklySales: 1, OrderQty: 1}},
		},
	}
}

func TestGroupBySupplier(t *testing.T) {
	groups := groupBySupplier(schedule().Rows)
	require.Len(t, groups, 3)

	assert.Equal(t, "S1", *groups[0].id)
	assert.Len(t, groups[0].rows, 2)
	assert.Equal(t, "200", groups[0].rows[0].StockID)
	assert.Equal(t, "S2", *groups[1].id)
	assert.Nil(t, groups[2].id, "unknown supplier page comes last")
}

func TestPurchasePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PurchasePDF(&buf, schedule()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPurchasePDFRejectsOtherViews(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, PurchasePDF(&buf, &models.DisplayTable{Mode: models.ViewSalesReport}), ErrWrongView)
	assert.ErrorIs(t, PurchasePDF(&buf, &models.DisplayTable{Mode: models.ViewPurchaseSchedule}), ErrEmptyTable)
	assert.Zero(t, buf.Len())
}

func TestQtyRounds(t *testing.T) {
	assert.Equal(t, "2", qty(1.6))
	assert.Equal(t, "0", qty(0.2))
	assert.Equal(t, "13", qty(12.5))
}

func TestPDFFilename(t *testing.T) {
	assert.Equal(t, "purchase_recommendation_North_2024-W10.pdf", PDFFilename("North", "2024-W10"))
}

func TestTableXLSX(t *testing.T) {
	table := schedule()
	var buf bytes.Buffer
	require.NoError(t, TableXLSX(&buf, table))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Purchase Schedule")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, table.Columns(), rows[0])
	assert.Equal(t, "Bolt", rows[1][1])
	assert.Equal(t, "1.6", rows[2][12])
	assert.Equal(t, "purchase_schedule_North_2024-W10.xlsx", XLSXFilename(table))
}
