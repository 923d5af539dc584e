package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement/cache"
	"procurement/database"
	"procurement/models"
	"procurement/procurement"
)

func strPtr(s string) *string { return &s }

func TestWriteTableSchedule(t *testing.T) {
	table := &models.DisplayTable{
		Mode:   models.ViewPurchaseSchedule,
		Branch: "North",
		Week:   "2024-W10",
		Rows: []models.DisplayRow{{
			ItemInfo: models.ItemInfo{StockID: "A1", ItemName: strPtr("Rice"), SupplierID: strPtr("S1")},
			Schedule: &models.ScheduleMetrics{AvgWeeklySales: 5, StockOnHand: 3, OrderQty: 2},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, table))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Order Qty")
	assert.Contains(t, lines[1], "Rice")
	assert.Contains(t, lines[1], "5.00")
	assert.Contains(t, lines[1], "2.00")
}

func TestBuildTableFlags(t *testing.T) {
	svc := procurement.NewService(&database.MemoryWarehouse{}, cache.New(), 4)
	defer func() { view, branch = string(models.ViewPurchaseSchedule), "" }()

	view = "bogus"
	_, err := buildTable(context.Background(), svc)
	assert.ErrorContains(t, err, "unknown view")

	view, branch = string(models.ViewPurchaseSchedule), ""
	_, err = buildTable(context.Background(), svc)
	assert.ErrorContains(t, err, "--branch")
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "report", "ask"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, reportCmd.Flags().Lookup("format"))
	assert.NotNil(t, askCmd.Flags().Lookup("branch"))
}
