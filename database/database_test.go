package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement/config"
	"procurement/models"
)

var _ Warehouse = (*BigQueryWarehouse)(nil)
var _ Warehouse = (*PostgresWarehouse)(nil)
var _ Warehouse = (*MemoryWarehouse)(nil)

func TestWeekLabel(t *testing.T) {
	assert.Equal(t, "2024-W10", WeekLabel(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-W01", WeekLabel(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	// ISO year differs from calendar year at the boundary.
	assert.Equal(t, "2020-W53", WeekLabel(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect(context.Background(), config.Config{WarehouseDriver: "sqlite"})
	assert.ErrorContains(t, err, "unsupported warehouse driver")
}

func TestMemoryWarehouseQueries(t *testing.T) {
	ctx := context.Background()
	w := &MemoryWarehouse{
		Sales: []models.SalesRecord{
			{Branch: "North", StockID: "100-5", TranDate: "2024-03-04", Quantity: 2, LinkQty: 1},
			{Branch: "North", StockID: "100-5", TranDate: "2024-03-05", Quantity: 3},
			{Branch: "South", StockID: "200", TranDate: "2024-02-26", Quantity: 4},
			{Branch: "South", StockID: "300", TranDate: "2024-03-06", Quantity: -1},
			{Branch: "North", StockID: "400", TranDate: "not-a-date", Quantity: 9},
		},
		OnHand: []models.StockOnHand{{StockID: "100", Branch: "North", OnHand: 3}},
	}

	branches, err := w.Branches(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"North", "South"}, branches)

	weeks, err := w.Weeks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-W10", "2024-W09"}, weeks)

	sales, err := w.SalesByStockCode(ctx, "North", "2024-W10")
	require.NoError(t, err)
	assert.Equal(t, []models.WeeklyAggregate{{StockID: "100-5", Week: "2024-W10", Branch: "North", Quantity: 5}}, sales)

	weekly, err := w.WeeklySales(ctx, "2024-W10")
	require.NoError(t, err)
	assert.Equal(t, []models.WeeklySalesRow{{StockID: "100-5", QuantitySold: 5, LinkQtySold: 1}}, weekly)

	soh, err := w.StockOnHand(ctx, "South")
	require.NoError(t, err)
	assert.Empty(t, soh)

	assert.Equal(t, 1, w.Calls("Weeks"))
}

func TestMemoryWarehouseError(t *testing.T) {
	w := &MemoryWarehouse{Err: errors.New("auth failed")}
	_, err := w.Branches(context.Background())
	assert.EqualError(t, err, "auth failed")
}
