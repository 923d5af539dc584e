// Package database is the only code that talks to the sales warehouse.
// Every query binds its filters as parameters, including code lists.
package database

import (
	"context"
	"fmt"
	"time"

	"procurement/config"
	"procurement/models"
)

// Warehouse is the tabular store holding sales, stock and reference data.
// Stock codes are returned as stored; callers normalize them.
type Warehouse interface {
	// Branches lists distinct branches in ascending order.
	Branches(ctx context.Context) ([]string, error)
	// Weeks lists distinct ISO week labels of sales dates, most recent first.
	Weeks(ctx context.Context) ([]string, error)
	// SalesByStockCode sums quantity per raw stock code for one branch and week.
	SalesByStockCode(ctx context.Context, branch, week string) ([]models.WeeklyAggregate, error)
	// StockOnHand lists on-hand quantities for one branch.
	StockOnHand(ctx context.Context, branch string) ([]models.StockOnHand, error)
	// ItemsByCodes looks up item metadata for normalized stock codes.
	ItemsByCodes(ctx context.Context, codes []string) ([]models.Item, error)
	// SuppliersByIDs looks up supplier names.
	SuppliersByIDs(ctx context.Context, ids []string) ([]models.Supplier, error)
	// WeeklySales sums quantity and linked quantity per raw stock code across
	// all branches for one week, keeping only positive sales.
	WeeklySales(ctx context.Context, week string) ([]models.WeeklySalesRow, error)
	Close() error
}

// Connect opens the warehouse selected by cfg.WarehouseDriver.
func Connect(ctx context.Context, cfg config.Config) (Warehouse, error) {
	log := config.GetLogger()

	var (
		w   Warehouse
		err error
	)
	switch cfg.WarehouseDriver {
	case config.DriverBigQuery:
		w, err = NewBigQueryWarehouse(ctx, cfg.GCPProjectID, cfg.BigQueryDataset, cfg.GoogleServiceAccountJSON)
	case config.DriverPostgres:
		w, err = NewPostgresWarehouse(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported warehouse driver %q", cfg.WarehouseDriver)
	}
	if err != nil {
		return nil, err
	}

	log.WithField("driver", cfg.WarehouseDriver).Info("Successfully connected to the warehouse")
	return w, nil
}

// WeekLabel formats t's ISO week as "YYYY-Www", the label used by every query.
func WeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
