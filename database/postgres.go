package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"procurement/models"
)

// isoWeekSQL renders the tran_date column as an ISO week label, matching WeekLabel.
const isoWeekSQL = `to_char(tran_date, 'IYYY-"W"IW')`

// PostgresWarehouse reads a PostgreSQL copy of the sales dataset.
type PostgresWarehouse struct {
	pool *pgxpool.Pool
}

// NewPostgresWarehouse sets up the connection pool and checks it with a ping.
func NewPostgresWarehouse(ctx context.Context, databaseURL string) (*PostgresWarehouse, error) {
	pool, err := pgxpool.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return &PostgresWarehouse{pool: pool}, nil
}

// collect scans every row with scan and closes rows.
func collect[T any](rows pgx.Rows, scan func(pgx.Rows) (T, error)) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanString(rows pgx.Rows) (string, error) {
	var s string
	err := rows.Scan(&s)
	return s, err
}

func (w *PostgresWarehouse) Branches(ctx context.Context) ([]string, error) {
	rows, err := w.pool.Query(ctx, `
		SELECT DISTINCT branch FROM sales
		WHERE branch IS NOT NULL
		ORDER BY branch`)
	if err != nil {
		return nil, fmt.Errorf("failed to query branches: %w", err)
	}
	return collect(rows, scanString)
}

func (w *PostgresWarehouse) Weeks(ctx context.Context) ([]string, error) {
	rows, err := w.pool.Query(ctx, `
		SELECT DISTINCT `+isoWeekSQL+` AS week
		FROM sales
		WHERE tran_date IS NOT NULL
		ORDER BY week DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query weeks: %w", err)
	}
	return collect(rows, scanString)
}

func (w *PostgresWarehouse) SalesByStockCode(ctx context.Context, branch, week string) ([]models.WeeklyAggregate, error) {
	rows, err := w.pool.Query(ctx, `
		SELECT COALESCE(stock_id, ''), COALESCE(SUM(quantity), 0)::float8 AS total_qty
		FROM sales
		WHERE branch = $1 AND `+isoWeekSQL+` = $2
		GROUP BY 1`, branch, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales for %s %s: %w", branch, week, err)
	}
	return collect(rows, func(r pgx.Rows) (models.WeeklyAggregate, error) {
		agg := models.WeeklyAggregate{Week: week, Branch: branch}
		err := r.Scan(&agg.StockID, &agg.Quantity)
		return agg, err
	})
}

func (w *PostgresWarehouse) StockOnHand(ctx context.Context, branch string) ([]models.StockOnHand, error) {
	rows, err := w.pool.Query(ctx, `
		SELECT COALESCE(stock_code_id, ''), COALESCE(onhand, 0)::float8
		FROM stock_onhands
		WHERE branch = $1`, branch)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock on hand for %s: %w", branch, err)
	}
	return collect(rows, func(r pgx.Rows) (models.StockOnHand, error) {
		soh := models.StockOnHand{Branch: branch}
		err := r.Scan(&soh.StockID, &soh.OnHand)
		return soh, err
	})
}

func (w *PostgresWarehouse) ItemsByCodes(ctx context.Context, codes []string) ([]models.Item, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	rows, err := w.pool.Query(ctx, `
		SELECT stock_id, description1, supplier_id, cat0, cat1, cat2, cat3, cat4, brand
		FROM stock
		WHERE stock_id = ANY($1)`, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to query item details: %w", err)
	}
	return collect(rows, func(r pgx.Rows) (models.Item, error) {
		var it models.Item
		err := r.Scan(&it.StockID, &it.Description1, &it.SupplierID,
			&it.Cat0, &it.Cat1, &it.Cat2, &it.Cat3, &it.Cat4, &it.Brand)
		return it, err
	})
}

func (w *PostgresWarehouse) SuppliersByIDs(ctx context.Context, ids []string) ([]models.Supplier, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := w.pool.Query(ctx, `
		SELECT supplier_id, supplier_name
		FROM suppliers
		WHERE supplier_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	return collect(rows, func(r pgx.Rows) (models.Supplier, error) {
		var s models.Supplier
		err := r.Scan(&s.SupplierID, &s.SupplierName)
		return s, err
	})
}

func (w *PostgresWarehouse) WeeklySales(ctx context.Context, week string) ([]models.WeeklySalesRow, error) {
	rows, err := w.pool.Query(ctx, `
		SELECT COALESCE(stock_id, ''),
		       SUM(quantity)::float8 AS quantity_sold,
		       COALESCE(SUM(link_qty), 0)::float8 AS link_qty_sold
		FROM sales
		WHERE `+isoWeekSQL+` = $1 AND quantity > 0
		GROUP BY 1`, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly sales for %s: %w", week, err)
	}
	return collect(rows, func(r pgx.Rows) (models.WeeklySalesRow, error) {
		var ws models.WeeklySalesRow
		err := r.Scan(&ws.StockID, &ws.QuantitySold, &ws.LinkQtySold)
		return ws, err
	})
}

func (w *PostgresWarehouse) Close() error {
	w.pool.Close()
	return nil
}
