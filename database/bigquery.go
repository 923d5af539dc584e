package database

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"procurement/models"
)

// isoWeek renders a YYYY-MM-DD string column as an ISO week label.
func isoWeek(col string) string {
	return "FORMAT_DATE('%G-W%V', SAFE.PARSE_DATE('%Y-%m-%d', " + col + "))"
}

// BigQueryWarehouse reads the sales dataset from BigQuery. Source columns are
// loaded as strings, so quantities are cast with SAFE_CAST.
type BigQueryWarehouse struct {
	client  *bigquery.Client
	project string
	dataset string
}

// NewBigQueryWarehouse creates a client for project. When credentialsJSON is
// empty, Application Default Credentials are used.
func NewBigQueryWarehouse(ctx context.Context, project, dataset, credentialsJSON string) (*BigQueryWarehouse, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	client, err := bigquery.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bigquery client: %w", err)
	}
	return &BigQueryWarehouse{client: client, project: project, dataset: dataset}, nil
}

func (w *BigQueryWarehouse) table(name string) string {
	return "`" + w.project + "." + w.dataset + "." + name + "`"
}

func (w *BigQueryWarehouse) query(sql string, params ...bigquery.QueryParameter) *bigquery.Query {
	q := w.client.Query(sql)
	q.Parameters = params
	return q
}

// readRows runs q and decodes every row into T.
func readRows[T any](ctx context.Context, q *bigquery.Query) ([]T, error) {
	it, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}
	var out []T
	for {
		var row T
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

func nullString(ns bigquery.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.StringVal
	return &s
}

func (w *BigQueryWarehouse) Branches(ctx context.Context) ([]string, error) {
	sql := fmt.Sprintf(`
		SELECT DISTINCT branch FROM %s
		WHERE branch IS NOT NULL
		ORDER BY branch`, w.table("sales"))

	type row struct {
		Branch string `bigquery:"branch"`
	}
	rows, err := readRows[row](ctx, w.query(sql))
	if err != nil {
		return nil, fmt.Errorf("failed to query branches: %w", err)
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Branch)
	}
	return out, nil
}

func (w *BigQueryWarehouse) Weeks(ctx context.Context) ([]string, error) {
	sql := fmt.Sprintf(`
		SELECT week FROM (
			SELECT DISTINCT %s AS week
			FROM %s
			WHERE TranDate IS NOT NULL
		)
		WHERE week IS NOT NULL
		ORDER BY week DESC`, isoWeek("TranDate"), w.table("sales"))

	type row struct {
		Week string `bigquery:"week"`
	}
	rows, err := readRows[row](ctx, w.query(sql))
	if err != nil {
		return nil, fmt.Errorf("failed to query weeks: %w", err)
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Week)
	}
	return out, nil
}

func (w *BigQueryWarehouse) SalesByStockCode(ctx context.Context, branch, week string) ([]models.WeeklyAggregate, error) {
	sql := fmt.Sprintf(`
		SELECT StockID, IFNULL(SUM(SAFE_CAST(Quantity AS FLOAT64)), 0) AS total_qty
		FROM %s
		WHERE branch = @branch
		  AND %s = @week
		GROUP BY StockID`, w.table("sales"), isoWeek("TranDate"))

	type row struct {
		StockID  bigquery.NullString `bigquery:"StockID"`
		TotalQty float64             `bigquery:"total_qty"`
	}
	rows, err := readRows[row](ctx, w.query(sql,
		bigquery.QueryParameter{Name: "branch", Value: branch},
		bigquery.QueryParameter{Name: "week", Value: week},
	))
	if err != nil {
		return nil, fmt.Errorf("failed to query sales for %s %s: %w", branch, week, err)
	}
	out := make([]models.WeeklyAggregate, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.WeeklyAggregate{
			StockID:  r.StockID.StringVal,
			Week:     week,
			Branch:   branch,
			Quantity: r.TotalQty,
		})
	}
	return out, nil
}

func (w *BigQueryWarehouse) StockOnHand(ctx context.Context, branch string) ([]models.StockOnHand, error) {
	sql := fmt.Sprintf(`
		SELECT StockCodeID, SAFE_CAST(ONHAND AS FLOAT64) AS onhand
		FROM %s
		WHERE BRANCH = @branch`, w.table("stock_onhands"))

	type row struct {
		StockCodeID bigquery.NullString  `bigquery:"StockCodeID"`
		OnHand      bigquery.NullFloat64 `bigquery:"onhand"`
	}
	rows, err := readRows[row](ctx, w.query(sql, bigquery.QueryParameter{Name: "branch", Value: branch}))
	if err != nil {
		return nil, fmt.Errorf("failed to query stock on hand for %s: %w", branch, err)
	}
	out := make([]models.StockOnHand, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.StockOnHand{
			StockID: r.StockCodeID.StringVal,
			Branch:  branch,
			OnHand:  r.OnHand.Float64,
		})
	}
	return out, nil
}

func (w *BigQueryWarehouse) ItemsByCodes(ctx context.Context, codes []string) ([]models.Item, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	sql := fmt.Sprintf(`
		SELECT StockID, Description1, SupplierID, Cat0, Cat1, Cat2, Cat3, Cat4, Brand
		FROM %s
		WHERE StockID IN UNNEST(@codes)`, w.table("stock"))

	type row struct {
		StockID      string              `bigquery:"StockID"`
		Description1 bigquery.NullString `bigquery:"Description1"`
		SupplierID   bigquery.NullString `bigquery:"SupplierID"`
		Cat0         bigquery.NullString `bigquery:"Cat0"`
		Cat1         bigquery.NullString `bigquery:"Cat1"`
		Cat2         bigquery.NullString `bigquery:"Cat2"`
		Cat3         bigquery.NullString `bigquery:"Cat3"`
		Cat4         bigquery.NullString `bigquery:"Cat4"`
		Brand        bigquery.NullString `bigquery:"Brand"`
	}
	rows, err := readRows[row](ctx, w.query(sql, bigquery.QueryParameter{Name: "codes", Value: codes}))
	if err != nil {
		return nil, fmt.Errorf("failed to query item details: %w", err)
	}
	out := make([]models.Item, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Item{
			StockID:      r.StockID,
			Description1: nullString(r.Description1),
			SupplierID:   nullString(r.SupplierID),
			Cat0:         nullString(r.Cat0),
			Cat1:         nullString(r.Cat1),
			Cat2:         nullString(r.Cat2),
			Cat3:         nullString(r.Cat3),
			Cat4:         nullString(r.Cat4),
			Brand:        nullString(r.Brand),
		})
	}
	return out, nil
}

func (w *BigQueryWarehouse) SuppliersByIDs(ctx context.Context, ids []string) ([]models.Supplier, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	sql := fmt.Sprintf(`
		SELECT SupplierID, SupplierName
		FROM %s
		WHERE SupplierID IN UNNEST(@ids)`, w.table("suppliers"))

	type row struct {
		SupplierID   string              `bigquery:"SupplierID"`
		SupplierName bigquery.NullString `bigquery:"SupplierName"`
	}
	rows, err := readRows[row](ctx, w.query(sql, bigquery.QueryParameter{Name: "ids", Value: ids}))
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	out := make([]models.Supplier, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Supplier{SupplierID: r.SupplierID, SupplierName: nullString(r.SupplierName)})
	}
	return out, nil
}

func (w *BigQueryWarehouse) WeeklySales(ctx context.Context, week string) ([]models.WeeklySalesRow, error) {
	sql := fmt.Sprintf(`
		SELECT
			StockID,
			SUM(SAFE_CAST(Quantity AS FLOAT64)) AS quantity_sold,
			IFNULL(SUM(SAFE_CAST(LinkQty AS FLOAT64)), 0) AS link_qty_sold
		FROM %s
		WHERE %s = @week
		  AND SAFE_CAST(Quantity AS FLOAT64) > 0
		GROUP BY StockID`, w.table("sales"), isoWeek("TranDate"))

	type row struct {
		StockID      bigquery.NullString `bigquery:"StockID"`
		QuantitySold float64             `bigquery:"quantity_sold"`
		LinkQtySold  float64             `bigquery:"link_qty_sold"`
	}
	rows, err := readRows[row](ctx, w.query(sql, bigquery.QueryParameter{Name: "week", Value: week}))
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly sales for %s: %w", week, err)
	}
	out := make([]models.WeeklySalesRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.WeeklySalesRow{
			StockID:      r.StockID.StringVal,
			QuantitySold: r.QuantitySold,
			LinkQtySold:  r.LinkQtySold,
		})
	}
	return out, nil
}

func (w *BigQueryWarehouse) Close() error {
	return w.client.Close()
}
