package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"procurement/models"
)

// MemoryWarehouse is an in-process Warehouse over fixed rows. It answers the
// same queries as the SQL backends and counts calls per method.
type MemoryWarehouse struct {
	Sales     []models.SalesRecord
	OnHand    []models.StockOnHand
	Items     []models.Item
	Suppliers []models.Supplier

	// Err, when set, is returned by every query.
	Err error

	mu    sync.Mutex
	calls map[string]int
}

func (m *MemoryWarehouse) record(method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
	return m.Err
}

// Calls reports how many times method was invoked.
func (m *MemoryWarehouse) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func weekOf(tranDate string) (string, bool) {
	t, err := time.Parse("2006-01-02", tranDate)
	if err != nil {
		return "", false
	}
	return WeekLabel(t), true
}

func (m *MemoryWarehouse) Branches(ctx context.Context) ([]string, error) {
	if err := m.record("Branches"); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []string
	for _, s := range m.Sales {
		if s.Branch == "" || seen[s.Branch] {
			continue
		}
		seen[s.Branch] = true
		out = append(out, s.Branch)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryWarehouse) Weeks(ctx context.Context) ([]string, error) {
	if err := m.record("Weeks"); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []string
	for _, s := range m.Sales {
		w, ok := weekOf(s.TranDate)
		if !ok || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out, nil
}

func (m *MemoryWarehouse) SalesByStockCode(ctx context.Context, branch, week string) ([]models.WeeklyAggregate, error) {
	if err := m.record("SalesByStockCode"); err != nil {
		return nil, err
	}
	sums := map[string]float64{}
	var order []string
	for _, s := range m.Sales {
		if w, ok := weekOf(s.TranDate); !ok || w != week || s.Branch != branch {
			continue
		}
		if _, ok := sums[s.StockID]; !ok {
			order = append(order, s.StockID)
		}
		sums[s.StockID] += s.Quantity
	}
	out := make([]models.WeeklyAggregate, 0, len(order))
	for _, code := range order {
		out = append(out, models.WeeklyAggregate{StockID: code, Week: week, Branch: branch, Quantity: sums[code]})
	}
	return out, nil
}

func (m *MemoryWarehouse) StockOnHand(ctx context.Context, branch string) ([]models.StockOnHand, error) {
	if err := m.record("StockOnHand"); err != nil {
		return nil, err
	}
	var out []models.StockOnHand
	for _, soh := range m.OnHand {
		if soh.Branch == branch {
			out = append(out, soh)
		}
	}
	return out, nil
}

func (m *MemoryWarehouse) ItemsByCodes(ctx context.Context, codes []string) ([]models.Item, error) {
	if err := m.record("ItemsByCodes"); err != nil {
		return nil, err
	}
	want := make(map[string]bool, len(codes))
	for _, c := range codes {
		want[c] = true
	}
	var out []models.Item
	for _, it := range m.Items {
		if want[it.StockID] {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *MemoryWarehouse) SuppliersByIDs(ctx context.Context, ids []string) ([]models.Supplier, error) {
	if err := m.record("SuppliersByIDs"); err != nil {
		return nil, err
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Supplier
	for _, s := range m.Suppliers {
		if want[s.SupplierID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemoryWarehouse) WeeklySales(ctx context.Context, week string) ([]models.WeeklySalesRow, error) {
	if err := m.record("WeeklySales"); err != nil {
		return nil, err
	}
	rows := map[string]*models.WeeklySalesRow{}
	var order []string
	for _, s := range m.Sales {
		if w, ok := weekOf(s.TranDate); !ok || w != week || s.Quantity <= 0 {
			continue
		}
		r, ok := rows[s.StockID]
		if !ok {
			r = &models.WeeklySalesRow{StockID: s.StockID}
			rows[s.StockID] = r
			order = append(order, s.StockID)
		}
		r.QuantitySold += s.Quantity
		r.LinkQtySold += s.LinkQty
	}
	out := make([]models.WeeklySalesRow, 0, len(order))
	for _, code := range order {
		out = append(out, *rows[code])
	}
	return out, nil
}

func (m *MemoryWarehouse) Close() error { return nil }
