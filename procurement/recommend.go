package procurement

import (
	"math"

	"procurement/models"
	"procurement/utils"
)

// WeekSales is one resolved week's per-code sales for a branch.
type WeekSales struct {
	Week string
	Rows []models.WeeklyAggregate
}

// orderedSums accumulates quantities per normalized code, remembering first-seen order.
type orderedSums struct {
	order []string
	sums  map[string]float64
}

func newOrderedSums() *orderedSums {
	return &orderedSums{sums: make(map[string]float64)}
}

func (o *orderedSums) add(code string, qty float64) {
	if _, ok := o.sums[code]; !ok {
		o.order = append(o.order, code)
	}
	o.sums[code] += qty
}

// Recommend computes one recommendation per item sold in any of the given weeks.
//
// The average divides by len(weeks), so a week where an item sold nothing still
// counts. On-hand stock is clamped at zero per record and missing stock is zero.
// Items with stock but no sales history are not recommended. dropped counts the
// sales and stock records whose code has no digits.
func Recommend(weeks []WeekSales, onHand []models.StockOnHand) (rows []models.RecommendationRow, dropped int, err error) {
	if len(weeks) == 0 {
		return nil, 0, ErrInsufficientHistory
	}

	totals := newOrderedSums()
	for _, ws := range weeks {
		for _, agg := range ws.Rows {
			code := utils.NormalizeStockCode(agg.StockID)
			if code == "" {
				dropped++
				continue
			}
			totals.add(code, agg.Quantity)
		}
	}

	stock := make(map[string]float64, len(onHand))
	for _, soh := range onHand {
		code := utils.NormalizeStockCode(soh.StockID)
		if code == "" {
			dropped++
			continue
		}
		stock[code] += math.Max(0, soh.OnHand)
	}

	n := float64(len(weeks))
	rows = make([]models.RecommendationRow, 0, len(totals.order))
	for _, code := range totals.order {
		avg := totals.sums[code] / n
		oh := stock[code]
		rows = append(rows, models.RecommendationRow{
			StockID:  code,
			AvgSales: avg,
			OnHand:   oh,
			OrderQty: OrderQuantity(avg, oh),
		})
	}
	return rows, dropped, nil
}

// OrderQuantity is max(0, avg - onHand). Fractions are kept.
func OrderQuantity(avg, onHand float64) float64 {
	return math.Max(0, avg-onHand)
}

// AggregateWeeklySales re-keys weekly sales rows by normalized code, summing rows
// whose raw codes collapse to the same key and dropping non-positive totals.
// dropped counts the rows whose code has no digits.
func AggregateWeeklySales(rows []models.WeeklySalesRow) (out []models.WeeklySalesRow, dropped int) {
	qty := newOrderedSums()
	link := make(map[string]float64)
	for _, r := range rows {
		code := utils.NormalizeStockCode(r.StockID)
		if code == "" {
			dropped++
			continue
		}
		qty.add(code, r.QuantitySold)
		link[code] += r.LinkQtySold
	}

	out = make([]models.WeeklySalesRow, 0, len(qty.order))
	for _, code := range qty.order {
		if qty.sums[code] <= 0 {
			continue
		}
		out = append(out, models.WeeklySalesRow{StockID: code, QuantitySold: qty.sums[code], LinkQtySold: link[code]})
	}
	return out, dropped
}
