package procurement

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"procurement/cache"
	"procurement/config"
	"procurement/database"
	"procurement/models"
)

// DefaultLookback is the number of prior weeks averaged when none is configured.
const DefaultLookback = 4

// Service runs fetch, join and sort for both views. Every warehouse call goes
// through the cache, keyed by method name and arguments.
type Service struct {
	Warehouse database.Warehouse
	Cache     *cache.QueryCache
	Lookback  int

	log *logrus.Logger
}

func NewService(w database.Warehouse, c *cache.QueryCache, lookback int) *Service {
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	return &Service{Warehouse: w, Cache: c, Lookback: lookback, log: config.GetLogger()}
}

func (s *Service) Branches(ctx context.Context) ([]string, error) {
	return cache.Fetch(s.Cache, cache.Key("branches"), func() ([]string, error) {
		return s.Warehouse.Branches(ctx)
	})
}

func (s *Service) Weeks(ctx context.Context) ([]string, error) {
	return cache.Fetch(s.Cache, cache.Key("weeks"), func() ([]string, error) {
		return s.Warehouse.Weeks(ctx)
	})
}

// ResolveWeek returns week, or the most recent known week when week is empty.
func (s *Service) ResolveWeek(ctx context.Context, week string) (string, []string, error) {
	weeks, err := s.Weeks(ctx)
	if err != nil {
		return "", nil, err
	}
	if len(weeks) == 0 {
		return "", nil, ErrNoWeeks
	}
	if week == "" {
		return weeks[0], weeks, nil
	}
	return week, weeks, nil
}

func (s *Service) salesByStockCode(ctx context.Context, branch, week string) ([]models.WeeklyAggregate, error) {
	return cache.Fetch(s.Cache, cache.Key("sales_by_stockcode", branch, week), func() ([]models.WeeklyAggregate, error) {
		return s.Warehouse.SalesByStockCode(ctx, branch, week)
	})
}

func (s *Service) stockOnHand(ctx context.Context, branch string) ([]models.StockOnHand, error) {
	return cache.Fetch(s.Cache, cache.Key("stock_onhand", branch), func() ([]models.StockOnHand, error) {
		return s.Warehouse.StockOnHand(ctx, branch)
	})
}

func (s *Service) weeklySales(ctx context.Context, week string) ([]models.WeeklySalesRow, error) {
	return cache.Fetch(s.Cache, cache.Key("weekly_sales", week), func() ([]models.WeeklySalesRow, error) {
		return s.Warehouse.WeeklySales(ctx, week)
	})
}

// metadata loads item and supplier details for codes. Codes are sorted first so
// the same set always maps to the same cache key.
func (s *Service) metadata(ctx context.Context, codes []string) (Metadata, error) {
	sorted := append([]string(nil), codes...)
	sort.Strings(sorted)

	items, err := cache.Fetch(s.Cache, cache.Key("item_details", sorted), func() ([]models.Item, error) {
		return s.Warehouse.ItemsByCodes(ctx, sorted)
	})
	if err != nil {
		return Metadata{}, err
	}

	ids := SupplierIDs(items)
	sort.Strings(ids)
	suppliers, err := cache.Fetch(s.Cache, cache.Key("supplier_names", ids), func() ([]models.Supplier, error) {
		return s.Warehouse.SuppliersByIDs(ctx, ids)
	})
	if err != nil {
		return Metadata{}, err
	}
	return NewMetadata(items, suppliers), nil
}

// logDropped warns when records were left out because their code has no digits.
func (s *Service) logDropped(tag string, n int, fields logrus.Fields) {
	if n == 0 {
		return
	}
	s.log.WithFields(fields).WithField("dropped", n).Warnf("%s dropped %d codes without digits", tag, n)
}

// SalesReport is the all-branch weekly sales table for week. branch is carried
// on the table for display only.
func (s *Service) SalesReport(ctx context.Context, branch, week string) (*models.DisplayTable, error) {
	week, _, err := s.ResolveWeek(ctx, week)
	if err != nil {
		return nil, err
	}

	raw, err := s.weeklySales(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("weekly sales for %s: %w", week, err)
	}
	sales, dropped := AggregateWeeklySales(raw)

	codes := make([]string, len(sales))
	for i, r := range sales {
		codes[i] = r.StockID
	}
	md, err := s.metadata(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("item metadata: %w", err)
	}

	s.logDropped("[SALES REPORT]", dropped+md.Dropped, logrus.Fields{"week": week})
	s.log.WithFields(logrus.Fields{"week": week, "rows": len(sales)}).Info("[SALES REPORT] assembled")
	return &models.DisplayTable{
		Mode:   models.ViewSalesReport,
		Week:   week,
		Branch: branch,
		Rows:   AssembleSales(sales, md),
	}, nil
}

// PurchaseSchedule recommends order quantities for branch, averaging up to
// lookback weeks before week. A lookback of zero or less uses the service default.
// ErrInsufficientHistory is returned when no earlier week exists.
func (s *Service) PurchaseSchedule(ctx context.Context, branch, week string, lookback int) (*models.DisplayTable, error) {
	if lookback <= 0 {
		lookback = s.Lookback
	}
	week, known, err := s.ResolveWeek(ctx, week)
	if err != nil {
		return nil, err
	}
	prior, err := ResolvePriorWeeks(known, week, lookback)
	if err != nil {
		s.log.WithFields(logrus.Fields{"branch": branch, "week": week}).Warn("[PURCHASE SCHEDULE] " + err.Error())
		return nil, err
	}

	history := make([]WeekSales, 0, len(prior))
	for _, w := range prior {
		rows, err := s.salesByStockCode(ctx, branch, w)
		if err != nil {
			return nil, fmt.Errorf("sales for %s %s: %w", branch, w, err)
		}
		history = append(history, WeekSales{Week: w, Rows: rows})
	}

	onHand, err := s.stockOnHand(ctx, branch)
	if err != nil {
		return nil, fmt.Errorf("stock on hand for %s: %w", branch, err)
	}

	recs, dropped, err := Recommend(history, onHand)
	if err != nil {
		return nil, err
	}

	codes := make([]string, len(recs))
	for i, r := range recs {
		codes[i] = r.StockID
	}
	md, err := s.metadata(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("item metadata: %w", err)
	}

	s.logDropped("[PURCHASE SCHEDULE]", dropped+md.Dropped, logrus.Fields{"branch": branch, "week": week})
	s.log.WithFields(logrus.Fields{
		"branch":      branch,
		"week":        week,
		"prior_weeks": prior,
		"rows":        len(recs),
	}).Info("[PURCHASE SCHEDULE] assembled")

	return &models.DisplayTable{
		Mode:       models.ViewPurchaseSchedule,
		Week:       week,
		Branch:     branch,
		PriorWeeks: prior,
		Rows:       AssembleSchedule(recs, md),
	}, nil
}

// View builds the table for mode.
func (s *Service) View(ctx context.Context, mode models.ViewMode, branch, week string) (*models.DisplayTable, error) {
	switch mode {
	case models.ViewPurchaseSchedule:
		return s.PurchaseSchedule(ctx, branch, week, 0)
	case models.ViewSalesReport, "":
		return s.SalesReport(ctx, branch, week)
	default:
		return nil, fmt.Errorf("unknown view mode %q", mode)
	}
}
