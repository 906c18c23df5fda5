package services

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"shopdesk/internal/models"
	"shopdesk/internal/upstream"
)

// Analytics owns the sales aggregates behind the analytics view for the
// currently selected date range. The charts themselves render client side;
// this service only prepares the series they consume.
type Analytics struct {
	mu     sync.RWMutex
	client *upstream.Client
	logger *slog.Logger

	startDate string
	endDate   string
	sales     models.SalesSummary
	byCat     models.CategorySales
}

func NewAnalytics(client *upstream.Client, logger *slog.Logger) *Analytics {
	return &Analytics{client: client, logger: logger}
}

// Refresh fetches the sales summary and the per-category breakdown for the
// given range concurrently. Blank dates leave the range to the upstream
// default of the last thirty days.
func (a *Analytics) Refresh(ctx context.Context, startDate, endDate string) error {
	var (
		sales models.SalesSummary
		byCat models.CategorySales
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sales, err = a.client.SalesSummary(gctx, startDate, endDate)
		return err
	})
	g.Go(func() error {
		var err error
		byCat, err = a.client.CategorySales(gctx, startDate, endDate)
		return err
	})
	if err := g.Wait(); err != nil {
		a.logger.Error("analytics refresh failed", "error", err)
		a.mu.Lock()
		a.sales = models.SalesSummary{}
		a.byCat = models.CategorySales{}
		a.mu.Unlock()
		return err
	}

	a.mu.Lock()
	a.startDate = startDate
	a.endDate = endDate
	a.sales = sales
	a.byCat = byCat
	a.mu.Unlock()

	return nil
}

func (a *Analytics) Sales() models.SalesSummary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sales
}

func (a *Analytics) CategorySales() models.CategorySales {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.byCat
}

// CategoryShare is one slice of the category sales pie: the row plus its
// share of everything sold in the range.
type CategoryShare struct {
	models.CategorySalesRow
	SharePercent float64 `json:"share_percent"`
}

// CategoryShares derives each category's percentage of total quantity
// sold. With nothing sold in the range all shares are zero.
func (a *Analytics) CategoryShares() []CategoryShare {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]CategoryShare, 0, len(a.byCat.Rows))
	for _, row := range a.byCat.Rows {
		share := CategoryShare{CategorySalesRow: row}
		if a.byCat.TotalSold > 0 {
			share.SharePercent = float64(row.TotalQuantity) / float64(a.byCat.TotalSold) * 100
		}
		out = append(out, share)
	}
	return out
}

// TopProducts returns up to limit best sellers for the range.
func (a *Analytics) TopProducts(limit int) []models.TopProduct {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if len(a.sales.TopProducts) <= limit {
		return a.sales.TopProducts
	}
	return a.sales.TopProducts[:limit]
}

func (a *Analytics) Range() (string, string) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.startDate, a.endDate
}
