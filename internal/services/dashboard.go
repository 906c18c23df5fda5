package services

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"shopdesk/internal/models"
	"shopdesk/internal/upstream"
)

// Dashboard owns the state slice behind the dashboard view: the latest
// inventory, sales and today aggregates plus the metric tracker that the
// stat cards read their trends from.
type Dashboard struct {
	mu      sync.RWMutex
	client  *upstream.Client
	tracker *Tracker
	logger  *slog.Logger

	// Monotonic refresh tag; a completion that no longer carries the
	// latest tag is discarded so overlapping refreshes cannot apply a
	// stale snapshot out of order.
	refreshSeq atomic.Uint64

	inventory   models.InventorySummary
	sales       models.SalesSummary
	today       models.TodayOrders
	lastRefresh time.Time
}

func NewDashboard(client *upstream.Client, logger *slog.Logger) *Dashboard {
	return &Dashboard{
		client:  client,
		tracker: NewTracker(),
		logger:  logger,
	}
}

// Refresh fetches the three dashboard aggregates concurrently, then
// replaces the cached state and observes a new metric snapshot. On any
// fetch failure the cached state is left untouched and no snapshot is
// taken.
func (d *Dashboard) Refresh(ctx context.Context) error {
	seq := d.refreshSeq.Add(1)

	var (
		inventory models.InventorySummary
		sales     models.SalesSummary
		today     models.TodayOrders
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		inventory, err = d.client.InventorySummary(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sales, err = d.client.SalesSummary(gctx, "", "")
		return err
	})
	g.Go(func() error {
		var err error
		today, err = d.client.TodayOrders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		d.logger.Error("dashboard refresh failed", "error", err)
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if seq != d.refreshSeq.Load() {
		d.logger.Debug("discarding stale dashboard refresh", "seq", seq)
		return nil
	}

	d.inventory = inventory
	d.sales = sales
	d.today = today
	d.lastRefresh = time.Now()

	d.tracker.Observe(Snapshot{
		MetricTotalProducts:  float64(inventory.TotalProducts),
		MetricTotalInventory: float64(inventory.TotalQuantity),
		MetricInventorySold:  float64(inventory.TotalSoldQuantity),
		MetricLowStockCount:  float64(inventory.LowStockCount),
		MetricTodayOrders:    float64(sales.Summary.TotalOrders),
		MetricTodayRevenue:   today.TotalRevenue.Float(),
		MetricInventoryValue: inventory.TotalInventoryValue.Float(),
	})

	return nil
}

func (d *Dashboard) Inventory() models.InventorySummary {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.inventory
}

func (d *Dashboard) Sales() models.SalesSummary {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sales
}

func (d *Dashboard) Today() models.TodayOrders {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.today
}

func (d *Dashboard) Trends() map[Metric]TrendResult {
	return d.tracker.Trends()
}

func (d *Dashboard) TrendFor(m Metric) TrendResult {
	return d.tracker.TrendFor(m)
}

// History exposes the rolling value buffer for one metric, used by the
// stat card sparklines.
func (d *Dashboard) History(m Metric) []float64 {
	return d.tracker.History(m)
}

// Stats is the monitoring payload for the admin endpoint.
func (d *Dashboard) Stats() map[string]any {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return map[string]any{
		"last_refresh":    d.lastRefresh,
		"refreshes":       d.refreshSeq.Load(),
		"total_products":  d.inventory.TotalProducts,
		"low_stock_count": d.inventory.LowStockCount,
		"today_orders":    d.today.TotalOrders,
	}
}
