package services

import (
	"math"
	"sync"
)

// Metrics tracked across dashboard refreshes.
type Metric string

const (
	MetricTotalProducts  Metric = "total_products"
	MetricTotalInventory Metric = "total_inventory"
	MetricInventorySold  Metric = "inventory_sold"
	MetricLowStockCount  Metric = "low_stock_count"
	MetricTodayOrders    Metric = "today_orders"
	MetricTodayRevenue   Metric = "today_revenue"
	MetricInventoryValue Metric = "inventory_value"
)

type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionNeutral Direction = "neutral"
)

type TrendResult struct {
	Direction Direction `json:"direction"`
	Magnitude int       `json:"magnitude"`
}

const historyCap = 10

// Trend classifies the change between two readings of a metric. A zero or
// absent previous reading means the change is undefined, reported as
// neutral rather than infinite. The magnitude is the absolute percentage
// change capped at 100 for display, with anything under 0.1 floored to 0
// so the cards never show noise like "0.03%".
func Trend(current, previous float64) TrendResult {
	if previous == 0 {
		return TrendResult{Direction: DirectionNeutral, Magnitude: 0}
	}

	change := (current - previous) / previous * 100

	direction := DirectionNeutral
	switch {
	case change > 0:
		direction = DirectionUp
	case change < 0:
		direction = DirectionDown
	}

	magnitude := math.Abs(change)
	if magnitude > 100 {
		magnitude = 100
	}
	if magnitude < 0.1 {
		magnitude = 0
	}

	return TrendResult{Direction: direction, Magnitude: int(math.Round(magnitude))}
}

// Snapshot is one reading of every tracked metric, captured at a
// successful data refresh.
type Snapshot map[Metric]float64

// Tracker keeps the single-slot previous snapshot that trends compare
// against, plus a bounded rolling history per metric. The trend formula
// reads only the previous slot; the history feeds the dashboard
// sparklines.
type Tracker struct {
	mu       sync.Mutex
	previous Snapshot
	current  Snapshot
	history  map[Metric][]float64
}

func NewTracker() *Tracker {
	return &Tracker{
		history: make(map[Metric][]float64),
	}
}

// Observe records a refreshed snapshot. The values captured as current by
// the preceding refresh become the comparison base for the next trend
// computation, and each raw value is appended to its metric's history,
// dropping the oldest entry once the buffer holds ten.
func (t *Tracker) Observe(s Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.previous = t.current
	t.current = make(Snapshot, len(s))
	for m, v := range s {
		t.current[m] = v

		h := t.history[m]
		if len(h) >= historyCap {
			h = append(h[:0], h[1:]...)
		}
		t.history[m] = append(h, v)
	}
}

func (t *Tracker) TrendFor(m Metric) TrendResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Trend(t.current[m], t.previous[m])
}

// Trends reports the trend of every metric in the current snapshot.
func (t *Tracker) Trends() map[Metric]TrendResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[Metric]TrendResult, len(t.current))
	for m, v := range t.current {
		out[m] = Trend(v, t.previous[m])
	}
	return out
}

func (t *Tracker) Current(m Metric) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current[m]
}

// History returns a copy of the rolling buffer for one metric, oldest
// first.
func (t *Tracker) History(m Metric) []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := t.history[m]
	out := make([]float64, len(h))
	copy(out, h)
	return out
}
