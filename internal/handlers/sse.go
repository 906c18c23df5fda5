package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"shopdesk/internal/services"
)

const maxTableRows = 100

var statCardsTemplate = template.Must(template.New("statCards").Parse(`
<div id="stat-cards" class="stat-grid">
{{range .Cards}}<div class="stat-card">
<span class="stat-title">{{.Title}}</span>
<span class="stat-value">{{.Value}}</span>
{{if eq .Trend.Direction "up"}}<span class="trend trend-up">&#9650; {{.Trend.Magnitude}}%</span>
{{else if eq .Trend.Direction "down"}}<span class="trend trend-down">&#9660; {{.Trend.Magnitude}}%</span>
{{else}}<span class="trend trend-neutral">No change</span>
{{end}}</div>
{{end}}</div>`))

var productTableTemplate = template.Must(template.New("productTable").Parse(`
<div id="product-content">
<table class="modern-table">
<thead><tr><th>Name</th><th>Category</th><th>SKU</th><th>Cost</th><th>Price</th><th>Qty</th><th>Profit/Unit</th></tr></thead>
<tbody>
{{range .Products}}<tr{{if .IsLowStock}} class="low-stock"{{end}}>
<td>{{.Name}}</td>
<td><span class="category-badge">{{.CategoryName}}</span></td>
<td>{{.SKU}}</td>
<td>{{.CostPrice.Display}}</td>
<td>{{.SellingPrice.Display}}</td>
<td>{{.Quantity}}</td>
<td><strong>{{.ProfitPerUnit.Display}}</strong></td>
</tr>{{end}}
</tbody>
</table>
</div>`))

// Patched alongside the product table so the filter always offers the
// categories the cache currently holds. The binding attributes are
// repeated here because the patch replaces the whole element.
var categorySelectTemplate = template.Must(template.New("categorySelect").Parse(`
<select id="category-filter" data-bind-category data-on-change="@get('/sse/products?search='+$search+'&category='+$category+'&sort_by='+$sortBy+'&sort_order='+$sortOrder)">
<option value="">All categories</option>
{{range .Categories}}<option value="{{.ID}}">{{.Name}}</option>
{{end}}</select>`))

var orderTableTemplate = template.Must(template.New("orderTable").Parse(`
<div id="order-content">
<table class="modern-table">
<thead><tr><th>Order</th><th>Date</th><th>Items</th><th>Total</th><th>Profit</th><th>Notes</th></tr></thead>
<tbody>
{{range .Orders}}<tr>
<td>#{{.ID}}</td>
<td>{{.OrderDate.Format "2006-01-02 15:04"}}</td>
<td>{{.ItemsCount}}</td>
<td><strong>{{.TotalAmount.Display}}</strong></td>
<td>{{.TotalProfit.Display}}</td>
<td>{{.Notes}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

type SSEHandlers struct {
	dashboard *services.Dashboard
	inventory *services.Inventory
	orders    *services.Orders
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(dashboard *services.Dashboard, inventory *services.Inventory, orders *services.Orders, analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		inventory: inventory,
		orders:    orders,
		analytics: analytics,
		logger:    logger,
	}
}

type statCard struct {
	Title string
	Value string
	Trend services.TrendResult
}

// HandleDashboard refreshes the dashboard state and pushes the stat cards
// plus the sparkline history signals.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	if err := h.dashboard.Refresh(r.Context()); err != nil {
		h.logger.Error("dashboard refresh failed", "error", err)
	}

	inventory := h.dashboard.Inventory()
	sales := h.dashboard.Sales()
	today := h.dashboard.Today()

	cards := []statCard{
		{"Total Inventory", formatInt(inventory.TotalQuantity), h.dashboard.TrendFor(services.MetricTotalInventory)},
		{"Inventory Sold", formatInt(inventory.TotalSoldQuantity), h.dashboard.TrendFor(services.MetricInventorySold)},
		{"Low Stock Items", formatInt(inventory.LowStockCount), h.dashboard.TrendFor(services.MetricLowStockCount)},
		{"Total Orders", formatInt(sales.Summary.TotalOrders), h.dashboard.TrendFor(services.MetricTodayOrders)},
		{"Today's Revenue", today.TotalRevenue.Display(), h.dashboard.TrendFor(services.MetricTodayRevenue)},
		{"Inventory Value", inventory.TotalInventoryValue.Display(), h.dashboard.TrendFor(services.MetricInventoryValue)},
	}

	var buf strings.Builder
	if err := statCardsTemplate.Execute(&buf, map[string]any{"Cards": cards}); err != nil {
		h.logger.Error("render stat cards", "error", err)
		return
	}
	sse.PatchElements(buf.String())

	signals, err := json.Marshal(map[string]any{
		"dailySales":   sales.DailySales,
		"dailyProfits": sales.DailyProfits,
		"revenueHistory": map[string]any{
			"orders":  h.dashboard.History(services.MetricTodayOrders),
			"revenue": h.dashboard.History(services.MetricTodayRevenue),
			"value":   h.dashboard.History(services.MetricInventoryValue),
		},
	})
	if err != nil {
		h.logger.Error("marshal dashboard signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleProducts refreshes the product cache and pushes the table shaped
// by the filter/sort query parameters.
func (h *SSEHandlers) HandleProducts(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	if err := h.inventory.Refresh(r.Context()); err != nil {
		h.logger.Error("inventory refresh failed", "error", err)
	}

	products := h.inventory.View(criteriaFromQuery(r))
	if len(products) > maxTableRows {
		products = products[:maxTableRows]
	}

	var buf strings.Builder
	if err := productTableTemplate.Execute(&buf, map[string]any{"Products": products}); err != nil {
		h.logger.Error("render product table", "error", err)
		return
	}
	sse.PatchElements(buf.String())

	buf.Reset()
	if err := categorySelectTemplate.Execute(&buf, map[string]any{"Categories": h.inventory.Categories()}); err != nil {
		h.logger.Error("render category filter", "error", err)
		return
	}
	sse.PatchElements(buf.String())

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleOrders(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	if err := h.orders.Refresh(r.Context()); err != nil {
		h.logger.Error("orders refresh failed", "error", err)
	}

	orders := h.orders.List()
	if len(orders) > maxTableRows {
		orders = orders[:maxTableRows]
	}

	var buf strings.Builder
	if err := orderTableTemplate.Execute(&buf, map[string]any{"Orders": orders}); err != nil {
		h.logger.Error("render order table", "error", err)
		return
	}
	sse.PatchElements(buf.String())

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleAnalytics refreshes the sales aggregates for the requested range
// and pushes the chart data signals.
func (h *SSEHandlers) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	q := r.URL.Query()
	if err := h.analytics.Refresh(r.Context(), q.Get("start_date"), q.Get("end_date")); err != nil {
		h.logger.Error("analytics refresh failed", "error", err)
	}

	sales := h.analytics.Sales()
	signals, err := json.Marshal(map[string]any{
		"salesSummary":   sales.Summary,
		"dailySales":     sales.DailySales,
		"dailyProfits":   sales.DailyProfits,
		"categoryShares": h.analytics.CategoryShares(),
		"topProducts":    h.analytics.TopProducts(10),
	})
	if err != nil {
		h.logger.Error("marshal analytics signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	sse.PatchElements(`<div id="analytics-status">Charts updated</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}
