package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shopdesk/internal/services"
	"shopdesk/internal/upstream"
)

func newTestSSEHandlers(t *testing.T, routes map[string]http.HandlerFunc) *SSEHandlers {
	t.Helper()

	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := upstream.NewClient(srv.URL, 5*time.Second, testLogger())
	logger := testLogger()
	return NewSSEHandlers(
		services.NewDashboard(client, logger),
		services.NewInventory(client, logger),
		services.NewOrders(client, logger),
		services.NewAnalytics(client, logger),
		logger,
	)
}

func TestSSEDashboard(t *testing.T) {
	h := newTestSSEHandlers(t, map[string]http.HandlerFunc{
		"/inventory/summary/":    jsonRoute(`{"total_products":4,"total_quantity":40,"total_sold_quantity":6,"low_stock_count":1,"total_inventory_value":"200.00"}`),
		"/orders/sales-summary/": jsonRoute(`{"summary":{"total_orders":2,"total_revenue":"80.00"},"daily_sales":[{"date":"2026-08-31","revenue":80}]}`),
		"/orders/today-orders/":  jsonRoute(`{"total_orders":1,"total_revenue":"40.00"}`),
	})

	req := httptest.NewRequest(http.MethodGet, "/sse/dashboard", nil)
	rec := httptest.NewRecorder()
	h.HandleDashboard(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/event-stream") {
		t.Fatalf("expected event stream, got %q", got)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `id="stat-cards"`) {
		t.Error("expected stat cards fragment")
	}
	if !strings.Contains(body, "Today&#39;s Revenue") && !strings.Contains(body, "Today's Revenue") {
		t.Error("expected revenue card")
	}
	if !strings.Contains(body, "₹40.00") {
		t.Errorf("expected formatted revenue, got:\n%s", body)
	}
	// First load has no comparison base.
	if !strings.Contains(body, "No change") {
		t.Error("expected neutral trend on first load")
	}
	if !strings.Contains(body, "revenueHistory") {
		t.Error("expected sparkline history signals")
	}
}

func TestSSEProducts(t *testing.T) {
	h := newTestSSEHandlers(t, map[string]http.HandlerFunc{
		"/inventory/products/": jsonRoute(`[
			{"id":1,"name":"Rice","category":1,"category_name":"Grocery","sku":"R1","cost_price":"10.00","selling_price":"15.00","quantity":5,"profit_per_unit":"5.00","is_low_stock":true},
			{"id":2,"name":"Soap","category":2,"category_name":"Personal","sku":"S1","cost_price":"2.00","selling_price":"3.00","quantity":50,"profit_per_unit":"1.00"}
		]`),
		"/inventory/categories/": jsonRoute(`[]`),
	})

	req := httptest.NewRequest(http.MethodGet, "/sse/products?sort_by=quantity&sort_order=desc", nil)
	rec := httptest.NewRecorder()
	h.HandleProducts(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, `id="product-content"`) {
		t.Fatal("expected product table fragment")
	}
	if !strings.Contains(body, "₹15.00") {
		t.Error("expected formatted selling price")
	}
	if !strings.Contains(body, `class="low-stock"`) {
		t.Error("expected low stock row styling")
	}
	// quantity desc puts Soap first
	if soap, rice := strings.Index(body, "Soap"), strings.Index(body, "Rice"); soap == -1 || rice == -1 || soap > rice {
		t.Errorf("expected Soap before Rice, got soap=%d rice=%d", soap, rice)
	}
}

func TestSSEProductsPushesCategoryOptions(t *testing.T) {
	h := newTestSSEHandlers(t, map[string]http.HandlerFunc{
		"/inventory/products/": jsonRoute(`[{"id":1,"name":"Rice","category":1}]`),
		"/inventory/categories/": jsonRoute(`[
			{"id":1,"name":"Grocery","product_count":1},
			{"id":2,"name":"Personal","product_count":0}
		]`),
	})

	req := httptest.NewRequest(http.MethodGet, "/sse/products", nil)
	rec := httptest.NewRecorder()
	h.HandleProducts(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, `id="category-filter"`) {
		t.Fatal("expected category filter fragment")
	}
	if !strings.Contains(body, `<option value="1">Grocery</option>`) {
		t.Errorf("expected category options, got:\n%s", body)
	}
	if !strings.Contains(body, `<option value="">All categories</option>`) {
		t.Error("expected the no-filter option to survive")
	}
	if !strings.Contains(body, "data-bind-category") {
		t.Error("patched select should keep its binding")
	}
}

func TestSSEProductsSearchFilters(t *testing.T) {
	h := newTestSSEHandlers(t, map[string]http.HandlerFunc{
		"/inventory/products/": jsonRoute(`[
			{"id":1,"name":"Rice","category":1},
			{"id":2,"name":"Soap","category":2}
		]`),
		"/inventory/categories/": jsonRoute(`[]`),
	})

	req := httptest.NewRequest(http.MethodGet, "/sse/products?search=soap", nil)
	rec := httptest.NewRecorder()
	h.HandleProducts(rec, req)

	body := rec.Body.String()
	if strings.Contains(body, "Rice") {
		t.Error("filtered product leaked into the table")
	}
	if !strings.Contains(body, "Soap") {
		t.Error("expected matching product")
	}
}

func TestSSEOrders(t *testing.T) {
	h := newTestSSEHandlers(t, map[string]http.HandlerFunc{
		"/orders/orders/": jsonRoute(`[{"id":7,"order_date":"2026-08-30T10:00:00Z","total_amount":"50.00","total_profit":"15.00","items_count":2,"notes":"walk-in"}]`),
	})

	req := httptest.NewRequest(http.MethodGet, "/sse/orders", nil)
	rec := httptest.NewRecorder()
	h.HandleOrders(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "#7") {
		t.Error("expected order id cell")
	}
	if !strings.Contains(body, "2026-08-30 10:00") {
		t.Errorf("expected formatted order date, got:\n%s", body)
	}
	if !strings.Contains(body, "₹50.00") {
		t.Error("expected formatted total")
	}
}

func TestSSEAnalytics(t *testing.T) {
	h := newTestSSEHandlers(t, map[string]http.HandlerFunc{
		"/orders/sales-summary/": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("start_date") != "2026-08-01" {
				t.Errorf("expected start_date forwarded, got %q", r.URL.RawQuery)
			}
			jsonRoute(`{"summary":{"total_orders":20,"total_revenue":"900.00"},"top_products":[{"product__name":"Rice","total_quantity":30}]}`)(w, r)
		},
		"/orders/category-sales/": jsonRoute(`{"total_sold":40,"category_sales":[{"category_id":1,"category_name":"Grocery","total_quantity":30}]}`),
	})

	req := httptest.NewRequest(http.MethodGet, "/sse/analytics?start_date=2026-08-01&end_date=2026-08-31", nil)
	rec := httptest.NewRecorder()
	h.HandleAnalytics(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "categoryShares") {
		t.Error("expected category share signals")
	}
	if !strings.Contains(body, "Rice") {
		t.Error("expected top products signal")
	}
	if !strings.Contains(body, `id="analytics-status"`) {
		t.Error("expected status fragment")
	}
}
