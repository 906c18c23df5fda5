package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shopdesk/internal/services"
	"shopdesk/internal/upstream"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestHandlers wires the full service stack against a fake upstream.
func newTestHandlers(t *testing.T, routes map[string]http.HandlerFunc) *APIHandlers {
	t.Helper()

	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := upstream.NewClient(srv.URL, 5*time.Second, testLogger())
	logger := testLogger()
	return NewAPIHandlers(
		services.NewDashboard(client, logger),
		services.NewInventory(client, logger),
		services.NewOrders(client, logger),
		services.NewAnalytics(client, logger),
		logger,
	)
}

func jsonRoute(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
	Success bool            `json:"success"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, rec.Body.String())
	}
	return env
}

func TestHandleProducts(t *testing.T) {
	h := newTestHandlers(t, map[string]http.HandlerFunc{
		"/inventory/products/": jsonRoute(`[
			{"id":1,"name":"Rice","category":1,"quantity":5},
			{"id":2,"name":"Soap","category":2,"quantity":50}
		]`),
		"/inventory/categories/": jsonRoute(`[]`),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/products?search=rice", nil)
	rec := httptest.NewRecorder()
	h.HandleProducts(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Cache-Control"); got != listCacheControl {
		t.Errorf("expected cache control %q, got %q", listCacheControl, got)
	}

	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatal("expected success envelope")
	}
	var products []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(env.Data, &products); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Rice" {
		t.Errorf("unexpected filtered list: %+v", products)
	}
}

func TestHandleProductsUpstreamDownServesEmptyList(t *testing.T) {
	h := newTestHandlers(t, map[string]http.HandlerFunc{
		"/inventory/products/": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
		"/inventory/categories/": jsonRoute(`[]`),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	h.HandleProducts(rec, req)

	// The view degrades to an empty list instead of erroring.
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if string(bytes.TrimSpace(env.Data)) != "[]" {
		t.Errorf("expected empty list, got %s", env.Data)
	}
}

func TestHandleCreateProductValidation(t *testing.T) {
	h := newTestHandlers(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"name":""}`))
	rec := httptest.NewRecorder()
	h.HandleCreateProduct(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Error("expected error envelope")
	}
	if !bytes.Contains(env.Error, []byte("VALIDATION_ERROR")) {
		t.Errorf("expected validation code, got %s", env.Error)
	}
}

func TestHandleCreateProductUpstreamRejection(t *testing.T) {
	h := newTestHandlers(t, map[string]http.HandlerFunc{
		"/inventory/products/": func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				w.WriteHeader(http.StatusBadRequest)
				io.WriteString(w, `{"sku":["product with this sku already exists."]}`)
				return
			}
			jsonRoute(`[]`)(w, r)
		},
		"/inventory/categories/": jsonRoute(`[]`),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"name":"Rice","sku":"R1"}`))
	rec := httptest.NewRecorder()
	h.HandleCreateProduct(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	// The raw upstream body rides along in details.
	if !bytes.Contains(env.Error, []byte("already exists")) {
		t.Errorf("expected upstream details preserved, got %s", env.Error)
	}
}

func TestHandleDeleteCategoryWithProducts(t *testing.T) {
	h := newTestHandlers(t, map[string]http.HandlerFunc{
		"/inventory/categories/1/": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			io.WriteString(w, `{"detail":"protected"}`)
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/categories/1", nil)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.HandleDeleteCategory(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !bytes.Contains(env.Error, []byte("still contains products")) {
		t.Errorf("unexpected error body: %s", env.Error)
	}
}

func TestHandleOrderNotFound(t *testing.T) {
	h := newTestHandlers(t, map[string]http.HandlerFunc{
		"/orders/orders/99/": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/orders/99", nil)
	req.SetPathValue("id", "99")
	rec := httptest.NewRecorder()
	h.HandleOrder(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleOrderInvalidID(t *testing.T) {
	h := newTestHandlers(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/abc", nil)
	req.SetPathValue("id", "abc")
	rec := httptest.NewRecorder()
	h.HandleOrder(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDraftFlow(t *testing.T) {
	h := newTestHandlers(t, map[string]http.HandlerFunc{
		"/orders/orders/": func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, `{"id":5,"total_amount":"30.00","items_count":1}`)
				return
			}
			jsonRoute(`[]`)(w, r)
		},
	})

	// Open a draft.
	rec := httptest.NewRecorder()
	h.HandleNewDraft(rec, httptest.NewRequest(http.MethodPost, "/api/order-drafts", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var draft struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &draft); err != nil {
		t.Fatalf("decode draft: %v", err)
	}

	// Add a line.
	req := httptest.NewRequest(http.MethodPost, "/api/order-drafts/"+draft.ID+"/items",
		strings.NewReader(`{"product":1,"quantity":3}`))
	req.SetPathValue("id", draft.ID)
	rec = httptest.NewRecorder()
	h.HandleAddDraftItem(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("add item: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	// Submit.
	req = httptest.NewRequest(http.MethodPost, "/api/order-drafts/"+draft.ID+"/submit", nil)
	req.SetPathValue("id", draft.ID)
	rec = httptest.NewRecorder()
	h.HandleSubmitDraft(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	var order struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &order); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if order.ID != 5 {
		t.Errorf("expected order 5, got %d", order.ID)
	}
}

func TestHandleAddDraftItemBadQuantity(t *testing.T) {
	h := newTestHandlers(t, nil)

	rec := httptest.NewRecorder()
	h.HandleNewDraft(rec, httptest.NewRequest(http.MethodPost, "/api/order-drafts", nil))
	var draft struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &draft); err != nil {
		t.Fatalf("decode draft: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/order-drafts/"+draft.ID+"/items",
		strings.NewReader(`{"product":1,"quantity":0}`))
	req.SetPathValue("id", draft.ID)
	rec = httptest.NewRecorder()
	h.HandleAddDraftItem(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleDashboard(t *testing.T) {
	h := newTestHandlers(t, map[string]http.HandlerFunc{
		"/inventory/summary/":    jsonRoute(`{"total_products":4,"total_quantity":40,"low_stock_count":1,"total_inventory_value":"200.00"}`),
		"/orders/sales-summary/": jsonRoute(`{"summary":{"total_orders":2,"total_revenue":"80.00"}}`),
		"/orders/today-orders/":  jsonRoute(`{"total_orders":1,"total_revenue":"40.00"}`),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rec := httptest.NewRecorder()
	h.HandleDashboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		Inventory struct {
			TotalProducts int `json:"total_products"`
		} `json:"inventory"`
		Trends  map[string]json.RawMessage `json:"trends"`
		History map[string][]float64       `json:"history"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &payload); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if payload.Inventory.TotalProducts != 4 {
		t.Errorf("expected 4 products, got %d", payload.Inventory.TotalProducts)
	}
	if len(payload.Trends) == 0 {
		t.Error("expected trends in payload")
	}
	if got := payload.History["total_products"]; len(got) != 1 || got[0] != 4 {
		t.Errorf("unexpected history: %v", got)
	}
}

func TestHandleExportCSV(t *testing.T) {
	h := newTestHandlers(t, map[string]http.HandlerFunc{
		"/orders/export-csv/": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/csv")
			io.WriteString(w, "date,revenue\n2026-08-31,40.00\n")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/export-csv", nil)
	rec := httptest.NewRecorder()
	h.HandleExportCSV(rec, req)

	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("expected text/csv, got %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "sales_report.csv") {
		t.Errorf("unexpected disposition %q", got)
	}
	if !strings.HasPrefix(rec.Body.String(), "date,revenue") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	h := newTestHandlers(t, nil)

	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "healthy") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
