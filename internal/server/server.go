package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"shopdesk/internal/handlers"
	"shopdesk/internal/ui"
)

const renderTimeout = 10 * time.Second

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	api    *handlers.APIHandlers
	sse    *handlers.SSEHandlers
}

func NewServer(api *handlers.APIHandlers, sse *handlers.SSEHandlers, logger *slog.Logger) *Server {
	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		api:    api,
		sse:    sse,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// View shells
	s.mux.HandleFunc("GET /{$}", s.pageHandler(ui.Dashboard()))
	s.mux.HandleFunc("GET /inventory", s.pageHandler(ui.Inventory()))
	s.mux.HandleFunc("GET /orders", s.pageHandler(ui.Orders()))
	s.mux.HandleFunc("GET /analytics", s.pageHandler(ui.Analytics()))

	s.mux.Handle("GET /static/", ui.StaticHandler())

	s.mux.HandleFunc("GET /health", s.api.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.api.HandleStats)

	// Inventory API
	s.mux.HandleFunc("GET /api/products", s.api.HandleProducts)
	s.mux.HandleFunc("POST /api/products", s.api.HandleCreateProduct)
	s.mux.HandleFunc("PUT /api/products/{id}", s.api.HandleUpdateProduct)
	s.mux.HandleFunc("DELETE /api/products/{id}", s.api.HandleDeleteProduct)
	s.mux.HandleFunc("GET /api/categories", s.api.HandleCategories)
	s.mux.HandleFunc("POST /api/categories", s.api.HandleCreateCategory)
	s.mux.HandleFunc("DELETE /api/categories/{id}", s.api.HandleDeleteCategory)

	// Orders API
	s.mux.HandleFunc("GET /api/orders", s.api.HandleOrders)
	s.mux.HandleFunc("GET /api/orders/{id}", s.api.HandleOrder)
	s.mux.HandleFunc("DELETE /api/orders/{id}", s.api.HandleDeleteOrder)
	s.mux.HandleFunc("POST /api/order-drafts", s.api.HandleNewDraft)
	s.mux.HandleFunc("POST /api/order-drafts/{id}/items", s.api.HandleAddDraftItem)
	s.mux.HandleFunc("DELETE /api/order-drafts/{id}/items/{product}", s.api.HandleRemoveDraftItem)
	s.mux.HandleFunc("PUT /api/order-drafts/{id}/notes", s.api.HandleDraftNotes)
	s.mux.HandleFunc("POST /api/order-drafts/{id}/submit", s.api.HandleSubmitDraft)
	s.mux.HandleFunc("DELETE /api/order-drafts/{id}", s.api.HandleCancelDraft)

	// Aggregates
	s.mux.HandleFunc("GET /api/dashboard", s.api.HandleDashboard)
	s.mux.HandleFunc("GET /api/sales-summary", s.api.HandleSalesSummary)
	s.mux.HandleFunc("GET /api/category-sales", s.api.HandleCategorySales)
	s.mux.HandleFunc("GET /api/export-csv", s.api.HandleExportCSV)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/dashboard", s.sse.HandleDashboard)
	s.mux.HandleFunc("GET /sse/products", s.sse.HandleProducts)
	s.mux.HandleFunc("GET /sse/orders", s.sse.HandleOrders)
	s.mux.HandleFunc("GET /sse/analytics", s.sse.HandleAnalytics)
}

func (s *Server) pageHandler(page templ.Component) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=300")
		if err := page.Render(ctx, w); err != nil {
			s.logger.Error("page render failed", "error", err, "path", r.URL.Path)
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
