package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	apperrors "shopdesk/internal/errors"
	"shopdesk/internal/models"
	"shopdesk/internal/observability"
	"shopdesk/internal/services"
	"shopdesk/internal/upstream"
)

const listCacheControl = "private, max-age=30"

type APIHandlers struct {
	dashboard *services.Dashboard
	inventory *services.Inventory
	orders    *services.Orders
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(dashboard *services.Dashboard, inventory *services.Inventory, orders *services.Orders, analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		inventory: inventory,
		orders:    orders,
		analytics: analytics,
		logger:    logger,
	}
}

// classify maps an upstream failure onto the error envelope: rejected
// payloads keep the raw upstream body, anything else is a gateway-side
// fetch failure.
func classify(err error, action string) *apperrors.AppError {
	var se *upstream.StatusError
	if stderrors.As(err, &se) && se.IsValidation() {
		return apperrors.ValidationPayload(action+" rejected", se.Body)
	}
	return apperrors.Upstream(err, action+" failed")
}

func criteriaFromQuery(r *http.Request) services.Criteria {
	q := r.URL.Query()
	category, _ := strconv.ParseInt(q.Get("category"), 10, 64)
	return services.Criteria{
		SearchTerm: q.Get("search"),
		Category:   category,
		SortBy:     services.ParseSortField(q.Get("sort_by")),
		SortOrder:  services.ParseSortOrder(q.Get("sort_order")),
	}
}

// HandleProducts refetches the product cache and serves it shaped by the
// filter/sort query parameters. A failed fetch falls back to an empty
// list; the failure stays local to this request.
func (h *APIHandlers) HandleProducts(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.Refresh(r.Context()); err != nil {
		h.logger.Error("product fetch failed", "error", err)
	}

	data := h.inventory.View(criteriaFromQuery(r))

	apperrors.WriteSuccessWithHeaders(w, data, map[string]string{
		"Cache-Control": listCacheControl,
	})
}

func (h *APIHandlers) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	var in models.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apperrors.WriteError(w, h.logger, apperrors.BadRequest("Invalid product payload"), requestID)
		return
	}
	if in.Name == "" {
		apperrors.WriteError(w, h.logger, apperrors.Validation("Product name is required"), requestID)
		return
	}

	p, err := h.inventory.CreateProduct(r.Context(), in)
	if err != nil {
		apperrors.WriteError(w, h.logger, classify(err, "Create product"), requestID)
		return
	}
	apperrors.WriteSuccessStatus(w, p, http.StatusCreated)
}

func (h *APIHandlers) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		apperrors.WriteError(w, h.logger, apperrors.BadRequest("Invalid product id"), requestID)
		return
	}

	var in models.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apperrors.WriteError(w, h.logger, apperrors.BadRequest("Invalid product payload"), requestID)
		return
	}

	p, err := h.inventory.UpdateProduct(r.Context(), id, in)
	if err != nil {
		apperrors.WriteError(w, h.logger, classify(err, "Update product"), requestID)
		return
	}
	apperrors.WriteSuccess(w, p)
}

func (h *APIHandlers) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		apperrors.WriteError(w, h.logger, apperrors.BadRequest("Invalid product id"), requestID)
		return
	}

	if err := h.inventory.DeleteProduct(r.Context(), id); err != nil {
		apperrors.WriteError(w, h.logger, classify(err, "Delete product"), requestID)
		return
	}
	apperrors.WriteSuccess(w, map[string]int64{"deleted": id})
}

func (h *APIHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.Refresh(r.Context()); err != nil {
		h.logger.Error("category fetch failed", "error", err)
	}

	apperrors.WriteSuccessWithHeaders(w, h.inventory.Categories(), map[string]string{
		"Cache-Control": listCacheControl,
	})
}

func (h *APIHandlers) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	var in models.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apperrors.WriteError(w, h.logger, apperrors.BadRequest("Invalid category payload"), requestID)
		return
	}
	if in.Name == "" {
		apperrors.WriteError(w, h.logger, apperrors.Validation("Category name is required"), requestID)
		return
	}

	c, err := h.inventory.CreateCategory(r.Context(), in)
	if err != nil {
		apperrors.WriteError(w, h.logger, classify(err, "Create category"), requestID)
		return
	}
	apperrors.WriteSuccessStatus(w, c, http.StatusCreated)
}

func (h *APIHandlers) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		apperrors.WriteError(w, h.logger, apperrors.BadRequest("Invalid category id"), requestID)
		return
	}

	if err := h.inventory.DeleteCategory(r.Context(), id); err != nil {
		var se *upstream.StatusError
		if stderrors.As(err, &se) && se.IsValidation() {
			// Referential constraint: the category still holds products.
			apperrors.WriteError(w, h.logger,
				apperrors.Validation("Cannot delete a category that still contains products"), requestID)
			return
		}
		apperrors.WriteError(w, h.logger, classify(err, "Delete category"), requestID)
		return
	}
	apperrors.WriteSuccess(w, map[string]int64{"deleted": id})
}

func (h *APIHandlers) HandleOrders(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Refresh(r.Context()); err != nil {
		h.logger.Error("order fetch failed", "error", err)
	}

	apperrors.WriteSuccessWithHeaders(w, h.orders.List(), map[string]string{
		"Cache-Control": listCacheControl,
	})
}

func (h *APIHandlers) HandleOrder(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		apperrors.WriteError(w, h.logger, apperrors.BadRequest("Invalid order id"), requestID)
		return
	}

	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		var se *upstream.StatusError
		if stderrors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			apperrors.WriteError(w, h.logger, apperrors.NotFound(fmt.Sprintf("Order %d not found", id)), requestID)
			return
		}
		apperrors.WriteError(w, h.logger, classify(err, "Fetch order"), requestID)
		return
	}
	apperrors.WriteSuccess(w, order)
}

func (h *APIHandlers) HandleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		apperrors.WriteError(w, h.logger, apperrors.BadRequest("Invalid order id"), requestID)
		return
	}

	if err := h.orders.Delete(r.Context(), id); err != nil {
		apperrors.WriteError(w, h.logger, classify(err, "Delete order"), requestID)
		return
	}
	apperrors.WriteSuccess(w, map[string]int64{"deleted": id})
}

func (h *APIHandlers) HandleNewDraft(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteSuccessStatus(w, h.orders.NewDraft(), http.StatusCreated)
}

type draftItemRequest struct {
	Product  int64 `json:"product"`
	Quantity int   `json:"quantity"`
}

func (h *APIHandlers) HandleAddDraftItem(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		apperrors.WriteError(w, h.logger, apperrors.BadRequest("Invalid draft id"), requestID)
		return
	}

	var item draftItemRequest
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		apperrors.WriteError(w, h.logger, apperrors.BadRequest("Invalid draft item payload"), requestID)
		return
	}

	if err := h.orders.AddDraftItem(id, item.Product, item.Quantity); err != nil {
		apperrors.WriteError(w, h.logger, apperrors.Validation(err.Error()), requestID)
		return
	}

	draft, _ := h.orders.Draft(id)
	apperrors.WriteSuccess(w, draft)
}

func (h *APIHandlers) HandleRemoveDraftItem(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		apperrors.WriteError(w, h.logger, apperrors.BadRequest("Invalid draft id"), requestID)
		return
	}
	product, err := strconv.ParseInt(r.PathValue("product"), 10, 64)
	if err != nil {
		apperrors.WriteError(w, h.logger, apperrors.BadRequest("Invalid product id"), requestID)
		return
	}

	if err := h.orders.RemoveDraftItem(id, product); err != nil {
		apperrors.WriteError(w, h.logger, apperrors.NotFound(err.Error()), requestID)
		return
	}

	draft, _ := h.orders.Draft(id)
	apperrors.WriteSuccess(w, draft)
}

func (h *APIHandlers) HandleDraftNotes(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		apperrors.WriteError(w, h.logger, apperrors.BadRequest("Invalid draft id"), requestID)
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apperrors.WriteError(w, h.logger, apperrors.BadRequest("Invalid notes payload"), requestID)
		return
	}

	if err := h.orders.SetDraftNotes(id, body.Notes); err != nil {
		apperrors.WriteError(w, h.logger, apperrors.NotFound(err.Error()), requestID)
		return
	}

	draft, _ := h.orders.Draft(id)
	apperrors.WriteSuccess(w, draft)
}

func (h *APIHandlers) HandleSubmitDraft(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		apperrors.WriteError(w, h.logger, apperrors.BadRequest("Invalid draft id"), requestID)
		return
	}

	order, err := h.orders.SubmitDraft(r.Context(), id)
	if err != nil {
		apperrors.WriteError(w, h.logger, classify(err, "Submit order"), requestID)
		return
	}
	apperrors.WriteSuccessStatus(w, order, http.StatusCreated)
}

func (h *APIHandlers) HandleCancelDraft(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		apperrors.WriteError(w, h.logger, apperrors.BadRequest("Invalid draft id"), requestID)
		return
	}

	h.orders.CancelDraft(id)
	apperrors.WriteSuccess(w, map[string]string{"cancelled": id.String()})
}

// HandleDashboard refreshes the dashboard aggregates and serves the stat
// card payload: current values, trends and sparkline history.
func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.Refresh(r.Context()); err != nil {
		h.logger.Error("dashboard fetch failed", "error", err)
	}

	trends := h.dashboard.Trends()
	history := make(map[services.Metric][]float64, len(trends))
	for m := range trends {
		history[m] = h.dashboard.History(m)
	}

	apperrors.WriteSuccess(w, map[string]any{
		"inventory": h.dashboard.Inventory(),
		"sales":     h.dashboard.Sales(),
		"today":     h.dashboard.Today(),
		"trends":    trends,
		"history":   history,
	})
}

func (h *APIHandlers) HandleSalesSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := h.analytics.Refresh(r.Context(), q.Get("start_date"), q.Get("end_date")); err != nil {
		h.logger.Error("sales summary fetch failed", "error", err)
	}

	apperrors.WriteSuccess(w, h.analytics.Sales())
}

func (h *APIHandlers) HandleCategorySales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := h.analytics.Refresh(r.Context(), q.Get("start_date"), q.Get("end_date")); err != nil {
		h.logger.Error("category sales fetch failed", "error", err)
	}

	apperrors.WriteSuccess(w, map[string]any{
		"category_sales": h.analytics.CategoryShares(),
		"top_products":   h.analytics.TopProducts(10),
	})
}

// HandleExportCSV streams the upstream sales report as a download.
func (h *APIHandlers) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())
	q := r.URL.Query()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="sales_report.csv"`)

	if err := h.orders.ExportCSV(r.Context(), q.Get("start_date"), q.Get("end_date"), w); err != nil {
		// Headers may already be gone; log and give up on this download.
		h.logger.Error("csv export failed", "error", err, "request_id", requestID)
	}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteSuccess(w, h.dashboard.Stats())
}
