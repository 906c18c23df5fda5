package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"shopdesk/internal/models"
)

func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	return getList[models.Order](ctx, c, "/orders/orders/")
}

func (c *Client) Order(ctx context.Context, id int64) (models.Order, error) {
	var o models.Order
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/orders/%d/", id), nil, &o)
	return o, err
}

func (c *Client) CreateOrder(ctx context.Context, in models.OrderInput) (models.Order, error) {
	var o models.Order
	err := c.do(ctx, http.MethodPost, "/orders/orders/", in, &o)
	return o, err
}

func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/orders/orders/%d/", id), nil, nil)
}

func (c *Client) SalesSummary(ctx context.Context, startDate, endDate string) (models.SalesSummary, error) {
	var s models.SalesSummary
	err := c.do(ctx, http.MethodGet, "/orders/sales-summary/"+dateRangeQuery(startDate, endDate), nil, &s)
	return s, err
}

func (c *Client) CategorySales(ctx context.Context, startDate, endDate string) (models.CategorySales, error) {
	var s models.CategorySales
	err := c.do(ctx, http.MethodGet, "/orders/category-sales/"+dateRangeQuery(startDate, endDate), nil, &s)
	return s, err
}

func (c *Client) TodayOrders(ctx context.Context) (models.TodayOrders, error) {
	var t models.TodayOrders
	err := c.do(ctx, http.MethodGet, "/orders/today-orders/", nil, &t)
	return t, err
}

// ExportCSV streams the upstream sales report straight to w.
func (c *Client) ExportCSV(ctx context.Context, startDate, endDate string, w io.Writer) error {
	return c.stream(ctx, "/orders/export-csv/"+dateRangeQuery(startDate, endDate), w)
}

func dateRangeQuery(startDate, endDate string) string {
	q := url.Values{}
	if startDate != "" {
		q.Set("start_date", startDate)
	}
	if endDate != "" {
		q.Set("end_date", endDate)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
