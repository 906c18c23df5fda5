package upstream

import (
	"context"
	"fmt"
	"net/http"

	"shopdesk/internal/models"
)

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	return getList[models.Product](ctx, c, "/inventory/products/")
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	return getList[models.Category](ctx, c, "/inventory/categories/")
}

func (c *Client) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	var p models.Product
	err := c.do(ctx, http.MethodPost, "/inventory/products/", in, &p)
	return p, err
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in models.ProductInput) (models.Product, error) {
	var p models.Product
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/inventory/products/%d/", id), in, &p)
	return p, err
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/inventory/products/%d/", id), nil, nil)
}

func (c *Client) CreateCategory(ctx context.Context, in models.CategoryInput) (models.Category, error) {
	var cat models.Category
	err := c.do(ctx, http.MethodPost, "/inventory/categories/", in, &cat)
	return cat, err
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/inventory/categories/%d/", id), nil, nil)
}

func (c *Client) InventorySummary(ctx context.Context) (models.InventorySummary, error) {
	var s models.InventorySummary
	err := c.do(ctx, http.MethodGet, "/inventory/summary/", nil, &s)
	return s, err
}
