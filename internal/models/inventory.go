package models

// Product is one inventory item as served by the upstream API. The client
// holds a read-mostly copy per view session, replaced wholesale on refetch.
type Product struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Category          int64  `json:"category"`
	CategoryName      string `json:"category_name"`
	CostPrice         Money  `json:"cost_price"`
	SellingPrice      Money  `json:"selling_price"`
	Quantity          int    `json:"quantity"`
	LowStockThreshold int    `json:"low_stock_threshold"`
	Description       string `json:"description"`
	SKU               string `json:"sku"`
	ProfitPerUnit     Money  `json:"profit_per_unit"`
	ProfitMargin      Money  `json:"profit_margin"`
	IsLowStock        bool   `json:"is_low_stock"`
	TotalValue        Money  `json:"total_value"`
}

// ProductInput is the create/update payload. SKU is omitted entirely when
// blank so the upstream auto-generates one.
type ProductInput struct {
	Name              string `json:"name"`
	Category          int64  `json:"category"`
	CostPrice         Money  `json:"cost_price"`
	SellingPrice      *Money `json:"selling_price,omitempty"`
	Quantity          int    `json:"quantity"`
	LowStockThreshold int    `json:"low_stock_threshold"`
	Description       string `json:"description,omitempty"`
	SKU               string `json:"sku,omitempty"`
}

type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ProductCount int    `json:"product_count"`
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type LowStockProduct struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	AvailableQuantity int    `json:"available_quantity"`
	Threshold         int    `json:"threshold"`
}

// InventorySummary is the aggregate payload behind the dashboard stat cards.
type InventorySummary struct {
	TotalProducts          int               `json:"total_products"`
	TotalCategories        int               `json:"total_categories"`
	LowStockCount          int               `json:"low_stock_count"`
	TotalInventoryValue    Money             `json:"total_inventory_value"`
	TotalSoldValue         Money             `json:"total_sold_value"`
	TotalQuantity          int               `json:"total_quantity"`
	TotalSoldQuantity      int               `json:"total_sold_quantity"`
	TotalAvailableQuantity int               `json:"total_available_quantity"`
	InventoryTurnover      float64           `json:"inventory_turnover_percentage"`
	LowStockProducts       []LowStockProduct `json:"low_stock_products"`
}
