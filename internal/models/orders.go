package models

import "time"

type Order struct {
	ID          int64       `json:"id"`
	OrderDate   time.Time   `json:"order_date"`
	TotalAmount Money       `json:"total_amount"`
	TotalProfit Money       `json:"total_profit"`
	ItemsCount  int         `json:"items_count"`
	Notes       string      `json:"notes"`
	Items       []OrderItem `json:"order_items,omitempty"`
}

type OrderItem struct {
	ID          int64  `json:"id"`
	Product     int64  `json:"product"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   Money  `json:"unit_price"`
	UnitCost    Money  `json:"unit_cost"`
	Subtotal    Money  `json:"subtotal"`
	Profit      Money  `json:"profit"`
}

// OrderInput is the create payload assembled from a draft.
type OrderInput struct {
	Notes string           `json:"notes"`
	Items []OrderItemInput `json:"order_items"`
}

type OrderItemInput struct {
	Product  int64 `json:"product"`
	Quantity int   `json:"quantity"`
}

type Period struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type SalesTotals struct {
	TotalOrders  int     `json:"total_orders"`
	TotalRevenue Money   `json:"total_revenue"`
	TotalProfit  Money   `json:"total_profit"`
	ProfitMargin float64 `json:"profit_margin"`
}

type DailySales struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

type DailyProfit struct {
	Date   string  `json:"date"`
	Profit float64 `json:"profit"`
}

type TopProduct struct {
	ProductName   string `json:"product__name"`
	TotalQuantity int    `json:"total_quantity"`
	TotalRevenue  Money  `json:"total_revenue"`
	TotalProfit   Money  `json:"total_profit"`
}

// SalesSummary is the aggregate behind the analytics charts.
type SalesSummary struct {
	Period       Period        `json:"period"`
	Summary      SalesTotals   `json:"summary"`
	DailySales   []DailySales  `json:"daily_sales"`
	DailyProfits []DailyProfit `json:"daily_profits"`
	TopProducts  []TopProduct  `json:"top_products"`
}

type TodayOrders struct {
	Date         string  `json:"date"`
	TotalOrders  int     `json:"total_orders"`
	TotalRevenue Money   `json:"total_revenue"`
	TotalProfit  Money   `json:"total_profit"`
	Orders       []Order `json:"orders"`
}

type CategorySalesRow struct {
	CategoryID    int64   `json:"category_id"`
	CategoryName  string  `json:"category_name"`
	TotalQuantity int     `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
	TotalProfit   float64 `json:"total_profit"`
	ProductsSold  int     `json:"products_sold"`
}

type CategorySales struct {
	Period    Period             `json:"period"`
	TotalSold int                `json:"total_sold"`
	Rows      []CategorySalesRow `json:"category_sales"`
}
