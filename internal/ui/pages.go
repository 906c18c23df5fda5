package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Pages are plain templ components; the dynamic parts (tables, stat
// cards, chart series) arrive over SSE after load, so the shells stay
// static and cacheable.

var navItems = []struct {
	Href  string
	Label string
}{
	{"/", "Dashboard"},
	{"/inventory", "Inventory"},
	{"/orders", "Orders"},
	{"/analytics", "Analytics"},
}

func Layout(title, active string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s · shopdesk</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<link rel="stylesheet" href="/static/app.css">
</head>
<body>
<nav class="sidebar">
<span class="brand">shopdesk</span>
<ul>`, templ.EscapeString(title)); err != nil {
			return err
		}

		for _, item := range navItems {
			class := ""
			if item.Label == active {
				class = ` class="active"`
			}
			if _, err := fmt.Fprintf(w, `<li%s><a href="%s">%s</a></li>`, class, item.Href, item.Label); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `</ul>
</nav>
<main>`); err != nil {
			return err
		}

		if err := content.Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</main>
</body>
</html>`)
		return err
	})
}

func Dashboard() templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section data-on-load="@get('/sse/dashboard')">
<header class="page-header">
<h1>Dashboard</h1>
<button data-on-click="@get('/sse/dashboard')">Refresh</button>
</header>
<div id="stat-cards" class="stat-grid"><p class="placeholder">Loading metrics…</p></div>
<div class="chart-row">
<div id="sales-chart" class="chart" data-signals="{dailySales: [], dailyProfits: [], revenueHistory: {}}"></div>
</div>
</section>`)
		return err
	})
	return Layout("Dashboard", "Dashboard", content)
}

func Inventory() templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section data-signals="{search: '', category: '', sortBy: 'name', sortOrder: 'asc'}" data-on-load="@get('/sse/products')">
<header class="page-header">
<h1>Inventory</h1>
</header>
<div class="toolbar">
<input type="search" placeholder="Search products…" data-bind-search data-on-input__debounce.300ms="@get('/sse/products?search='+$search+'&category='+$category+'&sort_by='+$sortBy+'&sort_order='+$sortOrder)">
<select id="category-filter" data-bind-category data-on-change="@get('/sse/products?search='+$search+'&category='+$category+'&sort_by='+$sortBy+'&sort_order='+$sortOrder)">
<option value="">All categories</option>
</select>
<select data-bind-sortBy data-on-change="@get('/sse/products?search='+$search+'&category='+$category+'&sort_by='+$sortBy+'&sort_order='+$sortOrder)">
<option value="name">Name</option>
<option value="category">Category</option>
<option value="cost_price">Cost price</option>
<option value="selling_price">Selling price</option>
<option value="quantity">Quantity</option>
<option value="profit">Profit</option>
</select>
<button data-on-click="$sortOrder = $sortOrder === 'asc' ? 'desc' : 'asc'; @get('/sse/products?search='+$search+'&category='+$category+'&sort_by='+$sortBy+'&sort_order='+$sortOrder)">Flip order</button>
</div>
<div id="product-content"><p class="placeholder">Loading products…</p></div>
</section>`)
		return err
	})
	return Layout("Inventory", "Inventory", content)
}

func Orders() templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section data-on-load="@get('/sse/orders')">
<header class="page-header">
<h1>Orders</h1>
<div class="actions">
<a class="button" href="/api/export-csv">Export CSV</a>
<button data-on-click="@post('/api/order-drafts')">New order</button>
</div>
</header>
<div id="order-content"><p class="placeholder">Loading orders…</p></div>
</section>`)
		return err
	})
	return Layout("Orders", "Orders", content)
}

func Analytics() templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section data-signals="{startDate: '', endDate: '', salesSummary: {}, dailySales: [], dailyProfits: [], categoryShares: [], topProducts: []}" data-on-load="@get('/sse/analytics')">
<header class="page-header">
<h1>Analytics</h1>
<div class="toolbar">
<input type="date" data-bind-startDate>
<input type="date" data-bind-endDate>
<button data-on-click="@get('/sse/analytics?start_date='+$startDate+'&end_date='+$endDate)">Apply</button>
</div>
</header>
<div id="analytics-status" class="placeholder">Loading analytics…</div>
<div class="chart-row">
<div id="revenue-chart" class="chart"></div>
<div id="category-chart" class="chart"></div>
</div>
</section>`)
		return err
	})
	return Layout("Analytics", "Analytics", content)
}
