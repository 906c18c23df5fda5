package services

import (
	"cmp"
	"slices"
	"strings"

	"shopdesk/internal/models"
)

type SortField string

const (
	SortByName         SortField = "name"
	SortByCategory     SortField = "category"
	SortByCostPrice    SortField = "cost_price"
	SortBySellingPrice SortField = "selling_price"
	SortByQuantity     SortField = "quantity"
	SortByProfit       SortField = "profit"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Criteria is the ephemeral filter/sort state of the inventory view.
// A zero Category means no category filter.
type Criteria struct {
	SearchTerm string
	Category   int64
	SortBy     SortField
	SortOrder  SortOrder
}

// FilterSort returns the products matching the criteria, ordered by the
// selected comparator. The search and category filters are conjunctive.
// The input slice is never mutated; the result is always rebuilt from the
// full product set so repeated application with the same criteria is
// idempotent.
func FilterSort(products []models.Product, c Criteria) []models.Product {
	out := make([]models.Product, 0, len(products))

	term := strings.ToLower(c.SearchTerm)
	for _, p := range products {
		if term != "" && !matchesSearch(p, term) {
			continue
		}
		if c.Category != 0 && p.Category != c.Category {
			continue
		}
		out = append(out, p)
	}

	compare := comparatorFor(c.SortBy)
	if c.SortOrder == SortDesc {
		// Reverse the comparator, not the sorted output, so equal keys
		// still group together in either direction.
		asc := compare
		compare = func(a, b models.Product) int { return -asc(a, b) }
	}
	slices.SortStableFunc(out, compare)

	return out
}

func matchesSearch(p models.Product, term string) bool {
	if strings.Contains(strings.ToLower(p.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(p.CategoryName), term) {
		return true
	}
	return p.SKU != "" && strings.Contains(strings.ToLower(p.SKU), term)
}

func comparatorFor(field SortField) func(a, b models.Product) int {
	switch field {
	case SortByCategory:
		return func(a, b models.Product) int {
			return strings.Compare(strings.ToLower(a.CategoryName), strings.ToLower(b.CategoryName))
		}
	case SortByCostPrice:
		return func(a, b models.Product) int {
			return a.CostPrice.Cmp(b.CostPrice.Decimal)
		}
	case SortBySellingPrice:
		return func(a, b models.Product) int {
			return a.SellingPrice.Cmp(b.SellingPrice.Decimal)
		}
	case SortByQuantity:
		return func(a, b models.Product) int {
			return cmp.Compare(a.Quantity, b.Quantity)
		}
	case SortByProfit:
		return func(a, b models.Product) int {
			return a.ProfitPerUnit.Cmp(b.ProfitPerUnit.Decimal)
		}
	default:
		return func(a, b models.Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	}
}

// ParseSortField maps a query parameter onto a sort field, falling back to
// name ordering for anything unrecognised.
func ParseSortField(s string) SortField {
	switch SortField(s) {
	case SortByCategory, SortByCostPrice, SortBySellingPrice, SortByQuantity, SortByProfit:
		return SortField(s)
	default:
		return SortByName
	}
}

func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == SortDesc {
		return SortDesc
	}
	return SortAsc
}
