package storefront

import (
	"cmp"
	"slices"
	"strings"
)

var defaultEngine = NewEngine()

// Query filters and orders catalog with the default engine. It never fails:
// malformed criteria produce an empty result.
func Query(catalog *Catalog, criteria FilterCriteria, sortKey SortKey, search string) []Product {
	return defaultEngine.Query(catalog, criteria, sortKey, search)
}

// Matches reports whether product passes every built-in predicate of criteria
// and search. Rules are not considered; they need an engine.
func Matches(product Product, criteria FilterCriteria, search string) bool {
	return matches(product, criteria, normalizeSearch(search))
}

func matches(p Product, c FilterCriteria, needle string) bool {
	if needle != "" && !matchesSearch(p, needle) {
		return false
	}
	if !inSet(c.Brands, p.Brand) {
		return false
	}
	if !c.PriceRange.Contains(p.Price) {
		return false
	}
	if !inSet(c.RAM, p.Specs.RAM) || !inSet(c.Storage, p.Specs.Storage) || !inSet(c.Network, p.Specs.Network) {
		return false
	}
	if p.Rating < c.MinRating {
		return false
	}
	if c.MinDiscount > 0 && (!p.OnSale() || p.Discount < c.MinDiscount) {
		return false
	}
	return true
}

func normalizeSearch(search string) string {
	return strings.ToLower(search)
}

// matchesSearch expects needle to be normalized already.
func matchesSearch(p Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Brand), needle) ||
		strings.Contains(strings.ToLower(p.Specs.Processor), needle)
}

func inSet(set []string, value string) bool {
	return len(set) == 0 || slices.Contains(set, value)
}

// sortProducts orders products in place. The sort is stable so equal keys
// keep catalog order.
func sortProducts(products []Product, key SortKey) {
	slices.SortStableFunc(products, comparator(key))
}

func comparator(key SortKey) func(a, b Product) int {
	switch key {
	case SortPriceAsc:
		return func(a, b Product) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceDesc:
		return func(a, b Product) int { return cmp.Compare(b.Price, a.Price) }
	case SortRatingDesc:
		return func(a, b Product) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortNewest:
		// ids stand in for recency; only meaningful for monotonic, equal-width ids
		return func(a, b Product) int { return strings.Compare(b.ID, a.ID) }
	default:
		return func(a, b Product) int { return cmp.Compare(b.Reviews, a.Reviews) }
	}
}
