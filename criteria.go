package storefront

import (
	"slices"
	"strings"
)

// PriceRange is an inclusive [Min, Max] price window.
type PriceRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether price lies inside the window. A window with
// Min > Max contains nothing.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// FilterCriteria narrows a catalog. Set-valued fields match when empty or when
// the product value is a member (OR within a field); fields combine with AND.
type FilterCriteria struct {
	Brands      []string   `json:"brands,omitempty" yaml:"brands,omitempty"`
	PriceRange  PriceRange `json:"priceRange" yaml:"priceRange"`
	RAM         []string   `json:"ram,omitempty" yaml:"ram,omitempty"`
	Storage     []string   `json:"storage,omitempty" yaml:"storage,omitempty"`
	Network     []string   `json:"network,omitempty" yaml:"network,omitempty"`
	MinRating   float64    `json:"minRating,omitempty" yaml:"minRating,omitempty"`
	MinDiscount float64    `json:"minDiscount,omitempty" yaml:"minDiscount,omitempty"`

	// Rule is an optional boolean expression evaluated against each product
	// by the engine's evaluator, e.g. `inStock && category == "flagship"`.
	Rule string `json:"rule,omitempty" yaml:"rule,omitempty"`
}

// DefaultPriceCeiling is the upper bound of the reset price window.
const DefaultPriceCeiling = 2000

// DefaultCriteria returns the reset state of the filter panel.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{PriceRange: PriceRange{Min: 0, Max: DefaultPriceCeiling}}
}

// Clone returns a copy that shares no slices with c.
func (c FilterCriteria) Clone() FilterCriteria {
	out := c
	out.Brands = slices.Clone(c.Brands)
	out.RAM = slices.Clone(c.RAM)
	out.Storage = slices.Clone(c.Storage)
	out.Network = slices.Clone(c.Network)
	return out
}

// SortKey selects the result ordering.
type SortKey string

const (
	SortPriceAsc    SortKey = "price-asc"
	SortPriceDesc   SortKey = "price-desc"
	SortRatingDesc  SortKey = "rating-desc"
	SortNewest      SortKey = "newest"
	SortPopularDesc SortKey = "popular-desc"
)

// DefaultSortKey is the ordering used when none is chosen.
const DefaultSortKey = SortPopularDesc

var sortAliases = map[string]SortKey{
	"price-asc":    SortPriceAsc,
	"price-low":    SortPriceAsc,
	"price-desc":   SortPriceDesc,
	"price-high":   SortPriceDesc,
	"rating-desc":  SortRatingDesc,
	"rating":       SortRatingDesc,
	"newest":       SortNewest,
	"popular-desc": SortPopularDesc,
	"popular":      SortPopularDesc,
}

// ParseSortKey maps a sort name, including the short UI names, to a SortKey.
// Unknown names fall back to DefaultSortKey.
func ParseSortKey(value string) SortKey {
	if key, ok := sortAliases[strings.ToLower(strings.TrimSpace(value))]; ok {
		return key
	}
	return DefaultSortKey
}

// Valid reports whether k is one of the known sort keys.
func (k SortKey) Valid() bool {
	switch k {
	case SortPriceAsc, SortPriceDesc, SortRatingDesc, SortNewest, SortPopularDesc:
		return true
	default:
		return false
	}
}
