package storefront

import (
	"fmt"
	"math"
)

// Catalog is the immutable, ordered product list loaded at startup. Insertion
// order is significant: it breaks ties when sorting query results.
type Catalog struct {
	products []Product
	index    map[string]int
}

// NewCatalog validates products and builds a catalog preserving their order.
// Duplicate ids and invalid records are rejected.
func NewCatalog(products ...Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		index:    make(map[string]int, len(products)),
	}
	for _, product := range products {
		if err := product.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}
		if _, exists := c.index[product.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate product id %q", ErrInvalidCatalog, product.ID)
		}
		c.index[product.ID] = len(c.products)
		c.products = append(c.products, product.Clone())
	}
	return c, nil
}

// MustCatalog is NewCatalog for static fixtures; it panics on error.
func MustCatalog(products ...Product) *Catalog {
	c, err := NewCatalog(products...)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}

// Products returns copies of every product in catalog order.
func (c *Catalog) Products() []Product {
	if c == nil {
		return nil
	}
	out := make([]Product, len(c.products))
	for i, product := range c.products {
		out[i] = product.Clone()
	}
	return out
}

// Get returns the product for id and whether it exists.
func (c *Catalog) Get(id string) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i].Clone(), true
}

// Lookup is Get with an explicit not-found error.
func (c *Catalog) Lookup(id string) (Product, error) {
	product, ok := c.Get(id)
	if !ok {
		return Product{}, fmt.Errorf("%w: %q", ErrProductNotFound, id)
	}
	return product, nil
}

// Featured returns the first n products.
func (c *Catalog) Featured(n int) []Product {
	return c.firstMatching(n, func(Product) bool { return true })
}

// TopRated returns up to n products rated at least minRating, in catalog order.
func (c *Catalog) TopRated(minRating float64, n int) []Product {
	return c.firstMatching(n, func(p Product) bool { return p.Rating >= minRating })
}

// DefaultSuggestionLimit caps search-as-you-type suggestions.
const DefaultSuggestionLimit = 5

// Suggest returns up to limit products matching the free-text search, in
// catalog order. An empty search yields no suggestions.
func (c *Catalog) Suggest(search string, limit int) []Product {
	needle := normalizeSearch(search)
	if needle == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	return c.firstMatching(limit, func(p Product) bool { return matchesSearch(p, needle) })
}

func (c *Catalog) firstMatching(n int, keep func(Product) bool) []Product {
	if c == nil || n <= 0 {
		return nil
	}
	out := make([]Product, 0, min(n, len(c.products)))
	for _, product := range c.products {
		if len(out) == n {
			break
		}
		if keep(product) {
			out = append(out, product.Clone())
		}
	}
	return out
}

// Facets summarises the filterable values present in a catalog.
type Facets struct {
	Brands     []string   `json:"brands"`
	RAM        []string   `json:"ram"`
	Storage    []string   `json:"storage"`
	Network    []string   `json:"network"`
	PriceRange PriceRange `json:"priceRange"`
	InStock    int        `json:"inStock"`
	OutOfStock int        `json:"outOfStock"`
}

// Facets collects distinct filter values in first-seen order plus the price
// bounds and availability counts.
func (c *Catalog) Facets() Facets {
	var f Facets
	if c.Len() == 0 {
		return f
	}
	seen := map[string]map[string]struct{}{}
	add := func(field string, dst *[]string, value string) {
		if value == "" {
			return
		}
		if seen[field] == nil {
			seen[field] = map[string]struct{}{}
		}
		if _, ok := seen[field][value]; ok {
			return
		}
		seen[field][value] = struct{}{}
		*dst = append(*dst, value)
	}

	f.PriceRange = PriceRange{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, p := range c.products {
		add("brand", &f.Brands, p.Brand)
		add("ram", &f.RAM, p.Specs.RAM)
		add("storage", &f.Storage, p.Specs.Storage)
		add("network", &f.Network, p.Specs.Network)
		f.PriceRange.Min = math.Min(f.PriceRange.Min, p.Price)
		f.PriceRange.Max = math.Max(f.PriceRange.Max, p.Price)
		if p.InStock {
			f.InStock++
		} else {
			f.OutOfStock++
		}
	}
	return f
}
