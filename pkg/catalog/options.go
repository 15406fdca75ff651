package catalog

import (
	"slices"

	storefront "github.com/goliatone/go-storefront"
)

// FilterOptions lists the values the filter sidebar offers, independent of
// what the loaded catalog contains.
type FilterOptions struct {
	Brands  []string
	RAM     []string
	Storage []string
	Battery []string
	Network []string
	Colors  []string
}

// DefaultFilterOptions returns the stock sidebar choices.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		Brands:  []string{"Apple", "Samsung", "Google", "OnePlus", "Xiaomi", "Nothing"},
		RAM:     []string{"4GB", "6GB", "8GB", "12GB", "16GB"},
		Storage: []string{"64GB", "128GB", "256GB", "512GB", "1TB"},
		Battery: []string{"3000-4000mAh", "4000-5000mAh", "5000mAh+"},
		Network: []string{"4G", "5G"},
		Colors:  []string{"Black", "White", "Blue", "Green", "Purple", "Gold", "Silver"},
	}
}

// SidebarOptions extends the stock choices with values the catalog carries
// that the stock lists lack, appended in catalog order.
func SidebarOptions(c *storefront.Catalog) FilterOptions {
	opts := DefaultFilterOptions()
	if c == nil {
		return opts
	}
	facets := c.Facets()
	opts.Brands = appendMissing(opts.Brands, facets.Brands)
	opts.RAM = appendMissing(opts.RAM, facets.RAM)
	opts.Storage = appendMissing(opts.Storage, facets.Storage)
	opts.Network = appendMissing(opts.Network, facets.Network)
	return opts
}

func appendMissing(dst, values []string) []string {
	for _, value := range values {
		if !slices.Contains(dst, value) {
			dst = append(dst, value)
		}
	}
	return dst
}
