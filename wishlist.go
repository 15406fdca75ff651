package storefront

import "time"

// WishlistItem records a saved product. A product appears at most once.
type WishlistItem struct {
	ProductID string    `json:"productId"`
	Product   Product   `json:"product"`
	AddedAt   time.Time `json:"addedAt"`
}

// NewWishlistItem stamps product with addedAt at millisecond precision.
func NewWishlistItem(product Product, addedAt time.Time) WishlistItem {
	return WishlistItem{
		ProductID: product.ID,
		Product:   product.Clone(),
		AddedAt:   addedAt.UTC().Truncate(time.Millisecond),
	}
}

// Clone returns a deep copy of the item.
func (w WishlistItem) Clone() WishlistItem {
	out := w
	out.Product = w.Product.Clone()
	return out
}

// CloneWishlistItems deep-copies items. A nil input yields an empty slice.
func CloneWishlistItems(items []WishlistItem) []WishlistItem {
	out := make([]WishlistItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}
