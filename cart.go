package storefront

// CartItem is one cart line. Product is a copy taken when the line was
// created; the line key is (ProductID, SelectedColor).
type CartItem struct {
	ProductID     string  `json:"productId"`
	Product       Product `json:"product"`
	Quantity      int     `json:"quantity"`
	SelectedColor string  `json:"selectedColor"`
}

// NewCartItem builds a single-unit line for product in color.
func NewCartItem(product Product, color string) CartItem {
	return CartItem{
		ProductID:     product.ID,
		Product:       product.Clone(),
		Quantity:      1,
		SelectedColor: color,
	}
}

// Matches reports whether the line has the given key.
func (i CartItem) Matches(productID, color string) bool {
	return i.ProductID == productID && i.SelectedColor == color
}

// LineTotal is unit price times quantity.
func (i CartItem) LineTotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}

// Clone returns a deep copy of the line.
func (i CartItem) Clone() CartItem {
	out := i
	out.Product = i.Product.Clone()
	return out
}

// CartTotal sums price × quantity over items. It is always computed from the
// lines passed in and never cached.
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}

// CartCount sums quantities over items.
func CartCount(items []CartItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// CloneCartItems deep-copies items. A nil input yields an empty slice.
func CloneCartItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}
