package storefront

import "errors"

var (
	// ErrProductNotFound is returned when an id does not resolve to a catalog product.
	ErrProductNotFound = errors.New("storefront: product not found")
	// ErrColorUnavailable is returned when a requested color is not offered for a product.
	ErrColorUnavailable = errors.New("storefront: color not available")
	// ErrOrderNotFound is returned when an order id is not in the order history.
	ErrOrderNotFound = errors.New("storefront: order not found")
	// ErrEmptyCart is returned when checking out a cart with no lines.
	ErrEmptyCart = errors.New("storefront: cart is empty")
	// ErrInvalidCatalog wraps catalog construction failures.
	ErrInvalidCatalog = errors.New("storefront: invalid catalog")
)
