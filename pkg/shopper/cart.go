package shopper

import (
	"context"
	"fmt"
	"slices"
	"strings"

	storefront "github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/pkg/activity"
)

// AddToCart adds one unit of productID in color. An empty color selects the
// product's first color. Adding an existing (product, color) line bumps its
// quantity.
func (s *Session) AddToCart(ctx context.Context, productID, color string) error {
	product, err := s.catalog.Lookup(productID)
	if err != nil {
		return err
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = product.DefaultColor()
	}
	if !product.HasColor(color) {
		return fmt.Errorf("%w: %q for product %q", storefront.ErrColorUnavailable, color, productID)
	}

	return s.update(ctx, func(st *ShopperState) ([]activity.Event, error) {
		quantity := 1
		if i := findLine(st.CartItems, productID, color); i >= 0 {
			st.CartItems[i].Quantity++
			quantity = st.CartItems[i].Quantity
		} else {
			st.CartItems = append(st.CartItems, storefront.NewCartItem(product, color))
		}

		input := s.eventInput(st)
		input.ProductID = productID
		input.Color = color
		input.Quantity = quantity
		return []activity.Event{activity.BuildCartItemAddedEvent(input)}, nil
	})
}

// RemoveFromCart drops every line for productID. Removing an absent product
// is a no-op.
func (s *Session) RemoveFromCart(ctx context.Context, productID string) error {
	return s.update(ctx, func(st *ShopperState) ([]activity.Event, error) {
		return s.removeLines(st, func(item storefront.CartItem) bool {
			return item.ProductID == productID
		}), nil
	})
}

// RemoveCartLine drops the single (productID, color) line.
func (s *Session) RemoveCartLine(ctx context.Context, productID, color string) error {
	return s.update(ctx, func(st *ShopperState) ([]activity.Event, error) {
		return s.removeLines(st, func(item storefront.CartItem) bool {
			return item.Matches(productID, color)
		}), nil
	})
}

func (s *Session) removeLines(st *ShopperState, drop func(storefront.CartItem) bool) []activity.Event {
	var events []activity.Event
	kept := st.CartItems[:0:0]
	for _, item := range st.CartItems {
		if !drop(item) {
			kept = append(kept, item)
			continue
		}
		input := s.eventInput(st)
		input.ProductID = item.ProductID
		input.Color = item.SelectedColor
		events = append(events, activity.BuildCartItemRemovedEvent(input))
	}
	if len(events) > 0 {
		st.CartItems = kept
	}
	return events
}

// UpdateCartItemQuantity sets the quantity of every line of productID. A
// quantity of zero or less removes the product from the cart.
func (s *Session) UpdateCartItemQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, productID)
	}
	return s.update(ctx, func(st *ShopperState) ([]activity.Event, error) {
		return s.setQuantity(st, quantity, func(item storefront.CartItem) bool {
			return item.ProductID == productID
		}), nil
	})
}

// UpdateCartLineQuantity is UpdateCartItemQuantity for one (productID, color)
// line.
func (s *Session) UpdateCartLineQuantity(ctx context.Context, productID, color string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveCartLine(ctx, productID, color)
	}
	return s.update(ctx, func(st *ShopperState) ([]activity.Event, error) {
		return s.setQuantity(st, quantity, func(item storefront.CartItem) bool {
			return item.Matches(productID, color)
		}), nil
	})
}

func (s *Session) setQuantity(st *ShopperState, quantity int, match func(storefront.CartItem) bool) []activity.Event {
	var events []activity.Event
	for i := range st.CartItems {
		item := &st.CartItems[i]
		if !match(*item) || item.Quantity == quantity {
			continue
		}
		item.Quantity = quantity
		input := s.eventInput(st)
		input.ProductID = item.ProductID
		input.Color = item.SelectedColor
		input.Quantity = quantity
		events = append(events, activity.BuildCartItemUpdatedEvent(input))
	}
	return events
}

// ClearCart empties the cart.
func (s *Session) ClearCart(ctx context.Context) error {
	return s.update(ctx, func(st *ShopperState) ([]activity.Event, error) {
		if len(st.CartItems) == 0 {
			return nil, nil
		}
		st.CartItems = []storefront.CartItem{}
		return []activity.Event{activity.BuildCartClearedEvent(s.eventInput(st))}, nil
	})
}

// CartItems returns a copy of the cart lines in insertion order.
func (s *Session) CartItems() []storefront.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storefront.CloneCartItems(s.state.CartItems)
}

// CartTotal is the pre-tax cart value, recomputed on every call.
func (s *Session) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storefront.CartTotal(s.state.CartItems)
}

// CartCount is the number of units in the cart.
func (s *Session) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storefront.CartCount(s.state.CartItems)
}

func findLine(items []storefront.CartItem, productID, color string) int {
	return slices.IndexFunc(items, func(item storefront.CartItem) bool {
		return item.Matches(productID, color)
	})
}
