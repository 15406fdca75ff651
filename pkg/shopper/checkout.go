package shopper

import (
	"context"
	"fmt"

	storefront "github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/pkg/activity"
)

// Submitter hands a built order to the payment/fulfillment side. A non-nil
// error aborts the checkout.
type Submitter func(ctx context.Context, order storefront.Order) error

// Checkout turns the current cart into a processing order. The order is
// built from a copy of the cart and passed to submit without holding the
// session lock; when submit succeeds the order is recorded and the ordered
// units are taken out of the cart in one saved mutation. Lines added while
// submit ran stay in the cart. On any error the cart is left untouched.
func (s *Session) Checkout(ctx context.Context, address storefront.Address, submit Submitter) (storefront.Order, error) {
	s.mu.Lock()
	items := storefront.CloneCartItems(s.state.CartItems)
	s.mu.Unlock()
	if len(items) == 0 {
		return storefront.Order{}, storefront.ErrEmptyCart
	}
	if err := address.Validate(); err != nil {
		return storefront.Order{}, err
	}

	order := storefront.NewOrder(s.cfg.orderIDs(), items, address, s.cfg.now())
	if submit != nil {
		if err := submit(ctx, order.Clone()); err != nil {
			return storefront.Order{}, fmt.Errorf("shopper: checkout %s: %w", order.ID, err)
		}
	}

	err := s.update(ctx, func(st *ShopperState) ([]activity.Event, error) {
		events := []activity.Event{s.prependOrderLocked(st, order)}
		st.CartItems = withoutOrdered(st.CartItems, order.Items)
		if len(st.CartItems) == 0 {
			events = append(events, activity.BuildCartClearedEvent(s.eventInput(st)))
		}
		return events, nil
	})
	if err != nil {
		return storefront.Order{}, err
	}
	return order.Clone(), nil
}

// withoutOrdered subtracts the ordered quantity from each matching cart line
// and drops lines that reach zero.
func withoutOrdered(cart, ordered []storefront.CartItem) []storefront.CartItem {
	remaining := make([]storefront.CartItem, 0, len(cart))
	for _, item := range cart {
		for _, line := range ordered {
			if line.Matches(item.ProductID, item.SelectedColor) {
				item.Quantity -= line.Quantity
				break
			}
		}
		if item.Quantity > 0 {
			remaining = append(remaining, item)
		}
	}
	return remaining
}
