package shopper

import (
	"context"
	"fmt"

	storefront "github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/pkg/activity"
)

// AddOrder records order at the front of the history. Its lines are copied,
// so later cart edits never reach it.
func (s *Session) AddOrder(ctx context.Context, order storefront.Order) error {
	return s.update(ctx, func(st *ShopperState) ([]activity.Event, error) {
		return []activity.Event{s.prependOrderLocked(st, order)}, nil
	})
}

func (s *Session) prependOrderLocked(st *ShopperState, order storefront.Order) activity.Event {
	frozen := order.Clone()
	st.Orders = append([]storefront.Order{frozen}, st.Orders...)

	input := s.eventInput(st)
	input.OrderID = frozen.ID
	input.Total = frozen.Total
	input.Quantity = frozen.ItemCount()
	return activity.BuildOrderPlacedEvent(input)
}

// Orders returns the order history, most recent first.
func (s *Session) Orders() []storefront.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storefront.CloneOrders(s.state.Orders)
}

// Order looks up one order by id.
func (s *Session) Order(id string) (storefront.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.state.Orders {
		if order.ID == id {
			return order.Clone(), nil
		}
	}
	return storefront.Order{}, fmt.Errorf("%w: %q", storefront.ErrOrderNotFound, id)
}
