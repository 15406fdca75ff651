package storefront

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered, OrderCancelled},
}

// CanTransitionTo reports whether fulfillment may move an order from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return slices.Contains(orderTransitions[s], next)
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Address is a shipping destination; every field is required.
type Address struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
	Country string `json:"country" validate:"required"`
}

// Validate rejects blank fields.
func (a Address) Validate() error {
	trimmed := Address{
		Street:  strings.TrimSpace(a.Street),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		ZipCode: strings.TrimSpace(a.ZipCode),
		Country: strings.TrimSpace(a.Country),
	}
	if err := validate.Struct(trimmed); err != nil {
		return fmt.Errorf("shipping address: %w", err)
	}
	return nil
}

// DefaultTaxRate is the flat sales tax applied on receipts.
const DefaultTaxRate = 0.08

// Order is a placed order. Items are frozen copies of the cart lines at
// checkout and Total is their pre-tax subtotal.
type Order struct {
	ID              string      `json:"id"`
	Items           []CartItem  `json:"items"`
	Total           float64     `json:"total"`
	Status          OrderStatus `json:"status"`
	OrderDate       time.Time   `json:"orderDate"`
	ShippingAddress Address     `json:"shippingAddress"`
}

// NewOrderID returns an opaque unique order id.
func NewOrderID() string {
	return strings.ToUpper(uuid.NewString())
}

// NewOrder snapshots items into a processing order placed at placedAt.
func NewOrder(id string, items []CartItem, address Address, placedAt time.Time) Order {
	frozen := CloneCartItems(items)
	return Order{
		ID:              id,
		Items:           frozen,
		Total:           CartTotal(frozen),
		Status:          OrderProcessing,
		OrderDate:       placedAt.UTC().Truncate(time.Millisecond),
		ShippingAddress: address,
	}
}

// Clone returns a deep copy of the order.
func (o Order) Clone() Order {
	out := o
	out.Items = CloneCartItems(o.Items)
	return out
}

// ItemCount sums quantities across the order lines.
func (o Order) ItemCount() int {
	return CartCount(o.Items)
}

// Tax is Total × rate.
func (o Order) Tax(rate float64) float64 {
	return o.Total * rate
}

// GrandTotal is Total plus tax at rate.
func (o Order) GrandTotal(rate float64) float64 {
	return o.Total + o.Tax(rate)
}

// Receipt renders a plain-text receipt.
func (o Order) Receipt(rate float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order Receipt\n=============\n\n")
	fmt.Fprintf(&b, "Order ID: %s\n", o.ID)
	fmt.Fprintf(&b, "Date: %s\n", o.OrderDate.Format(time.DateOnly))
	fmt.Fprintf(&b, "Status: %s\n\n", strings.ToUpper(string(o.Status)))
	b.WriteString("Items:\n")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "- %s (%s) x%d - $%.2f\n", item.Product.Name, item.SelectedColor, item.Quantity, item.LineTotal())
	}
	fmt.Fprintf(&b, "\nSubtotal: $%.2f\n", o.Total)
	fmt.Fprintf(&b, "Tax: $%.2f\n", o.Tax(rate))
	fmt.Fprintf(&b, "Total: $%.2f\n\n", o.GrandTotal(rate))
	a := o.ShippingAddress
	fmt.Fprintf(&b, "Shipping Address:\n%s\n%s, %s %s\n%s\n", a.Street, a.City, a.State, a.ZipCode, a.Country)
	return b.String()
}

// CloneOrders deep-copies orders. A nil input yields an empty slice.
func CloneOrders(orders []Order) []Order {
	out := make([]Order, len(orders))
	for i, order := range orders {
		out[i] = order.Clone()
	}
	return out
}
