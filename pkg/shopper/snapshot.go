package shopper

import (
	storefront "github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/pkg/state"
)

// DefaultRef is the durable key shopper snapshots are written under.
var DefaultRef = state.Ref{Namespace: "storefront", Name: "shopper", Version: 1}

// Snapshot is the persisted subset of the shopper state.
type Snapshot struct {
	DarkMode      bool                      `json:"darkMode"`
	User          *storefront.User          `json:"user"`
	CartItems     []storefront.CartItem     `json:"cartItems"`
	WishlistItems []storefront.WishlistItem `json:"wishlistItems"`
	Orders        []storefront.Order        `json:"orders"`
}

// ShopperState is a point-in-time copy of everything a Session holds.
type ShopperState struct {
	DarkMode      bool
	User          *storefront.User
	CartItems     []storefront.CartItem
	WishlistItems []storefront.WishlistItem
	Orders        []storefront.Order
	SearchQuery   string
}

// IsAuthenticated is derived from User, never stored separately.
func (s ShopperState) IsAuthenticated() bool {
	return s.User != nil
}

func initialState() ShopperState {
	return ShopperState{
		DarkMode:      true,
		CartItems:     []storefront.CartItem{},
		WishlistItems: []storefront.WishlistItem{},
		Orders:        []storefront.Order{},
	}
}

func (s ShopperState) clone() ShopperState {
	return ShopperState{
		DarkMode:      s.DarkMode,
		User:          s.User.Clone(),
		CartItems:     storefront.CloneCartItems(s.CartItems),
		WishlistItems: storefront.CloneWishlistItems(s.WishlistItems),
		Orders:        storefront.CloneOrders(s.Orders),
		SearchQuery:   s.SearchQuery,
	}
}

func (s ShopperState) snapshot() Snapshot {
	return Snapshot{
		DarkMode:      s.DarkMode,
		User:          s.User.Clone(),
		CartItems:     storefront.CloneCartItems(s.CartItems),
		WishlistItems: storefront.CloneWishlistItems(s.WishlistItems),
		Orders:        storefront.CloneOrders(s.Orders),
	}
}

func stateFromSnapshot(snap Snapshot) ShopperState {
	return ShopperState{
		DarkMode:      snap.DarkMode,
		User:          snap.User.Clone(),
		CartItems:     storefront.CloneCartItems(snap.CartItems),
		WishlistItems: storefront.CloneWishlistItems(snap.WishlistItems),
		Orders:        storefront.CloneOrders(snap.Orders),
	}
}
