package shopper

import (
	"context"
	"slices"

	storefront "github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/pkg/activity"
)

// AddToWishlist saves product. A product already on the list keeps its
// original entry.
func (s *Session) AddToWishlist(ctx context.Context, product storefront.Product) error {
	return s.update(ctx, func(st *ShopperState) ([]activity.Event, error) {
		return s.addWishlistLocked(st, product), nil
	})
}

// RemoveFromWishlist drops productID; absent ids are ignored.
func (s *Session) RemoveFromWishlist(ctx context.Context, productID string) error {
	return s.update(ctx, func(st *ShopperState) ([]activity.Event, error) {
		return s.removeWishlistLocked(st, productID), nil
	})
}

// ToggleWishlist adds product when absent and removes it otherwise. It
// reports whether the product is on the list afterwards.
func (s *Session) ToggleWishlist(ctx context.Context, product storefront.Product) (bool, error) {
	var added bool
	err := s.update(ctx, func(st *ShopperState) ([]activity.Event, error) {
		if wishlistIndex(st.WishlistItems, product.ID) >= 0 {
			return s.removeWishlistLocked(st, product.ID), nil
		}
		added = true
		return s.addWishlistLocked(st, product), nil
	})
	return added, err
}

func (s *Session) addWishlistLocked(st *ShopperState, product storefront.Product) []activity.Event {
	if product.ID == "" || wishlistIndex(st.WishlistItems, product.ID) >= 0 {
		return nil
	}
	st.WishlistItems = append(st.WishlistItems, storefront.NewWishlistItem(product, s.cfg.now()))

	input := s.eventInput(st)
	input.ProductID = product.ID
	return []activity.Event{activity.BuildWishlistItemAddedEvent(input)}
}

func (s *Session) removeWishlistLocked(st *ShopperState, productID string) []activity.Event {
	i := wishlistIndex(st.WishlistItems, productID)
	if i < 0 {
		return nil
	}
	st.WishlistItems = slices.Delete(st.WishlistItems, i, i+1)

	input := s.eventInput(st)
	input.ProductID = productID
	return []activity.Event{activity.BuildWishlistItemRemovedEvent(input)}
}

// IsInWishlist reports whether productID is saved.
func (s *Session) IsInWishlist(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return wishlistIndex(s.state.WishlistItems, productID) >= 0
}

// Wishlist returns a copy of the saved items in the order they were added.
func (s *Session) Wishlist() []storefront.WishlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storefront.CloneWishlistItems(s.state.WishlistItems)
}

func wishlistIndex(items []storefront.WishlistItem, productID string) int {
	return slices.IndexFunc(items, func(item storefront.WishlistItem) bool {
		return item.ProductID == productID
	})
}
