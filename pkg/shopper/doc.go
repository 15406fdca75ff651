// Package shopper holds one shopper's session state: cart, wishlist, order
// history, signed-in user, search text and the dark mode preference.
//
// A Session is rebuilt from a state.Store when created and writes a full
// snapshot back after every successful mutation. Persistence failures are
// logged and never surface to callers; the in-memory state stays
// authoritative for the lifetime of the Session.
//
// Snapshot layout (JSON, key storefront/shopper/v1):
//
//	{"darkMode": true, "user": {...}, "cartItems": [...], "wishlistItems": [...], "orders": [...]}
//
// The search query is session-only and never persisted.
package shopper
