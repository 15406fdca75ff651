package activity

import (
	"maps"
	"strings"
	"time"
)

// Verbs emitted by the shopper session.
const (
	VerbCartItemAdded       = "cart.item.added"
	VerbCartItemRemoved     = "cart.item.removed"
	VerbCartItemUpdated     = "cart.item.updated"
	VerbCartCleared         = "cart.cleared"
	VerbWishlistItemAdded   = "wishlist.item.added"
	VerbWishlistItemRemoved = "wishlist.item.removed"
	VerbOrderPlaced         = "order.placed"
	VerbUserSignedIn        = "user.signed_in"
	VerbUserSignedOut       = "user.signed_out"
	VerbDarkModeToggled     = "preferences.dark_mode.toggled"
)

// ShopperEventInput carries the fields the shopper builders draw from. Only
// the ones relevant to a verb are read.
type ShopperEventInput struct {
	ActorID    string
	TenantID   string
	Channel    string
	ProductID  string
	Color      string
	Quantity   int
	OrderID    string
	Total      float64
	DarkMode   bool
	Metadata   map[string]any
	OccurredAt time.Time
}

func BuildCartItemAddedEvent(input ShopperEventInput) Event {
	return buildCartItemEvent(VerbCartItemAdded, input)
}

func BuildCartItemRemovedEvent(input ShopperEventInput) Event {
	return buildCartItemEvent(VerbCartItemRemoved, input)
}

func BuildCartItemUpdatedEvent(input ShopperEventInput) Event {
	return buildCartItemEvent(VerbCartItemUpdated, input)
}

// BuildCartClearedEvent uses the actor as object id, or "cart" for guests.
func BuildCartClearedEvent(input ShopperEventInput) Event {
	return baseEvent(VerbCartCleared, "cart", fallback(input.ActorID, "cart"), input, nil)
}

func BuildWishlistItemAddedEvent(input ShopperEventInput) Event {
	return baseEvent(VerbWishlistItemAdded, "wishlist.item", input.ProductID, input, nil)
}

func BuildWishlistItemRemovedEvent(input ShopperEventInput) Event {
	return baseEvent(VerbWishlistItemRemoved, "wishlist.item", input.ProductID, input, nil)
}

// BuildOrderPlacedEvent records the order total and unit count.
func BuildOrderPlacedEvent(input ShopperEventInput) Event {
	return baseEvent(VerbOrderPlaced, "order", input.OrderID, input, map[string]any{
		"total":      input.Total,
		"item_count": input.Quantity,
	})
}

func BuildUserSignedInEvent(input ShopperEventInput) Event {
	return baseEvent(VerbUserSignedIn, "user", input.ActorID, input, nil)
}

func BuildUserSignedOutEvent(input ShopperEventInput) Event {
	return baseEvent(VerbUserSignedOut, "user", input.ActorID, input, nil)
}

func BuildDarkModeToggledEvent(input ShopperEventInput) Event {
	return baseEvent(VerbDarkModeToggled, "preferences", "dark_mode", input, map[string]any{
		"dark_mode": input.DarkMode,
	})
}

func buildCartItemEvent(verb string, input ShopperEventInput) Event {
	extra := map[string]any{"quantity": input.Quantity}
	if color := strings.TrimSpace(input.Color); color != "" {
		extra["color"] = color
	}
	return baseEvent(verb, "cart.item", input.ProductID, input, extra)
}

func baseEvent(verb, objectType, objectID string, input ShopperEventInput, extra map[string]any) Event {
	metadata := maps.Clone(input.Metadata)
	if len(extra) > 0 && metadata == nil {
		metadata = make(map[string]any, len(extra))
	}
	for key, value := range extra {
		metadata[key] = value
	}
	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   strings.TrimSpace(objectID),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
