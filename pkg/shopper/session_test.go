package shopper

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	storefront "github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/pkg/activity"
	"github.com/goliatone/go-storefront/pkg/catalog"
	"github.com/goliatone/go-storefront/pkg/state"
)

var testNow = time.Date(2024, 6, 1, 10, 30, 0, 987654321, time.UTC)

func newTestSession(t *testing.T, store state.Store[Snapshot], opts ...Option) *Session {
	t.Helper()
	if store == nil {
		store = state.NewMemoryStore[Snapshot]()
	}
	opts = append([]Option{
		WithClock(func() time.Time { return testNow }),
		WithOrderIDs(func() string { return "ORDER-1" }),
	}, opts...)
	s, err := New(context.Background(), catalog.MustSample(), store, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func mustProduct(t *testing.T, s *Session, id string) storefront.Product {
	t.Helper()
	p, err := s.Catalog().Lookup(id)
	if err != nil {
		t.Fatalf("lookup %s: %v", id, err)
	}
	return p
}

func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
}

type failingStore struct {
	loadErr error
	saveErr error
	saves   int
}

func (f *failingStore) Load(context.Context, state.Ref) (Snapshot, state.Meta, bool, error) {
	return Snapshot{}, state.Meta{}, false, f.loadErr
}

func (f *failingStore) Save(context.Context, state.Ref, Snapshot, state.Meta) (state.Meta, error) {
	f.saves++
	return state.Meta{}, f.saveErr
}

func TestNewRequiresCatalogAndStore(t *testing.T) {
	ctx := context.Background()
	if _, err := New(ctx, nil, state.NewMemoryStore[Snapshot]()); err == nil {
		t.Fatalf("expected error without catalog")
	}
	if _, err := New(ctx, catalog.MustSample(), nil); err == nil {
		t.Fatalf("expected error without store")
	}
	_, err := New(ctx, catalog.MustSample(), state.NewMemoryStore[Snapshot](), WithRef(state.Ref{}))
	if !errors.Is(err, state.ErrInvalidRef) {
		t.Fatalf("expected ErrInvalidRef, got %v", err)
	}
}

func TestInitialState(t *testing.T) {
	s := newTestSession(t, nil)
	st := s.State()
	if !st.DarkMode {
		t.Fatalf("expected dark mode on by default")
	}
	if st.User != nil || st.IsAuthenticated() {
		t.Fatalf("expected signed out")
	}
	if st.CartItems == nil || st.WishlistItems == nil || st.Orders == nil {
		t.Fatalf("expected empty non-nil collections: %+v", st)
	}
}

func TestAddToCartSameKeyIncrements(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil)

	for range 2 {
		if err := s.AddToCart(ctx, "1", "Blue Titanium"); err != nil {
			t.Fatalf("AddToCart: %v", err)
		}
	}
	items := s.CartItems()
	if len(items) != 1 || items[0].Quantity != 2 || items[0].SelectedColor != "Blue Titanium" {
		t.Fatalf("expected single line with quantity 2, got %+v", items)
	}

	if err := s.AddToCart(ctx, "1", "Black Titanium"); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if got := len(s.CartItems()); got != 2 {
		t.Fatalf("expected a second line for another color, got %d", got)
	}
}

func TestAddToCartDefaultsAndErrors(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore[Snapshot]()
	s := newTestSession(t, store)

	if err := s.AddToCart(ctx, "6", ""); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if got := s.CartItems()[0].SelectedColor; got != "Black" {
		t.Fatalf("expected first color, got %q", got)
	}

	before := store.Saves()
	if err := s.AddToCart(ctx, "6", "Gold"); !errors.Is(err, storefront.ErrColorUnavailable) {
		t.Fatalf("expected ErrColorUnavailable, got %v", err)
	}
	if err := s.AddToCart(ctx, "404", ""); !errors.Is(err, storefront.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if store.Saves() != before || s.CartCount() != 1 {
		t.Fatalf("expected rejected adds to leave state and store untouched")
	}
}

func TestRemoveFromCartIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore[Snapshot]()
	s := newTestSession(t, store)
	mustOK(t, s.AddToCart(ctx, "1", ""))
	mustOK(t, s.AddToCart(ctx, "1", "White Titanium"))
	mustOK(t, s.AddToCart(ctx, "2", ""))

	before := s.CartItems()
	saves := store.Saves()
	if err := s.RemoveFromCart(ctx, "5"); err != nil {
		t.Fatalf("RemoveFromCart: %v", err)
	}
	if len(s.CartItems()) != len(before) || store.Saves() != saves {
		t.Fatalf("expected absent removal to be a no-op")
	}

	if err := s.RemoveFromCart(ctx, "1"); err != nil {
		t.Fatalf("RemoveFromCart: %v", err)
	}
	items := s.CartItems()
	if len(items) != 1 || items[0].ProductID != "2" {
		t.Fatalf("expected every color of product 1 removed, got %+v", items)
	}
}

func TestUpdateQuantityZeroMatchesRemove(t *testing.T) {
	ctx := context.Background()
	setup := func() *Session {
		s := newTestSession(t, nil)
		mustOK(t, s.AddToCart(ctx, "1", ""))
		mustOK(t, s.AddToCart(ctx, "1", "Blue Titanium"))
		mustOK(t, s.AddToCart(ctx, "3", ""))
		return s
	}

	updated := setup()
	if err := updated.UpdateCartItemQuantity(ctx, "1", 0); err != nil {
		t.Fatalf("UpdateCartItemQuantity: %v", err)
	}
	removed := setup()
	if err := removed.RemoveFromCart(ctx, "1"); err != nil {
		t.Fatalf("RemoveFromCart: %v", err)
	}

	a, b := updated.CartItems(), removed.CartItems()
	if len(a) != len(b) || len(a) != 1 || a[0].ProductID != b[0].ProductID {
		t.Fatalf("expected identical carts, got %+v vs %+v", a, b)
	}
}

func TestUpdateQuantityByProductAndByLine(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil)
	mustOK(t, s.AddToCart(ctx, "5", "Black"))
	mustOK(t, s.AddToCart(ctx, "5", "White"))

	if err := s.UpdateCartItemQuantity(ctx, "5", 3); err != nil {
		t.Fatalf("UpdateCartItemQuantity: %v", err)
	}
	for _, item := range s.CartItems() {
		if item.Quantity != 3 {
			t.Fatalf("expected product-wide update, got %+v", item)
		}
	}

	if err := s.UpdateCartLineQuantity(ctx, "5", "White", 1); err != nil {
		t.Fatalf("UpdateCartLineQuantity: %v", err)
	}
	items := s.CartItems()
	if items[0].Quantity != 3 || items[1].Quantity != 1 {
		t.Fatalf("expected keyed update to touch one line, got %+v", items)
	}

	if err := s.UpdateCartLineQuantity(ctx, "5", "Black", -1); err != nil {
		t.Fatalf("UpdateCartLineQuantity: %v", err)
	}
	items = s.CartItems()
	if len(items) != 1 || items[0].SelectedColor != "White" {
		t.Fatalf("expected only the Black line removed, got %+v", items)
	}
}

func TestCartTotalRecomputed(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil)
	mustOK(t, s.AddToCart(ctx, "1", ""))
	mustOK(t, s.AddToCart(ctx, "6", ""))
	mustOK(t, s.AddToCart(ctx, "6", ""))

	if got := s.CartTotal(); got != 1897 {
		t.Fatalf("expected 1897, got %v", got)
	}
	if got := s.CartCount(); got != 3 {
		t.Fatalf("expected 3 units, got %d", got)
	}

	mustOK(t, s.UpdateCartItemQuantity(ctx, "6", 1))
	if got := s.CartTotal(); got != 1548 {
		t.Fatalf("expected total to follow quantity change, got %v", got)
	}

	mustOK(t, s.ClearCart(ctx))
	if s.CartTotal() != 0 || len(s.CartItems()) != 0 {
		t.Fatalf("expected empty cart")
	}
}

func TestCartItemsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil)
	mustOK(t, s.AddToCart(ctx, "1", ""))

	items := s.CartItems()
	items[0].Quantity = 99
	items[0].Product.Colors[0] = "changed"
	fresh := s.CartItems()[0]
	if fresh.Quantity != 1 || fresh.Product.Colors[0] != "Natural Titanium" {
		t.Fatalf("expected session state isolated from callers, got %+v", fresh)
	}
}

func TestWishlist(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil)
	pixel := mustProduct(t, s, "3")

	for range 2 {
		if err := s.AddToWishlist(ctx, pixel); err != nil {
			t.Fatalf("AddToWishlist: %v", err)
		}
	}
	items := s.Wishlist()
	if len(items) != 1 {
		t.Fatalf("expected wishlist length 1, got %d", len(items))
	}
	if !items[0].AddedAt.Equal(testNow.Truncate(time.Millisecond)) {
		t.Fatalf("unexpected AddedAt %v", items[0].AddedAt)
	}
	if !s.IsInWishlist("3") || s.IsInWishlist("4") {
		t.Fatalf("unexpected membership")
	}

	in, err := s.ToggleWishlist(ctx, pixel)
	if err != nil || in {
		t.Fatalf("expected toggle to remove, got in=%v err=%v", in, err)
	}
	in, err = s.ToggleWishlist(ctx, pixel)
	if err != nil {
		t.Fatalf("ToggleWishlist: %v", err)
	}
	if !in || !s.IsInWishlist("3") {
		t.Fatalf("expected toggle to add back")
	}

	if err := s.RemoveFromWishlist(ctx, "3"); err != nil {
		t.Fatalf("RemoveFromWishlist: %v", err)
	}
	if err := s.RemoveFromWishlist(ctx, "3"); err != nil {
		t.Fatalf("RemoveFromWishlist absent: %v", err)
	}
	if len(s.Wishlist()) != 0 {
		t.Fatalf("expected empty wishlist")
	}
}

func TestAddOrderPrependsFrozenCopy(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil)
	mustOK(t, s.AddToCart(ctx, "2", ""))
	items := s.CartItems()

	first := storefront.NewOrder("A", items, testAddress(), testNow)
	second := storefront.NewOrder("B", items, testAddress(), testNow.Add(time.Hour))
	mustOK(t, s.AddOrder(ctx, first))
	mustOK(t, s.AddOrder(ctx, second))

	orders := s.Orders()
	if len(orders) != 2 || orders[0].ID != "B" || orders[1].ID != "A" {
		t.Fatalf("expected newest first, got %+v", orders)
	}
	if orders[0].Status != storefront.OrderProcessing {
		t.Fatalf("expected processing status, got %q", orders[0].Status)
	}

	first.Items[0].Quantity = 50
	mustOK(t, s.UpdateCartItemQuantity(ctx, "2", 7))
	got, err := s.Order("A")
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	if got.Items[0].Quantity != 1 {
		t.Fatalf("expected frozen order lines, got %+v", got.Items[0])
	}

	if _, err := s.Order("missing"); !errors.Is(err, storefront.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := state.NewSlotStore[Snapshot](state.NewMemorySlot())
	s := newTestSession(t, store)

	mustOK(t, s.SetUser(ctx, &storefront.User{ID: "uid-1", Email: "a@example.com"}))
	mustOK(t, s.AddToCart(ctx, "4", "Pale Green"))
	mustOK(t, s.AddToWishlist(ctx, mustProduct(t, s, "5")))
	order := storefront.NewOrder("R1", s.CartItems(), testAddress(), testNow)
	mustOK(t, s.AddOrder(ctx, order))
	if _, err := s.ToggleDarkMode(ctx); err != nil {
		t.Fatalf("ToggleDarkMode: %v", err)
	}
	s.SetSearchQuery("pixel")

	restored := newTestSession(t, store)
	st := restored.State()
	if st.DarkMode {
		t.Fatalf("expected dark mode preference restored")
	}
	if st.User == nil || st.User.ID != "uid-1" || !restored.IsAuthenticated() {
		t.Fatalf("expected user restored, got %+v", st.User)
	}
	if len(st.CartItems) != 1 || st.CartItems[0].SelectedColor != "Pale Green" {
		t.Fatalf("unexpected cart %+v", st.CartItems)
	}
	if len(st.WishlistItems) != 1 || st.WishlistItems[0].ProductID != "5" {
		t.Fatalf("unexpected wishlist %+v", st.WishlistItems)
	}
	if st.SearchQuery != "" {
		t.Fatalf("search query must not be persisted, got %q", st.SearchQuery)
	}

	got := st.Orders[0]
	if got.ID != order.ID || got.Total != order.Total || got.Status != order.Status ||
		got.ShippingAddress != order.ShippingAddress || len(got.Items) != 1 {
		t.Fatalf("order fields changed across round trip: %+v", got)
	}
	if !got.OrderDate.Equal(testNow.Truncate(time.Millisecond)) {
		t.Fatalf("expected millisecond precision order date, got %v", got.OrderDate)
	}
}

func TestCorruptSnapshotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	slot := state.NewMemorySlot()
	key, _ := DefaultRef.Identifier()
	mustOK(t, slot.Set(ctx, key, []byte(`{"version":1,"state":{"cartItems":"oops"`)))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	s := newTestSession(t, state.NewSlotStore[Snapshot](slot), WithLogger(logger))

	st := s.State()
	if len(st.CartItems) != 0 || !st.DarkMode {
		t.Fatalf("expected initial state, got %+v", st)
	}
	if !strings.Contains(logs.String(), "discarding stored snapshot") {
		t.Fatalf("expected corrupt snapshot to be logged, got %q", logs.String())
	}

	if err := s.AddToCart(ctx, "1", ""); err != nil {
		t.Fatalf("AddToCart after corrupt load: %v", err)
	}
	if restored := newTestSession(t, state.NewSlotStore[Snapshot](slot)); restored.CartCount() != 1 {
		t.Fatalf("expected next save to overwrite the corrupt value")
	}
}

func TestSaveFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{loadErr: errors.New("disk gone"), saveErr: errors.New("quota exceeded")}
	var logs bytes.Buffer
	s := newTestSession(t, store, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	if err := s.AddToCart(ctx, "1", ""); err != nil {
		t.Fatalf("expected save failure to be swallowed, got %v", err)
	}
	if s.CartCount() != 1 || store.saves != 1 {
		t.Fatalf("expected in-memory state authoritative, count=%d saves=%d", s.CartCount(), store.saves)
	}
	if !strings.Contains(logs.String(), "snapshot save failed") {
		t.Fatalf("expected save failure logged, got %q", logs.String())
	}
}

func TestSetUserKeepsShopperData(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil)
	mustOK(t, s.AddToCart(ctx, "1", ""))
	mustOK(t, s.AddToWishlist(ctx, mustProduct(t, s, "2")))

	mustOK(t, s.SetUser(ctx, &storefront.User{ID: "uid-1"}))
	mustOK(t, s.SetUser(ctx, nil))

	if s.IsAuthenticated() || s.User() != nil {
		t.Fatalf("expected signed out")
	}
	if s.CartCount() != 1 || len(s.Wishlist()) != 1 {
		t.Fatalf("expected guest data to survive sign-out")
	}
}

func TestSubscribeAppliesAuthEvents(t *testing.T) {
	s := newTestSession(t, nil)
	auth := make(chan *storefront.User, 3)
	auth <- &storefront.User{ID: "uid-1"}
	auth <- nil
	auth <- &storefront.User{ID: "uid-2", DisplayName: "Sam"}
	close(auth)

	if err := s.Subscribe(context.Background(), auth); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if u := s.User(); u == nil || u.ID != "uid-2" {
		t.Fatalf("expected last identity applied, got %+v", u)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Subscribe(ctx, make(chan *storefront.User)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestActivityEvents(t *testing.T) {
	ctx := context.Background()
	capture := &activity.CaptureHook{}
	s := newTestSession(t, nil, WithActivityHooks(capture), WithTenant("shop-1"))

	mustOK(t, s.SetUser(ctx, &storefront.User{ID: "uid-1"}))
	mustOK(t, s.AddToCart(ctx, "1", ""))
	mustOK(t, s.RemoveFromCart(ctx, "9"))
	mustOK(t, s.AddToWishlist(ctx, mustProduct(t, s, "3")))
	if _, err := s.ToggleDarkMode(ctx); err != nil {
		t.Fatalf("ToggleDarkMode: %v", err)
	}

	want := []string{
		activity.VerbUserSignedIn,
		activity.VerbCartItemAdded,
		activity.VerbWishlistItemAdded,
		activity.VerbDarkModeToggled,
	}
	got := capture.Verbs()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected verbs %v", got)
	}
	added := capture.Events[1]
	if added.ActorID != "uid-1" || added.TenantID != "shop-1" || added.Channel != activity.DefaultChannel {
		t.Fatalf("unexpected event identity %+v", added)
	}
	if added.Metadata["color"] != "Natural Titanium" {
		t.Fatalf("expected color metadata, got %+v", added.Metadata)
	}
}

func TestConcurrentMutationsAreSerialized(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore[Snapshot]()
	s := newTestSession(t, store)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.AddToCart(ctx, "6", "White"); err != nil {
				t.Errorf("AddToCart: %v", err)
			}
		}()
	}
	wg.Wait()

	items := s.CartItems()
	if len(items) != 1 || items[0].Quantity != 50 {
		t.Fatalf("expected one line with 50 units, got %+v", items)
	}
	if store.Saves() != 50 {
		t.Fatalf("expected a save per mutation, got %d", store.Saves())
	}
}
