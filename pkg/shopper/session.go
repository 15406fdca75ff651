package shopper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	storefront "github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/pkg/activity"
	"github.com/goliatone/go-storefront/pkg/state"
)

// Session owns the state of a single shopper. All methods are safe for
// concurrent use; mutations are applied one at a time and each is persisted
// before the call returns.
type Session struct {
	mu      sync.Mutex
	state   ShopperState
	catalog *storefront.Catalog
	store   state.Store[Snapshot]
	cfg     sessionConfig
}

// New builds a Session and rehydrates it from store. A missing or corrupt
// snapshot starts the shopper from the empty state.
func New(ctx context.Context, catalog *storefront.Catalog, store state.Store[Snapshot], opts ...Option) (*Session, error) {
	if catalog == nil {
		return nil, errors.New("shopper: catalog is required")
	}
	if store == nil {
		return nil, errors.New("shopper: store is required")
	}
	cfg := defaultSessionConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if _, err := cfg.ref.Identifier(); err != nil {
		return nil, fmt.Errorf("shopper: %w", err)
	}

	s := &Session{
		state:   initialState(),
		catalog: catalog,
		store:   store,
		cfg:     cfg,
	}
	s.rehydrate(ctx)
	return s, nil
}

func (s *Session) rehydrate(ctx context.Context) {
	snap, meta, ok, err := s.store.Load(ctx, s.cfg.ref)
	if err != nil {
		s.cfg.logger.Warn("shopper: discarding stored snapshot",
			slog.String("ref", s.cfg.ref.String()),
			slog.Any("error", err),
		)
		return
	}
	if !ok {
		return
	}
	s.state = stateFromSnapshot(snap)
	s.cfg.logger.Debug("shopper: restored snapshot",
		slog.String("ref", s.cfg.ref.String()),
		slog.String("snapshot_id", meta.SnapshotID),
		slog.Int("cart_lines", len(s.state.CartItems)),
		slog.Int("orders", len(s.state.Orders)),
	)
}

// mutation applies a change to st and returns the events describing it. A
// nil event list means nothing changed and nothing is saved.
type mutation func(st *ShopperState) ([]activity.Event, error)

func (s *Session) update(ctx context.Context, fn mutation) error {
	s.mu.Lock()
	events, err := fn(&s.state)
	if err != nil || len(events) == 0 {
		s.mu.Unlock()
		return err
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.emit(ctx, events)
	return nil
}

func (s *Session) persistLocked(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := s.store.Save(ctx, s.cfg.ref, s.state.snapshot(), state.Meta{}); err != nil {
		s.cfg.logger.Error("shopper: snapshot save failed",
			slog.String("ref", s.cfg.ref.String()),
			slog.Any("error", err),
		)
	}
}

func (s *Session) emit(ctx context.Context, events []activity.Event) {
	if !s.cfg.emitter.Enabled() {
		return
	}
	for _, event := range events {
		if err := s.cfg.emitter.Emit(ctx, event); err != nil {
			s.cfg.logger.Warn("shopper: activity hook failed",
				slog.String("verb", event.Verb),
				slog.Any("error", err),
			)
		}
	}
}

// eventInput seeds builder input with the current actor and clock.
func (s *Session) eventInput(st *ShopperState) activity.ShopperEventInput {
	input := activity.ShopperEventInput{
		TenantID:   s.cfg.tenantID,
		OccurredAt: s.cfg.now().UTC(),
	}
	if st.User != nil {
		input.ActorID = st.User.ID
	}
	return input
}

// State returns a deep copy of the current state.
func (s *Session) State() ShopperState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Catalog returns the catalog the session resolves product ids against.
func (s *Session) Catalog() *storefront.Catalog {
	return s.catalog
}
