package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SlotStore persists snapshots as JSON envelopes in a Slot.
type SlotStore[T any] struct {
	slot  Slot
	now   func() time.Time
	newID func() string
}

// SlotStoreOption configures a SlotStore.
type SlotStoreOption func(*slotStoreConfig)

type slotStoreConfig struct {
	now   func() time.Time
	newID func() string
}

// WithClock overrides the clock used to stamp Meta.UpdatedAt.
func WithClock(now func() time.Time) SlotStoreOption {
	return func(cfg *slotStoreConfig) {
		cfg.now = now
	}
}

// WithSnapshotIDs overrides the snapshot id generator.
func WithSnapshotIDs(newID func() string) SlotStoreOption {
	return func(cfg *slotStoreConfig) {
		cfg.newID = newID
	}
}

// NewSlotStore wraps slot.
func NewSlotStore[T any](slot Slot, opts ...SlotStoreOption) *SlotStore[T] {
	cfg := slotStoreConfig{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &SlotStore[T]{slot: slot, now: cfg.now, newID: cfg.newID}
}

type envelope[T any] struct {
	Version int  `json:"version"`
	Meta    Meta `json:"meta"`
	State   T    `json:"state"`
}

// Load decodes the snapshot stored for ref. A value that cannot be decoded,
// or that was written for another version, is reported as ErrCorruptSnapshot
// with ok=false.
func (s *SlotStore[T]) Load(ctx context.Context, ref Ref) (T, Meta, bool, error) {
	var zero T
	key, err := ref.Identifier()
	if err != nil {
		return zero, Meta{}, false, err
	}
	raw, ok, err := s.slot.Get(ctx, key)
	if err != nil {
		return zero, Meta{}, false, fmt.Errorf("state: load %q: %w", key, err)
	}
	if !ok {
		return zero, Meta{}, false, nil
	}

	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return zero, Meta{}, false, fmt.Errorf("%w: %q: %v", ErrCorruptSnapshot, key, err)
	}
	if env.Version != ref.Version {
		return zero, Meta{}, false, fmt.Errorf("%w: %q: version %d, want %d", ErrCorruptSnapshot, key, env.Version, ref.Version)
	}
	return env.State, env.Meta, true, nil
}

// Save overwrites the snapshot for ref. Missing SnapshotID and UpdatedAt are
// filled in; the returned Meta is what was written.
func (s *SlotStore[T]) Save(ctx context.Context, ref Ref, snapshot T, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}
	meta = cloneMeta(meta)
	if meta.SnapshotID == "" {
		meta.SnapshotID = s.newID()
	}
	if meta.UpdatedAt.IsZero() {
		meta.UpdatedAt = s.now().UTC().Truncate(time.Millisecond)
	}

	raw, err := json.Marshal(envelope[T]{Version: ref.Version, Meta: meta, State: snapshot})
	if err != nil {
		return Meta{}, fmt.Errorf("state: encode %q: %w", key, err)
	}
	if err := s.slot.Set(ctx, key, raw); err != nil {
		return Meta{}, fmt.Errorf("state: save %q: %w", key, err)
	}
	return meta, nil
}

// Clear removes the snapshot for ref.
func (s *SlotStore[T]) Clear(ctx context.Context, ref Ref) error {
	key, err := ref.Identifier()
	if err != nil {
		return err
	}
	return s.slot.Delete(ctx, key)
}
